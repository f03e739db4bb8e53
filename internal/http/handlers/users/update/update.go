// Package update реализует HTTP-обработчик обновления профиля учётной записи.
//
// Обрабатываются только поля username и birthday, отсутствующее поле не меняется.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/account-directory/internal/http/response"
	"github.com/magabrotheeeer/account-directory/internal/http/views"
	"github.com/magabrotheeeer/account-directory/internal/lib/sl"
	"github.com/magabrotheeeer/account-directory/internal/models"
	"github.com/magabrotheeeer/account-directory/internal/services/directory"
)

// Request — входные данные обновления. Nil означает "не передано".
type Request struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=1,max=64"`
	Birthday *string `json:"birthday,omitempty" example:"1990-05-17"`
}

// Service описывает интерфейс бизнес-логики обновления.
type Service interface {
	Update(ctx context.Context, id int64, patch models.AccountPatch) error
}

// Handler обрабатывает запросы на обновление профиля.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить профиль
// @Description Меняет имя пользователя и/или дату рождения. Новое имя должно быть свободно.
// @Tags Users
// @Accept json
// @Param userID path int true "ID пользователя"
// @Param request body Request true "Изменяемые поля"
// @Success 204
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или дата"
// @Failure 401 {object} response.ErrorResponse "Токен не принадлежит пользователю"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 409 {object} response.ErrorResponse "Имя пользователя занято"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /users/{userID}/edit [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		log.Info("failed to decode id from url", sl.Err(err))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(directory.ErrNotFound.Error()))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	patch := models.AccountPatch{Username: req.Username}
	if req.Birthday != nil {
		birthday, err := views.ParseDate(*req.Birthday)
		if err != nil {
			log.Info("failed to parse birthday", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("birthday must be in format "+views.DateLayout))
			return
		}
		patch.Birthday = &birthday
	}

	err = h.service.Update(r.Context(), id, patch)
	switch {
	case errors.Is(err, directory.ErrNotFound):
		log.Info("user not found", slog.Int64("id", id))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(directory.ErrNotFound.Error()))
		return
	case errors.Is(err, directory.ErrConflict):
		log.Info("username already taken", slog.Int64("id", id))
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error("username already taken"))
		return
	case err != nil:
		log.Error("failed to update user", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update user"))
		return
	}

	log.Info("user updated", slog.Int64("id", id))
	render.NoContent(w, r)
}
