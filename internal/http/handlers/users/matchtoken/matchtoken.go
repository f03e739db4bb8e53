// Package matchtoken реализует HTTP-обработчик проверки принадлежности токена.
package matchtoken

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
	"github.com/magabrotheeeer/account-directory/internal/lib/sl"
	"github.com/magabrotheeeer/account-directory/internal/services/directory"
)

// Request — токен, который нужно сверить с владельцем.
type Request struct {
	Token string `json:"token" validate:"required"`
}

// Service описывает интерфейс проверки токена.
type Service interface {
	MatchToken(ctx context.Context, id int64, token string) error
}

// Handler обрабатывает запросы проверки токена.
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
// @Summary Проверить токен
// @Description Проверяет, что токен принадлежит пользователю с указанным ID.
// @Tags Users
// @Accept json
// @Produce json
// @Param userID path int true "ID пользователя"
// @Param request body Request true "Токен"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Токен не совпадает"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /users/{userID}/edit [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.matchtoken"

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

	err = h.service.MatchToken(r.Context(), id, req.Token)
	switch {
	case errors.Is(err, directory.ErrNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(directory.ErrNotFound.Error()))
		return
	case errors.Is(err, directory.ErrUnauthorized):
		log.Info("token does not match", slog.Int64("id", id))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(directory.ErrUnauthorized.Error()))
		return
	case err != nil:
		log.Error("failed to match token", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not match token"))
		return
	}

	render.JSON(w, r, response.OK())
}
