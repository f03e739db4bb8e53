// Package logout реализует HTTP-обработчик выхода пользователя по токену.
package logout

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/account-directory/internal/http/response"
	"github.com/magabrotheeeer/account-directory/internal/lib/sl"
	"github.com/magabrotheeeer/account-directory/internal/services/directory"
)

// Request — токен пользователя, который выходит.
type Request struct {
	Token string `json:"token" validate:"required"`
}

// Service описывает интерфейс бизнес-логики выхода.
type Service interface {
	Logout(ctx context.Context, token string) error
}

// Handler обрабатывает HTTP-запросы выхода.
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
// @Summary Выход пользователя
// @Description Переводит владельца токена в OFFLINE.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Токен"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Токен не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /login [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	err := h.service.Logout(r.Context(), req.Token)
	switch {
	case errors.Is(err, directory.ErrNotFound):
		log.Info("unknown token")
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(directory.ErrNotFound.Error()))
		return
	case err != nil:
		log.Error("logout failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not log out"))
		return
	}

	render.JSON(w, r, response.OK())
}
