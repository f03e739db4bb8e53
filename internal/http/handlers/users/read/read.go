// Package read реализует HTTP-обработчик получения учётной записи по ID.
//
// Некорректный и несуществующий ID дают один и тот же ответ 404.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/account-directory/internal/http/response"
	"github.com/magabrotheeeer/account-directory/internal/http/views"
	"github.com/magabrotheeeer/account-directory/internal/lib/sl"
	"github.com/magabrotheeeer/account-directory/internal/models"
	"github.com/magabrotheeeer/account-directory/internal/services/directory"
)

// Service описывает интерфейс бизнес-логики чтения учётной записи.
type Service interface {
	GetByID(ctx context.Context, id int64) (*models.Account, error)
}

// Handler обрабатывает запросы на получение учётной записи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить пользователя
// @Tags Users
// @Produce json
// @Param userID path int true "ID пользователя"
// @Success 200 {object} response.Response{data=views.User}
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/{userID} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.read"

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

	acc, err := h.service.GetByID(r.Context(), id)
	switch {
	case errors.Is(err, directory.ErrNotFound):
		log.Info("user not found", slog.Int64("id", id))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(directory.ErrNotFound.Error()))
		return
	case err != nil:
		log.Error("failed to read user", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read user"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(views.NewUser(acc)))
}
