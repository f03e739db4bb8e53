// Package status реализует HTTP-обработчик переключения статуса присутствия.
package status

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
	"github.com/magabrotheeeer/account-directory/internal/lib/sl"
	"github.com/magabrotheeeer/account-directory/internal/models"
	"github.com/magabrotheeeer/account-directory/internal/services/directory"
)

// Service описывает интерфейс переключения статуса.
type Service interface {
	ToggleStatus(ctx context.Context, id int64) (models.Status, error)
}

// Handler обрабатывает запросы переключения статуса.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Переключить статус
// @Description Меняет ONLINE на OFFLINE и наоборот, возвращает новый статус.
// @Tags Users
// @Produce json
// @Param userID path int true "ID пользователя"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse "Токен не принадлежит пользователю"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /users/{userID} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.status"

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

	status, err := h.service.ToggleStatus(r.Context(), id)
	switch {
	case errors.Is(err, directory.ErrNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(directory.ErrNotFound.Error()))
		return
	case err != nil:
		log.Error("failed to toggle status", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not change status"))
		return
	}

	log.Info("status changed", slog.Int64("id", id), slog.String("status", string(status)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status": status,
	}))
}
