// Package list реализует HTTP-обработчик получения всех учётных записей.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/account-directory/internal/http/response"
	"github.com/magabrotheeeer/account-directory/internal/http/views"
	"github.com/magabrotheeeer/account-directory/internal/lib/sl"
	"github.com/magabrotheeeer/account-directory/internal/models"
)

// Service описывает интерфейс бизнес-логики получения списка учётных записей.
type Service interface {
	ListAll(ctx context.Context) ([]*models.Account, error)
}

// Handler обрабатывает запросы на получение списка учётных записей.
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
// @Summary Список пользователей
// @Description Возвращает все учётные записи в порядке возрастания ID.
// @Tags Users
// @Produce json
// @Success 200 {object} response.Response{data=[]views.User}
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	accounts, err := h.service.ListAll(r.Context())
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list users"))
		return
	}

	log.Debug("users listed", slog.Int("count", len(accounts)))
	render.JSON(w, r, response.StatusOKWithData(views.NewUsers(accounts)))
}
