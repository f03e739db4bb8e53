// Package middlewarectx содержит HTTP middleware сервиса: ограничение частоты запросов,
// сбор метрик Prometheus и проверку токена владельца учётной записи.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/account-directory/internal/http/response"
	"github.com/magabrotheeeer/account-directory/internal/lib/sl"
	"github.com/magabrotheeeer/account-directory/internal/services/directory"
)

// TokenMatcher проверяет, что токен принадлежит учётной записи.
type TokenMatcher interface {
	MatchToken(ctx context.Context, id int64, token string) error
}

// OwnerTokenMiddleware пропускает запрос, только если токен из заголовка
// Authorization: Bearer <token> принадлежит учётной записи {userID} из пути.
func OwnerTokenMiddleware(matcher TokenMatcher, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.OwnerToken"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Info("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
			if err != nil {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error(directory.ErrNotFound.Error()))
				return
			}

			err = matcher.MatchToken(r.Context(), id, token)
			switch {
			case errors.Is(err, directory.ErrNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error(directory.ErrNotFound.Error()))
				return
			case errors.Is(err, directory.ErrUnauthorized):
				log.Info("token does not belong to user", slog.Int64("id", id))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error(directory.ErrUnauthorized.Error()))
				return
			case err != nil:
				log.Error("failed to match token", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("could not verify token"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
