package matchtoken

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/account-directory/internal/services/directory"
)

// MockService реализует интерфейс matchtoken.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) MatchToken(ctx context.Context, id int64, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func TestMatchTokenHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		userID         string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "token matches",
			userID: "1",
			body:   `{"token":"tok-1"}`,
			setupMock: func(m *MockService) {
				m.On("MatchToken", mock.Anything, int64(1), "tok-1").Return(nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK"}`,
		},
		{
			name:   "token mismatch",
			userID: "1",
			body:   `{"token":"other"}`,
			setupMock: func(m *MockService) {
				m.On("MatchToken", mock.Anything, int64(1), "other").Return(directory.ErrUnauthorized).Once()
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:   "absent user",
			userID: "9",
			body:   `{"token":"tok-1"}`,
			setupMock: func(m *MockService) {
				m.On("MatchToken", mock.Anything, int64(9), "tok-1").Return(directory.ErrNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"user not found"}`,
		},
		{
			name:           "missing token",
			userID:         "1",
			body:           `{}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field Token is a required field"}`,
		},
		{
			name:           "malformed id",
			userID:         "one",
			body:           `{"token":"tok-1"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"user not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/users/"+tt.userID+"/edit", bytes.NewBufferString(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("userID", tt.userID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			rec := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, strings.TrimSpace(rec.Body.String()))
			svc.AssertExpectations(t)
		})
	}
}
