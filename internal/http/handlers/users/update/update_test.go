package update

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/account-directory/internal/models"
	"github.com/magabrotheeeer/account-directory/internal/services/directory"
)

// MockService реализует интерфейс update.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Update(ctx context.Context, id int64, patch models.AccountPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func TestUpdateHandler(t *testing.T) {
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
			name:   "rename and birthday",
			userID: "1",
			body:   `{"username":"bob","birthday":"1990-05-17"}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, int64(1), mock.MatchedBy(func(p models.AccountPatch) bool {
					return p.Username != nil && *p.Username == "bob" &&
						p.Birthday != nil && p.Birthday.Equal(time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC))
				})).Return(nil).Once()
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:   "birthday only",
			userID: "1",
			body:   `{"birthday":"2001-01-02"}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, int64(1), mock.MatchedBy(func(p models.AccountPatch) bool {
					return p.Username == nil && p.Birthday != nil
				})).Return(nil).Once()
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "malformed id",
			userID:         "x1",
			body:           `{"username":"bob"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"user not found"}`,
		},
		{
			name:           "invalid json",
			userID:         "1",
			body:           `{`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "invalid birthday",
			userID:         "1",
			body:           `{"birthday":"17.05.1990"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"birthday must be in format 2006-01-02"}`,
		},
		{
			name:   "absent user",
			userID: "42",
			body:   `{"username":"bob"}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, int64(42), mock.Anything).Return(directory.ErrNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"user not found"}`,
		},
		{
			name:   "username taken",
			userID: "1",
			body:   `{"username":"carol"}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, int64(1), mock.Anything).Return(directory.ErrConflict).Once()
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"username already taken"}`,
		},
		{
			name:   "service error",
			userID: "1",
			body:   `{"username":"carol"}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, int64(1), mock.Anything).Return(errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not update user"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPut, "/users/"+tt.userID+"/edit", bytes.NewBufferString(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("userID", tt.userID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			rec := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, strings.TrimSpace(rec.Body.String()))
			} else {
				assert.Empty(t, rec.Body.String())
			}
			svc.AssertExpectations(t)
		})
	}
}
