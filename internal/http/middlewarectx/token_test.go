package middlewarectx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/account-directory/internal/services/directory"
)

type MockMatcher struct {
	mock.Mock
}

func (m *MockMatcher) MatchToken(ctx context.Context, id int64, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func TestOwnerTokenMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		header         string
		setupMock      func(*MockMatcher)
		expectedStatus int
	}{
		{
			name:   "owner token",
			userID: "1",
			header: "Bearer tok",
			setupMock: func(m *MockMatcher) {
				m.On("MatchToken", mock.Anything, int64(1), "tok").Return(nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing header",
			userID:         "1",
			setupMock:      func(_ *MockMatcher) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong scheme",
			userID:         "1",
			header:         "Basic abc",
			setupMock:      func(_ *MockMatcher) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "foreign token",
			userID: "1",
			header: "Bearer other",
			setupMock: func(m *MockMatcher) {
				m.On("MatchToken", mock.Anything, int64(1), "other").Return(directory.ErrUnauthorized).Once()
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "absent user",
			userID: "2",
			header: "Bearer tok",
			setupMock: func(m *MockMatcher) {
				m.On("MatchToken", mock.Anything, int64(2), "tok").Return(directory.ErrNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "malformed id",
			userID:         "abc",
			header:         "Bearer tok",
			setupMock:      func(_ *MockMatcher) {},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "matcher failure",
			userID: "1",
			header: "Bearer tok",
			setupMock: func(m *MockMatcher) {
				m.On("MatchToken", mock.Anything, int64(1), "tok").Return(errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matcher := new(MockMatcher)
			tt.setupMock(matcher)

			req := httptest.NewRequest(http.MethodPut, "/users/"+tt.userID, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("userID", tt.userID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			rec := httptest.NewRecorder()

			OwnerTokenMiddleware(matcher, newNoopLogger())(okHandler(t)).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			matcher.AssertExpectations(t)
		})
	}
}
