package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"gafroshka-cart/internal/mocks"
	"gafroshka-cart/internal/session"
	myErr "gafroshka-cart/internal/types/errors"
)

func TestSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger := zaptest.NewLogger(t).Sugar()

	tests := []struct {
		name           string
		mockBehavior   func(m *mocks.MockSessionRepo)
		expectedStatus int
		expectedID     string
		expectedToken  string
	}{
		{
			name: "existing session is extended",
			mockBehavior: func(m *mocks.MockSessionRepo) {
				m.EXPECT().CheckSession(gomock.Any()).Return(&session.Session{ID: "sess-1"}, nil)
				m.EXPECT().ExtendSession(gomock.Any(), "sess-1").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedID:     "sess-1",
		},
		{
			name: "extend failure is not fatal",
			mockBehavior: func(m *mocks.MockSessionRepo) {
				m.EXPECT().CheckSession(gomock.Any()).Return(&session.Session{ID: "sess-1"}, nil)
				m.EXPECT().ExtendSession(gomock.Any(), "sess-1").Return(errors.New("redis down"))
			},
			expectedStatus: http.StatusOK,
			expectedID:     "sess-1",
		},
		{
			name: "new session is created",
			mockBehavior: func(m *mocks.MockSessionRepo) {
				m.EXPECT().CheckSession(gomock.Any()).Return(nil, myErr.ErrNoAuth)
				m.EXPECT().CreateSession(gomock.Any()).Return(&session.Session{ID: "sess-new"}, "token-new", nil)
			},
			expectedStatus: http.StatusOK,
			expectedID:     "sess-new",
			expectedToken:  "token-new",
		},
		{
			name: "unknown session is replaced",
			mockBehavior: func(m *mocks.MockSessionRepo) {
				m.EXPECT().CheckSession(gomock.Any()).Return(nil, myErr.ErrSessionNotFound)
				m.EXPECT().CreateSession(gomock.Any()).Return(&session.Session{ID: "sess-new"}, "token-new", nil)
			},
			expectedStatus: http.StatusOK,
			expectedID:     "sess-new",
			expectedToken:  "token-new",
		},
		{
			name: "session store failure keeps the client session",
			mockBehavior: func(m *mocks.MockSessionRepo) {
				m.EXPECT().CheckSession(gomock.Any()).
					Return(nil, fmt.Errorf("%w: %v", myErr.ErrSessionInternal, errors.New("connection refused")))
			},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name: "session cannot be created",
			mockBehavior: func(m *mocks.MockSessionRepo) {
				m.EXPECT().CheckSession(gomock.Any()).Return(nil, myErr.ErrSessionIsExpired)
				m.EXPECT().CreateSession(gomock.Any()).Return(nil, "", errors.New("redis down"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := mocks.NewMockSessionRepo(ctrl)
			tc.mockBehavior(repo)

			var gotID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				sess, ok := GetSessionFromContext(r.Context())
				if ok {
					gotID = sess.ID
				}
				w.WriteHeader(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)

			Session(repo, logger)(next).ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.Equal(t, tc.expectedID, gotID)
			assert.Equal(t, tc.expectedToken, w.Header().Get(SessionTokenHeader))
		})
	}
}

func TestMetricsMiddleware_PassesStatus(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	MetricsMiddleware(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
}
