package subscription_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/cakequest/landing-api/internal/handlers/middleware"
	handler "github.com/cakequest/landing-api/internal/handlers/subscription"
	service "github.com/cakequest/landing-api/internal/services/subscription"
)

type mockService struct {
	subErr error
	calls  int
}

func (m *mockService) Subscribe(_ context.Context, _ string) error {
	m.calls++
	return m.subErr
}

func setupRouter(svc *mockService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(middleware.CORS())
	r.NoMethod(handler.MethodNotAllowed)

	h := handler.NewHandler(svc)
	r.POST("/api/collect-email", h.CollectEmail)

	return r
}

func TestCollectEmailEndpoint(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		mockErr  error
		wantCode int
		wantBody string
	}{
		{
			name:     "malformed json",
			body:     `{"email": `,
			wantCode: http.StatusBadRequest,
			wantBody: `{"message":"Invalid email address"}`,
		},
		{
			name:     "invalid email",
			body:     `{"email": "not-an-email"}`,
			mockErr:  service.ErrInvalidEmail,
			wantCode: http.StatusBadRequest,
			wantBody: `{"message":"Invalid email address"}`,
		},
		{
			name:     "duplicate email",
			body:     `{"email": "user@example.com"}`,
			mockErr:  service.ErrAlreadySubscribed,
			wantCode: http.StatusBadRequest,
			wantBody: `{"message":"Email already registered"}`,
		},
		{
			name:     "store failure",
			body:     `{"email": "user@example.com"}`,
			mockErr:  errors.New("list subscribers: sheet unreachable"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"message":"Error processing subscription","error":"list subscribers: sheet unreachable"}`,
		},
		{
			name:     "success",
			body:     `{"email": "user@example.com"}`,
			wantCode: http.StatusOK,
			wantBody: `{"message":"Successfully subscribed!"}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := &mockService{subErr: tc.mockErr}
			router := setupRouter(mock)

			req := httptest.NewRequest(http.MethodPost, "/api/collect-email",
				strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tc.wantCode, w.Code)
			assert.JSONEq(t, tc.wantBody, w.Body.String())
		})
	}
}

func TestCollectEmailMethodNotAllowed(t *testing.T) {
	mock := &mockService{}
	router := setupRouter(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/collect-email", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"message":"Method not allowed"}`, w.Body.String())
	assert.Zero(t, mock.calls)
}

func TestCollectEmailPreflight(t *testing.T) {
	mock := &mockService{}
	router := setupRouter(mock)

	req := httptest.NewRequest(http.MethodOptions, "/api/collect-email", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET,OPTIONS,PATCH,DELETE,POST,PUT", w.Header().Get("Access-Control-Allow-Methods"))
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Headers"))
	assert.Zero(t, mock.calls)
}
