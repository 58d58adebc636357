package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uetodo/uetodo-api/internal/config"
	"github.com/uetodo/uetodo-api/internal/domain"
	"github.com/uetodo/uetodo-api/internal/mocks"
	"github.com/uetodo/uetodo-api/internal/platform/ratelimit"
	"github.com/uetodo/uetodo-api/internal/service/auth"
)

const (
	validToken = "valid-access-token"
	resetToken = "valid-password-reset-token"
)

type denyLimiter struct{ calls int }

func (l *denyLimiter) Allow(context.Context, string) (*ratelimit.Result, error) {
	l.calls++
	return &ratelimit.Result{Allowed: false, Limit: 5, ResetAt: time.Now().Add(30 * time.Second)}, nil
}

func newTestApp(userID uuid.UUID) *application {
	jwt := &mocks.MockJWTService{
		ValidateTokenFn: func(_ context.Context, token string, tokenType auth.TokenType) (*auth.Claims, error) {
			switch {
			case token == validToken && tokenType == auth.TokenTypeAccess,
				token == resetToken && tokenType == auth.TokenTypePasswordReset:
				return &auth.Claims{UserID: userID, TokenType: tokenType}, nil
			case token == validToken, token == resetToken:
				return nil, auth.ErrWrongTokenType
			}
			return nil, auth.ErrInvalidToken
		},
	}

	return &application{
		config: &config.Config{Server: config.ServerConfig{
			Port:           8080,
			LogLevel:       "info",
			AllowedOrigins: []string{"https://app.uetodo.test"},
		}},
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		jwtService:       jwt,
		authService:      &mocks.MockAuthService{},
		userService:      &mocks.MockUserService{},
		taskService:      &mocks.MockTaskService{},
		dashboardService: &mocks.MockDashboardService{Now: time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)},
	}
}

func serve(t *testing.T, h http.Handler, method, target string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if authed {
		req.Header.Set("Authorization", "Bearer "+validToken)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouter_Health(t *testing.T) {
	router := newTestApp(uuid.New()).setupRouter()

	rr := serve(t, router, http.MethodGet, "/health", false)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	userID := uuid.New()
	router := newTestApp(userID).setupRouter()

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/user/"},
		{http.MethodGet, "/api/v1/user/me"},
		{http.MethodGet, "/api/v1/task/"},
		{http.MethodGet, "/api/v1/task/dashboard/" + userID.String()},
		{http.MethodPost, "/api/v1/auth/logout"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			rr := serve(t, router, p.method, p.path, false)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestRouter_DashboardRoutes(t *testing.T) {
	userID := uuid.New()
	router := newTestApp(userID).setupRouter()

	for _, suffix := range []string{"", "barchart/", "linechart/", "overview/"} {
		rr := serve(t, router, http.MethodGet, "/api/v1/task/dashboard/"+suffix+userID.String(), true)
		assert.Equal(t, http.StatusOK, rr.Code, suffix)
	}

	rr := serve(t, router, http.MethodGet, "/api/v1/task/dashboard/"+uuid.New().String(), true)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRouter_TaskRoutes(t *testing.T) {
	userID := uuid.New()
	app := newTestApp(userID)
	taskID := uuid.New()
	app.taskService = &mocks.MockTaskService{
		GetTaskFn: func(_ context.Context, caller, id uuid.UUID) (*domain.Task, error) {
			assert.Equal(t, userID, caller)
			return &domain.Task{ID: id, UserID: caller, Name: "Write report"}, nil
		},
	}
	router := app.setupRouter()

	rr := serve(t, router, http.MethodGet, "/api/v1/task/"+taskID.String(), true)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Write report")

	rr = serve(t, router, http.MethodGet, "/api/v1/task/user/"+uuid.New().String(), true)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRouter_UpdateNewPasswordRequiresResetToken(t *testing.T) {
	userID := uuid.New()
	app := newTestApp(userID)
	var calls int
	app.userService = &mocks.MockUserService{
		SetNewPasswordFn: func(_ context.Context, id uuid.UUID, email, password string) error {
			calls++
			assert.Equal(t, userID, id)
			return nil
		},
	}
	router := app.setupRouter()

	post := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/user/update-new-password",
			strings.NewReader(`{"email":"mai@example.com","new_password":"brand-new-pass"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	rr := post(validToken)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, 0, calls)

	rr = post(resetToken)
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, 1, calls)

	// A reset token does not open the rest of the user routes.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+resetToken)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouter_RateLimitCoversAuthOnly(t *testing.T) {
	app := newTestApp(uuid.New())
	limiter := &denyLimiter{}
	app.limiter = limiter
	router := app.setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"mai@example.com","password":"password123"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))

	rr = serve(t, router, http.MethodGet, "/api/v1/task/", true)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, limiter.calls)
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestApp(uuid.New()).setupRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/auth/login", nil)
	req.Header.Set("Origin", "https://app.uetodo.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, "https://app.uetodo.test", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/auth/login", nil)
	req.Header.Set("Origin", "https://evil.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestCleanup_ToleratesPartialApplication(t *testing.T) {
	app := &application{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	assert.NotPanics(t, app.cleanup)
}
