// AngelaMos | 2026
// handler_test.go

package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/quiz-platform/internal/audit"
	"github.com/carterperez-dev/quiz-platform/internal/config"
	"github.com/carterperez-dev/quiz-platform/internal/middleware"
)

func passthrough(next http.Handler) http.Handler { return next }

func newTestRouter(f *fixture, cfg config.AuthConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.CaptureOrigin)
	NewHandler(f.svc, cfg).RegisterRoutes(r, middleware.Authenticator(f.svc), passthrough)
	return r
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "handler-test")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestSignupAndLoginScenario(t *testing.T) {
	f := newFixture(t)
	router := newTestRouter(f, config.AuthConfig{UniformLoginErrors: true})

	signup := map[string]string{"email": "a@b.com", "password": "secret1", "fullName": "A B"}

	rec := do(t, router, http.MethodPost, "/auth/signup", "", signup)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "player", user["role"])
	assert.Equal(t, "A B", user["full_name"])
	assert.NotContains(t, user, "password_hash")
	assert.NotContains(t, rec.Body.String(), "argon2id")
	assert.Equal(t, []string{audit.ActionSignup}, f.events.actions())

	rec = do(t, router, http.MethodPost, "/auth/signup", "", signup)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", decode(t, rec)["code"])

	f.events.reset()
	rec = do(t, router, http.MethodPost, "/auth/login", "",
		map[string]string{"email": "a@b.com", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid email or password", decode(t, rec)["error"])
	assert.Equal(t, []string{audit.ActionLoginFailedWrongPass}, f.events.actions())

	f.events.reset()
	rec = do(t, router, http.MethodPost, "/auth/login", "",
		map[string]string{"email": "a@b.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{audit.ActionLoginSuccess}, f.events.actions())
	assert.NotContains(t, rec.Body.String(), "password_hash")

	sessions, err := f.svc.ActiveSessions(context.Background(), user["id"].(string))
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "handler-test", sessions[0].UserAgent)
}

func TestLoginMessagesWhenNotUniform(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "a@b.com", "secret1")
	router := newTestRouter(f, config.AuthConfig{UniformLoginErrors: false})

	rec := do(t, router, http.MethodPost, "/auth/login", "",
		map[string]string{"email": "nobody@b.com", "password": "secret1"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "email not found", decode(t, rec)["error"])

	rec = do(t, router, http.MethodPost, "/auth/login", "",
		map[string]string{"email": "a@b.com", "password": "nope"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "incorrect password", decode(t, rec)["error"])
}

func TestLoginValidationIsBadRequest(t *testing.T) {
	f := newFixture(t)
	router := newTestRouter(f, config.AuthConfig{UniformLoginErrors: true})

	rec := do(t, router, http.MethodPost, "/auth/login", "", map[string]string{"email": "a@b.com"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing required fields", decode(t, rec)["error"])

	rec = do(t, router, http.MethodPost, "/auth/login", "",
		map[string]string{"email": "bad", "password": "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid email format", decode(t, rec)["error"])
}

func TestProtectedRoutesNeedBearerToken(t *testing.T) {
	f := newFixture(t)
	created := f.signup(t, "a@b.com", "secret1")
	router := newTestRouter(f, config.AuthConfig{})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("X-User-Id", created.User.ID)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, router, http.MethodGet, "/auth/me", created.Tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode(t, rec)
	assert.Contains(t, me, "permissions")
}

func TestLogoutWithEmptyBody(t *testing.T) {
	f := newFixture(t)
	created := f.signup(t, "a@b.com", "secret1")
	router := newTestRouter(f, config.AuthConfig{})

	rec := do(t, router, http.MethodPost, "/auth/logout", created.Tokens.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodGet, "/auth/me", created.Tokens.AccessToken, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_REVOKED", decode(t, rec)["code"])
}

func TestRefreshReuseResponse(t *testing.T) {
	f := newFixture(t)
	created := f.signup(t, "a@b.com", "secret1")
	router := newTestRouter(f, config.AuthConfig{})

	body := map[string]string{"refresh_token": created.Tokens.RefreshToken}

	rec := do(t, router, http.MethodPost, "/auth/refresh", "", body)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodPost, "/auth/refresh", "", body)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_REUSE_DETECTED", decode(t, rec)["code"])
}

func TestRevokeSessionRejectsMalformedID(t *testing.T) {
	f := newFixture(t)
	created := f.signup(t, "a@b.com", "secret1")
	router := newTestRouter(f, config.AuthConfig{})

	rec := do(t, router, http.MethodDelete, "/auth/sessions/not-a-uuid", created.Tokens.AccessToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
