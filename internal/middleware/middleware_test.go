// AngelaMos | 2026
// middleware_test.go

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/quiz-platform/internal/core"
)

type stubVerifier struct {
	claims *AccessTokenClaims
	err    error
}

func (s stubVerifier) VerifyAccessToken(
	_ context.Context,
	_ string,
) (*AccessTokenClaims, error) {
	return s.claims, s.err
}

type stubPermissions map[string][]string

func (s stubPermissions) HasPermission(_ context.Context, userID, permission string) bool {
	for _, p := range s[userID] {
		if p == permission {
			return true
		}
	}
	return false
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) core.ErrorResponse {
	t.Helper()
	var body core.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestRequestIDPropagatesOrMints(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestClientIP(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "1.1.1.1, 10.0.0.7"}, "127.0.0.1:1", "10.0.0.7"},
		{"real ip", map[string]string{"X-Real-IP": "2.2.2.2"}, "127.0.0.1:1", "2.2.2.2"},
		{"socket peer", nil, "192.0.2.4:5555", "192.0.2.4"},
		{"bare peer", nil, "192.0.2.5", "192.0.2.5"},
		{"garbage forwarded", map[string]string{"X-Forwarded-For": "evil\xff"}, "192.0.2.6:1", "192.0.2.6"},
		{"garbage real ip", map[string]string{"X-Real-IP": "not-an-ip"}, "192.0.2.7:1", "192.0.2.7"},
		{"mapped v4", map[string]string{"X-Real-IP": "::ffff:198.51.100.3"}, "127.0.0.1:1", "198.51.100.3"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, ClientIP(req))
		})
	}
}

func TestCaptureOrigin(t *testing.T) {
	var origin RequestOrigin
	h := CaptureOrigin(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		origin = GetOrigin(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
	req.Header.Set("User-Agent", "quiz-cli/1.0")
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "203.0.113.9", origin.IPAddress)
	assert.Equal(t, "quiz-cli/1.0", origin.UserAgent)
	assert.Equal(t, RequestOrigin{}, GetOrigin(context.Background()))
}

func TestCaptureOriginKeepsUserAgentValidUTF8(t *testing.T) {
	var origin RequestOrigin
	h := CaptureOrigin(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		origin = GetOrigin(r.Context())
	}))

	cases := []struct {
		name string
		ua   string
		want string
	}{
		{"multibyte at the cut", strings.Repeat("a", 511) + "é", strings.Repeat("a", 511)},
		{"raw invalid byte", "curl/8\xff", "curl/8"},
		{"short multibyte", "navigateur-é", "navigateur-é"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("User-Agent", tc.ua)
			h.ServeHTTP(httptest.NewRecorder(), req)

			assert.True(t, utf8.ValidString(origin.UserAgent))
			assert.LessOrEqual(t, len(origin.UserAgent), maxUserAgentLength)
			assert.Equal(t, tc.want, origin.UserAgent)
		})
	}
}

func TestAuthenticator(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetUserID(r.Context()) + "|" + GetUserRole(r.Context())))
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Authenticator(stubVerifier{})(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "UNAUTHORIZED", decodeError(t, rec).Code)
	})

	t.Run("client id header is ignored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-User-Id", "00000000-0000-0000-0000-000000000001")
		rec := httptest.NewRecorder()
		Authenticator(stubVerifier{})(next).ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer abc")
		rec := httptest.NewRecorder()
		Authenticator(stubVerifier{err: core.ErrTokenRevoked})(next).ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "TOKEN_REVOKED", decodeError(t, rec).Code)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "bearer abc")
		rec := httptest.NewRecorder()
		verifier := stubVerifier{claims: &AccessTokenClaims{UserID: "u1", Role: "teacher"}}
		Authenticator(verifier)(next).ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "u1|teacher", rec.Body.String())
	})
}

func TestRequireRole(t *testing.T) {
	h := RequireRole("admin", "teacher")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	serve := func(role string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if role != "" {
			req = req.WithContext(WithClaims(req.Context(), &AccessTokenClaims{UserID: "u", Role: role}))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(""))
	assert.Equal(t, http.StatusForbidden, serve("player"))
	assert.Equal(t, http.StatusNoContent, serve("teacher"))
}

func TestRequirePermission(t *testing.T) {
	checker := stubPermissions{"admin-id": {"manage_users", "view_activity"}}
	h := RequirePermission(checker, "view_activity")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	serve := func(userID string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if userID != "" {
			req = req.WithContext(WithClaims(req.Context(), &AccessTokenClaims{UserID: userID, Role: "x"}))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(""))
	assert.Equal(t, http.StatusForbidden, serve("player-id"))
	assert.Equal(t, http.StatusNoContent, serve("admin-id"))
}

func TestExtractToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, ExtractToken(req))

	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	assert.Empty(t, ExtractToken(req))

	req.Header.Set("Authorization", "Bearer  tok ")
	assert.Equal(t, "tok", ExtractToken(req))
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(true)(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))

	rec = httptest.NewRecorder()
	SecurityHeaders(false)(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestMetricsLabelsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Get("/v1/games/{gameID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/games/"+id, nil))
	}

	count := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/v1/games/{gameID}", "200"))
	assert.Equal(t, float64(3), count)
}
