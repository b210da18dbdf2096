// AngelaMos | 2026
// admin_test.go

package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/quiz-platform/internal/middleware"
)

type pruner struct {
	deleted int64
	err     error
}

func (p pruner) PruneExpiredSessions(context.Context) (int64, error) {
	return p.deleted, p.err
}

func asRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithClaims(r.Context(),
				&middleware.AccessTokenClaims{UserID: "u1", Role: role})))
		})
	}
}

func newRouter(t *testing.T, role string, sessions SessionPruner) http.Handler {
	t.Helper()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	h := NewHandler(HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: client.PoolStats,
		DBPing:     func(context.Context) error { return errors.New("db down") },
		RedisPing:  func(ctx context.Context) error { return client.Ping(ctx).Err() },
		Sessions:   sessions,
	})

	r := chi.NewRouter()
	h.RegisterRoutes(r, asRole(role), middleware.RequireAdmin)
	return r
}

func TestSystemStatsReportsEachDependency(t *testing.T) {
	router := newRouter(t, "admin", pruner{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SystemStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Database.Healthy)
	assert.True(t, resp.Redis.Healthy)
	assert.NotNil(t, resp.Database.Stats)
	assert.NotEmpty(t, resp.Runtime.GoVersion)
}

func TestStatsRequireAdminRole(t *testing.T) {
	router := newRouter(t, "teacher", pruner{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPruneSessions(t *testing.T) {
	router := newRouter(t, "admin", pruner{deleted: 4})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/sessions/prune", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":4}`, rec.Body.String())

	router = newRouter(t, "admin", pruner{err: errors.New("boom")})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/sessions/prune", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}
