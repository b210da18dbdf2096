// AngelaMos | 2026
// theme_test.go

package theme

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/quiz-platform/internal/audit"
	"github.com/carterperez-dev/quiz-platform/internal/core"
	"github.com/carterperez-dev/quiz-platform/internal/middleware"
	"github.com/carterperez-dev/quiz-platform/internal/role"
)

type memoryThemes struct {
	themes map[string]*Theme
}

func (m *memoryThemes) Create(_ context.Context, t *Theme) error {
	t.ID = uuid.NewString()
	c := *t
	m.themes[t.ID] = &c
	return nil
}

func (m *memoryThemes) GetByID(_ context.Context, id string) (*Theme, error) {
	t, ok := m.themes[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	c := *t
	return &c, nil
}

func (m *memoryThemes) ListVisible(_ context.Context, userID string) ([]Theme, error) {
	out := []Theme{}
	for _, t := range m.themes {
		if t.IsDefault || t.OwnedBy(userID) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memoryThemes) Delete(_ context.Context, id string) error {
	if _, ok := m.themes[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.themes, id)
	return nil
}

type grants map[string][]string

func (g grants) HasPermission(_ context.Context, userID, permission string) bool {
	for _, p := range g[userID] {
		if p == permission {
			return true
		}
	}
	return false
}

type events []audit.Event

func (e *events) Record(_ context.Context, ev audit.Event) { *e = append(*e, ev) }

func newTestService() (*Service, *memoryThemes, *events) {
	repo := &memoryThemes{themes: map[string]*Theme{}}
	rec := &events{}
	perms := grants{"admin-1": {role.PermManageThemes}}
	return NewService(repo, perms, rec), repo, rec
}

func validRequest() CreateThemeRequest {
	return CreateThemeRequest{
		Name:           "Ocean",
		PrimaryColor:   "#0055aa",
		SecondaryColor: "#ffffff",
		AccentColor:    "#ff8800",
	}
}

func TestDefaultThemeNeedsManageThemes(t *testing.T) {
	svc, repo, rec := newTestService()
	req := validRequest()
	req.IsDefault = true

	_, err := svc.Create(context.Background(), "player-1", req)
	require.ErrorIs(t, err, core.ErrForbidden)
	assert.Empty(t, repo.themes)
	assert.Empty(t, *rec)

	created, err := svc.Create(context.Background(), "admin-1", req)
	require.NoError(t, err)
	assert.True(t, created.IsDefault)
	require.Len(t, *rec, 1)
	assert.Equal(t, audit.ActionThemeCreated, (*rec)[0].Action)
}

func TestListShowsOwnAndDefaults(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	def := validRequest()
	def.IsDefault = true
	_, err := svc.Create(ctx, "admin-1", def)
	require.NoError(t, err)

	_, err = svc.Create(ctx, "player-1", validRequest())
	require.NoError(t, err)
	_, err = svc.Create(ctx, "player-2", validRequest())
	require.NoError(t, err)

	themes, err := svc.List(ctx, "player-1")
	require.NoError(t, err)
	assert.Len(t, themes, 2)
}

func TestDeleteOwnership(t *testing.T) {
	svc, repo, rec := newTestService()
	ctx := context.Background()

	mine, err := svc.Create(ctx, "player-1", validRequest())
	require.NoError(t, err)
	*rec = nil

	err = svc.Delete(ctx, "player-2", mine.ID)
	require.ErrorIs(t, err, core.ErrNotFound)
	assert.Contains(t, repo.themes, mine.ID)

	require.NoError(t, svc.Delete(ctx, "admin-1", mine.ID))
	require.Len(t, *rec, 1)
	assert.Equal(t, audit.ActionThemeDeleted, (*rec)[0].Action)
	assert.Equal(t, "admin-1", (*rec)[0].ActorID)
}

func TestHandlerValidatesHexColors(t *testing.T) {
	svc, repo, _ := newTestService()
	as := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithClaims(r.Context(),
				&middleware.AccessTokenClaims{UserID: "player-1", Role: role.Player})))
		})
	}
	router := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(router, as)

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/themes", strings.NewReader(body)))
		return rec
	}

	rec := post(`{"name":"Bad","primary_color":"blue","secondary_color":"#fff","accent_color":"#000"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "hex color")

	rec = post(`{"name":"Good","primary_color":"#ABCDEF","secondary_color":"#fff","accent_color":"#000"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "#abcdef")

	rec = post(`{"name":"Global","primary_color":"#abcdef","secondary_color":"#fff","accent_color":"#000","is_default":true}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, repo.themes, 1)
}

func TestRepositoryListVisible(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(sqlx.NewDb(db, "pgx"))

	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 OR is_default = true")).
		WithArgs("player-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("t1", "Ocean"))

	themes, err := repo.ListVisible(context.Background(), "player-1")
	require.NoError(t, err)
	require.Len(t, themes, 1)
	assert.Equal(t, "Ocean", themes[0].Name)
}
