// AngelaMos | 2026
// role_test.go

package role

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/quiz-platform/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(core.WrapDB(sqlx.NewDb(db, "pgx"), time.Second).Conn()), mock
}

func TestRepositoryGetIDByName(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT id FROM roles WHERE name").
		WithArgs(Player).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	id, err := repo.GetIDByName(context.Background(), Player)
	require.NoError(t, err)
	require.Equal(t, int64(3), id)

	mock.ExpectQuery("SELECT id FROM roles WHERE name").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.GetIDByName(context.Background(), "ghost")
	require.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryPermissionsForUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT p.name").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).
			AddRow(PermManageGames).
			AddRow(PermPlayGames))

	names, err := repo.PermissionsForUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, []string{PermManageGames, PermPlayGames}, names)
}

type fakeRepo struct {
	ids    map[string]int64
	perms  map[string][]string
	roles  []Role
	grants map[int64][]string
	err    error
}

func (f *fakeRepo) GetIDByName(_ context.Context, name string) (int64, error) {
	if id, ok := f.ids[name]; ok {
		return id, nil
	}
	return 0, core.ErrNotFound
}

func (f *fakeRepo) List(_ context.Context) ([]Role, error) {
	return f.roles, f.err
}

func (f *fakeRepo) PermissionsForUser(_ context.Context, userID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.perms[userID], nil
}

func (f *fakeRepo) Grants(_ context.Context) (map[int64][]string, error) {
	return f.grants, f.err
}

func TestResolverPermissionAbsenceIsEmpty(t *testing.T) {
	resolver := NewResolver(&fakeRepo{perms: map[string][]string{
		"teacher-id": {PermManageGames, PermManageQuestions, PermPlayGames},
	}})
	ctx := context.Background()

	assert.Equal(t, []string{}, resolver.PermissionsForUser(ctx, "unknown"))
	assert.True(t, resolver.HasPermission(ctx, "teacher-id", PermManageGames))
	assert.False(t, resolver.HasPermission(ctx, "teacher-id", PermManageUsers))

	failing := NewResolver(&fakeRepo{err: errors.New("connection reset")})
	assert.Equal(t, []string{}, failing.PermissionsForUser(ctx, "teacher-id"))
	assert.False(t, failing.HasPermission(ctx, "teacher-id", PermPlayGames))
}

func TestResolverRoleIDByName(t *testing.T) {
	resolver := NewResolver(&fakeRepo{ids: map[string]int64{Player: 3}})

	id, err := resolver.RoleIDByName(context.Background(), Player)
	require.NoError(t, err)
	require.Equal(t, int64(3), id)

	_, err = resolver.RoleIDByName(context.Background(), Admin)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestResolverListAttachesGrants(t *testing.T) {
	resolver := NewResolver(&fakeRepo{
		roles:  []Role{{ID: 1, Name: Admin}, {ID: 3, Name: Player}, {ID: 4, Name: "guest"}},
		grants: map[int64][]string{1: {PermManageUsers}, 3: {PermPlayGames}},
	})

	roles, err := resolver.List(context.Background())
	require.NoError(t, err)
	require.Len(t, roles, 3)
	require.Equal(t, []string{PermManageUsers}, roles[0].Permissions)
	require.Equal(t, []string{}, roles[2].Permissions)
}
