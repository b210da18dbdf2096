// AngelaMos | 2026
// repository.go

package role

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/quiz-platform/internal/core"
)

type Repository interface {
	GetIDByName(ctx context.Context, name string) (int64, error)
	List(ctx context.Context) ([]Role, error)
	PermissionsForUser(ctx context.Context, userID string) ([]string, error)
	Grants(ctx context.Context) (map[int64][]string, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) GetIDByName(ctx context.Context, name string) (int64, error) {
	query := `SELECT id FROM roles WHERE name = $1`

	var id int64
	err := r.db.GetContext(ctx, &id, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("get role %q: %w", name, core.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("get role %q: %w", name, err)
	}

	return id, nil
}

func (r *repository) List(ctx context.Context) ([]Role, error) {
	query := `
		SELECT id, name, description, created_at
		FROM roles
		ORDER BY id`

	var roles []Role
	if err := r.db.SelectContext(ctx, &roles, query); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	return roles, nil
}

func (r *repository) PermissionsForUser(
	ctx context.Context,
	userID string,
) ([]string, error) {
	query := `
		SELECT p.name
		FROM users u
		JOIN role_permissions rp ON rp.role_id = u.role_id
		JOIN permissions p ON p.id = rp.permission_id
		WHERE u.id = $1
		ORDER BY p.name`

	var names []string
	if err := r.db.SelectContext(ctx, &names, query, userID); err != nil {
		return nil, fmt.Errorf("permissions for user: %w", err)
	}

	return names, nil
}

func (r *repository) Grants(ctx context.Context) (map[int64][]string, error) {
	query := `
		SELECT rp.role_id, p.name
		FROM role_permissions rp
		JOIN permissions p ON p.id = rp.permission_id
		ORDER BY rp.role_id, p.name`

	var rows []grant
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}

	grants := make(map[int64][]string)
	for _, g := range rows {
		grants[g.RoleID] = append(grants[g.RoleID], g.Permission)
	}

	return grants, nil
}
