// AngelaMos | 2026
// service.go

package role

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

// Resolver maps role names to ids and users to permission names.
type Resolver struct {
	repo Repository
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// RoleIDByName wraps core.ErrNotFound when no role has that name.
func (s *Resolver) RoleIDByName(ctx context.Context, name string) (int64, error) {
	return s.repo.GetIDByName(ctx, name)
}

// PermissionsForUser never fails. An unknown user, a user without a role
// or a store error all yield an empty set.
func (s *Resolver) PermissionsForUser(ctx context.Context, userID string) []string {
	names, err := s.repo.PermissionsForUser(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "permission lookup failed",
			"user_id", userID,
			"error", err,
		)
		return []string{}
	}

	if names == nil {
		return []string{}
	}

	return names
}

func (s *Resolver) HasPermission(ctx context.Context, userID, permission string) bool {
	return slices.Contains(s.PermissionsForUser(ctx, userID), permission)
}

type RoleWithPermissions struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

func (s *Resolver) List(ctx context.Context) ([]RoleWithPermissions, error) {
	roles, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	grants, err := s.repo.Grants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	out := make([]RoleWithPermissions, 0, len(roles))
	for _, r := range roles {
		perms := grants[r.ID]
		if perms == nil {
			perms = []string{}
		}
		out = append(out, RoleWithPermissions{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Permissions: perms,
		})
	}

	return out, nil
}
