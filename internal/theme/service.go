// AngelaMos | 2026
// service.go

package theme

import (
	"context"

	"github.com/carterperez-dev/quiz-platform/internal/audit"
	"github.com/carterperez-dev/quiz-platform/internal/core"
	"github.com/carterperez-dev/quiz-platform/internal/role"
)

var ErrDefaultNeedsPermission = core.ForbiddenError("only theme managers can publish default themes")

type ActivityRecorder interface {
	Record(ctx context.Context, event audit.Event)
}

type PermissionChecker interface {
	HasPermission(ctx context.Context, userID, permission string) bool
}

type Service struct {
	repo  Repository
	perms PermissionChecker
	audit ActivityRecorder
}

func NewService(repo Repository, perms PermissionChecker, recorder ActivityRecorder) *Service {
	return &Service{repo: repo, perms: perms, audit: recorder}
}

func (s *Service) List(ctx context.Context, userID string) ([]Theme, error) {
	return s.repo.ListVisible(ctx, userID)
}

func (s *Service) Create(
	ctx context.Context,
	actorID string,
	req CreateThemeRequest,
) (*Theme, error) {
	if req.IsDefault && !s.perms.HasPermission(ctx, actorID, role.PermManageThemes) {
		return nil, ErrDefaultNeedsPermission
	}

	theme := &Theme{
		Name:           req.Name,
		UserID:         &actorID,
		PrimaryColor:   req.PrimaryColor,
		SecondaryColor: req.SecondaryColor,
		AccentColor:    req.AccentColor,
		IsDefault:      req.IsDefault,
	}

	if err := s.repo.Create(ctx, theme); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Event{
		ActorID:    actorID,
		Action:     audit.ActionThemeCreated,
		EntityType: audit.EntityTheme,
		EntityID:   theme.ID,
		Details: audit.Details{
			"name":       theme.Name,
			"is_default": theme.IsDefault,
		},
	})

	return theme, nil
}

// Delete lets owners remove their own themes and theme managers remove
// any. Another user's private theme reads as missing.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	theme, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !theme.OwnedBy(actorID) && !s.perms.HasPermission(ctx, actorID, role.PermManageThemes) {
		if !theme.IsDefault {
			return core.NotFoundError("theme")
		}
		return core.ForbiddenError("")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.Event{
		ActorID:    actorID,
		Action:     audit.ActionThemeDeleted,
		EntityType: audit.EntityTheme,
		EntityID:   id,
		Details:    audit.Details{"name": theme.Name},
	})

	return nil
}
