// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/carterperez-dev/quiz-platform/internal/audit"
	"github.com/carterperez-dev/quiz-platform/internal/auth"
	"github.com/carterperez-dev/quiz-platform/internal/core"
)

var (
	ErrSelfDelete     = core.ForbiddenError("you cannot delete your own account")
	ErrSelfDeactivate = core.ForbiddenError("you cannot deactivate your own account")
	ErrUnknownRole    = core.ValidationError("unknown role")
)

type RoleLookup interface {
	RoleIDByName(ctx context.Context, name string) (int64, error)
}

type ActivityRecorder interface {
	Record(ctx context.Context, event audit.Event)
}

// Service is the credential store behind auth and the admin user
// management surface.
type Service struct {
	repo  Repository
	roles RoleLookup
	audit ActivityRecorder
}

func NewService(repo Repository, roles RoleLookup, recorder ActivityRecorder) *Service {
	return &Service{repo: repo, roles: roles, audit: recorder}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetActiveByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetActiveByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) EmailTaken(ctx context.Context, email string) (bool, error) {
	return s.repo.ExistsByEmail(ctx, email)
}

func (s *Service) Create(
	ctx context.Context,
	email, passwordHash, fullName string,
	roleID int64,
) (*auth.UserInfo, error) {
	user := &User{
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		RoleID:       roleID,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) IncrementTokenVersion(
	ctx context.Context,
	userID string,
) error {
	return s.repo.IncrementTokenVersion(ctx, userID)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

// UpdateProfile changes the caller's own display name.
func (s *Service) UpdateProfile(
	ctx context.Context,
	userID string,
	req UpdateProfileRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.FullName == req.FullName {
		return user, nil
	}

	previous := user.FullName
	user.FullName = req.FullName
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Event{
		ActorID:    userID,
		Action:     audit.ActionUserUpdated,
		EntityType: audit.EntityUser,
		EntityID:   userID,
		Details: audit.Details{
			"full_name": map[string]string{"from": previous, "to": user.FullName},
		},
	})

	return user, nil
}

// UpdateUser applies an admin edit. Name and role changes are recorded as
// USER_UPDATED; an is_active flip gets its own USER_ACTIVATED or
// USER_DEACTIVATED entry. A request that changes nothing records nothing.
func (s *Service) UpdateUser(
	ctx context.Context,
	actorID, id string,
	req UpdateUserRequest,
) (*User, error) {
	req.normalize()

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := audit.Details{}

	if req.FullName != nil && *req.FullName != user.FullName {
		changes["full_name"] = map[string]string{"from": user.FullName, "to": *req.FullName}
		user.FullName = *req.FullName
	}

	if req.Role != nil && *req.Role != user.RoleName {
		roleID, err := s.roles.RoleIDByName(ctx, *req.Role)
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrUnknownRole
		}
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		changes["role"] = map[string]string{"from": user.RoleName, "to": *req.Role}
		user.RoleID = roleID
		user.RoleName = *req.Role
	}

	activeChanged := req.IsActive != nil && *req.IsActive != user.IsActive
	if activeChanged {
		if !*req.IsActive && actorID == id {
			return nil, ErrSelfDeactivate
		}
		user.IsActive = *req.IsActive
	}

	if len(changes) == 0 && !activeChanged {
		return user, nil
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		s.audit.Record(ctx, audit.Event{
			ActorID:    actorID,
			Action:     audit.ActionUserUpdated,
			EntityType: audit.EntityUser,
			EntityID:   id,
			Details:    changes,
		})
	}

	if activeChanged {
		action := audit.ActionUserDeactivated
		if user.IsActive {
			action = audit.ActionUserActivated
		}
		s.audit.Record(ctx, audit.Event{
			ActorID:    actorID,
			Action:     action,
			EntityType: audit.EntityUser,
			EntityID:   id,
			Details:    audit.Details{"email": user.Email},
		})
	}

	return user, nil
}

// DeleteUser removes exactly one user and records exactly one
// USER_DELETED entry. A missing user records nothing.
func (s *Service) DeleteUser(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return ErrSelfDelete
	}

	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.Event{
		ActorID:    actorID,
		Action:     audit.ActionUserDeleted,
		EntityType: audit.EntityUser,
		EntityID:   id,
		Details: audit.Details{
			"email": target.Email,
			"role":  target.RoleName,
		},
	})

	return nil
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		PasswordHash: u.PasswordHash,
		Role:         u.RoleName,
		RoleID:       u.RoleID,
		IsActive:     u.IsActive,
		TokenVersion: u.TokenVersion,
		CreatedAt:    u.CreatedAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)
