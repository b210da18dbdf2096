// AngelaMos | 2026
// session.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/quiz-platform/internal/audit"
	"github.com/carterperez-dev/quiz-platform/internal/core"
	"github.com/carterperez-dev/quiz-platform/internal/middleware"
)

// Expired refresh tokens stay this long before pruning.
const expiredRetention = 24 * time.Hour

// Refresh rotates a refresh token. The old token is consumed before the
// new one is stored; a token that was already consumed, or that loses a
// concurrent rotation, revokes its whole family.
func (s *Service) Refresh(ctx context.Context, rawToken string) (*AuthResponse, error) {
	ctx, span := tracer.Start(ctx, "auth.Refresh")
	defer span.End()

	stored, err := s.tokens.FindByHash(ctx, core.HashToken(rawToken))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			s.metrics.refreshes.WithLabelValues(outcomeRejected).Inc()
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
		}
		s.metrics.refreshes.WithLabelValues(outcomeError).Inc()
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("find token: %w", err)
	}

	if stored.IsUsed {
		return nil, s.reuseDetected(ctx, stored)
	}

	if stored.IsRevoked() {
		s.metrics.refreshes.WithLabelValues(outcomeRejected).Inc()
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
	}

	if stored.IsExpired(s.now()) {
		s.metrics.refreshes.WithLabelValues(outcomeRejected).Inc()
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenExpired)
	}

	newID := uuid.New().String()
	if err := s.tokens.MarkAsUsed(ctx, stored.ID, newID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, s.reuseDetected(ctx, stored)
		}
		s.metrics.refreshes.WithLabelValues(outcomeError).Inc()
		core.SetSpanError(ctx, err)
		return nil, err
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			s.metrics.refreshes.WithLabelValues(outcomeRejected).Inc()
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
		}
		s.metrics.refreshes.WithLabelValues(outcomeError).Inc()
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !user.IsActive {
		if _, err := s.tokens.RevokeByFamilyID(ctx, stored.FamilyID); err != nil {
			slog.WarnContext(ctx, "revoke family of inactive user failed",
				"user_id", user.ID,
				"error", err,
			)
		}
		s.metrics.refreshes.WithLabelValues(outcomeRejected).Inc()
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
	}

	resp, err := s.issueSession(ctx, user, stored.FamilyID, newID)
	if err != nil {
		s.metrics.refreshes.WithLabelValues(outcomeError).Inc()
		core.SetSpanError(ctx, err)
		return nil, err
	}

	s.metrics.refreshes.WithLabelValues(outcomeSuccess).Inc()
	return resp, nil
}

func (s *Service) reuseDetected(ctx context.Context, stored *RefreshToken) error {
	revoked, err := s.tokens.RevokeByFamilyID(ctx, stored.FamilyID)
	if err != nil {
		slog.ErrorContext(ctx, "revoke token family failed",
			"family_id", stored.FamilyID,
			"error", err,
		)
	}

	slog.WarnContext(ctx, "refresh token reuse detected",
		"user_id", stored.UserID,
		"family_id", stored.FamilyID,
	)

	s.audit.Record(ctx, audit.Event{
		ActorID:    stored.UserID,
		Action:     audit.ActionTokenReuseDetected,
		EntityType: audit.EntitySession,
		EntityID:   stored.FamilyID,
		Details:    audit.Details{"token_id": stored.ID, "revoked": revoked},
	})
	s.metrics.refreshes.WithLabelValues(outcomeReuse).Inc()

	return ErrTokenReuse
}

// Logout revokes the presented refresh token, if any, and blacklists the
// access token that authenticated the call.
func (s *Service) Logout(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
	rawRefreshToken string,
) error {
	details := audit.Details{}

	if rawRefreshToken != "" {
		stored, err := s.tokens.FindByHash(ctx, core.HashToken(rawRefreshToken))
		switch {
		case errors.Is(err, core.ErrNotFound):
		case err != nil:
			return fmt.Errorf("find token: %w", err)
		case stored.UserID != claims.UserID:
			return fmt.Errorf("logout: %w", core.ErrForbidden)
		default:
			if err := s.tokens.RevokeByID(ctx, stored.ID); err != nil &&
				!errors.Is(err, core.ErrNotFound) {
				return fmt.Errorf("revoke token: %w", err)
			}
			details["session_id"] = stored.ID
		}
	}

	s.blacklistAccessToken(ctx, claims)

	s.audit.Record(ctx, audit.Event{
		ActorID:    claims.UserID,
		Action:     audit.ActionLogout,
		EntityType: audit.EntityUser,
		EntityID:   claims.UserID,
		Details:    details,
	})

	return nil
}

// LogoutAll revokes every refresh token and bumps token_version, which
// invalidates every access token issued so far.
func (s *Service) LogoutAll(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
) error {
	revoked, err := s.revokeEverything(ctx, claims.UserID)
	if err != nil {
		return err
	}

	s.blacklistAccessToken(ctx, claims)

	s.audit.Record(ctx, audit.Event{
		ActorID:    claims.UserID,
		Action:     audit.ActionLogoutAll,
		EntityType: audit.EntityUser,
		EntityID:   claims.UserID,
		Details:    audit.Details{"sessions_revoked": revoked},
	})

	return nil
}

func (s *Service) revokeEverything(ctx context.Context, userID string) (int64, error) {
	revoked, err := s.tokens.RevokeAllForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("revoke all tokens: %w", err)
	}

	if err := s.users.IncrementTokenVersion(ctx, userID); err != nil {
		return 0, fmt.Errorf("increment token version: %w", err)
	}

	return revoked, nil
}

func (s *Service) blacklistAccessToken(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
) {
	if s.blacklist == nil || claims == nil || claims.ID == "" {
		return
	}

	if err := s.blacklist.Revoke(ctx, claims.ID, claims.ExpiresAt); err != nil {
		slog.WarnContext(ctx, "access token blacklist failed",
			"user_id", claims.UserID,
			"error", err,
		)
	}
}

func (s *Service) ActiveSessions(
	ctx context.Context,
	userID string,
) ([]SessionInfo, error) {
	tokens, err := s.tokens.GetActiveSessionsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get sessions: %w", err)
	}

	sessions := make([]SessionInfo, 0, len(tokens))
	for _, t := range tokens {
		sessions = append(sessions, SessionInfo{
			ID:        t.ID,
			UserAgent: t.UserAgent,
			IPAddress: t.IPAddress,
			CreatedAt: t.CreatedAt,
			ExpiresAt: t.ExpiresAt,
		})
	}

	return sessions, nil
}

// RevokeSession only touches sessions owned by userID; anyone else's id
// reads as not found.
func (s *Service) RevokeSession(ctx context.Context, userID, sessionID string) error {
	if err := s.tokens.RevokeByIDForUser(ctx, sessionID, userID); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.Event{
		ActorID:    userID,
		Action:     audit.ActionSessionRevoked,
		EntityType: audit.EntitySession,
		EntityID:   sessionID,
	})

	return nil
}

// ChangePassword requires the current password and ends every session,
// the caller's included.
func (s *Service) ChangePassword(
	ctx context.Context,
	userID string,
	req ChangePasswordRequest,
) error {
	ctx, span := tracer.Start(ctx, "auth.ChangePassword")
	defer span.End()

	if err := s.validate.Struct(req); err != nil {
		return core.ValidationError(core.FormatValidationError(err))
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	if !core.VerifyPassword(req.CurrentPassword, user.PasswordHash) {
		return ErrInvalidCurrentPassword
	}

	newHash, err := core.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, newHash); err != nil {
		core.SetSpanError(ctx, err)
		return fmt.Errorf("update password: %w", err)
	}

	revoked, err := s.revokeEverything(ctx, userID)
	if err != nil {
		core.SetSpanError(ctx, err)
		return err
	}

	s.audit.Record(ctx, audit.Event{
		ActorID:    userID,
		Action:     audit.ActionPasswordChanged,
		EntityType: audit.EntityUser,
		EntityID:   userID,
		Details:    audit.Details{"sessions_revoked": revoked},
	})

	return nil
}

// PruneExpiredSessions deletes refresh tokens that expired more than a
// day ago.
func (s *Service) PruneExpiredSessions(ctx context.Context) (int64, error) {
	deleted, err := s.tokens.DeleteExpired(ctx, s.now().Add(-expiredRetention))
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		slog.InfoContext(ctx, "pruned expired sessions", "count", deleted)
	}

	return deleted, nil
}
