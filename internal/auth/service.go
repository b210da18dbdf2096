// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/quiz-platform/internal/audit"
	"github.com/carterperez-dev/quiz-platform/internal/config"
	"github.com/carterperez-dev/quiz-platform/internal/core"
	"github.com/carterperez-dev/quiz-platform/internal/middleware"
)

var tracer = otel.Tracer("github.com/carterperez-dev/quiz-platform/internal/auth")

var (
	ErrMissingFields      = core.ValidationError("missing required fields")
	ErrInvalidEmailFormat = core.ValidationError("invalid email format")

	ErrEmailNotFound = errors.New("email not found")
	ErrWrongPassword = errors.New("incorrect password")
	ErrEmailTaken    = errors.New("email already registered")
	ErrTokenReuse    = errors.New("token reuse detected")

	ErrInvalidCurrentPassword = errors.New("current password is incorrect")
)

// UserProvider is the credential store as seen by authentication.
// GetActiveByEmail treats inactive users as absent; GetByID does not.
type UserProvider interface {
	GetActiveByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	Create(
		ctx context.Context,
		email, passwordHash, fullName string,
		roleID int64,
	) (*UserInfo, error)
	IncrementTokenVersion(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type RoleResolver interface {
	RoleIDByName(ctx context.Context, name string) (int64, error)
	PermissionsForUser(ctx context.Context, userID string) []string
}

type ActivityRecorder interface {
	Record(ctx context.Context, event audit.Event)
}

type Deps struct {
	Tokens     Repository
	JWT        *JWTManager
	Users      UserProvider
	Roles      RoleResolver
	Audit      ActivityRecorder
	Blacklist  TokenBlacklist
	Config     config.AuthConfig
	Registerer prometheus.Registerer
}

type Service struct {
	tokens    Repository
	jwt       *JWTManager
	users     UserProvider
	roles     RoleResolver
	audit     ActivityRecorder
	blacklist TokenBlacklist
	cfg       config.AuthConfig
	validate  *validator.Validate
	metrics   *authMetrics
	now       func() time.Time
}

func NewService(d Deps) *Service {
	return &Service{
		tokens:    d.Tokens,
		jwt:       d.JWT,
		users:     d.Users,
		roles:     d.Roles,
		audit:     d.Audit,
		blacklist: d.Blacklist,
		cfg:       d.Config,
		validate:  NewValidator(),
		metrics:   newAuthMetrics(d.Registerer),
		now:       time.Now,
	}
}

// Login walks the credential gates in order and stops at the first that
// fails. Each terminal outcome, success included, leaves exactly one audit
// entry; store failures leave none and surface as unexpected errors.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	ctx, span := tracer.Start(ctx, "auth.Login")
	defer span.End()

	req.normalize()
	if err := s.validate.Struct(req); err != nil {
		s.metrics.logins.WithLabelValues(outcomeInvalid).Inc()
		return nil, classify(err)
	}

	user, err := s.users.GetActiveByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			s.metrics.logins.WithLabelValues(outcomeError).Inc()
			core.SetSpanError(ctx, err)
			return nil, fmt.Errorf("resolve user: %w", err)
		}

		//nolint:errcheck // burn one hash so unknown emails cost the same
		_, _ = core.VerifyPasswordTimingSafe(req.Password, nil)

		s.audit.Record(ctx, audit.Event{
			Action:     audit.ActionLoginFailedUserNotFound,
			EntityType: audit.EntityUser,
			Details:    audit.Details{"email": req.Email},
		})
		s.metrics.logins.WithLabelValues(outcomeUserNotFound).Inc()
		return nil, ErrEmailNotFound
	}

	span.SetAttributes(attribute.String("user.id", user.ID))

	valid, newHash := core.VerifyPasswordTimingSafe(req.Password, &user.PasswordHash)
	if !valid {
		s.audit.Record(ctx, audit.Event{
			ActorID:    user.ID,
			Action:     audit.ActionLoginFailedWrongPass,
			EntityType: audit.EntityUser,
			EntityID:   user.ID,
			Details:    audit.Details{"email": user.Email},
		})
		s.metrics.logins.WithLabelValues(outcomeWrongPassword).Inc()
		return nil, ErrWrongPassword
	}

	if newHash != "" {
		if err := s.users.UpdatePassword(ctx, user.ID, newHash); err != nil {
			slog.WarnContext(ctx, "password rehash failed",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	resp, err := s.issueSession(ctx, user, "", "")
	if err != nil {
		s.metrics.logins.WithLabelValues(outcomeError).Inc()
		core.SetSpanError(ctx, err)
		return nil, err
	}

	s.audit.Record(ctx, audit.Event{
		ActorID:    user.ID,
		Action:     audit.ActionLoginSuccess,
		EntityType: audit.EntityUser,
		EntityID:   user.ID,
		Details:    audit.Details{"email": user.Email},
	})
	s.metrics.logins.WithLabelValues(outcomeSuccess).Inc()

	resp.Message = "login successful"
	return resp, nil
}

// Signup creates a user with the configured default role. The EmailTaken
// probe only gives an early answer; the unique index decides races.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	ctx, span := tracer.Start(ctx, "auth.Signup")
	defer span.End()

	req.normalize()
	if err := s.validate.Struct(req); err != nil {
		s.metrics.signups.WithLabelValues(outcomeInvalid).Inc()
		return nil, classify(err)
	}

	taken, err := s.users.EmailTaken(ctx, req.Email)
	if err != nil {
		return nil, s.signupFailed(ctx, fmt.Errorf("check email: %w", err))
	}
	if taken {
		s.metrics.signups.WithLabelValues(outcomeEmailTaken).Inc()
		return nil, ErrEmailTaken
	}

	roleID, err := s.roles.RoleIDByName(ctx, s.cfg.DefaultRole)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			err = fmt.Errorf(
				"default role %q is not defined: %w",
				s.cfg.DefaultRole,
				core.ErrConfiguration,
			)
		}
		return nil, s.signupFailed(ctx, err)
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, s.signupFailed(ctx, fmt.Errorf("hash password: %w", err))
	}

	user, err := s.users.Create(ctx, req.Email, passwordHash, req.FullName, roleID)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			s.metrics.signups.WithLabelValues(outcomeEmailTaken).Inc()
			return nil, ErrEmailTaken
		}
		return nil, s.signupFailed(ctx, fmt.Errorf("create user: %w", err))
	}

	// The account exists from here on, whether or not a session follows.
	s.audit.Record(ctx, audit.Event{
		ActorID:    user.ID,
		Action:     audit.ActionSignup,
		EntityType: audit.EntityUser,
		EntityID:   user.ID,
		Details:    audit.Details{"email": user.Email, "role": user.Role},
	})
	s.metrics.signups.WithLabelValues(outcomeSuccess).Inc()

	resp, err := s.issueSession(ctx, user, "", "")
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	resp.Message = "account created"
	return resp, nil
}

func (s *Service) signupFailed(ctx context.Context, err error) error {
	s.metrics.signups.WithLabelValues(outcomeError).Inc()
	core.SetSpanError(ctx, err)
	return err
}

// VerifyAccessToken is the TokenVerifier behind the Authenticator
// middleware. Beyond the signature it rejects blacklisted ids, deleted or
// deactivated users and tokens older than the user's token_version. The
// returned role is the one currently stored, not the one signed.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
		switch {
		case err != nil:
			slog.WarnContext(ctx, "token blacklist unavailable, skipping check",
				"error", err,
			)
		case revoked:
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
		}
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
		}
		return nil, core.InternalError(fmt.Errorf("verify token: %w", err))
	}

	if !user.IsActive || claims.TokenVersion < user.TokenVersion {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	claims.Role = user.Role
	return claims, nil
}

func (s *Service) Me(ctx context.Context, userID string) (*MeResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &MeResponse{
		User:        ToUserResponse(user),
		Permissions: s.roles.PermissionsForUser(ctx, userID),
	}, nil
}

// issueSession signs an access token and stores a new refresh token. An
// empty familyID starts a new family; an empty tokenID draws a fresh one.
func (s *Service) issueSession(
	ctx context.Context,
	user *UserInfo,
	familyID, tokenID string,
) (*AuthResponse, error) {
	access, err := s.jwt.CreateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refresh, err := s.jwt.CreateRefreshToken(familyID)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	if tokenID == "" {
		tokenID = uuid.New().String()
	}

	origin := middleware.GetOrigin(ctx)
	stored := &RefreshToken{
		ID:        tokenID,
		UserID:    user.ID,
		TokenHash: refresh.Hash,
		FamilyID:  refresh.FamilyID,
		ExpiresAt: refresh.ExpiresAt,
		UserAgent: origin.UserAgent,
		IPAddress: origin.IPAddress,
	}

	if err := s.tokens.Create(ctx, stored); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &AuthResponse{
		User: ToUserResponse(user),
		Tokens: TokenResponse{
			AccessToken:  access.Token,
			RefreshToken: refresh.Token,
			TokenType:    "Bearer",
			ExpiresIn:    int(s.jwt.AccessTokenTTL() / time.Second),
			ExpiresAt:    access.ExpiresAt,
		},
	}, nil
}
