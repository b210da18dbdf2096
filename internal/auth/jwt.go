// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/quiz-platform/internal/config"
	"github.com/carterperez-dev/quiz-platform/internal/core"
	"github.com/carterperez-dev/quiz-platform/internal/middleware"
)

const (
	claimRole         = "role"
	claimTokenVersion = "token_version"
	claimTokenUse     = "token_use"
	tokenUseAccess    = "access"

	clockSkew = 30 * time.Second
)

// JWTManager signs ES256 access tokens and mints opaque refresh tokens.
// It checks signatures and registered claims only; blacklist, version and
// account state are decided by Service.VerifyAccessToken.
type JWTManager struct {
	keys *signingKeys
	cfg  config.JWTConfig
	now  func() time.Time
}

func NewJWTManager(cfg config.JWTConfig) (*JWTManager, error) {
	keys, err := loadSigningKeys(cfg.PrivateKeyPath)
	if err != nil {
		return nil, err
	}

	return &JWTManager{keys: keys, cfg: cfg, now: time.Now}, nil
}

type AccessToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

func (m *JWTManager) CreateAccessToken(user *UserInfo) (*AccessToken, error) {
	issuedAt := m.now()
	expiresAt := issuedAt.Add(m.cfg.AccessTokenExpire)
	jti := uuid.NewString()

	token, err := jwt.NewBuilder().
		JwtID(jti).
		Issuer(m.cfg.Issuer).
		Audience([]string{m.cfg.Audience}).
		Subject(user.ID).
		IssuedAt(issuedAt).
		NotBefore(issuedAt).
		Expiration(expiresAt).
		Claim(claimRole, user.Role).
		Claim(claimTokenVersion, user.TokenVersion).
		Claim(claimTokenUse, tokenUseAccess).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build access token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), m.keys.private))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	return &AccessToken{Token: string(signed), ID: jti, ExpiresAt: expiresAt}, nil
}

// VerifyAccessToken wraps core.ErrTokenExpired for a lapsed token and
// core.ErrTokenInvalid for anything else it rejects.
func (m *JWTManager) VerifyAccessToken(
	_ context.Context,
	raw string,
) (*middleware.AccessTokenClaims, error) {
	token, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.ES256(), m.keys.public),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithAudience(m.cfg.Audience),
		jwt.WithAcceptableSkew(clockSkew),
		jwt.WithClock(jwt.ClockFunc(m.now)),
	)
	if err != nil {
		if errors.Is(err, jwt.TokenExpiredError()) {
			return nil, fmt.Errorf("verify access token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify access token: %w", core.ErrTokenInvalid)
	}

	claims, err := accessClaims(token)
	if err != nil {
		return nil, fmt.Errorf("verify access token: %w: %w", core.ErrTokenInvalid, err)
	}

	return claims, nil
}

func accessClaims(token jwt.Token) (*middleware.AccessTokenClaims, error) {
	var use string
	if err := token.Get(claimTokenUse, &use); err != nil || use != tokenUseAccess {
		return nil, errors.New("not an access token")
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, errors.New("missing subject")
	}

	jti, ok := token.JwtID()
	if !ok || jti == "" {
		return nil, errors.New("missing jti")
	}

	var role string
	if err := token.Get(claimRole, &role); err != nil || role == "" {
		return nil, errors.New("missing role")
	}

	// JSON numbers decode as float64.
	var version float64
	if err := token.Get(claimTokenVersion, &version); err != nil {
		return nil, errors.New("missing token version")
	}

	expiresAt, _ := token.Expiration()

	return &middleware.AccessTokenClaims{
		UserID:       subject,
		Role:         role,
		TokenVersion: int(version),
		ID:           jti,
		ExpiresAt:    expiresAt,
	}, nil
}

// JWKSHandler publishes the verification key for other services.
func (m *JWTManager) JWKSHandler() http.HandlerFunc {
	body, err := json.Marshal(m.keys.set)

	return func(w http.ResponseWriter, r *http.Request) {
		if err != nil {
			core.InternalServerError(w, r, fmt.Errorf("encode jwks: %w", err))
			return
		}

		w.Header().Set("Content-Type", "application/jwk-set+json")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(body)
	}
}

func (m *JWTManager) KeyID() string {
	return m.keys.keyID
}

func (m *JWTManager) AccessTokenTTL() time.Duration {
	return m.cfg.AccessTokenExpire
}

type RefreshTokenData struct {
	Token     string
	Hash      string
	ExpiresAt time.Time
	FamilyID  string
}

// CreateRefreshToken starts a new family when familyID is empty. Only the
// hash is ever stored.
func (m *JWTManager) CreateRefreshToken(familyID string) (*RefreshTokenData, error) {
	token, err := core.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if familyID == "" {
		familyID = uuid.NewString()
	}

	return &RefreshTokenData{
		Token:     token,
		Hash:      core.HashToken(token),
		ExpiresAt: m.now().Add(m.cfg.RefreshTokenExpire),
		FamilyID:  familyID,
	}, nil
}
