// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/carterperez-dev/quiz-platform/internal/core"
)

type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*AccessTokenClaims, error)
}

// PermissionChecker answers whether a user's role grants a named
// permission. Lookup failures count as "no".
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID, permission string) bool
}

// AccessTokenClaims is the verified identity attached to a request.
type AccessTokenClaims struct {
	UserID       string
	Role         string
	TokenVersion int
	ID           string
	ExpiresAt    time.Time
}

// Authenticator is the only source of the acting user id. Client supplied
// identity headers are never consulted.
func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				core.JSONError(w, r, core.UnauthorizedError("missing authorization token"))
				return
			}

			claims, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				core.JSONError(w, r, tokenError(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole admits callers whose token role is one of roles. The role
// comes from the verified token, so use RequirePermission where a role
// change must apply before the token expires.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return guard(func(r *http.Request, claims *AccessTokenClaims) bool {
		return slices.Contains(roles, claims.Role)
	})
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole("admin")(next)
}

// RequirePermission resolves the caller's permissions on every request.
func RequirePermission(checker PermissionChecker, permission string) func(http.Handler) http.Handler {
	return guard(func(r *http.Request, claims *AccessTokenClaims) bool {
		return checker.HasPermission(r.Context(), claims.UserID, permission)
	})
}

// guard answers 401 without verified claims and 403 when allowed says no.
func guard(allowed func(*http.Request, *AccessTokenClaims) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r.Context())
			if claims == nil || claims.UserID == "" {
				core.JSONError(w, r, core.UnauthorizedError("authentication required"))
				return
			}

			if !allowed(r, claims) {
				core.JSONError(w, r, core.ForbiddenError("insufficient permissions"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ExtractToken returns the bearer credential, or "" for any other scheme.
func ExtractToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func tokenError(err error) error {
	if core.IsAppError(err) {
		return err
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		return core.TokenExpiredError()
	case errors.Is(err, core.ErrTokenRevoked):
		return core.TokenRevokedError()
	default:
		return core.TokenInvalidError()
	}
}

func WithClaims(ctx context.Context, claims *AccessTokenClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func GetClaims(ctx context.Context) *AccessTokenClaims {
	claims, _ := ctx.Value(claimsKey).(*AccessTokenClaims)
	return claims
}

func GetUserID(ctx context.Context) string {
	if claims := GetClaims(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}

func GetUserRole(ctx context.Context) string {
	if claims := GetClaims(ctx); claims != nil {
		return claims.Role
	}
	return ""
}
