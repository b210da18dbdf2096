// AngelaMos | 2026
// context.go

package middleware

import (
	"context"

	"github.com/carterperez-dev/quiz-platform/internal/core"
)

type ctxKey int

const (
	originKey ctxKey = iota
	claimsKey
)

// RequestOrigin is where a request came from, as recorded in the audit
// trail. Either field may be empty.
type RequestOrigin struct {
	IPAddress string
	UserAgent string
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return core.WithRequestID(ctx, id)
}

func GetRequestID(ctx context.Context) string {
	return core.RequestIDFromContext(ctx)
}

func WithOrigin(ctx context.Context, origin RequestOrigin) context.Context {
	return context.WithValue(ctx, originKey, origin)
}

func GetOrigin(ctx context.Context) RequestOrigin {
	origin, _ := ctx.Value(originKey).(RequestOrigin)
	return origin
}
