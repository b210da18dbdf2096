// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/quiz-platform/internal/core"
)

const (
	rateKeyPrefix = "quiz:rl"
	bucketIdle    = 10 * time.Minute
	sweepEvery    = 5 * time.Minute
)

// RateLimitConfig describes one limiter. OnLimited observes a rejected
// request before the 429 is written.
type RateLimitConfig struct {
	Limit      redis_rate.Limit
	KeyFunc    func(*http.Request) string
	BypassFunc func(*http.Request) bool
	OnLimited  func(r *http.Request, key string)
}

// RateLimiter keeps shared counters in Redis. While Redis is unreachable
// every replica enforces the same limit from its own memory, so the
// effective budget is per replica until Redis returns.
type RateLimiter struct {
	shared   *redis_rate.Limiter
	local    *memoryBuckets
	cfg      RateLimitConfig
	degraded atomic.Bool
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}

	return &RateLimiter{
		shared: redis_rate.NewLimiter(rdb),
		local:  &memoryBuckets{buckets: make(map[string]*bucket)},
		cfg:    cfg,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.cfg.BypassFunc != nil && rl.cfg.BypassFunc(r) {
			next.ServeHTTP(w, r)
			return
		}

		key := rl.cfg.KeyFunc(r)
		res := rl.take(r, key)
		writeBudgetHeaders(w, res)

		if res.Allowed > 0 {
			next.ServeHTTP(w, r)
			return
		}

		if rl.cfg.OnLimited != nil {
			rl.cfg.OnLimited(r, key)
		}

		retry := max(int(res.RetryAfter.Seconds()), 1)
		w.Header().Set("Retry-After", strconv.Itoa(retry))
		core.JSON(w, http.StatusTooManyRequests, core.ErrorResponse{
			Error: fmt.Sprintf("too many requests, retry in %d seconds", retry),
			Code:  "RATE_LIMITED",
		})
	})
}

func (rl *RateLimiter) take(r *http.Request, key string) *redis_rate.Result {
	res, err := rl.shared.Allow(r.Context(), key, rl.cfg.Limit)
	if err == nil {
		if rl.degraded.CompareAndSwap(true, false) {
			slog.InfoContext(r.Context(), "rate limiter using redis again")
		}
		return res
	}

	if rl.degraded.CompareAndSwap(false, true) {
		slog.WarnContext(r.Context(), "rate limiter redis unavailable, using local buckets",
			"error", err,
		)
	}

	return rl.local.take(key, rl.cfg.Limit, time.Now())
}

func KeyByIP(r *http.Request) string {
	return rateKeyPrefix + ":ip:" + ClientIP(r)
}

// KeyByIPAndEndpoint gives each endpoint its own budget per client
// address. Path ids are collapsed so /games/{id} shares one budget.
func KeyByIPAndEndpoint(r *http.Request) string {
	return KeyByIP(r) + ":" + r.Method + ":" + normalizeEndpoint(r.URL.Path)
}

func KeyByUser(r *http.Request) string {
	if userID := GetUserID(r.Context()); userID != "" {
		return rateKeyPrefix + ":user:" + userID
	}
	return KeyByIP(r)
}

func normalizeEndpoint(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if _, err := uuid.Parse(seg); err == nil {
			segments[i] = "{id}"
			continue
		}
		if _, err := strconv.ParseUint(seg, 10, 64); err == nil {
			segments[i] = "{id}"
		}
	}
	return "/" + strings.Join(segments, "/")
}

func writeBudgetHeaders(w http.ResponseWriter, res *redis_rate.Result) {
	h := w.Header()
	h.Set("RateLimit-Limit", strconv.Itoa(res.Limit.Rate))
	h.Set("RateLimit-Remaining", strconv.Itoa(max(res.Remaining, 0)))
	h.Set("RateLimit-Reset", strconv.Itoa(int(res.ResetAfter.Seconds())))
	h.Set("RateLimit-Policy", fmt.Sprintf("%d;w=%d", res.Limit.Rate, int(res.Limit.Period.Seconds())))
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// memoryBuckets is the per-replica fallback. Idle buckets are swept
// lazily on the request path.
type memoryBuckets struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	sweepAt time.Time
}

func (m *memoryBuckets) take(key string, limit redis_rate.Limit, now time.Time) *redis_rate.Result {
	if limit.Rate <= 0 || limit.Period <= 0 {
		return &redis_rate.Result{Limit: limit, Allowed: 1, RetryAfter: -1}
	}
	interval := limit.Period / time.Duration(limit.Rate)

	m.mu.Lock()
	defer m.mu.Unlock()

	if now.After(m.sweepAt) {
		for k, b := range m.buckets {
			if now.Sub(b.lastSeen) > bucketIdle {
				delete(m.buckets, k)
			}
		}
		m.sweepAt = now.Add(sweepEvery)
	}

	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(interval), limit.Burst)}
		m.buckets[key] = b
	}
	b.lastSeen = now

	res := &redis_rate.Result{
		Limit:      limit,
		RetryAfter: -1,
		ResetAfter: interval,
	}
	if b.limiter.AllowN(now, 1) {
		res.Allowed = 1
	} else {
		res.RetryAfter = interval
	}
	res.Remaining = max(int(b.limiter.TokensAt(now)), 0)

	return res
}

func PerMinute(requests, burst int) redis_rate.Limit {
	return PerWindow(requests, burst, time.Minute)
}

func PerWindow(requests, burst int, window time.Duration) redis_rate.Limit {
	return redis_rate.Limit{
		Rate:   requests,
		Burst:  burst,
		Period: window,
	}
}
