// AngelaMos | 2026
// recorder.go

package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/carterperez-dev/quiz-platform/internal/middleware"
)

// Recorder appends entries to the activity log. Record never reports
// failure to its caller: a lost audit row is logged and counted, and the
// operation that produced it proceeds as if the write had succeeded.
type Recorder struct {
	repo         Repository
	writeTimeout time.Duration
	written      *prometheus.CounterVec
	failures     *prometheus.CounterVec
}

// NewRecorder registers its counters on reg. A nil reg leaves them
// unregistered.
func NewRecorder(
	repo Repository,
	writeTimeout time.Duration,
	reg prometheus.Registerer,
) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		repo:         repo,
		writeTimeout: writeTimeout,
		written: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "audit_entries_written_total",
			Help: "Activity log entries persisted, by action.",
		}, []string{"action"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "audit_write_failures_total",
			Help: "Activity log entries lost to write errors, by action.",
		}, []string{"action"}),
	}
}

// Record fills origin fields from the request context when the event
// leaves them empty. The write is detached from request cancellation and
// bounded by the recorder's own timeout.
func (r *Recorder) Record(ctx context.Context, event Event) {
	origin := middleware.GetOrigin(ctx)
	if event.IPAddress == "" {
		event.IPAddress = origin.IPAddress
	}
	if event.UserAgent == "" {
		event.UserAgent = origin.UserAgent
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.writeTimeout)
	defer cancel()

	if err := r.repo.Insert(writeCtx, event); err != nil {
		r.failures.WithLabelValues(event.Action).Inc()
		slog.ErrorContext(ctx, "audit write failed",
			"action", event.Action,
			"actor_id", event.ActorID,
			"entity_type", event.EntityType,
			"entity_id", event.EntityID,
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		return
	}

	r.written.WithLabelValues(event.Action).Inc()
}
