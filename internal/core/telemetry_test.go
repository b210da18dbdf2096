// AngelaMos | 2026
// telemetry_test.go

package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/carterperez-dev/quiz-platform/internal/config"
)

func TestNewTelemetryDisabled(t *testing.T) {
	tel, err := NewTelemetry(context.Background(),
		config.OtelConfig{Enabled: false, Endpoint: "collector:4317"},
		config.AppConfig{},
	)
	require.ErrorIs(t, err, ErrTelemetryDisabled)
	assert.Nil(t, tel)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestSampleRateFallsBackOutsideUnitRange(t *testing.T) {
	assert.InDelta(t, defaultSampleRate, sampleRate(0), 1e-9)
	assert.InDelta(t, defaultSampleRate, sampleRate(1.5), 1e-9)
	assert.InDelta(t, 0.5, sampleRate(0.5), 1e-9)
}

func TestSpanHelpers(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	assert.Empty(t, TraceIDFromContext(context.Background()))

	ctx, span := provider.Tracer("test").Start(context.Background(), "op")
	assert.Len(t, TraceIDFromContext(ctx), 32)

	SetSpanError(ctx, errors.New("store down"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "store down", ended[0].Status().Description)
}
