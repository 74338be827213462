package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	prom "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogUseCaseObserver(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	obs := NewLogUseCaseObserver(zap.New(core))

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name: "milestone-save", Duration: 3 * time.Millisecond, Success: true,
		Fields: map[string]any{"milestone_id": "m1"},
	})
	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name: "milestone-delete", Err: errors.New("boom"),
	})

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "milestone-save", entries[0].ContextMap()["use_case"])
	assert.Equal(t, "m1", entries[0].ContextMap()["milestone_id"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}

func TestLogUseCaseObserver_NilLogger(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}

func TestMetricsUseCaseObserver(t *testing.T) {
	obs := NewMetricsUseCaseObserver(prometheus.NewRegistry())
	ctx := context.Background()

	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "milestone-create", Success: true})
	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "milestone-create", Success: true})
	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "milestone-create", Err: errors.New("x")})

	assert.Equal(t, 2.0, prom.ToFloat64(obs.Total.WithLabelValues("milestone-create", "success")))
	assert.Equal(t, 1.0, prom.ToFloat64(obs.Total.WithLabelValues("milestone-create", "error")))
	assert.Equal(t, 1, prom.CollectAndCount(obs.Duration))
}

func TestMultiUseCaseObserver(t *testing.T) {
	a, b := &recordingObserver{}, &recordingObserver{}
	obs := NewMultiUseCaseObserver(a, nil, b)
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "x"})
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)

	assert.Same(t, a, NewMultiUseCaseObserver(nil, a))
	assert.IsType(t, NoopUseCaseObserver{}, NewMultiUseCaseObserver())
}
