// Package sweep periodically reconciles milestone reached state with the
// state of their issues.
package sweep

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/bugtrail/internal/service"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper runs MilestoneService.RefreshUnreached on a cron schedule.
type Sweeper struct {
	milestones service.MilestoneService
	logger     *zap.Logger
	cron       *cron.Cron
	timeout    time.Duration

	mu   sync.Mutex
	base context.Context
}

// New validates spec (standard five-field cron or a descriptor such as
// "@every 5m") and registers the sweep job. Call Start to begin running it.
func New(milestones service.MilestoneService, spec string, logger *zap.Logger) (*Sweeper, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Sweeper{
		milestones: milestones,
		logger:     logger,
		cron:       cron.New(),
		timeout:    time.Minute,
		base:       context.Background(),
	}
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the schedule in the background. Jobs inherit values from ctx
// (such as the acting user) but are bounded by their own timeout.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	s.base = context.WithoutCancel(ctx)
	s.mu.Unlock()
	s.cron.Start()
	s.logger.Info("milestone sweep started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop halts the schedule and waits for a running sweep to finish or for ctx
// to expire, whichever comes first.
func (s *Sweeper) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("milestone sweep did not stop in time")
	}
}

func (s *Sweeper) tick() {
	s.mu.Lock()
	base := s.base
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(base, s.timeout)
	defer cancel()
	_, _ = s.RunOnce(ctx)
}

// RunOnce performs a single sweep and logs its outcome.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	started := time.Now()
	marked, err := s.milestones.RefreshUnreached(ctx)
	if err != nil {
		s.logger.Error("milestone sweep failed", zap.Error(err), zap.Int("marked", marked))
		return marked, err
	}
	s.logger.Info("milestone sweep finished",
		zap.Int("marked", marked),
		zap.Duration("took", time.Since(started)),
	)
	return marked, nil
}
