package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/ecomsync/backend/internal/application/growth"
	"go.uber.org/zap"
)

// GrowthScheduler drives the growth simulator once per fixed interval,
// forever. Per-platform failure isolation lives inside the simulator cycle;
// the loop itself only stops when its context is cancelled (process
// termination). The idempotent upsert contract makes abrupt termination and
// resumption safe.
type GrowthScheduler struct {
	simulator *growth.Simulator
	interval  time.Duration
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewGrowthScheduler creates a scheduler running the simulator every interval
func NewGrowthScheduler(simulator *growth.Simulator, interval time.Duration, logger *zap.Logger) *GrowthScheduler {
	return &GrowthScheduler{
		simulator: simulator,
		interval:  interval,
		logger:    logger.Named("scheduler"),
	}
}

// Start launches the scheduler loop. The first cycle runs immediately.
func (s *GrowthScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("growth scheduler started", zap.Duration("interval", s.interval))
	return nil
}

// Stop cancels the loop and waits for the current cycle to finish
func (s *GrowthScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("growth scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("growth scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *GrowthScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

// runCycle executes one simulator cycle, logging start, per-platform
// outcome, and the next scheduled run time
func (s *GrowthScheduler) runCycle(ctx context.Context) {
	started := time.Now()
	s.logger.Info("growth cycle starting", zap.Time("started_at", started))

	outcomes := s.simulator.RunCycle(ctx)
	for _, o := range outcomes {
		if o.Err != nil {
			s.logger.Error("platform outcome",
				zap.String("platform", string(o.Platform)),
				zap.Error(o.Err),
			)
			continue
		}
		s.logger.Info("platform outcome",
			zap.String("platform", string(o.Platform)),
			zap.Int("merchants_updated", o.Updated),
			zap.Int("merchants_created", o.Created),
		)
	}

	s.logger.Info("growth cycle completed",
		zap.Duration("elapsed", time.Since(started)),
		zap.Time("next_run", started.Add(s.interval)),
	)
}
