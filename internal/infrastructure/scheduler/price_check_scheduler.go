package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
	"github.com/Sontome/web-b2b-thuhongtour/pkg/logger"
)

// Sweeper runs one fare monitor sweep
type Sweeper interface {
	RunSweep(ctx context.Context, flightID string) (*entity.SweepResult, error)
}

// AlertDispatcher consumes the results of a scheduled sweep
type AlertDispatcher interface {
	Dispatch(ctx context.Context, results []entity.PriceCheckResult) int
}

// PriceCheckScheduler runs scheduled sweeps on a fixed interval
type PriceCheckScheduler struct {
	sweeper      Sweeper
	dispatcher   AlertDispatcher
	interval     time.Duration
	sweepTimeout time.Duration
	logger       logger.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	sweeping  sync.Mutex
}

// NewPriceCheckScheduler creates a new scheduler. dispatcher may be nil.
func NewPriceCheckScheduler(
	sweeper Sweeper,
	dispatcher AlertDispatcher,
	interval time.Duration,
	sweepTimeout time.Duration,
	logger logger.Logger,
) *PriceCheckScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &PriceCheckScheduler{
		sweeper:      sweeper,
		dispatcher:   dispatcher,
		interval:     interval,
		sweepTimeout: sweepTimeout,
		logger:       logger,
	}
}

// Start starts the ticker loop. Calling Start twice is a no-op.
func (s *PriceCheckScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Price check scheduler started", "interval", s.interval)
}

// Stop cancels the loop and waits for an in-flight sweep until ctx is done
func (s *PriceCheckScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Price check scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *PriceCheckScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce runs a scheduled sweep and dispatches alerts for its results.
// It returns false without sweeping when another sweep is still running.
func (s *PriceCheckScheduler) RunOnce(ctx context.Context) bool {
	if !s.sweeping.TryLock() {
		s.logger.Warn("Previous price check still running, skipping tick")
		return false
	}
	defer s.sweeping.Unlock()

	if s.sweepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.sweepTimeout)
		defer cancel()
	}

	result, err := s.sweeper.RunSweep(ctx, "")
	if err != nil {
		s.logger.Error("Scheduled price check failed", "error", err)
		return true
	}

	s.logger.Debug("Scheduled price check finished", "checked", result.Checked)

	if s.dispatcher != nil && len(result.Results) > 0 {
		s.dispatcher.Dispatch(ctx, result.Results)
	}
	return true
}
