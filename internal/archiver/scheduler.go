package archiver

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/newshound/newshound/internal/metrics"
	"github.com/newshound/newshound/internal/news"
)

// Runner triggers one crawl iteration.
type Runner interface {
	RunIteration(ctx context.Context) error
}

// Scheduler launches crawl iterations: one immediately on start, then
// one every period, measured from iteration start. A slow iteration is
// not awaited before the next one launches, so iterations may overlap;
// the directory dedup marker keeps overlapping iterations from
// re-archiving the same story.
type Scheduler struct {
	runner Runner
	period time.Duration
	clock  news.Clock
	idGen  news.IDGenerator
	logger *zap.Logger
}

// NewScheduler constructs a Scheduler.
func NewScheduler(runner Runner, period time.Duration, clock news.Clock, idGen news.IDGenerator, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		runner: runner,
		period: period,
		clock:  clock,
		idGen:  idGen,
		logger: logger,
	}
}

// Run blocks, launching iterations until the context finishes.
func (s *Scheduler) Run(ctx context.Context) {
	s.launch(ctx)

	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping", zap.Error(ctx.Err()))
			return
		case <-ticker.C:
			s.launch(ctx)
		}
	}
}

func (s *Scheduler) launch(ctx context.Context) {
	iterationID, err := s.idGen.NewID()
	if err != nil {
		iterationID = "unknown"
	}
	logger := s.logger.With(zap.String("iteration_id", iterationID))
	start := s.clock.Now()
	logger.Info("iteration started")

	go func() {
		runErr := s.runner.RunIteration(ctx)
		duration := s.clock.Now().Sub(start)

		outcome := "ok"
		if runErr != nil {
			outcome = "failed"
			logger.Error("iteration failed", zap.Error(runErr))
		}
		metrics.ObserveIteration(outcome, duration)
		logger.Info("iteration finished",
			zap.String("outcome", outcome),
			zap.Duration("duration", duration),
		)
	}()
}
