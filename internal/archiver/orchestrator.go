package archiver

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/newshound/newshound/internal/extract"
	"github.com/newshound/newshound/internal/news"
)

// OrchestratorConfig controls one crawl iteration.
type OrchestratorConfig struct {
	RootURL    string
	StoryLimit int
}

// Orchestrator runs one crawl iteration: fetch the front page, fan out
// one StoryWorker per story, and consume outcomes as they complete.
type Orchestrator struct {
	fetcher news.Fetcher
	worker  *StoryWorker
	cfg     OrchestratorConfig
	logger  *zap.Logger
}

// NewOrchestrator constructs an Orchestrator.
func NewOrchestrator(fetcher news.Fetcher, worker *StoryWorker, cfg OrchestratorConfig, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		fetcher: fetcher,
		worker:  worker,
		cfg:     cfg,
		logger:  logger,
	}
}

// RunIteration processes the current front page once. A front-page
// fetch failure fails the whole iteration; story failures are isolated
// by the workers and only logged here.
func (o *Orchestrator) RunIteration(ctx context.Context) error {
	result, err := o.fetcher.Fetch(ctx, o.cfg.RootURL)
	if err != nil {
		return fmt.Errorf("fetch front page: %w", err)
	}

	stories, err := extract.Stories(result.Body, o.cfg.StoryLimit)
	if err != nil {
		// Malformed rows fail individually; the rest still get archived.
		o.logger.Warn("front page had malformed story rows", zap.Error(err))
	}
	o.logger.Info("front page extracted", zap.Int("stories", len(stories)))

	outcomes := make(chan news.StoryOutcome)
	var wg sync.WaitGroup
	for _, story := range stories {
		wg.Add(1)
		go func(s news.Story) {
			defer wg.Done()
			outcomes <- o.worker.Process(ctx, s)
		}(story)
	}
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var archived, skipped, failed int
	for outcome := range outcomes {
		switch outcome.State {
		case news.StoryArchived:
			archived++
		case news.StorySkipped:
			skipped++
		case news.StoryFailed:
			failed++
		}
	}

	o.logger.Info("iteration summary",
		zap.Int("archived", archived),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)
	return nil
}
