// Package archiver implements the crawl pipeline: per-story workers,
// the iteration orchestrator, and the periodic scheduler.
package archiver

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/newshound/newshound/internal/extract"
	"github.com/newshound/newshound/internal/metrics"
	"github.com/newshound/newshound/internal/news"
)

// WorkerConfig controls StoryWorker behavior.
type WorkerConfig struct {
	// RootURL is the front-page root; comment pages live at
	// <RootURL>item?id=<story_id>.
	RootURL string
}

// StoryWorker archives a single story: the article body plus every
// resource linked from the story's comment thread.
type StoryWorker struct {
	fetcher news.Fetcher
	store   news.Store
	cfg     WorkerConfig
	logger  *zap.Logger
}

// NewStoryWorker constructs a StoryWorker.
func NewStoryWorker(fetcher news.Fetcher, store news.Store, cfg WorkerConfig, logger *zap.Logger) *StoryWorker {
	return &StoryWorker{
		fetcher: fetcher,
		store:   store,
		cfg:     cfg,
		logger:  logger,
	}
}

// Process runs the story through the archive pipeline. A story whose
// archive directory already exists is skipped without any network
// calls. Article fetch, article save and comment-page fetch failures
// are fatal to this story only; the failure of an individual linked
// resource never fails its siblings or the story.
func (w *StoryWorker) Process(ctx context.Context, story news.Story) news.StoryOutcome {
	if w.store.Exists(story.ID) {
		w.logger.Info("story already archived, skipping",
			zap.String("story_id", story.ID),
			zap.String("url", story.URL),
		)
		metrics.ObserveStory(string(news.StorySkipped))
		return news.StoryOutcome{Story: story, State: news.StorySkipped}
	}

	if err := w.archiveArticle(ctx, story); err != nil {
		return w.fail(story, err)
	}

	links, err := w.collectCommentLinks(ctx, story)
	if err != nil {
		return w.fail(story, err)
	}

	saved, failed := w.fanOutLinks(ctx, story, links)

	w.logger.Info("story archived",
		zap.String("story_id", story.ID),
		zap.Int("links_saved", saved),
		zap.Int("links_failed", failed),
	)
	metrics.ObserveStory(string(news.StoryArchived))
	return news.StoryOutcome{
		Story:       story,
		State:       news.StoryArchived,
		LinksSaved:  saved,
		LinksFailed: failed,
	}
}

func (w *StoryWorker) fail(story news.Story, err error) news.StoryOutcome {
	w.logger.Error("story processing failed",
		zap.String("story_id", story.ID),
		zap.String("url", story.URL),
		zap.Error(err),
	)
	metrics.ObserveStory(string(news.StoryFailed))
	return news.StoryOutcome{Story: story, State: news.StoryFailed, Err: err}
}

func (w *StoryWorker) archiveArticle(ctx context.Context, story news.Story) error {
	result, err := w.fetcher.Fetch(ctx, story.URL)
	if err != nil {
		return fmt.Errorf("fetch article: %w", err)
	}

	fileName := news.ArticleFileName(story)
	if err := w.store.Save(ctx, story.ID, fileName, result.Body); err != nil {
		return fmt.Errorf("save article as %q: %w", fileName, err)
	}
	return nil
}

func (w *StoryWorker) collectCommentLinks(ctx context.Context, story news.Story) ([]string, error) {
	commentURL := fmt.Sprintf("%sitem?id=%s", w.cfg.RootURL, story.ID)
	result, err := w.fetcher.Fetch(ctx, commentURL)
	if err != nil {
		return nil, fmt.Errorf("fetch comment page: %w", err)
	}

	links, err := extract.CommentLinks(result.Body)
	if err != nil {
		return nil, fmt.Errorf("extract comment links: %w", err)
	}
	if len(links) == 0 {
		w.logger.Debug("no comment links", zap.String("story_id", story.ID))
	}
	return links, nil
}

type linkResult struct {
	url string
	err error
}

// fanOutLinks fetches and saves every linked resource concurrently,
// consuming results in completion order. Each link's failure is logged
// and counted but never cancels the others.
func (w *StoryWorker) fanOutLinks(ctx context.Context, story news.Story, links []string) (saved, failed int) {
	results := make(chan linkResult)
	for _, link := range links {
		go func(url string) {
			results <- linkResult{url: url, err: w.archiveLink(ctx, story, url)}
		}(link)
	}

	for range links {
		res := <-results
		if res.err != nil {
			failed++
			metrics.ObserveLink("failed")
			w.logger.Error("comment link failed",
				zap.String("story_id", story.ID),
				zap.String("url", res.url),
				zap.Error(res.err),
			)
			continue
		}
		saved++
		metrics.ObserveLink("saved")
		w.logger.Debug("comment link archived",
			zap.String("story_id", story.ID),
			zap.String("url", res.url),
		)
	}
	return saved, failed
}

func (w *StoryWorker) archiveLink(ctx context.Context, story news.Story, url string) error {
	result, err := w.fetcher.Fetch(ctx, url)
	if err != nil {
		return fmt.Errorf("fetch linked resource: %w", err)
	}

	title := ""
	if !news.MediaTypeKnown(url) {
		title = extract.DocumentTitle(result.Body)
	}
	fileName := news.ResourceFileName(url, title)
	if err := w.store.Save(ctx, story.ID, fileName, result.Body); err != nil {
		return fmt.Errorf("save linked resource as %q: %w", fileName, err)
	}
	return nil
}
