// Package main wires together the story archiver binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/newshound/newshound/internal/api"
	"github.com/newshound/newshound/internal/archiver"
	"github.com/newshound/newshound/internal/clock/system"
	"github.com/newshound/newshound/internal/config"
	"github.com/newshound/newshound/internal/fetch"
	"github.com/newshound/newshound/internal/id/uuid"
	"github.com/newshound/newshound/internal/logging"
	"github.com/newshound/newshound/internal/metrics"
	"github.com/newshound/newshound/internal/store"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	contentStore, err := store.New(store.Config{DataDir: cfg.Storage.DataDir})
	if err != nil {
		logger.Fatal("content store init failed", zap.Error(err))
	}

	limiter := fetch.NewLimiter(cfg.Crawler.PerHostConns, cfg.Crawler.TotalConns)
	fetcher := fetch.New(fetch.Config{
		UserAgent: cfg.Crawler.UserAgent,
		Timeout:   cfg.FetchTimeout(),
	}, limiter)

	worker := archiver.NewStoryWorker(fetcher, contentStore, archiver.WorkerConfig{
		RootURL: cfg.Crawler.RootURL,
	}, logger.Named("worker"))
	orchestrator := archiver.NewOrchestrator(fetcher, worker, archiver.OrchestratorConfig{
		RootURL:    cfg.Crawler.RootURL,
		StoryLimit: cfg.Crawler.StoryLimit,
	}, logger.Named("orchestrator"))
	scheduler := archiver.NewScheduler(
		orchestrator,
		cfg.Period(),
		system.New(),
		uuid.New(),
		logger.Named("scheduler"),
	)

	apiServer := api.NewServer(contentStore, logger.Named("api"))
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("status server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("status server error", zap.Error(err))
			stop()
		}
	}()

	logger.Info("scheduler started",
		zap.String("root_url", cfg.Crawler.RootURL),
		zap.Duration("period", cfg.Period()),
	)
	scheduler.Run(ctx)

	logger.Info("shutdown initiated")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
