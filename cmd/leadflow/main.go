// Command leadflow runs the lead-generation HTTP service.
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

	"github.com/leadflowhq/leadflow/internal/api"
	"github.com/leadflowhq/leadflow/internal/apify"
	"github.com/leadflowhq/leadflow/internal/artifact"
	"github.com/leadflowhq/leadflow/internal/clock/system"
	"github.com/leadflowhq/leadflow/internal/config"
	"github.com/leadflowhq/leadflow/internal/enrich"
	iduuid "github.com/leadflowhq/leadflow/internal/id/uuid"
	"github.com/leadflowhq/leadflow/internal/logging"
	"github.com/leadflowhq/leadflow/internal/orchestrator"
	"github.com/leadflowhq/leadflow/internal/probe"
	"github.com/leadflowhq/leadflow/internal/storage/memory"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "leadflow: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := memory.NewJobStore()

	artifacts, err := artifact.NewCSVStore(cfg.Storage.ResultsDir)
	if err != nil {
		return err
	}

	source := apify.NewClient(cfg.Apify.Token,
		apify.WithBaseURL(cfg.Apify.BaseURL),
		apify.WithActor(cfg.Apify.Actor),
		apify.WithLanguage(cfg.Apify.Language),
	)
	if cfg.Apify.Token == "" {
		logger.Warn("no Apify token configured; scrape jobs will fail until one is set")
	}

	enricher := enrich.New(
		func() probe.Fetcher {
			return probe.NewCollyFetcher(probe.FetcherConfig{UserAgent: cfg.Enrich.UserAgent})
		},
		probe.Config{
			HomeTimeout:    cfg.HomeTimeout(),
			ContactTimeout: cfg.ContactTimeout(),
			ContactPath:    cfg.Enrich.ContactPath,
		},
		cfg.Enrich.Concurrency,
		logger.Named("enrich"),
	)

	jobs := orchestrator.New(store, source, enricher, artifacts,
		iduuid.New(), system.New(), logger.Named("orchestrator"))

	server := api.NewServer(store, jobs, cfg, logger.Named("api"))

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", httpServer.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
