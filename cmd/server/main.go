package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hirevet/internal/api/routes"
	"hirevet/internal/config"
	"hirevet/internal/export"
	"hirevet/internal/extract"
	"hirevet/internal/ingest"
	"hirevet/internal/jobs"
	"hirevet/internal/llm"
	"hirevet/internal/notify"
	"hirevet/internal/pdftext"
	"hirevet/internal/pipeline"
	"hirevet/pkg/models"
	"hirevet/pkg/utils"

	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Starting HireVet API")

	// Initialize LLM manager
	llmManager := llm.NewManager(cfg)
	if err := llmManager.Start(); err != nil {
		logger.WithError(err).Fatal("Failed to start LLM manager")
	}

	// Initialize analysis collaborators
	extractClient := extract.NewClient(cfg)
	fetcher := ingest.NewFetcher(cfg)
	extractor := pdftext.NewExtractor()
	analyzer := pipeline.New(cfg, llmManager, extractor, extractClient, fetcher)

	// Initialize job store and manager
	store, err := jobs.NewStore(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize job store")
	}

	jobManager := jobs.NewManager(cfg, store)
	notifier := notify.NewClient(cfg)
	jobManager.SetTerminalHook(func(job *models.AnalysisJob) {
		if cfg.Export.Enabled && job.Results != nil {
			if _, _, err := export.WriteAnalysis(cfg, job); err != nil {
				logger.WithError(err).WithField("job_id", job.ID).Error("Failed to export analysis results")
			}
		}
		if notifier.Enabled() {
			notifyCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := notifier.NotifyTerminal(notifyCtx, job); err != nil {
				logger.WithError(err).WithField("job_id", job.ID).Error("Failed to deliver completion webhook")
			}
		}
	})

	ctx := context.Background()
	if err := jobManager.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to start job manager")
	}

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	// Setup routes
	routes.SetupRoutes(e, cfg, analyzer, jobManager)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		// Create a shutdown context with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Stop job manager first so in-flight analyses can finish
		logger.Info("Stopping job manager...")
		if err := jobManager.Stop(shutdownCtx); err != nil {
			logger.WithError(err).Error("Error stopping job manager")
		}

		// Stop repository fetcher
		logger.Info("Stopping repository fetcher...")
		fetcher.Stop()

		// Stop LLM manager
		logger.Info("Stopping LLM manager...")
		if err := llmManager.Stop(); err != nil {
			logger.WithError(err).Error("Error stopping LLM manager")
		}

		// Shutdown Echo server
		logger.Info("Stopping HTTP server...")
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Error shutting down server")
		}

		logger.Info("Server shutdown complete")
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.WithField("address", address).Info("Server starting")

	if err := e.Start(address); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
