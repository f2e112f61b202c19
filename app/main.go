package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/districtnews/ingest/app/api"
	"github.com/districtnews/ingest/app/cfg"
	"github.com/districtnews/ingest/app/database"
	"github.com/districtnews/ingest/app/dedupe"
	"github.com/districtnews/ingest/app/derive"
	"github.com/districtnews/ingest/app/discover"
	"github.com/districtnews/ingest/app/extract"
	"github.com/districtnews/ingest/app/feed"
	"github.com/districtnews/ingest/app/fetch"
	"github.com/districtnews/ingest/app/gemini"
	"github.com/districtnews/ingest/app/ingest"
	"github.com/districtnews/ingest/app/source"
	"github.com/districtnews/ingest/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting District News Ingest", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	configCache := source.NewConfigCache(appCfg.SourcesDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load source configurations", "dir", appCfg.SourcesDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Source configurations loaded", "count", configCache.GetSourceCount())

	articleRepo := database.NewArticleRepository(db)

	var summarizer derive.Summarizer
	var classifier derive.Classifier
	var headliner derive.HeadlineGenerator
	if appCfg.GeminiAPIKey != "" {
		geminiClient, err := gemini.NewClient(context.Background(), appCfg.GeminiAPIKey, appCfg.GeminiModel)
		if err != nil {
			slog.Error("Failed to create Gemini client", "error", err)
			os.Exit(1)
		}
		defer geminiClient.Close()
		summarizer, classifier, headliner = geminiClient, geminiClient, geminiClient
		slog.Info("Derived fields backed by Gemini", "model", appCfg.GeminiModel)
	} else {
		slog.Info("GEMINI_API_KEY not set, using deterministic fallbacks for derived fields")
	}

	client := fetch.NewClient(appCfg.UserAgent)
	pipeline := derive.NewPipeline(summarizer, classifier, headliner,
		time.Duration(appCfg.SummarizerTimeout)*time.Second,
		time.Duration(appCfg.ClassifierTimeout)*time.Second)

	orchestrator := ingest.NewOrchestrator(
		client,
		feed.NewProber(client, feed.NewParser()),
		discover.NewFinder(),
		extract.NewExtractor(),
		dedupe.NewEngine(articleRepo),
		pipeline,
		articleRepo,
		configCache,
	)

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval_seconds", appCfg.SchedulerInterval)
	scheduler := tasks.NewScheduler(configCache, orchestrator)
	scheduler.Start()
	defer scheduler.Stop()

	defaultOptions := ingest.Options{
		ProbeTimeout:         time.Duration(appCfg.ProbeTimeout) * time.Second,
		PageTimeout:          time.Duration(appCfg.PageTimeout) * time.Second,
		SummarizerTimeout:    time.Duration(appCfg.SummarizerTimeout) * time.Second,
		ClassifierTimeout:    time.Duration(appCfg.ClassifierTimeout) * time.Second,
		TitleDedupeThreshold: appCfg.TitleDedupeThreshold,
		TitleDedupeWindow:    appCfg.TitleDedupeWindow,
		MaxCandidates:        appCfg.MaxCandidates,
		Mode:                 ingest.ModeSingle,
	}

	apiHandler := api.NewHandler(articleRepo, configCache, orchestrator, defaultOptions)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}
