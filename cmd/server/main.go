package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/boss-orchestrator/internal/api"
	"github.com/example/boss-orchestrator/internal/cache"
	"github.com/example/boss-orchestrator/internal/config"
	"github.com/example/boss-orchestrator/internal/logger"
	"github.com/example/boss-orchestrator/internal/orchestrator"
	"github.com/example/boss-orchestrator/internal/owners"
	"github.com/example/boss-orchestrator/internal/providers/llm"
	"github.com/example/boss-orchestrator/internal/telemetry"
	"github.com/example/boss-orchestrator/internal/tools"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log := logger.New(cfg.Logging)
	slog.SetDefault(log)
	log.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"owner_timeout", cfg.Boss.OwnerTimeout,
		"max_parallel", cfg.Boss.MaxParallel,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Telemetry ---
	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			log.Warn("telemetry shutdown", "error", err)
		}
	}()
	metrics, err := telemetry.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Owners ---
	llmClient, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if c, ok := llmClient.(io.Closer); ok {
		defer func() { _ = c.Close() }()
	}
	registry, err := owners.Build(cfg.Owners, owners.Deps{LLM: llmClient, Breaker: cfg.Breaker})
	if err != nil {
		return fmt.Errorf("owners: %w", err)
	}
	log.Info("owners registered", "owners", registry.IDs())

	boss := orchestrator.New(registry,
		orchestrator.WithOwnerTimeout(cfg.Boss.OwnerTimeout),
		orchestrator.WithMaxParallel(cfg.Boss.MaxParallel),
		orchestrator.WithLogger(log),
		orchestrator.WithMetrics(metrics),
	)

	// --- Attachments ---
	extractCache, err := cache.New(cfg.Tools.CacheMB, cfg.Tools.CacheTTL)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer extractCache.Close()
	toolReg := tools.NewDefaultRegistry(cfg.Tools, &http.Client{Timeout: cfg.LLM.HTTPTimeout})
	enricher := tools.NewEnricher(toolReg, extractCache, cfg.Tools.MaxChars, log)

	// --- HTTP ---
	server := api.NewServer(boss, enricher, cfg.Server, cfg.Telemetry.Service, log)
	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
