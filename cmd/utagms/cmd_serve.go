package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/utagms/internal/analysis"
	"github.com/MikeSquared-Agency/utagms/internal/api"
	"github.com/MikeSquared-Agency/utagms/internal/hermes"
	"github.com/MikeSquared-Agency/utagms/internal/metrics"
	"github.com/MikeSquared-Agency/utagms/internal/store"
)

func newServeCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the metrics endpoint and the NATS request handler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(flags)
		},
	}
}

func serve(flags *globalFlags) error {
	cfg, err := flags.loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Logging, os.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Problem storage
	var db store.Store
	if cfg.Database.URL != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		db = pg
		logger.Info("connected to database")
	} else {
		db = store.NewMemoryStore()
		logger.Info("no database configured, keeping problems in memory")
	}
	defer db.Close()

	// Hermes (optional)
	var hermesClient hermes.Client
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	engine, err := newEngine(cfg, m, logger)
	if err != nil {
		return err
	}
	svc := analysis.New(engine, db, hermesClient, m, logger)
	if err := svc.SetupSubscriptions(ctx); err != nil {
		logger.Warn("failed to subscribe to analysis requests", "error", err)
	}
	logger.Info("analysis service ready",
		"solver", cfg.Solver.Backend,
		"workers", cfg.Solver.Workers,
		"sampler", cfg.Sampler.Enabled,
	)

	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewRouter(db, hermesClient, svc, cfg.Server.AdminToken, logger),
	}
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
	return nil
}
