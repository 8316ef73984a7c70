package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meridianlab/sasgrid/internal/config"
	"github.com/meridianlab/sasgrid/internal/export"
	"github.com/meridianlab/sasgrid/internal/grid"
	"github.com/meridianlab/sasgrid/internal/metrics"
	"github.com/meridianlab/sasgrid/internal/repository"
	"github.com/meridianlab/sasgrid/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate and export grid tables for every configured step size",
	RunE:  runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

// runGenerate wires configuration, logging, metrics and the optional
// Postgres sink together and runs the batch to completion.
func runGenerate(cmd *cobra.Command, _ []string) error {
	// Cancel the batch on an interrupt signal so partially written state is
	// bounded to the file being exported.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()
	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
		cfg.OutputDir = dir
	}

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for application metrics.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// The Postgres sink is optional; CSV files are the primary output.
	var repo repository.Interface
	var dtb *pgxpool.Pool
	if cfg.Database.Enabled() {
		var err error
		dtb, err = repository.NewDatabase(
			ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to connect to DB: %w", err)
		}
		defer dtb.Close()

		pgRepo := repository.NewRepository(dtb, logger)
		if err = pgRepo.Init(ctx); err != nil {
			return fmt.Errorf("failed to initialize DB schema: %w", err)
		}
		repo = pgRepo

		logger.InfoContext(ctx, "Postgres sink enabled", "host", cfg.Database.Host, "db", cfg.Database.Name)
	}

	// Expose /healthz and /metrics while the batch runs. Mostly useful for
	// very fine step sizes, where a run takes long enough to watch.
	if cfg.HealthPort > 0 {
		go startMonitoringServer(ctx, logger, reg, dtb, cfg.HealthPort)
	}

	gridService := service.NewGridService(
		logger,
		export.NewCSV(logger),
		repo,
		appMetrics,
		cfg.Steps,
		grid.Bounds{
			XMin: cfg.Bounds.XMin,
			XMax: cfg.Bounds.XMax,
			YMin: cfg.Bounds.YMin,
			YMax: cfg.Bounds.YMax,
		},
		cfg.OutputDir,
		cfg.Workers,
	)

	logger.InfoContext(ctx, "Application started.", "steps", len(cfg.Steps))

	if err := gridService.Run(ctx); err != nil {
		return fmt.Errorf("grid generation failed: %w", err)
	}

	logger.InfoContext(ctx, "All grid tables generated.")

	return nil
}

// startMonitoringServer starts an HTTP server that provides health check and metrics endpoints.
// It listens on the specified port and logs the server's status and any errors encountered.
//
// Parameters:
// - ctx: A context.Context for managing cancellation and timeouts.
// - log: A logger for logging server events and errors.
// - reg: A registry with Prometheus collectors.
// - dtb: A pgxpool connector for database methods (ping); may be nil.
// - port: The port number on which the server will listen.
func startMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	dtb *pgxpool.Pool,
	port int,
) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, _ *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		status, body := http.StatusOK, "OK"
		if dtb != nil {
			if err := dtb.Ping(ctx); err != nil {
				status, body = http.StatusServiceUnavailable, "DB ping failed"
			}
		}
		writer.WriteHeader(status)
		_, err := writer.Write([]byte(body))
		if err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", status)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	readTimeout := 5
	writeTimeout := 10
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}
