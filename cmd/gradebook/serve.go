package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lmurayire12/gradebook/internal/api"
	"github.com/lmurayire12/gradebook/internal/campus"
	"github.com/lmurayire12/gradebook/internal/scoring"
	"github.com/lmurayire12/gradebook/internal/store"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gradebook API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return err
	}
	defer db.Close()
	logger.Info("connected to database")

	// Campus bus (optional)
	var bus campus.Client
	if cfg.Campus.URL != "" {
		c, err := campus.NewNATSClient(ctx, cfg.Campus.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to campus, running without events", "error", err)
		} else {
			bus = c
			defer c.Close()
			logger.Info("connected to campus")
		}
	}

	aggregator := scoring.New(db, bus, scoring.NewMetrics(), logger)

	// Corrections written by other graders arrive on the bus; keep the
	// cached averages current as they do.
	if bus != nil {
		err := bus.Subscribe(campus.SubjectCorrectionRecorded, func(subject string, data []byte) {
			var ev campus.CorrectionRecordedEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				logger.Warn("bad correction event", "subject", subject, "error", err)
				return
			}
			id, err := uuid.Parse(ev.StudentID)
			if err != nil {
				logger.Warn("bad student id in correction event", "subject", subject, "error", err)
				return
			}
			if _, err := aggregator.RecomputeAverage(ctx, id); err != nil {
				logger.Warn("recompute from event failed", "student", ev.StudentID, "error", err)
			}
		})
		if err != nil {
			logger.Warn("failed to subscribe to correction events", "error", err)
		}
	}

	router := api.NewRouter(db, aggregator, bus, cfg, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
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

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
	return nil
}
