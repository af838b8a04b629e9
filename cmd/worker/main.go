package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corpagent/adgm-compliance/internal/bootstrap"
	"github.com/corpagent/adgm-compliance/internal/config"
	"github.com/corpagent/adgm-compliance/internal/core/domain"
	"github.com/corpagent/adgm-compliance/internal/observability/logging"
	"github.com/corpagent/adgm-compliance/internal/observability/metrics"
)

const serviceName = "worker"

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		logger.Info("worker metrics listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("worker metrics server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	reviewTimeout := time.Duration(cfg.ReviewTimeoutS) * time.Second

	logger.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeDocumentUploaded(ctx, func(handlerCtx context.Context, documentID string) error {
		reviewCtx, cancel := context.WithTimeout(handlerCtx, reviewTimeout)
		defer cancel()

		if doc, derr := app.QueryUC.GetByID(reviewCtx, documentID); derr == nil {
			workerMetrics.ObserveQueueLag(serviceName, time.Since(doc.CreatedAt))
		}

		workerMetrics.StartReview()
		start := time.Now()
		reviewErr := app.ReviewUC.ReviewByID(reviewCtx, documentID)
		workerMetrics.FinishReview(serviceName, time.Since(start), reviewErr)

		if reviewErr == nil {
			if analysis, aerr := app.QueryUC.GetAnalysis(reviewCtx, documentID); aerr == nil {
				for severity, count := range countBySeverity(analysis.Issues) {
					workerMetrics.RecordIssues(serviceName, severity, count)
				}
			}
		}
		return reviewErr
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}

func countBySeverity(issues []domain.Issue) map[string]int {
	counts := make(map[string]int, 3)
	for _, issue := range issues {
		counts[string(issue.Severity)]++
	}
	return counts
}
