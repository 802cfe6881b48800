package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/amqp"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

// report-worker periodically recomputes the dashboard summary and the
// savings outlook and publishes both to the rendering queue.
func main() {
	// Load .env for local development (ignore errors in production).
	_ = godotenv.Load()

	logger := log.New(log.Config{Component: log.ComponentWorker})
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}

	store, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open transaction store", log.FieldError, err.Error(), "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Shutdown signal received",
			log.FieldOperation, log.OpShutdown,
			"signal", sig.String())
		cancel()
	}()

	logger.Info("Report worker started",
		log.FieldOperation, log.OpStartup,
		"interval", cfg.PublishInterval.String(),
		log.FieldExchange, cfg.AMQPExchange,
		log.FieldQueue, cfg.AMQPQueue)

	reporter := services.NewReporter(store, logger)

	// Publish once on startup, then on every tick.
	publishReports(ctx, reporter, client, cfg.ForecastPeriods, logger)

	ticker := time.NewTicker(cfg.PublishInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Report worker stopped", log.FieldOperation, log.OpShutdown)
			return
		case <-ticker.C:
			publishReports(ctx, reporter, client, cfg.ForecastPeriods, logger)
		}
	}
}

// publishReports computes and publishes both report kinds. Failures are
// logged and retried on the next tick; the worker never exits on a bad run.
func publishReports(ctx context.Context, reporter *services.Reporter, client *amqp.Client, periods int, logger *log.Logger) {
	start := time.Now()

	summary, err := reporter.Dashboard(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Dashboard computation failed",
			log.FieldOperation, log.OpAggregate,
			log.FieldError, err.Error())
		return
	}
	if err := publish(ctx, client, amqp.KindDashboard, summary, logger); err != nil {
		return
	}

	// The forecast needs a minimum of history. Until it is available the
	// worker keeps publishing the dashboard alone.
	outlook, err := reporter.Outlook(ctx, periods)
	if err != nil {
		logger.WarnContext(ctx, "Forecast unavailable, dashboard published alone",
			log.FieldOperation, log.OpForecast,
			log.FieldPeriods, periods,
			log.FieldError, err.Error())
		return
	}
	if err := publish(ctx, client, amqp.KindForecast, outlook, logger); err != nil {
		return
	}

	logger.InfoContext(ctx, "Reports published",
		log.FieldOperation, log.OpPublish,
		log.FieldPeriods, periods,
		log.FieldDuration, time.Since(start).Milliseconds())
}

func publish(ctx context.Context, client *amqp.Client, kind amqp.ReportKind, payload any, logger *log.Logger) error {
	msg, err := amqp.NewReportMessage(kind, payload)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to build report message",
			log.FieldOperation, log.OpPublish,
			log.FieldMessageKind, string(kind),
			log.FieldError, err.Error())
		return err
	}
	if err := client.PublishReport(ctx, msg); err != nil {
		logger.ErrorContext(ctx, "Failed to publish report message",
			log.FieldOperation, log.OpPublish,
			log.FieldMessageKind, string(kind),
			log.FieldMessageID, msg.ID,
			log.FieldError, err.Error())
		return err
	}
	return nil
}
