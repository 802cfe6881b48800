package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/amqp"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/ingest"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

const usage = `Usage: fintrack <command> [flags]

Commands:
  import     import a ledger export (-file export.csv|export.xlsx, or -sheets)
  add        add a single record (-date -description -debit -credit -sub -category)
  list       print all stored records as JSON
  dashboard  print the aggregated dashboard summary as JSON
  forecast   print the savings forecast as JSON (-periods N)
  publish    publish dashboard and forecast reports to AMQP
`

func main() {
	// Load .env for local development (ignore errors in production).
	_ = godotenv.Load()

	logger := log.New(log.Config{Component: log.ComponentCLI})
	log.SetDefault(logger)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

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

	ctx := context.Background()
	if err := run(ctx, os.Args[1], os.Args[2:], cfg, store, logger); err != nil {
		logger.Error("Command failed", "command", os.Args[1], log.FieldError, err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string, cfg *config.Config, store storage.Store, logger *log.Logger) error {
	switch command {
	case "import":
		return runImport(ctx, args, cfg, store, logger)
	case "add":
		return runAdd(ctx, args, store, logger)
	case "list":
		return runList(ctx, store)
	case "dashboard":
		reporter := services.NewReporter(store, logger)
		summary, err := reporter.Dashboard(ctx)
		if err != nil {
			return err
		}
		return printJSON(summary)
	case "forecast":
		fs := flag.NewFlagSet("forecast", flag.ExitOnError)
		periods := fs.Int("periods", cfg.ForecastPeriods, "number of future months to forecast")
		if err := fs.Parse(args); err != nil {
			return err
		}
		reporter := services.NewReporter(store, logger)
		outlook, err := reporter.Outlook(ctx, *periods)
		if err != nil {
			return err
		}
		return printJSON(outlook)
	case "publish":
		return runPublish(ctx, cfg, store, logger)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func runImport(ctx context.Context, args []string, cfg *config.Config, store storage.Store, logger *log.Logger) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	file := fs.String("file", "", "path to a .csv or .xlsx export")
	sheets := fs.Bool("sheets", false, "import from the configured Google Sheets range")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var src ingest.Source
	switch {
	case *sheets:
		s, err := ingest.NewSheetsSource(ctx, cfg.SheetsSpreadsheetID, cfg.SheetsRange)
		if err != nil {
			return fmt.Errorf("sheets source: %w", err)
		}
		src = s
	case *file != "":
		f, err := os.Open(*file)
		if err != nil {
			return fmt.Errorf("open export: %w", err)
		}
		defer f.Close()
		switch strings.ToLower(filepath.Ext(*file)) {
		case ".csv":
			src = ingest.NewCSVSource(f)
		case ".xlsx", ".xls":
			src = ingest.NewExcelSource(f)
		default:
			return fmt.Errorf("unsupported file format %q", filepath.Ext(*file))
		}
	default:
		return fmt.Errorf("either -file or -sheets is required")
	}

	stats, err := services.NewImporter(store, logger).Import(ctx, src)
	if err != nil {
		return err
	}
	return printJSON(stats)
}

func runAdd(ctx context.Context, args []string, store storage.Store, logger *log.Logger) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	date := fs.String("date", "", "record date (YYYY-MM-DD)")
	description := fs.String("description", "", "free-text description")
	debit := fs.Float64("debit", 0, "outflow magnitude")
	credit := fs.Float64("credit", 0, "inflow magnitude")
	sub := fs.String("sub", "", "sub category")
	category := fs.String("category", "", "one of the fixed categories")
	if err := fs.Parse(args); err != nil {
		return err
	}

	d, err := time.Parse("2006-01-02", *date)
	if err != nil {
		return fmt.Errorf("parse -date: %w", err)
	}
	tx, err := core.New(d, *description, *debit, *credit, *sub, core.Category(*category))
	if err != nil {
		return err
	}

	id, err := services.NewImporter(store, logger).Add(ctx, tx)
	if err != nil {
		return err
	}
	return printJSON(map[string]string{"id": id})
}

func runList(ctx context.Context, store storage.Store) error {
	snapshot, err := store.Snapshot(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	for _, t := range snapshot {
		if err := enc.Encode(t); err != nil {
			return err
		}
	}
	return nil
}

func runPublish(ctx context.Context, cfg *config.Config, store storage.Store, logger *log.Logger) error {
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("connect AMQP: %w", err)
	}
	defer client.Close()

	reporter := services.NewReporter(store, logger)

	summary, err := reporter.Dashboard(ctx)
	if err != nil {
		return err
	}
	msg, err := amqp.NewReportMessage(amqp.KindDashboard, summary)
	if err != nil {
		return err
	}
	if err := client.PublishReport(ctx, msg); err != nil {
		return err
	}

	// Forecasting is optional output: the dashboard is already published
	// even when there is not enough history for a fit.
	outlook, err := reporter.Outlook(ctx, cfg.ForecastPeriods)
	if err != nil {
		logger.Warn("Skipping forecast publication", log.FieldError, err.Error())
		return nil
	}
	msg, err = amqp.NewReportMessage(amqp.KindForecast, outlook)
	if err != nil {
		return err
	}
	return client.PublishReport(ctx, msg)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
