package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/forecast"
	"fintrack/internal/log"
	"fintrack/internal/report"
	"fintrack/internal/storage"
)

// Reporter computes dashboard summaries and forecast outlooks from a
// point-in-time snapshot. Every call snapshots the store exactly once, so
// concurrent ingestion cannot bleed into an in-flight computation.
type Reporter struct {
	store   storage.Store
	summary *cache.LRUCache[report.Summary]
	logger  *log.Logger
}

func NewReporter(store storage.Store, logger *log.Logger) *Reporter {
	return &Reporter{
		store:   store,
		summary: cache.NewLRUCache[report.Summary](8, 10*time.Minute),
		logger:  logger.WithComponent(log.ComponentReport),
	}
}

// Dashboard aggregates the current snapshot. Results are memoized by store
// version: as long as nothing was written, the same summary is served.
func (s *Reporter) Dashboard(ctx context.Context) (report.Summary, error) {
	version, err := s.store.Version(ctx)
	if err != nil {
		return report.Summary{}, fmt.Errorf("read store version: %w", err)
	}
	key := strconv.FormatInt(version, 10)
	if cached, ok := s.summary.Get(key); ok {
		return cached, nil
	}

	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return report.Summary{}, fmt.Errorf("snapshot store: %w", err)
	}

	summary := report.Build(snapshot)
	s.summary.Set(key, summary)

	s.logger.InfoContext(ctx, "Dashboard aggregated",
		log.FieldOperation, log.OpAggregate,
		log.FieldStoreVer, version,
		"records", len(snapshot))
	return summary, nil
}

// Outlook forecasts income and expense for the given number of future
// months and composes the savings report. The two signals are independent
// and fitted concurrently. A failed signal fails the outlook, but the
// caller can still serve Dashboard output; historical aggregation does not
// depend on the model.
func (s *Reporter) Outlook(ctx context.Context, periods int) (forecast.Outlook, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return forecast.Outlook{}, fmt.Errorf("snapshot store: %w", err)
	}

	var income, expense []forecast.Point
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if income, err = forecast.Forecast(snapshot, core.TypeIncome, periods); err != nil {
			return fmt.Errorf("income forecast: %w", err)
		}
		return gctx.Err()
	})
	g.Go(func() error {
		var err error
		if expense, err = forecast.Forecast(snapshot, core.TypeExpense, periods); err != nil {
			return fmt.Errorf("expense forecast: %w", err)
		}
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		s.logger.WarnContext(ctx, "Forecast unavailable",
			log.FieldOperation, log.OpForecast,
			log.FieldPeriods, periods,
			log.FieldError, err.Error())
		return forecast.Outlook{}, err
	}

	out := forecast.Compose(income, expense, snapshot)
	s.logger.InfoContext(ctx, "Forecast composed",
		log.FieldOperation, log.OpForecast,
		log.FieldPeriods, periods,
		log.FieldMonths, len(out.Monthly))
	return out, nil
}
