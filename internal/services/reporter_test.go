package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/forecast"
	"fintrack/internal/storage"
)

func seed(t *testing.T, store storage.Store, months int) {
	t.Helper()
	ctx := context.Background()
	var txs []core.Transaction
	for i := 0; i < months; i++ {
		d := time.Date(2024, time.Month(1+i), 10, 0, 0, 0, 0, time.UTC)
		exp, err := core.New(d, "rent", 100+float64(i), 0, "", core.CategoryLivingExpenses)
		if err != nil {
			t.Fatalf("build expense: %v", err)
		}
		inc, err := core.New(d.AddDate(0, 0, 5), "pay", 0, 500, "", core.CategorySalary)
		if err != nil {
			t.Fatalf("build income: %v", err)
		}
		txs = append(txs, exp, inc)
	}
	if _, err := store.AppendBatch(ctx, txs); err != nil {
		t.Fatalf("seed store: %v", err)
	}
}

func TestDashboard(t *testing.T) {
	store := storage.NewMemoryStore()
	seed(t, store, 3)
	rep := NewReporter(store, testLogger())

	s, err := rep.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if s.TotalIncome != 1500 {
		t.Errorf("total income = %v, want 1500", s.TotalIncome)
	}
	if s.TotalExpense != 303 {
		t.Errorf("total expense = %v, want 303", s.TotalExpense)
	}
	if len(s.MonthlyExpense) != 3 {
		t.Errorf("expected 3 expense months, got %d", len(s.MonthlyExpense))
	}
}

// The cached summary must be invalidated by new writes.
func TestDashboardCacheTracksVersion(t *testing.T) {
	store := storage.NewMemoryStore()
	seed(t, store, 3)
	rep := NewReporter(store, testLogger())
	ctx := context.Background()

	first, err := rep.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	tx, err := core.New(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), "extra", 50, 0, "", core.CategoryDiningOut)
	if err != nil {
		t.Fatalf("build transaction: %v", err)
	}
	if _, err := store.Append(ctx, tx); err != nil {
		t.Fatalf("append: %v", err)
	}

	second, err := rep.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard after write: %v", err)
	}
	if second.TotalExpense != first.TotalExpense+50 {
		t.Fatalf("stale summary served: %v then %v", first.TotalExpense, second.TotalExpense)
	}
}

func TestOutlook(t *testing.T) {
	store := storage.NewMemoryStore()
	seed(t, store, 6)
	rep := NewReporter(store, testLogger())

	out, err := rep.Outlook(context.Background(), 3)
	if err != nil {
		t.Fatalf("outlook: %v", err)
	}
	if len(out.Monthly) != 3 {
		t.Fatalf("expected 3 forecast months, got %d", len(out.Monthly))
	}
	if out.TotalIncome != 3000 {
		t.Errorf("total income = %v, want 3000", out.TotalIncome)
	}
	if out.TotalExpense >= 0 {
		t.Errorf("total expense must stay signed negative, got %v", out.TotalExpense)
	}
	if out.CurrentSavings != out.TotalIncome+out.TotalExpense {
		t.Errorf("current savings must be a plain sum, got %v", out.CurrentSavings)
	}
}

func TestOutlookEmptyStore(t *testing.T) {
	rep := NewReporter(storage.NewMemoryStore(), testLogger())
	_, err := rep.Outlook(context.Background(), 3)
	if !errors.Is(err, forecast.ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
}

// Historical aggregation must still work when forecasting cannot.
func TestDashboardSurvivesForecastFailure(t *testing.T) {
	store := storage.NewMemoryStore()
	seed(t, store, 2) // too little history for a fit
	rep := NewReporter(store, testLogger())
	ctx := context.Background()

	if _, err := rep.Outlook(ctx, 3); !errors.Is(err, forecast.ErrModelFit) {
		t.Fatalf("expected ErrModelFit, got %v", err)
	}
	if _, err := rep.Dashboard(ctx); err != nil {
		t.Fatalf("dashboard should not depend on the model: %v", err)
	}
}
