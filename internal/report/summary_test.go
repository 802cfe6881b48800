package report

import (
	"math"
	"reflect"
	"testing"
	"time"

	"fintrack/internal/core"
)

func tx(t *testing.T, y, m, d int, debit, credit float64, cat core.Category) core.Transaction {
	t.Helper()
	rec, err := core.New(time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC), "test", debit, credit, "", cat)
	if err != nil {
		t.Fatalf("build transaction: %v", err)
	}
	return rec
}

func TestBuildScenario(t *testing.T) {
	snapshot := []core.Transaction{
		tx(t, 2024, 1, 15, 100, 0, core.CategoryLivingExpenses),
		tx(t, 2024, 2, 15, 0, 500, core.CategorySalary),
		tx(t, 2024, 2, 20, 50, 0, core.CategoryDiningOut),
	}
	s := Build(snapshot)

	wantExpense := []MonthTotal{{"2024-01", 100}, {"2024-02", 50}}
	if !reflect.DeepEqual(s.MonthlyExpense, wantExpense) {
		t.Errorf("monthly expense = %+v, want %+v", s.MonthlyExpense, wantExpense)
	}
	wantIncome := []MonthTotal{{"2024-02", 500}}
	if !reflect.DeepEqual(s.MonthlyIncome, wantIncome) {
		t.Errorf("monthly income = %+v, want %+v", s.MonthlyIncome, wantIncome)
	}
	if s.YearlyIncome != 500 {
		t.Errorf("yearly income = %v, want 500", s.YearlyIncome)
	}
	if s.YearlyExpense != 150 {
		t.Errorf("yearly expense = %v, want 150", s.YearlyExpense)
	}
	if s.TotalIncome != s.YearlyIncome || s.TotalExpense != s.YearlyExpense {
		t.Errorf("totals diverge from yearly figures: %+v", s)
	}
}

func TestBuildEmptySnapshot(t *testing.T) {
	s := Build(nil)
	if s.TotalIncome != 0 || s.TotalExpense != 0 || s.YearlyIncome != 0 || s.YearlyExpense != 0 {
		t.Errorf("expected zero totals, got %+v", s)
	}
	if len(s.MonthlyIncome) != 0 || len(s.MonthlyExpense) != 0 || len(s.TopExpenseCategories) != 0 {
		t.Errorf("expected empty series, got %+v", s)
	}
}

// Cross-year months must stay distinct buckets.
func TestBuildCrossYearMonths(t *testing.T) {
	snapshot := []core.Transaction{
		tx(t, 2023, 1, 10, 40, 0, core.CategoryTransport),
		tx(t, 2024, 1, 10, 60, 0, core.CategoryTransport),
	}
	s := Build(snapshot)
	want := []MonthTotal{{"2023-01", 40}, {"2024-01", 60}}
	if !reflect.DeepEqual(s.MonthlyExpense, want) {
		t.Fatalf("monthly expense = %+v, want %+v", s.MonthlyExpense, want)
	}
}

func TestTopExpenseCategories(t *testing.T) {
	snapshot := []core.Transaction{
		tx(t, 2024, 1, 1, 10, 0, core.CategoryCharity),
		tx(t, 2024, 1, 2, 20, 0, core.CategoryDiningOut),
		tx(t, 2024, 1, 3, 30, 0, core.CategoryDiscretionary),
		tx(t, 2024, 1, 4, 40, 0, core.CategoryLivingExpenses),
		tx(t, 2024, 1, 5, 50, 0, core.CategoryMedical),
		tx(t, 2024, 1, 6, 60, 0, core.CategoryTransport),
	}
	s := Build(snapshot)
	if len(s.TopExpenseCategories) != 5 {
		t.Fatalf("expected 5 categories, got %d", len(s.TopExpenseCategories))
	}
	if s.TopExpenseCategories[0].Category != core.CategoryTransport {
		t.Errorf("top category = %q, want Transport", s.TopExpenseCategories[0].Category)
	}
	for i := 1; i < len(s.TopExpenseCategories); i++ {
		if s.TopExpenseCategories[i].Total > s.TopExpenseCategories[i-1].Total {
			t.Fatalf("categories not sorted descending at %d", i)
		}
	}
	// Charity (smallest) should be the one cut.
	for _, c := range s.TopExpenseCategories {
		if c.Category == core.CategoryCharity {
			t.Fatalf("smallest category should have been trimmed")
		}
	}
}

// Monthly expense buckets must add up to the yearly total.
func TestMonthlySumsMatchYearly(t *testing.T) {
	snapshot := []core.Transaction{
		tx(t, 2024, 1, 3, 12.34, 0, core.CategoryDiningOut),
		tx(t, 2024, 2, 4, 56.78, 0, core.CategoryMedical),
		tx(t, 2024, 3, 5, 90.12, 0, core.CategoryTransport),
		tx(t, 2024, 3, 6, 0, 1000, core.CategorySalary),
	}
	s := Build(snapshot)
	var sum float64
	for _, m := range s.MonthlyExpense {
		sum += m.Total
	}
	if math.Abs(sum-s.YearlyExpense) > 1e-9 {
		t.Fatalf("monthly sum %v != yearly %v", sum, s.YearlyExpense)
	}
}

func TestBuildDeterministic(t *testing.T) {
	snapshot := []core.Transaction{
		tx(t, 2024, 1, 15, 100, 0, core.CategoryLivingExpenses),
		tx(t, 2024, 2, 15, 0, 500, core.CategorySalary),
	}
	a := Build(snapshot)
	b := Build(snapshot)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("aggregation is not deterministic")
	}
}
