// Package report aggregates a transaction snapshot into the dashboard
// summary consumed by rendering collaborators.
package report

import (
	"math"
	"sort"

	"fintrack/internal/core"
)

// How many categories the top-expense ranking keeps.
const topCategoryLimit = 5

type (
	// MonthTotal is one entry of an ordered month->total mapping. Month is
	// keyed "YYYY-MM": year plus month, so January 2023 and January 2024
	// never collapse into one bucket.
	MonthTotal struct {
		Month string  `json:"month"`
		Total float64 `json:"total"`
	}

	// CategoryTotal is one entry of an ordered category->total mapping.
	CategoryTotal struct {
		Category core.Category `json:"category"`
		Total    float64       `json:"total"`
	}

	// Summary is the aggregation output contract. Expense figures are
	// positive magnitudes; the sign is reporting metadata, not magnitude.
	Summary struct {
		TotalIncome          float64         `json:"total_income"`
		TotalExpense         float64         `json:"total_expense"`
		MonthlyIncome        []MonthTotal    `json:"monthly_income"`
		MonthlyExpense       []MonthTotal    `json:"monthly_expense"`
		YearlyIncome         float64         `json:"yearly_income"`
		YearlyExpense        float64         `json:"yearly_expense"`
		TopExpenseCategories []CategoryTotal `json:"top_expense_categories"`
	}
)

// Build aggregates an immutable snapshot. It is deterministic: the same
// snapshot always yields the same summary, and the snapshot is never
// mutated. An empty snapshot yields a zero-valued summary.
func Build(snapshot []core.Transaction) Summary {
	var s Summary
	monthlyIncome := make(map[string]float64)
	monthlyExpense := make(map[string]float64)
	byCategory := make(map[core.Category]float64)

	for _, t := range snapshot {
		month := t.Date.Format("2006-01")
		switch t.CategoryType {
		case core.TypeIncome:
			s.YearlyIncome += t.Amount
			monthlyIncome[month] += t.Amount
		case core.TypeExpense:
			magnitude := math.Abs(t.Amount)
			s.YearlyExpense += magnitude
			monthlyExpense[month] += magnitude
			byCategory[t.Category] += magnitude
		}
	}

	s.TotalIncome = s.YearlyIncome
	s.TotalExpense = s.YearlyExpense
	s.MonthlyIncome = sortedMonths(monthlyIncome)
	s.MonthlyExpense = sortedMonths(monthlyExpense)
	s.TopExpenseCategories = topCategories(byCategory, topCategoryLimit)
	return s
}

func sortedMonths(totals map[string]float64) []MonthTotal {
	out := make([]MonthTotal, 0, len(totals))
	for month, total := range totals {
		out = append(out, MonthTotal{Month: month, Total: total})
	}
	// "YYYY-MM" keys sort chronologically as strings.
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func topCategories(totals map[core.Category]float64, limit int) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(totals))
	for cat, total := range totals {
		out = append(out, CategoryTotal{Category: cat, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
