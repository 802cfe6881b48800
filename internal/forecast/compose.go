package forecast

import (
	"time"

	"fintrack/internal/core"
)

type (
	// Entry is one merged forecast month. Savings is income plus expense;
	// the expense leg is already negative, so this is a net sum.
	Entry struct {
		Month   string  `json:"month_label"`
		Savings float64 `json:"predicted_savings"`
	}

	// Outlook is the forecast report contract: the merged per-month savings
	// forecast plus the historical totals, which do not depend on the model.
	Outlook struct {
		TotalIncome            float64 `json:"total_income"`
		TotalExpense           float64 `json:"total_expense"`
		CurrentSavings         float64 `json:"current_savings"`
		Monthly                []Entry `json:"monthly_forecast"`
		TotalForecastedSavings float64 `json:"total_forecasted_savings"`
	}
)

const monthLabelLayout = "January 2006"

// Compose merges aligned income and expense forecasts and computes the
// savings report. The merge is an inner join on the target month: savings
// needs both legs, so a month present in only one series is dropped.
// Historical totals come from the full snapshot with amounts kept signed,
// so TotalExpense is negative and CurrentSavings is a plain sum.
func Compose(income, expense []Point, snapshot []core.Transaction) Outlook {
	var out Outlook

	for _, t := range snapshot {
		switch t.CategoryType {
		case core.TypeIncome:
			out.TotalIncome += t.Amount
		case core.TypeExpense:
			out.TotalExpense += t.Amount
		}
	}
	out.CurrentSavings = out.TotalIncome + out.TotalExpense

	expenseByMonth := make(map[string]float64, len(expense))
	for _, p := range expense {
		expenseByMonth[monthKey(p.Month)] = p.Value
	}

	for _, p := range income {
		e, ok := expenseByMonth[monthKey(p.Month)]
		if !ok {
			continue
		}
		savings := p.Value + e
		out.Monthly = append(out.Monthly, Entry{
			Month:   p.Month.Format(monthLabelLayout),
			Savings: savings,
		})
		out.TotalForecastedSavings += savings
	}

	return out
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}
