package core

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CategoryType classifies a transaction by the direction of money flow.
type CategoryType string

const (
	TypeExpense CategoryType = "Expense"
	TypeIncome  CategoryType = "Income"
	// TypeNone marks records where neither debit nor credit is set.
	TypeNone CategoryType = ""
)

// Category is one of the fixed ledger categories.
type Category string

const (
	CategoryCharity        Category = "Charity"
	CategoryDiningOut      Category = "Dining Out"
	CategoryDiscretionary  Category = "Discretionary"
	CategoryLivingExpenses Category = "Living Expenses"
	CategoryMedical        Category = "Medical"
	CategoryPassive        Category = "Passive"
	CategorySalary         Category = "Salary"
	CategoryTransport      Category = "Transport"
)

// Categories returns the allowed category set in display order.
func Categories() []Category {
	return []Category{
		CategoryCharity,
		CategoryDiningOut,
		CategoryDiscretionary,
		CategoryLivingExpenses,
		CategoryMedical,
		CategoryPassive,
		CategorySalary,
		CategoryTransport,
	}
}

// Valid reports whether c belongs to the fixed category set. The empty
// category is tolerated at parse time; whether it is acceptable is the
// store's concern.
func (c Category) Valid() bool {
	if c == "" {
		return true
	}
	for _, k := range Categories() {
		if c == k {
			return true
		}
	}
	return false
}

type (
	// Transaction is the canonical ledger record. Debit and Credit are raw
	// non-negative magnitudes from the source; CategoryType, MonthNumber,
	// Weekday and Amount are derived and must only be written via Derive.
	Transaction struct {
		ID          string
		Date        time.Time
		Description string
		Debit       float64
		Credit      float64
		SubCategory string
		Category    Category

		CategoryType CategoryType
		MonthNumber  int
		Weekday      string
		Amount       float64
	}

	// Derived is the output tuple of Derive.
	Derived struct {
		MonthNumber  int
		Weekday      string
		CategoryType CategoryType
		Amount       float64
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrUnknownCategory = errors.New("unknown category")
	ErrNegativeAmount  = errors.New("debit and credit must be non-negative")
)

// Derive computes the classification attributes from the raw inputs.
// It is pure and idempotent: feeding it the fields of an already derived
// record yields the same tuple.
//
// Precedence: a non-zero debit always wins over credit. The record becomes
// an Expense with a negative amount even when credit is also set.
func Derive(date time.Time, debit, credit float64) Derived {
	var d Derived
	if !date.IsZero() {
		d.MonthNumber = int(date.Month())
		d.Weekday = date.Weekday().String()
	}
	switch {
	case debit != 0:
		d.Amount = -math.Abs(debit)
		d.CategoryType = TypeExpense
	case credit != 0:
		d.Amount = math.Abs(credit)
		d.CategoryType = TypeIncome
	default:
		d.Amount = 0
		d.CategoryType = TypeNone
	}
	return d
}

// New builds a fully derived transaction. It is the only intended way to
// construct a Transaction, so callers cannot end up with stale derived
// fields.
func New(date time.Time, description string, debit, credit float64, subCategory string, category Category) (Transaction, error) {
	if date.IsZero() {
		return Transaction{}, ErrInvalidDate
	}
	if debit < 0 || credit < 0 {
		return Transaction{}, ErrNegativeAmount
	}
	if !category.Valid() {
		return Transaction{}, ErrUnknownCategory
	}
	t := Transaction{
		ID:          uuid.NewString(),
		Date:        date,
		Description: strings.TrimSpace(description),
		Debit:       debit,
		Credit:      credit,
		SubCategory: strings.TrimSpace(subCategory),
		Category:    category,
	}
	t.Rederive()
	return t, nil
}

// Rederive recomputes the derived fields in place. Callers that mutate
// Date, Debit or Credit must invoke it before handing the record on.
func (t *Transaction) Rederive() {
	d := Derive(t.Date, t.Debit, t.Credit)
	t.MonthNumber = d.MonthNumber
	t.Weekday = d.Weekday
	t.CategoryType = d.CategoryType
	t.Amount = d.Amount
}

// Validate checks the raw fields of a transaction before it is stored.
func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if t.Debit < 0 || t.Credit < 0 {
		return ErrNegativeAmount
	}
	if !t.Category.Valid() {
		return ErrUnknownCategory
	}
	return nil
}
