// Package ingest turns heterogeneous tabular exports (CSV, Excel, Google
// Sheets) into canonical, fully derived transactions. Malformed rows are
// skipped and counted, never fatal.
package ingest

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
)

// Canonical column names after header normalization.
const (
	fieldDate        = "date"
	fieldDescription = "description"
	fieldDebit       = "debit"
	fieldCredit      = "credit"
	fieldSubCategory = "sub_category"
	fieldCategory    = "category"
)

// headerAliases maps each canonical field to the upload headers it accepts,
// all in canonical form. Resolution happens once per ingestion call; first
// alias present in the header wins.
var headerAliases = map[string][]string{
	fieldDate:        {"date", "transaction_date", "posting_date", "value_date"},
	fieldDescription: {"description", "details", "narrative", "memo"},
	fieldDebit:       {"debit", "debit_amount", "withdrawal", "money_out"},
	fieldCredit:      {"credit", "credit_amount", "deposit", "money_in"},
	fieldSubCategory: {"sub_category", "subcategory", "sub_cat"},
	fieldCategory:    {"category"},
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// ErrNoDateColumn means the input has no recognizable date header, so no
// row could ever be normalized.
var ErrNoDateColumn = errors.New("no date column found in input")

type (
	// Table is the raw tabular payload a Source produces. BadRows counts
	// rows the source itself had to discard (unparseable structure).
	Table struct {
		Header  []string
		Rows    [][]string
		BadRows int
	}

	// Source reads one tabular input to completion.
	Source interface {
		Read(ctx context.Context) (Table, error)
	}

	// Result is the outcome of normalizing a Table. Skipped includes both
	// structurally bad rows from the source and rows Normalize rejected.
	Result struct {
		Records []core.Transaction
		Skipped int
	}
)

// CanonicalizeHeader lowers the header and collapses whitespace runs into
// single underscores, so "  Sub Category " and "sub_category" agree.
func CanonicalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(h))), "_")
}

// resolveColumns maps canonical fields to column indices for this header.
func resolveColumns(header []string) map[string]int {
	canon := make([]string, len(header))
	for i, h := range header {
		canon[i] = CanonicalizeHeader(h)
	}
	cols := make(map[string]int)
	for field, aliases := range headerAliases {
		for _, alias := range aliases {
			for i, h := range canon {
				if h == alias {
					cols[field] = i
					break
				}
			}
			if _, ok := cols[field]; ok {
				break
			}
		}
	}
	return cols
}

// Normalize converts a raw table into derived transactions. Rows without a
// parseable date, or rejected by the record factory, are skipped and
// counted. Numeric cells that fail coercion become missing (zero), matching
// the tolerant-schema contract.
func Normalize(t Table) (Result, error) {
	cols := resolveColumns(t.Header)
	if _, ok := cols[fieldDate]; !ok {
		return Result{}, ErrNoDateColumn
	}

	res := Result{Skipped: t.BadRows}
	cell := func(row []string, field string) string {
		i, ok := cols[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	for _, row := range t.Rows {
		date, err := parseDate(cell(row, fieldDate))
		if err != nil {
			res.Skipped++
			continue
		}
		tx, err := core.New(
			date,
			cell(row, fieldDescription),
			parseNumber(cell(row, fieldDebit)),
			parseNumber(cell(row, fieldCredit)),
			cell(row, fieldSubCategory),
			core.Category(cell(row, fieldCategory)),
		)
		if err != nil {
			res.Skipped++
			continue
		}
		res.Records = append(res.Records, tx)
	}
	return res, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, core.ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, core.ErrInvalidDate
}

// parseNumber coerces a cell to a non-negative magnitude. Currency symbols,
// thousands separators and a leading sign are tolerated; anything else
// yields zero (missing), never an error.
func parseNumber(s string) float64 {
	if s == "" {
		return 0
	}
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '$', '£', '€', ',', ' ':
			return -1
		}
		return r
	}, s)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Abs(v)
}
