package ingest

import (
	"testing"

	"fintrack/internal/core"
)

func TestCanonicalizeHeader(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Date", "date"},
		{"  Sub Category ", "sub_category"},
		{"DEBIT", "debit"},
		{"Month   Number", "month_number"},
		{"credit", "credit"},
	}
	for _, tc := range cases {
		if got := CanonicalizeHeader(tc.in); got != tc.want {
			t.Errorf("CanonicalizeHeader(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	table := Table{
		Header: []string{"Date", "Description", "Debit", "Credit", "Sub Category", "Category"},
		Rows: [][]string{
			{"2024-01-15", "groceries", "100", "", "Food", "Living Expenses"},
			{"2024-02-15", "salary", "", "500", "Job", "Salary"},
			{"not-a-date", "junk", "1", "", "", ""},
			{"2024-02-20", "taxi", "£50.00", "", "", "Transport"},
		},
	}
	res, err := Normalize(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(res.Records))
	}
	if res.Skipped != 1 {
		t.Fatalf("expected 1 skipped row, got %d", res.Skipped)
	}

	first := res.Records[0]
	if first.CategoryType != core.TypeExpense || first.Amount != -100 {
		t.Errorf("first record: got %q/%v, want Expense/-100", first.CategoryType, first.Amount)
	}
	if first.Category != core.CategoryLivingExpenses {
		t.Errorf("first record category = %q", first.Category)
	}

	second := res.Records[1]
	if second.CategoryType != core.TypeIncome || second.Amount != 500 {
		t.Errorf("second record: got %q/%v, want Income/500", second.CategoryType, second.Amount)
	}

	third := res.Records[2]
	if third.Amount != -50 {
		t.Errorf("currency-symbol debit not coerced: amount = %v", third.Amount)
	}
}

func TestNormalizeAliasHeaders(t *testing.T) {
	table := Table{
		Header: []string{"Transaction Date", "Narrative", "Withdrawal", "Deposit"},
		Rows: [][]string{
			{"2024-03-01", "coffee", "3.50", ""},
		},
	}
	res, err := Normalize(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(res.Records))
	}
	if res.Records[0].Debit != 3.5 {
		t.Errorf("alias column not resolved: debit = %v", res.Records[0].Debit)
	}
}

func TestNormalizeNoDateColumn(t *testing.T) {
	table := Table{Header: []string{"Description", "Amount"}}
	if _, err := Normalize(table); err != ErrNoDateColumn {
		t.Fatalf("expected ErrNoDateColumn, got %v", err)
	}
}

// Unknown categories pass through ingestion but are rejected by the record
// factory, so the row is skipped rather than aborting the batch.
func TestNormalizeUnknownCategorySkipped(t *testing.T) {
	table := Table{
		Header: []string{"date", "debit", "category"},
		Rows: [][]string{
			{"2024-01-01", "10", "Gambling"},
			{"2024-01-02", "10", "Medical"},
		},
	}
	res, err := Normalize(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Records) != 1 || res.Skipped != 1 {
		t.Fatalf("got %d records / %d skipped, want 1/1", len(res.Records), res.Skipped)
	}
}

func TestParseNumberCoercion(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"12.34", 12.34},
		{"1,234.50", 1234.5},
		{"$99", 99},
		{"-42", 42},
		{"n/a", 0},
		{"12.3.4", 0},
	}
	for _, tc := range cases {
		if got := parseNumber(tc.in); got != tc.want {
			t.Errorf("parseNumber(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeShortRows(t *testing.T) {
	table := Table{
		Header: []string{"date", "description", "debit", "credit"},
		Rows: [][]string{
			{"2024-01-01", "short row"},
		},
	}
	res, err := Normalize(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Records) != 1 {
		t.Fatalf("expected short row to normalize, got %d records", len(res.Records))
	}
	if res.Records[0].CategoryType != core.TypeNone {
		t.Errorf("expected unclassified record, got %q", res.Records[0].CategoryType)
	}
}
