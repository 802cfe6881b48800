package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ingest"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

func testLogger() *log.Logger {
	return log.New(log.DefaultConfig())
}

func TestImportCSV(t *testing.T) {
	store := storage.NewMemoryStore()
	imp := NewImporter(store, testLogger())

	input := "Date,Description,Debit,Credit,Category\n" +
		"2024-01-15,groceries,100,,Living Expenses\n" +
		"garbage-date,junk,1,,Medical\n" +
		"2024-02-15,salary,,500,Salary\n"

	stats, err := imp.Import(context.Background(), ingest.NewCSVSource(strings.NewReader(input)))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if stats.Imported != 2 {
		t.Errorf("imported = %d, want 2", stats.Imported)
	}
	if stats.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", stats.Skipped)
	}

	snap, err := store.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap) != 2 {
		t.Fatalf("expected 2 stored records, got %d", len(snap))
	}
}

func TestImportBadSource(t *testing.T) {
	store := storage.NewMemoryStore()
	imp := NewImporter(store, testLogger())
	if _, err := imp.Import(context.Background(), ingest.NewCSVSource(strings.NewReader(""))); err == nil {
		t.Fatalf("expected error for empty source")
	}
}

func TestAdd(t *testing.T) {
	store := storage.NewMemoryStore()
	imp := NewImporter(store, testLogger())

	tx, err := core.New(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "donation", 25, 0, "", core.CategoryCharity)
	if err != nil {
		t.Fatalf("build transaction: %v", err)
	}
	id, err := imp.Add(context.Background(), tx)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if id == "" {
		t.Fatalf("expected non-empty id")
	}
}
