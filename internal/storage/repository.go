package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// SQLiteRepository persists canonical transactions in a local SQLite file.
type SQLiteRepository struct {
	db *sql.DB
}

var _ Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements Store. Derivation runs on the write path, so a record
// whose raw fields were mutated after construction is still stored
// consistent.
func (r *SQLiteRepository) Append(ctx context.Context, t core.Transaction) (string, error) {
	t.Rederive()
	if err := t.Validate(); err != nil {
		return "", fmt.Errorf("validate transaction: %w", err)
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, date, description, debit, credit, sub_category, category, category_type, month_number, weekday, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Date.Format(dateLayout), t.Description, t.Debit, t.Credit,
		t.SubCategory, string(t.Category), string(t.CategoryType),
		t.MonthNumber, t.Weekday, t.Amount,
	)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	slog.DebugContext(ctx, "Transaction saved",
		"id", t.ID,
		"date", t.Date.Format(dateLayout),
		"category_type", string(t.CategoryType),
		"amount", t.Amount)

	return t.ID, nil
}

// AppendBatch implements Store.
func (r *SQLiteRepository) AppendBatch(ctx context.Context, txs []core.Transaction) (int, error) {
	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin batch: %w", err)
	}
	defer dbtx.Rollback()

	stmt, err := dbtx.PrepareContext(ctx, `
		INSERT INTO transactions (id, date, description, debit, credit, sub_category, category, category_type, month_number, weekday, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare batch insert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, t := range txs {
		t.Rederive()
		if err := t.Validate(); err != nil {
			return written, fmt.Errorf("validate transaction %d: %w", written, err)
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx,
			t.ID, t.Date.Format(dateLayout), t.Description, t.Debit, t.Credit,
			t.SubCategory, string(t.Category), string(t.CategoryType),
			t.MonthNumber, t.Weekday, t.Amount,
		); err != nil {
			return written, fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
		written++
	}

	if err := dbtx.Commit(); err != nil {
		return 0, fmt.Errorf("commit batch: %w", err)
	}

	slog.InfoContext(ctx, "Transaction batch saved", "count", written)
	return written, nil
}

// Snapshot implements Store. The result is a fresh slice the caller owns.
func (r *SQLiteRepository) Snapshot(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, description, debit, credit, sub_category, category, category_type, month_number, weekday, amount
		FROM transactions
		ORDER BY date, created_at`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var t core.Transaction
		var date, category, categoryType string
		if err := rows.Scan(&t.ID, &date, &t.Description, &t.Debit, &t.Credit,
			&t.SubCategory, &category, &categoryType, &t.MonthNumber, &t.Weekday, &t.Amount); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Date, err = time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", date, err)
		}
		t.Category = core.Category(category)
		t.CategoryType = core.CategoryType(categoryType)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// Version implements Store. Appends are the only writes, so the max rowid
// increases monotonically.
func (r *SQLiteRepository) Version(ctx context.Context) (int64, error) {
	var v int64
	if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(rowid), 0) FROM transactions`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read store version: %w", err)
	}
	return v, nil
}
