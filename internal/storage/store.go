package storage

import (
	"context"

	"fintrack/internal/core"
)

// Store is the ownership boundary for canonical transactions. Snapshot
// returns an immutable copy: aggregation and forecasting read that copy,
// never a live cursor, so concurrent appends cannot leak into an in-flight
// computation.
type Store interface {
	// Append derives and persists a single record, returning its ID.
	Append(ctx context.Context, tx core.Transaction) (string, error)
	// AppendBatch persists records one by one and reports how many were
	// written. A failing record aborts the batch after the prior writes.
	AppendBatch(ctx context.Context, txs []core.Transaction) (int, error)
	// Snapshot returns a point-in-time copy of all records in date order.
	Snapshot(ctx context.Context) ([]core.Transaction, error)
	// Version is a monotonically increasing write counter, usable as a
	// cache key for snapshot-derived results.
	Version(ctx context.Context) (int64, error)
	Close() error
}
