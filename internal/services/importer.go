// Package services orchestrates ingestion, aggregation and forecasting over
// the transaction store.
package services

import (
	"context"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/ingest"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// ImportStats reports one completed ingestion run. Skipped counts rows
// dropped individually; a non-zero value never means the run failed.
type ImportStats struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Importer drives one ingestion source through normalization into the store.
type Importer struct {
	store  storage.Store
	logger *log.Logger
}

func NewImporter(store storage.Store, logger *log.Logger) *Importer {
	return &Importer{
		store:  store,
		logger: logger.WithComponent(log.ComponentIngest),
	}
}

// Import reads the source to completion, normalizes its rows and appends
// the resulting records as one batch. Ingestion never aborts on a single
// bad row; the skip count is reported in the stats and the log.
func (s *Importer) Import(ctx context.Context, src ingest.Source) (ImportStats, error) {
	table, err := src.Read(ctx)
	if err != nil {
		return ImportStats{}, fmt.Errorf("read source: %w", err)
	}

	res, err := ingest.Normalize(table)
	if err != nil {
		return ImportStats{}, fmt.Errorf("normalize rows: %w", err)
	}

	written, err := s.store.AppendBatch(ctx, res.Records)
	if err != nil {
		return ImportStats{Imported: written, Skipped: res.Skipped}, fmt.Errorf("store records: %w", err)
	}

	stats := ImportStats{Imported: written, Skipped: res.Skipped}
	s.logger.InfoContext(ctx, "Import completed",
		log.FieldOperation, log.OpImport,
		log.FieldRowsRead, len(table.Rows),
		log.FieldImported, stats.Imported,
		log.FieldSkipped, stats.Skipped)
	return stats, nil
}

// Add derives and stores a single directly entered record.
func (s *Importer) Add(ctx context.Context, tx core.Transaction) (string, error) {
	id, err := s.store.Append(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("store record: %w", err)
	}
	s.logger.InfoContext(ctx, "Record added",
		log.FieldOperation, log.OpAppend,
		log.FieldRecordID, id,
		log.FieldCategory, string(tx.Category))
	return id, nil
}
