package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fintrack/internal/core"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store used in tests and as a fallback backend
// when no database path is configured.
type MemoryStore struct {
	mu      sync.Mutex
	items   []core.Transaction
	version int64
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, t core.Transaction) (string, error) {
	t.Rederive()
	if err := t.Validate(); err != nil {
		return "", fmt.Errorf("validate transaction: %w", err)
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, t)
	s.version++
	return t.ID, nil
}

func (s *MemoryStore) AppendBatch(ctx context.Context, txs []core.Transaction) (int, error) {
	for i, t := range txs {
		if _, err := s.Append(ctx, t); err != nil {
			return i, err
		}
	}
	return len(txs), nil
}

func (s *MemoryStore) Snapshot(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.Transaction(nil), s.items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *MemoryStore) Version(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version, nil
}

func (s *MemoryStore) Close() error { return nil }
