// Package storage is the persistence adapter: a key-value blob store
// holding three JSON payloads (transactions, recurring templates, theme
// preference). Reads tolerate missing or corrupt payloads by returning
// the type's empty default; writes are best-effort single attempts.
package storage

import (
	"context"
	"encoding/json"
	"log/slog"

	"fintrack/internal/core"
)

// Logical keys, one per persisted blob.
const (
	KeyTransactions = "finance-tracker-transactions"
	KeyRecurring    = "finance-tracker-recurring"
	KeyTheme        = "finance-tracker-theme"
)

// KV is the raw byte-level store a backend has to provide.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Store wraps a KV backend with the typed blob contract. A corrupted
// blob is treated as empty and logged, never surfaced to the caller.
type Store struct {
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Transactions loads the transaction list, or an empty list when the
// key is missing or the payload does not decode.
func (s *Store) Transactions(ctx context.Context) []core.Transaction {
	var out []core.Transaction
	s.get(ctx, KeyTransactions, &out)
	if out == nil {
		out = []core.Transaction{}
	}
	return out
}

func (s *Store) SetTransactions(ctx context.Context, txs []core.Transaction) error {
	return s.set(ctx, KeyTransactions, txs)
}

// Recurring loads the recurring-template list, defaulting to empty.
func (s *Store) Recurring(ctx context.Context) []core.RecurringTransaction {
	var out []core.RecurringTransaction
	s.get(ctx, KeyRecurring, &out)
	if out == nil {
		out = []core.RecurringTransaction{}
	}
	return out
}

func (s *Store) SetRecurring(ctx context.Context, recurring []core.RecurringTransaction) error {
	return s.set(ctx, KeyRecurring, recurring)
}

// Theme loads the theme preference, defaulting to light.
func (s *Store) Theme(ctx context.Context) core.Theme {
	var out core.Theme
	s.get(ctx, KeyTheme, &out)
	if !out.Valid() {
		return core.ThemeLight
	}
	return out
}

func (s *Store) SetTheme(ctx context.Context, theme core.Theme) error {
	return s.set(ctx, KeyTheme, theme)
}

// Clear removes all three blobs.
func (s *Store) Clear(ctx context.Context) error {
	var last error
	for _, key := range []string{KeyTransactions, KeyRecurring, KeyTheme} {
		if err := s.kv.Delete(ctx, key); err != nil {
			slog.WarnContext(ctx, "Failed to remove blob", "key", key, "error", err)
			last = err
		}
	}
	return last
}

func (s *Store) Close() error {
	return s.kv.Close()
}

func (s *Store) get(ctx context.Context, key string, dst any) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "Blob read failed, using empty default", "key", key, "error", err)
		return
	}
	if !ok {
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		slog.WarnContext(ctx, "Corrupt blob, using empty default", "key", key, "error", err)
	}
}

func (s *Store) set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, key, raw)
}
