package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// ErrNotFound is returned for mutations targeting an unknown id.
var ErrNotFound = errors.New("record not found")

// Tracker is the state container: it exclusively owns the in-memory
// transaction and recurring lists, wires loads and saves to the blob
// store, and runs the rollforward engine on load, on an interval, and
// after recurring mutations.
//
// Persistence is fire-and-forget: a failed write is logged and in-memory
// state stays the source of truth for the rest of the session. Mutations
// replace whole lists rather than editing in place.
type Tracker struct {
	mu     sync.Mutex
	store  *storage.Store
	engine *RollforwardEngine
	ids    IDGenerator
	events *amqp.Client // optional
	logger *log.Logger
	clock  func() time.Time

	transactions []core.Transaction
	recurring    []core.RecurringTransaction
	theme        core.Theme
}

// TrackerOption customizes a Tracker.
type TrackerOption func(*Tracker)

// WithEvents attaches an AMQP client for lifecycle events.
func WithEvents(c *amqp.Client) TrackerOption {
	return func(t *Tracker) { t.events = c }
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) TrackerOption {
	return func(t *Tracker) { t.clock = clock }
}

func NewTracker(store *storage.Store, engine *RollforwardEngine, ids IDGenerator, logger *log.Logger, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		store:  store,
		engine: engine,
		ids:    ids,
		logger: logger,
		clock:  time.Now,
		theme:  core.ThemeLight,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load reads the persisted blobs and runs an initial rollforward tick.
func (t *Tracker) Load(ctx context.Context) {
	t.mu.Lock()
	t.transactions = t.store.Transactions(ctx)
	t.recurring = t.store.Recurring(ctx)
	t.theme = t.store.Theme(ctx)
	t.mu.Unlock()

	t.logger.Info("State loaded",
		"transactions", len(t.Transactions()),
		"recurring", len(t.Recurring()),
		"theme", t.Theme())

	t.Tick(ctx, t.clock())
}

// Transactions returns a copy of the transaction list.
func (t *Tracker) Transactions() []core.Transaction {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]core.Transaction, len(t.transactions))
	copy(out, t.transactions)
	return out
}

// Recurring returns a copy of the recurring list.
func (t *Tracker) Recurring() []core.RecurringTransaction {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]core.RecurringTransaction, len(t.recurring))
	copy(out, t.recurring)
	return out
}

// Theme returns the current theme preference.
func (t *Tracker) Theme() core.Theme {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.theme
}

// ToggleTheme flips and persists the theme, returning the new value.
func (t *Tracker) ToggleTheme(ctx context.Context) core.Theme {
	t.mu.Lock()
	t.theme = t.theme.Toggle()
	theme := t.theme
	t.mu.Unlock()

	if err := t.store.SetTheme(ctx, theme); err != nil {
		t.logger.Warn("Failed to persist theme", "error", err)
	}
	return theme
}

// AddTransaction validates and records a new transaction at the head of
// the list, assigning identity and creation time.
func (t *Tracker) AddTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	tx.ID = t.ids.NewID()
	tx.CreatedAt = t.clock()
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	t.mu.Lock()
	t.transactions = append([]core.Transaction{tx}, t.transactions...)
	t.mu.Unlock()

	t.persistTransactions(ctx)
	t.publish(ctx, amqp.ActionCreated, tx)
	return tx, nil
}

// UpdateTransaction replaces the fields of an existing transaction,
// keeping its identity and creation time.
func (t *Tracker) UpdateTransaction(ctx context.Context, id string, updated core.Transaction) error {
	t.mu.Lock()
	idx := -1
	for i, tx := range t.transactions {
		if tx.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		t.mu.Unlock()
		return ErrNotFound
	}
	updated.ID = id
	updated.CreatedAt = t.transactions[idx].CreatedAt
	if err := updated.Validate(); err != nil {
		t.mu.Unlock()
		return err
	}
	next := make([]core.Transaction, len(t.transactions))
	copy(next, t.transactions)
	next[idx] = updated
	t.transactions = next
	t.mu.Unlock()

	t.persistTransactions(ctx)
	return nil
}

// DeleteTransaction removes a transaction by id.
func (t *Tracker) DeleteTransaction(ctx context.Context, id string) error {
	t.mu.Lock()
	next := make([]core.Transaction, 0, len(t.transactions))
	var removed *core.Transaction
	for _, tx := range t.transactions {
		if tx.ID == id {
			deleted := tx
			removed = &deleted
			continue
		}
		next = append(next, tx)
	}
	if removed == nil {
		t.mu.Unlock()
		return ErrNotFound
	}
	t.transactions = next
	t.mu.Unlock()

	t.persistTransactions(ctx)
	t.publish(ctx, amqp.ActionDeleted, *removed)
	return nil
}

// AddRecurring records a new recurring template and immediately runs a
// tick so an already-due template materializes without waiting for the
// next interval.
func (t *Tracker) AddRecurring(ctx context.Context, r core.RecurringTransaction) (core.RecurringTransaction, error) {
	r.ID = t.ids.NewID()
	r.CreatedAt = t.clock()
	if err := r.Validate(); err != nil {
		return core.RecurringTransaction{}, err
	}

	t.mu.Lock()
	t.recurring = append(t.recurring, r)
	t.mu.Unlock()

	t.persistRecurring(ctx)
	t.Tick(ctx, t.clock())
	return r, nil
}

// UpdateRecurring replaces an existing recurring entry's fields and
// re-ticks, since a change may make the entry due.
func (t *Tracker) UpdateRecurring(ctx context.Context, id string, updated core.RecurringTransaction) error {
	t.mu.Lock()
	idx := -1
	for i, r := range t.recurring {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		t.mu.Unlock()
		return ErrNotFound
	}
	updated.ID = id
	updated.CreatedAt = t.recurring[idx].CreatedAt
	if err := updated.Validate(); err != nil {
		t.mu.Unlock()
		return err
	}
	next := make([]core.RecurringTransaction, len(t.recurring))
	copy(next, t.recurring)
	next[idx] = updated
	t.recurring = next
	t.mu.Unlock()

	t.persistRecurring(ctx)
	t.Tick(ctx, t.clock())
	return nil
}

// DeleteRecurring removes a recurring entry by id. Transactions it
// already materialized are unaffected.
func (t *Tracker) DeleteRecurring(ctx context.Context, id string) error {
	t.mu.Lock()
	next := make([]core.RecurringTransaction, 0, len(t.recurring))
	found := false
	for _, r := range t.recurring {
		if r.ID == id {
			found = true
			continue
		}
		next = append(next, r)
	}
	if !found {
		t.mu.Unlock()
		return ErrNotFound
	}
	t.recurring = next
	t.mu.Unlock()

	t.persistRecurring(ctx)
	return nil
}

// Tick runs one rollforward pass at now. Materialized transactions are
// appended to the transaction list and the recurring list is replaced
// wholesale. Returns the number of transactions materialized.
//
// Running Tick twice with the same now only re-materializes when an
// entry is still overdue after its single-period advance, so each due
// date is produced exactly once.
func (t *Tracker) Tick(ctx context.Context, now time.Time) int {
	t.mu.Lock()
	res := t.engine.Run(t.recurring, now)
	if len(res.Materialized) == 0 {
		t.mu.Unlock()
		return 0
	}
	t.transactions = append(t.transactions, res.Materialized...)
	t.recurring = res.Recurring
	t.mu.Unlock()

	t.logger.Info("Rollforward tick materialized transactions",
		"count", len(res.Materialized),
		"at", now.Format("2006-01-02"))

	t.persistTransactions(ctx)
	t.persistRecurring(ctx)
	for _, tx := range res.Materialized {
		t.publish(ctx, amqp.ActionCreated, tx)
	}
	return len(res.Materialized)
}

// RunTicker ticks on every interval until ctx is done.
func (t *Tracker) RunTicker(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			t.Tick(ctx, now)
		}
	}
}

// ClearAll wipes both lists and removes the persisted blobs.
func (t *Tracker) ClearAll(ctx context.Context) {
	t.mu.Lock()
	t.transactions = nil
	t.recurring = nil
	t.theme = core.ThemeLight
	t.mu.Unlock()

	if err := t.store.Clear(ctx); err != nil {
		t.logger.Warn("Failed to clear persisted state", "error", err)
	}
}

func (t *Tracker) persistTransactions(ctx context.Context) {
	if err := t.store.SetTransactions(ctx, t.Transactions()); err != nil {
		t.logger.Warn("Failed to persist transactions", "error", err)
	}
}

func (t *Tracker) persistRecurring(ctx context.Context) {
	if err := t.store.SetRecurring(ctx, t.Recurring()); err != nil {
		t.logger.Warn("Failed to persist recurring transactions", "error", err)
	}
}

func (t *Tracker) publish(ctx context.Context, action string, tx core.Transaction) {
	if t.events == nil {
		return
	}
	if err := t.events.PublishTransactionEvent(ctx, amqp.NewTransactionEvent(action, tx)); err != nil {
		t.logger.Warn("Failed to publish transaction event",
			"action", action,
			"transaction_id", tx.ID,
			"error", err)
	}
}
