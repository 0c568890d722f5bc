package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

func newTestTracker(t *testing.T, now time.Time) (*Tracker, *storage.Store) {
	t.Helper()
	store := storage.NewMemoryStore()
	ids := &SequenceGenerator{Prefix: "tx"}
	engine := NewRollforwardEngine(&SequenceGenerator{Prefix: "rec"}, false)
	tracker := NewTracker(store, engine, ids, log.New("tracker-test"),
		WithClock(func() time.Time { return now }))
	return tracker, store
}

func TestTrackerAddTransactionPersists(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	tracker, store := newTestTracker(t, now)
	tracker.Load(ctx)

	created, err := tracker.AddTransaction(ctx, core.Transaction{
		Type:        core.Income,
		Amount:      decimal.NewFromInt(1000),
		Category:    "Salary",
		Description: "may salary",
		Date:        core.NewDate(2024, 5, 1),
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.ID == "" || !created.CreatedAt.Equal(now) {
		t.Fatalf("identity not assigned: %+v", created)
	}

	// New entries go to the head of the list.
	if _, err := tracker.AddTransaction(ctx, core.Transaction{
		Type:        core.Expense,
		Amount:      decimal.NewFromInt(50),
		Category:    "Food",
		Description: "groceries",
		Date:        core.NewDate(2024, 5, 2),
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	txs := tracker.Transactions()
	if len(txs) != 2 || txs[0].Category != "Food" {
		t.Fatalf("unexpected order %+v", txs)
	}

	// Persisted through the blob store.
	if got := store.Transactions(ctx); len(got) != 2 {
		t.Fatalf("persisted %d, want 2", len(got))
	}
}

func TestTrackerAddTransactionRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	tracker, store := newTestTracker(t, time.Now())

	_, err := tracker.AddTransaction(ctx, core.Transaction{
		Type:        core.Expense,
		Amount:      decimal.Zero,
		Category:    "Food",
		Description: "bad",
		Date:        core.NewDate(2024, 5, 1),
	})
	if err != core.ErrInvalidAmount {
		t.Fatalf("got %v, want %v", err, core.ErrInvalidAmount)
	}
	// No partial record.
	if len(tracker.Transactions()) != 0 || len(store.Transactions(ctx)) != 0 {
		t.Fatalf("rejected entry leaked into state")
	}
}

func TestTrackerUpdateAndDeleteTransaction(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	tracker, _ := newTestTracker(t, now)

	created, err := tracker.AddTransaction(ctx, core.Transaction{
		Type:        core.Expense,
		Amount:      decimal.NewFromInt(20),
		Category:    "Food",
		Description: "lunch",
		Date:        core.NewDate(2024, 5, 3),
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	updated := created
	updated.Amount = decimal.NewFromInt(25)
	if err := tracker.UpdateTransaction(ctx, created.ID, updated); err != nil {
		t.Fatalf("update: %v", err)
	}
	got := tracker.Transactions()[0]
	if got.Amount.String() != "25" || got.ID != created.ID || !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("update lost identity: %+v", got)
	}

	if err := tracker.UpdateTransaction(ctx, "missing", updated); err != ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	if err := tracker.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(tracker.Transactions()) != 0 {
		t.Fatalf("delete did not remove the record")
	}
	if err := tracker.DeleteTransaction(ctx, created.ID); err != ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestTrackerAddRecurringTicksImmediately(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	tracker, store := newTestTracker(t, now)

	created, err := tracker.AddRecurring(ctx, core.RecurringTransaction{
		Template: core.TransactionTemplate{
			Type:        core.Expense,
			Amount:      decimal.NewFromInt(900),
			Category:    "Housing",
			Description: "rent",
		},
		Frequency:   core.Monthly,
		NextDueDate: core.NewDate(2024, 3, 1),
		IsActive:    true,
	})
	if err != nil {
		t.Fatalf("add recurring: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("identity not assigned")
	}

	// The overdue template materialized without waiting for the ticker.
	txs := tracker.Transactions()
	if len(txs) != 1 || txs[0].Date.String() != "2024-03-01" || !txs[0].IsRecurring {
		t.Fatalf("expected one materialized transaction, got %+v", txs)
	}
	rec := tracker.Recurring()
	if rec[0].NextDueDate.String() != "2024-04-01" {
		t.Fatalf("next due = %s, want 2024-04-01", rec[0].NextDueDate)
	}

	// Both lists persisted wholesale.
	if got := store.Transactions(ctx); len(got) != 1 {
		t.Fatalf("persisted transactions = %d, want 1", len(got))
	}
	if got := store.Recurring(ctx); len(got) != 1 || got[0].NextDueDate.String() != "2024-04-01" {
		t.Fatalf("persisted recurring not advanced: %+v", got)
	}
}

func TestTrackerTickSameNowIsIdempotentOnceCaughtUp(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	tracker, _ := newTestTracker(t, now)

	if _, err := tracker.AddRecurring(ctx, core.RecurringTransaction{
		Template: core.TransactionTemplate{
			Type:        core.Expense,
			Amount:      decimal.NewFromInt(10),
			Category:    "Media",
			Description: "subscription",
		},
		Frequency:   core.Monthly,
		NextDueDate: core.NewDate(2024, 3, 10),
		IsActive:    true,
	}); err != nil {
		t.Fatalf("add recurring: %v", err)
	}

	before := len(tracker.Transactions())
	if n := tracker.Tick(ctx, now); n != 0 {
		t.Fatalf("second tick with same now materialized %d", n)
	}
	if len(tracker.Transactions()) != before {
		t.Fatalf("tick changed the transaction list without materializing")
	}
}

func TestTrackerLoadRunsRollforward(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	store := storage.NewMemoryStore()
	if err := store.SetRecurring(ctx, []core.RecurringTransaction{{
		ID: "r1",
		Template: core.TransactionTemplate{
			Type:        core.Expense,
			Amount:      decimal.NewFromInt(15),
			Category:    "Media",
			Description: "subscription",
		},
		Frequency:   core.Monthly,
		NextDueDate: core.NewDate(2024, 2, 20),
		IsActive:    true,
	}}); err != nil {
		t.Fatalf("seed recurring: %v", err)
	}

	engine := NewRollforwardEngine(&SequenceGenerator{Prefix: "rec"}, false)
	tracker := NewTracker(store, engine, &SequenceGenerator{Prefix: "tx"}, log.New("tracker-test"),
		WithClock(func() time.Time { return now }))
	tracker.Load(ctx)

	txs := tracker.Transactions()
	if len(txs) != 1 || txs[0].Date.String() != "2024-02-20" {
		t.Fatalf("load did not roll forward: %+v", txs)
	}
}

func TestTrackerClearAll(t *testing.T) {
	ctx := context.Background()
	tracker, store := newTestTracker(t, time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC))

	if _, err := tracker.AddTransaction(ctx, core.Transaction{
		Type:        core.Expense,
		Amount:      decimal.NewFromInt(5),
		Category:    "Food",
		Description: "coffee",
		Date:        core.NewDate(2024, 5, 1),
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	tracker.ClearAll(ctx)
	if len(tracker.Transactions()) != 0 || len(tracker.Recurring()) != 0 {
		t.Fatalf("state not cleared")
	}
	if got := store.Transactions(ctx); len(got) != 0 {
		t.Fatalf("store not cleared: %+v", got)
	}
}

func TestSequenceGenerator(t *testing.T) {
	g := &SequenceGenerator{Prefix: "seq"}
	first := g.NewID()
	second := g.NewID()
	if first == second {
		t.Fatalf("ids not unique: %s", first)
	}
	if !strings.HasPrefix(first, "seq-") {
		t.Fatalf("unexpected id %s", first)
	}
}

func TestUUIDGenerator(t *testing.T) {
	g := UUIDGenerator{}
	if g.NewID() == g.NewID() {
		t.Fatalf("uuid collision")
	}
}
