package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func rentTemplate() core.TransactionTemplate {
	return core.TransactionTemplate{
		Type:        core.Expense,
		Amount:      decimal.NewFromInt(900),
		Category:    "Housing",
		Description: "monthly rent",
		Notes:       "landlord",
	}
}

func TestRollforwardMonthlySingleCatchUp(t *testing.T) {
	engine := NewRollforwardEngine(&SequenceGenerator{Prefix: "rec"}, false)
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	recurring := []core.RecurringTransaction{{
		ID:          "r1",
		Template:    rentTemplate(),
		Frequency:   core.Monthly,
		NextDueDate: core.NewDate(2024, 1, 1),
		IsActive:    true,
	}}

	res := engine.Run(recurring, now)

	// Overdue by more than one period still materializes exactly one
	// transaction per pass.
	if len(res.Materialized) != 1 {
		t.Fatalf("materialized %d, want 1", len(res.Materialized))
	}
	tx := res.Materialized[0]
	if tx.Date.String() != "2024-01-01" {
		t.Errorf("transaction date = %s, want 2024-01-01", tx.Date)
	}
	if !tx.IsRecurring || tx.RecurringFrequency != core.Monthly {
		t.Errorf("recurring markers not set: %+v", tx)
	}
	if tx.ID != "rec-1" {
		t.Errorf("id = %s, want rec-1", tx.ID)
	}
	if !tx.CreatedAt.Equal(now) {
		t.Errorf("createdAt = %v, want %v", tx.CreatedAt, now)
	}
	if tx.Category != "Housing" || tx.Description != "monthly rent" || tx.Notes != "landlord" {
		t.Errorf("template fields not carried over: %+v", tx)
	}

	if len(res.Recurring) != 1 {
		t.Fatalf("recurring length changed: %d", len(res.Recurring))
	}
	if got := res.Recurring[0].NextDueDate.String(); got != "2024-02-01" {
		t.Errorf("next due = %s, want 2024-02-01 (one period, not caught up)", got)
	}
	if !res.Recurring[0].IsActive {
		t.Errorf("entry should stay active")
	}
}

func TestRollforwardConvergesOverTicks(t *testing.T) {
	engine := NewRollforwardEngine(&SequenceGenerator{Prefix: "rec"}, false)
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	recurring := []core.RecurringTransaction{{
		ID:          "r1",
		Template:    rentTemplate(),
		Frequency:   core.Monthly,
		NextDueDate: core.NewDate(2024, 1, 1),
		IsActive:    true,
	}}

	total := 0
	for i := 0; i < 10; i++ {
		res := engine.Run(recurring, now)
		total += len(res.Materialized)
		recurring = res.Recurring
		if len(res.Materialized) == 0 {
			break
		}
	}
	// Jan, Feb, Mar due dates; April 1 is not before March 15.
	if total != 3 {
		t.Fatalf("materialized %d over repeated ticks, want 3", total)
	}
	if got := recurring[0].NextDueDate.String(); got != "2024-04-01" {
		t.Fatalf("final next due = %s, want 2024-04-01", got)
	}

	// Caught up: another pass with the same now materializes nothing.
	if res := engine.Run(recurring, now); len(res.Materialized) != 0 {
		t.Fatalf("expected idempotence after catch-up, got %d", len(res.Materialized))
	}
}

func TestRollforwardCatchUpMode(t *testing.T) {
	engine := NewRollforwardEngine(&SequenceGenerator{Prefix: "rec"}, true)
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	recurring := []core.RecurringTransaction{{
		ID:          "r1",
		Template:    rentTemplate(),
		Frequency:   core.Monthly,
		NextDueDate: core.NewDate(2024, 1, 1),
		IsActive:    true,
	}}

	res := engine.Run(recurring, now)
	if len(res.Materialized) != 3 {
		t.Fatalf("materialized %d in catch-up mode, want 3", len(res.Materialized))
	}
	dates := []string{res.Materialized[0].Date.String(), res.Materialized[1].Date.String(), res.Materialized[2].Date.String()}
	want := []string{"2024-01-01", "2024-02-01", "2024-03-01"}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("dates = %v, want %v", dates, want)
		}
	}
	if got := res.Recurring[0].NextDueDate.String(); got != "2024-04-01" {
		t.Fatalf("next due = %s, want 2024-04-01", got)
	}
}

func TestRollforwardInactivePassesThrough(t *testing.T) {
	engine := NewRollforwardEngine(&SequenceGenerator{Prefix: "rec"}, false)
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	entry := core.RecurringTransaction{
		ID:          "r1",
		Template:    rentTemplate(),
		Frequency:   core.Monthly,
		NextDueDate: core.NewDate(2024, 1, 1),
		IsActive:    false,
	}

	res := engine.Run([]core.RecurringTransaction{entry}, now)
	if len(res.Materialized) != 0 {
		t.Fatalf("inactive entry materialized %d transactions", len(res.Materialized))
	}
	if len(res.Recurring) != 1 || res.Recurring[0].NextDueDate.String() != "2024-01-01" {
		t.Fatalf("inactive entry was modified: %+v", res.Recurring)
	}
}

func TestRollforwardNotDuePassesThrough(t *testing.T) {
	engine := NewRollforwardEngine(&SequenceGenerator{Prefix: "rec"}, false)
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	entry := core.RecurringTransaction{
		ID:          "r1",
		Template:    rentTemplate(),
		Frequency:   core.Daily,
		NextDueDate: core.NewDate(2024, 3, 15), // today, not strictly before now
		IsActive:    true,
	}

	res := engine.Run([]core.RecurringTransaction{entry}, now)
	if len(res.Materialized) != 0 {
		t.Fatalf("due-today entry should not fire at midnight, got %d", len(res.Materialized))
	}
}

func TestNextDueDate(t *testing.T) {
	cases := []struct {
		name string
		from core.Date
		freq core.Frequency
		want string
	}{
		{"daily", core.NewDate(2024, 2, 28), core.Daily, "2024-02-29"},
		{"weekly", core.NewDate(2024, 12, 30), core.Weekly, "2025-01-06"},
		{"monthly", core.NewDate(2024, 5, 1), core.Monthly, "2024-06-01"},
		{"monthly normalizes", core.NewDate(2024, 1, 31), core.Monthly, "2024-03-02"},
		{"yearly", core.NewDate(2024, 3, 1), core.Yearly, "2025-03-01"},
		{"yearly leap day", core.NewDate(2024, 2, 29), core.Yearly, "2025-03-01"},
		{"unknown defaults to monthly", core.NewDate(2024, 5, 1), core.Frequency("unknown"), "2024-06-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextDueDate(tc.from, tc.freq).String(); got != tc.want {
				t.Fatalf("NextDueDate(%s, %s) = %s, want %s", tc.from, tc.freq, got, tc.want)
			}
		})
	}
}
