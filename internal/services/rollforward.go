// Package services provides the rollforward engine and the tracker
// that owns the persisted transaction state.
package services

import (
	"time"

	"fintrack/internal/core"
)

// RollforwardResult carries the outcome of one rollforward pass.
type RollforwardResult struct {
	// Materialized holds the transactions spawned during the pass, in
	// recurring-list order.
	Materialized []core.Transaction
	// Recurring is the full replacement recurring list: advanced
	// entries and untouched entries alike.
	Recurring []core.RecurringTransaction
}

// RollforwardEngine advances due recurring entries into concrete
// transactions. It never mutates its input; callers replace their
// recurring list wholesale with the returned one.
type RollforwardEngine struct {
	ids IDGenerator

	// catchUp materializes every missed period in one pass instead of
	// one period per tick.
	catchUp bool
}

func NewRollforwardEngine(ids IDGenerator, catchUp bool) *RollforwardEngine {
	return &RollforwardEngine{ids: ids, catchUp: catchUp}
}

// Run processes the recurring list against now. For each active entry
// whose next due date is strictly before now, it materializes one
// transaction dated at that due date and advances the due date by one
// period. Inactive and not-due entries pass through unchanged.
//
// An entry overdue by several periods is advanced one period per call
// unless the engine was built with catch-up enabled; repeated calls
// converge either way.
func (e *RollforwardEngine) Run(recurring []core.RecurringTransaction, now time.Time) RollforwardResult {
	res := RollforwardResult{
		Recurring: make([]core.RecurringTransaction, 0, len(recurring)),
	}
	for _, r := range recurring {
		if !r.IsActive || !r.NextDueDate.Before(now) {
			res.Recurring = append(res.Recurring, r)
			continue
		}
		for r.NextDueDate.Before(now) {
			res.Materialized = append(res.Materialized, e.materialize(r, now))
			r.NextDueDate = NextDueDate(r.NextDueDate, r.Frequency)
			if !e.catchUp {
				break
			}
		}
		res.Recurring = append(res.Recurring, r)
	}
	return res
}

func (e *RollforwardEngine) materialize(r core.RecurringTransaction, now time.Time) core.Transaction {
	return core.Transaction{
		ID:                 e.ids.NewID(),
		Type:               r.Template.Type,
		Amount:             r.Template.Amount,
		Category:           r.Template.Category,
		Description:        r.Template.Description,
		Notes:              r.Template.Notes,
		Date:               r.NextDueDate,
		IsRecurring:        true,
		RecurringFrequency: r.Frequency,
		CreatedAt:          now,
	}
}

// NextDueDate adds one period to a due date. Month and year addition
// follow time.AddDate normalization.
func NextDueDate(d core.Date, f core.Frequency) core.Date {
	switch f {
	case core.Daily:
		return core.Date{Time: d.AddDate(0, 0, 1)}
	case core.Weekly:
		return core.Date{Time: d.AddDate(0, 0, 7)}
	case core.Yearly:
		return core.Date{Time: d.AddDate(1, 0, 0)}
	default:
		// Monthly, and the fallback for unknown frequencies.
		return core.Date{Time: d.AddDate(0, 1, 0)}
	}
}
