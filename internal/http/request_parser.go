package http

import (
	"net/http"
	"strings"

	"fintrack/internal/core"
)

// transactionFromForm builds a Transaction from submitted form fields.
// Validation of the result is left to the tracker.
func transactionFromForm(r *http.Request) (core.Transaction, error) {
	amount, err := core.ParseAmount(r.Form.Get("amount"))
	if err != nil {
		return core.Transaction{}, err
	}

	date, err := core.ParseDate(r.Form.Get("date"))
	if err != nil {
		return core.Transaction{}, err
	}

	return core.Transaction{
		Type:        core.TransactionType(strings.TrimSpace(r.Form.Get("type"))),
		Amount:      amount,
		Category:    sanitizeInput(r.Form.Get("category")),
		Description: sanitizeInput(r.Form.Get("description")),
		Date:        date,
		Notes:       sanitizeInput(r.Form.Get("notes")),
	}, nil
}

// recurringFromForm builds a RecurringTransaction from submitted form
// fields. The "active" checkbox defaults to on for new entries.
func recurringFromForm(r *http.Request) (core.RecurringTransaction, error) {
	amount, err := core.ParseAmount(r.Form.Get("amount"))
	if err != nil {
		return core.RecurringTransaction{}, err
	}

	nextDue, err := core.ParseDate(r.Form.Get("nextDueDate"))
	if err != nil {
		return core.RecurringTransaction{}, err
	}

	active := true
	if v := r.Form.Get("active"); v != "" {
		active = v == "on" || v == "true"
	}

	return core.RecurringTransaction{
		Template: core.TransactionTemplate{
			Type:        core.TransactionType(strings.TrimSpace(r.Form.Get("type"))),
			Amount:      amount,
			Category:    sanitizeInput(r.Form.Get("category")),
			Description: sanitizeInput(r.Form.Get("description")),
			Date:        nextDue,
			Notes:       sanitizeInput(r.Form.Get("notes")),
		},
		Frequency:   core.Frequency(strings.TrimSpace(r.Form.Get("frequency"))),
		NextDueDate: nextDue,
		IsActive:    active,
	}, nil
}

// parseFilters reads the list filters from query parameters. Invalid
// values fall back to "no constraint" rather than erroring, the list
// partial should always render.
func parseFilters(r *http.Request) core.TransactionFilters {
	q := r.URL.Query()

	filters := core.TransactionFilters{
		Type:     core.TypeAll,
		Category: strings.TrimSpace(q.Get("category")),
		Search:   strings.TrimSpace(q.Get("q")),
	}

	if v := core.TransactionType(strings.TrimSpace(q.Get("type"))); v.Valid() {
		filters.Type = v
	}
	if d, err := core.ParseDate(q.Get("from")); err == nil {
		filters.DateFrom = d
	}
	if d, err := core.ParseDate(q.Get("to")); err == nil {
		filters.DateTo = d
	}
	return filters
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
