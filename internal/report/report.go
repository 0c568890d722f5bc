// Package report implements the aggregation and filtering engine: pure
// functions deriving summaries, category breakdowns, and trend series
// from an in-memory transaction list. Nothing here mutates its input.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Summary totals income and expenses over the list. Defined for the
// empty list (all zeros).
func Summary(txs []core.Transaction) core.FinancialSummary {
	income := decimal.Zero
	expenses := decimal.Zero
	for _, t := range txs {
		switch t.Type {
		case core.Income:
			income = income.Add(t.Amount)
		case core.Expense:
			expenses = expenses.Add(t.Amount)
		}
	}
	return core.FinancialSummary{
		TotalIncome:      income,
		TotalExpenses:    expenses,
		Balance:          income.Sub(expenses),
		TransactionCount: len(txs),
	}
}

// CategoryBreakdown aggregates amount and count per category for the
// given type and computes each category's percentage of the type total
// (0 when the total is 0). Entries are sorted descending by amount;
// ties keep first-encountered order.
func CategoryBreakdown(txs []core.Transaction, typ core.TransactionType) []core.CategoryData {
	total := decimal.Zero
	index := make(map[string]int)
	out := make([]core.CategoryData, 0)

	for _, t := range txs {
		if t.Type != typ {
			continue
		}
		total = total.Add(t.Amount)
		i, ok := index[t.Category]
		if !ok {
			index[t.Category] = len(out)
			out = append(out, core.CategoryData{Category: t.Category})
			i = len(out) - 1
		}
		out[i].Amount = out[i].Amount.Add(t.Amount)
		out[i].Count++
	}

	if total.IsPositive() {
		for i := range out {
			out[i].Percentage = out[i].Amount.Div(total).InexactFloat64() * 100
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}

// Filter returns the transactions matching every active filter field,
// preserving input order. An empty filter set returns the input as is.
func Filter(txs []core.Transaction, f core.TransactionFilters) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	search := strings.ToLower(strings.TrimSpace(f.Search))
	for _, t := range txs {
		if !matches(t, f, search) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matches(t core.Transaction, f core.TransactionFilters, search string) bool {
	if f.Type != "" && f.Type != core.TypeAll && t.Type != f.Type {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	// Inclusive at day granularity; dates are compared as calendar
	// instants, not strings.
	if !f.DateFrom.IsZero() && t.Date.Before(f.DateFrom.Time) {
		return false
	}
	if !f.DateTo.IsZero() && t.Date.After(f.DateTo.Time) {
		return false
	}
	if search != "" {
		if !strings.Contains(strings.ToLower(t.Description), search) &&
			!strings.Contains(strings.ToLower(t.Category), search) &&
			!strings.Contains(strings.ToLower(t.Notes), search) {
			return false
		}
	}
	return true
}

// UniqueCategories returns the distinct category labels, alphabetically
// sorted.
func UniqueCategories(txs []core.Transaction) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, t := range txs {
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		out = append(out, t.Category)
	}
	sort.Strings(out)
	return out
}

// MonthlyData builds the trailing trend series: exactly months entries,
// oldest first, ending at now's calendar month. Months without
// transactions produce zero entries, not an error.
func MonthlyData(txs []core.Transaction, now time.Time, months int) []core.MonthlyPoint {
	out := make([]core.MonthlyPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		// time.Date normalizes out-of-range months.
		first := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		income := decimal.Zero
		expenses := decimal.Zero
		for _, t := range txs {
			if !t.Date.SameMonth(first.Year(), first.Month()) {
				continue
			}
			switch t.Type {
			case core.Income:
				income = income.Add(t.Amount)
			case core.Expense:
				expenses = expenses.Add(t.Amount)
			}
		}
		out = append(out, core.MonthlyPoint{
			Month:    first.Format("Jan 2006"),
			Income:   income,
			Expenses: expenses,
		})
	}
	return out
}
