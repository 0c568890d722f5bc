package http

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/report"
	"fintrack/internal/services"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	txs := s.tracker.Transactions()
	data := struct {
		Theme      core.Theme
		Today      string
		Categories []string
	}{
		Theme:      s.tracker.Theme(),
		Today:      time.Now().Format("2006-01-02"),
		Categories: report.UniqueCategories(txs),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleSummary renders the totals partial.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	summary := report.Summary(s.tracker.Transactions())
	data := struct {
		Income   string
		Expenses string
		Balance  string
		Negative bool
		Count    int
	}{
		Income:   core.FormatAmount(summary.TotalIncome),
		Expenses: core.FormatAmount(summary.TotalExpenses),
		Balance:  core.FormatAmount(summary.Balance),
		Negative: summary.Balance.IsNegative(),
		Count:    summary.TransactionCount,
	}
	s.renderPartial(w, r, "summary.html", data)
}

// handleCategories renders the per-category breakdown partial for the
// requested type (default expense).
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	typ := core.Expense
	if v := strings.TrimSpace(r.URL.Query().Get("type")); v != "" {
		typ = core.TransactionType(v)
		if !typ.Valid() {
			typ = core.Expense
		}
	}

	breakdown := report.CategoryBreakdown(s.tracker.Transactions(), typ)
	type row struct {
		Category string
		Amount   string
		Count    int
		Percent  int
	}
	data := struct {
		Type string
		Rows []row
	}{Type: string(typ)}
	for _, cd := range breakdown {
		pct := int(cd.Percentage + 0.5)
		if pct > 100 {
			pct = 100
		}
		data.Rows = append(data.Rows, row{
			Category: cd.Category,
			Amount:   core.FormatAmount(cd.Amount),
			Count:    cd.Count,
			Percent:  pct,
		})
	}
	s.renderPartial(w, r, "categories.html", data)
}

// handleTransactionList renders the filtered transaction list partial.
func (s *Server) handleTransactionList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	filters := parseFilters(r)
	txs := report.Filter(s.tracker.Transactions(), filters)

	type row struct {
		ID          string
		Date        string
		Type        core.TransactionType
		Category    string
		Description string
		Amount      string
		Notes       string
		Recurring   bool
	}
	data := struct {
		Rows  []row
		Total int
	}{Total: len(txs)}
	for _, tx := range txs {
		data.Rows = append(data.Rows, row{
			ID:          tx.ID,
			Date:        tx.Date.String(),
			Type:        tx.Type,
			Category:    tx.Category,
			Description: tx.Description,
			Amount:      core.FormatAmount(tx.Amount),
			Notes:       tx.Notes,
			Recurring:   tx.IsRecurring,
		})
	}
	s.renderPartial(w, r, "transactions.html", data)
}

// handleRecurringList renders the recurring templates partial.
func (s *Server) handleRecurringList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	type row struct {
		ID          string
		Type        core.TransactionType
		Category    string
		Description string
		Amount      string
		Frequency   core.Frequency
		NextDue     string
		Active      bool
	}
	var data struct {
		Rows []row
	}
	for _, rec := range s.tracker.Recurring() {
		data.Rows = append(data.Rows, row{
			ID:          rec.ID,
			Type:        rec.Template.Type,
			Category:    rec.Template.Category,
			Description: rec.Template.Description,
			Amount:      core.FormatAmount(rec.Template.Amount),
			Frequency:   rec.Frequency,
			NextDue:     rec.NextDueDate.String(),
			Active:      rec.IsActive,
		})
	}
	s.renderPartial(w, r, "recurring.html", data)
}

// handleMonthly serves the trend series as JSON for the chart script.
func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	// Dates are UTC calendar days, so the window anchors on the UTC month.
	points := report.MonthlyData(s.tracker.Transactions(), time.Now().UTC(), s.trendMonths)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(points); err != nil {
		slog.ErrorContext(r.Context(), "Monthly series encode failed", "error", err)
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		badRequest(w, r, err)
		return
	}

	tx, err := transactionFromForm(r)
	if err != nil {
		unprocessable(w, err)
		return
	}

	// A recurring submission registers only the repeating template, due
	// on the entered date. The tick inside AddRecurring materializes an
	// already-due entry with the recurring markers; a future date stays a
	// template until it comes due.
	if r.Form.Get("recurring") == "on" {
		rec := core.RecurringTransaction{
			Template: core.TransactionTemplate{
				Type:        tx.Type,
				Amount:      tx.Amount,
				Category:    tx.Category,
				Description: tx.Description,
				Date:        tx.Date,
				Notes:       tx.Notes,
			},
			Frequency:   core.Frequency(strings.TrimSpace(r.Form.Get("frequency"))),
			NextDueDate: tx.Date,
			IsActive:    true,
		}
		created, err := s.tracker.AddRecurring(r.Context(), rec)
		if err != nil {
			unprocessable(w, err)
			return
		}
		w.Header().Set("HX-Trigger", "transactions:changed")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`<div class="success">Recurring ` + template.HTMLEscapeString(string(created.Template.Type)) +
			` registered: ` + template.HTMLEscapeString(created.Template.Description) +
			` (` + template.HTMLEscapeString(core.FormatAmount(created.Template.Amount)) + `)</div>`))
		return
	}

	created, err := s.tracker.AddTransaction(r.Context(), tx)
	if err != nil {
		unprocessable(w, err)
		return
	}

	w.Header().Set("HX-Trigger", "transactions:changed")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Recorded ` + template.HTMLEscapeString(string(created.Type)) +
		`: ` + template.HTMLEscapeString(created.Description) +
		` (` + template.HTMLEscapeString(core.FormatAmount(created.Amount)) + `)</div>`))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		badRequest(w, r, err)
		return
	}

	id := strings.TrimSpace(r.Form.Get("id"))
	tx, err := transactionFromForm(r)
	if err != nil {
		unprocessable(w, err)
		return
	}

	if err := s.tracker.UpdateTransaction(r.Context(), id, tx); err != nil {
		s.mutationError(w, r, err)
		return
	}
	w.Header().Set("HX-Trigger", "transactions:changed")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Transaction updated</div>`))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		badRequest(w, r, err)
		return
	}

	id := strings.TrimSpace(r.Form.Get("id"))
	if err := s.tracker.DeleteTransaction(r.Context(), id); err != nil {
		s.mutationError(w, r, err)
		return
	}
	w.Header().Set("HX-Trigger", "transactions:changed")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Transaction deleted</div>`))
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		badRequest(w, r, err)
		return
	}

	rec, err := recurringFromForm(r)
	if err != nil {
		unprocessable(w, err)
		return
	}

	if _, err := s.tracker.AddRecurring(r.Context(), rec); err != nil {
		unprocessable(w, err)
		return
	}
	w.Header().Set("HX-Trigger", "transactions:changed")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Recurring transaction added</div>`))
}

func (s *Server) handleUpdateRecurring(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		badRequest(w, r, err)
		return
	}

	id := strings.TrimSpace(r.Form.Get("id"))
	rec, err := recurringFromForm(r)
	if err != nil {
		unprocessable(w, err)
		return
	}

	if err := s.tracker.UpdateRecurring(r.Context(), id, rec); err != nil {
		s.mutationError(w, r, err)
		return
	}
	w.Header().Set("HX-Trigger", "transactions:changed")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Recurring transaction updated</div>`))
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		badRequest(w, r, err)
		return
	}

	id := strings.TrimSpace(r.Form.Get("id"))
	if err := s.tracker.DeleteRecurring(r.Context(), id); err != nil {
		s.mutationError(w, r, err)
		return
	}
	w.Header().Set("HX-Trigger", "transactions:changed")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Recurring transaction deleted</div>`))
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	theme := s.tracker.ToggleTheme(r.Context())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(string(theme)))
}

func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	s.tracker.ClearAll(r.Context())
	w.Header().Set("HX-Trigger", "transactions:changed")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">All data cleared</div>`))
}

// handleExport streams the current (optionally filtered) transaction
// list as a CSV download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	filters := parseFilters(r)
	txs := report.Filter(s.tracker.Transactions(), filters)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(time.Now())+`"`)
	if err := export.WriteCSV(w, txs); err != nil {
		slog.ErrorContext(r.Context(), "CSV export failed", "error", err)
	}
}

func (s *Server) renderPartial(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", name)
		_, _ = w.Write([]byte(`<div class="error">Rendering failed</div>`))
	}
}

func (s *Server) mutationError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<div class="error">Record not found</div>`))
		return
	}
	unprocessable(w, err)
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
	w.WriteHeader(http.StatusBadRequest)
	_, _ = w.Write([]byte(`<div class="error">Malformed request</div>`))
}

func unprocessable(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusUnprocessableEntity)
	_, _ = w.Write([]byte(`<div class="error">Invalid data: ` + template.HTMLEscapeString(err.Error()) + `</div>`))
}
