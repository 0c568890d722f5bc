package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"

	// TypeAll is only meaningful inside TransactionFilters.
	TypeAll TransactionType = "all"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type (
	TransactionType string

	Frequency string

	Theme string

	// Date is a calendar day (midnight UTC). It marshals as "2006-01-02".
	Date struct {
		time.Time
	}

	// Transaction is a single recorded income or expense event.
	Transaction struct {
		ID                 string          `json:"id"`
		Type               TransactionType `json:"type"`
		Amount             decimal.Decimal `json:"amount"`
		Category           string          `json:"category"`
		Description        string          `json:"description"`
		Date               Date            `json:"date"`
		Notes              string          `json:"notes,omitempty"`
		IsRecurring        bool            `json:"isRecurring,omitempty"`
		RecurringFrequency Frequency       `json:"recurringFrequency,omitempty"`
		CreatedAt          time.Time       `json:"createdAt"`
	}

	// TransactionTemplate is the payload a recurring entry stamps out:
	// a Transaction without identity, creation time, or recurring markers.
	TransactionTemplate struct {
		Type        TransactionType `json:"type"`
		Amount      decimal.Decimal `json:"amount"`
		Category    string          `json:"category"`
		Description string          `json:"description"`
		Date        Date            `json:"date"`
		Notes       string          `json:"notes,omitempty"`
	}

	// RecurringTransaction periodically spawns concrete Transactions.
	// While IsActive, NextDueDate is always a date that has not been
	// materialized yet.
	RecurringTransaction struct {
		ID          string              `json:"id"`
		Template    TransactionTemplate `json:"templateTransaction"`
		Frequency   Frequency           `json:"frequency"`
		NextDueDate Date                `json:"nextDueDate"`
		IsActive    bool                `json:"isActive"`
		CreatedAt   time.Time           `json:"createdAt"`
	}

	// FinancialSummary holds aggregate totals over a transaction set.
	// Derived, never persisted.
	FinancialSummary struct {
		TotalIncome      decimal.Decimal `json:"totalIncome"`
		TotalExpenses    decimal.Decimal `json:"totalExpenses"`
		Balance          decimal.Decimal `json:"balance"`
		TransactionCount int             `json:"transactionCount"`
	}

	// CategoryData is one category's share of a type total.
	CategoryData struct {
		Category   string          `json:"category"`
		Amount     decimal.Decimal `json:"amount"`
		Count      int             `json:"count"`
		Percentage float64         `json:"percentage"`
	}

	// MonthlyPoint is one month of a trend series.
	MonthlyPoint struct {
		Month    string          `json:"month"`
		Income   decimal.Decimal `json:"income"`
		Expenses decimal.Decimal `json:"expenses"`
	}

	// TransactionFilters describes the active list filters. Zero values
	// mean "no constraint".
	TransactionFilters struct {
		Type     TransactionType
		Category string
		DateFrom Date
		DateTo   Date
		Search   string
	}
)

var (
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyDescription = errors.New("empty description")
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar day in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses an ISO 8601 calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	// Stored payloads may carry full timestamps; keep the day only.
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		*d = DateOf(t)
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// SameMonth reports whether the date falls in the given year and month.
func (d Date) SameMonth(year int, month time.Month) bool {
	return d.Year() == year && d.Month() == month
}

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	default:
		return false
	}
}

func (th Theme) Valid() bool {
	return th == ThemeLight || th == ThemeDark
}

// Toggle flips between light and dark.
func (th Theme) Toggle() Theme {
	if th == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if t.RecurringFrequency != "" && !t.RecurringFrequency.Valid() {
		return ErrInvalidFrequency
	}
	return nil
}

func (tt TransactionTemplate) Validate() error {
	if !tt.Type.Valid() {
		return ErrInvalidType
	}
	if !tt.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(tt.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(tt.Description) == "" {
		return ErrEmptyDescription
	}
	return nil
}

func (r RecurringTransaction) Validate() error {
	if err := r.Template.Validate(); err != nil {
		return err
	}
	if !r.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	if r.NextDueDate.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
