package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-05-01")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.May || d.Day() != 1 {
		t.Fatalf("unexpected date %v", d)
	}
	if _, err := ParseDate("01/05/2024"); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}
	if _, err := ParseDate(""); err == nil {
		t.Fatalf("expected error for empty date")
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, 2, 29)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-02-29"` {
		t.Fatalf("unexpected encoding %s", b)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip mismatch: %v != %v", back, d)
	}
}

func TestDateUnmarshalTimestamp(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2024-03-15T10:30:00Z"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.String() != "2024-03-15" {
		t.Fatalf("expected day truncation, got %s", d)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:          "t1",
		Type:        Expense,
		Amount:      decimal.NewFromInt(42),
		Category:    "Food",
		Description: "groceries",
		Date:        NewDate(2024, 5, 1),
		CreatedAt:   time.Now(),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"bad type", func(tr *Transaction) { tr.Type = "transfer" }, ErrInvalidType},
		{"zero amount", func(tr *Transaction) { tr.Amount = decimal.Zero }, ErrInvalidAmount},
		{"negative amount", func(tr *Transaction) { tr.Amount = decimal.NewFromInt(-1) }, ErrInvalidAmount},
		{"empty category", func(tr *Transaction) { tr.Category = "  " }, ErrEmptyCategory},
		{"empty description", func(tr *Transaction) { tr.Description = "" }, ErrEmptyDescription},
		{"zero date", func(tr *Transaction) { tr.Date = Date{} }, ErrInvalidDate},
		{"bad frequency", func(tr *Transaction) { tr.RecurringFrequency = "fortnightly" }, ErrInvalidFrequency},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := good
			tc.mutate(&tr)
			if err := tr.Validate(); err != tc.want {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestRecurringTransactionValidate(t *testing.T) {
	good := RecurringTransaction{
		ID: "r1",
		Template: TransactionTemplate{
			Type:        Expense,
			Amount:      decimal.NewFromInt(10),
			Category:    "Rent",
			Description: "monthly rent",
		},
		Frequency:   Monthly,
		NextDueDate: NewDate(2024, 6, 1),
		IsActive:    true,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := good
	bad.Frequency = "hourly"
	if err := bad.Validate(); err != ErrInvalidFrequency {
		t.Fatalf("got %v, want %v", err, ErrInvalidFrequency)
	}

	bad = good
	bad.NextDueDate = Date{}
	if err := bad.Validate(); err != ErrInvalidDate {
		t.Fatalf("got %v, want %v", err, ErrInvalidDate)
	}

	bad = good
	bad.Template.Amount = decimal.Zero
	if err := bad.Validate(); err != ErrInvalidAmount {
		t.Fatalf("got %v, want %v", err, ErrInvalidAmount)
	}
}

func TestThemeToggle(t *testing.T) {
	if ThemeLight.Toggle() != ThemeDark || ThemeDark.Toggle() != ThemeLight {
		t.Fatalf("toggle broken")
	}
	if Theme("sepia").Valid() {
		t.Fatalf("expected invalid theme")
	}
}
