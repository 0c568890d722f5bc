package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func TestWriteCSVRoundTrip(t *testing.T) {
	created := time.Date(2024, 5, 3, 9, 30, 15, 0, time.UTC)
	txs := []core.Transaction{
		{
			ID:          "t1",
			Type:        core.Expense,
			Amount:      decimal.RequireFromString("19.9"),
			Category:    "Food",
			Description: `dinner, with "friends"`,
			Date:        core.NewDate(2024, 5, 3),
			Notes:       "cash",
			CreatedAt:   created,
		},
		{
			ID:                 "t2",
			Type:               core.Income,
			Amount:             decimal.NewFromInt(1000),
			Category:           "Salary",
			Description:        "may salary",
			Date:               core.NewDate(2024, 5, 1),
			IsRecurring:        true,
			RecurringFrequency: core.Monthly,
			CreatedAt:          created,
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, txs); err != nil {
		t.Fatalf("write: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}

	wantHeader := "Date,Type,Category,Description,Amount,Notes,Recurring,Created At"
	if got := strings.Join(records[0], ","); got != wantHeader {
		t.Fatalf("header = %q, want %q", got, wantHeader)
	}

	first := records[1]
	if first[0] != "2024-05-03" || first[1] != "expense" || first[2] != "Food" {
		t.Fatalf("unexpected row %v", first)
	}
	if first[3] != `dinner, with "friends"` {
		t.Fatalf("quoting broke description: %q", first[3])
	}
	if first[4] != "19.90" {
		t.Fatalf("amount = %s, want 19.90", first[4])
	}
	if first[5] != "cash" || first[6] != "No" {
		t.Fatalf("notes/recurring = %q/%q", first[5], first[6])
	}
	if first[7] != "2024-05-03 09:30:15" {
		t.Fatalf("created at = %q", first[7])
	}

	second := records[2]
	if second[6] != "Yes" {
		t.Fatalf("recurring flag = %q, want Yes", second[6])
	}
	if second[5] != "" {
		t.Fatalf("empty notes should round-trip empty, got %q", second[5])
	}
}

func TestWriteCSVEmptyList(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected header only, got %d lines", len(lines))
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)
	if got := Filename(now); got != "transactions-2024-05-03.csv" {
		t.Fatalf("filename = %s", got)
	}
}
