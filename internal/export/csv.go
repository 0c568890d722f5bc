// Package export renders transaction lists as CSV for download.
//
// Format: header row `Date,Type,Category,Description,Amount,Notes,
// Recurring,Created At`; free-text fields are always quoted (inner
// quotes doubled); amounts carry exactly two decimals; dates are
// yyyy-MM-dd and timestamps yyyy-MM-dd HH:mm:ss.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"fintrack/internal/core"
)

var header = []string{"Date", "Type", "Category", "Description", "Amount", "Notes", "Recurring", "Created At"}

// WriteCSV writes the header and one row per transaction.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	if _, err := io.WriteString(w, strings.Join(header, ",")+"\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, tx := range txs {
		if _, err := io.WriteString(w, row(tx)+"\n"); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	return nil
}

func row(tx core.Transaction) string {
	recurring := "No"
	if tx.IsRecurring {
		recurring = "Yes"
	}
	fields := []string{
		tx.Date.Format("2006-01-02"),
		string(tx.Type),
		quote(tx.Category),
		quote(tx.Description),
		core.FormatAmount(tx.Amount),
		quote(tx.Notes),
		recurring,
		tx.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	return strings.Join(fields, ",")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Filename returns the default download name for an export at now.
func Filename(now time.Time) string {
	return "transactions-" + now.Format("2006-01-02") + ".csv"
}
