// Package worker turns transaction lifecycle events into spreadsheet
// rows. Lost or failed appends never affect the tracker; the queue
// redelivers until the append succeeds.
package worker

import (
	"context"
	"fmt"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

// RowAppender is the mirror surface the worker writes through.
type RowAppender interface {
	AppendTransaction(ctx context.Context, tx core.Transaction) error
}

// MirrorWorker handles transaction events from the queue.
type MirrorWorker struct {
	mirror RowAppender
	logger *log.Logger
}

func NewMirrorWorker(mirror RowAppender, logger *log.Logger) *MirrorWorker {
	return &MirrorWorker{mirror: mirror, logger: logger}
}

// HandleEvent processes one lifecycle event. Created events append a
// row; deleted events are acknowledged without touching the sheet, the
// mirror is append-only.
func (w *MirrorWorker) HandleEvent(ctx context.Context, ev *amqp.TransactionEvent) error {
	switch ev.Action {
	case amqp.ActionCreated:
		if err := w.mirror.AppendTransaction(ctx, ev.Transaction); err != nil {
			return fmt.Errorf("mirror transaction %s: %w", ev.Transaction.ID, err)
		}
		return nil
	case amqp.ActionDeleted:
		w.logger.Info("Skipping delete event, mirror is append-only",
			"transaction_id", ev.Transaction.ID)
		return nil
	default:
		w.logger.Warn("Dropping event with unknown action", "action", ev.Action)
		return nil
	}
}

// Run consumes events until ctx is done.
func (w *MirrorWorker) Run(ctx context.Context, events *amqp.Client) error {
	return events.ConsumeTransactionEvents(ctx, func(ev *amqp.TransactionEvent) error {
		return w.HandleEvent(ctx, ev)
	})
}
