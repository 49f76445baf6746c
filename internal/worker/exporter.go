// Package worker holds the consumers behind the AMQP queues: the exporter
// appends records to the spreadsheet, the notifier sends account mail.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"moneytrack/internal/amqp"
	"moneytrack/internal/core"
	"moneytrack/internal/export"
	"moneytrack/internal/storage"
)

// Exporter copies stored records into the configured spreadsheet and keeps
// the export bookkeeping columns up to date.
type Exporter struct {
	repo      *storage.Repository
	sheet     export.RowAppender
	batchSize int
}

func NewExporter(repo *storage.Repository, sheet export.RowAppender, batchSize int) *Exporter {
	return &Exporter{
		repo:      repo,
		sheet:     sheet,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes one record sync message. Permanent problems
// (unknown family, record meanwhile deleted) are swallowed so the delivery
// is not requeued forever.
func (w *Exporter) HandleSyncMessage(ctx context.Context, msg *amqp.RecordSyncMessage) error {
	family := core.Family(msg.Family)
	if family != core.FamilyTransactions && family != core.FamilyDebts {
		slog.WarnContext(ctx, "Dropping sync message with unknown family",
			"record_id", msg.ID, "family", msg.Family)
		return nil
	}

	collection := w.repo.Collection(family)
	rec, err := collection.Get(ctx, msg.ID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.InfoContext(ctx, "Record deleted before export, skipping",
			"record_id", msg.ID, "family", family)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get record for export: %w", err)
	}

	return w.exportRecord(ctx, collection, family, rec)
}

// ProcessPending exports records whose sync message was lost. Called
// periodically and once at startup.
func (w *Exporter) ProcessPending(ctx context.Context) error {
	for _, family := range []core.Family{core.FamilyTransactions, core.FamilyDebts} {
		collection := w.repo.Collection(family)

		ids, err := collection.PendingExport(ctx, w.batchSize)
		if err != nil {
			return fmt.Errorf("pending export %s: %w", family, err)
		}
		if len(ids) == 0 {
			continue
		}

		slog.InfoContext(ctx, "Processing pending exports",
			"family", family, "count", len(ids))

		for _, id := range ids {
			rec, err := collection.Get(ctx, id)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to load pending record",
					"record_id", id, "family", family, "error", err)
				continue
			}
			if err := w.exportRecord(ctx, collection, family, rec); err != nil {
				slog.ErrorContext(ctx, "Failed to export pending record",
					"record_id", id, "family", family, "error", err)
			}
		}
	}
	return nil
}

func (w *Exporter) exportRecord(ctx context.Context, collection *storage.RecordCollection, family core.Family, rec core.FinancialRecord) error {
	ref, err := w.sheet.Append(ctx, family, rec)
	if err != nil {
		if markErr := collection.MarkExportError(ctx, rec.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error",
				"record_id", rec.ID, "error", markErr)
		}
		return fmt.Errorf("append to sheet: %w", err)
	}

	if err := collection.MarkExported(ctx, rec.ID); err != nil {
		// The row is written; only the bookkeeping failed.
		slog.ErrorContext(ctx, "Failed to mark record exported",
			"record_id", rec.ID, "error", err)
	}

	slog.InfoContext(ctx, "Exported record",
		"record_id", rec.ID,
		"family", family,
		"sheets_ref", ref,
		"amount_cents", rec.Amount.Cents)
	return nil
}
