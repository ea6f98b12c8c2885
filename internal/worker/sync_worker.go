// Package worker contains the long-running consumer that mirrors
// transaction changes into the external spreadsheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	amqp091 "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"

	"contas/internal/amqp"
	"contas/internal/core"
	"contas/internal/sheets"
	"contas/internal/storage"
)

// SyncWorker consumes transaction change events and applies them to the
// spreadsheet mirror. Events are handled concurrently up to maxInFlight.
type SyncWorker struct {
	repo        storage.Repository
	mirror      sheets.TransactionMirror
	maxInFlight int
}

func NewSyncWorker(repo storage.Repository, mirror sheets.TransactionMirror, maxInFlight int) *SyncWorker {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &SyncWorker{repo: repo, mirror: mirror, maxInFlight: maxInFlight}
}

// Run processes deliveries until the channel closes or the context is
// canceled. Failed events are nacked with requeue so the broker retries
// them; malformed payloads are dropped.
func (w *SyncWorker) Run(ctx context.Context, deliveries <-chan amqp091.Delivery) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.maxInFlight)

	for {
		select {
		case <-ctx.Done():
			return g.Wait()
		case d, ok := <-deliveries:
			if !ok {
				return g.Wait()
			}
			delivery := d
			g.Go(func() error {
				w.handleDelivery(ctx, delivery)
				return nil
			})
		}
	}
}

func (w *SyncWorker) handleDelivery(ctx context.Context, d amqp091.Delivery) {
	event, err := amqp.TransactionEventFromJSON(d.Body)
	if err != nil {
		slog.ErrorContext(ctx, "Dropping malformed sync message", "error", err)
		_ = d.Nack(false, false)
		return
	}

	if err := w.HandleEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to process sync message",
			"id", event.ID, "action", event.Action, "error", err)
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
}

// HandleEvent applies one change event to the mirror.
func (w *SyncWorker) HandleEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", event.ID, "action", event.Action)

	switch event.Action {
	case amqp.ActionDelete:
		if err := w.mirror.Remove(ctx, event.ID); err != nil {
			return fmt.Errorf("remove from mirror: %w", err)
		}
		return nil
	case amqp.ActionUpsert:
		t, err := w.repo.GetTransaction(ctx, event.ID)
		if errors.Is(err, core.ErrNotFound) {
			// Deleted between publish and consume; the delete event
			// will clean the mirror.
			slog.WarnContext(ctx, "Transaction vanished before sync", "id", event.ID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("get transaction from storage: %w", err)
		}
		ref, err := w.mirror.Upsert(ctx, t)
		if err != nil {
			return fmt.Errorf("upsert into mirror: %w", err)
		}
		slog.InfoContext(ctx, "Synced transaction to mirror", "id", event.ID, "row", ref)
		return nil
	default:
		return fmt.Errorf("unknown sync action %q", event.Action)
	}
}
