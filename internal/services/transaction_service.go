// Package services orchestrates storage writes with the async sync
// pipeline and hosts the periodic autopay processor.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"contas/internal/amqp"
	"contas/internal/core"
	"contas/internal/storage"
)

// TransactionService persists transaction mutations and publishes a
// change event for the spreadsheet sync worker. Storage is
// authoritative; a failed publish is logged and never fails the request.
type TransactionService struct {
	repo       storage.Repository
	amqpClient *amqp.Client
}

func NewTransactionService(repo storage.Repository, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{repo: repo, amqpClient: amqpClient}
}

func (s *TransactionService) Create(ctx context.Context, t core.Transaction) error {
	if err := s.repo.CreateTransaction(ctx, t); err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}
	s.publish(ctx, t.ID, amqp.ActionUpsert)
	return nil
}

func (s *TransactionService) Update(ctx context.Context, t core.Transaction) error {
	if err := s.repo.UpdateTransaction(ctx, t); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	s.publish(ctx, t.ID, amqp.ActionUpsert)
	return nil
}

// TogglePaid flips the paid flag of a stored transaction and returns the
// updated record.
func (s *TransactionService) TogglePaid(ctx context.Context, id string) (core.Transaction, error) {
	t, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	t.IsPaid = !t.IsPaid
	if err := s.repo.UpdateTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("toggle paid: %w", err)
	}
	s.publish(ctx, id, amqp.ActionUpsert)
	return t, nil
}

func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.publish(ctx, id, amqp.ActionDelete)
	return nil
}

func (s *TransactionService) publish(ctx context.Context, id, action string) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishTransactionEvent(ctx, id, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"id", id, "action", action, "error", err)
	}
}

// Close releases the storage and AMQP connections.
func (s *TransactionService) Close() error {
	var errs []error
	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}
	return nil
}
