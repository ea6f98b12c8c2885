package services

import (
	"context"
	"fmt"
	"log/slog"

	"contas/internal/clock"
	"contas/internal/core"
	"contas/internal/storage"
)

// AutopayProcessor marks stored income records as paid once their
// transaction date arrives. Users record salaries ahead of time; the
// processor keeps them from having to confirm money they already
// received. Expenses are never touched: confirming an expense payment is
// always an explicit user action.
type AutopayProcessor struct {
	repo    storage.Repository
	service *TransactionService
	clock   clock.Clock
}

func NewAutopayProcessor(repo storage.Repository, service *TransactionService, c clock.Clock) *AutopayProcessor {
	return &AutopayProcessor{repo: repo, service: service, clock: c}
}

// ProcessDueIncome scans for pending income whose date has arrived and
// marks it paid. Returns the number of records updated.
func (p *AutopayProcessor) ProcessDueIncome(ctx context.Context) (int, error) {
	if p.repo == nil || p.service == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	today := p.clock.Today()
	transactions, err := p.repo.ListTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list transactions: %w", err)
	}

	processed := 0
	for _, t := range transactions {
		if t.Kind != core.Income || t.IsPaid {
			continue
		}
		if t.Date.After(today) {
			continue
		}

		t.IsPaid = true
		if err := p.service.Update(ctx, t); err != nil {
			slog.ErrorContext(ctx, "Failed to auto-mark income as paid",
				"id", t.ID, "error", err)
			continue
		}
		processed++
		slog.InfoContext(ctx, "Auto-marked income as paid",
			"id", t.ID,
			"description", t.Description,
			"amount_cents", t.Amount.Cents,
			"date", t.Date.String())
	}

	if processed > 0 {
		slog.InfoContext(ctx, "Autopay pass complete",
			"processed", processed,
			"total_checked", len(transactions))
	}
	return processed, nil
}
