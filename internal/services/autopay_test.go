package services

import (
	"context"
	"testing"

	"contas/internal/clock"
	"contas/internal/core"
	"contas/internal/storage/memory"
)

func TestProcessDueIncome(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	seed := []core.Transaction{
		{
			ID: "due", Kind: core.Income, Amount: core.Money{Cents: 300000},
			Description: "Salary", Date: core.NewDate(2025, 6, 5), Recurrence: core.None,
		},
		{
			ID: "today", Kind: core.Income, Amount: core.Money{Cents: 50000},
			Description: "Freelance", Date: core.NewDate(2025, 6, 10), Recurrence: core.None,
		},
		{
			ID: "future", Kind: core.Income, Amount: core.Money{Cents: 50000},
			Description: "Bonus", Date: core.NewDate(2025, 6, 20), Recurrence: core.None,
		},
		{
			ID: "already-paid", Kind: core.Income, Amount: core.Money{Cents: 10000},
			Description: "Refund", Date: core.NewDate(2025, 6, 1), IsPaid: true, Recurrence: core.None,
		},
		{
			ID: "expense", Kind: core.Expense, Amount: core.Money{Cents: 8000},
			Description: "Gym", Date: core.NewDate(2025, 6, 1), DueDate: core.NewDate(2025, 6, 1),
			Recurrence: core.None,
		},
	}
	for _, tx := range seed {
		if err := repo.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	service := NewTransactionService(repo, nil)
	processor := NewAutopayProcessor(repo, service, clock.NewFixed(2025, 6, 10))

	count, err := processor.ProcessDueIncome(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 records processed, got %d", count)
	}

	expectPaid := map[string]bool{
		"due":          true,
		"today":        true,
		"future":       false,
		"already-paid": true,
		"expense":      false,
	}
	for id, want := range expectPaid {
		tx, err := repo.GetTransaction(ctx, id)
		if err != nil {
			t.Fatalf("get %s: %v", id, err)
		}
		if tx.IsPaid != want {
			t.Fatalf("%s: expected isPaid=%v, got %v", id, want, tx.IsPaid)
		}
	}

	// A second pass finds nothing left to do.
	count, err = processor.ProcessDueIncome(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected idempotent second pass, processed %d", count)
	}
}

func TestProcessDueIncomeUninitialized(t *testing.T) {
	var processor AutopayProcessor
	if _, err := processor.ProcessDueIncome(context.Background()); err == nil {
		t.Fatal("expected error for uninitialized processor")
	}
}

func TestTogglePaid(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	tx := core.Transaction{
		ID: "t1", Kind: core.Expense, Amount: core.Money{Cents: 5000},
		Description: "Internet", Date: core.NewDate(2025, 6, 1), DueDate: core.NewDate(2025, 6, 10),
		Recurrence: core.None,
	}
	if err := repo.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	service := NewTransactionService(repo, nil)
	updated, err := service.TogglePaid(ctx, "t1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !updated.IsPaid {
		t.Fatal("expected paid after first toggle")
	}
	updated, err = service.TogglePaid(ctx, "t1")
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if updated.IsPaid {
		t.Fatal("expected pending after second toggle")
	}

	if _, err := service.TogglePaid(ctx, "missing"); err == nil {
		t.Fatal("expected error for unknown id")
	}
}
