package memory

import (
	"context"
	"errors"
	"testing"

	"contas/internal/core"
)

func TestTransactionCRUD(t *testing.T) {
	s := New()
	ctx := context.Background()
	tx := core.Transaction{
		ID: "t1", Kind: core.Expense, Amount: core.Money{Cents: 5000},
		Description: "Internet", Date: core.NewDate(2025, 6, 1), DueDate: core.NewDate(2025, 6, 10),
		Recurrence: core.None,
	}

	if err := s.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.CreateTransaction(ctx, tx); err == nil {
		t.Fatal("expected duplicate id to fail")
	}

	got, err := s.GetTransaction(ctx, "t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Description != "Internet" {
		t.Fatalf("unexpected record: %+v", got)
	}

	got.IsPaid = true
	if err := s.UpdateTransaction(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got, _ = s.GetTransaction(ctx, "t1"); !got.IsPaid {
		t.Fatal("update did not persist")
	}

	if err := s.DeleteTransaction(ctx, "t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetTransaction(ctx, "t1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.UpdateTransaction(ctx, tx); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
}

func TestGoalIsolation(t *testing.T) {
	s := New()
	ctx := context.Background()
	g := core.SavingsGoal{
		ID: "g1", Name: "Trip", TargetAmount: core.Money{Cents: 100000},
		Contributions: []core.SavingsContribution{
			{ID: "c1", Amount: core.Money{Cents: 5000}, Date: core.NewDate(2025, 6, 1)},
		},
		CurrentAmount: core.Money{Cents: 5000},
	}
	if err := s.SaveGoal(ctx, g); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Mutating the returned copy must not leak into the store.
	got, err := s.GetGoal(ctx, "g1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.Contributions[0].Amount = core.Money{Cents: 999999}
	fresh, _ := s.GetGoal(ctx, "g1")
	if fresh.Contributions[0].Amount.Cents != 5000 {
		t.Fatal("stored goal shares memory with the returned copy")
	}

	// SaveGoal upserts.
	g.Name = "Big trip"
	if err := s.SaveGoal(ctx, g); err != nil {
		t.Fatalf("resave: %v", err)
	}
	goals, _ := s.ListGoals(ctx)
	if len(goals) != 1 || goals[0].Name != "Big trip" {
		t.Fatalf("expected upsert, got %+v", goals)
	}
}

func TestReplaceAll(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.CreateTransaction(ctx, core.Transaction{
		ID: "old", Kind: core.Income, Amount: core.Money{Cents: 100},
		Description: "Old", Date: core.NewDate(2025, 1, 1), Recurrence: core.None,
	})
	_ = s.SaveGoal(ctx, core.SavingsGoal{ID: "old-goal", Name: "Old", TargetAmount: core.Money{Cents: 100}})

	err := s.ReplaceAll(ctx,
		[]core.Transaction{{
			ID: "new", Kind: core.Income, Amount: core.Money{Cents: 200},
			Description: "New", Date: core.NewDate(2025, 2, 1), Recurrence: core.None,
		}},
		[]core.SavingsGoal{{ID: "new-goal", Name: "New", TargetAmount: core.Money{Cents: 200}}},
	)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}

	transactions, _ := s.ListTransactions(ctx)
	if len(transactions) != 1 || transactions[0].ID != "new" {
		t.Fatalf("expected only the new transaction, got %+v", transactions)
	}
	goals, _ := s.ListGoals(ctx)
	if len(goals) != 1 || goals[0].ID != "new-goal" {
		t.Fatalf("expected only the new goal, got %+v", goals)
	}
}

func TestShoppingItems(t *testing.T) {
	s := New()
	ctx := context.Background()
	item := core.ShoppingItem{ID: "i1", Name: "Milk", Quantity: 2}
	if err := s.CreateShoppingItem(ctx, item); err != nil {
		t.Fatalf("create: %v", err)
	}
	item.Purchased = true
	if err := s.UpdateShoppingItem(ctx, item); err != nil {
		t.Fatalf("update: %v", err)
	}
	items, _ := s.ListShoppingItems(ctx)
	if len(items) != 1 || !items[0].Purchased {
		t.Fatalf("unexpected items: %+v", items)
	}
	if err := s.DeleteShoppingItem(ctx, "i1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteShoppingItem(ctx, "i1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
