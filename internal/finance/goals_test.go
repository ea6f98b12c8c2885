package finance

import (
	"errors"
	"testing"

	"contas/internal/core"
)

func ledgerInvariant(t *testing.T, g core.SavingsGoal) {
	t.Helper()
	var total core.Money
	for _, c := range g.Contributions {
		total = total.Add(c.Amount)
	}
	if g.CurrentAmount != total {
		t.Fatalf("current amount %s diverged from contribution sum %s", g.CurrentAmount, total)
	}
}

func TestGoalLedger(t *testing.T) {
	g := core.SavingsGoal{ID: "g1", Name: "Trip", TargetAmount: core.Money{Cents: 500000}}

	if err := AddContribution(&g, core.SavingsContribution{
		ID: "c1", Amount: core.Money{Cents: 20000}, Date: core.NewDate(2025, 5, 1),
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := AddContribution(&g, core.SavingsContribution{
		ID: "c2", Amount: core.Money{Cents: 15000}, Date: core.NewDate(2025, 6, 1),
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	ledgerInvariant(t, g)
	if g.CurrentAmount.Cents != 35000 {
		t.Fatalf("expected 350.00, got %s", g.CurrentAmount)
	}

	if err := UpdateContribution(&g, "c1", core.Money{Cents: 25000}, core.NewDate(2025, 5, 2)); err != nil {
		t.Fatalf("update: %v", err)
	}
	ledgerInvariant(t, g)
	if g.CurrentAmount.Cents != 40000 {
		t.Fatalf("expected 400.00 after update, got %s", g.CurrentAmount)
	}

	if err := DeleteContribution(&g, "c2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ledgerInvariant(t, g)
	if g.CurrentAmount.Cents != 25000 {
		t.Fatalf("expected 250.00 after delete, got %s", g.CurrentAmount)
	}
}

func TestGoalLedgerRejections(t *testing.T) {
	g := core.SavingsGoal{ID: "g1", Name: "Trip", TargetAmount: core.Money{Cents: 500000}}

	if err := AddContribution(&g, core.SavingsContribution{
		ID: "c1", Amount: core.Money{Cents: 0}, Date: core.NewDate(2025, 5, 1),
	}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero amount, got %v", err)
	}
	if err := AddContribution(&g, core.SavingsContribution{
		ID: "c1", Amount: core.Money{Cents: -500}, Date: core.NewDate(2025, 5, 1),
	}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative amount, got %v", err)
	}
	if len(g.Contributions) != 0 || g.CurrentAmount.Cents != 0 {
		t.Fatal("rejected contribution must not touch the goal")
	}

	if err := UpdateContribution(&g, "missing", core.Money{Cents: 100}, core.Date{}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := DeleteContribution(&g, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecomputeCurrentAmount(t *testing.T) {
	g := core.SavingsGoal{
		ID: "g1", Name: "Trip", TargetAmount: core.Money{Cents: 500000},
		CurrentAmount: core.Money{Cents: 999999}, // stale aggregate
		Contributions: []core.SavingsContribution{
			{ID: "c1", Amount: core.Money{Cents: 10000}, Date: core.NewDate(2025, 1, 1)},
			{ID: "c2", Amount: core.Money{Cents: 5000}, Date: core.NewDate(2025, 2, 1)},
		},
	}
	RecomputeCurrentAmount(&g)
	if g.CurrentAmount.Cents != 15000 {
		t.Fatalf("expected 150.00, got %s", g.CurrentAmount)
	}
}

func TestMonthlyImpact(t *testing.T) {
	g := core.SavingsGoal{
		ID: "g1", Name: "Trip", TargetAmount: core.Money{Cents: 500000},
		Contributions: []core.SavingsContribution{
			{ID: "c1", Amount: core.Money{Cents: 10000}, Date: core.NewDate(2025, 6, 1)},
			{ID: "c2", Amount: core.Money{Cents: 5000}, Date: core.NewDate(2025, 6, 28)},
			{ID: "c3", Amount: core.Money{Cents: 7000}, Date: core.NewDate(2025, 7, 1)},
		},
	}
	if got := MonthlyImpact(g, core.MonthKey("2025-06")).Cents; got != 15000 {
		t.Fatalf("expected 15000, got %d", got)
	}
	if got := MonthlyImpact(g, core.MonthKey("2025-08")).Cents; got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := TotalMonthlyImpact([]core.SavingsGoal{g, g}, core.MonthKey("2025-07")).Cents; got != 14000 {
		t.Fatalf("expected 14000, got %d", got)
	}
}
