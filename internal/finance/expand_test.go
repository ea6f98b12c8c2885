package finance

import (
	"testing"

	"contas/internal/core"
)

func weeklyRent() core.Transaction {
	return core.Transaction{
		ID:          "rent",
		Kind:        core.Expense,
		Amount:      core.Money{Cents: 10000},
		Description: "Rent",
		Category:    "Housing",
		Date:        core.NewDate(2025, 3, 3),
		DueDate:     core.NewDate(2025, 3, 3),
		Recurrence:  core.Weekly,
	}
}

func TestExpandWeekly(t *testing.T) {
	today := core.NewDate(2025, 3, 10)
	occs := Expand(weeklyRent(), core.NewDate(2025, 3, 1), core.NewDate(2025, 3, 31), true, today)

	wantDays := []int{3, 10, 17, 24, 31}
	if len(occs) != len(wantDays) {
		t.Fatalf("expected %d occurrences, got %d", len(wantDays), len(occs))
	}
	for i, day := range wantDays {
		want := core.NewDate(2025, 3, day)
		if !occs[i].Date.SameDay(want) {
			t.Fatalf("occurrence %d: expected %s, got %s", i, want, occs[i].Date)
		}
		if !occs[i].DueDate.SameDay(want) {
			t.Fatalf("occurrence %d: due date not rewritten, got %s", i, occs[i].DueDate)
		}
	}

	// Only the anchor occurrence keeps the template id.
	if occs[0].ID != "rent" {
		t.Fatalf("first occurrence should keep template id, got %q", occs[0].ID)
	}
	for _, occ := range occs[1:] {
		if occ.ID == "rent" {
			t.Fatal("later occurrence reused the template id")
		}
	}
}

func TestExpandIdempotent(t *testing.T) {
	today := core.NewDate(2025, 3, 10)
	first := Expand(weeklyRent(), core.NewDate(2025, 3, 1), core.NewDate(2025, 3, 31), true, today)
	second := Expand(weeklyRent(), core.NewDate(2025, 3, 1), core.NewDate(2025, 3, 31), true, today)
	if len(first) != len(second) {
		t.Fatalf("expansion count changed: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("occurrence %d: id changed between expansions (%q vs %q)", i, first[i].ID, second[i].ID)
		}
	}
}

func TestExpandPaymentStatusCalendarContext(t *testing.T) {
	// A monthly expense anchored on January 15th and already paid for
	// January. In a multi-month view only the first occurrence, and only
	// while January is still the current month, shows as paid.
	tpl := core.Transaction{
		ID:          "gym",
		Kind:        core.Expense,
		Amount:      core.Money{Cents: 8000},
		Description: "Gym",
		Date:        core.NewDate(2025, 1, 15),
		DueDate:     core.NewDate(2025, 1, 15),
		IsPaid:      true,
		Recurrence:  core.Monthly,
	}
	today := core.NewDate(2025, 1, 20)
	occs := Expand(tpl, core.NewDate(2025, 1, 1), core.NewDate(2025, 4, 30), false, today)

	if len(occs) != 4 {
		t.Fatalf("expected 4 occurrences, got %d", len(occs))
	}
	if !occs[0].IsPaid {
		t.Fatal("January occurrence should keep the paid flag")
	}
	for i, occ := range occs[1:] {
		if occ.IsPaid {
			t.Fatalf("occurrence %d should be unpaid until confirmed", i+1)
		}
	}

	// Once today has moved past January the anchor no longer reads as
	// paid in calendar context either.
	later := Expand(tpl, core.NewDate(2025, 1, 1), core.NewDate(2025, 4, 30), false, core.NewDate(2025, 2, 5))
	if later[0].IsPaid {
		t.Fatal("anchor should not read as paid outside its month")
	}
}

func TestExpandPaymentStatusCurrentPeriodOnly(t *testing.T) {
	tpl := weeklyRent()
	tpl.IsPaid = true
	// Single-month aggregation keeps the anchor's paid flag regardless of
	// which month today falls in.
	occs := Expand(tpl, core.NewDate(2025, 3, 1), core.NewDate(2025, 3, 31), true, core.NewDate(2025, 6, 1))
	if !occs[0].IsPaid {
		t.Fatal("anchor should keep the paid flag in single-period context")
	}
	for _, occ := range occs[1:] {
		if occ.IsPaid {
			t.Fatal("later occurrences must start unpaid")
		}
	}
}

func TestExpandIncomeAlwaysPaid(t *testing.T) {
	tpl := core.Transaction{
		ID:          "salary",
		Kind:        core.Income,
		Amount:      core.Money{Cents: 300000},
		Description: "Salary",
		Date:        core.NewDate(2025, 1, 5),
		Recurrence:  core.Monthly,
	}
	occs := Expand(tpl, core.NewDate(2025, 1, 1), core.NewDate(2025, 3, 31), false, core.NewDate(2025, 2, 1))
	if len(occs) != 3 {
		t.Fatalf("expected 3 occurrences, got %d", len(occs))
	}
	for i, occ := range occs {
		if !occ.IsPaid {
			t.Fatalf("income occurrence %d should be paid", i)
		}
	}
}

func TestExpandMonthlyRollover(t *testing.T) {
	tpl := core.Transaction{
		ID:          "card",
		Kind:        core.Expense,
		Amount:      core.Money{Cents: 150000},
		Description: "Card bill",
		Date:        core.NewDate(2025, 1, 31),
		DueDate:     core.NewDate(2025, 1, 31),
		Recurrence:  core.Monthly,
	}
	occs := Expand(tpl, core.NewDate(2025, 1, 1), core.NewDate(2025, 3, 31), true, core.NewDate(2025, 1, 31))
	// Jan 31 + one month lands on Mar 3: February is skipped by the
	// calendar rollover.
	if len(occs) != 2 {
		t.Fatalf("expected 2 occurrences, got %d", len(occs))
	}
	if !occs[1].Date.SameDay(core.NewDate(2025, 3, 3)) {
		t.Fatalf("expected rollover to 2025-03-03, got %s", occs[1].Date)
	}
}

func TestExpandNonRecurring(t *testing.T) {
	tpl := core.Transaction{
		ID:          "dentist",
		Kind:        core.Expense,
		Amount:      core.Money{Cents: 20000},
		Description: "Dentist",
		Date:        core.NewDate(2025, 5, 2),
		DueDate:     core.NewDate(2025, 5, 20),
		Recurrence:  core.None,
	}
	today := core.NewDate(2025, 5, 10)

	// A pending expense counts against its due date.
	if occs := Expand(tpl, core.NewDate(2025, 5, 15), core.NewDate(2025, 5, 31), true, today); len(occs) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(occs))
	}
	if occs := Expand(tpl, core.NewDate(2025, 6, 1), core.NewDate(2025, 6, 30), true, today); len(occs) != 0 {
		t.Fatalf("expected no occurrences outside the window, got %d", len(occs))
	}
	// Inverted windows expand to nothing.
	if occs := Expand(tpl, core.NewDate(2025, 5, 31), core.NewDate(2025, 5, 1), true, today); occs != nil {
		t.Fatalf("expected nil for inverted window, got %d occurrences", len(occs))
	}
}

func TestExpandAllOrdering(t *testing.T) {
	today := core.NewDate(2025, 3, 1)
	templates := []core.Transaction{
		weeklyRent(),
		{
			ID:          "salary",
			Kind:        core.Income,
			Amount:      core.Money{Cents: 300000},
			Description: "Salary",
			Date:        core.NewDate(2025, 3, 5),
			Recurrence:  core.None,
		},
	}
	occs := ExpandAll(templates, core.NewDate(2025, 3, 1), core.NewDate(2025, 3, 31), true, today)
	for i := 1; i < len(occs); i++ {
		prev, cur := occs[i-1].EffectiveDate(), occs[i].EffectiveDate()
		if cur.Before(prev) {
			t.Fatalf("occurrences out of order at %d: %s after %s", i, cur, prev)
		}
	}
}

func TestGetStepper(t *testing.T) {
	for _, r := range []core.Recurrence{core.Weekly, core.Monthly, core.Yearly} {
		if _, err := GetStepper(r); err != nil {
			t.Fatalf("%s: unexpected error: %v", r, err)
		}
	}
	if _, err := GetStepper(core.None); err == nil {
		t.Fatal("expected error for non-series recurrence")
	}
}
