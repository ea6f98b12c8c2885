package finance

import (
	"fmt"

	"contas/internal/core"
)

// The goal ledger keeps one invariant: a goal's currentAmount always
// equals the sum of its contributions' amounts. Every mutation below
// adjusts the aggregate by the exact delta; RecomputeCurrentAmount
// rebuilds it from scratch when the cached value is suspect (for example
// after concurrent edits at the storage layer).

// AddContribution appends a contribution and grows the goal's current
// amount. Non-positive amounts are rejected, never clamped.
func AddContribution(g *core.SavingsGoal, c core.SavingsContribution) error {
	if c.Amount.Cents <= 0 {
		return core.ErrInvalidAmount
	}
	if c.Date.IsEmpty() {
		return fmt.Errorf("contribution %s: missing date", c.ID)
	}
	g.Contributions = append(g.Contributions, c)
	g.CurrentAmount = g.CurrentAmount.Add(c.Amount)
	return nil
}

// UpdateContribution replaces a contribution's amount and date, moving
// the goal's current amount by the amount delta.
func UpdateContribution(g *core.SavingsGoal, contributionID string, newAmount core.Money, newDate core.Date) error {
	if newAmount.Cents <= 0 {
		return core.ErrInvalidAmount
	}
	for i := range g.Contributions {
		if g.Contributions[i].ID != contributionID {
			continue
		}
		old := g.Contributions[i].Amount
		g.Contributions[i].Amount = newAmount
		if !newDate.IsEmpty() {
			g.Contributions[i].Date = newDate
		}
		g.CurrentAmount = g.CurrentAmount.Sub(old).Add(newAmount)
		return nil
	}
	return fmt.Errorf("contribution %s: %w", contributionID, core.ErrNotFound)
}

// DeleteContribution removes a contribution and shrinks the goal's
// current amount by its value.
func DeleteContribution(g *core.SavingsGoal, contributionID string) error {
	for i := range g.Contributions {
		if g.Contributions[i].ID != contributionID {
			continue
		}
		g.CurrentAmount = g.CurrentAmount.Sub(g.Contributions[i].Amount)
		g.Contributions = append(g.Contributions[:i], g.Contributions[i+1:]...)
		return nil
	}
	return fmt.Errorf("contribution %s: %w", contributionID, core.ErrNotFound)
}

// RecomputeCurrentAmount rebuilds the aggregate from the authoritative
// contribution list.
func RecomputeCurrentAmount(g *core.SavingsGoal) {
	var total core.Money
	for _, c := range g.Contributions {
		total = total.Add(c.Amount)
	}
	g.CurrentAmount = total
}

// MonthlyImpact sums the goal's contributions dated within one calendar
// month. The caller subtracts it from that month's displayed balance.
func MonthlyImpact(g core.SavingsGoal, month core.MonthKey) core.Money {
	var total core.Money
	for _, c := range g.Contributions {
		if c.Date.Key() == month {
			total = total.Add(c.Amount)
		}
	}
	return total
}

// TotalMonthlyImpact sums MonthlyImpact across all goals.
func TotalMonthlyImpact(goals []core.SavingsGoal, month core.MonthKey) core.Money {
	var total core.Money
	for _, g := range goals {
		total = total.Add(MonthlyImpact(g, month))
	}
	return total
}
