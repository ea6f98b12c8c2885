package finance

import (
	"sort"

	"contas/internal/core"
)

// MonthlyBalance is the derived per-month summary. Balance is cumulative:
// each month folds the previous month's balance in as its carry-over.
type MonthlyBalance struct {
	MonthKey              core.MonthKey `json:"monthKey"`
	Income                core.Money    `json:"income"`
	Expenses              core.Money    `json:"expenses"`
	Balance               core.Money    `json:"balance"`
	RemainingFromPrevious core.Money    `json:"remainingBalanceFromPreviousMonth"`
	GoalImpact            core.Money    `json:"goalImpact"`
	AdjustedBalance       core.Money    `json:"adjustedBalance"`
}

// CategoryShare is one slice of the paid-expense breakdown for a period.
type CategoryShare struct {
	Category   string     `json:"category"`
	Amount     core.Money `json:"amount"`
	Percentage float64    `json:"percentage"`
	Color      string     `json:"color"`
}

// categoryPalette cycles when a period has more categories than colors.
var categoryPalette = []string{
	"#ef4444", "#f97316", "#eab308", "#22c55e",
	"#14b8a6", "#3b82f6", "#8b5cf6", "#ec4899",
}

// SumByKind filters occurrences by kind (and optionally by paid status)
// and sums their amounts. Empty sets sum to zero, never an error.
func SumByKind(occurrences []core.Transaction, kind core.TransactionKind, paidOnly bool) core.Money {
	var total core.Money
	for _, t := range occurrences {
		if t.Kind != kind {
			continue
		}
		if paidOnly && !t.IsPaid {
			continue
		}
		total = total.Add(t.Amount)
	}
	return total
}

// MonthlyBalances walks every month from the earliest template date to the
// later of today and the latest stored date, expands the templates inside
// each month (single-month payment policy) and folds the net of months
// that saw at least one paid transaction into a running balance chain.
// Goal contributions dated inside a month reduce that month's displayed
// balance; the fold itself runs on the raw balance.
func MonthlyBalances(templates []core.Transaction, goals []core.SavingsGoal, today core.Date) []MonthlyBalance {
	first, last, ok := monthSpan(templates, today)
	if !ok {
		return nil
	}

	var out []MonthlyBalance
	var carry core.Money
	for m := first; !m.After(last); m = m.AddMonths(1) {
		occs := ExpandAll(templates, m.MonthStart(), m.MonthEnd(), true, today)
		if !anyPaid(occs) {
			continue
		}
		income := SumByKind(occs, core.Income, false)
		expenses := SumByKind(occs, core.Expense, true)
		balance := carry.Add(income).Sub(expenses)
		impact := TotalMonthlyImpact(goals, m.Key())
		out = append(out, MonthlyBalance{
			MonthKey:              m.Key(),
			Income:                income,
			Expenses:              expenses,
			Balance:               balance,
			RemainingFromPrevious: carry,
			GoalImpact:            impact,
			AdjustedBalance:       balance.Sub(impact),
		})
		carry = balance
	}
	return out
}

// monthSpan returns the first days of the earliest and latest months the
// balance chain must visit. ok is false when there are no templates.
func monthSpan(templates []core.Transaction, today core.Date) (first, last core.Date, ok bool) {
	if len(templates) == 0 {
		return core.Date{}, core.Date{}, false
	}
	first = templates[0].AnchorDate()
	last = today
	for _, t := range templates {
		if d := t.AnchorDate(); d.Before(first) {
			first = d
		}
		if d := t.EffectiveDate(); d.After(last) {
			last = d
		}
	}
	return first.MonthStart(), last.MonthStart(), true
}

func anyPaid(occurrences []core.Transaction) bool {
	for _, t := range occurrences {
		if t.IsPaid {
			return true
		}
	}
	return false
}

// CategoryBreakdown groups paid expenses by category, sorted by
// descending amount (insertion order breaks ties), each with its share of
// the period's total and a palette color. An empty or all-pending input
// yields an empty breakdown.
func CategoryBreakdown(occurrences []core.Transaction) []CategoryShare {
	sums := make(map[string]core.Money)
	var order []string
	for _, t := range occurrences {
		if t.Kind != core.Expense || !t.IsPaid {
			continue
		}
		if _, seen := sums[t.Category]; !seen {
			order = append(order, t.Category)
		}
		sums[t.Category] = sums[t.Category].Add(t.Amount)
	}
	if len(order) == 0 {
		return nil
	}

	shares := make([]CategoryShare, 0, len(order))
	var total core.Money
	for _, name := range order {
		shares = append(shares, CategoryShare{Category: name, Amount: sums[name]})
		total = total.Add(sums[name])
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Amount.Cents > shares[j].Amount.Cents
	})
	for i := range shares {
		if total.Cents > 0 {
			shares[i].Percentage = float64(shares[i].Amount.Cents) / float64(total.Cents) * 100
		}
		shares[i].Color = categoryPalette[i%len(categoryPalette)]
	}
	return shares
}
