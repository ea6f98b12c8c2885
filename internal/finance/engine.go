package finance

import (
	"contas/internal/clock"
	"contas/internal/core"
)

// Engine binds the pure computation functions to an injected clock so
// callers (HTTP handlers, workers) never reach for the system time.
type Engine struct {
	clock clock.Clock
}

func NewEngine(c clock.Clock) *Engine {
	return &Engine{clock: c}
}

// MonthReport is the dashboard summary for one calendar month.
type MonthReport struct {
	Year            int                `json:"year"`
	Month           int                `json:"month"`
	Occurrences     []core.Transaction `json:"occurrences"`
	Income          core.Money         `json:"income"`
	PaidExpenses    core.Money         `json:"paidExpenses"`
	PendingExpenses core.Money         `json:"pendingExpenses"`
	Balance         core.Money         `json:"balance"`
	GoalImpact      core.Money         `json:"goalImpact"`
	AdjustedBalance core.Money         `json:"adjustedBalance"`
	ByCategory      []CategoryShare    `json:"byCategory"`
}

// MonthReport expands all templates into the given month (single-month
// payment policy) and aggregates the result. The balance here is the
// month's own net, not the cumulative chain; the adjusted figure
// subtracts the month's goal contributions.
func (e *Engine) MonthReport(templates []core.Transaction, goals []core.SavingsGoal, year, month int) MonthReport {
	today := e.clock.Today()
	start := core.NewDate(year, month, 1)
	occs := ExpandAll(templates, start, start.MonthEnd(), true, today)

	income := SumByKind(occs, core.Income, false)
	paid := SumByKind(occs, core.Expense, true)
	pending := SumByKind(occs, core.Expense, false).Sub(paid)
	balance := income.Sub(paid)
	impact := TotalMonthlyImpact(goals, start.Key())

	return MonthReport{
		Year:            year,
		Month:           month,
		Occurrences:     occs,
		Income:          income,
		PaidExpenses:    paid,
		PendingExpenses: pending,
		Balance:         balance,
		GoalImpact:      impact,
		AdjustedBalance: balance.Sub(impact),
		ByCategory:      CategoryBreakdown(occs),
	}
}

// Balances returns the cumulative monthly balance chain.
func (e *Engine) Balances(templates []core.Transaction, goals []core.SavingsGoal) []MonthlyBalance {
	return MonthlyBalances(templates, goals, e.clock.Today())
}

// Calendar expands templates over an arbitrary window with the
// multi-month payment policy used by calendar views.
func (e *Engine) Calendar(templates []core.Transaction, from, to core.Date) []core.Transaction {
	return ExpandAll(templates, from, to, false, e.clock.Today())
}

// PendingPayments expands the window from the earliest overdue horizon
// through the due-soon window and buckets the pending expenses.
func (e *Engine) PendingPayments(templates []core.Transaction) PendingGroups {
	today := e.clock.Today()
	// A year back is far enough to surface any realistically overdue
	// recurring occurrence without walking unbounded history.
	occs := ExpandAll(templates, today.AddDays(-365), today.AddDays(dueSoonWindow), false, today)
	return BucketPending(occs, today)
}

// Today exposes the engine's calendar day for handlers that classify
// single transactions.
func (e *Engine) Today() core.Date {
	return e.clock.Today()
}
