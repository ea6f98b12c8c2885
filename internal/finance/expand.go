// Package finance implements the computation core: recurrence expansion,
// period aggregation, due-date classification and the savings goal ledger.
//
// Everything in this package is pure and synchronous. Functions receive a
// fully materialized snapshot of stored records plus an explicit "today"
// and return derived values; no I/O originates here.
package finance

import (
	"fmt"
	"sort"

	"contas/internal/core"
)

// Stepper is the strategy interface for advancing a recurring series by
// one period. Each recurrence frequency has its own implementation.
type Stepper interface {
	// Next returns the occurrence date one period after d.
	Next(d core.Date) core.Date
}

// WeeklyStepper advances by seven calendar days.
type WeeklyStepper struct{}

func (WeeklyStepper) Next(d core.Date) core.Date { return d.AddDays(7) }

// MonthlyStepper advances by one calendar month. A day-31 anchor stepped
// into a shorter month rolls over per time.AddDate; that is the accepted
// series behavior.
type MonthlyStepper struct{}

func (MonthlyStepper) Next(d core.Date) core.Date { return d.AddMonths(1) }

// YearlyStepper advances by one calendar year, with the same rollover for
// February 29th anchors.
type YearlyStepper struct{}

func (YearlyStepper) Next(d core.Date) core.Date { return d.AddYears(1) }

// steppers maps recurrence frequencies to their strategies.
var steppers = map[core.Recurrence]Stepper{
	core.Weekly:  WeeklyStepper{},
	core.Monthly: MonthlyStepper{},
	core.Yearly:  YearlyStepper{},
}

// GetStepper returns the stepper for a recurrence frequency, or an error
// for frequencies that do not describe a series.
func GetStepper(r core.Recurrence) (Stepper, error) {
	s, ok := steppers[r]
	if !ok {
		return nil, fmt.Errorf("unknown recurrence: %s", r)
	}
	return s, nil
}

// maxOccurrences bounds a single expansion. Realistic windows produce a
// handful of occurrences; the cap only guards against degenerate ranges.
const maxOccurrences = 10000

// OccurrenceID derives the synthetic id of a non-first occurrence. The
// derivation is deterministic so repeated expansions over the same window
// are idempotent.
func OccurrenceID(templateID string, d core.Date) string {
	return fmt.Sprintf("%s-%d", templateID, d.UnixMilli())
}

// Expand produces the ordered occurrences of one template falling inside
// [rangeStart, rangeEnd] inclusive.
//
// currentPeriodOnly selects the payment-status policy for expense
// occurrences: dashboard aggregation restricted to one month keeps the
// template's paid flag on the first occurrence only, while calendar-style
// multi-month views additionally require the first occurrence to fall in
// today's month. All later occurrences are unpaid until the user confirms
// payment for that period. Income occurrences are always paid.
func Expand(tpl core.Transaction, rangeStart, rangeEnd core.Date, currentPeriodOnly bool, today core.Date) []core.Transaction {
	if rangeEnd.Before(rangeStart) {
		return nil
	}

	if !tpl.IsRecurring() {
		d := tpl.EffectiveDate()
		if d.Before(rangeStart) || d.After(rangeEnd) {
			return nil
		}
		return []core.Transaction{tpl}
	}

	stepper, err := GetStepper(tpl.Recurrence)
	if err != nil {
		// Unknown frequency on a stored record: treat as one-off.
		d := tpl.EffectiveDate()
		if d.Before(rangeStart) || d.After(rangeEnd) {
			return nil
		}
		return []core.Transaction{tpl}
	}

	var out []core.Transaction
	d := tpl.AnchorDate()
	for i := 0; !d.After(rangeEnd) && i < maxOccurrences; i++ {
		if !d.Before(rangeStart) {
			out = append(out, makeOccurrence(tpl, d, i == 0, currentPeriodOnly, today))
		}
		next := stepper.Next(d)
		if !next.After(d) {
			break
		}
		d = next
	}
	return out
}

// makeOccurrence copies the template, rewrites its date fields to the
// occurrence date and applies the payment-status policy. first marks the
// chronologically first occurrence of the series (the anchor), which is
// the only one that keeps the template's own id.
func makeOccurrence(tpl core.Transaction, d core.Date, first, currentPeriodOnly bool, today core.Date) core.Transaction {
	occ := tpl
	occ.Date = d
	if !tpl.DueDate.IsEmpty() {
		occ.DueDate = d
	}
	if !first {
		occ.ID = OccurrenceID(tpl.ID, d)
	}

	switch {
	case tpl.Kind == core.Income:
		occ.IsPaid = true
	case currentPeriodOnly:
		occ.IsPaid = first && tpl.IsPaid
	default:
		occ.IsPaid = first && d.SameMonth(today) && tpl.IsPaid
	}
	return occ
}

// ExpandAll merges the expansions of every template over one window,
// sorted by occurrence date (then id, for a deterministic order).
func ExpandAll(templates []core.Transaction, rangeStart, rangeEnd core.Date, currentPeriodOnly bool, today core.Date) []core.Transaction {
	var out []core.Transaction
	for _, tpl := range templates {
		out = append(out, Expand(tpl, rangeStart, rangeEnd, currentPeriodOnly, today)...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].EffectiveDate(), out[j].EffectiveDate()
		if !di.SameDay(dj) {
			return di.Before(dj)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
