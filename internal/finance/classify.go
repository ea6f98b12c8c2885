package finance

import (
	"sort"

	"contas/internal/core"
)

const (
	StatusNotApplicable DueStatus = "not-applicable"
	StatusOverdue       DueStatus = "overdue"
	StatusDueToday      DueStatus = "due-today"
	StatusDueTomorrow   DueStatus = "due-tomorrow"
	StatusDueInDays     DueStatus = "due-in-days"
)

type (
	DueStatus string

	// DueClassification reports how urgent a pending expense is.
	// DaysUntilDue is meaningful for every status except not-applicable
	// and is negative for overdue transactions.
	DueClassification struct {
		Status       DueStatus `json:"status"`
		DaysUntilDue int       `json:"daysUntilDue"`
	}

	// PendingGroups buckets pending expenses for the payments list, each
	// group sorted ascending by due date.
	PendingGroups struct {
		Overdue []core.Transaction `json:"overdue"`
		DueSoon []core.Transaction `json:"dueSoon"`
	}
)

// Classify reports the due status of a transaction relative to today.
// Paid transactions, income and expenses without a due date are not
// classified.
func Classify(t core.Transaction, today core.Date) DueClassification {
	if t.IsPaid || t.Kind != core.Expense || t.DueDate.IsEmpty() {
		return DueClassification{Status: StatusNotApplicable}
	}
	days := core.DaysBetween(today, t.DueDate)
	c := DueClassification{DaysUntilDue: days}
	switch {
	case days < 0:
		c.Status = StatusOverdue
	case days == 0:
		c.Status = StatusDueToday
	case days == 1:
		c.Status = StatusDueTomorrow
	default:
		c.Status = StatusDueInDays
	}
	return c
}

// dueSoonWindow is the classifier's "due within N days" horizon.
const dueSoonWindow = 7

// BucketPending splits pending expense occurrences into overdue and
// due-within-seven-days groups. Occurrences that are paid, not expenses
// or due further out are dropped.
func BucketPending(occurrences []core.Transaction, today core.Date) PendingGroups {
	var groups PendingGroups
	for _, t := range occurrences {
		c := Classify(t, today)
		switch {
		case c.Status == StatusOverdue:
			groups.Overdue = append(groups.Overdue, t)
		case c.Status != StatusNotApplicable && c.DaysUntilDue <= dueSoonWindow:
			groups.DueSoon = append(groups.DueSoon, t)
		}
	}
	byDueDate := func(list []core.Transaction) func(i, j int) bool {
		return func(i, j int) bool { return list[i].DueDate.Before(list[j].DueDate) }
	}
	sort.SliceStable(groups.Overdue, byDueDate(groups.Overdue))
	sort.SliceStable(groups.DueSoon, byDueDate(groups.DueSoon))
	return groups
}
