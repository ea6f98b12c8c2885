package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionKind = "income"
	Expense TransactionKind = "expense"
)

const (
	None    Recurrence = "none"
	Weekly  Recurrence = "weekly"
	Monthly Recurrence = "monthly"
	Yearly  Recurrence = "yearly"
)

type (
	TransactionKind string

	Recurrence string

	// Transaction is the stored record. For a recurring series it is the
	// template; occurrences are computed on demand and never persisted.
	Transaction struct {
		ID          string          `json:"id"`
		Kind        TransactionKind `json:"kind"`
		Amount      Money           `json:"amount"`
		Description string          `json:"description"`
		Category    string          `json:"category"`
		Date        Date            `json:"transactionDate"`
		DueDate     Date            `json:"dueDate,omitempty"`
		IsPaid      bool            `json:"isPaid"`
		Recurrence  Recurrence      `json:"recurrence"`
		CreatedAt   time.Time       `json:"createdAt"`
	}

	SavingsGoal struct {
		ID            string                `json:"id"`
		Name          string                `json:"name"`
		TargetAmount  Money                 `json:"targetAmount"`
		CurrentAmount Money                 `json:"currentAmount"`
		Deadline      Date                  `json:"deadline,omitempty"`
		Contributions []SavingsContribution `json:"contributions"`
		CreatedAt     time.Time             `json:"createdAt"`
	}

	SavingsContribution struct {
		ID        string    `json:"id"`
		Amount    Money     `json:"amount"`
		Date      Date      `json:"date"`
		CreatedAt time.Time `json:"createdAt"`
	}

	ShoppingItem struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Quantity  int       `json:"quantity"`
		Purchased bool      `json:"purchased"`
		CreatedAt time.Time `json:"createdAt"`
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyDescription  = errors.New("empty description")
	ErrEmptyName         = errors.New("empty name")
	ErrInvalidKind       = errors.New("invalid transaction kind")
	ErrInvalidRecurrence = errors.New("invalid recurrence")
	ErrMissingDueDate    = errors.New("pending expense requires a due date")
	ErrInvalidTarget     = errors.New("target amount must be positive")
	ErrNotFound          = errors.New("not found")
)

func (k TransactionKind) Valid() bool {
	return k == Income || k == Expense
}

func (r Recurrence) Valid() bool {
	switch r {
	case None, Weekly, Monthly, Yearly:
		return true
	default:
		return false
	}
}

// IsRecurring reports whether the transaction is the template of a series.
func (t Transaction) IsRecurring() bool {
	return t.Recurrence != "" && t.Recurrence != None
}

// AnchorDate is the date a recurring series steps from: the due date for an
// expense that has one, otherwise the transaction date.
func (t Transaction) AnchorDate() Date {
	if t.Kind == Expense && !t.DueDate.IsEmpty() {
		return t.DueDate
	}
	return t.Date
}

// EffectiveDate is the date a one-off transaction counts against: the due
// date for a pending expense, otherwise the transaction date.
func (t Transaction) EffectiveDate() Date {
	if t.Kind == Expense && !t.IsPaid && !t.DueDate.IsEmpty() {
		return t.DueDate
	}
	return t.Date
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("empty transaction id")
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if t.Date.IsEmpty() {
		return errors.New("missing transaction date")
	}
	if t.Recurrence != "" && !t.Recurrence.Valid() {
		return ErrInvalidRecurrence
	}
	// Enforced at creation only; downstream code trusts stored records.
	if t.Kind == Expense && !t.IsPaid && t.DueDate.IsEmpty() {
		return ErrMissingDueDate
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return errors.New("empty goal id")
	}
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if g.TargetAmount.Cents <= 0 {
		return ErrInvalidTarget
	}
	if g.CurrentAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	for _, c := range g.Contributions {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c SavingsContribution) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("empty contribution id")
	}
	if err := c.Amount.Validate(); err != nil {
		return err
	}
	if c.Date.IsEmpty() {
		return errors.New("missing contribution date")
	}
	return nil
}

func (i ShoppingItem) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if i.Quantity < 1 {
		return errors.New("quantity must be at least 1")
	}
	return nil
}
