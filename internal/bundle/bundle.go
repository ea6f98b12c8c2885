// Package bundle validates and migrates externally supplied JSON export
// bundles before their records enter the ledger.
package bundle

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"contas/internal/core"
)

// Version is written into every exported bundle.
const Version = "1.0"

// Bundle is the import/export envelope.
type Bundle struct {
	Transactions []core.Transaction `json:"transactions"`
	SavingsGoals []core.SavingsGoal `json:"savingsGoals"`
	ExportDate   time.Time          `json:"exportDate"`
	Version      string             `json:"version"`
}

// MalformedInputError means the payload is not parseable JSON at all.
type MalformedInputError struct {
	Err error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input: %v", e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// SchemaError means the JSON parsed but a field or record has the wrong
// shape. Validation fails fast: the first violation is reported, naming
// the offending field and record.
type SchemaError struct {
	Field  string
	Record string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Record != "" {
		return fmt.Sprintf("schema error in %s (record %s): %s", e.Field, e.Record, e.Reason)
	}
	return fmt.Sprintf("schema error in %s: %s", e.Field, e.Reason)
}

// Validate parses a bundle and migrates legacy records to the current
// shape. today dates contributions synthesized for legacy goals that
// carried only a currentAmount; those migrated contributions lose their
// original dates, a known limitation of the legacy format.
func Validate(data []byte, today core.Date) (*Bundle, error) {
	var raw struct {
		Transactions *json.RawMessage `json:"transactions"`
		SavingsGoals *json.RawMessage `json:"savingsGoals"`
		ExportDate   time.Time        `json:"exportDate"`
		Version      string           `json:"version"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &MalformedInputError{Err: err}
	}
	if raw.Transactions == nil {
		return nil, &SchemaError{Field: "transactions", Reason: "missing"}
	}
	if raw.SavingsGoals == nil {
		return nil, &SchemaError{Field: "savingsGoals", Reason: "missing"}
	}

	var transactions []core.Transaction
	if err := json.Unmarshal(*raw.Transactions, &transactions); err != nil {
		return nil, &SchemaError{Field: "transactions", Reason: "not a sequence of transaction records"}
	}
	for _, t := range transactions {
		if err := validateTransaction(t); err != nil {
			return nil, err
		}
	}

	var rawGoals []json.RawMessage
	if err := json.Unmarshal(*raw.SavingsGoals, &rawGoals); err != nil {
		return nil, &SchemaError{Field: "savingsGoals", Reason: "not a sequence of goal records"}
	}
	goals := make([]core.SavingsGoal, 0, len(rawGoals))
	for _, rg := range rawGoals {
		goal, err := validateGoal(rg, today)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}

	return &Bundle{
		Transactions: transactions,
		SavingsGoals: goals,
		ExportDate:   raw.ExportDate,
		Version:      raw.Version,
	}, nil
}

func validateTransaction(t core.Transaction) error {
	if t.ID == "" {
		return &SchemaError{Field: "transactions", Record: t.Description, Reason: "empty id"}
	}
	if !t.Kind.Valid() {
		return &SchemaError{Field: "transactions", Record: t.ID, Reason: fmt.Sprintf("invalid kind %q", t.Kind)}
	}
	if t.Amount.Cents <= 0 {
		return &SchemaError{Field: "transactions", Record: t.ID, Reason: "amount must be positive"}
	}
	if t.Description == "" {
		return &SchemaError{Field: "transactions", Record: t.ID, Reason: "empty description"}
	}
	return nil
}

func validateGoal(data json.RawMessage, today core.Date) (core.SavingsGoal, error) {
	// Contributions is a pointer so a legacy record (field absent) is
	// distinguishable from an explicit empty list.
	var rg struct {
		core.SavingsGoal
		Contributions *[]core.SavingsContribution `json:"contributions"`
	}
	if err := json.Unmarshal(data, &rg); err != nil {
		return core.SavingsGoal{}, &SchemaError{Field: "savingsGoals", Reason: "not a goal record"}
	}
	goal := rg.SavingsGoal
	if goal.ID == "" {
		return core.SavingsGoal{}, &SchemaError{Field: "savingsGoals", Record: goal.Name, Reason: "empty id"}
	}
	if goal.Name == "" {
		return core.SavingsGoal{}, &SchemaError{Field: "savingsGoals", Record: goal.ID, Reason: "empty name"}
	}
	if goal.TargetAmount.Cents <= 0 {
		return core.SavingsGoal{}, &SchemaError{Field: "savingsGoals", Record: goal.ID, Reason: "targetAmount must be positive"}
	}

	switch {
	case rg.Contributions != nil:
		goal.Contributions = *rg.Contributions
		// The cached aggregate is advisory; the contribution list is
		// authoritative.
		recompute(&goal)
	case goal.CurrentAmount.Cents > 0:
		// Legacy shape: only a running total survived. Synthesize one
		// contribution for it, dated today. The original contribution
		// dates are lost; this migration is lossy by design of the
		// legacy format.
		goal.Contributions = []core.SavingsContribution{{
			ID:        uuid.NewString(),
			Amount:    goal.CurrentAmount,
			Date:      today,
			CreatedAt: time.Now().UTC(),
		}}
	default:
		goal.Contributions = []core.SavingsContribution{}
	}
	return goal, nil
}

func recompute(g *core.SavingsGoal) {
	var total core.Money
	for _, c := range g.Contributions {
		total = total.Add(c.Amount)
	}
	g.CurrentAmount = total
}

// Export renders the current ledger as a bundle.
func Export(transactions []core.Transaction, goals []core.SavingsGoal, now time.Time) ([]byte, error) {
	if transactions == nil {
		transactions = []core.Transaction{}
	}
	if goals == nil {
		goals = []core.SavingsGoal{}
	}
	b := Bundle{
		Transactions: transactions,
		SavingsGoals: goals,
		ExportDate:   now.UTC(),
		Version:      Version,
	}
	out, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal bundle: %w", err)
	}
	return out, nil
}
