package bundle

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"contas/internal/core"
)

var today = core.NewDate(2025, 6, 10)

func TestValidateMalformedInput(t *testing.T) {
	for _, in := range []string{"", "{", "not json at all"} {
		_, err := Validate([]byte(in), today)
		var malformed *MalformedInputError
		if !errors.As(err, &malformed) {
			t.Fatalf("%q: expected MalformedInputError, got %v", in, err)
		}
	}
}

func TestValidateMissingSections(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		field string
	}{
		{"no transactions", `{"savingsGoals": []}`, "transactions"},
		{"no goals", `{"transactions": []}`, "savingsGoals"},
		{"transactions not a list", `{"transactions": {}, "savingsGoals": []}`, "transactions"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate([]byte(tc.in), today)
			var schema *SchemaError
			if !errors.As(err, &schema) {
				t.Fatalf("expected SchemaError, got %v", err)
			}
			if schema.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, schema.Field)
			}
		})
	}
}

func TestValidateRecordChecks(t *testing.T) {
	base := func(tx string) string {
		return `{"transactions": [` + tx + `], "savingsGoals": []}`
	}
	cases := []struct {
		name   string
		tx     string
		reason string
	}{
		{"empty id", `{"id": "", "kind": "expense", "amount": 10, "description": "x"}`, "empty id"},
		{"bad kind", `{"id": "t1", "kind": "transfer", "amount": 10, "description": "x"}`, "invalid kind"},
		{"zero amount", `{"id": "t1", "kind": "expense", "amount": 0, "description": "x"}`, "amount must be positive"},
		{"empty description", `{"id": "t1", "kind": "expense", "amount": 10, "description": ""}`, "empty description"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate([]byte(base(tc.tx)), today)
			var schema *SchemaError
			if !errors.As(err, &schema) {
				t.Fatalf("expected SchemaError, got %v", err)
			}
			if !strings.Contains(schema.Reason, tc.reason) {
				t.Fatalf("expected reason containing %q, got %q", tc.reason, schema.Reason)
			}
		})
	}
}

func TestValidateAcceptsGoodBundle(t *testing.T) {
	in := `{
		"transactions": [
			{"id": "t1", "kind": "expense", "amount": 50.00, "description": "Internet",
			 "transactionDate": "2025-06-01", "dueDate": "2025-06-10", "isPaid": false,
			 "recurrence": "monthly"}
		],
		"savingsGoals": [
			{"id": "g1", "name": "Trip", "targetAmount": 1000, "currentAmount": 300,
			 "contributions": [
				{"id": "c1", "amount": 100, "date": "2025-05-01"},
				{"id": "c2", "amount": 150, "date": "2025-06-01"}
			 ]}
		],
		"exportDate": "2025-06-09T10:00:00Z",
		"version": "1.0"
	}`
	b, err := Validate([]byte(in), today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Transactions) != 1 || len(b.SavingsGoals) != 1 {
		t.Fatalf("expected 1 transaction and 1 goal, got %d and %d", len(b.Transactions), len(b.SavingsGoals))
	}
	// The contribution list is authoritative: the stale 300 aggregate is
	// recomputed to the real 250.
	if got := b.SavingsGoals[0].CurrentAmount.Cents; got != 25000 {
		t.Fatalf("expected recomputed current amount 250.00, got %d cents", got)
	}
}

func TestValidateMigratesLegacyGoal(t *testing.T) {
	in := `{
		"transactions": [],
		"savingsGoals": [
			{"id": "g1", "name": "Trip", "targetAmount": 1000, "currentAmount": 200}
		]
	}`
	b, err := Validate([]byte(in), today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g := b.SavingsGoals[0]
	if len(g.Contributions) != 1 {
		t.Fatalf("expected one synthesized contribution, got %d", len(g.Contributions))
	}
	c := g.Contributions[0]
	if c.ID == "" {
		t.Fatal("synthesized contribution needs an id")
	}
	if c.Amount.Cents != 20000 {
		t.Fatalf("expected 200.00, got %s", c.Amount)
	}
	if !c.Date.SameDay(today) {
		t.Fatalf("expected synthesized contribution dated %s, got %s", today, c.Date)
	}
	if g.CurrentAmount.Cents != 20000 {
		t.Fatalf("legacy aggregate must survive migration, got %s", g.CurrentAmount)
	}
}

func TestValidateLegacyGoalWithZeroBalance(t *testing.T) {
	in := `{
		"transactions": [],
		"savingsGoals": [{"id": "g1", "name": "Trip", "targetAmount": 1000}]
	}`
	b, err := Validate([]byte(in), today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g := b.SavingsGoals[0]; len(g.Contributions) != 0 {
		t.Fatalf("expected no contributions for a zero-balance legacy goal, got %d", len(g.Contributions))
	}
}

func TestExportRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	transactions := []core.Transaction{{
		ID: "t1", Kind: core.Income, Amount: core.Money{Cents: 300000},
		Description: "Salary", Date: core.NewDate(2025, 6, 5), IsPaid: true, Recurrence: core.Monthly,
	}}
	out, err := Export(transactions, nil, now)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(out, &envelope); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	for _, field := range []string{"transactions", "savingsGoals", "exportDate", "version"} {
		if _, ok := envelope[field]; !ok {
			t.Fatalf("export missing %q", field)
		}
	}

	b, err := Validate(out, today)
	if err != nil {
		t.Fatalf("exported bundle fails validation: %v", err)
	}
	if b.Version != Version {
		t.Fatalf("expected version %s, got %s", Version, b.Version)
	}
	if len(b.Transactions) != 1 || b.Transactions[0].ID != "t1" {
		t.Fatal("transactions did not survive the round trip")
	}
	if b.SavingsGoals == nil || len(b.SavingsGoals) != 0 {
		t.Fatal("nil goals should export as an empty list")
	}
}
