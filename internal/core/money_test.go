package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	out, err := json.Marshal(Money{Cents: 1999})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "19.99" {
		t.Fatalf("expected 19.99, got %s", out)
	}

	var m Money
	if err := json.Unmarshal([]byte("42.5"), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Cents != 4250 {
		t.Fatalf("expected 4250 cents, got %d", m.Cents)
	}

	if err := json.Unmarshal([]byte(`"not-a-number"`), &m); err == nil {
		t.Fatal("expected error for non-numeric amount")
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 150}
	b := Money{Cents: 75}
	if got := a.Add(b).Cents; got != 225 {
		t.Fatalf("Add: expected 225, got %d", got)
	}
	if got := a.Sub(b).Cents; got != 75 {
		t.Fatalf("Sub: expected 75, got %d", got)
	}
	// 0.1 + 0.2 style drift never appears because everything is cents.
	if got := MoneyFromFloat(0.1).Add(MoneyFromFloat(0.2)).Cents; got != 30 {
		t.Fatalf("expected 30 cents, got %d", got)
	}
}
