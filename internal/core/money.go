package core

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Money is a currency-agnostic amount held in integer cents. Calculations
// always run on cents; floats appear only at the JSON boundary.
type Money struct {
	Cents int64
}

// MoneyFromFloat converts a decimal amount to cents with half-up rounding
// on the third decimal place. Used when decoding JSON number amounts.
func MoneyFromFloat(v float64) Money {
	return Money{Cents: int64(math.Round(v * 100))}
}

// ParseDecimalToCents converts a decimal string to cents. It accepts both
// dot (12.34) and comma (12,34) separators, rounds half-up on the third
// decimal digit and rejects signs, zero and malformed input.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Float returns the decimal value for display and JSON encoding only.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100.0
}

// Add returns m plus o.
func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

// Sub returns m minus o.
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

func (m Money) String() string {
	return strconv.FormatFloat(m.Float(), 'f', 2, 64)
}

// MarshalJSON renders the amount as a decimal number with two places.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number and rounds it to cents.
func (m *Money) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return ErrInvalidAmount
	}
	*m = MoneyFromFloat(v)
	return nil
}
