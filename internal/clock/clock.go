// Package clock supplies "today" anchored to one fixed civil timezone.
//
// Every piece of date-sensitive logic receives a Clock instead of calling
// time.Now directly, so tests can pin the calendar day and the host
// machine's local timezone never leaks into comparisons.
package clock

import (
	"fmt"
	"time"

	"contas/internal/core"
)

// DefaultTimezone is the civil timezone used when none is configured.
const DefaultTimezone = "America/Sao_Paulo"

// Clock yields the current instant and the calendar day it falls on.
type Clock interface {
	Now() time.Time
	Today() core.Date
}

// Civil is the production clock: the system time read in a fixed location.
type Civil struct {
	loc *time.Location
}

// NewCivil loads the named timezone. An empty name selects DefaultTimezone.
func NewCivil(timezone string) (*Civil, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Civil{loc: loc}, nil
}

func (c *Civil) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *Civil) Today() core.Date {
	return core.DateOf(time.Now(), c.loc)
}

// Location exposes the configured timezone.
func (c *Civil) Location() *time.Location {
	return c.loc
}

// Fixed is a frozen clock for tests.
type Fixed struct {
	Instant time.Time
}

// NewFixed pins the clock to the given calendar day at noon UTC.
func NewFixed(year, month, day int) Fixed {
	return Fixed{Instant: time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC)}
}

func (f Fixed) Now() time.Time { return f.Instant }

func (f Fixed) Today() core.Date {
	return core.NewDate(f.Instant.Year(), int(f.Instant.Month()), f.Instant.Day())
}
