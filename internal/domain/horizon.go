package domain

import (
	"fmt"
	"strings"
	"time"
)

// HorizonMode selects how far ahead dates are offered
type HorizonMode string

const (
	HorizonQuick    HorizonMode = "quick"
	HorizonExtended HorizonMode = "extended"
)

// ParseHorizonMode parses a mode name, empty string means quick
func ParseHorizonMode(s string) (HorizonMode, error) {
	switch HorizonMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", HorizonQuick:
		return HorizonQuick, nil
	case HorizonExtended:
		return HorizonExtended, nil
	default:
		return "", fmt.Errorf("%w: unknown horizon mode %q", ErrValidation, s)
	}
}

// Horizon is the forward-looking date range within which bookings may be made
type Horizon struct {
	QuickDays    int
	ExtendedDays int
}

// NewHorizon creates a horizon, extended is never shorter than quick
func NewHorizon(quickDays, extendedDays int) Horizon {
	if quickDays < 1 {
		quickDays = 1
	}
	if extendedDays < quickDays {
		extendedDays = quickDays
	}
	return Horizon{QuickDays: quickDays, ExtendedDays: extendedDays}
}

// Days returns the number of dates offered in the given mode
func (h Horizon) Days(mode HorizonMode) int {
	if mode == HorizonExtended {
		return h.ExtendedDays
	}
	return h.QuickDays
}

// Dates returns the ordered dates offered in the given mode starting from today
func (h Horizon) Dates(today time.Time, mode HorizonMode) []time.Time {
	return h.DatesN(today, h.Days(mode))
}

// DatesN returns n consecutive dates starting from today.
// n is clamped to [1, ExtendedDays].
func (h Horizon) DatesN(today time.Time, n int) []time.Time {
	n = h.ClampDays(n)

	start := DateOnly(today)
	dates := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, start.AddDate(0, 0, i))
	}
	return dates
}

// ClampDays clamps a requested day count to [1, ExtendedDays]
func (h Horizon) ClampDays(n int) int {
	if n < 1 {
		return 1
	}
	if n > h.ExtendedDays {
		return h.ExtendedDays
	}
	return n
}

// Contains returns true if today <= date <= today+ExtendedDays (calendar dates)
func (h Horizon) Contains(today, date time.Time) bool {
	start := DateOnly(today)
	end := start.AddDate(0, 0, h.ExtendedDays)
	d := DateOnly(date)
	return !d.Before(start) && !d.After(end)
}

// DateOnly returns the calendar date of t as UTC midnight
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: appointmentDate must be YYYY-MM-DD", ErrValidation)
	}
	return d, nil
}

// DateKey formats a date as the occupancy map key
func DateKey(t time.Time) string {
	return t.Format(DateFormat)
}
