package domain

import (
	"fmt"
	"time"
)

// DayLayout is the calendar date layout used for client supplied days.
const DayLayout = "2006-01-02"

// ParseDay validates a client supplied calendar date and returns its
// canonical YYYY-MM-DD form. The value is date-only; no timezone is applied.
func ParseDay(s string) (string, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", ErrValidation, s)
	}
	return t.Format(DayLayout), nil
}

// AddDays shifts a canonical day by n calendar days.
func AddDays(day string, n int) (string, error) {
	t, err := time.Parse(DayLayout, day)
	if err != nil {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", ErrValidation, day)
	}
	return t.AddDate(0, 0, n).Format(DayLayout), nil
}
