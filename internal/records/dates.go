package records

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the calendar-day format used by attendance and holiday records.
	DateLayout = "2006-01-02"
	// MonthLayout is the month label format used by wage history records.
	MonthLayout = "2006-01"
)

var (
	// ErrInvalidDate indicates a value that is not a YYYY-MM-DD calendar day.
	ErrInvalidDate = errors.New("records: invalid date")
	// ErrInvalidMonth indicates a value that is not a YYYY-MM month label.
	ErrInvalidMonth = errors.New("records: invalid month")
)

// ParseDate parses a YYYY-MM-DD day at midnight in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	parsed, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return parsed, nil
}

// NormalizeDate validates raw and returns it in canonical YYYY-MM-DD form.
func NormalizeDate(raw string) (string, error) {
	parsed, err := ParseDate(raw, time.UTC)
	if err != nil {
		return "", err
	}
	return parsed.Format(DateLayout), nil
}

// FormatDate renders t as a calendar day in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// MonthLabel renders a year and month as YYYY-MM.
func MonthLabel(year int, month time.Month) string {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format(MonthLayout)
}

// ParseMonthLabel splits a YYYY-MM label.
func ParseMonthLabel(raw string) (int, time.Month, error) {
	parsed, err := time.Parse(MonthLayout, strings.TrimSpace(raw))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidMonth, raw)
	}
	return parsed.Year(), parsed.Month(), nil
}
