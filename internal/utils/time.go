package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/julianstephens/habittracker/internal/constants"
)

var parser = newParser()

func newParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// Clock returns a time source that reports the current time in timezone.
// Calendar days, streaks and event start times all follow it.
func Clock(timezone string) (func() time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return func() time.Time { return time.Now().In(loc) }, nil
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseDay accepts YYYY-MM-DD or an English phrase ("yesterday", "last friday")
// resolved relative to base. The result is midnight in base's location.
func ParseDay(input string, base time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return StartOfDay(base), nil
	}

	if t, err := time.ParseInLocation(constants.DateFormat, input, base.Location()); err == nil {
		return t, nil
	}

	r, err := parser.Parse(input, base)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", input, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q (use YYYY-MM-DD)", input)
	}
	return StartOfDay(r.Time), nil
}

// ParseMonth accepts YYYY-MM or anything ParseDay accepts and returns the
// first day of that month.
func ParseMonth(input string, base time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if t, err := time.ParseInLocation(constants.MonthFormat, input, base.Location()); err == nil {
		return t, nil
	}

	t, err := ParseDay(input, base)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()), nil
}

// MonthBounds returns the first and last day of the month containing t.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return first, first.AddDate(0, 1, -1)
}
