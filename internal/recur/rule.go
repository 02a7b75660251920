// Package recur expands the recurrence rule of a task into concrete
// placeholder time entries: a rule plus an anchor date is matched against
// every working day in a bounded window, skipping dates that already have
// an entry.
package recur

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Freq is the base frequency of a recurrence rule. The zero value None
// matches nothing, so an unparsed Rule never generates entries.
type Freq int

const (
	None Freq = iota
	Daily
	Weekly
	Monthly
	MonthlyOrdinal
)

// Ordinal selects which occurrence of a weekday within a month.
type Ordinal int

const (
	First Ordinal = iota
	Second
	Third
	Fourth
	Last
)

var ordinalNames = map[string]Ordinal{
	"first":  First,
	"second": Second,
	"third":  Third,
	"fourth": Fourth,
	"last":   Last,
}

// Rule is a parsed recurrence pattern. Ordinal and Weekday are only
// meaningful when Freq is MonthlyOrdinal.
type Rule struct {
	Freq    Freq
	Ordinal Ordinal
	Weekday time.Weekday
}

// ParseRule parses a pattern string: "daily", "weekly", "monthly", or
// "monthly:<ordinal>:<weekday>" with ordinal in
// first|second|third|fourth|last and weekday 0-6 (0 = Sunday). An
// unrecognized or malformed pattern returns ok=false; it is never an
// error, the rule simply matches nothing.
func ParseRule(pattern string) (Rule, bool) {
	switch pattern {
	case "daily":
		return Rule{Freq: Daily}, true
	case "weekly":
		return Rule{Freq: Weekly}, true
	case "monthly":
		return Rule{Freq: Monthly}, true
	}

	parts := strings.Split(pattern, ":")
	if len(parts) != 3 || parts[0] != "monthly" {
		return Rule{}, false
	}
	ord, ok := ordinalNames[parts[1]]
	if !ok {
		return Rule{}, false
	}
	wd, err := strconv.Atoi(parts[2])
	if err != nil || wd < 0 || wd > 6 {
		return Rule{}, false
	}
	return Rule{Freq: MonthlyOrdinal, Ordinal: ord, Weekday: time.Weekday(wd)}, true
}

// String renders the rule back into its pattern form.
func (r Rule) String() string {
	switch r.Freq {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case MonthlyOrdinal:
		for name, ord := range ordinalNames {
			if ord == r.Ordinal {
				return fmt.Sprintf("monthly:%s:%d", name, int(r.Weekday))
			}
		}
	}
	return ""
}

// Matches reports whether date d is due under the rule anchored at anchor.
// Both arguments are treated as calendar dates; any time component is
// ignored.
func (r Rule) Matches(anchor, d time.Time) bool {
	switch r.Freq {
	case Daily:
		return true
	case Weekly:
		return d.Weekday() == anchor.Weekday()
	case Monthly:
		// Months shorter than the anchor's day-of-month never match that
		// month. No clamping to month-end; a confirmed product decision.
		return d.Day() == anchor.Day()
	case MonthlyOrdinal:
		if d.Weekday() != r.Weekday {
			return false
		}
		switch r.Ordinal {
		case First:
			return d.Day() <= 7
		case Second:
			return d.Day() >= 8 && d.Day() <= 14
		case Third:
			return d.Day() >= 15 && d.Day() <= 21
		case Fourth:
			return d.Day() >= 22 && d.Day() <= 28
		case Last:
			// Last occurrence of the weekday: a week later rolls into the
			// next calendar month.
			return d.AddDate(0, 0, 7).Month() != d.Month()
		}
	}
	return false
}

// Day truncates t to its calendar date (midnight UTC).
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
