package recur

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseRule(t *testing.T) {
	tests := []struct {
		pattern string
		want    Rule
		ok      bool
	}{
		{"daily", Rule{Freq: Daily}, true},
		{"weekly", Rule{Freq: Weekly}, true},
		{"monthly", Rule{Freq: Monthly}, true},
		{"monthly:first:5", Rule{Freq: MonthlyOrdinal, Ordinal: First, Weekday: time.Friday}, true},
		{"monthly:second:0", Rule{Freq: MonthlyOrdinal, Ordinal: Second, Weekday: time.Sunday}, true},
		{"monthly:third:3", Rule{Freq: MonthlyOrdinal, Ordinal: Third, Weekday: time.Wednesday}, true},
		{"monthly:fourth:6", Rule{Freq: MonthlyOrdinal, Ordinal: Fourth, Weekday: time.Saturday}, true},
		{"monthly:last:1", Rule{Freq: MonthlyOrdinal, Ordinal: Last, Weekday: time.Monday}, true},

		// Unrecognized patterns fail safe: no rule, no error.
		{"", Rule{}, false},
		{"yearly", Rule{}, false},
		{"monthly:fifth:1", Rule{}, false},
		{"monthly:last:7", Rule{}, false},
		{"monthly:last:-1", Rule{}, false},
		{"monthly:last:x", Rule{}, false},
		{"monthly:last", Rule{}, false},
		{"monthly:last:1:extra", Rule{}, false},
		{"weekly:first:1", Rule{}, false},
		{"DAILY", Rule{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, ok := ParseRule(tt.pattern)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRuleStringRoundTrip(t *testing.T) {
	patterns := []string{
		"daily", "weekly", "monthly",
		"monthly:first:5", "monthly:second:0", "monthly:third:3",
		"monthly:fourth:6", "monthly:last:1",
	}
	for _, p := range patterns {
		rule, ok := ParseRule(p)
		require.True(t, ok, p)
		assert.Equal(t, p, rule.String())
	}
}

func TestZeroRuleMatchesNothing(t *testing.T) {
	var r Rule
	anchor := date(2024, time.June, 3)
	for d := anchor; d.Before(date(2024, time.August, 1)); d = d.AddDate(0, 0, 1) {
		assert.False(t, r.Matches(anchor, d), d.Format(time.DateOnly))
	}
}

func TestDailyMatchesEveryDay(t *testing.T) {
	r, _ := ParseRule("daily")
	anchor := date(2024, time.June, 1)
	for i := 0; i < 30; i++ {
		d := anchor.AddDate(0, 0, i)
		assert.True(t, r.Matches(anchor, d), d.Format(time.DateOnly))
	}
}

func TestWeeklyMatchesAnchorWeekday(t *testing.T) {
	r, _ := ParseRule("weekly")
	anchor := date(2024, time.June, 3) // a Monday
	require.Equal(t, time.Monday, anchor.Weekday())

	assert.True(t, r.Matches(anchor, date(2024, time.June, 3)))
	assert.True(t, r.Matches(anchor, date(2024, time.June, 10)))
	assert.True(t, r.Matches(anchor, date(2024, time.June, 17)))
	assert.False(t, r.Matches(anchor, date(2024, time.June, 11)))
	assert.False(t, r.Matches(anchor, date(2024, time.June, 9)))
}

func TestMonthlyMatchesAnchorDayOfMonth(t *testing.T) {
	r, _ := ParseRule("monthly")
	anchor := date(2024, time.January, 15)

	assert.True(t, r.Matches(anchor, date(2024, time.February, 15)))
	assert.True(t, r.Matches(anchor, date(2024, time.March, 15)))
	assert.False(t, r.Matches(anchor, date(2024, time.February, 14)))
}

func TestMonthlyShortMonthNeverMatches(t *testing.T) {
	// Anchor on the 31st: February has no matching day and none is
	// generated for it; no clamping to month-end.
	r, _ := ParseRule("monthly")
	anchor := date(2024, time.January, 31)

	for d := date(2024, time.February, 1); d.Month() == time.February; d = d.AddDate(0, 0, 1) {
		assert.False(t, r.Matches(anchor, d), d.Format(time.DateOnly))
	}
	assert.True(t, r.Matches(anchor, date(2024, time.March, 31)))
}

func TestMonthlyOrdinalBands(t *testing.T) {
	anchor := date(2024, time.January, 1)

	tests := []struct {
		name    string
		pattern string
		match   time.Time
		reject  []time.Time
	}{
		{
			name:    "third friday of june 2024",
			pattern: "monthly:third:5",
			match:   date(2024, time.June, 21),
			reject: []time.Time{
				date(2024, time.June, 7),
				date(2024, time.June, 14),
				date(2024, time.June, 28),
				date(2024, time.June, 20), // thursday in the band
			},
		},
		{
			name:    "first monday of june 2024",
			pattern: "monthly:first:1",
			match:   date(2024, time.June, 3),
			reject:  []time.Time{date(2024, time.June, 10), date(2024, time.June, 4)},
		},
		{
			name:    "second wednesday of june 2024",
			pattern: "monthly:second:3",
			match:   date(2024, time.June, 12),
			reject:  []time.Time{date(2024, time.June, 5), date(2024, time.June, 19)},
		},
		{
			name:    "fourth tuesday of june 2024",
			pattern: "monthly:fourth:2",
			match:   date(2024, time.June, 25),
			reject:  []time.Time{date(2024, time.June, 18)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := ParseRule(tt.pattern)
			require.True(t, ok)
			assert.True(t, r.Matches(anchor, tt.match))
			for _, d := range tt.reject {
				assert.False(t, r.Matches(anchor, d), d.Format(time.DateOnly))
			}
		})
	}
}

func TestMonthlyLast(t *testing.T) {
	r, ok := ParseRule("monthly:last:1")
	require.True(t, ok)
	anchor := date(2024, time.January, 1)

	// 2024-06-24 is the last Monday of June: a week later is July.
	assert.True(t, r.Matches(anchor, date(2024, time.June, 24)))
	assert.False(t, r.Matches(anchor, date(2024, time.June, 17)))
	assert.False(t, r.Matches(anchor, date(2024, time.June, 25)))

	// Five-Friday month: only the fifth one is "last".
	rf, _ := ParseRule("monthly:last:5")
	assert.True(t, rf.Matches(anchor, date(2024, time.March, 29)))
	assert.False(t, rf.Matches(anchor, date(2024, time.March, 22)))
}

func TestDayTruncates(t *testing.T) {
	d := Day(time.Date(2024, time.June, 3, 17, 45, 12, 999, time.UTC))
	assert.Equal(t, date(2024, time.June, 3), d)
	assert.Equal(t, 0, d.Hour())
}
