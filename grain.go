package ledger

import (
	"fmt"
	"strings"
	"time"
)

// Grain is a calendar bucketing granularity. Weeks start on Sunday.
type Grain int

const (
	Day Grain = iota
	Week
	Month
	Quarter
	Year
)

func (g Grain) String() string {
	switch g {
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	case Quarter:
		return "quarter"
	case Year:
		return "year"
	default:
		return fmt.Sprintf("Grain(%d)", int(g))
	}
}

// ParseGrain parses a granularity name like "week" or "monthly".
func ParseGrain(s string) (Grain, error) {
	switch strings.ToLower(s) {
	case "day", "daily":
		return Day, nil
	case "week", "weekly":
		return Week, nil
	case "month", "monthly":
		return Month, nil
	case "quarter", "quarterly":
		return Quarter, nil
	case "year", "yearly":
		return Year, nil
	default:
		return Day, fmt.Errorf("unknown granularity %q", s)
	}
}

// StartOf floors t to the first instant of its period, at midnight UTC.
func (g Grain) StartOf(t time.Time) time.Time {
	y, m, d := t.Date()
	switch g {
	case Week:
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return day.AddDate(0, 0, -int(day.Weekday()))
	case Month:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	case Quarter:
		qm := time.Month((int(m)-1)/3*3 + 1)
		return time.Date(y, qm, 1, 0, 0, 0, 0, time.UTC)
	case Year:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
}

// Next returns the start of the period following the one starting at t.
// Stepping is calendar-aware: months and quarters honor variable month
// lengths, weeks are seven days.
func (g Grain) Next(t time.Time) time.Time {
	switch g {
	case Week:
		return t.AddDate(0, 0, 7)
	case Month:
		return t.AddDate(0, 1, 0)
	case Quarter:
		return t.AddDate(0, 3, 0)
	case Year:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}
