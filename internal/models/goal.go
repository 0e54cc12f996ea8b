package models

import (
	"fmt"
	"strings"
	"time"
)

// Period is the cadence of a goal. The string value is also the storage key segment.
type Period string

const (
	PeriodWeek  Period = "Week"
	PeriodMonth Period = "Month"
	PeriodYear  Period = "Year"
)

// Periods lists every period in display order
var Periods = []Period{PeriodWeek, PeriodMonth, PeriodYear}

// ParsePeriod accepts week/month/year in any case
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "week", "w":
		return PeriodWeek, nil
	case "month", "m":
		return PeriodMonth, nil
	case "year", "y":
		return PeriodYear, nil
	default:
		return "", fmt.Errorf("invalid period %q (expected week, month or year)", s)
	}
}

func (p Period) Valid() bool {
	return p == PeriodWeek || p == PeriodMonth || p == PeriodYear
}

func (p Period) String() string { return string(p) }

// DayStatus is the outcome logged for a single calendar day
type DayStatus string

const (
	DayLearned DayStatus = "learned"
	DayFrozen  DayStatus = "frozen"
)

func (s DayStatus) Valid() bool {
	return s == DayLearned || s == DayFrozen
}

// Goal is a registered subject+period pairing
type Goal struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Period    Period    `json:"period"`
	CreatedAt time.Time `json:"created_at"`
}

func (g Goal) String() string {
	return fmt.Sprintf("%s (%s)", g.Subject, g.Period)
}
