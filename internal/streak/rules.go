package streak

import (
	"fmt"
	"time"

	"github.com/julianstephens/learnlit/internal/models"
)

// InactivityWindow is how long a goal may go without any logged day before
// its streak is broken. Compared against wall-clock elapsed time, not days.
const InactivityWindow = 32 * time.Hour

// FreezeQuota is the number of frozen days a goal may log before reset.
func FreezeQuota(p models.Period) int {
	switch p {
	case models.PeriodWeek:
		return 2
	case models.PeriodMonth:
		return 8
	case models.PeriodYear:
		return 96
	}
	return 0
}

// CompletionThreshold is the learned-day count that completes a goal.
func CompletionThreshold(p models.Period) int {
	switch p {
	case models.PeriodWeek:
		return 7
	case models.PeriodMonth:
		return 30
	case models.PeriodYear:
		return 365
	}
	return 0
}

// DayKey encodes a local calendar date as YYYYMMDD.
type DayKey int

// DayKeyOf returns the key of t's calendar day in loc.
func DayKeyOf(t time.Time, loc *time.Location) DayKey {
	y, m, d := t.In(loc).Date()
	return DayKey(y*10000 + int(m)*100 + d)
}

func (k DayKey) Year() int         { return int(k) / 10000 }
func (k DayKey) Month() time.Month { return time.Month(int(k) / 100 % 100) }
func (k DayKey) Day() int          { return int(k) % 100 }

// Date returns midnight of the day in loc.
func (k DayKey) Date(loc *time.Location) time.Time {
	return time.Date(k.Year(), k.Month(), k.Day(), 0, 0, 0, 0, loc)
}

// Valid reports whether k names a real calendar date.
func (k DayKey) Valid() bool {
	if k <= 0 || k.Month() < 1 || k.Month() > 12 || k.Day() < 1 {
		return false
	}
	return DayKeyOf(k.Date(time.UTC), time.UTC) == k
}

func (k DayKey) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", k.Year(), int(k.Month()), k.Day())
}
