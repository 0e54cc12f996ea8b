package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/learnlit/internal/constants"
	"github.com/julianstephens/learnlit/internal/models"
	"github.com/julianstephens/learnlit/internal/streak"
)

const progressWidth = 20

// ProgressBar renders learned/threshold as a fixed-width bar.
func ProgressBar(learned, threshold int) string {
	if threshold <= 0 {
		return strings.Repeat("░", progressWidth)
	}
	filled := min(learned*progressWidth/threshold, progressWidth)
	return strings.Repeat("█", filled) + strings.Repeat("░", progressWidth-filled)
}

// FormatStatus is the multi-line status block shown by status and after
// logging.
func FormatStatus(goal models.Goal, s streak.Snapshot, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", goal)
	fmt.Fprintf(&b, "  Learned:  %d/%d  %s\n", s.LearnedCount, s.Threshold, ProgressBar(s.LearnedCount, s.Threshold))
	fmt.Fprintf(&b, "  Freezes:  %d used, %d left\n", s.FrozenCount, s.FreezesLeft())

	today := "not logged yet"
	if s.LockedToday {
		today = "logged"
	}
	fmt.Fprintf(&b, "  Today:    %s\n", today)

	last := "never"
	if s.LastActivity != nil {
		last = s.LastActivity.In(loc).Format(constants.DateFormat + " 15:04")
	}
	fmt.Fprintf(&b, "  Last:     %s", last)
	return b.String()
}

// FormatOutcome is the one-line result of a learned or frozen command.
func FormatOutcome(out streak.Outcome) string {
	s := out.State
	switch out.Result {
	case streak.ResultLocked:
		return "Today is already logged. Come back tomorrow."
	case streak.ResultQuotaExceeded:
		return fmt.Sprintf("No freezes left: all %d used for this %s.", s.FreezeQuota, strings.ToLower(string(s.Period)))
	}

	switch out.Action {
	case streak.ActionLearned:
		msg := fmt.Sprintf("✓ Learned logged (%d/%d)", s.LearnedCount, s.Threshold)
		if out.Completed {
			msg += fmt.Sprintf("\n🎉 Goal complete! %d days of %s.", s.LearnedCount, s.Subject)
		}
		return msg
	case streak.ActionFrozen:
		msg := fmt.Sprintf("❄ Freeze used (%d left)", s.FreezesLeft())
		if s.FreezesExhausted {
			msg += "\nThat was your last freeze."
		}
		return msg
	case streak.ActionReset:
		return fmt.Sprintf("Reset %s (%s).", s.Subject, s.Period)
	}
	return string(out.Result)
}
