package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/julianstephens/learnlit/internal/constants"
	"github.com/julianstephens/learnlit/internal/models"
	"github.com/julianstephens/learnlit/internal/streak"
)

var (
	ErrEmptySubject   = errors.New("subject is required")
	ErrSubjectTooLong = fmt.Errorf("subject must be at most %d characters", constants.MaxSubjectLength)
)

// ValidateSubject trims s and checks it is usable as a goal subject.
func ValidateSubject(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptySubject
	}
	if utf8.RuneCountInString(s) > constants.MaxSubjectLength {
		return "", ErrSubjectTooLong
	}
	return s, nil
}

// ConflictType represents the type of integrity problem
type ConflictType string

const (
	ConflictUnreadableState ConflictType = "unreadable_state"
	ConflictInvalidLogEntry ConflictType = "invalid_log_entry"
	ConflictDuplicateDay    ConflictType = "duplicate_day"
	ConflictNegativeCount   ConflictType = "negative_count"
	ConflictFreezeQuota     ConflictType = "freeze_quota_exceeded"
	ConflictCountMismatch   ConflictType = "count_mismatch"
	ConflictFutureActivity  ConflictType = "future_activity"
	ConflictOrphanedState   ConflictType = "orphaned_state"
)

// Conflict represents a detected problem in a goal's persisted state
type Conflict struct {
	Type        ConflictType
	Goal        string
	Description string
	Days        []string // YYYY-MM-DD (if applicable)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s: %s\n", c.Goal, c.Description)
	}
	return b.String()
}

func (vr *ValidationResult) add(goal models.Goal, typ ConflictType, days []string, format string, args ...interface{}) {
	vr.Conflicts = append(vr.Conflicts, Conflict{
		Type:        typ,
		Goal:        goal.String(),
		Description: fmt.Sprintf(format, args...),
		Days:        days,
	})
}

// FindOrphans reports the goal namespaces among keys that no registered goal
// owns. keys is the output of a prefix scan over the store.
func FindOrphans(goals []models.Goal, keys []string) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	owned := make(map[string]bool, len(goals))
	for _, g := range goals {
		owned[streak.KeysFor(g.Subject, g.Period).Prefix] = true
	}

	reported := make(map[string]bool)
	for _, k := range keys {
		ns, ok := streak.NamespaceOf(k)
		if !ok || owned[ns] || reported[ns] {
			continue
		}
		reported[ns] = true
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictOrphanedState,
			Goal:        ns,
			Description: "streak data with no registered goal",
		})
	}
	return result
}

// Validator checks persisted goal state against the streak rules. It reads
// the raw entries rather than going through a Tracker, which would silently
// repair what it finds.
type Validator struct {
	now func() time.Time
	loc *time.Location
}

func New(now func() time.Time, loc *time.Location) *Validator {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Validator{now: now, loc: loc}
}

// ValidateGoals runs ValidateGoal for every goal and merges the results.
func (v *Validator) ValidateGoals(goals []models.Goal, store streak.Store) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	for _, g := range goals {
		r := v.ValidateGoal(g, store)
		result.Conflicts = append(result.Conflicts, r.Conflicts...)
	}
	return result
}

// ValidateGoal checks one goal's entries.
func (v *Validator) ValidateGoal(goal models.Goal, store streak.Store) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	keys := streak.KeysFor(goal.Subject, goal.Period)
	now := v.now()
	today := streak.DayKeyOf(now, v.loc)

	learned, err := store.GetInt(keys.Learned)
	if err != nil {
		result.add(goal, ConflictUnreadableState, nil, "learned count unreadable: %v", err)
	}
	frozen, err := store.GetInt(keys.Frozen)
	if err != nil {
		result.add(goal, ConflictUnreadableState, nil, "frozen count unreadable: %v", err)
	}
	if learned < 0 || frozen < 0 {
		result.add(goal, ConflictNegativeCount, nil, "negative counts (learned %d, frozen %d)", learned, frozen)
	}

	quota := streak.FreezeQuota(goal.Period)
	if frozen > quota {
		result.add(goal, ConflictFreezeQuota, nil, "%d frozen days exceed the quota of %d", frozen, quota)
	}

	last, err := store.GetTime(keys.LastDate)
	if err != nil {
		result.add(goal, ConflictUnreadableState, nil, "last activity unreadable: %v", err)
	}
	if last != nil && last.After(now) {
		result.add(goal, ConflictFutureActivity, nil, "last activity %s is in the future", last.In(v.loc).Format(time.RFC3339))
	}

	raw, err := store.GetBytes(keys.Logs)
	if err != nil {
		result.add(goal, ConflictUnreadableState, nil, "logs unreadable: %v", err)
		return result
	}
	entries, err := streak.DecodeLogEntries(raw)
	if err != nil {
		result.add(goal, ConflictUnreadableState, nil, "logs corrupt, the goal will load as fresh: %v", err)
		return result
	}

	seen := make(map[streak.DayKey]int)
	var learnedDays, frozenDays int
	for _, e := range entries {
		if !e.Day.Valid() {
			result.add(goal, ConflictInvalidLogEntry, nil, "log entry has invalid day %d", int(e.Day))
			continue
		}
		if !e.Status.Valid() {
			result.add(goal, ConflictInvalidLogEntry, []string{e.Day.String()}, "log entry on %s has invalid status %q", e.Day, e.Status)
			continue
		}
		if e.Day > today {
			result.add(goal, ConflictFutureActivity, []string{e.Day.String()}, "log entry on %s is in the future", e.Day)
		}
		seen[e.Day]++
		if seen[e.Day] == 2 {
			result.add(goal, ConflictDuplicateDay, []string{e.Day.String()}, "more than one log entry on %s", e.Day)
		}
		switch e.Status {
		case models.DayLearned:
			learnedDays++
		case models.DayFrozen:
			frozenDays++
		}
	}

	if learnedDays != learned {
		result.add(goal, ConflictCountMismatch, nil, "learned count %d but %d learned days logged", learned, learnedDays)
	}
	if frozenDays != frozen {
		result.add(goal, ConflictCountMismatch, nil, "frozen count %d but %d frozen days logged", frozen, frozenDays)
	}

	return result
}
