package streak

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/learnlit/internal/clock"
	"github.com/julianstephens/learnlit/internal/logger"
	"github.com/julianstephens/learnlit/internal/models"
)

// Phase is the coarse lifecycle position of a goal.
type Phase string

const (
	PhaseFresh          Phase = "fresh"
	PhaseActiveUnlocked Phase = "active"
	PhaseActiveLocked   Phase = "locked"
)

// Action names the operation that produced an Outcome.
type Action string

const (
	ActionLearned         Action = "learned"
	ActionFrozen          Action = "frozen"
	ActionInactivityReset Action = "inactivity-reset"
	ActionRefreshLock     Action = "refresh-lock"
	ActionReset           Action = "reset"
	ActionResume          Action = "resume"
)

// Result tells the caller what an operation did to the goal.
type Result string

const (
	ResultApplied       Result = "applied"
	ResultLocked        Result = "locked"
	ResultQuotaExceeded Result = "quota-exceeded"
	ResultUnchanged     Result = "unchanged"
)

// Snapshot is a read-only copy of a goal's state.
type Snapshot struct {
	Subject          string
	Period           models.Period
	LearnedCount     int
	FrozenCount      int
	FreezeQuota      int
	Threshold        int
	LastActivity     *time.Time
	Logs             map[DayKey]models.DayStatus
	LockedToday      bool
	FreezesExhausted bool
}

// Phase derives the lifecycle position from the counters and the lock.
func (s Snapshot) Phase() Phase {
	switch {
	case s.LearnedCount == 0 && s.FrozenCount == 0 && len(s.Logs) == 0:
		return PhaseFresh
	case s.LockedToday:
		return PhaseActiveLocked
	default:
		return PhaseActiveUnlocked
	}
}

// HasProgress reports whether resetting the goal would lose anything.
func (s Snapshot) HasProgress() bool {
	return s.LearnedCount > 0 || s.FrozenCount > 0 || len(s.Logs) > 0
}

// FreezesLeft is the remaining freeze quota.
func (s Snapshot) FreezesLeft() int {
	return max(s.FreezeQuota-s.FrozenCount, 0)
}

// Outcome is returned by every tracker operation in place of observable
// fields. PersistErr is set when the in-memory change could not be saved.
type Outcome struct {
	Action     Action
	Result     Result
	Completed  bool
	State      Snapshot
	PersistErr error
}

// Changed reports whether the operation mutated the goal.
func (o Outcome) Changed() bool { return o.Result == ResultApplied }

type state struct {
	learned          int
	frozen           int
	lastActivity     *time.Time
	logs             map[DayKey]models.DayStatus
	lockedToday      bool
	freezesExhausted bool
}

// Tracker owns the streak state of one goal. It is not safe for
// concurrent use.
type Tracker struct {
	subject string
	period  models.Period
	keys    Keys
	store   Store
	clock   clock.Clock
	loc     *time.Location
	log     *log.Logger
	st      state
}

type Option func(*Tracker)

func WithClock(c clock.Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithLocation sets the zone whose calendar days drive the lock and day keys.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// New loads the goal for subject and period from store. Unreadable data is
// recovered as described on load and never fails construction.
func New(subject string, period models.Period, store Store, opts ...Option) (*Tracker, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, errors.New("subject is required")
	}
	if !period.Valid() {
		return nil, fmt.Errorf("invalid period %q", period)
	}
	if store == nil {
		return nil, errors.New("store is required")
	}

	t := &Tracker{
		subject: subject,
		period:  period,
		keys:    KeysFor(subject, period),
		store:   store,
		clock:   clock.System{},
		loc:     time.Local,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = logger.With("goal", t.keys.Prefix)

	t.load()
	return t, nil
}

// load reads persisted state. A corrupt logs payload discards the whole goal;
// an unreadable counter reads as 0 and an unreadable timestamp as absent.
func (t *Tracker) load() {
	t.st = state{logs: make(map[DayKey]models.DayStatus)}

	raw, err := t.store.GetBytes(t.keys.Logs)
	if err == nil {
		var logs map[DayKey]models.DayStatus
		logs, err = DecodeLogs(raw)
		if err == nil {
			t.st.logs = logs
		}
	}
	if err != nil {
		t.warn("Discarding unreadable goal state", "error", err)
		return
	}

	if t.st.learned, err = t.store.GetInt(t.keys.Learned); err != nil || t.st.learned < 0 {
		t.warn("Unreadable learned count", "error", err)
		t.st.learned = 0
	}
	if t.st.frozen, err = t.store.GetInt(t.keys.Frozen); err != nil || t.st.frozen < 0 {
		t.warn("Unreadable frozen count", "error", err)
		t.st.frozen = 0
	}
	if t.st.lastActivity, err = t.store.GetTime(t.keys.LastDate); err != nil {
		t.warn("Unreadable last activity", "error", err)
		t.st.lastActivity = nil
	}

	t.st.freezesExhausted = t.st.frozen >= t.quota()
	t.st.lockedToday = t.lockedAt(t.clock.Now())
}

func (t *Tracker) Subject() string          { return t.subject }
func (t *Tracker) Period() models.Period    { return t.period }
func (t *Tracker) Keys() Keys               { return t.keys }
func (t *Tracker) Location() *time.Location { return t.loc }

func (t *Tracker) quota() int { return FreezeQuota(t.period) }

func (t *Tracker) lockedAt(now time.Time) bool {
	return t.st.lastActivity != nil && clock.SameDay(*t.st.lastActivity, now, t.loc)
}

// Snapshot copies the current state.
func (t *Tracker) Snapshot() Snapshot {
	var last *time.Time
	if t.st.lastActivity != nil {
		v := *t.st.lastActivity
		last = &v
	}
	return Snapshot{
		Subject:          t.subject,
		Period:           t.period,
		LearnedCount:     t.st.learned,
		FrozenCount:      t.st.frozen,
		FreezeQuota:      t.quota(),
		Threshold:        CompletionThreshold(t.period),
		LastActivity:     last,
		Logs:             maps.Clone(t.st.logs),
		LockedToday:      t.st.lockedToday,
		FreezesExhausted: t.st.freezesExhausted,
	}
}

func (t *Tracker) outcome(a Action, r Result) Outcome {
	return Outcome{Action: a, Result: r, State: t.Snapshot()}
}

// LogLearned records today as learned. It does nothing while the day is
// locked. Completed is set on the call that brings the learned count to the
// period threshold.
func (t *Tracker) LogLearned() Outcome {
	if t.st.lockedToday {
		return t.outcome(ActionLearned, ResultLocked)
	}

	now := t.clock.Now()
	t.st.learned++
	t.st.lastActivity = &now
	t.st.lockedToday = true
	t.st.logs[DayKeyOf(now, t.loc)] = models.DayLearned

	out := t.outcome(ActionLearned, ResultApplied)
	out.PersistErr = t.persist()

	if t.st.learned == CompletionThreshold(t.period) {
		out.Completed = true
		t.info("Goal completed", "learned", t.st.learned)
	}
	return out
}

// LogFrozen records today as a frozen day. Once the quota is used up the
// call is rejected with ResultQuotaExceeded and FreezesExhausted is raised.
func (t *Tracker) LogFrozen() Outcome {
	if t.st.lockedToday {
		return t.outcome(ActionFrozen, ResultLocked)
	}
	if t.st.frozen >= t.quota() {
		t.st.freezesExhausted = true
		return t.outcome(ActionFrozen, ResultQuotaExceeded)
	}

	now := t.clock.Now()
	t.st.frozen++
	t.st.lastActivity = &now
	t.st.lockedToday = true
	t.st.freezesExhausted = t.st.frozen >= t.quota()
	t.st.logs[DayKeyOf(now, t.loc)] = models.DayFrozen

	out := t.outcome(ActionFrozen, ResultApplied)
	out.PersistErr = t.persist()
	return out
}

// EnforceInactivityReset clears the streak when more than InactivityWindow
// has elapsed since the last logged day. The last activity time is kept.
func (t *Tracker) EnforceInactivityReset() Outcome {
	if t.st.lastActivity == nil {
		return t.outcome(ActionInactivityReset, ResultUnchanged)
	}
	elapsed := t.clock.Now().Sub(*t.st.lastActivity)
	if elapsed <= InactivityWindow {
		return t.outcome(ActionInactivityReset, ResultUnchanged)
	}

	t.st.learned = 0
	t.st.frozen = 0
	t.st.freezesExhausted = false
	t.st.lockedToday = false
	t.st.logs = make(map[DayKey]models.DayStatus)

	out := t.outcome(ActionInactivityReset, ResultApplied)
	out.PersistErr = t.persist()
	t.info("Streak broken by inactivity", "elapsed", elapsed.Round(time.Minute))
	return out
}

// RefreshDailyLock recomputes the lock from the last activity's calendar day.
func (t *Tracker) RefreshDailyLock() Outcome {
	locked := t.lockedAt(t.clock.Now())
	if locked == t.st.lockedToday {
		return t.outcome(ActionRefreshLock, ResultUnchanged)
	}
	t.st.lockedToday = locked
	return t.outcome(ActionRefreshLock, ResultApplied)
}

// Reset returns the goal to its fresh state.
func (t *Tracker) Reset() Outcome {
	t.st = state{logs: make(map[DayKey]models.DayStatus)}

	out := t.outcome(ActionReset, ResultApplied)
	out.PersistErr = t.persist()
	t.info("Goal reset")
	return out
}

// Resume runs the checks due whenever a session picks the goal back up:
// the inactivity rule first, then the daily lock.
func (t *Tracker) Resume() Outcome {
	reset := t.EnforceInactivityReset()
	refresh := t.RefreshDailyLock()

	out := t.outcome(ActionResume, ResultUnchanged)
	if reset.Changed() || refresh.Changed() {
		out.Result = ResultApplied
	}
	out.PersistErr = reset.PersistErr
	return out
}

// persist writes every key of the goal. Failures are collected and logged;
// in-memory state is kept either way.
func (t *Tracker) persist() error {
	var errs []error

	payload, err := EncodeLogs(t.st.logs)
	if err == nil {
		err = t.store.SetBytes(t.keys.Logs, payload)
	}
	if err != nil {
		errs = append(errs, fmt.Errorf("save %s: %w", t.keys.Logs, err))
	}
	if err := t.store.SetInt(t.keys.Learned, t.st.learned); err != nil {
		errs = append(errs, fmt.Errorf("save %s: %w", t.keys.Learned, err))
	}
	if err := t.store.SetInt(t.keys.Frozen, t.st.frozen); err != nil {
		errs = append(errs, fmt.Errorf("save %s: %w", t.keys.Frozen, err))
	}
	if err := t.store.SetTime(t.keys.LastDate, t.st.lastActivity); err != nil {
		errs = append(errs, fmt.Errorf("save %s: %w", t.keys.LastDate, err))
	}

	if err := errors.Join(errs...); err != nil {
		t.warn("Failed to persist goal state", "error", err)
		return err
	}
	return nil
}

func (t *Tracker) info(msg string, keyvals ...interface{}) {
	if t.log != nil {
		t.log.Info(msg, keyvals...)
	}
}

func (t *Tracker) warn(msg string, keyvals ...interface{}) {
	if t.log != nil {
		t.log.Warn(msg, keyvals...)
	}
}
