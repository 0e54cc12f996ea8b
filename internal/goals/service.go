// Package goals manages the goal registry and the single active goal on top
// of a storage provider, handing out streak trackers for them.
package goals

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/learnlit/internal/clock"
	"github.com/julianstephens/learnlit/internal/logger"
	"github.com/julianstephens/learnlit/internal/models"
	"github.com/julianstephens/learnlit/internal/notifier"
	"github.com/julianstephens/learnlit/internal/storage"
	"github.com/julianstephens/learnlit/internal/streak"
	"github.com/julianstephens/learnlit/internal/validation"
)

var (
	ErrNoActiveGoal   = errors.New("no active goal, run 'learnlit start <subject>' first")
	ErrSwitchDeclined = errors.New("goal switch cancelled")
)

type Service struct {
	store    storage.Provider
	clock    clock.Clock
	loc      *time.Location
	notifier notifier.Sender
}

type Option func(*Service)

func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// WithNotifier sets where completion messages go. nil disables them.
func WithNotifier(n notifier.Sender) Option {
	return func(s *Service) { s.notifier = n }
}

func NewService(store storage.Provider, opts ...Option) *Service {
	s := &Service{store: store, clock: clock.System{}, loc: time.Local}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Store() storage.Provider  { return s.store }
func (s *Service) Clock() clock.Clock        { return s.clock }
func (s *Service) Location() *time.Location { return s.loc }

// Today is the current day key in the service's location.
func (s *Service) Today() streak.DayKey {
	return streak.DayKeyOf(s.clock.Now(), s.loc)
}

// Tracker loads the streak state of goal without resuming it.
func (s *Service) Tracker(goal models.Goal) (*streak.Tracker, error) {
	return streak.New(goal.Subject, goal.Period, storage.NewValues(s.store),
		streak.WithClock(s.clock),
		streak.WithLocation(s.loc),
	)
}

// ActiveGoal returns the goal named by the active_goal setting.
func (s *Service) ActiveGoal() (models.Goal, error) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return models.Goal{}, fmt.Errorf("failed to get settings: %w", err)
	}
	if settings.ActiveGoalID == "" {
		return models.Goal{}, ErrNoActiveGoal
	}
	goal, err := s.store.GetGoal(settings.ActiveGoalID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Goal{}, ErrNoActiveGoal
	}
	if err != nil {
		return models.Goal{}, fmt.Errorf("failed to load active goal: %w", err)
	}
	return goal, nil
}

// Session is a resumed goal ready for logging.
type Session struct {
	Goal    models.Goal
	Tracker *streak.Tracker
	Resumed streak.Outcome
	// StreakBroken is set when resuming cleared progress through inactivity.
	StreakBroken bool
}

func (s *Service) resume(goal models.Goal) (*Session, error) {
	tr, err := s.Tracker(goal)
	if err != nil {
		return nil, err
	}
	session := &Session{Goal: goal, Tracker: tr}
	session.Resume()
	return session, nil
}

// Resume runs the resume checks again on the session's own tracker, as
// after a day boundary in a long-running session.
func (session *Session) Resume() {
	before := session.Tracker.Snapshot()
	session.Resumed = session.Tracker.Resume()
	session.StreakBroken = before.HasProgress() && !session.Resumed.State.HasProgress()
}

// Resume loads the active goal and runs the resume checks on it.
func (s *Service) Resume() (*Session, error) {
	goal, err := s.ActiveGoal()
	if err != nil {
		return nil, err
	}
	return s.resume(goal)
}

// StartResult describes what Start did.
type StartResult struct {
	Session  *Session
	Created  bool
	Switched bool
	Reset    bool
}

// Confirm is asked before switching away from a goal that has progress.
type Confirm func(current *Session) bool

// Start makes subject/period the active goal, registering it on first use.
//
// Switching away from an active goal with progress needs confirm to return
// true, and then begins the new goal from zero. Starting the active goal
// again after it completed resets it for another round.
func (s *Service) Start(subject string, period models.Period, confirm Confirm) (StartResult, error) {
	current, err := s.Resume()
	if err != nil && !errors.Is(err, ErrNoActiveGoal) {
		return StartResult{}, err
	}
	return s.Switch(current, subject, period, confirm)
}

// Switch is Start for a caller that already holds the resumed active
// session, which is then used instead of loading a second tracker. current
// is nil when no goal is active.
func (s *Service) Switch(current *Session, subject string, period models.Period, confirm Confirm) (StartResult, error) {
	subject, err := validation.ValidateSubject(subject)
	if err != nil {
		return StartResult{}, err
	}
	if !period.Valid() {
		return StartResult{}, fmt.Errorf("invalid period %q", period)
	}

	var result StartResult
	goal, err := s.store.GetGoalBySubject(subject, period)
	exists := err == nil
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return StartResult{}, fmt.Errorf("failed to look up goal: %w", err)
	}

	if exists && current != nil && current.Goal.ID == goal.ID {
		result.Session = current
		snap := current.Tracker.Snapshot()
		if snap.LearnedCount >= snap.Threshold {
			s.resetSession(current)
			result.Reset = true
		}
		return result, nil
	}

	needsReset := current != nil && current.Tracker.Snapshot().HasProgress()
	if needsReset && (confirm == nil || !confirm(current)) {
		return StartResult{}, ErrSwitchDeclined
	}

	if !exists {
		goal = models.Goal{
			ID:        uuid.New().String(),
			Subject:   subject,
			Period:    period,
			CreatedAt: s.clock.Now().UTC(),
		}
		if err := s.store.AddGoal(goal); err != nil {
			return StartResult{}, fmt.Errorf("failed to register goal: %w", err)
		}
		result.Created = true
	}

	session, err := s.resume(goal)
	if err != nil {
		return StartResult{}, err
	}
	if needsReset {
		s.resetSession(session)
		result.Reset = true
	}
	result.Session = session

	if err := s.setActive(goal.ID); err != nil {
		return StartResult{}, err
	}
	result.Switched = current != nil
	logger.Info("Active goal changed", "goal", goal.String(), "reset", result.Reset)
	return result, nil
}

func (s *Service) resetSession(session *Session) {
	out := session.Tracker.Reset()
	session.Resumed = out
	session.StreakBroken = false
}

func (s *Service) setActive(id string) error {
	settings, err := s.store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.ActiveGoalID = id
	if err := s.store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// Summary pairs a registered goal with its current state.
type Summary struct {
	Goal   models.Goal
	State  streak.Snapshot
	Active bool
}

// List returns every goal with its state. The active goal is read from
// active when it is the caller's session for that goal; every other goal
// is shown as last saved. List never writes.
func (s *Service) List(active *Session) ([]Summary, error) {
	all, err := s.store.GetAllGoals()
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	settings, err := s.store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	summaries := make([]Summary, 0, len(all))
	for _, g := range all {
		var snap streak.Snapshot
		if active != nil && active.Goal.ID == g.ID {
			snap = active.Tracker.Snapshot()
		} else {
			tr, err := s.Tracker(g)
			if err != nil {
				return nil, err
			}
			snap = tr.Snapshot()
		}
		summaries = append(summaries, Summary{Goal: g, State: snap, Active: g.ID == settings.ActiveGoalID})
	}
	return summaries, nil
}

// Celebrate sends the completion notification for out when it completed the
// goal and notifications are enabled. Delivery is best effort.
func (s *Service) Celebrate(goal models.Goal, out streak.Outcome) error {
	if !out.Completed || s.notifier == nil {
		return nil
	}
	settings, err := s.store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !settings.NotificationsEnabled {
		return nil
	}

	msg := notifier.CompletionMessage(goal.Subject, goal.Period, out.State.LearnedCount)
	if err := s.notifier.Notify(msg); err != nil {
		if errors.Is(err, notifier.ErrTrayNotRunning) {
			logger.Debug("Tray app not running, skipping notification")
			return nil
		}
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}
