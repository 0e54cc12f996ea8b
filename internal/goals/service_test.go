package goals

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/learnlit/internal/clock"
	"github.com/julianstephens/learnlit/internal/models"
	"github.com/julianstephens/learnlit/internal/notifier"
	"github.com/julianstephens/learnlit/internal/storage"
	"github.com/julianstephens/learnlit/internal/streak"
	"github.com/julianstephens/learnlit/internal/validation"
)

type recordingNotifier struct {
	messages []string
	err      error
}

func (r *recordingNotifier) Notify(text string) error {
	r.messages = append(r.messages, text)
	return r.err
}

func setupService(t *testing.T) (*Service, *clock.Fake, *recordingNotifier) {
	t.Helper()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Init())

	fake := clock.NewFake(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	n := &recordingNotifier{}
	svc := NewService(store, WithClock(fake), WithLocation(time.UTC), WithNotifier(n))
	return svc, fake, n
}

// nextDay moves the clock forward a day and unlocks the session.
func nextDay(fake *clock.Fake, session *Session) {
	fake.Advance(24 * time.Hour)
	session.Tracker.RefreshDailyLock()
}

func TestActiveGoalNone(t *testing.T) {
	svc, _, _ := setupService(t)

	_, err := svc.ActiveGoal()
	assert.ErrorIs(t, err, ErrNoActiveGoal)

	_, err = svc.Resume()
	assert.ErrorIs(t, err, ErrNoActiveGoal)
}

func TestStartRegistersAndActivates(t *testing.T) {
	svc, _, _ := setupService(t)

	res, err := svc.Start("  Spanish ", models.PeriodWeek, nil)
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.False(t, res.Switched)
	assert.False(t, res.Reset)
	assert.Equal(t, "Spanish", res.Session.Goal.Subject)
	assert.NotEmpty(t, res.Session.Goal.ID)

	active, err := svc.ActiveGoal()
	require.NoError(t, err)
	assert.Equal(t, res.Session.Goal.ID, active.ID)
}

func TestStartRejectsBadInput(t *testing.T) {
	svc, _, _ := setupService(t)

	_, err := svc.Start("   ", models.PeriodWeek, nil)
	assert.ErrorIs(t, err, validation.ErrEmptySubject)

	_, err = svc.Start("Go", models.Period("Decade"), nil)
	assert.Error(t, err)

	goals, err := svc.Store().GetAllGoals()
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestStartSameGoalKeepsProgress(t *testing.T) {
	svc, _, _ := setupService(t)

	res, err := svc.Start("Go", models.PeriodWeek, nil)
	require.NoError(t, err)
	res.Session.Tracker.LogLearned()

	again, err := svc.Start("Go", models.PeriodWeek, nil)
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.False(t, again.Reset)
	assert.Equal(t, 1, again.Session.Tracker.Snapshot().LearnedCount)
}

func TestStartSameGoalAfterCompletionResets(t *testing.T) {
	svc, fake, _ := setupService(t)

	res, err := svc.Start("Go", models.PeriodWeek, nil)
	require.NoError(t, err)
	session := res.Session
	for i := 0; i < streak.CompletionThreshold(models.PeriodWeek); i++ {
		session.Tracker.LogLearned()
		nextDay(fake, session)
	}
	require.Equal(t, 7, session.Tracker.Snapshot().LearnedCount)

	again, err := svc.Start("Go", models.PeriodWeek, nil)
	require.NoError(t, err)
	assert.True(t, again.Reset)
	assert.Equal(t, streak.PhaseFresh, again.Session.Tracker.Snapshot().Phase())
}

func TestSwitchWithProgressNeedsConfirmation(t *testing.T) {
	svc, _, _ := setupService(t)

	first, err := svc.Start("Go", models.PeriodWeek, nil)
	require.NoError(t, err)
	first.Session.Tracker.LogLearned()

	var asked *Session
	_, err = svc.Start("Piano", models.PeriodMonth, func(current *Session) bool {
		asked = current
		return false
	})
	assert.ErrorIs(t, err, ErrSwitchDeclined)
	require.NotNil(t, asked)
	assert.Equal(t, "Go", asked.Goal.Subject)

	active, err := svc.ActiveGoal()
	require.NoError(t, err)
	assert.Equal(t, first.Session.Goal.ID, active.ID)

	// Declining does not register the new goal.
	_, err = svc.Store().GetGoalBySubject("Piano", models.PeriodMonth)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSwitchConfirmedResetsNewGoal(t *testing.T) {
	svc, fake, _ := setupService(t)

	// Piano has leftover progress from an earlier run.
	piano, err := svc.Start("Piano", models.PeriodMonth, nil)
	require.NoError(t, err)
	piano.Session.Tracker.LogLearned()

	_, err = svc.Start("Go", models.PeriodWeek, func(*Session) bool { return true })
	require.NoError(t, err)
	goSession, err := svc.Resume()
	require.NoError(t, err)
	nextDay(fake, goSession)
	goSession.Tracker.LogLearned()

	res, err := svc.Start("Piano", models.PeriodMonth, func(*Session) bool { return true })
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.True(t, res.Switched)
	assert.True(t, res.Reset)
	assert.False(t, res.Session.Tracker.Snapshot().HasProgress())

	// The goal switched away from keeps its state.
	goTracker, err := svc.Tracker(goSession.Goal)
	require.NoError(t, err)
	assert.Equal(t, 1, goTracker.Snapshot().LearnedCount)
}

func TestSwitchWithoutProgressSkipsConfirmation(t *testing.T) {
	svc, _, _ := setupService(t)

	_, err := svc.Start("Go", models.PeriodWeek, nil)
	require.NoError(t, err)

	res, err := svc.Start("Piano", models.PeriodWeek, func(*Session) bool {
		t.Fatal("confirmation should not be asked")
		return false
	})
	require.NoError(t, err)
	assert.True(t, res.Switched)
	assert.False(t, res.Reset)
}

func TestResumeReportsBrokenStreak(t *testing.T) {
	svc, fake, _ := setupService(t)

	res, err := svc.Start("Go", models.PeriodWeek, nil)
	require.NoError(t, err)
	res.Session.Tracker.LogLearned()

	fake.Advance(streak.InactivityWindow + time.Minute)
	session, err := svc.Resume()
	require.NoError(t, err)
	assert.True(t, session.StreakBroken)
	assert.Equal(t, streak.ResultApplied, session.Resumed.Result)
	assert.Equal(t, 0, session.Tracker.Snapshot().LearnedCount)
}

func TestResumeSameDayIsLocked(t *testing.T) {
	svc, fake, _ := setupService(t)

	res, err := svc.Start("Go", models.PeriodWeek, nil)
	require.NoError(t, err)
	res.Session.Tracker.LogLearned()

	fake.Advance(2 * time.Hour)
	session, err := svc.Resume()
	require.NoError(t, err)
	assert.False(t, session.StreakBroken)
	assert.True(t, session.Tracker.Snapshot().LockedToday)
	assert.Equal(t, streak.ResultLocked, session.Tracker.LogLearned().Result)
}

func TestList(t *testing.T) {
	svc, _, _ := setupService(t)

	res, err := svc.Start("Go", models.PeriodWeek, nil)
	require.NoError(t, err)
	res.Session.Tracker.LogFrozen()
	_, err = svc.Start("Art", models.PeriodYear, func(*Session) bool { return true })
	require.NoError(t, err)

	list, err := svc.List(nil)
	require.NoError(t, err)
	require.Len(t, list, 2)

	byName := map[string]Summary{}
	for _, s := range list {
		byName[s.Goal.Subject] = s
	}
	assert.True(t, byName["Art"].Active)
	assert.False(t, byName["Go"].Active)
	assert.Equal(t, 1, byName["Go"].State.FrozenCount)
}

func TestListReadsCallerSession(t *testing.T) {
	svc, fake, _ := setupService(t)

	res, err := svc.Start("Go", models.PeriodWeek, nil)
	require.NoError(t, err)
	session := res.Session
	session.Tracker.LogLearned()

	// The session has not resumed yet, so it still holds the old count.
	fake.Advance(40 * time.Hour)
	list, err := svc.List(session)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].State.LearnedCount)

	tr, err := svc.Tracker(session.Goal)
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Snapshot().LearnedCount, "List must not write")

	session.Resume()
	assert.True(t, session.StreakBroken)
	list, err = svc.List(session)
	require.NoError(t, err)
	assert.Equal(t, 0, list[0].State.LearnedCount)
	assert.True(t, list[0].Active)
}

func TestSwitchUsesCallerSession(t *testing.T) {
	svc, fake, _ := setupService(t)

	res, err := svc.Start("Go", models.PeriodWeek, nil)
	require.NoError(t, err)
	session := res.Session
	for day := 1; day <= 7; day++ {
		if day > 1 {
			nextDay(fake, session)
		}
		session.Tracker.LogLearned()
	}

	again, err := svc.Switch(session, "Go", models.PeriodWeek, nil)
	require.NoError(t, err)
	assert.True(t, again.Reset)
	assert.Same(t, session, again.Session)
	assert.Equal(t, 0, session.Tracker.Snapshot().LearnedCount)

	session.Tracker.LogLearned()
	_, err = svc.Switch(session, "Art", models.PeriodMonth, func(*Session) bool { return false })
	assert.ErrorIs(t, err, ErrSwitchDeclined)
	assert.Equal(t, 1, session.Tracker.Snapshot().LearnedCount)
}

func TestSessionResumeAfterDayBoundary(t *testing.T) {
	svc, fake, _ := setupService(t)

	res, err := svc.Start("Go", models.PeriodWeek, nil)
	require.NoError(t, err)
	session := res.Session
	session.Tracker.LogLearned()

	fake.Advance(15 * time.Hour)
	session.Resume()
	assert.False(t, session.StreakBroken)
	assert.False(t, session.Resumed.State.LockedToday)
	assert.Equal(t, 1, session.Resumed.State.LearnedCount)

	fake.Advance(18 * time.Hour)
	session.Resume()
	assert.True(t, session.StreakBroken)
	assert.Equal(t, 0, session.Tracker.Snapshot().LearnedCount)

	// An already empty goal is not reported as broken again.
	session.Resume()
	assert.False(t, session.StreakBroken)
}

func TestCelebrate(t *testing.T) {
	svc, _, n := setupService(t)
	goal := models.Goal{Subject: "Go", Period: models.PeriodWeek}

	require.NoError(t, svc.Celebrate(goal, streak.Outcome{Completed: false}))
	assert.Empty(t, n.messages)

	done := streak.Outcome{Completed: true, State: streak.Snapshot{LearnedCount: 7}}
	require.NoError(t, svc.Celebrate(goal, done))
	require.Len(t, n.messages, 1)
	assert.Equal(t, notifier.CompletionMessage("Go", models.PeriodWeek, 7), n.messages[0])

	// Tray not running is not an error.
	n.err = notifier.ErrTrayNotRunning
	assert.NoError(t, svc.Celebrate(goal, done))

	n.err = errors.New("connection refused")
	assert.Error(t, svc.Celebrate(goal, done))
}

func TestCelebrateRespectsSetting(t *testing.T) {
	svc, _, n := setupService(t)

	settings, err := svc.Store().GetSettings()
	require.NoError(t, err)
	settings.NotificationsEnabled = false
	require.NoError(t, svc.Store().SaveSettings(settings))

	done := streak.Outcome{Completed: true, State: streak.Snapshot{LearnedCount: 7}}
	require.NoError(t, svc.Celebrate(models.Goal{Subject: "Go", Period: models.PeriodWeek}, done))
	assert.Empty(t, n.messages)
}

func TestNoNotifier(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Init())
	svc := NewService(store)

	assert.NoError(t, svc.Celebrate(models.Goal{}, streak.Outcome{Completed: true}))
	assert.Equal(t, time.Local, svc.Location())
}
