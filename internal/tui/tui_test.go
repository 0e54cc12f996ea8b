package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/learnlit/internal/clock"
	"github.com/julianstephens/learnlit/internal/goals"
	"github.com/julianstephens/learnlit/internal/models"
	"github.com/julianstephens/learnlit/internal/storage"
)

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) Notify(text string) error {
	r.messages = append(r.messages, text)
	return nil
}

type testEnv struct {
	svc      *goals.Service
	clock    *clock.Fake
	notifier *recordingNotifier
	ctx      context.Context
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Init())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	fake := clock.NewFake(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	n := &recordingNotifier{}
	svc := goals.NewService(store, goals.WithClock(fake), goals.WithLocation(time.UTC), goals.WithNotifier(n))
	return &testEnv{svc: svc, clock: fake, notifier: n, ctx: ctx}
}

func (e *testEnv) model() Model {
	return NewModel(e.ctx, e.svc)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m
}

// nextDay advances a day and delivers the day boundary to the model.
func (e *testEnv) nextDay(m Model) Model {
	e.clock.Advance(24 * time.Hour)
	next, _ := m.Update(dayChangedMsg(e.clock.Now()))
	return next.(Model)
}

func TestNoActiveGoal(t *testing.T) {
	env := setupTest(t)
	m := env.model()

	assert.Nil(t, m.session)
	assert.Contains(t, m.View(), "No active goal")

	m = press(m, "l")
	assert.ErrorIs(t, m.err, goals.ErrNoActiveGoal)
}

func TestLogKeys(t *testing.T) {
	env := setupTest(t)
	_, err := env.svc.Start("Spanish", models.PeriodWeek, nil)
	require.NoError(t, err)

	m := press(env.model(), "l")
	snap, _ := m.snapshot()
	assert.Equal(t, 1, snap.LearnedCount)
	assert.True(t, snap.LockedToday)
	assert.Contains(t, m.status, "Learned logged (1/7)")

	m = press(m, "f")
	snap, _ = m.snapshot()
	assert.Equal(t, 0, snap.FrozenCount)
	assert.Contains(t, m.status, "already logged")

	m = env.nextDay(m)
	m = press(m, "f")
	snap, _ = m.snapshot()
	assert.Equal(t, 1, snap.FrozenCount)
	assert.Contains(t, m.status, "Freeze used (1 left)")
}

func TestDayChangeUnlocksAndRewatches(t *testing.T) {
	env := setupTest(t)
	_, err := env.svc.Start("Spanish", models.PeriodWeek, nil)
	require.NoError(t, err)

	m := press(env.model(), "l")
	env.clock.Advance(24 * time.Hour)
	next, cmd := m.Update(dayChangedMsg(env.clock.Now()))
	m = next.(Model)

	snap, _ := m.snapshot()
	assert.False(t, snap.LockedToday)
	assert.Empty(t, m.status)
	assert.NotNil(t, cmd)
}

func TestCompletionSheetAndRestart(t *testing.T) {
	env := setupTest(t)
	_, err := env.svc.Start("Spanish", models.PeriodWeek, nil)
	require.NoError(t, err)

	m := env.model()
	for day := 1; day <= 7; day++ {
		if day > 1 {
			m = env.nextDay(m)
		}
		m = press(m, "l")
	}

	assert.Equal(t, StateCompleted, m.state)
	assert.Contains(t, m.View(), "Goal complete!")
	assert.Len(t, env.notifier.messages, 1)

	m = press(m, "r")
	assert.Equal(t, StateToday, m.state)
	snap, _ := m.snapshot()
	assert.Equal(t, 0, snap.LearnedCount)
	assert.Contains(t, m.status, "from zero")
}

func TestCompletionSheetDismiss(t *testing.T) {
	env := setupTest(t)
	m := env.model()
	m.previousState = StateCalendar
	m.state = StateCompleted

	m = press(m, "esc")
	assert.Equal(t, StateCalendar, m.state)
}

func TestTabsCycle(t *testing.T) {
	env := setupTest(t)
	m := env.model()

	m = press(m, "tab")
	assert.Equal(t, StateCalendar, m.state)
	m = press(m, "tab")
	assert.Equal(t, StateGoals, m.state)
	m = press(m, "tab")
	assert.Equal(t, StateToday, m.state)
	m = press(m, "shift+tab")
	assert.Equal(t, StateGoals, m.state)
}

func TestCalendarMonthNavigation(t *testing.T) {
	env := setupTest(t)
	_, err := env.svc.Start("Spanish", models.PeriodWeek, nil)
	require.NoError(t, err)

	m := press(env.model(), "tab")
	assert.Contains(t, m.View(), "March 2026")

	m = press(m, "[")
	assert.Equal(t, time.February, m.month.Month())
	assert.Contains(t, m.View(), "February 2026")

	m = press(m, "]", "]")
	assert.Equal(t, time.April, m.month.Month())
}

func TestInactivityNotice(t *testing.T) {
	env := setupTest(t)
	res, err := env.svc.Start("Spanish", models.PeriodWeek, nil)
	require.NoError(t, err)
	res.Session.Tracker.LogLearned()

	env.clock.Advance(40 * time.Hour)
	m := env.model()

	assert.Contains(t, m.notice, "was reset")
	assert.Contains(t, m.View(), "was reset")
	snap, _ := m.snapshot()
	assert.Equal(t, 0, snap.LearnedCount)

	m = env.nextDay(m)
	m = press(m, "l")
	assert.Empty(t, m.notice)
}

func TestSilentDaysBreakStreakInSession(t *testing.T) {
	env := setupTest(t)
	_, err := env.svc.Start("Spanish", models.PeriodWeek, nil)
	require.NoError(t, err)

	m := press(env.model(), "l")
	m = env.nextDay(m)
	m = press(m, "l")
	snap, _ := m.snapshot()
	require.Equal(t, 2, snap.LearnedCount)

	// 24h without logging keeps the streak, 48h breaks it.
	m = env.nextDay(m)
	snap, _ = m.snapshot()
	assert.Equal(t, 2, snap.LearnedCount)
	assert.Empty(t, m.notice)

	m = env.nextDay(m)
	snap, _ = m.snapshot()
	assert.Equal(t, 0, snap.LearnedCount)
	assert.Contains(t, m.notice, "was reset")
	require.Len(t, m.summaries, 1)
	assert.Equal(t, 0, m.summaries[0].State.LearnedCount)

	m = press(m, "l")
	snap, _ = m.snapshot()
	assert.Equal(t, 1, snap.LearnedCount)
	assert.Len(t, snap.Logs, 1)
	assert.Equal(t, 1, m.summaries[0].State.LearnedCount)

	session, err := env.svc.Resume()
	require.NoError(t, err)
	stored := session.Tracker.Snapshot()
	assert.Equal(t, 1, stored.LearnedCount)
	assert.Len(t, stored.Logs, 1)
}

func TestResetAsksForConfirmation(t *testing.T) {
	env := setupTest(t)
	_, err := env.svc.Start("Spanish", models.PeriodWeek, nil)
	require.NoError(t, err)

	m := press(env.model(), "x")
	assert.Equal(t, "Nothing to reset.", m.status)
	assert.Equal(t, StateToday, m.state)

	m = press(m, "l", "x")
	require.Equal(t, StateConfirm, m.state)
	require.NotNil(t, m.pendingAction)

	m = press(m, "esc")
	assert.Equal(t, StateToday, m.state)
	snap, _ := m.snapshot()
	assert.Equal(t, 1, snap.LearnedCount)

	m = press(m, "x")
	m.finishConfirmation(true)
	assert.Equal(t, StateToday, m.state)
	snap, _ = m.snapshot()
	assert.Equal(t, 0, snap.LearnedCount)
	assert.Contains(t, m.status, "Reset Spanish")
}

func TestSwitchWithProgressNeedsConfirmation(t *testing.T) {
	env := setupTest(t)
	_, err := env.svc.Start("Spanish", models.PeriodWeek, nil)
	require.NoError(t, err)

	m := press(env.model(), "l")
	m.startGoal("Go", models.PeriodMonth)
	require.Equal(t, StateConfirm, m.state)

	m.finishConfirmation(false)
	assert.Equal(t, "Spanish", m.session.Goal.Subject)

	m.startGoal("Go", models.PeriodMonth)
	m.finishConfirmation(true)
	assert.Equal(t, "Go", m.session.Goal.Subject)
	assert.Equal(t, models.PeriodMonth, m.session.Goal.Period)

	active, err := env.svc.ActiveGoal()
	require.NoError(t, err)
	assert.Equal(t, m.session.Goal.ID, active.ID)
	assert.Len(t, m.summaries, 2)
}

func TestGoalsTabSwitchesWithoutProgress(t *testing.T) {
	env := setupTest(t)
	_, err := env.svc.Start("Spanish", models.PeriodWeek, nil)
	require.NoError(t, err)
	env.clock.Advance(time.Minute)
	_, err = env.svc.Start("Go", models.PeriodMonth, nil)
	require.NoError(t, err)

	m := press(env.model(), "tab", "tab")
	require.Equal(t, StateGoals, m.state)
	require.Len(t, m.summaries, 2)
	assert.Contains(t, m.View(), "* Go (Month)")

	m = press(m, "enter")
	assert.Equal(t, "Spanish", m.session.Goal.Subject)
	assert.Equal(t, StateToday, m.state)
	assert.Contains(t, m.status, "Now tracking Spanish (Week)")

	m = press(m, "tab", "tab", "enter")
	assert.Contains(t, m.status, "already active")
}

func TestNewGoalFormOpensAndCancels(t *testing.T) {
	env := setupTest(t)
	m := press(env.model(), "tab", "n")

	require.Equal(t, StateStartGoal, m.state)
	require.NotNil(t, m.form)
	assert.Equal(t, models.PeriodWeek, m.startForm.Period)

	m = press(m, "esc")
	assert.Equal(t, StateCalendar, m.state)
}

func TestQuit(t *testing.T) {
	env := setupTest(t)
	next, cmd := env.model().Update(keyMsg("q"))
	m := next.(Model)

	assert.True(t, m.quitting)
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())
}
