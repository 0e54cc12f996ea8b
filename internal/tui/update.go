package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/learnlit/internal/cli"
	"github.com/julianstephens/learnlit/internal/goals"
	"github.com/julianstephens/learnlit/internal/logger"
	"github.com/julianstephens/learnlit/internal/models"
	"github.com/julianstephens/learnlit/internal/streak"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case dayChangedMsg:
		m.onDayChanged()
		return m, waitForDay(m.days)
	}

	switch m.state {
	case StateStartGoal:
		return m.updateStartForm(msg)
	case StateConfirm:
		return m.updateConfirm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.state == StateCompleted {
		return m.updateCompleted(km)
	}
	return m.updateTab(km)
}

func (m Model) updateTab(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Tab):
		m.state = (m.state + 1) % tabCount
	case key.Matches(msg, m.keys.ShiftTab):
		m.state = (m.state - 1 + tabCount) % tabCount
	case key.Matches(msg, m.keys.Learned):
		m.logDay(true)
	case key.Matches(msg, m.keys.Frozen):
		m.logDay(false)
	case key.Matches(msg, m.keys.NewGoal):
		return m, m.openStartForm()
	case key.Matches(msg, m.keys.Reset):
		return m, m.resetGoal()
	case m.state == StateCalendar && key.Matches(msg, m.keys.PrevMonth):
		m.month = m.month.AddDate(0, -1, 0)
	case m.state == StateCalendar && key.Matches(msg, m.keys.NextMonth):
		m.month = m.month.AddDate(0, 1, 0)
	case m.state == StateGoals && key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case m.state == StateGoals && key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.summaries)-1 {
			m.cursor++
		}
	case m.state == StateGoals && key.Matches(msg, m.keys.Enter):
		return m, m.selectGoal()
	}
	return m, nil
}

func (m *Model) onDayChanged() {
	if m.session == nil {
		return
	}
	m.session.Resume()
	logger.Debug("Day changed", "goal", m.session.Goal.String(),
		"locked", m.session.Resumed.State.LockedToday, "reset", m.session.StreakBroken)
	m.status = ""
	m.noteResume()
	m.month = firstOfMonth(m.svc.Clock().Now(), m.svc.Location())
	m.refreshGoals()
}

func (m *Model) logDay(learned bool) {
	if m.session == nil {
		m.err = goals.ErrNoActiveGoal
		return
	}
	m.notice = ""
	m.session.Resume()
	m.noteResume()

	var out streak.Outcome
	if learned {
		out = m.session.Tracker.LogLearned()
	} else {
		out = m.session.Tracker.LogFrozen()
	}
	m.status = cli.FormatOutcome(out)
	m.err = out.PersistErr

	if err := m.svc.Celebrate(m.session.Goal, out); err != nil {
		logger.Warn("Completion notification failed", "error", err)
	}
	if out.Completed {
		m.previousState = m.state
		m.state = StateCompleted
	}
	m.refreshGoals()
}

func (m *Model) resetGoal() tea.Cmd {
	snap, ok := m.snapshot()
	if !ok {
		m.err = goals.ErrNoActiveGoal
		return nil
	}
	if !snap.HasProgress() {
		m.status = "Nothing to reset."
		return nil
	}
	msg := fmt.Sprintf("Reset %s? All progress will be lost.", m.session.Goal)
	return m.askConfirmation(msg, func(m *Model) tea.Cmd {
		out := m.session.Tracker.Reset()
		m.status = cli.FormatOutcome(out)
		m.err = out.PersistErr
		m.refreshGoals()
		return nil
	})
}

func (m *Model) selectGoal() tea.Cmd {
	if len(m.summaries) == 0 {
		return nil
	}
	selected := m.summaries[m.cursor]
	if selected.Active {
		m.status = fmt.Sprintf("%s is already active.", selected.Goal)
		return nil
	}
	return m.startGoal(selected.Goal.Subject, selected.Goal.Period)
}

func (m *Model) openStartForm() tea.Cmd {
	if m.state < tabCount {
		m.previousState = m.state
	}
	m.startForm = &StartFormModel{Period: models.PeriodWeek}
	m.form = NewStartForm(m.startForm)
	m.state = StateStartGoal
	return m.form.Init()
}

// startGoal activates subject/period, asking first when that would leave a
// goal with progress behind.
func (m *Model) startGoal(subject string, period models.Period) tea.Cmd {
	if snap, ok := m.snapshot(); ok && snap.HasProgress() && !m.isActive(subject, period) {
		msg := fmt.Sprintf("%s has progress. Switch anyway and start %s (%s) from zero?",
			m.session.Goal, strings.TrimSpace(subject), period)
		return m.askConfirmation(msg, func(m *Model) tea.Cmd {
			m.applyStart(subject, period, true)
			return nil
		})
	}
	m.applyStart(subject, period, false)
	return nil
}

func (m *Model) isActive(subject string, period models.Period) bool {
	return m.session != nil &&
		m.session.Goal.Subject == strings.TrimSpace(subject) &&
		m.session.Goal.Period == period
}

func (m *Model) applyStart(subject string, period models.Period, confirmed bool) {
	res, err := m.svc.Switch(m.session, subject, period, func(*goals.Session) bool { return confirmed })
	if err != nil {
		m.err = err
		return
	}
	m.session = res.Session
	m.notice = ""
	m.err = res.Session.Resumed.PersistErr

	goal := res.Session.Goal
	switch {
	case res.Reset:
		m.status = fmt.Sprintf("Starting %s from zero.", goal)
	case res.Created:
		m.status = fmt.Sprintf("Started %s.", goal)
	default:
		m.status = fmt.Sprintf("Now tracking %s.", goal)
	}
	m.state = StateToday
	m.month = firstOfMonth(m.svc.Clock().Now(), m.svc.Location())
	m.refreshGoals()
}

func (m *Model) askConfirmation(message string, action func(*Model) tea.Cmd) tea.Cmd {
	if m.state < tabCount {
		m.previousState = m.state
	}
	m.confirmForm = &ConfirmationFormModel{Message: message}
	m.pendingAction = action
	m.form = NewConfirmationForm(m.confirmForm)
	m.state = StateConfirm
	return m.form.Init()
}

// finishConfirmation closes the confirmation dialog, running the pending
// action when confirmed.
func (m *Model) finishConfirmation(confirmed bool) tea.Cmd {
	action := m.pendingAction
	m.pendingAction = nil
	m.confirmForm = nil
	m.state = m.previousState
	if confirmed && action != nil {
		return action(m)
	}
	return nil
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		return m, m.finishConfirmation(false)
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		cmds = append(cmds, m.finishConfirmation(m.confirmForm.Confirmed))
	case huh.StateAborted:
		cmds = append(cmds, m.finishConfirmation(false))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateStartForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		m.state = m.previousState
		cmds = append(cmds, m.startGoal(m.startForm.Subject, m.startForm.Period))
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateCompleted(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Restart):
		m.state = m.previousState
		goal := m.session.Goal
		return m, m.startGoal(goal.Subject, goal.Period)
	case key.Matches(msg, m.keys.NewGoal):
		m.state = m.previousState
		return m, m.openStartForm()
	case key.Matches(msg, m.keys.Dismiss), key.Matches(msg, m.keys.Enter):
		m.state = m.previousState
	}
	return m, nil
}
