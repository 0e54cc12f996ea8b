package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/learnlit/internal/clock"
	"github.com/julianstephens/learnlit/internal/goals"
	"github.com/julianstephens/learnlit/internal/models"
	"github.com/julianstephens/learnlit/internal/streak"
)

type SessionState int

// The first tabCount states are tabs; the rest overlay the tab they were
// opened from.
const (
	StateToday SessionState = iota
	StateCalendar
	StateGoals
	StateStartGoal
	StateConfirm
	StateCompleted
)

const tabCount = 3

var tabTitles = []string{"Today", "Calendar", "Goals"}

type StartFormModel struct {
	Subject string
	Period  models.Period
}

type ConfirmationFormModel struct {
	Message   string
	Confirmed bool
}

// dayChangedMsg is sent when the local calendar day rolls over.
type dayChangedMsg time.Time

type Model struct {
	svc           *goals.Service
	session       *goals.Session
	summaries     []goals.Summary
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	form          *huh.Form
	startForm     *StartFormModel
	confirmForm   *ConfirmationFormModel
	pendingAction func(*Model) tea.Cmd
	month         time.Time // first day of the month shown on the calendar tab
	cursor        int
	days          <-chan time.Time
	notice        string // inactivity notice, shown until the next action
	status        string // result of the last action
	err           error
	quitting      bool
	width         int
	height        int
}

// NewModel resumes the active goal and starts watching for day boundaries
// until ctx is done.
func NewModel(ctx context.Context, svc *goals.Service) Model {
	now := svc.Clock().Now()
	m := Model{
		svc:   svc,
		state: StateToday,
		keys:  DefaultKeyMap(),
		help:  help.New(),
		month: firstOfMonth(now, svc.Location()),
		days:  clock.WatchDays(ctx, svc.Clock(), svc.Location()),
	}
	m.loadSession()
	m.refreshGoals()
	return m
}

// Run starts the TUI in the alternate screen and blocks until it exits.
func Run(ctx context.Context, svc *goals.Service) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(ctx, svc), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}

func firstOfMonth(t time.Time, loc *time.Location) time.Time {
	y, mo, _ := t.In(loc).Date()
	return time.Date(y, mo, 1, 0, 0, 0, 0, loc)
}

func (m *Model) loadSession() {
	session, err := m.svc.Resume()
	switch {
	case errors.Is(err, goals.ErrNoActiveGoal):
		m.session = nil
	case err != nil:
		m.err = err
	default:
		m.session = session
		m.noteResume()
	}
}

// noteResume reports what the last resume of the session did.
func (m *Model) noteResume() {
	if m.session.StreakBroken {
		m.notice = fmt.Sprintf("More than %d hours without a logged day: %s was reset.",
			int(streak.InactivityWindow.Hours()), m.session.Goal)
	}
	m.err = m.session.Resumed.PersistErr
}

func (m *Model) refreshGoals() {
	list, err := m.svc.List(m.session)
	if err != nil {
		m.err = err
		return
	}
	m.summaries = list
	if m.cursor >= len(list) {
		m.cursor = max(len(list)-1, 0)
	}
}

// activeTab is the tab highlighted in the header, also while an overlay is open.
func (m Model) activeTab() SessionState {
	if m.state < tabCount {
		return m.state
	}
	return m.previousState
}

func (m Model) snapshot() (streak.Snapshot, bool) {
	if m.session == nil {
		return streak.Snapshot{}, false
	}
	return m.session.Tracker.Snapshot(), true
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case StateStartGoal, StateConfirm:
		return []key.Binding{m.keys.Dismiss}
	case StateCompleted:
		return []key.Binding{m.keys.Restart, m.keys.NewGoal, m.keys.Dismiss}
	}

	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateToday:
		keys = append(keys, m.keys.Learned, m.keys.Frozen)
	case StateCalendar:
		keys = append(keys, m.keys.PrevMonth, m.keys.NextMonth)
	case StateGoals:
		keys = append(keys, m.keys.Enter, m.keys.NewGoal)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	goal := []key.Binding{m.keys.Learned, m.keys.Frozen, m.keys.NewGoal, m.keys.Reset}

	var nav []key.Binding
	switch m.state {
	case StateCalendar:
		nav = []key.Binding{m.keys.PrevMonth, m.keys.NextMonth}
	case StateGoals:
		nav = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter}
	}
	return [][]key.Binding{global, goal, nav}
}

func (m Model) Init() tea.Cmd {
	return waitForDay(m.days)
}

func waitForDay(ch <-chan time.Time) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		t, ok := <-ch
		if !ok {
			return nil
		}
		return dayChangedMsg(t)
	}
}
