package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/learnlit/internal/calendar"
	"github.com/julianstephens/learnlit/internal/cli"
)

const noGoalText = "No active goal.\n\nPress n to start learning something."

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case StateToday:
		content = m.viewToday()
	case StateCalendar:
		content = m.viewCalendar()
	case StateGoals:
		content = m.viewGoals()
	case StateStartGoal:
		content = docStyle.Render(m.form.View())
	case StateConfirm:
		content = m.viewConfirm()
	case StateCompleted:
		content = m.viewCompleted()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewBanner(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.activeTab() == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewBanner() string {
	var lines []string
	if m.notice != "" {
		lines = append(lines, warningStyle.Render("⚠ "+m.notice))
	}
	if m.err != nil {
		lines = append(lines, dangerStyle.Render("Error: "+m.err.Error()))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewStatus() string {
	if m.status == "" {
		return ""
	}
	return statusStyle.Render(m.status)
}

func (m Model) viewToday() string {
	snap, ok := m.snapshot()
	if !ok {
		return docStyle.Render(noGoalText)
	}
	return docStyle.Render(
		cli.FormatStatus(m.session.Goal, snap, m.svc.Location()) + "\n\n" +
			calendar.Week(m.svc.Today(), snap.Logs, calendar.DefaultStyles()),
	)
}

func (m Model) viewCalendar() string {
	snap, ok := m.snapshot()
	if !ok {
		return docStyle.Render(noGoalText)
	}
	grid := calendar.Month(m.month.Year(), m.month.Month(), snap.Logs, m.svc.Today(), calendar.DefaultStyles())
	return docStyle.Render(grid + "\n\n" + calendar.Legend())
}

func (m Model) viewGoals() string {
	if len(m.summaries) == 0 {
		return docStyle.Render("No goals yet. Press n to start one.")
	}

	var b strings.Builder
	for i, s := range m.summaries {
		marker := " "
		if s.Active {
			marker = "*"
		}
		line := fmt.Sprintf("%s %s  %d/%d learned, %d/%d freezes",
			marker, s.Goal, s.State.LearnedCount, s.State.Threshold, s.State.FrozenCount, s.State.FreezeQuota)
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		if i < len(m.summaries)-1 {
			b.WriteString("\n")
		}
	}
	return docStyle.Render(b.String())
}

func (m Model) viewConfirm() string {
	return lipgloss.Place(m.width, max(m.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		m.form.View(),
	)
}

func (m Model) viewCompleted() string {
	snap, _ := m.snapshot()
	sheet := sheetStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		"🎉 Goal complete!",
		"",
		fmt.Sprintf("%d days of %s this %s.", snap.LearnedCount, snap.Subject, strings.ToLower(string(snap.Period))),
		"",
		"[r] Same goal again   [n] New goal   [esc] Close",
	))
	return lipgloss.Place(m.width, max(m.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		sheet,
	)
}
