// Package calendar renders a goal's day logs as a month grid, a week strip
// and the plain ASCII history used by the log command.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/learnlit/internal/models"
	"github.com/julianstephens/learnlit/internal/streak"
)

const (
	markLearned = "x"
	markFrozen  = "~"
	markNone    = "."
)

var weekdays = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Learned lipgloss.Style
	Frozen  lipgloss.Style
	Empty   lipgloss.Style
	Today   lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		Header:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Learned: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		Frozen:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Empty:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Today:   lipgloss.NewStyle().Underline(true),
	}
}

// PlainStyles renders without any styling.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Title: s, Header: s, Learned: s, Frozen: s, Empty: s, Today: s}
}

func mark(status models.DayStatus, ok bool) string {
	switch {
	case !ok:
		return markNone
	case status == models.DayFrozen:
		return markFrozen
	default:
		return markLearned
	}
}

func (s Styles) cell(text string, status models.DayStatus, ok, today bool) string {
	style := s.Empty
	if ok {
		style = s.Learned
		if status == models.DayFrozen {
			style = s.Frozen
		}
	}
	if today {
		style = style.Inherit(s.Today)
	}
	return style.Render(text)
}

// Month renders year/month as a Sunday-first grid. Each
// day shows its number followed by x (learned), ~ (frozen) or a blank.
func Month(year int, month time.Month, logs map[streak.DayKey]models.DayStatus, today streak.DayKey, styles Styles) string {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysIn := first.AddDate(0, 1, -1).Day()
	offset := int(first.Weekday())

	var b strings.Builder
	title := first.Format("January 2006")
	width := len(weekdays)*4 - 1
	pad := max((width-len(title))/2, 0)
	b.WriteString(strings.Repeat(" ", pad) + styles.Title.Render(title) + "\n")

	headers := make([]string, len(weekdays))
	for i, d := range weekdays {
		headers[i] = fmt.Sprintf("%-3s", d)
	}
	b.WriteString(styles.Header.Render(strings.TrimRight(strings.Join(headers, " "), " ")) + "\n")

	cells := make([]string, 0, 7)
	flush := func() {
		b.WriteString(strings.TrimRight(strings.Join(cells, " "), " ") + "\n")
		cells = cells[:0]
	}
	for i := 0; i < offset; i++ {
		cells = append(cells, "   ")
	}
	for day := 1; day <= daysIn; day++ {
		key := streak.DayKey(year*10000 + int(month)*100 + day)
		status, ok := logs[key]
		m := " "
		if ok {
			m = mark(status, ok)
		}
		cells = append(cells, styles.cell(fmt.Sprintf("%2d%s", day, m), status, ok, key == today))
		if len(cells) == 7 {
			flush()
		}
	}
	if len(cells) > 0 {
		flush()
	}
	return strings.TrimRight(b.String(), "\n")
}

// Week renders the Sunday-first week containing today as two rows: day
// names and marks.
func Week(today streak.DayKey, logs map[streak.DayKey]models.DayStatus, styles Styles) string {
	start := today.Date(time.UTC)
	start = start.AddDate(0, 0, -int(start.Weekday()))

	names := make([]string, 7)
	marks := make([]string, 7)
	for i := 0; i < 7; i++ {
		key := streak.DayKeyOf(start.AddDate(0, 0, i), time.UTC)
		status, ok := logs[key]
		names[i] = styles.Header.Render(weekdays[i])
		marks[i] = styles.cell(fmt.Sprintf("%-2s", mark(status, ok)), status, ok, key == today)
	}
	return strings.Join(names, " ") + "\n" + strings.TrimRight(strings.Join(marks, " "), " ")
}

// History renders the days days ending at end as an ASCII strip with a
// MM/DD header, one column per day.
func History(logs map[streak.DayKey]models.DayStatus, end streak.DayKey, days int) string {
	if days < 1 {
		days = 1
	}
	start := end.Date(time.UTC).AddDate(0, 0, -(days - 1))

	var header, sep, row strings.Builder
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		status, ok := logs[streak.DayKeyOf(day, time.UTC)]
		fmt.Fprintf(&header, " %5s", day.Format("01/02"))
		sep.WriteString("------")
		fmt.Fprintf(&row, "  %s   ", mark(status, ok))
	}
	return header.String() + "\n" + sep.String() + "\n" + strings.TrimRight(row.String(), " ")
}

// Legend explains the marks.
func Legend() string {
	return fmt.Sprintf("%s learned   %s frozen   %s no entry", markLearned, markFrozen, markNone)
}
