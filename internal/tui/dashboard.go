package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/sadopc/habitr/internal/store"
)

type dashboardModel struct {
	store  *store.Store
	userID string
	log    *zap.Logger
	width  int
	height int

	date          string
	habits        []store.DayHabit
	focusSessions int
	focusMinutes  float64
	cursor        int
}

func newDashboardModel(s *store.Store, userID string, log *zap.Logger) dashboardModel {
	return dashboardModel{
		store:  s,
		userID: userID,
		log:    log,
		date:   today(),
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	date          string
	habits        []store.DayHabit
	focusSessions int
	focusMinutes  float64
	err           error
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		date := today()
		habits, err := d.store.ListDay(d.userID, date)
		if err != nil {
			return dashboardDataMsg{date: date, err: err}
		}

		from, _ := time.ParseInLocation(store.DateLayout, date, time.Local)
		sessions, minutes, err := d.store.FocusStats(d.userID, from, from.AddDate(0, 0, 1))
		return dashboardDataMsg{
			date:          date,
			habits:        habits,
			focusSessions: sessions,
			focusMinutes:  minutes,
			err:           err,
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		if msg.err != nil {
			d.log.Error("load today", zap.Error(msg.err))
			return d, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Error: %v", msg.err), isError: true}
			}
		}
		d.date = msg.date
		d.habits = msg.habits
		d.focusSessions = msg.focusSessions
		d.focusMinutes = msg.focusMinutes
		if d.cursor >= len(d.habits) {
			d.cursor = max(0, len(d.habits)-1)
		}
		return d, nil

	case habitToggledMsg:
		if msg.err != nil {
			d.log.Error("toggle habit", zap.Int64("habit_id", msg.habitID), zap.Error(msg.err))
			return d, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Could not save: %v", msg.err), isError: true}
			}
		}
		if i := d.indexOf(msg.habitID); i >= 0 && msg.log != nil {
			d.habits = slices.Clone(d.habits)
			d.habits[i].Log = msg.log
		}
		return d, nil

	case tickMsg:
		// Roll over at midnight.
		if date := today(); date != d.date {
			d.date = date
			return d, d.loadData()
		}
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Down):
			if d.cursor < len(d.habits)-1 {
				d.cursor++
			}
		case key.Matches(msg, keys.Toggle), key.Matches(msg, keys.Enter):
			return d.toggle()
		}
	}
	return d, nil
}

func (d dashboardModel) indexOf(habitID int64) int {
	for i, h := range d.habits {
		if h.Habit.ID == habitID {
			return i
		}
	}
	return -1
}

// toggle flips the selected habit locally and persists in the background. A
// failed write is reported but the local state is kept.
func (d dashboardModel) toggle() (dashboardModel, tea.Cmd) {
	if len(d.habits) == 0 {
		return d, nil
	}

	now := time.Now()
	h := d.habits[d.cursor]
	optimistic := store.HabitLog{UserID: d.userID, HabitID: h.Habit.ID, Date: d.date}
	if h.Log != nil {
		optimistic = *h.Log
	}
	optimistic.Completed = !optimistic.Completed
	optimistic.CompletedAt = nil
	if optimistic.Completed {
		optimistic.CompletedAt = &now
	}

	d.habits = slices.Clone(d.habits)
	d.habits[d.cursor].Log = &optimistic

	s, userID, date := d.store, d.userID, d.date
	return d, func() tea.Msg {
		l, err := s.ToggleHabitLog(userID, h.Habit.ID, date, now)
		return habitToggledMsg{habitID: h.Habit.ID, log: l, err: err}
	}
}

func (d dashboardModel) completed() int {
	n := 0
	for _, h := range d.habits {
		if h.Done() {
			n++
		}
	}
	return n
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4
	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderSummaryPanel(contentWidth),
		d.renderHabitsPanel(contentWidth),
	)
}

func (d dashboardModel) renderSummaryPanel(w int) string {
	done := d.completed()
	total := len(d.habits)

	progress := mutedStyle.Render("no habits yet")
	if total > 0 {
		style := warningStyle
		if done == total {
			style = successStyle
		}
		progress = style.Render(fmt.Sprintf("%d/%d done", done, total))
	}

	focusLine := mutedStyle.Render("No focus sessions today")
	if d.focusSessions > 0 {
		focusLine = fmt.Sprintf("%s %s",
			highlightStyle.Render(formatMinutes(d.focusMinutes)),
			mutedStyle.Render(fmt.Sprintf("focused in %d sessions", d.focusSessions)))
	}

	header := fmt.Sprintf("%s  %s  %s", titleStyle.Render("Today"), mutedStyle.Render(d.date), progress)
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, header, focusLine))
}

func (d dashboardModel) renderHabitsPanel(w int) string {
	title := titleStyle.Render("Habits")
	if len(d.habits) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No habits yet. Press 2 to go to Habits and create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	for i, h := range d.habits {
		cursor := "  "
		style := normalItemStyle
		if i == d.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		check := mutedStyle.Render("○")
		detail := ""
		if h.Log != nil {
			if h.Log.Completed {
				check = successStyle.Render("●")
			}
			if h.Log.DurationMinutes != nil && *h.Log.DurationMinutes > 0 {
				detail = mutedStyle.Render("  " + formatMinutes(*h.Log.DurationMinutes))
			}
			if h.Log.Completed && h.Log.CompletedAt != nil {
				detail += mutedStyle.Render("  at " + h.Log.CompletedAt.Local().Format("15:04"))
			}
		}

		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(h.Habit.Color)).Render("▍")
		row := fmt.Sprintf("%s%s %s %-22s %-12s %s",
			cursor, check, colorDot, h.Habit.Name, h.Habit.Category, mutedStyle.Render(formatTarget(h.Habit)))
		rows = append(rows, style.Render(row)+detail)
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  space/enter: toggle  ↑/↓: move"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
