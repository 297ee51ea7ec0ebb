package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/habitr/internal/focus"
	"github.com/sadopc/habitr/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewHabits
	viewAnalytics
	viewFocus
	viewSettings
)

var viewNames = []string{"Today", "Habits", "Analytics", "Focus", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type habitToggledMsg struct {
	habitID int64
	log     *store.HabitLog
	err     error
}

type commitRecordedMsg struct {
	commit focus.Commit
	err    error
}

type settingsSavedMsg struct {
	cfg   focus.Config
	sound bool
}

// dbChangedMsg reports a write to the database file from another process.
type dbChangedMsg struct{}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func today() string {
	return time.Now().Format(store.DateLayout)
}

// formatClock renders a countdown as MM:SS.
func formatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func formatMinutes(mins float64) string {
	total := int(mins + 0.5)
	if total < 60 {
		return fmt.Sprintf("%dm", total)
	}
	return fmt.Sprintf("%dh %02dm", total/60, total%60)
}

func formatTarget(h store.Habit) string {
	if h.TargetValue == 0 {
		return "-"
	}
	return fmt.Sprintf("%g %s", h.TargetValue, h.Unit)
}

func errStatus(action string, err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("%s: %v", action, err), isError: true}
	}
}
