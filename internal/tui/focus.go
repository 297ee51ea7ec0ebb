package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/sadopc/habitr/internal/focus"
	"github.com/sadopc/habitr/internal/store"
)

var sessionTabs = []focus.SessionType{focus.Work, focus.ShortBreak, focus.LongBreak}

type focusModel struct {
	store    *store.Store
	userID   string
	log      *zap.Logger
	recorder *focus.Recorder
	sound    bool
	width    int
	height   int

	// Owned by the Bubble Tea update loop; never touched from commands.
	machine *focus.Machine
	habits  []store.Habit

	formActive bool
	form       *huh.Form
	pickedID   *int64
}

func newFocusModel(s *store.Store, userID string, log *zap.Logger) focusModel {
	var picked int64
	return focusModel{
		store:    s,
		userID:   userID,
		log:      log,
		recorder: focus.NewRecorder(s, log),
		sound:    soundEnabled(s),
		machine:  focus.New(focus.LoadConfig(s), nil),
		pickedID: &picked,
	}
}

func (p *focusModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type focusHabitsMsg struct {
	habits []store.Habit
	err    error
}

func (p focusModel) refresh() tea.Cmd {
	s, userID := p.store, p.userID
	return func() tea.Msg {
		habits, err := s.FetchHabits(userID, store.HabitFilter{})
		return focusHabitsMsg{habits: habits, err: err}
	}
}

func (p focusModel) record(c focus.Commit) tea.Cmd {
	rec, userID := p.recorder, p.userID
	return func() tea.Msg {
		return commitRecordedMsg{commit: c, err: rec.Record(userID, c)}
	}
}

func (p focusModel) update(msg tea.Msg) (focusModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tickMsg:
		if c, ok := p.machine.Tick(); ok {
			p.log.Debug("work session complete", zap.Int("pomodoros", c.Pomodoros), zap.Int64("habit_id", c.HabitID))
			return p, p.record(c)
		}
		return p, nil

	case commitRecordedMsg:
		if msg.err != nil {
			return p, errStatus("Focus session not saved", msg.err)
		}
		text := fmt.Sprintf("Pomodoro %d done, %d min logged", msg.commit.Pomodoros, msg.commit.SessionMinutes)
		if msg.commit.HasHabit() {
			text += " to " + msg.commit.HabitName
		}
		if p.sound {
			text += " \a"
		}
		return p, func() tea.Msg { return statusMsg{text: text} }

	case focusHabitsMsg:
		if msg.err != nil {
			return p, errStatus("Load habits", msg.err)
		}
		p.habits = msg.habits
		return p, nil

	case settingsSavedMsg:
		p.machine.Reconfigure(msg.cfg)
		p.sound = msg.sound
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Toggle), key.Matches(msg, keys.Enter):
			p.machine.Toggle()
		case key.Matches(msg, keys.Reset):
			p.machine.Reset()
		case key.Matches(msg, keys.Skip):
			p.machine.Skip()
		case key.Matches(msg, keys.Left):
			p.machine.Switch(sessionTabs[(p.tabIndex()+len(sessionTabs)-1)%len(sessionTabs)])
		case key.Matches(msg, keys.Right):
			p.machine.Switch(sessionTabs[(p.tabIndex()+1)%len(sessionTabs)])
		case key.Matches(msg, keys.Pick):
			return p.showPicker()
		}
	}
	return p, nil
}

func (p focusModel) tabIndex() int {
	for i, t := range sessionTabs {
		if t == p.machine.Session() {
			return i
		}
	}
	return 0
}

func (p focusModel) showPicker() (focusModel, tea.Cmd) {
	*p.pickedID = 0
	if h := p.machine.Habit(); h != nil {
		*p.pickedID = h.ID
	}

	options := []huh.Option[int64]{huh.NewOption("No habit", int64(0))}
	for _, h := range p.habits {
		label := h.Name
		if m := h.TargetMinutes(); m > 0 {
			label += fmt.Sprintf(" (%d min)", m)
		}
		options = append(options, huh.NewOption(label, h.ID))
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int64]().Title("Focus on").Options(options...).Value(p.pickedID),
		),
	).WithShowHelp(true)
	p.formActive = true
	return p, p.form.Init()
}

func (p focusModel) updateForm(msg tea.Msg) (focusModel, tea.Cmd) {
	// The countdown keeps running while the picker is open.
	if t, ok := msg.(tickMsg); ok {
		p.formActive = false
		next, cmd := p.update(t)
		next.formActive = true
		return next, cmd
	}
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		p.formActive = false
		p.form = nil
		return p, nil
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		p.form = nil
		p.bind(*p.pickedID)
		return p, nil
	}
	return p, cmd
}

func (p focusModel) bind(habitID int64) {
	for _, h := range p.habits {
		if h.ID == habitID {
			p.machine.BindHabit(focus.HabitFrom(h))
			return
		}
	}
	p.machine.BindHabit(nil)
}

func (p focusModel) running() bool {
	return p.machine.Running()
}

func (p focusModel) view() string {
	w := p.width - 4

	if p.formActive && p.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Pick a habit"), "", p.form.View()),
		)
	}

	m := p.machine
	var tabs []string
	for _, t := range sessionTabs {
		if t == m.Session() {
			tabs = append(tabs, activeTabStyle.Render(t.String()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(t.String()))
		}
	}

	style := timerStyle
	indicator := mutedStyle.Render("■  PAUSED")
	if m.Running() {
		indicator = successStyle.Render("●  RUNNING")
		switch m.Session() {
		case focus.Work:
			style = timerRunningStyle
		case focus.ShortBreak:
			style = lipgloss.NewStyle().Bold(true).Foreground(colorSecondary)
		case focus.LongBreak:
			style = highlightStyle.Bold(true)
		}
	}
	timeDisplay := style.Width(w - 6).Align(lipgloss.Center).Render(formatClock(m.SecondsRemaining()))

	habitLine := mutedStyle.Render("No habit selected (p to pick)")
	if h := m.Habit(); h != nil {
		habitLine = highlightStyle.Render(h.Name)
		if h.TargetMinutes > 0 {
			habitLine += mutedStyle.Render(fmt.Sprintf("  target %d min", h.TargetMinutes))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...),
		"",
		timeDisplay,
		indicator,
		"",
		habitLine,
		p.renderProgress(),
	)

	controls := mutedStyle.Render("space: start/pause  r: reset  x: skip  ←/→: session  p: pick habit")
	if m.Running() {
		return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Center, content, "", controls))
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Center, content, "", controls))
}

// renderProgress shows the pomodoros done in the current long-break cycle.
func (p focusModel) renderProgress() string {
	m := p.machine
	interval := m.Config().LongBreakInterval
	done := m.CompletedPomodoros() % interval
	if done == 0 && m.CompletedPomodoros() > 0 && m.Session() == focus.LongBreak {
		done = interval
	}

	var parts []string
	for i := range interval {
		switch {
		case i < done:
			parts = append(parts, successStyle.Render("●"))
		case i == done && m.Session() == focus.Work && m.WorkSecondsElapsed() > 0:
			parts = append(parts, accentStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	counter := mutedStyle.Render(fmt.Sprintf("  %d total", m.CompletedPomodoros()))
	return strings.Join(parts, " ") + counter
}
