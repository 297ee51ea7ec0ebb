package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/sadopc/habitr/internal/store"
)

var habitColors = []string{"#6C63FF", "#2EC4B6", "#FF6B6B", "#F39C12", "#2ECC71", "#E74C3C", "#9B59B6", "#3498DB"}
var habitCategories = []string{"general", "fitness", "health", "learning", "mindfulness", "work", "creative"}
var habitUnits = []string{"minutes", "hours", "times", "pages", "glasses"}

type habitsModel struct {
	store  *store.Store
	userID string
	log    *zap.Logger
	width  int
	height int

	habits       []store.Habit
	cursor       int
	showArchived bool

	formActive bool
	form       *huh.Form
	editingID  int64 // 0 while creating

	// Form field pointers (survive value copies)
	formName     *string
	formCategory *string
	formTarget   *string
	formUnit     *string
	formColor    *string
}

func newHabitsModel(s *store.Store, userID string, log *zap.Logger) habitsModel {
	name, cat, target, unit, color := "", habitCategories[0], "", habitUnits[0], habitColors[0]
	return habitsModel{
		store:        s,
		userID:       userID,
		log:          log,
		formName:     &name,
		formCategory: &cat,
		formTarget:   &target,
		formUnit:     &unit,
		formColor:    &color,
	}
}

func (p *habitsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type habitsDataMsg struct {
	habits []store.Habit
	err    error
}

type habitSavedMsg struct {
	name string
	err  error
}

func (p habitsModel) refresh() tea.Cmd {
	s, userID, archived := p.store, p.userID, p.showArchived
	return func() tea.Msg {
		habits, err := s.FetchHabits(userID, store.HabitFilter{IncludeArchived: archived})
		return habitsDataMsg{habits: habits, err: err}
	}
}

func (p habitsModel) update(msg tea.Msg) (habitsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case habitsDataMsg:
		if msg.err != nil {
			return p, errStatus("Load habits", msg.err)
		}
		p.habits = msg.habits
		if p.cursor >= len(p.habits) {
			p.cursor = max(0, len(p.habits)-1)
		}
		return p, nil

	case habitSavedMsg:
		if msg.err != nil {
			p.log.Error("save habit", zap.String("name", msg.name), zap.Error(msg.err))
			return p, errStatus("Save habit", msg.err)
		}
		return p, tea.Batch(p.refresh(), func() tea.Msg {
			return statusMsg{text: "Saved " + msg.name}
		})

	case tea.KeyMsg:
		return p.updateList(msg)
	}
	return p, nil
}

func (p habitsModel) updateList(msg tea.KeyMsg) (habitsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.habits)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.New):
		return p.showForm(nil)
	case key.Matches(msg, keys.Enter):
		if len(p.habits) > 0 {
			h := p.habits[p.cursor]
			return p.showForm(&h)
		}
	case key.Matches(msg, keys.Archived):
		p.showArchived = !p.showArchived
		return p, p.refresh()
	case key.Matches(msg, keys.Archive):
		if len(p.habits) > 0 {
			h := p.habits[p.cursor]
			if err := p.store.ArchiveHabit(h.ID); err != nil {
				return p, errStatus("Archive", err)
			}
			p.log.Info("habit archived", zap.Int64("habit_id", h.ID))
			return p, p.refresh()
		}
	}
	return p, nil
}

func (p habitsModel) showForm(h *store.Habit) (habitsModel, tea.Cmd) {
	p.editingID = 0
	*p.formName = ""
	*p.formCategory = habitCategories[0]
	*p.formTarget = "30"
	*p.formUnit = habitUnits[0]
	*p.formColor = habitColors[0]
	if h != nil {
		p.editingID = h.ID
		*p.formName = h.Name
		*p.formCategory = h.Category
		*p.formTarget = strconv.FormatFloat(h.TargetValue, 'f', -1, 64)
		*p.formUnit = h.Unit
		*p.formColor = h.Color
	}

	colorOptions := make([]huh.Option[string], len(habitColors))
	for i, c := range habitColors {
		colorOptions[i] = huh.NewOption(lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("● ")+c, c)
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Habit Name").Value(p.formName).Validate(requireText),
			huh.NewSelect[string]().Title("Category").Options(withCurrent(habitCategories, *p.formCategory)...).Value(p.formCategory),
			huh.NewInput().Title("Daily target").Value(p.formTarget).Validate(requireNumber),
			huh.NewSelect[string]().Title("Unit").Options(withCurrent(habitUnits, *p.formUnit)...).Value(p.formUnit),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(p.formColor),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

// withCurrent builds select options, keeping a stored value that is not one
// of the presets.
func withCurrent(presets []string, current string) []huh.Option[string] {
	values := presets
	found := false
	for _, v := range presets {
		if v == current {
			found = true
			break
		}
	}
	if !found && current != "" {
		values = append([]string{current}, presets...)
	}
	return huh.NewOptions(values...)
}

func requireText(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func requireNumber(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return errors.New("enter a non-negative number")
	}
	return nil
}

func (p habitsModel) updateForm(msg tea.Msg) (habitsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		return p, p.save()
	}

	return p, cmd
}

func (p habitsModel) save() tea.Cmd {
	s, userID, id := p.store, p.userID, p.editingID
	name := strings.TrimSpace(*p.formName)
	category, unit, color := *p.formCategory, *p.formUnit, *p.formColor
	target, _ := strconv.ParseFloat(strings.TrimSpace(*p.formTarget), 64)

	return func() tea.Msg {
		if id == 0 {
			h, err := s.CreateHabit(userID, name, category, target, unit)
			if err != nil {
				return habitSavedMsg{name: name, err: err}
			}
			id = h.ID
		} else if err := s.UpdateHabit(id, name, category, target, unit); err != nil {
			return habitSavedMsg{name: name, err: err}
		}
		return habitSavedMsg{name: name, err: s.SetHabitColor(id, color)}
	}
}

func (p habitsModel) view() string {
	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Habit")
		if p.editingID != 0 {
			title = titleStyle.Render("Edit Habit")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View())
		return panelStyle.Width(p.width - 4).Render(content)
	}
	return p.renderList()
}

func (p habitsModel) renderList() string {
	w := p.width - 4
	title := titleStyle.Render("Habits")
	if p.showArchived {
		title += mutedStyle.Render("  (including archived)")
	}

	if len(p.habits) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No habits yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-3s %-24s %-12s %-14s", "", "Name", "Category", "Target")))

	for i, h := range p.habits {
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(h.Color)).Render("●")
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		if h.Archived {
			style = mutedStyle
		}
		row := style.Render(fmt.Sprintf("%s%s %-24s %-12s %-14s", cursor, colorDot, h.Name, h.Category, formatTarget(h)))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter: edit  d: archive  a: show archived"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
