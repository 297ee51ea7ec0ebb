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

	"github.com/sadopc/habitr/internal/focus"
	"github.com/sadopc/habitr/internal/store"
)

const (
	keyAnalyticsDays = "analytics_days"
	keyFocusSound    = "focus_sound"
)

var settingLabels = map[string]string{
	focus.KeyWork:              "Work session",
	focus.KeyShortBreak:        "Short break",
	focus.KeyLongBreak:         "Long break",
	focus.KeyLongBreakInterval: "Long break every",
	focus.KeyAutoStartBreaks:   "Auto-start breaks",
	focus.KeyAutoStartWork:     "Auto-start work",
	keyFocusSound:              "Bell on completion",
	keyAnalyticsDays:           "Analytics window",
}

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	work            *string
	shortBreak      *string
	longBreak       *string
	interval        *string
	autoStartBreaks *bool
	autoStartWork   *bool
	sound           *bool
	analyticsDays   *string
}

func newSettingsModel(s *store.Store) settingsModel {
	w, sb, lb, iv, ad := "", "", "", "", ""
	asb, asw, snd := false, false, true
	return settingsModel{
		store:           s,
		work:            &w,
		shortBreak:      &sb,
		longBreak:       &lb,
		interval:        &iv,
		autoStartBreaks: &asb,
		autoStartWork:   &asw,
		sound:           &snd,
		analyticsDays:   &ad,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
	err      error
}

func (s settingsModel) refresh() tea.Cmd {
	st := s.store
	return func() tea.Msg {
		settings, err := st.GetAllSettings()
		return settingsDataMsg{settings: settings, err: err}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		if msg.err != nil {
			return s, errStatus("Load settings", msg.err)
		}
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	cfg := focus.LoadConfig(s.store)
	*s.work = strconv.Itoa(cfg.WorkMinutes)
	*s.shortBreak = strconv.Itoa(cfg.ShortBreakMinutes)
	*s.longBreak = strconv.Itoa(cfg.LongBreakMinutes)
	*s.interval = strconv.Itoa(cfg.LongBreakInterval)
	*s.autoStartBreaks = cfg.AutoStartBreaks
	*s.autoStartWork = cfg.AutoStartWork
	*s.sound = soundEnabled(s.store)
	*s.analyticsDays = s.getVal(keyAnalyticsDays, "30")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Work session (min)").Value(s.work).Validate(positiveInt),
			huh.NewInput().Title("Short break (min)").Value(s.shortBreak).Validate(positiveInt),
			huh.NewInput().Title("Long break (min)").Value(s.longBreak).Validate(positiveInt),
			huh.NewInput().Title("Pomodoros before long break").Value(s.interval).Validate(positiveInt),
			huh.NewConfirm().Title("Auto-start breaks").Value(s.autoStartBreaks),
			huh.NewConfirm().Title("Auto-start work").Value(s.autoStartWork),
			huh.NewConfirm().Title("Bell on completion").Value(s.sound),
		).Title("Focus"),
		huh.NewGroup(
			huh.NewInput().Title("Analytics window (days)").Value(s.analyticsDays).Validate(positiveInt),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func positiveInt(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return errors.New("enter a whole number above zero")
	}
	return nil
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, errStatus("Save settings", err)
		}
		saved := settingsSavedMsg{cfg: focus.LoadConfig(s.store), sound: *s.sound}
		return s, tea.Batch(s.refresh(), func() tea.Msg { return saved })
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	values := map[string]string{
		focus.KeyWork:              strings.TrimSpace(*s.work),
		focus.KeyShortBreak:        strings.TrimSpace(*s.shortBreak),
		focus.KeyLongBreak:         strings.TrimSpace(*s.longBreak),
		focus.KeyLongBreakInterval: strings.TrimSpace(*s.interval),
		focus.KeyAutoStartBreaks:   strconv.FormatBool(*s.autoStartBreaks),
		focus.KeyAutoStartWork:     strconv.FormatBool(*s.autoStartWork),
		keyFocusSound:              strconv.FormatBool(*s.sound),
		keyAnalyticsDays:           strings.TrimSpace(*s.analyticsDays),
	}
	for k, v := range values {
		if err := s.store.SetSetting(k, v); err != nil {
			return err
		}
	}
	return nil
}

func soundEnabled(st *store.Store) bool {
	v, err := st.GetSetting(keyFocusSound)
	if err != nil {
		return true
	}
	b, err := strconv.ParseBool(v)
	return err != nil || b
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		name := settingLabels[setting.Key]
		if name == "" {
			name = setting.Key
		}
		label := lipgloss.NewStyle().Width(24).Render(name)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case focus.KeyWork, focus.KeyShortBreak, focus.KeyLongBreak:
		return v + " min"
	case focus.KeyLongBreakInterval:
		return v + " pomodoros"
	case keyAnalyticsDays:
		return v + " days"
	}
	if b, err := strconv.ParseBool(v); err == nil {
		if b {
			return "on"
		}
		return "off"
	}
	return v
}
