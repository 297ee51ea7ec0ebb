package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/habitr/internal/analytics"
	"github.com/sadopc/habitr/internal/store"
)

type analyticsSection int

const (
	sectionOverview analyticsSection = iota
	sectionCorrelations
	sectionZones
)

var sectionNames = []string{"Overview", "Correlations", "Zones"}

type analyticsModel struct {
	store  *store.Store
	userID string
	width  int
	height int

	windowDays int
	offset     int // windows back from today (0 = current)
	section    analyticsSection
	report     analytics.Report
	loaded     bool

	chart barchart.Model
}

func newAnalyticsModel(s *store.Store, userID string, windowDays int) analyticsModel {
	if windowDays <= 0 {
		windowDays = 30
	}
	return analyticsModel{
		store:      s,
		userID:     userID,
		windowDays: windowDays,
		chart:      barchart.New(60, 10),
	}
}

func (r *analyticsModel) setSize(w, h int) {
	r.width = w
	r.height = h
	r.buildChart()
}

type analyticsDataMsg struct {
	report analytics.Report
	err    error
}

// dateRange returns the half-open day range [from, to) for the current
// window.
func (r analyticsModel) dateRange() (time.Time, time.Time) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	to := today.AddDate(0, 0, 1-r.windowDays*r.offset)
	return to.AddDate(0, 0, -r.windowDays), to
}

func (r analyticsModel) refresh() tea.Cmd {
	s, userID := r.store, r.userID
	from, to := r.dateRange()
	offset := r.offset
	return func() tea.Msg {
		entries, err := s.FetchLogs(userID, from, to)
		if err != nil {
			return analyticsDataMsg{err: err}
		}
		now := time.Now()
		if offset > 0 {
			now = to.Add(-time.Second)
		}
		return analyticsDataMsg{report: analytics.Build(entries, now)}
	}
}

func (r analyticsModel) update(msg tea.Msg) (analyticsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case analyticsDataMsg:
		if msg.err != nil {
			return r, errStatus("Load analytics", msg.err)
		}
		r.report = msg.report
		r.loaded = true
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
				return r, r.refresh()
			}
		case key.Matches(msg, keys.Enter):
			r.section = (r.section + 1) % analyticsSection(len(sectionNames))
		}
	}
	return r, nil
}

// buildChart draws completions per hour of day.
func (r *analyticsModel) buildChart() {
	chartWidth := max(r.width-8, 24)
	chartHeight := 10
	if r.height > 36 {
		chartHeight = 14
	}
	r.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, p := range r.report.TimePatterns {
		style := lipgloss.NewStyle().Foreground(colorPrimary)
		if p.SuccessRatePercent >= 80 {
			style = lipgloss.NewStyle().Foreground(colorSuccess)
		}
		bars = append(bars, barchart.BarData{
			Label: fmt.Sprintf("%02d", p.Hour),
			Values: []barchart.BarValue{{
				Name:  analytics.TimeOfDay(p.Hour),
				Value: float64(p.Completions),
				Style: style,
			}},
		})
	}
	if len(bars) == 0 {
		return
	}
	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r analyticsModel) view() string {
	w := r.width - 4

	var tabs []string
	for i, name := range sectionNames {
		if analyticsSection(i) == r.section {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s - %s", from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Analytics"), "  ", lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...), "  ", dateLabel,
	)

	var body string
	switch {
	case !r.loaded:
		body = mutedStyle.Render("  Loading...")
	case r.report.Summary.Entries == 0:
		body = mutedStyle.Render("  No habit logs in this window")
	default:
		switch r.section {
		case sectionOverview:
			body = r.renderOverview()
		case sectionCorrelations:
			body = r.renderCorrelations()
		case sectionZones:
			body = r.renderZones()
		}
	}

	nav := mutedStyle.Render("  ←/→: previous/next window  enter: next section")
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", nav))
}

func (r analyticsModel) renderOverview() string {
	s := r.report.Summary
	summary := fmt.Sprintf("  %s completions of %d logs (%s)  %s focused  %d active days",
		highlightStyle.Render(fmt.Sprint(s.Completions)), s.Entries,
		highlightStyle.Render(fmt.Sprintf("%d%%", s.CompletionPercent)),
		highlightStyle.Render(formatMinutes(float64(s.FocusMinutes))), s.ActiveDays)

	chart := mutedStyle.Render("  No completion times recorded")
	if len(r.report.TimePatterns) > 0 {
		chart = lipgloss.JoinVertical(lipgloss.Left,
			subtitleStyle.Render("  Completions by hour"),
			r.chart.View(),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, summary, "", chart, "", r.renderInsights())
}

func (r analyticsModel) renderInsights() string {
	if len(r.report.Insights) == 0 {
		return ""
	}
	rows := []string{mutedStyle.Render(fmt.Sprintf("  %-14s %8s %-10s %11s %6s", "Category", "Avg", "Best time", "Consistency", "Trend"))}
	for _, in := range r.report.Insights {
		rows = append(rows, fmt.Sprintf("  %-14s %8s %-10s %10d%% %6s",
			in.Category, formatMinutes(float64(in.AvgCompletionMinutes)), in.BestTimeOfDay,
			in.ConsistencyPercent, trendGlyphs[in.Trend]))
	}
	return strings.Join(rows, "\n")
}

func (r analyticsModel) renderCorrelations() string {
	if len(r.report.Correlations) == 0 {
		return mutedStyle.Render("  Need at least two habits to correlate")
	}
	rows := []string{mutedStyle.Render(fmt.Sprintf("  %-20s %-20s %8s  %s", "Habit", "Habit", "Together", "Strength"))}
	for _, c := range r.report.Correlations {
		style := mutedStyle
		switch c.Strength {
		case analytics.StrengthStrong:
			style = successStyle
		case analytics.StrengthModerate:
			style = warningStyle
		}
		rows = append(rows, fmt.Sprintf("  %-20s %-20s %7d%%  %s",
			c.HabitA, c.HabitB, c.CoCompletionPercent, style.Render(string(c.Strength))))
	}
	return strings.Join(rows, "\n")
}

func (r analyticsModel) renderZones() string {
	zones := r.report.Zones
	if len(zones) > 14 {
		zones = zones[len(zones)-14:]
	}
	rows := []string{mutedStyle.Render(fmt.Sprintf("  %-12s %6s %6s %6s  %s", "Date", "Prod", "Energy", "Mood", "Zone"))}
	for _, z := range zones {
		rows = append(rows, fmt.Sprintf("  %-12s %5d%% %5d%% %6d  %s",
			z.Date, z.ProductivityPercent, z.EnergyPercent, z.MoodScore, zoneStyles[z.Zone].Render(string(z.Zone))))
	}

	streaks := mutedStyle.Render("  No streak breaks recorded")
	if n := len(r.report.Streaks); n > 0 {
		last := r.report.Streaks[n-1]
		streaks = fmt.Sprintf("  %d streak events, latest %s in %s (%d days)", n, last.Date, last.Category, last.StreakLength)
	}
	return lipgloss.JoinVertical(lipgloss.Left, strings.Join(rows, "\n"), "", streaks)
}
