package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/habitr/internal/analytics"
)

// Palette. Adaptive colors keep text readable on light terminals.
var (
	colorPrimary   = lipgloss.Color("#6C63FF") // also the default habit color
	colorSecondary = lipgloss.Color("#2EC4B6")
	colorAccent    = lipgloss.AdaptiveColor{Light: "#D6453D", Dark: "#FF6B6B"}
	colorMuted     = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#666666"}
	colorSuccess   = lipgloss.AdaptiveColor{Light: "#1E9E57", Dark: "#2ECC71"}
	colorWarning   = lipgloss.AdaptiveColor{Light: "#C27C0E", Dark: "#F39C12"}
	colorError     = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#E74C3C"}
	colorText      = lipgloss.AdaptiveColor{Light: "#24283B", Dark: "#C0CAF5"}
	colorBorder    = lipgloss.AdaptiveColor{Light: "#C8CCE0", Dark: "#414868"}
	colorLink      = lipgloss.AdaptiveColor{Light: "#3D59A1", Dark: "#7AA2F7"}
)

func fg(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func box(border lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2)
}

var (
	activeTabStyle = fg(colorPrimary).Bold(true).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)
	inactiveTabStyle = fg(colorMuted).Padding(0, 2)

	panelStyle       = box(colorBorder)
	activePanelStyle = box(colorPrimary)

	// Countdown digits in the Focus view.
	timerStyle        = fg(colorPrimary).Bold(true).Align(lipgloss.Center)
	timerRunningStyle = fg(colorSuccess).Bold(true).Align(lipgloss.Center)

	titleStyle     = fg(colorText).Bold(true)
	subtitleStyle  = fg(colorMuted).Italic(true)
	accentStyle    = fg(colorAccent)
	successStyle   = fg(colorSuccess)
	warningStyle   = fg(colorWarning)
	errorStyle     = fg(colorError)
	mutedStyle     = fg(colorMuted)
	highlightStyle = fg(colorLink)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = mutedStyle.Padding(0, 1)

	selectedItemStyle = fg(colorPrimary).Bold(true)
	normalItemStyle   = fg(colorText)
)

var zoneStyles = map[analytics.Zone]lipgloss.Style{
	analytics.ZonePeak:    successStyle,
	analytics.ZoneGood:    highlightStyle,
	analytics.ZoneAverage: warningStyle,
	analytics.ZoneLow:     errorStyle,
}

var trendGlyphs = map[analytics.Trend]string{
	analytics.TrendUp:     successStyle.Render("▲"),
	analytics.TrendDown:   errorStyle.Render("▼"),
	analytics.TrendStable: mutedStyle.Render("■"),
}
