package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#00BFFF")
	colorDanger  = lipgloss.Color("#FF6B6B")
	colorWarning = lipgloss.Color("#FFD93D")
	colorOrange  = lipgloss.Color("#FF8C42")
	colorSuccess = lipgloss.Color("#6BCF7F")
	colorInfo    = lipgloss.Color("#87CEEB")
	colorMuted   = lipgloss.Color("#6C757D")
	colorBorder  = lipgloss.Color("#4A90E2")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			MarginRight(1).
			Width(18)

	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)

	focusStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(1, 0, 0, 0)
)

func adviceColor(kind string) lipgloss.Color {
	switch kind {
	case "warning":
		return colorWarning
	case "success":
		return colorSuccess
	case "tip":
		return colorPrimary
	default:
		return colorInfo
	}
}

func aqiColor(band string) lipgloss.Color {
	switch band {
	case "good":
		return colorSuccess
	case "moderate":
		return colorWarning
	case "unhealthy_sensitive":
		return colorOrange
	default:
		return colorDanger
	}
}
