package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

const historySize = 3

// View renders the form, the weather cards, advice and the temperature trend.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Weather Dashboard"))
	b.WriteString("  ")
	b.WriteString(m.renderStatus())
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render(m.renderForm()))
	b.WriteString("\n")

	if w := m.state.Weather; w != nil {
		b.WriteString(renderCards(*w))
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(renderAdvice(m.state.Advice)))
		b.WriteString("\n")
		if len(m.state.Trend) > 0 {
			b.WriteString(sectionStyle.Render(renderTrend(m.state.Trend)))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(mutedStyle.Render("Enter your location and press enter to get personalized weather insights."))
		b.WriteString("\n")
	}

	if m.toast != nil {
		style := successStyle
		if m.toast.Kind == dashboard.NotificationError {
			style = errorStyle
		}
		b.WriteString(style.Render(m.toast.Title))
		b.WriteString(" ")
		b.WriteString(m.toast.Description)
		b.WriteString("\n")
	}
	if history := m.renderHistory(); history != "" {
		b.WriteString(history)
		b.WriteString("\n")
	}
	if m.formErr != "" {
		b.WriteString(errorStyle.Render(m.formErr))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("tab/↑↓: move • space: toggle • enter: update profile • esc: quit"))
	return b.String()
}

// renderHistory lists earlier notifications, skipping the one already shown as a toast.
func (m Model) renderHistory() string {
	if m.notifications == nil {
		return ""
	}
	var parts []string
	for _, n := range m.notifications.Recent(historySize + 1) {
		if n.ID == m.toastID || len(parts) == historySize {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", n.CreatedAt.Local().Format("15:04"), n.Title))
	}
	if len(parts) == 0 {
		return ""
	}
	return mutedStyle.Render("Earlier: " + strings.Join(parts, " • "))
}

func (m Model) renderStatus() string {
	switch m.state.State {
	case dashboard.StatePersistingProfile:
		return m.spinner.View() + " saving profile..."
	case dashboard.StateFetchingWeather:
		return m.spinner.View() + " fetching weather..."
	case dashboard.StateFetchingAdvice:
		return m.spinner.View() + " generating advice..."
	case dashboard.StateFailed:
		return errorStyle.Render("weather unavailable")
	case dashboard.StateReady:
		return successStyle.Render("up to date")
	default:
		return mutedStyle.Render("idle")
	}
}

func (m Model) renderForm() string {
	var b strings.Builder
	b.WriteString(m.label(focusLocation, "Location"))
	b.WriteString(" ")
	b.WriteString(m.location.View())
	b.WriteString("\n")
	b.WriteString(m.checkbox(1, "Daily commute", m.commute))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Activities"))
	b.WriteString("\n")
	for i, activity := range dashboard.ActivityVocabulary {
		b.WriteString(m.checkbox(2+i, activity, m.activities[activity]))
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render("Health considerations"))
	b.WriteString("\n")
	offset := 2 + len(dashboard.ActivityVocabulary)
	for i, condition := range dashboard.HealthVocabulary {
		b.WriteString(m.checkbox(offset+i, condition, m.health[condition]))
		if i < len(dashboard.HealthVocabulary)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) label(idx int, text string) string {
	if m.focus == idx {
		return focusStyle.Render("› " + text)
	}
	return labelStyle.Render("  " + text)
}

func (m Model) checkbox(idx int, text string, checked bool) string {
	box := "[ ]"
	if checked {
		box = "[x]"
	}
	return m.label(idx, box+" "+text)
}

func renderCards(w dashboard.WeatherSnapshot) string {
	band := dashboard.AQIBand(w.AQI)
	cards := []string{
		card("Temperature", fmt.Sprintf("%.0f°C", w.Temperature), w.Condition, colorPrimary),
		card("Rain chance", fmt.Sprintf("%.0f%%", w.RainChance), w.Location, colorInfo),
		card("Air quality", fmt.Sprintf("%d", w.AQI), strings.ReplaceAll(band, "_", " "), aqiColor(band)),
		card("Wind", fmt.Sprintf("%.0f km/h", w.WindSpeed), fmt.Sprintf("visibility %.0f km", w.Visibility), colorInfo),
		card("Humidity", fmt.Sprintf("%.0f%%", w.Humidity), "", colorInfo),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func card(title, value, detail string, accent lipgloss.Color) string {
	body := labelStyle.Render(title) + "\n" + valueStyle.Foreground(accent).Render(value)
	if detail != "" {
		body += "\n" + mutedStyle.Render(detail)
	}
	return cardStyle.Render(body)
}

func renderAdvice(items []dashboard.AdviceItem) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Personalized advice"))
	if len(items) == 0 {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("No advice for these conditions."))
		return b.String()
	}
	for _, item := range items {
		accent := lipgloss.NewStyle().Foreground(adviceColor(string(item.Type))).Bold(item.Priority == dashboard.PriorityHigh)
		b.WriteString("\n")
		b.WriteString(accent.Render(fmt.Sprintf("● %s", item.Title)))
		b.WriteString(mutedStyle.Render(fmt.Sprintf(" [%s]", item.Priority)))
		if item.Description != "" {
			b.WriteString("\n  ")
			b.WriteString(item.Description)
		}
	}
	return b.String()
}

func renderTrend(trend []dashboard.TrendPoint) string {
	temps := make([]float64, 0, len(trend))
	for _, point := range trend {
		temps = append(temps, point.Temperature)
	}
	last := trend[len(trend)-1]
	return titleStyle.Render("Temperature trend") + "\n" +
		sparkline(temps) + mutedStyle.Render(fmt.Sprintf("  %.0f°C in %s", last.Temperature, last.Location))
}

// sparkline scales values between their min and max onto block characters.
func sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	out := make([]rune, 0, len(values))
	for _, v := range values {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkBlocks)-1))
		}
		out = append(out, sparkBlocks[idx])
	}
	return string(out)
}
