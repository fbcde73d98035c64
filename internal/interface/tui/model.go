package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
)

const focusLocation = 0

// Model is the terminal dashboard: a profile form next to the live dashboard state.
type Model struct {
	ctx           context.Context
	orchestrator  dashboard.Orchestrator
	notifications dashboard.NotificationLog
	updates       <-chan dashboard.Dashboard

	width  int
	height int

	location   textinput.Model
	commute    bool
	activities map[string]bool
	health     map[string]bool
	focus      int

	state      dashboard.Dashboard
	submitting bool
	toast      *dashboard.Notification
	toastID    string
	formErr    string
	spinner    spinner.Model
}

// NewModel subscribes to the orchestrator for the lifetime of ctx.
func NewModel(ctx context.Context, orchestrator dashboard.Orchestrator, notifications dashboard.NotificationLog) Model {
	ti := textinput.New()
	ti.Placeholder = "City, e.g. Paris or New York, NY"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 40

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	m := Model{
		ctx:           ctx,
		orchestrator:  orchestrator,
		notifications: notifications,
		updates:       orchestrator.Subscribe(ctx),
		location:      ti,
		activities:    make(map[string]bool),
		health:        make(map[string]bool),
		spinner:       s,
	}
	m.setState(orchestrator.Snapshot())
	return m
}

// Init loads the stored profile and starts listening for dashboard updates.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		loadProfile(m.ctx, m.orchestrator),
		waitForState(m.updates),
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dashboardMsg:
		if msg.closed {
			return m, nil
		}
		m.setState(msg.state)
		return m, waitForState(m.updates)

	case profileLoadedMsg:
		if msg.err != nil {
			m.formErr = msg.err.Error()
			return m, nil
		}
		if msg.ok {
			m.applyProfile(msg.profile)
		}
		return m, nil

	case submitDoneMsg:
		m.submitting = false
		m.formErr = ""
		if msg.err != nil && !apperrors.IsCode(msg.err, dashboard.CodeWeatherUnavailable) {
			m.formErr = msg.err.Error()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "down":
		m.setFocus(m.focus + 1)
		return m, nil
	case "shift+tab", "up":
		m.setFocus(m.focus - 1)
		return m, nil
	case "enter":
		return m.submit()
	}

	if m.focus == focusLocation {
		var cmd tea.Cmd
		m.location, cmd = m.location.Update(msg)
		return m, cmd
	}
	if msg.String() == " " || msg.String() == "x" {
		m.toggleFocused()
	}
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.submitting || m.state.State.Busy() {
		m.formErr = "A submission is already in progress."
		return m, nil
	}
	profile := m.profile()
	if err := profile.Normalize().Validate(); err != nil {
		m.formErr = err.Error()
		return m, nil
	}
	m.submitting = true
	m.formErr = ""
	return m, tea.Batch(m.spinner.Tick, submitProfile(m.ctx, m.orchestrator, profile))
}

// profile reads the form into a UserProfile, keeping vocabulary order.
func (m Model) profile() dashboard.UserProfile {
	profile := dashboard.UserProfile{
		Location:         strings.TrimSpace(m.location.Value()),
		Commute:          m.commute,
		Activities:       []string{},
		HealthConditions: []string{},
	}
	for _, activity := range dashboard.ActivityVocabulary {
		if m.activities[activity] {
			profile.Activities = append(profile.Activities, activity)
		}
	}
	for _, condition := range dashboard.HealthVocabulary {
		if m.health[condition] {
			profile.HealthConditions = append(profile.HealthConditions, condition)
		}
	}
	return profile
}

// setState shows a toast once per run, for whichever run published it.
func (m *Model) setState(state dashboard.Dashboard) {
	m.state = state
	if state.Notice == nil || state.Notice.ID == m.toastID {
		return
	}
	notice := *state.Notice
	m.toast = &notice
	m.toastID = notice.ID
}

func (m *Model) applyProfile(profile dashboard.UserProfile) {
	m.location.SetValue(profile.Location)
	m.commute = profile.Commute
	m.activities = make(map[string]bool, len(profile.Activities))
	for _, activity := range profile.Activities {
		m.activities[activity] = true
	}
	m.health = make(map[string]bool, len(profile.HealthConditions))
	for _, condition := range profile.HealthConditions {
		m.health[condition] = true
	}
}

// Focus order: location, commute, activities, health conditions.
func focusCount() int {
	return 2 + len(dashboard.ActivityVocabulary) + len(dashboard.HealthVocabulary)
}

func (m *Model) setFocus(next int) {
	total := focusCount()
	m.focus = (next%total + total) % total
	if m.focus == focusLocation {
		m.location.Focus()
	} else {
		m.location.Blur()
	}
}

func (m *Model) toggleFocused() {
	idx := m.focus - 1
	if idx == 0 {
		m.commute = !m.commute
		return
	}
	idx--
	if idx < len(dashboard.ActivityVocabulary) {
		name := dashboard.ActivityVocabulary[idx]
		m.activities[name] = !m.activities[name]
		return
	}
	idx -= len(dashboard.ActivityVocabulary)
	if idx < len(dashboard.HealthVocabulary) {
		name := dashboard.HealthVocabulary[idx]
		m.health[name] = !m.health[name]
	}
}

func waitForState(updates <-chan dashboard.Dashboard) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-updates
		if !ok {
			return dashboardMsg{closed: true}
		}
		return dashboardMsg{state: state}
	}
}

func loadProfile(ctx context.Context, orchestrator dashboard.Orchestrator) tea.Cmd {
	return func() tea.Msg {
		profile, ok, err := orchestrator.LoadProfile(ctx)
		return profileLoadedMsg{profile: profile, ok: ok, err: err}
	}
}

func submitProfile(ctx context.Context, orchestrator dashboard.Orchestrator, profile dashboard.UserProfile) tea.Cmd {
	return func() tea.Msg {
		_, err := orchestrator.Submit(ctx, profile)
		return submitDoneMsg{err: err}
	}
}
