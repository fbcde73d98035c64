package tui

import (
	"context"
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
	"github.com/yanqian/weather-dashboard/internal/infra/advice/rules"
	"github.com/yanqian/weather-dashboard/internal/infra/notify"
	"github.com/yanqian/weather-dashboard/internal/infra/profilestore"
	"github.com/yanqian/weather-dashboard/internal/infra/weather/static"
	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
)

func TestNewModelFocusesLocation(t *testing.T) {
	m, _ := newTestModel(t)
	require.Equal(t, focusLocation, m.focus)
	require.True(t, m.location.Focused())
	require.Equal(t, dashboard.StateIdle, m.state.State)
}

func TestTypingAndTogglingBuildsProfile(t *testing.T) {
	m, _ := newTestModel(t)
	for _, r := range "Paris" {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	profile := m.profile()
	require.Equal(t, "Paris", profile.Location)
	require.True(t, profile.Commute)
	require.Equal(t, []string{"jogging"}, profile.Activities)
	require.Empty(t, profile.HealthConditions)
	require.False(t, m.location.Focused())
}

func TestFocusWrapsAround(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, focusCount()-1, m.focus)

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	last := dashboard.HealthVocabulary[len(dashboard.HealthVocabulary)-1]
	require.True(t, m.health[last])
}

func TestEnterWithoutLocationShowsError(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, m.submitting)
	require.Contains(t, m.formErr, "location cannot be empty")
}

func TestSubmitRunsOrchestratorAndShowsToast(t *testing.T) {
	m, orch := newTestModel(t)
	m.location.SetValue("Paris")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.True(t, m.submitting)
	require.NotNil(t, cmd)

	msg := submitProfile(context.Background(), orch, m.profile())()
	done, ok := msg.(submitDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)

	m = update(t, m, done)
	require.False(t, m.submitting)
	require.Nil(t, m.toast)

	m = update(t, m, dashboardMsg{state: orch.Snapshot()})
	require.Equal(t, dashboard.StateReady, m.state.State)
	require.NotNil(t, m.toast)
	require.Equal(t, "Profile Updated", m.toast.Title)
	view := m.View()
	require.Contains(t, view, "Temperature")
	require.Contains(t, view, "Personalized advice")
	require.Contains(t, view, "Your personalized weather insights are ready!")
}

func TestRejectedSubmitDoesNotRepeatToast(t *testing.T) {
	m, orch := newTestModel(t)
	_, err := orch.Submit(context.Background(), dashboard.UserProfile{Location: "Paris"})
	require.NoError(t, err)
	m = update(t, m, dashboardMsg{state: orch.Snapshot()})
	require.NotNil(t, m.toast)
	m.toast = nil

	m = update(t, m, submitDoneMsg{err: apperrors.Wrap(dashboard.CodeSubmissionInProgress, "busy", nil)})
	require.Nil(t, m.toast)
	require.Contains(t, m.formErr, "busy")

	m = update(t, m, dashboardMsg{state: orch.Snapshot()})
	require.Nil(t, m.toast)
}

func TestRestoredRunShowsToastOnStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store := profilestore.NewMemoryStore()
	require.NoError(t, store.Save(ctx, dashboard.UserProfile{Location: "Oslo"}))
	orch, feed := newTestOrchestrator(store)
	restored, err := orch.Restore(ctx)
	require.NoError(t, err)
	require.True(t, restored)

	m := NewModel(ctx, orch, feed)
	require.NotNil(t, m.toast)
	require.Equal(t, "Profile Updated", m.toast.Title)
	require.Equal(t, dashboard.StateReady, m.state.State)
}

func TestEarlierNotificationsListed(t *testing.T) {
	m, orch := newTestModel(t)
	for _, city := range []string{"Paris", "Oslo"} {
		_, err := orch.Submit(context.Background(), dashboard.UserProfile{Location: city})
		require.NoError(t, err)
	}
	m = update(t, m, dashboardMsg{state: orch.Snapshot()})
	require.Contains(t, m.renderHistory(), "Earlier:")
	require.Contains(t, m.renderHistory(), "Profile Updated")
}

func TestBusyStateBlocksSubmit(t *testing.T) {
	m, _ := newTestModel(t)
	m.location.SetValue("Paris")
	m.state.State = dashboard.StateFetchingWeather

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, m.submitting)
	require.Contains(t, m.formErr, "already in progress")
}

func TestProfileLoadedFillsForm(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(t, m, profileLoadedMsg{ok: true, profile: dashboard.UserProfile{
		Location:         "Oslo",
		Commute:          true,
		Activities:       []string{"cycling"},
		HealthConditions: []string{"asthma"},
	}})
	require.Equal(t, "Oslo", m.location.Value())
	require.True(t, m.commute)
	require.True(t, m.activities["cycling"])
	require.True(t, m.health["asthma"])
}

func TestCtrlCQuits(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	require.True(t, isQuit)
}

func TestSparkline(t *testing.T) {
	require.Equal(t, "▁█▄", sparkline([]float64{10, 20, 15}))
	require.Equal(t, "▁▁", sparkline([]float64{5, 5}))
	require.Empty(t, sparkline(nil))
}

func newTestModel(t *testing.T) (Model, dashboard.Orchestrator) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	orch, feed := newTestOrchestrator(profilestore.NewMemoryStore())
	return NewModel(ctx, orch, feed), orch
}

func newTestOrchestrator(store dashboard.ProfileStore) (dashboard.Orchestrator, *notify.Feed) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	feed := notify.NewFeed(10)
	cfg := dashboard.Config{}
	orch := dashboard.NewOrchestrator(
		cfg,
		store,
		dashboard.NewWeatherClient(cfg, static.NewProvider(), logger),
		dashboard.NewAdviceClient(cfg, rules.NewAdvisor(), logger),
		feed,
		logger,
	)
	return orch, feed
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}
