package dashboard

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
	"github.com/yanqian/weather-dashboard/pkg/util"
)

const defaultTrendSize = 10

// Orchestrator sequences a profile submission through persistence, weather and
// advice, and publishes the resulting dashboard state.
type Orchestrator interface {
	Submit(ctx context.Context, profile UserProfile) (Dashboard, error)
	Restore(ctx context.Context) (bool, error)
	LoadProfile(ctx context.Context) (UserProfile, bool, error)
	Snapshot() Dashboard
	Subscribe(ctx context.Context) <-chan Dashboard
}

type orchestrator struct {
	store     ProfileStore
	weather   WeatherFetcher
	advisor   Advisor
	notifier  Notifier
	logger    *slog.Logger
	trendSize int
	now       func() time.Time
	newID     func() string

	// run admits one submission at a time.
	run sync.Mutex

	mu      sync.RWMutex
	current Dashboard
	subs    map[int]chan Dashboard
	nextSub int
}

// NewOrchestrator wires the submission flow.
func NewOrchestrator(cfg Config, store ProfileStore, weather WeatherFetcher, advisor Advisor, notifier Notifier, logger *slog.Logger) Orchestrator {
	return newOrchestrator(cfg, store, weather, advisor, notifier, logger)
}

func newOrchestrator(cfg Config, store ProfileStore, weather WeatherFetcher, advisor Advisor, notifier Notifier, logger *slog.Logger) *orchestrator {
	trendSize := cfg.TrendSize
	if trendSize <= 0 {
		trendSize = defaultTrendSize
	}
	return &orchestrator{
		store:     store,
		weather:   weather,
		advisor:   advisor,
		notifier:  notifier,
		logger:    logger.With("component", "dashboard.orchestrator"),
		trendSize: trendSize,
		now:       util.NowUTC,
		newID:     uuid.NewString,
		current: Dashboard{
			State:  StateIdle,
			Advice: []AdviceItem{},
			Trend:  []TrendPoint{},
		},
		subs: make(map[int]chan Dashboard),
	}
}

func (o *orchestrator) Submit(ctx context.Context, profile UserProfile) (Dashboard, error) {
	profile = profile.Normalize()
	if err := profile.Validate(); err != nil {
		return o.Snapshot(), err
	}
	if !o.run.TryLock() {
		return o.Snapshot(), apperrors.Wrap(CodeSubmissionInProgress, "a profile submission is already in progress", nil)
	}
	defer o.run.Unlock()

	submissionID := o.newID()
	logger := o.logger.With("submission_id", submissionID, "location", profile.Location)
	before := o.Snapshot()

	o.transition(StatePersistingProfile, "", func(d *Dashboard) {
		saved := profile.Clone()
		d.Profile = &saved
		d.Notice = nil
	})
	if err := o.store.Save(ctx, profile); err != nil {
		logger.Warn("profile persistence failed, continuing in memory", "error", err)
	}

	o.transition(StateFetchingWeather, "", nil)
	weather, err := o.weather.Fetch(ctx, profile.Location)
	if err != nil {
		if ctx.Err() != nil {
			err := o.abandon(before, logger, ctx.Err())
			return o.Snapshot(), err
		}
		logger.Error("weather stage failed", "error", err)
		notice := o.newNotification(Notification{
			SubmissionID: submissionID,
			Kind:         NotificationError,
			Title:        "Error",
			Description:  "Failed to update profile. Please try again.",
		})
		o.transition(StateFailed, ReasonWeatherUnavailable, func(d *Dashboard) {
			d.Notice = &notice
		})
		o.notify(ctx, notice)
		return o.Snapshot(), err
	}

	o.transition(StateFetchingAdvice, "", nil)
	advice := o.advisor.Advise(ctx, profile, weather)
	if ctx.Err() != nil {
		err := o.abandon(before, logger, ctx.Err())
		return o.Snapshot(), err
	}

	notice := o.newNotification(Notification{
		SubmissionID: submissionID,
		Kind:         NotificationSuccess,
		Title:        "Profile Updated",
		Description:  "Your personalized weather insights are ready!",
	})
	o.transition(StateReady, "", func(d *Dashboard) {
		d.SubmissionID = submissionID
		d.Notice = &notice
		w := weather
		d.Weather = &w
		d.Advice = append([]AdviceItem{}, advice...)
		d.Trend = appendTrend(d.Trend, TrendPoint{
			At:          o.trendTime(weather),
			Temperature: weather.Temperature,
			Location:    weather.Location,
		}, o.trendSize)
	})
	logger.Info("submission ready", "advice_items", len(advice))
	o.notify(ctx, notice)
	return o.Snapshot(), nil
}

func (o *orchestrator) Restore(ctx context.Context) (bool, error) {
	profile, ok, err := o.store.Load(ctx)
	if err != nil {
		o.logger.Warn("stored profile could not be loaded, starting empty", "error", err)
		return false, nil
	}
	if !ok {
		o.logger.Info("no stored profile, waiting for first submission")
		return false, nil
	}
	if strings.TrimSpace(profile.Location) == "" {
		o.logger.Warn("stored profile has no location, waiting for first submission")
		return false, nil
	}
	o.logger.Info("restoring dashboard from stored profile", "location", profile.Location)
	_, err = o.Submit(ctx, profile)
	return true, err
}

func (o *orchestrator) LoadProfile(ctx context.Context) (UserProfile, bool, error) {
	profile, ok, err := o.store.Load(ctx)
	if err != nil {
		return UserProfile{}, false, apperrors.Wrap(CodeProfileStore, "failed to load profile", err)
	}
	return profile, ok, nil
}

func (o *orchestrator) Snapshot() Dashboard {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.current.clone()
}

// Subscribe streams every published state; a slow reader only sees the latest one.
func (o *orchestrator) Subscribe(ctx context.Context) <-chan Dashboard {
	ch := make(chan Dashboard, 1)
	o.mu.Lock()
	id := o.nextSub
	o.nextSub++
	o.subs[id] = ch
	ch <- o.current.clone()
	o.mu.Unlock()

	go func() {
		<-ctx.Done()
		o.mu.Lock()
		delete(o.subs, id)
		close(ch)
		o.mu.Unlock()
	}()
	return ch
}

func (o *orchestrator) transition(state State, reason string, mutate func(d *Dashboard)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if mutate != nil {
		mutate(&o.current)
	}
	o.current.State = state
	o.current.Reason = reason
	o.current.UpdatedAt = o.now()
	o.publishLocked()
}

// abandon restores the pre-run state without notifying; the saved profile stays.
func (o *orchestrator) abandon(before Dashboard, logger *slog.Logger, cause error) error {
	logger.Warn("submission cancelled", "error", cause)
	o.transition(before.State, before.Reason, func(d *Dashboard) {
		d.Notice = before.Notice
	})
	return apperrors.Wrap(CodeSubmissionCancelled, "profile submission cancelled", cause)
}

func (o *orchestrator) publishLocked() {
	for _, ch := range o.subs {
		snapshot := o.current.clone()
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}

func (o *orchestrator) newNotification(n Notification) Notification {
	n.ID = o.newID()
	n.CreatedAt = o.now()
	return n
}

func (o *orchestrator) notify(ctx context.Context, n Notification) {
	if o.notifier == nil {
		return
	}
	o.notifier.Notify(ctx, n)
}

func (o *orchestrator) trendTime(weather WeatherSnapshot) time.Time {
	if !weather.FetchedAt.IsZero() {
		return weather.FetchedAt
	}
	return o.now()
}

func appendTrend(trend []TrendPoint, point TrendPoint, limit int) []TrendPoint {
	trend = append(trend, point)
	if len(trend) > limit {
		trend = append([]TrendPoint{}, trend[len(trend)-limit:]...)
	}
	return trend
}
