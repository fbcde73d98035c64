package dashboard

import (
	"slices"
	"strings"
	"time"

	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
)

// Error codes surfaced by the dashboard domain.
const (
	CodeInvalidInput         = "invalid_input"
	CodeWeatherUnavailable   = "weather_unavailable"
	CodeSubmissionInProgress = "submission_in_progress"
	CodeSubmissionCancelled  = "submission_cancelled"
	CodeProfileStore         = "profile_store_error"
)

// ReasonWeatherUnavailable is the failure reason published when the weather stage fails.
const ReasonWeatherUnavailable = "weather-unavailable"

// ProfileKey is the single well-known key the profile is persisted under.
const ProfileKey = "userProfile"

// PlaceholderAQI is reported when the weather provider carries no air quality data.
const PlaceholderAQI = 80

// ActivityVocabulary lists the outdoor activities a profile may select.
var ActivityVocabulary = []string{"jogging", "cycling", "solar-panels", "gardening", "outdoor-sports"}

// HealthVocabulary lists the health considerations a profile may select.
var HealthVocabulary = []string{"asthma", "allergies", "sensitive-skin", "migraines"}

// UserProfile is the self-reported context used to personalize advice.
type UserProfile struct {
	Location         string   `json:"location"`
	Commute          bool     `json:"commute"`
	Activities       []string `json:"activities"`
	HealthConditions []string `json:"healthConditions"`
}

// WeatherSnapshot is a normalized, immutable weather reading.
type WeatherSnapshot struct {
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	WindSpeed   float64   `json:"windSpeed"`
	Visibility  float64   `json:"visibility"`
	RainChance  float64   `json:"rainChance"`
	AQI         int       `json:"aqi"`
	Condition   string    `json:"condition"`
	Location    string    `json:"location"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// AdviceType classifies an advice item for rendering.
type AdviceType string

const (
	AdviceTip     AdviceType = "tip"
	AdviceWarning AdviceType = "warning"
	AdviceInfo    AdviceType = "info"
	AdviceSuccess AdviceType = "success"
)

// Priority orders advice items.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// AdviceItem is one piece of guidance tied to a profile and weather snapshot.
type AdviceItem struct {
	ID          string     `json:"id"`
	Type        AdviceType `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
}

// State names a step of the submission state machine.
type State string

const (
	StateIdle              State = "idle"
	StatePersistingProfile State = "persisting_profile"
	StateFetchingWeather   State = "fetching_weather"
	StateFetchingAdvice    State = "fetching_advice"
	StateReady             State = "ready"
	StateFailed            State = "failed"
)

// Busy reports whether a submission is running in this state.
func (s State) Busy() bool {
	switch s {
	case StatePersistingProfile, StateFetchingWeather, StateFetchingAdvice:
		return true
	default:
		return false
	}
}

// TrendPoint is one temperature reading of the dashboard trend chart.
type TrendPoint struct {
	At          time.Time `json:"at"`
	Temperature float64   `json:"temperature"`
	Location    string    `json:"location"`
}

// Dashboard is the state published to presentation layers. Weather and Advice
// always belong to the submission named by SubmissionID. Notice is the
// notification emitted by the run that ended in the current state.
type Dashboard struct {
	SubmissionID string           `json:"submissionId,omitempty"`
	State        State            `json:"state"`
	Reason       string           `json:"reason,omitempty"`
	Notice       *Notification    `json:"notice,omitempty"`
	Profile      *UserProfile     `json:"profile,omitempty"`
	Weather      *WeatherSnapshot `json:"weather,omitempty"`
	Advice       []AdviceItem     `json:"advice"`
	Trend        []TrendPoint     `json:"trend"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// NotificationKind is the severity of a user-visible notification.
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is a toast-style message emitted at the end of a submission.
type Notification struct {
	ID           string           `json:"id"`
	SubmissionID string           `json:"submissionId"`
	Kind         NotificationKind `json:"kind"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// Normalize trims the location and collapses activities and health
// conditions into sets that keep first-seen order.
func (p UserProfile) Normalize() UserProfile {
	return UserProfile{
		Location:         strings.TrimSpace(p.Location),
		Commute:          p.Commute,
		Activities:       normalizeSet(p.Activities),
		HealthConditions: normalizeSet(p.HealthConditions),
	}
}

// Validate checks the profile is eligible for submission.
func (p UserProfile) Validate() error {
	if strings.TrimSpace(p.Location) == "" {
		return apperrors.Wrap(CodeInvalidInput, "location cannot be empty", nil)
	}
	for _, activity := range p.Activities {
		if !contains(ActivityVocabulary, activity) {
			return apperrors.Wrap(CodeInvalidInput, "unknown activity "+activity, nil)
		}
	}
	for _, condition := range p.HealthConditions {
		if !contains(HealthVocabulary, condition) {
			return apperrors.Wrap(CodeInvalidInput, "unknown health condition "+condition, nil)
		}
	}
	return nil
}

// HasActivity reports whether the profile selected the activity.
func (p UserProfile) HasActivity(activity string) bool {
	return contains(p.Activities, activity)
}

// HasCondition reports whether the profile selected the health condition.
func (p UserProfile) HasCondition(condition string) bool {
	return contains(p.HealthConditions, condition)
}

// Clone returns a deep copy; nil lists stay nil.
func (p UserProfile) Clone() UserProfile {
	p.Activities = slices.Clone(p.Activities)
	p.HealthConditions = slices.Clone(p.HealthConditions)
	return p
}

// AQIBand buckets an air quality index the way the dashboard colours it.
func AQIBand(aqi int) string {
	switch {
	case aqi <= 50:
		return "good"
	case aqi <= 100:
		return "moderate"
	case aqi <= 150:
		return "unhealthy_sensitive"
	default:
		return "unhealthy"
	}
}

func (d Dashboard) clone() Dashboard {
	out := d
	if d.Profile != nil {
		profile := d.Profile.Clone()
		out.Profile = &profile
	}
	if d.Weather != nil {
		weather := *d.Weather
		out.Weather = &weather
	}
	if d.Notice != nil {
		notice := *d.Notice
		out.Notice = &notice
	}
	out.Advice = append([]AdviceItem{}, d.Advice...)
	out.Trend = append([]TrendPoint{}, d.Trend...)
	return out
}

func normalizeSet(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		clean := strings.ToLower(strings.TrimSpace(item))
		if clean == "" {
			continue
		}
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
	}
	return out
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
