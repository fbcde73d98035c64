package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
)

// Thresholds used by the rule set.
const (
	rainLikely     = 60.0
	heatThreshold  = 30.0
	coldThreshold  = 5.0
	strongWind     = 25.0
	humidHeadache  = 80.0
	lowVisibility  = 2.0
	sunnyCloudLine = 30.0
)

// Advisor derives advice from the profile and weather without any remote model.
type Advisor struct{}

// NewAdvisor constructs the rule-based advisor.
func NewAdvisor() *Advisor {
	return &Advisor{}
}

// Fetch implements dashboard.AdviceProvider.
func (a *Advisor) Fetch(ctx context.Context, profile dashboard.UserProfile, weather dashboard.WeatherSnapshot) ([]dashboard.AdviceItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var items []dashboard.AdviceItem
	add := func(id string, kind dashboard.AdviceType, priority dashboard.Priority, title, description string) {
		items = append(items, dashboard.AdviceItem{ID: id, Type: kind, Title: title, Description: description, Priority: priority})
	}

	rainy := weather.RainChance >= rainLikely || strings.Contains(strings.ToLower(weather.Condition), "rain")

	if profile.Commute {
		switch {
		case rainy:
			add("commute-rain", dashboard.AdviceWarning, dashboard.PriorityHigh,
				"Carry an umbrella",
				fmt.Sprintf("%.0f%% chance of rain in %s. Leave a little earlier for your commute.", weather.RainChance, weather.Location))
		case weather.Visibility > 0 && weather.Visibility < lowVisibility:
			add("commute-visibility", dashboard.AdviceWarning, dashboard.PriorityMedium,
				"Low visibility",
				fmt.Sprintf("Visibility is down to %.1f km. Allow extra travel time.", weather.Visibility))
		default:
			add("commute-clear", dashboard.AdviceSuccess, dashboard.PriorityLow,
				"Smooth commute expected",
				"No weather disruptions are expected on your way.")
		}
	}

	if weather.Temperature >= heatThreshold {
		add("heat", dashboard.AdviceWarning, dashboard.PriorityHigh,
			"High temperature",
			fmt.Sprintf("It is %.0f°C. Stay hydrated and avoid the midday sun.", weather.Temperature))
	} else if weather.Temperature <= coldThreshold {
		add("cold", dashboard.AdviceTip, dashboard.PriorityMedium,
			"Dress warmly",
			fmt.Sprintf("It is %.0f°C. Layer up before heading out.", weather.Temperature))
	}

	if profile.HasActivity("jogging") || profile.HasActivity("outdoor-sports") {
		if rainy || weather.Temperature >= heatThreshold {
			add("exercise-indoors", dashboard.AdviceTip, dashboard.PriorityMedium,
				"Consider an indoor workout",
				"Conditions are not ideal for outdoor exercise today.")
		} else {
			add("exercise-outdoors", dashboard.AdviceSuccess, dashboard.PriorityLow,
				"Good day to train outside",
				"Temperature and rain chance are favourable for outdoor exercise.")
		}
	}
	if profile.HasActivity("cycling") && weather.WindSpeed >= strongWind {
		add("cycling-wind", dashboard.AdviceWarning, dashboard.PriorityMedium,
			"Strong winds",
			fmt.Sprintf("Winds of %.0f km/h make cycling harder. Plan a sheltered route.", weather.WindSpeed))
	}
	if profile.HasActivity("gardening") && rainy {
		add("gardening-rain", dashboard.AdviceInfo, dashboard.PriorityLow,
			"Skip watering",
			"Rain is expected, so your garden will be watered naturally.")
	}
	if profile.HasActivity("solar-panels") && weather.RainChance < sunnyCloudLine && !rainy {
		add("solar-output", dashboard.AdviceSuccess, dashboard.PriorityLow,
			"Strong solar output",
			"Clear skies should give your panels a productive day.")
	}

	if (profile.HasCondition("asthma") || profile.HasCondition("allergies")) && weather.AQI > 50 {
		add("air-quality", dashboard.AdviceWarning, dashboard.PriorityHigh,
			"Watch the air quality",
			fmt.Sprintf("AQI is %d (%s). Keep medication at hand and limit strenuous activity outdoors.", weather.AQI, strings.ReplaceAll(dashboard.AQIBand(weather.AQI), "_", " ")))
	}
	if profile.HasCondition("sensitive-skin") && !rainy && weather.Temperature > 15 {
		add("sunscreen", dashboard.AdviceTip, dashboard.PriorityMedium,
			"Apply sunscreen",
			"Use a high SPF sunscreen before spending time outside.")
	}
	if profile.HasCondition("migraines") && weather.Humidity >= humidHeadache {
		add("humidity", dashboard.AdviceInfo, dashboard.PriorityMedium,
			"High humidity",
			fmt.Sprintf("Humidity is %.0f%%, which can trigger migraines. Stay hydrated.", weather.Humidity))
	}

	if len(items) == 0 {
		add("general", dashboard.AdviceInfo, dashboard.PriorityLow,
			"Typical conditions",
			fmt.Sprintf("%s with %.0f°C in %s.", capitalize(weather.Condition), weather.Temperature, weather.Location))
	}
	return items, nil
}

func capitalize(s string) string {
	if s == "" {
		return "Current weather"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var _ dashboard.AdviceProvider = (*Advisor)(nil)
