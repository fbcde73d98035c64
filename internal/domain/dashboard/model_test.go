package dashboard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
)

func TestProfileNormalize(t *testing.T) {
	profile := UserProfile{
		Location:         "  New York, NY ",
		Commute:          true,
		Activities:       []string{"Jogging", "cycling", "jogging", " "},
		HealthConditions: nil,
	}.Normalize()

	require.Equal(t, "New York, NY", profile.Location)
	require.Equal(t, []string{"jogging", "cycling"}, profile.Activities)
	require.NotNil(t, profile.HealthConditions)
	require.Empty(t, profile.HealthConditions)
}

func TestProfileValidate(t *testing.T) {
	require.NoError(t, parisProfile().Validate())

	err := UserProfile{}.Validate()
	require.True(t, apperrors.IsCode(err, CodeInvalidInput))

	err = UserProfile{Location: "Paris", HealthConditions: []string{"hay-fever"}}.Validate()
	require.True(t, apperrors.IsCode(err, CodeInvalidInput))
	require.Contains(t, err.Error(), "hay-fever")
}

func TestProfileJSONUsesCamelCaseKeys(t *testing.T) {
	raw, err := json.Marshal(parisProfile())
	require.NoError(t, err)
	require.JSONEq(t, `{"location":"Paris","commute":true,"activities":["jogging"],"healthConditions":[]}`, string(raw))
}

func TestAQIBand(t *testing.T) {
	require.Equal(t, "good", AQIBand(50))
	require.Equal(t, "moderate", AQIBand(PlaceholderAQI))
	require.Equal(t, "unhealthy_sensitive", AQIBand(150))
	require.Equal(t, "unhealthy", AQIBand(151))
}

func TestStateBusy(t *testing.T) {
	require.False(t, StateIdle.Busy())
	require.True(t, StateFetchingWeather.Busy())
	require.False(t, StateFailed.Busy())
}
