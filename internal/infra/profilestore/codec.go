package profilestore

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
)

// encodeProfile stores the profile exactly as given.
func encodeProfile(profile dashboard.UserProfile) ([]byte, error) {
	return json.Marshal(profile)
}

// decodeProfile treats empty or unparsable documents as absent.
func decodeProfile(data []byte, logger *slog.Logger) (dashboard.UserProfile, bool) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return dashboard.UserProfile{}, false
	}
	var profile dashboard.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		logger.Warn("stored profile is malformed, ignoring", "error", err)
		return dashboard.UserProfile{}, false
	}
	return profile, true
}
