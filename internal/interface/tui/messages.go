package tui

import "github.com/yanqian/weather-dashboard/internal/domain/dashboard"

// dashboardMsg carries a published dashboard state; closed is set once the subscription ends.
type dashboardMsg struct {
	state  dashboard.Dashboard
	closed bool
}

// profileLoadedMsg is sent when the stored profile has been read at startup.
type profileLoadedMsg struct {
	profile dashboard.UserProfile
	ok      bool
	err     error
}

// submitDoneMsg is sent when a submission has finished.
type submitDoneMsg struct {
	err error
}
