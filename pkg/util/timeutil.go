package util

import "time"

// NowUTC is the default clock for domain services; tests swap it for a fixed one.
func NowUTC() time.Time {
	return time.Now().UTC()
}
