package helpers

import (
	"time"
)

// no accounts exist before this time
var atprotoAccountEpoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// returns true if account creation timestamp is plausible: not-nil, not in distant past, not in the future (relative to now)
func PlausibleAccountCreation(when *time.Time, now time.Time) bool {
	if when == nil {
		return false
	}
	// this is mostly to check for misconfigurations or null values (eg, UNIX epoch zero means "unknown" not actually 1970)
	if !when.After(atprotoAccountEpoch) {
		return false
	}
	if when.After(now.Add(time.Hour)) {
		return false
	}
	return true
}

// Whole days elapsed between account creation and now (floor). Implausible or missing timestamps count as zero days.
func AccountAgeDays(createdAt *time.Time, now time.Time) int64 {
	if !PlausibleAccountCreation(createdAt, now) {
		return 0
	}
	d := now.Sub(*createdAt)
	if d < 0 {
		return 0
	}
	return int64(d / (24 * time.Hour))
}
