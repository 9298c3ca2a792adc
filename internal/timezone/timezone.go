// Package timezone resolves IANA zone names stored on the establishment.
// Wall-clock values ("10:00") only mean something in the establishment's
// local zone, so every time computation goes through here.
package timezone

import "time"

// DefaultTimezone is used until the owner sets one on the establishment.
const DefaultTimezone = "America/Mexico_City"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location resolves tz, falling back to the default for empty or unknown
// names. Never returns nil.
func Location(tz string) *time.Location {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Now returns the current instant in the default zone. Ledger timestamps
// use this so expiry comparisons share one clock.
func Now() time.Time {
	return time.Now().In(Location(DefaultTimezone))
}
