package models

import "time"

// SessionMaxAge is the hard expiry for a held session. A device left logged
// in past this point must re-scan even when the calendar date has not
// rolled over yet.
const SessionMaxAge = 8 * time.Hour

// ClientSession is the session snapshot echoed to the scanning device after
// a successful attendance write. The server keeps no copy; the device holds
// it and re-validates on every app entry.
type ClientSession struct {
	UserName      string     `json:"userName"`
	StableID      string     `json:"stableId"`
	ShortCode     string     `json:"shortCode"`
	ArrivalAt     time.Time  `json:"arrivalTimestamp"`
	EarliestLogin *time.Time `json:"earliestLogin"`
	LatestLogout  *time.Time `json:"latestLogout"`
}

// ValidAt reports whether the session is still usable at the given instant.
// Two independent checks, either of which invalidates: the arrival date must
// equal today's local calendar date (one session episode per day), and the
// elapsed time since arrival must be under SessionMaxAge.
func (s ClientSession) ValidAt(now time.Time) bool {
	if s.ArrivalAt.IsZero() {
		return false
	}
	if !SameCalendarDay(s.ArrivalAt, now) {
		return false
	}
	return now.Sub(s.ArrivalAt) < SessionMaxAge
}

// Expired reports whether the 8-hour hard expiry alone has fired.
func (s ClientSession) Expired(now time.Time) bool {
	return !s.ArrivalAt.IsZero() && now.Sub(s.ArrivalAt) >= SessionMaxAge
}

// SameCalendarDay compares local calendar dates, ignoring the time of day.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

// DayStart truncates t to local midnight, the canonical value for the
// attendance DATE column.
func DayStart(t time.Time) time.Time {
	lt := t.Local()
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, lt.Location())
}
