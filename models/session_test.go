package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClientSessionValidAt(t *testing.T) {
	arrival := time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local)
	s := ClientSession{UserName: "Diego Garcia", StableID: "u-1", ArrivalAt: arrival}

	assert.True(t, s.ValidAt(arrival.Add(5*time.Minute)))
	assert.True(t, s.ValidAt(arrival.Add(SessionMaxAge-time.Second)))

	// Hard expiry fires at exactly eight hours.
	assert.False(t, s.ValidAt(arrival.Add(SessionMaxAge)))

	// Date rollover invalidates even when under the age limit.
	late := ClientSession{StableID: "u-1", ArrivalAt: time.Date(2024, 3, 1, 23, 30, 0, 0, time.Local)}
	assert.False(t, late.ValidAt(time.Date(2024, 3, 2, 0, 10, 0, 0, time.Local)))
}

func TestClientSessionZeroArrivalNeverValid(t *testing.T) {
	var s ClientSession
	assert.False(t, s.ValidAt(time.Now()))
	assert.False(t, s.Expired(time.Now()))
}

func TestClientSessionExpired(t *testing.T) {
	arrival := time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local)
	s := ClientSession{ArrivalAt: arrival}

	assert.False(t, s.Expired(arrival.Add(SessionMaxAge-time.Second)))
	assert.True(t, s.Expired(arrival.Add(SessionMaxAge)))
	assert.True(t, s.Expired(arrival.Add(24*time.Hour)))
}

func TestSameCalendarDay(t *testing.T) {
	morning := time.Date(2024, 3, 1, 0, 0, 1, 0, time.Local)
	night := time.Date(2024, 3, 1, 23, 59, 59, 0, time.Local)
	nextDay := time.Date(2024, 3, 2, 0, 0, 0, 0, time.Local)

	assert.True(t, SameCalendarDay(morning, night))
	assert.False(t, SameCalendarDay(night, nextDay))
}

func TestDayStart(t *testing.T) {
	ts := time.Date(2024, 3, 1, 17, 45, 12, 999, time.Local)
	got := DayStart(ts)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), got)
	assert.True(t, SameCalendarDay(ts, got))
}
