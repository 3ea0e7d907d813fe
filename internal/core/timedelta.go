package core

import "time"

// TimeDelta is a signed duration with time.Duration's nanosecond
// resolution; Ticks reports it in microseconds. When used as a
// time-of-day value it is expected to be bounded to [0, 24h).
type TimeDelta time.Duration

func Microseconds(us int64) TimeDelta { return TimeDelta(time.Duration(us) * time.Microsecond) }

func (d TimeDelta) Duration() time.Duration { return time.Duration(d) }

// Ticks returns the delta as an integer microsecond count.
func (d TimeDelta) Ticks() int64 { return int64(time.Duration(d) / time.Microsecond) }

func (d TimeDelta) IsZero() bool { return d == 0 }

func (d TimeDelta) Less(o TimeDelta) bool { return d < o }

// InDailyWindow bounds a time-of-day, matching the validation rule that
// start_time/end_time lie in (0, 24h).
func (d TimeDelta) InDailyWindow() bool {
	return d > 0 && d < TimeDelta(24*time.Hour)
}
