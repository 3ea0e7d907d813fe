package core

import "time"

// Datetime is an absolute instant at microsecond resolution. It wraps
// time.Time rather than redefining arithmetic on top of an int64 tick
// count, since the host runtime already gives us monotonic, leap-second
// free wall-clock math.
type Datetime struct {
	t time.Time
}

// MinDatetime and MaxDatetime bound the representable range; a zero-value
// Datetime compares equal to MinDatetime.
var (
	MinDatetime = Datetime{t: time.Time{}}
	MaxDatetime = Datetime{t: time.Unix(1<<62, 0).UTC()}
)

func NewDatetime(t time.Time) Datetime {
	return Datetime{t: t.UTC()}
}

func (d Datetime) Time() time.Time { return d.t }

func (d Datetime) IsZero() bool { return d.t.IsZero() }

func (d Datetime) Add(delta TimeDelta) Datetime {
	return Datetime{t: d.t.Add(delta.Duration())}
}

func (d Datetime) Sub(o Datetime) TimeDelta {
	return TimeDelta(d.t.Sub(o.t))
}

func (d Datetime) Before(o Datetime) bool { return d.t.Before(o.t) }
func (d Datetime) After(o Datetime) bool  { return d.t.After(o.t) }
func (d Datetime) Equal(o Datetime) bool  { return d.t.Equal(o.t) }

// StartOfDay truncates to midnight UTC of the same calendar day.
func (d Datetime) StartOfDay() Datetime {
	y, m, day := d.t.Date()
	return Datetime{t: time.Date(y, m, day, 0, 0, 0, 0, time.UTC)}
}

// TimeOfDay returns the offset since StartOfDay as a TimeDelta, used when
// checking a timer's daily window.
func (d Datetime) TimeOfDay() TimeDelta {
	return d.Sub(d.StartOfDay())
}

func (d Datetime) String() string {
	return d.t.Format("2006-01-02 15:04:05.000000")
}
