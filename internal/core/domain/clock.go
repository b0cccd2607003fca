package domain

import "time"

// DateLayout is the ISO calendar-date format used on the wire and as map keys.
const DateLayout = "2006-01-02"

// CentralStandardTime is a fixed UTC-6 zone; daylight saving is ignored and
// week boundaries never shift.
var CentralStandardTime = time.FixedZone("CST", -6*60*60)

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant. Handy for jobs that replay a day.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time {
	return c.At
}

// CivilDate truncates t to midnight UTC of its calendar date in loc.
func CivilDate(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date in CentralStandardTime.
func Today(clock Clock) time.Time {
	return CivilDate(clock.Now(), CentralStandardTime)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
