package compliance

import "time"

// Clock yields the current instant and calendar day in the provider's
// timezone. Expiry arithmetic only ever compares calendar days.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{loc: loc, now: time.Now}
}

func (c Clock) Now() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

func (c Clock) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// Today is midnight UTC of the current calendar day in the clock's location.
func (c Clock) Today() time.Time {
	return dateOf(c.Now().In(c.Location()))
}

// dateOf strips the time of day from t, keeping t's own calendar date.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysUntil is the number of calendar days from today to expiry; negative
// once expiry has passed.
func DaysUntil(today, expiry time.Time) int {
	return int(dateOf(expiry).Sub(dateOf(today)).Hours() / 24)
}
