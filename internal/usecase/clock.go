package usecase

import (
	"time"

	"mediconnect/internal/domain/entity"
)

// Clock decides what "today" is for booking rules
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock returns a clock in loc. A nil now uses time.Now.
func NewClock(loc *time.Location, now func() time.Time) Clock {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return Clock{loc: loc, now: now}
}

func (c Clock) Location() *time.Location { return c.loc }

func (c Clock) Now() time.Time { return c.now().In(c.loc) }

// Today is midnight of the current date in the clock's location
func (c Clock) Today() time.Time { return entity.StartOfDay(c.Now()) }
