package entity

import "time"

// DateLayout is the calendar date format used on the wire
const DateLayout = "2006-01-02"

// TimeSlot is one bookable half-hour interval, identified by its label
type TimeSlot struct {
	Label   string `json:"label"`
	Minutes int    `json:"-"`
}

// standardTimeSlots is the fixed day template: two blocks around a lunch gap
// (12:30 PM is the last morning slot, 02:00 PM the first afternoon slot).
var standardTimeSlots = []TimeSlot{
	{Label: "09:00 AM", Minutes: 9 * 60},
	{Label: "09:30 AM", Minutes: 9*60 + 30},
	{Label: "10:00 AM", Minutes: 10 * 60},
	{Label: "10:30 AM", Minutes: 10*60 + 30},
	{Label: "11:00 AM", Minutes: 11 * 60},
	{Label: "11:30 AM", Minutes: 11*60 + 30},
	{Label: "12:00 PM", Minutes: 12 * 60},
	{Label: "12:30 PM", Minutes: 12*60 + 30},
	{Label: "02:00 PM", Minutes: 14 * 60},
	{Label: "02:30 PM", Minutes: 14*60 + 30},
	{Label: "03:00 PM", Minutes: 15 * 60},
	{Label: "03:30 PM", Minutes: 15*60 + 30},
	{Label: "04:00 PM", Minutes: 16 * 60},
	{Label: "04:30 PM", Minutes: 16*60 + 30},
}

// TimeSlots returns a copy of the ordered slot template
func TimeSlots() []TimeSlot {
	out := make([]TimeSlot, len(standardTimeSlots))
	copy(out, standardTimeSlots)
	return out
}

// LookupTimeSlot finds the slot with the given label
func LookupTimeSlot(label string) (TimeSlot, bool) {
	for _, s := range standardTimeSlots {
		if s.Label == label {
			return s, true
		}
	}
	return TimeSlot{}, false
}

// IsWeekend reports whether date falls on Saturday or Sunday
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// StartOfDay truncates t to midnight in t's location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate parses a YYYY-MM-DD date as midnight in loc
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}
