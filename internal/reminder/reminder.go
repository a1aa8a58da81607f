// Package reminder defines the core data types flowing through chime:
// a Reminder is a title paired with a time of day, with no date attached.
package reminder

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock is a time of day in 24-hour form with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// NewClock validates hour and minute and returns the corresponding Clock.
func NewClock(hour, minute int) (Clock, error) {
	if hour < 0 || hour > 23 {
		return Clock{}, fmt.Errorf("hour %d out of range", hour)
	}
	if minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("minute %d out of range", minute)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// ParseClock parses a zero-padded "HH:MM" string.
func ParseClock(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' || !isDigits(s[:2]) || !isDigits(s[3:]) {
		return Clock{}, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	hour, err := strconv.Atoi(s[:2])
	if err != nil {
		return Clock{}, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	minute, err := strconv.Atoi(s[3:])
	if err != nil {
		return Clock{}, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	c, err := NewClock(hour, minute)
	if err != nil {
		return Clock{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return c, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ClockOf returns the minute-precision time of day of t.
func ClockOf(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute()}
}

// String formats the clock as "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Before reports whether c is strictly earlier than the time of day of t.
// Seconds and below count, so 17:30 is before 17:30:01 but not before 17:30:00.
func (c Clock) Before(t time.Time) bool {
	at := time.Duration(c.Hour)*time.Hour + time.Duration(c.Minute)*time.Minute
	now := time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
	return at < now
}

// MarshalJSON encodes the clock as an "HH:MM" string.
func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes an "HH:MM" string, rejecting out-of-range values.
func (c *Clock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Reminder is a one-time daily alert. Two reminders with the same title and
// time are indistinguishable.
type Reminder struct {
	// Title is what the user asked to be reminded of.
	Title string `json:"title"`

	// Time is when the reminder becomes due, as "HH:MM" on the wire.
	Time Clock `json:"time"`
}

// Due reports whether the reminder's time has already passed at now.
func (r Reminder) Due(now time.Time) bool {
	return r.Time.Before(now)
}

// Message is the notification body shown when the reminder fires.
func (r Reminder) Message() string {
	return fmt.Sprintf("It's time for %s!", strings.ToLower(r.Title))
}
