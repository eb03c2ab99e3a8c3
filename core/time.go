package core

import (
	"time"
)

// =============================================================================
// TIME POINT - Immutable calendar-day value
// =============================================================================

// TimePoint is a calendar day in UTC. Every operation returns a new value;
// nothing mutates the receiver.
type TimePoint struct {
	Time time.Time
}

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the UTC calendar day containing t.
func DateOf(t time.Time) TimePoint {
	u := t.UTC()
	return NewTimePoint(u.Year(), u.Month(), u.Day())
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return tp.Before(other) || tp.Equal(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return tp.After(other) || tp.Equal(other) }

func (tp TimePoint) normalize() time.Time {
	return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint {
	return TimePoint{Time: tp.Time.AddDate(0, 0, n)}
}

// Day boundaries as instants.
func (tp TimePoint) StartOfDay() time.Time { return DateOf(tp.Time).Time }
func (tp TimePoint) EndOfDay() time.Time   { return tp.StartOfDay().Add(Day - time.Millisecond) }

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }

func (tp TimePoint) String() string { return tp.Time.Format(DateLayout) }

// =============================================================================
// TIME UTILITIES
// =============================================================================

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"

	Day = 24 * time.Hour
)

// DaysBetween counts whole calendar days from one day to another.
func DaysBetween(from, to TimePoint) int { return int(to.normalize().Sub(from.normalize()).Hours() / 24) }

func StartOfMonth(year int, month time.Month) TimePoint { return NewTimePoint(year, month, 1) }

// EndOfMonth is day 0 of the following month, which absorbs leap years.
func EndOfMonth(year int, month time.Month) TimePoint {
	t := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return TimePoint{Time: t}
}

// DaysInMonth returns 28, 29, 30 or 31.
func DaysInMonth(year int, month time.Month) int { return EndOfMonth(year, month).Day() }

// MinutesBetween returns whole minutes from start to end, floored, so a
// negative interval rounds away from zero.
func MinutesBetween(start, end time.Time) int {
	d := end.Sub(start)
	m := int(d / time.Minute)
	if d < 0 && d%time.Minute != 0 {
		m--
	}
	return m
}
