package core

import "time"

// =============================================================================
// PERIOD - Inclusive span of calendar days
// =============================================================================

// Period is the inclusive day range [Start, End].
//
// Examples:
//   - A payroll month: Mar 1 - Mar 31
//   - A leave request: Mar 10 - Mar 12
type Period struct {
	Start TimePoint
	End   TimePoint
}

// PeriodOf builds a day period from two instants, truncating each to its UTC day.
func PeriodOf(start, end time.Time) Period {
	return Period{Start: DateOf(start), End: DateOf(end)}
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Overlaps reports whether the two periods share at least one day.
func (p Period) Overlaps(other Period) bool {
	return p.Start.BeforeOrEqual(other.End) && p.End.AfterOrEqual(other.Start)
}

// Intersect clips p to other. The boolean is false when they do not overlap.
func (p Period) Intersect(other Period) (Period, bool) {
	if !p.Overlaps(other) {
		return Period{}, false
	}
	out := p
	if other.Start.After(out.Start) {
		out.Start = other.Start
	}
	if other.End.Before(out.End) {
		out.End = other.End
	}
	return out, true
}

// DayCount returns the number of calendar days in the period, inclusive.
// An inverted period has zero days.
func (p Period) DayCount() int {
	if p.End.Before(p.Start) {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

// Days returns all days in the period as a slice of TimePoints.
func (p Period) Days() []TimePoint {
	var days []TimePoint
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

// Instants returns the first and last instant covered by the period:
// Start at 00:00:00.000 and End at 23:59:59.999.
func (p Period) Instants() (time.Time, time.Time) {
	return p.Start.StartOfDay(), p.End.EndOfDay()
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
