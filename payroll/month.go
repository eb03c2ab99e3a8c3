package payroll

import (
	"regexp"
	"strconv"
	"time"

	"github.com/warp/timekeeper/core"
)

// =============================================================================
// MONTH - YYYY-MM identifier and its boundaries
// =============================================================================

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Month is a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth accepts exactly YYYY-MM with a month between 01 and 12.
func ParseMonth(s string) (Month, error) {
	if !monthPattern.MatchString(s) {
		return Month{}, invalidMonth(s)
	}
	year, _ := strconv.Atoi(s[:4])
	m, _ := strconv.Atoi(s[5:])
	if m < 1 || m > 12 {
		return Month{}, invalidMonth(s)
	}
	return Month{Year: year, Month: time.Month(m)}, nil
}

func invalidMonth(s string) error {
	return &core.ValidationError{
		Field:   "month",
		Message: "Invalid month format. Expected YYYY-MM",
		Details: map[string]any{"provided": s},
		Cause:   core.ErrInvalidMonth,
	}
}

// MonthOf returns the UTC month containing t.
func MonthOf(t time.Time) Month {
	u := t.UTC()
	return Month{Year: u.Year(), Month: u.Month()}
}

func (m Month) String() string { return core.StartOfMonth(m.Year, m.Month).Time.Format(core.MonthLayout) }

// Period returns day 1 through the last day of the month.
func (m Month) Period() core.Period {
	return core.Period{Start: core.StartOfMonth(m.Year, m.Month), End: core.EndOfMonth(m.Year, m.Month)}
}

// Bounds is the inclusive instant range of a month.
type Bounds struct {
	Start time.Time
	End   time.Time
}

// Period returns the bounds at day granularity.
func (b Bounds) Period() core.Period { return core.PeriodOf(b.Start, b.End) }

// MonthBounds resolves a YYYY-MM month to [day 1 00:00:00.000, last day 23:59:59.999].
//
// The timezone label is carried for callers but boundaries are always UTC.
func MonthBounds(month, timezone string) (Bounds, error) {
	m, err := ParseMonth(month)
	if err != nil {
		return Bounds{}, err
	}
	start, end := m.Period().Instants()
	return Bounds{Start: start, End: end}, nil
}

// DaysInMonth returns UTC midnight of every day of the month, ascending.
func DaysInMonth(month, timezone string) ([]time.Time, error) {
	m, err := ParseMonth(month)
	if err != nil {
		return nil, err
	}
	days := make([]time.Time, 0, core.DaysInMonth(m.Year, m.Month))
	for _, d := range m.Period().Days() {
		days = append(days, d.StartOfDay())
	}
	return days, nil
}
