package payroll

import (
	"time"

	"github.com/warp/timekeeper/core"
)

// StandardWorkdayMinutes is the daily threshold above which minutes count as overtime.
const StandardWorkdayMinutes = 8 * 60

// DailyWorkedMinutes sums net worked minutes of the completed sessions that
// start on day. A session crossing midnight belongs wholly to its start day.
func DailyWorkedMinutes(sessions []core.TimeSession, day time.Time) int {
	dayStart := core.DateOf(day).StartOfDay()
	nextDay := dayStart.Add(core.Day)

	total := 0
	for _, s := range sessions {
		if s.Status != core.SessionCompleted {
			continue
		}
		if s.StartTime.Before(dayStart) || !s.StartTime.Before(nextDay) {
			continue
		}
		net, ok := SessionNetMinutes(s)
		if !ok {
			continue
		}
		total += net
	}
	return total
}

// SessionNetMinutes returns gross session minutes minus break minutes,
// clamped at zero. ok is false when the session has neither a stored
// duration nor an end time.
func SessionNetMinutes(s core.TimeSession) (int, bool) {
	var gross int
	switch {
	case s.Duration != nil:
		gross = *s.Duration
	case s.EndTime != nil:
		gross = core.MinutesBetween(s.StartTime, *s.EndTime)
	default:
		return 0, false
	}

	net := gross - BreakMinutes(s.Breaks)
	if net < 0 {
		return 0, true
	}
	return net, true
}

// BreakMinutes sums break durations. Breaks still running contribute zero.
func BreakMinutes(breaks []core.BreakSession) int {
	total := 0
	for _, b := range breaks {
		switch {
		case b.Duration != nil:
			total += *b.Duration
		case b.EndTime != nil:
			total += core.MinutesBetween(b.StartTime, *b.EndTime)
		}
	}
	return total
}

// OvertimeMinutes returns the minutes worked beyond StandardWorkdayMinutes.
func OvertimeMinutes(dailyMinutes int) int {
	if dailyMinutes <= StandardWorkdayMinutes {
		return 0
	}
	return dailyMinutes - StandardWorkdayMinutes
}
