package timetrack

import (
	"fmt"
	"time"

	"github.com/warp/timekeeper/core"
)

// MinutesBetween returns whole minutes from start to end, rounded down.
func MinutesBetween(start, end time.Time) int {
	return core.MinutesBetween(start, end)
}

// FormatDuration renders minutes as "2h 30m", "2h", "45m" or "0m".
// Negative input renders as "0m".
func FormatDuration(minutes int) string {
	if minutes < 0 {
		return "0m"
	}
	h, m := minutes/60, minutes%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// WeekBounds returns Monday 00:00:00.000 through Sunday 23:59:59.999 (UTC)
// of the week containing t.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	day := core.DateOf(t)
	back := (int(day.Weekday()) + 6) % 7 // days since Monday
	monday := day.AddDays(-back)
	return monday.StartOfDay(), monday.AddDays(6).EndOfDay()
}
