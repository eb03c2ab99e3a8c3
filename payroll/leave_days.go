package payroll

import (
	"time"

	"github.com/warp/timekeeper/core"
)

// LeaveDays counts leave days by pay class.
type LeaveDays struct {
	Paid   int
	Unpaid int
}

// CountLeaveDays counts the approved leave days that fall inside
// [periodStart, periodEnd]. Both leaves and period are widened to whole
// days; a leave reaching outside the period only counts its clipped part.
func CountLeaveDays(leaves []core.LeaveRequest, periodStart, periodEnd time.Time) LeaveDays {
	period := core.PeriodOf(periodStart, periodEnd)

	var out LeaveDays
	for _, l := range leaves {
		if l.Status != core.LeaveApproved {
			continue
		}
		overlap, ok := l.Span().Intersect(period)
		if !ok {
			continue
		}
		n := overlap.DayCount()

		switch core.LeaveClassOf(l.Type) {
		case core.LeaveClassPaid:
			out.Paid += n
		case core.LeaveClassUnpaid:
			out.Unpaid += n
		}
	}
	return out
}

// leaveFlagsOn reports whether any approved paid or unpaid leave covers day.
func leaveFlagsOn(leaves []core.LeaveRequest, day core.TimePoint) (paid, unpaid bool) {
	single := core.Period{Start: day, End: day}
	for _, l := range leaves {
		if l.Status != core.LeaveApproved || !l.Span().Overlaps(single) {
			continue
		}
		switch core.LeaveClassOf(l.Type) {
		case core.LeaveClassPaid:
			paid = true
		case core.LeaveClassUnpaid:
			unpaid = true
		}
	}
	return paid, unpaid
}
