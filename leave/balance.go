package leave

import (
	"context"
	"time"

	"github.com/warp/timekeeper/core"
)

// =============================================================================
// BALANCE - Paid leave days per calendar year
// =============================================================================

// DefaultAnnualEntitlement is the paid leave granted per calendar year, in days.
const DefaultAnnualEntitlement = 20

// Balance is a user's paid leave for one calendar year. Only paid leave
// types draw from it; unpaid leave is unlimited.
//
//	Remaining = Entitlement - Used
//	Available = Remaining - Pending
type Balance struct {
	UserID      string
	Year        int
	Entitlement core.Amount

	// Approved paid leave days falling inside the year
	Used core.Amount

	// Paid leave days still awaiting a decision
	Pending core.Amount
}

func (b Balance) Remaining() core.Amount { return b.Entitlement.Sub(b.Used) }
func (b Balance) Available() core.Amount { return b.Remaining().Sub(b.Pending) }

// ComputeBalance sums the paid leave of leaves within year. Leave spanning a
// year boundary only counts its days inside year.
func ComputeBalance(userID string, year, entitlement int, leaves []core.LeaveRequest) Balance {
	yearSpan := core.Period{
		Start: core.NewTimePoint(year, time.January, 1),
		End:   core.NewTimePoint(year, time.December, 31),
	}

	var used, pending int
	for _, l := range leaves {
		if l.UserID != userID || core.LeaveClassOf(l.Type) != core.LeaveClassPaid {
			continue
		}
		overlap, ok := l.Span().Intersect(yearSpan)
		if !ok {
			continue
		}
		switch l.Status {
		case core.LeaveApproved:
			used += overlap.DayCount()
		case core.LeavePending:
			pending += overlap.DayCount()
		}
	}

	return Balance{
		UserID:      userID,
		Year:        year,
		Entitlement: core.NewAmountFromInt(entitlement, core.UnitDays),
		Used:        core.NewAmountFromInt(used, core.UnitDays),
		Pending:     core.NewAmountFromInt(pending, core.UnitDays),
	}
}

// Balance returns userID's paid leave balance for year. Zero means the
// current year.
func (s *Service) Balance(ctx context.Context, userID string, year int) (Balance, error) {
	if _, err := s.Store.GetUser(ctx, userID); err != nil {
		return Balance{}, err
	}
	if year == 0 {
		year = s.now().Year()
	}

	leaves, err := s.Store.ListLeaves(ctx, core.LeaveFilter{
		UserID:      userID,
		Statuses:    []core.LeaveStatus{core.LeaveApproved, core.LeavePending},
		OverlapFrom: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		OverlapTo:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		return Balance{}, err
	}

	return ComputeBalance(userID, year, s.AnnualEntitlement, leaves), nil
}
