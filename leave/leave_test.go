package leave_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timekeeper/core"
	"github.com/warp/timekeeper/core/store"
	"github.com/warp/timekeeper/leave"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newService(t *testing.T) (*leave.Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.SaveUser(ctx, core.User{ID: "emp", Email: "employee@demo.com", Role: core.RoleEmployee}))
	require.NoError(t, mem.SaveUser(ctx, core.User{ID: "mgr", Email: "manager@demo.com", Role: core.RoleManager}))

	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	seq := 0
	svc := leave.NewService(mem)
	svc.Now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	svc.NewID = func() string {
		seq++
		return fmt.Sprintf("leave-%d", seq)
	}
	return svc, mem
}

func vacation(start, end string) leave.RequestInput {
	return leave.RequestInput{StartDate: start, EndDate: end, Type: core.LeaveVacation}
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidateRequest_Valid(t *testing.T) {
	v, err := leave.ValidateRequest(leave.RequestInput{
		StartDate: "2024-03-10",
		EndDate:   "2024-03-12T15:00:00Z",
		Type:      core.LeaveSick,
		Reason:    "  flu ",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), v.StartDate)
	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), v.EndDate)
	assert.Equal(t, "flu", v.Reason)
}

func TestValidateRequest_SameDayIsAllowed(t *testing.T) {
	_, err := leave.ValidateRequest(vacation("2024-03-10", "2024-03-10"))
	assert.NoError(t, err)
}

func TestValidateRequest_ReportsEveryBadField(t *testing.T) {
	_, err := leave.ValidateRequest(leave.RequestInput{StartDate: "not-a-date", Type: "SABBATICAL"})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrValidation)

	details := core.ErrorDetails(err)
	require.NotNil(t, details)
	fields, ok := details["errors"].(map[string][]string)
	require.True(t, ok)
	assert.Contains(t, fields, "startDate")
	assert.Contains(t, fields, "endDate")
	assert.Contains(t, fields, "type")
	assert.Equal(t, []string{"End Date is required"}, fields["endDate"])
}

func TestValidateRequest_StartAfterEnd(t *testing.T) {
	_, err := leave.ValidateRequest(vacation("2024-03-12", "2024-03-10"))
	require.Error(t, err)

	fields := core.ErrorDetails(err)["errors"].(map[string][]string)
	assert.Equal(t, []string{"Start date must be before or equal to end date"}, fields["endDate"])
}

func TestDateRangesOverlap(t *testing.T) {
	d := func(day int) time.Time { return time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC) }

	assert.True(t, leave.DateRangesOverlap(d(1), d(5), d(5), d(9)), "shared boundary day")
	assert.True(t, leave.DateRangesOverlap(d(1), d(9), d(3), d(4)), "containment")
	assert.False(t, leave.DateRangesOverlap(d(1), d(4), d(5), d(9)), "adjacent")
}

// =============================================================================
// LIFECYCLE
// =============================================================================

func TestRequest_CreatesPending(t *testing.T) {
	svc, _ := newService(t)

	l, err := svc.Request(context.Background(), "emp", vacation("2024-03-10", "2024-03-12"))
	require.NoError(t, err)
	assert.Equal(t, "leave-1", l.ID)
	assert.Equal(t, core.LeavePending, l.Status)
	assert.Equal(t, 3, l.Span().DayCount())
}

func TestRequest_UnknownUser(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Request(context.Background(), "ghost", vacation("2024-03-10", "2024-03-12"))
	assert.ErrorIs(t, err, core.ErrUserNotFound)
}

func TestRequest_RejectsOverlapWithApprovedOnly(t *testing.T) {
	// GIVEN: An approved leave Mar 10-12 and a pending one Mar 20-21
	ctx := context.Background()
	svc, _ := newService(t)

	first, err := svc.Request(ctx, "emp", vacation("2024-03-10", "2024-03-12"))
	require.NoError(t, err)
	_, err = svc.Approve(ctx, first.ID, "mgr")
	require.NoError(t, err)
	_, err = svc.Request(ctx, "emp", vacation("2024-03-20", "2024-03-21"))
	require.NoError(t, err)

	// WHEN: Requesting Mar 12-14
	_, err = svc.Request(ctx, "emp", vacation("2024-03-12", "2024-03-14"))

	// THEN: Rejected, naming the approved leave
	require.ErrorIs(t, err, core.ErrLeaveOverlap)
	clashes := core.ErrorDetails(err)["overlappingLeaves"].([]map[string]any)
	require.Len(t, clashes, 1)
	assert.Equal(t, first.ID, clashes[0]["id"])

	// And overlapping a pending request is fine
	_, err = svc.Request(ctx, "emp", vacation("2024-03-21", "2024-03-22"))
	assert.NoError(t, err)
}

func TestApprove_SetsApprover(t *testing.T) {
	ctx := context.Background()
	svc, mem := newService(t)

	l, err := svc.Request(ctx, "emp", vacation("2024-03-10", "2024-03-12"))
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, l.ID, "mgr")
	require.NoError(t, err)
	assert.Equal(t, core.LeaveApproved, approved.Status)
	assert.Equal(t, "mgr", approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)

	stored, err := mem.GetLeave(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, core.LeaveApproved, stored.Status)
}

func TestApprove_OnlyPending(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	l, err := svc.Request(ctx, "emp", vacation("2024-03-10", "2024-03-12"))
	require.NoError(t, err)
	_, err = svc.Reject(ctx, l.ID, "mgr", "busy month")
	require.NoError(t, err)

	_, err = svc.Approve(ctx, l.ID, "mgr")
	require.ErrorIs(t, err, core.ErrLeaveNotPending)
	assert.Equal(t, core.LeaveRejected, core.ErrorDetails(err)["currentStatus"])

	_, err = svc.Reject(ctx, l.ID, "mgr", "again")
	assert.ErrorIs(t, err, core.ErrLeaveNotPending)
}

func TestApprove_RechecksOverlap(t *testing.T) {
	// GIVEN: Two pending requests sharing Mar 12
	ctx := context.Background()
	svc, _ := newService(t)

	a, err := svc.Request(ctx, "emp", vacation("2024-03-10", "2024-03-12"))
	require.NoError(t, err)
	b, err := svc.Request(ctx, "emp", leave.RequestInput{StartDate: "2024-03-12", EndDate: "2024-03-13", Type: core.LeavePersonal})
	require.NoError(t, err)

	// WHEN: Both are approved
	_, err = svc.Approve(ctx, a.ID, "mgr")
	require.NoError(t, err)
	_, err = svc.Approve(ctx, b.ID, "mgr")

	// THEN: The second approval fails and the request stays pending
	require.ErrorIs(t, err, core.ErrLeaveOverlap)
	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, b.ID, pending[0].ID)
}

func TestApprove_NotFound(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Approve(context.Background(), "missing", "mgr")
	assert.ErrorIs(t, err, core.ErrLeaveNotFound)
}

func TestReject_StoresReason(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	l, err := svc.Request(ctx, "emp", vacation("2024-03-10", "2024-03-12"))
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, l.ID, "mgr", "team offsite")
	require.NoError(t, err)
	assert.Equal(t, core.LeaveRejected, rejected.Status)
	assert.Equal(t, "team offsite", rejected.RejectionReason)
	assert.Empty(t, rejected.ApprovedBy)
}

// =============================================================================
// QUERIES
// =============================================================================

func TestListings_Ordering(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	first, err := svc.Request(ctx, "emp", vacation("2024-05-01", "2024-05-02"))
	require.NoError(t, err)
	second, err := svc.Request(ctx, "emp", vacation("2024-04-01", "2024-04-02"))
	require.NoError(t, err)
	third, err := svc.Request(ctx, "emp", vacation("2024-06-01", "2024-06-02"))
	require.NoError(t, err)
	_, err = svc.Approve(ctx, third.ID, "mgr")
	require.NoError(t, err)

	mine, err := svc.ListMine(ctx, "emp")
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, []string{third.ID, second.ID, first.ID}, []string{mine[0].ID, mine[1].ID, mine[2].ID})

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)

	approved, err := svc.ListAll(ctx, core.LeaveApproved)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, third.ID, approved[0].ID)

	all, err := svc.ListAll(ctx, "BOGUS")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

// =============================================================================
// BALANCE
// =============================================================================

func day(s string) time.Time {
	t, _ := time.Parse(core.DateLayout, s)
	return t
}

func TestComputeBalance(t *testing.T) {
	// GIVEN: Leaves across the year boundary, unpaid leave and another user
	leaves := []core.LeaveRequest{
		{UserID: "emp", StartDate: day("2023-12-29"), EndDate: day("2024-01-02"), Type: core.LeaveVacation, Status: core.LeaveApproved},
		{UserID: "emp", StartDate: day("2024-03-10"), EndDate: day("2024-03-12"), Type: core.LeaveSick, Status: core.LeaveApproved},
		{UserID: "emp", StartDate: day("2024-04-01"), EndDate: day("2024-04-04"), Type: core.LeaveVacation, Status: core.LeavePending},
		{UserID: "emp", StartDate: day("2024-05-01"), EndDate: day("2024-05-10"), Type: core.LeaveUnpaid, Status: core.LeaveApproved},
		{UserID: "emp", StartDate: day("2024-06-01"), EndDate: day("2024-06-03"), Type: core.LeaveVacation, Status: core.LeaveRejected},
		{UserID: "mgr", StartDate: day("2024-07-01"), EndDate: day("2024-07-05"), Type: core.LeaveVacation, Status: core.LeaveApproved},
	}

	// WHEN
	b := leave.ComputeBalance("emp", 2024, 20, leaves)

	// THEN: Jan 1-2 and Mar 10-12 are used, Apr 1-4 pending
	assert.Equal(t, int64(5), b.Used.Value.IntPart())
	assert.Equal(t, int64(4), b.Pending.Value.IntPart())
	assert.Equal(t, int64(15), b.Remaining().Value.IntPart())
	assert.Equal(t, int64(11), b.Available().Value.IntPart())
	assert.Equal(t, core.UnitDays, b.Used.Unit)
}

func TestBalance_UsesConfiguredEntitlement(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	svc.AnnualEntitlement = 25

	l, err := svc.Request(ctx, "emp", vacation("2024-03-10", "2024-03-12"))
	require.NoError(t, err)
	_, err = svc.Approve(ctx, l.ID, "mgr")
	require.NoError(t, err)

	// Zero year falls back to the clock's year
	b, err := svc.Balance(ctx, "emp", 0)
	require.NoError(t, err)
	assert.Equal(t, 2024, b.Year)
	assert.Equal(t, int64(25), b.Entitlement.Value.IntPart())
	assert.Equal(t, int64(22), b.Remaining().Value.IntPart())

	next, err := svc.Balance(ctx, "emp", 2025)
	require.NoError(t, err)
	assert.True(t, next.Used.Value.IsZero())
}

func TestBalance_UnknownUser(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Balance(context.Background(), "ghost", 2024)
	assert.ErrorIs(t, err, core.ErrUserNotFound)
}

func TestBalance_ZeroEntitlementIsHonoured(t *testing.T) {
	// GIVEN: A deployment granting no paid leave
	ctx := context.Background()
	svc, _ := newService(t)
	svc.AnnualEntitlement = 0

	l, err := svc.Request(ctx, "emp", vacation("2024-03-10", "2024-03-11"))
	require.NoError(t, err)
	_, err = svc.Approve(ctx, l.ID, "mgr")
	require.NoError(t, err)

	// WHEN
	b, err := svc.Balance(ctx, "emp", 2024)

	// THEN: Nothing is granted and the approved days overdraw it
	require.NoError(t, err)
	assert.True(t, b.Entitlement.Value.IsZero())
	assert.Equal(t, int64(-2), b.Remaining().Value.IntPart())
}

func TestNewService_DefaultEntitlement(t *testing.T) {
	svc := leave.NewService(store.NewMemory())
	assert.Equal(t, leave.DefaultAnnualEntitlement, svc.AnnualEntitlement)
}
