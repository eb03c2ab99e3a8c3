package payroll_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timekeeper/core"
	"github.com/warp/timekeeper/core/store"
	"github.com/warp/timekeeper/payroll"
)

func seededStore(t *testing.T) *store.Memory {
	t.Helper()
	ctx := context.Background()
	s := store.NewMemory()

	users := []core.User{
		{ID: "u-emp", Email: "employee@demo.com", Role: core.RoleEmployee,
			Profile: &core.Profile{FirstName: "Employee", LastName: "User"}},
		{ID: "u-admin", Email: "admin@demo.com", Role: core.RoleAdmin},
		{ID: "u-guest", Email: "guest@demo.com", Role: core.Role("guest")},
	}
	for _, u := range users {
		require.NoError(t, s.SaveUser(ctx, u))
	}

	sessions := []core.TimeSession{
		// In March: counts
		{ID: "s1", UserID: "u-emp", StartTime: at(2024, 3, 4, 9, 0), EndTime: ptr(at(2024, 3, 4, 18, 0)),
			Status: core.SessionCompleted},
		// Starts in February, ends in March: excluded from March
		{ID: "s2", UserID: "u-emp", StartTime: at(2024, 2, 29, 22, 0), EndTime: ptr(at(2024, 3, 1, 2, 0)),
			Status: core.SessionCompleted},
		// Still open: excluded
		{ID: "s3", UserID: "u-emp", StartTime: at(2024, 3, 5, 9, 0), Status: core.SessionActive},
		// Other user
		{ID: "s4", UserID: "u-admin", StartTime: at(2024, 3, 6, 9, 0), EndTime: ptr(at(2024, 3, 6, 10, 0)),
			Status: core.SessionCompleted},
	}
	for _, ss := range sessions {
		require.NoError(t, s.SaveSession(ctx, ss))
	}

	leaves := []core.LeaveRequest{
		{ID: "l1", UserID: "u-emp", StartDate: date(2024, 2, 28), EndDate: date(2024, 3, 2),
			Type: core.LeaveVacation, Status: core.LeaveApproved},
		{ID: "l2", UserID: "u-emp", StartDate: date(2024, 3, 20), EndDate: date(2024, 3, 22),
			Type: core.LeaveUnpaid, Status: core.LeavePending},
	}
	for _, l := range leaves {
		require.NoError(t, s.SaveLeave(ctx, l))
	}
	return s
}

func TestPreview_BuildsOneSummaryPerPayrollUser(t *testing.T) {
	// GIVEN: Two payroll users and one user with an unrelated role
	svc := payroll.NewPreviewService(seededStore(t), "UTC", 2)

	// WHEN: Previewing March 2024
	res, err := svc.Preview(context.Background(), "2024-03")
	require.NoError(t, err)

	// THEN: Users ordered by email, guest excluded
	assert.Equal(t, "2024-03", res.Month)
	require.Len(t, res.Employees, 2)
	assert.Equal(t, "admin@demo.com", res.Employees[0].Email)
	assert.Equal(t, "employee@demo.com", res.Employees[1].Email)

	admin := res.Employees[0]
	assert.Equal(t, 60, admin.TotalWorkedMinutes)
	assert.Empty(t, admin.Name)

	emp := res.Employees[1]
	assert.Equal(t, "Employee User", emp.Name)
	assert.Equal(t, 540, emp.TotalWorkedMinutes)
	assert.Equal(t, 60, emp.OvertimeMinutes)
	assert.Equal(t, 2, emp.PaidLeaveDays)
	assert.Equal(t, 0, emp.UnpaidLeaveDays)
	assert.Len(t, emp.DailyBreakdown, 31)
	assert.True(t, emp.DailyBreakdown[0].HasPaidLeave)
	assert.False(t, emp.DailyBreakdown[19].HasUnpaidLeave)
}

func TestPreview_FebruaryCountsItsOwnHalfOfTheLeave(t *testing.T) {
	svc := payroll.NewPreviewService(seededStore(t), "UTC", 1)

	res, err := svc.Preview(context.Background(), "2024-02")
	require.NoError(t, err)

	emp := res.Employees[1]
	assert.Len(t, emp.DailyBreakdown, 29)
	assert.Equal(t, 2, emp.PaidLeaveDays)
	// The session crossing into March is credited to Feb 29
	assert.Equal(t, 240, emp.DailyBreakdown[28].WorkedMinutes)
}

func TestPreview_DefaultsToCurrentMonth(t *testing.T) {
	svc := payroll.NewPreviewService(store.NewMemory(), "UTC", 4)
	svc.Now = func() time.Time { return at(2024, 3, 15, 12, 0) }

	res, err := svc.Preview(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "2024-03", res.Month)
	assert.NotNil(t, res.Employees)
	assert.Empty(t, res.Employees)
}

func TestPreview_RejectsInvalidMonth(t *testing.T) {
	svc := payroll.NewPreviewService(store.NewMemory(), "UTC", 1)

	_, err := svc.Preview(context.Background(), "2024-13")
	assert.ErrorIs(t, err, core.ErrInvalidMonth)
}

func TestPreview_IsIdempotent(t *testing.T) {
	svc := payroll.NewPreviewService(seededStore(t), "UTC", 3)

	first, err := svc.Preview(context.Background(), "2024-03")
	require.NoError(t, err)
	second, err := svc.Preview(context.Background(), "2024-03")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
