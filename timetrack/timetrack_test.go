package timetrack_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timekeeper/core"
	"github.com/warp/timekeeper/core/store"
	"github.com/warp/timekeeper/payroll"
	"github.com/warp/timekeeper/timetrack"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// fakeClock is advanced explicitly by tests.
type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
func (c *fakeClock) Set(h, m int) { c.now = time.Date(c.now.Year(), c.now.Month(), c.now.Day(), h, m, 0, 0, time.UTC) }

func newService(t *testing.T) (*timetrack.Service, *fakeClock, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	require.NoError(t, mem.SaveUser(context.Background(), core.User{ID: "emp", Email: "employee@demo.com", Role: core.RoleEmployee}))

	clock := &fakeClock{now: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)}
	seq := 0
	svc := timetrack.NewService(mem)
	svc.Now = clock.Now
	svc.NewID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return svc, clock, mem
}

// =============================================================================
// CLOCK ACTIONS
// =============================================================================

func TestFullDay_ProducesPayrollReadySession(t *testing.T) {
	// GIVEN: 09:00 clock in, 12:00-12:30 break, 17:00 clock out
	ctx := context.Background()
	svc, clock, _ := newService(t)

	_, err := svc.ClockIn(ctx, "emp")
	require.NoError(t, err)

	clock.Set(12, 0)
	_, err = svc.StartBreak(ctx, "emp")
	require.NoError(t, err)

	clock.Set(12, 30)
	b, err := svc.EndBreak(ctx, "emp")
	require.NoError(t, err)
	assert.Equal(t, 30, *b.Duration)

	clock.Set(17, 0)
	session, err := svc.ClockOut(ctx, "emp")
	require.NoError(t, err)

	// THEN: Gross duration is stored; net is 450 for payroll
	assert.Equal(t, core.SessionCompleted, session.Status)
	assert.Equal(t, 480, *session.Duration)
	net, ok := payroll.SessionNetMinutes(*session)
	require.True(t, ok)
	assert.Equal(t, 450, net)
	assert.Equal(t, 450, payroll.DailyWorkedMinutes([]core.TimeSession{*session}, clock.now))
}

func TestClockIn_RejectsSecondOpenSession(t *testing.T) {
	ctx := context.Background()
	svc, clock, _ := newService(t)

	first, err := svc.ClockIn(ctx, "emp")
	require.NoError(t, err)

	clock.Advance(time.Hour)
	_, err = svc.ClockIn(ctx, "emp")
	require.ErrorIs(t, err, core.ErrSessionAlreadyOpen)
	assert.Equal(t, first.ID, core.ErrorDetails(err)["sessionId"])

	// Still rejected while paused
	_, err = svc.StartBreak(ctx, "emp")
	require.NoError(t, err)
	_, err = svc.ClockIn(ctx, "emp")
	assert.ErrorIs(t, err, core.ErrSessionAlreadyOpen)
}

func TestClockIn_UnknownUser(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.ClockIn(context.Background(), "ghost")
	assert.ErrorIs(t, err, core.ErrUserNotFound)
}

func TestBreaks_RequireOpenSession(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	_, err := svc.StartBreak(ctx, "emp")
	assert.ErrorIs(t, err, core.ErrNoOpenSession)
	_, err = svc.EndBreak(ctx, "emp")
	assert.ErrorIs(t, err, core.ErrNoOpenSession)
	_, err = svc.ClockOut(ctx, "emp")
	assert.ErrorIs(t, err, core.ErrNoOpenSession)
}

func TestBreaks_StateTransitions(t *testing.T) {
	ctx := context.Background()
	svc, clock, mem := newService(t)

	session, err := svc.ClockIn(ctx, "emp")
	require.NoError(t, err)

	_, err = svc.EndBreak(ctx, "emp")
	assert.ErrorIs(t, err, core.ErrNoActiveBreak)

	clock.Advance(time.Hour)
	b, err := svc.StartBreak(ctx, "emp")
	require.NoError(t, err)
	assert.Equal(t, core.BreakRest, b.Type)

	stored, err := mem.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, core.SessionPaused, stored.Status)

	_, err = svc.StartBreak(ctx, "emp")
	assert.ErrorIs(t, err, core.ErrBreakAlreadyActive)

	clock.Advance(15 * time.Minute)
	_, err = svc.EndBreak(ctx, "emp")
	require.NoError(t, err)

	stored, err = mem.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, core.SessionActive, stored.Status)
	require.Len(t, stored.Breaks, 1)
	assert.Equal(t, 15, *stored.Breaks[0].Duration)
}

func TestClockOut_EndsRunningBreak(t *testing.T) {
	ctx := context.Background()
	svc, clock, _ := newService(t)

	_, err := svc.ClockIn(ctx, "emp")
	require.NoError(t, err)
	clock.Set(13, 0)
	_, err = svc.StartBreak(ctx, "emp")
	require.NoError(t, err)
	clock.Set(13, 20)

	session, err := svc.ClockOut(ctx, "emp")
	require.NoError(t, err)
	require.Len(t, session.Breaks, 1)
	require.NotNil(t, session.Breaks[0].EndTime)
	assert.Equal(t, 20, *session.Breaks[0].Duration)
	assert.Equal(t, 260, *session.Duration)

	net, _ := payroll.SessionNetMinutes(*session)
	assert.Equal(t, 240, net)
}

func TestCancelSession(t *testing.T) {
	ctx := context.Background()
	svc, clock, _ := newService(t)

	session, err := svc.ClockIn(ctx, "emp")
	require.NoError(t, err)
	clock.Advance(time.Hour)

	cancelled, err := svc.CancelSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, core.SessionCancelled, cancelled.Status)

	// User can clock in again afterwards
	_, err = svc.ClockIn(ctx, "emp")
	require.NoError(t, err)

	_, err = svc.CancelSession(ctx, session.ID)
	assert.ErrorIs(t, err, core.ErrNoOpenSession)

	_, err = svc.CancelSession(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

// =============================================================================
// STATUS AND LISTING
// =============================================================================

func TestStatus_CombinesCompletedAndLiveTime(t *testing.T) {
	// GIVEN: A completed morning session and an afternoon session on break
	ctx := context.Background()
	svc, clock, _ := newService(t)

	_, err := svc.ClockIn(ctx, "emp")
	require.NoError(t, err)
	clock.Set(12, 0)
	_, err = svc.ClockOut(ctx, "emp")
	require.NoError(t, err)

	clock.Set(13, 0)
	_, err = svc.ClockIn(ctx, "emp")
	require.NoError(t, err)
	clock.Set(14, 0)
	_, err = svc.StartBreak(ctx, "emp")
	require.NoError(t, err)

	// WHEN: Checking status at 14:10
	clock.Set(14, 10)
	st, err := svc.Status(ctx, "emp")
	require.NoError(t, err)

	// THEN: 180 completed + 60 live (the running break is not worked time)
	assert.True(t, st.HasActiveSession)
	require.NotNil(t, st.ActiveBreak)
	assert.Equal(t, core.SessionPaused, st.Session.Status)
	assert.Equal(t, 240, st.TotalWorkedToday)
}

func TestStatus_NoSession(t *testing.T) {
	svc, _, _ := newService(t)

	st, err := svc.Status(context.Background(), "emp")
	require.NoError(t, err)
	assert.False(t, st.HasActiveSession)
	assert.Nil(t, st.Session)
	assert.Zero(t, st.TotalWorkedToday)
}

func TestListSessions_DefaultsToCurrentWeekNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, clock, mem := newService(t)

	// Monday Mar 4 and Wednesday Mar 6, plus the previous Sunday
	for _, s := range []core.TimeSession{
		{ID: "mon", UserID: "emp", StartTime: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC), Status: core.SessionCompleted},
		{ID: "wed", UserID: "emp", StartTime: time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC), Status: core.SessionCompleted},
		{ID: "sun", UserID: "emp", StartTime: time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC), Status: core.SessionCompleted},
	} {
		require.NoError(t, mem.SaveSession(ctx, s))
	}
	clock.now = time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC)

	got, err := svc.ListSessions(ctx, "emp", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "wed", got[0].ID)
	assert.Equal(t, "mon", got[1].ID)

	explicit, err := svc.ListSessions(ctx, "emp",
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 3, 23, 59, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, explicit, 1)
	assert.Equal(t, "sun", explicit[0].ID)
}

func TestHistory_UnboundedWithoutRange(t *testing.T) {
	ctx := context.Background()
	svc, _, mem := newService(t)

	for _, s := range []core.TimeSession{
		{ID: "jan", UserID: "emp", StartTime: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), Status: core.SessionCompleted},
		{ID: "mar", UserID: "emp", StartTime: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC), Status: core.SessionCancelled},
	} {
		require.NoError(t, mem.SaveSession(ctx, s))
	}

	got, err := svc.History(ctx, "emp", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "mar", got[0].ID)

	// One bound alone is ignored
	got, err = svc.History(ctx, "emp", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Time{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

// =============================================================================
// HELPERS
// =============================================================================

func TestFormatDuration(t *testing.T) {
	cases := map[int]string{
		150: "2h 30m",
		120: "2h",
		45:  "45m",
		0:   "0m",
		-5:  "0m",
		61:  "1h 1m",
	}
	for in, want := range cases {
		assert.Equal(t, want, timetrack.FormatDuration(in), "minutes=%d", in)
	}
}

func TestWeekBounds(t *testing.T) {
	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	sundayEnd := time.Date(2024, 3, 10, 23, 59, 59, 999_000_000, time.UTC)

	for _, d := range []time.Time{
		time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),   // Monday
		time.Date(2024, 3, 7, 15, 30, 0, 0, time.UTC), // Thursday
		time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC), // Sunday
	} {
		start, end := timetrack.WeekBounds(d)
		assert.Equal(t, monday, start, "for %s", d)
		assert.Equal(t, sundayEnd, end, "for %s", d)
	}
}

func TestMinutesBetween(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, 90, timetrack.MinutesBetween(start, start.Add(90*time.Minute+59*time.Second)))
}
