package timetrack_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timekeeper/core"
	"github.com/warp/timekeeper/payroll"
	"github.com/warp/timekeeper/timetrack"
)

func at(day, h, m int) time.Time {
	return time.Date(2024, 3, day, h, m, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

// =============================================================================
// CREATE ENTRY
// =============================================================================

func TestCreateEntry_CompletedWithGrossDuration(t *testing.T) {
	ctx := context.Background()
	svc, _, mem := newService(t)

	session, err := svc.CreateEntry(ctx, timetrack.Entry{
		UserID: "emp",
		Start:  at(1, 9, 0),
		End:    ptr(at(1, 17, 30)),
		Notes:  "forgot to clock in",
	})
	require.NoError(t, err)
	assert.Equal(t, core.SessionCompleted, session.Status)
	assert.Equal(t, 510, *session.Duration)
	assert.Equal(t, "forgot to clock in", session.Notes)

	// THEN: Payroll reads it like a clocked session
	stored, err := mem.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 510, payroll.DailyWorkedMinutes([]core.TimeSession{*stored}, at(1, 0, 0)))
}

func TestCreateEntry_WithoutEndIsActive(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	session, err := svc.CreateEntry(ctx, timetrack.Entry{UserID: "emp", Start: at(4, 8, 0)})
	require.NoError(t, err)
	assert.Equal(t, core.SessionActive, session.Status)
	assert.Nil(t, session.Duration)

	// A second open entry and a clock-in are both refused
	_, err = svc.CreateEntry(ctx, timetrack.Entry{UserID: "emp", Start: at(4, 9, 0)})
	assert.ErrorIs(t, err, core.ErrSessionAlreadyOpen)
	_, err = svc.ClockIn(ctx, "emp")
	assert.ErrorIs(t, err, core.ErrSessionAlreadyOpen)
}

func TestCreateEntry_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	tests := []struct {
		name  string
		entry timetrack.Entry
		want  error
		field string
	}{
		{"missing start", timetrack.Entry{UserID: "emp"}, core.ErrValidation, "startTime"},
		{"end equals start", timetrack.Entry{UserID: "emp", Start: at(1, 9, 0), End: ptr(at(1, 9, 0))}, core.ErrValidation, "endTime"},
		{"end before start", timetrack.Entry{UserID: "emp", Start: at(1, 9, 0), End: ptr(at(1, 8, 0))}, core.ErrValidation, "endTime"},
		{"unknown user", timetrack.Entry{UserID: "ghost", Start: at(1, 9, 0)}, core.ErrUserNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateEntry(ctx, tt.entry)
			require.ErrorIs(t, err, tt.want)
			if tt.field != "" {
				var verr *core.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.field, verr.Field)
			}
		})
	}
}

// =============================================================================
// UPDATE SESSION
// =============================================================================

func TestUpdateSession_RecomputesDuration(t *testing.T) {
	// GIVEN: A completed 09:00-17:00 entry
	ctx := context.Background()
	svc, _, _ := newService(t)
	session, err := svc.CreateEntry(ctx, timetrack.Entry{UserID: "emp", Start: at(1, 9, 0), End: ptr(at(1, 17, 0))})
	require.NoError(t, err)

	// WHEN: Moving the start to 08:00
	updated, err := svc.UpdateSession(ctx, session.ID, timetrack.SessionUpdate{Start: ptr(at(1, 8, 0))})

	// THEN: Duration follows
	require.NoError(t, err)
	assert.Equal(t, 540, *updated.Duration)
	assert.Equal(t, core.SessionCompleted, updated.Status)

	// WHEN: Only the notes change
	updated, err = svc.UpdateSession(ctx, session.ID, timetrack.SessionUpdate{Notes: ptr("corrected")})
	require.NoError(t, err)
	assert.Equal(t, "corrected", updated.Notes)
	assert.Equal(t, 540, *updated.Duration)

	// WHEN: The end would precede the start
	_, err = svc.UpdateSession(ctx, session.ID, timetrack.SessionUpdate{End: ptr(at(1, 7, 0))})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestUpdateSession_EndClosesOpenSessionAndBreak(t *testing.T) {
	// GIVEN: A clocked-in session left on break
	ctx := context.Background()
	svc, clock, _ := newService(t)
	session, err := svc.ClockIn(ctx, "emp")
	require.NoError(t, err)
	clock.Set(12, 0)
	_, err = svc.StartBreak(ctx, "emp")
	require.NoError(t, err)

	// WHEN: An admin sets the end to 12:30
	updated, err := svc.UpdateSession(ctx, session.ID, timetrack.SessionUpdate{End: ptr(at(4, 12, 30))})

	// THEN: Completed with the break closed at the end
	require.NoError(t, err)
	assert.Equal(t, core.SessionCompleted, updated.Status)
	assert.Equal(t, 210, *updated.Duration)
	require.Len(t, updated.Breaks, 1)
	assert.Equal(t, 30, *updated.Breaks[0].Duration)
	net, _ := payroll.SessionNetMinutes(*updated)
	assert.Equal(t, 180, net)
}

func TestUpdateSession_ClearEndReopens(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	first, err := svc.CreateEntry(ctx, timetrack.Entry{UserID: "emp", Start: at(1, 9, 0), End: ptr(at(1, 17, 0))})
	require.NoError(t, err)

	reopened, err := svc.UpdateSession(ctx, first.ID, timetrack.SessionUpdate{ClearEnd: true})
	require.NoError(t, err)
	assert.Equal(t, core.SessionActive, reopened.Status)
	assert.Nil(t, reopened.EndTime)
	assert.Nil(t, reopened.Duration)

	// Reopening a second one would leave two open sessions
	second, err := svc.CreateEntry(ctx, timetrack.Entry{UserID: "emp", Start: at(2, 9, 0), End: ptr(at(2, 17, 0))})
	require.NoError(t, err)
	_, err = svc.UpdateSession(ctx, second.ID, timetrack.SessionUpdate{ClearEnd: true})
	assert.ErrorIs(t, err, core.ErrSessionAlreadyOpen)
}

func TestUpdateSession_CancelledAndMissing(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	session, err := svc.ClockIn(ctx, "emp")
	require.NoError(t, err)
	_, err = svc.CancelSession(ctx, session.ID)
	require.NoError(t, err)

	_, err = svc.UpdateSession(ctx, session.ID, timetrack.SessionUpdate{Notes: ptr("x")})
	assert.ErrorIs(t, err, core.ErrSessionNotEditable)
	assert.True(t, core.IsConflict(err))

	_, err = svc.UpdateSession(ctx, "missing", timetrack.SessionUpdate{})
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}
