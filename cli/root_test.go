package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timekeeper/api"
	"github.com/warp/timekeeper/config"
	"github.com/warp/timekeeper/core"
	"github.com/warp/timekeeper/core/store"
)

// testApp wires an App whose every --db path resolves to one memory store.
func testApp(t *testing.T) (*App, *store.Memory, *[]string) {
	t.Helper()
	mem := store.NewMemory()
	var opened []string

	app := &App{
		Config: &config.Config{
			DB:      config.DatabaseConfig{Path: "default.db"},
			Payroll: config.PayrollConfig{Timezone: "UTC", Concurrency: 2},
		},
		Open: func(path string) (core.Store, func() error, error) {
			opened = append(opened, path)
			return mem, func() error { return nil }, nil
		},
		Now: func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) },
	}
	return app, mem, &opened
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestSeedCmd(t *testing.T) {
	app, mem, opened := testApp(t)

	out, err := executeCmd(t, app, "seed", "--db", "demo.db")
	require.NoError(t, err)
	assert.Contains(t, out, "admin@demo.com")
	assert.Equal(t, []string{"demo.db"}, *opened)

	users, err := mem.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestUsersCmd(t *testing.T) {
	app, _, opened := testApp(t)
	_, err := executeCmd(t, app, "seed")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "users")
	require.NoError(t, err)
	assert.Contains(t, out, "employee@demo.com")
	assert.Contains(t, out, "Manager User")
	assert.Equal(t, []string{"default.db", "default.db"}, *opened)
}

func TestPreviewCmd_DefaultsToCurrentMonth(t *testing.T) {
	app, mem, _ := testApp(t)
	_, err := executeCmd(t, app, "seed")
	require.NoError(t, err)

	end := time.Date(2024, 3, 1, 17, 0, 0, 0, time.UTC)
	dur := 480
	require.NoError(t, mem.SaveSession(context.Background(), core.TimeSession{
		ID:        "s1",
		UserID:    "user-employee",
		StartTime: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		EndTime:   &end,
		Duration:  &dur,
		Status:    core.SessionCompleted,
	}))

	out, err := executeCmd(t, app, "preview")
	require.NoError(t, err)

	var res api.PayrollPreviewResponse
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "2024-03", res.Month)
	require.Len(t, res.Employees, 3)
	assert.Equal(t, 480, res.Employees[1].TotalWorkedMinutes)
	assert.Len(t, res.Employees[1].DailyBreakdown, 31)
}

func TestPreviewCmd_InvalidMonth(t *testing.T) {
	app, _, _ := testApp(t)

	_, err := executeCmd(t, app, "preview", "--month", "2024-13")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidMonth)
}

func TestBalanceCmd(t *testing.T) {
	app, mem, _ := testApp(t)
	app.Config.Leave.AnnualDays = 25
	_, err := executeCmd(t, app, "seed")
	require.NoError(t, err)
	require.NoError(t, mem.SaveLeave(context.Background(), core.LeaveRequest{
		ID:        "l1",
		UserID:    "user-employee",
		StartDate: time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 2, 7, 0, 0, 0, 0, time.UTC),
		Type:      core.LeaveVacation,
		Status:    core.LeaveApproved,
	}))

	out, err := executeCmd(t, app, "balance", "user-employee")
	require.NoError(t, err)
	assert.Regexp(t, `Year\s+2024`, out)
	assert.Regexp(t, `Entitlement\s+25`, out)
	assert.Regexp(t, `Used\s+3`, out)
	assert.Regexp(t, `Remaining\s+22`, out)

	_, err = executeCmd(t, app, "balance", "ghost")
	assert.ErrorIs(t, err, core.ErrUserNotFound)
}

func TestOpenFailure(t *testing.T) {
	app, _, _ := testApp(t)
	app.Open = func(string) (core.Store, func() error, error) {
		return nil, nil, errors.New("disk on fire")
	}

	_, err := executeCmd(t, app, "users")
	assert.ErrorContains(t, err, "opening database")
}
