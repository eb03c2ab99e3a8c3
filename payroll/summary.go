/*
Package payroll computes monthly payroll previews from time and leave records.

PURPOSE:
  Turns one employee's completed time sessions and approved leave for a
  calendar month into worked minutes, overtime and leave-day counts, with
  a per-day breakdown. Everything in this package except PreviewService
  is pure: no I/O, no clock, no shared state.

CALCULATION:
  For every day of the month:
    workedMinutes   = sum of net minutes of COMPLETED sessions starting that day
    overtimeMinutes = max(0, workedMinutes - 480)
    hasPaidLeave    = an approved VACATION/SICK leave covers the day
    hasUnpaidLeave  = an approved leave of any other type covers the day

  Month totals are the sums of the daily values. Leave day counts are a
  separate pass over the whole month (CountLeaveDays).

EXAMPLE:
  bounds, _ := payroll.MonthBounds("2024-03", "UTC")
  days, _ := payroll.DaysInMonth("2024-03", "UTC")
  summary := payroll.BuildSummary(emp, bounds, days, sessions, leaves)

SEE ALSO:
  - core/leaveclass.go: Paid/unpaid leave classification
  - preview.go: Loads records from a core.Store and builds summaries
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/timekeeper/core"
)

// =============================================================================
// OUTPUT TYPES
// =============================================================================

// DailyBreakdown is one calendar day of an employee's month.
type DailyBreakdown struct {
	Date            string // YYYY-MM-DD
	WorkedMinutes   int
	OvertimeMinutes int
	HasPaidLeave    bool
	HasUnpaidLeave  bool
}

// EmployeePayrollSummary aggregates one employee's month.
type EmployeePayrollSummary struct {
	UserID             string
	Email              string
	Name               string // empty when unknown
	TotalWorkedMinutes int
	OvertimeMinutes    int
	PaidLeaveDays      int
	UnpaidLeaveDays    int
	DailyBreakdown     []DailyBreakdown
}

// TotalWorkedHours is TotalWorkedMinutes in hours, two decimal places.
func (s EmployeePayrollSummary) TotalWorkedHours() decimal.Decimal {
	return core.Minutes(s.TotalWorkedMinutes).Hours().Value
}

// =============================================================================
// INPUT TYPES
// =============================================================================

// Employee identifies whose summary is being built.
type Employee struct {
	UserID string
	Email  string
	Name   string
}

// EmployeeFromUser copies the identifying fields of a user.
func EmployeeFromUser(u core.User) Employee {
	return Employee{UserID: u.ID, Email: u.Email, Name: u.DisplayName()}
}

// EmployeeInput is one employee with records already scoped to the month.
type EmployeeInput struct {
	Employee Employee
	Sessions []core.TimeSession
	Leaves   []core.LeaveRequest
}

// =============================================================================
// BUILDERS
// =============================================================================

// BuildSummary assembles the summary of one employee for one resolved month.
func BuildSummary(emp Employee, bounds Bounds, days []time.Time, sessions []core.TimeSession, leaves []core.LeaveRequest) EmployeePayrollSummary {
	summary := EmployeePayrollSummary{
		UserID:         emp.UserID,
		Email:          emp.Email,
		Name:           emp.Name,
		DailyBreakdown: make([]DailyBreakdown, 0, len(days)),
	}

	for _, day := range days {
		worked := DailyWorkedMinutes(sessions, day)
		overtime := OvertimeMinutes(worked)
		paid, unpaid := leaveFlagsOn(leaves, core.DateOf(day))

		summary.TotalWorkedMinutes += worked
		summary.OvertimeMinutes += overtime
		summary.DailyBreakdown = append(summary.DailyBreakdown, DailyBreakdown{
			Date:            core.DateOf(day).String(),
			WorkedMinutes:   worked,
			OvertimeMinutes: overtime,
			HasPaidLeave:    paid,
			HasUnpaidLeave:  unpaid,
		})
	}

	leaveDays := CountLeaveDays(leaves, bounds.Start, bounds.End)
	summary.PaidLeaveDays = leaveDays.Paid
	summary.UnpaidLeaveDays = leaveDays.Unpaid

	return summary
}

// BuildSummaries resolves month and builds one summary per input, in input order.
func BuildSummaries(month, timezone string, inputs []EmployeeInput) ([]EmployeePayrollSummary, error) {
	bounds, err := MonthBounds(month, timezone)
	if err != nil {
		return nil, err
	}
	days, err := DaysInMonth(month, timezone)
	if err != nil {
		return nil, err
	}

	out := make([]EmployeePayrollSummary, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, BuildSummary(in.Employee, bounds, days, in.Sessions, in.Leaves))
	}
	return out, nil
}
