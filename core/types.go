/*
Package core provides the shared model for the timekeeper service.

PURPOSE:
  Holds the records every other package reads and writes: users, time
  sessions with their breaks, and leave requests. Domain packages
  (timetrack, leave, payroll) build behaviour on top of these types;
  core itself contains no workflow logic.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity with a unit (minutes, hours, days)
  - TimeSession / BreakSession: Clock-in to clock-out intervals
  - LeaveRequest: An inclusive calendar-day span of absence
  - User / Profile: Employees and their role

DESIGN PRINCIPLES:
  1. Nullable fields are pointers (EndTime, Duration): nil means "not yet"
  2. Precision: hours and salaries use decimal.Decimal
  3. Enumerations are typed strings so they serialize unchanged

SEE ALSO:
  - leaveclass.go: Paid/unpaid leave classification
  - time.go: Day-granularity time helpers
  - store.go: Persistence interfaces
*/
package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitMinutes Unit = "minutes"
	UnitHours   Unit = "hours"
	UnitDays    Unit = "days"
)

func NewAmountFromInt(value int, unit Unit) Amount {
	return Amount{Value: decimal.NewFromInt(int64(value)), Unit: unit}
}

func Minutes(n int) Amount { return NewAmountFromInt(n, UnitMinutes) }

func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (a Amount) Add(b Amount) Amount       { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount       { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) IsNegative() bool          { return a.Value.IsNegative() }
func (a Amount) IsZero() bool              { return a.Value.IsZero() }
func (a Amount) GreaterThan(b Amount) bool { return a.Value.GreaterThan(b.Value) }

// Hours converts a minute amount to hours rounded to two places.
// Amounts in other units are returned unchanged.
func (a Amount) Hours() Amount {
	if a.Unit != UnitMinutes {
		return a
	}
	return Amount{Value: a.Value.Div(decimal.NewFromInt(60)).Round(2), Unit: UnitHours}
}

// =============================================================================
// USERS
// =============================================================================

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Roles lists every role by name.
var Roles = []Role{RoleAdmin, RoleEmployee, RoleManager}

var roleDescriptions = map[Role]string{
	RoleAdmin:    "Administrator with full system access",
	RoleManager:  "Manager with team management and reporting access",
	RoleEmployee: "Employee with basic time tracking and profile access",
}

// IsApprover reports whether the role may approve leave and view payroll.
func (r Role) IsApprover() bool { return r == RoleAdmin || r == RoleManager }

func (r Role) Description() string { return roleDescriptions[r] }

type User struct {
	ID        string
	Email     string
	Role      Role
	Profile   *Profile
	CreatedAt time.Time
}

type Profile struct {
	EmployeeCode string
	FirstName    string
	LastName     string
	Department   string
	Position     string
	HireDate     time.Time
	Salary       decimal.Decimal
}

// DisplayName returns "First Last", or "" unless both parts are known.
func (u User) DisplayName() string {
	if u.Profile == nil || u.Profile.FirstName == "" || u.Profile.LastName == "" {
		return ""
	}
	return u.Profile.FirstName + " " + u.Profile.LastName
}

// =============================================================================
// TIME SESSIONS
// =============================================================================

type SessionStatus string

const (
	SessionActive    SessionStatus = "ACTIVE"
	SessionPaused    SessionStatus = "PAUSED"
	SessionCompleted SessionStatus = "COMPLETED"
	SessionCancelled SessionStatus = "CANCELLED"
)

// IsOpen reports whether a session with this status is still running.
func (s SessionStatus) IsOpen() bool { return s == SessionActive || s == SessionPaused }

// TimeSession is one clock-in to clock-out interval.
// Duration holds gross minutes between StartTime and EndTime; breaks are
// subtracted by readers, never baked into the stored value.
type TimeSession struct {
	ID        string
	UserID    string
	StartTime time.Time
	EndTime   *time.Time
	Duration  *int
	Status    SessionStatus
	Notes     string
	Breaks    []BreakSession
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActiveBreak returns the break without an end time, if any.
func (s *TimeSession) ActiveBreak() *BreakSession {
	for i := range s.Breaks {
		if s.Breaks[i].EndTime == nil {
			return &s.Breaks[i]
		}
	}
	return nil
}

type BreakType string

const (
	BreakRest  BreakType = "REST"
	BreakMeal  BreakType = "MEAL"
	BreakOther BreakType = "OTHER"
)

type BreakSession struct {
	ID        string
	SessionID string
	StartTime time.Time
	EndTime   *time.Time
	Duration  *int
	Type      BreakType
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

type LeaveType string

const (
	LeaveVacation  LeaveType = "VACATION"
	LeaveSick      LeaveType = "SICK"
	LeavePersonal  LeaveType = "PERSONAL"
	LeaveUnpaid    LeaveType = "UNPAID"
	LeaveMaternity LeaveType = "MATERNITY"
	LeavePaternity LeaveType = "PATERNITY"
	LeaveOther     LeaveType = "OTHER"
)

type LeaveStatus string

const (
	LeavePending   LeaveStatus = "PENDING"
	LeaveApproved  LeaveStatus = "APPROVED"
	LeaveRejected  LeaveStatus = "REJECTED"
	LeaveCancelled LeaveStatus = "CANCELLED"
)

// LeaveRequest spans StartDate..EndDate inclusive, both at UTC midnight.
type LeaveRequest struct {
	ID              string
	UserID          string
	StartDate       time.Time
	EndDate         time.Time
	Type            LeaveType
	Status          LeaveStatus
	Reason          string
	ApprovedBy      string
	ApprovedAt      *time.Time
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Span returns the leave as a day-granularity period.
func (l LeaveRequest) Span() Period {
	return Period{Start: DateOf(l.StartDate), End: DateOf(l.EndDate)}
}
