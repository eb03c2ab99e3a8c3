/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the domain model in core from the external contract: camelCase names,
  RFC 3339 timestamps, YYYY-MM-DD dates and hours as decimal strings.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Users:     UserDTO, ProfileDTO, RoleDTO
  Time:      SessionDTO, BreakDTO, TimeStatusDTO, UserTimeStatusDTO,
             CreateEntryRequest, UpdateEntryRequest
  Leave:     LeaveDTO, LeaveBalanceDTO, RejectLeaveRequest
             (submit uses leave.RequestInput)
  Payroll:   PayrollPreviewResponse, PayrollSummaryDTO, DailyBreakdownDTO

SEE ALSO:
  - handlers_*.go: Use these types
*/
package api

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/timekeeper/core"
	"github.com/warp/timekeeper/leave"
	"github.com/warp/timekeeper/payroll"
	"github.com/warp/timekeeper/timetrack"
)

// =============================================================================
// USERS
// =============================================================================

type UserDTO struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Role      core.Role   `json:"role"`
	Profile   *ProfileDTO `json:"profile"`
	CreatedAt string      `json:"createdAt,omitempty"`
}

type ProfileDTO struct {
	EmployeeCode string          `json:"employeeCode"`
	FirstName    string          `json:"firstName"`
	LastName     string          `json:"lastName"`
	Department   string          `json:"department,omitempty"`
	Position     string          `json:"position,omitempty"`
	HireDate     string          `json:"hireDate,omitempty"`
	Salary       decimal.Decimal `json:"salary"`
}

func toUserDTO(u core.User) UserDTO {
	dto := UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: formatTime(u.CreatedAt),
	}
	if p := u.Profile; p != nil {
		dto.Profile = &ProfileDTO{
			EmployeeCode: p.EmployeeCode,
			FirstName:    p.FirstName,
			LastName:     p.LastName,
			Department:   p.Department,
			Position:     p.Position,
			HireDate:     formatDate(p.HireDate),
			Salary:       p.Salary,
		}
	}
	return dto
}

type RoleDTO struct {
	Name        core.Role `json:"name"`
	Description string    `json:"description"`
}

// =============================================================================
// TIME TRACKING
// =============================================================================

type SessionDTO struct {
	ID        string             `json:"id"`
	UserID    string             `json:"userId"`
	StartTime string             `json:"startTime"`
	EndTime   *string            `json:"endTime"`
	Duration  *int               `json:"duration"`
	Status    core.SessionStatus `json:"status"`
	Notes     string             `json:"notes,omitempty"`
	Breaks    []BreakDTO         `json:"breaks"`
	CreatedAt string             `json:"createdAt,omitempty"`
	UpdatedAt string             `json:"updatedAt,omitempty"`
}

type BreakDTO struct {
	ID        string         `json:"id"`
	SessionID string         `json:"sessionId"`
	StartTime string         `json:"startTime"`
	EndTime   *string        `json:"endTime"`
	Duration  *int           `json:"duration"`
	Type      core.BreakType `json:"type"`
}

// CreateEntryRequest records a session by hand. UserID defaults to the actor.
type CreateEntryRequest struct {
	StartTime string  `json:"startTime"`
	EndTime   *string `json:"endTime"`
	Notes     string  `json:"notes"`
	UserID    string  `json:"userId"`
}

// UpdateEntryRequest edits a session. Absent fields are kept; an explicit
// null or empty endTime reopens the session.
type UpdateEntryRequest struct {
	StartTime *string        `json:"startTime"`
	EndTime   optionalString `json:"endTime"`
	Notes     *string        `json:"notes"`
}

// optionalString tells an absent field from an explicit null.
type optionalString struct {
	Set   bool
	Value string
}

func (o *optionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// TimeStatusDTO is the live state shown on the clock widget.
type TimeStatusDTO struct {
	HasActiveSession      bool        `json:"hasActiveSession"`
	Session               *SessionDTO `json:"session"`
	ActiveBreak           *BreakDTO   `json:"activeBreak"`
	TotalWorkedToday      int         `json:"totalWorkedToday"`
	TotalWorkedTodayLabel string      `json:"totalWorkedTodayFormatted"`
}

// UserTimeStatusDTO is one row of the team status board.
type UserTimeStatusDTO struct {
	UserID           string    `json:"userId"`
	Email            string    `json:"email"`
	Name             string    `json:"name,omitempty"`
	Role             core.Role `json:"role"`
	Department       string    `json:"department,omitempty"`
	HasActiveSession bool      `json:"hasActiveSession"`
	HasActiveBreak   bool      `json:"hasActiveBreak"`
	SessionStart     *string   `json:"sessionStart"`
	TotalWorkedToday int       `json:"totalWorkedToday"`
}

func toSessionDTO(s core.TimeSession) SessionDTO {
	dto := SessionDTO{
		ID:        s.ID,
		UserID:    s.UserID,
		StartTime: formatTime(s.StartTime),
		EndTime:   formatTimePtr(s.EndTime),
		Duration:  s.Duration,
		Status:    s.Status,
		Notes:     s.Notes,
		Breaks:    make([]BreakDTO, 0, len(s.Breaks)),
		CreatedAt: formatTime(s.CreatedAt),
		UpdatedAt: formatTime(s.UpdatedAt),
	}
	for _, b := range s.Breaks {
		dto.Breaks = append(dto.Breaks, toBreakDTO(b))
	}
	return dto
}

func toBreakDTO(b core.BreakSession) BreakDTO {
	return BreakDTO{
		ID:        b.ID,
		SessionID: b.SessionID,
		StartTime: formatTime(b.StartTime),
		EndTime:   formatTimePtr(b.EndTime),
		Duration:  b.Duration,
		Type:      b.Type,
	}
}

func toSessionDTOs(sessions []core.TimeSession) []SessionDTO {
	out := make([]SessionDTO, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionDTO(s))
	}
	return out
}

func toTimeStatusDTO(st timetrack.Status) TimeStatusDTO {
	dto := TimeStatusDTO{
		HasActiveSession:      st.HasActiveSession,
		TotalWorkedToday:      st.TotalWorkedToday,
		TotalWorkedTodayLabel: timetrack.FormatDuration(st.TotalWorkedToday),
	}
	if st.Session != nil {
		s := toSessionDTO(*st.Session)
		dto.Session = &s
	}
	if st.ActiveBreak != nil {
		b := toBreakDTO(*st.ActiveBreak)
		dto.ActiveBreak = &b
	}
	return dto
}

// =============================================================================
// LEAVE
// =============================================================================

type LeaveDTO struct {
	ID              string           `json:"id"`
	UserID          string           `json:"userId"`
	StartDate       string           `json:"startDate"`
	EndDate         string           `json:"endDate"`
	Days            int              `json:"days"`
	Type            core.LeaveType   `json:"type"`
	Status          core.LeaveStatus `json:"status"`
	Reason          string           `json:"reason,omitempty"`
	ApprovedBy      string           `json:"approvedBy,omitempty"`
	ApprovedAt      *string          `json:"approvedAt"`
	RejectionReason string           `json:"rejectionReason,omitempty"`
	CreatedAt       string           `json:"createdAt"`
	UpdatedAt       string           `json:"updatedAt"`
}

// LeaveBalanceDTO reports paid leave days for one year.
type LeaveBalanceDTO struct {
	UserID      string          `json:"userId"`
	Year        int             `json:"year"`
	Entitlement decimal.Decimal `json:"entitlement"`
	Used        decimal.Decimal `json:"used"`
	Pending     decimal.Decimal `json:"pending"`
	Remaining   decimal.Decimal `json:"remaining"`
	Available   decimal.Decimal `json:"available"`
}

func toLeaveBalanceDTO(b leave.Balance) LeaveBalanceDTO {
	return LeaveBalanceDTO{
		UserID:      b.UserID,
		Year:        b.Year,
		Entitlement: b.Entitlement.Value,
		Used:        b.Used.Value,
		Pending:     b.Pending.Value,
		Remaining:   b.Remaining().Value,
		Available:   b.Available().Value,
	}
}

// RejectLeaveRequest is the optional body of a rejection.
type RejectLeaveRequest struct {
	RejectionReason string `json:"rejectionReason"`
}

func toLeaveDTO(l core.LeaveRequest) LeaveDTO {
	return LeaveDTO{
		ID:              l.ID,
		UserID:          l.UserID,
		StartDate:       formatDate(l.StartDate),
		EndDate:         formatDate(l.EndDate),
		Days:            l.Span().DayCount(),
		Type:            l.Type,
		Status:          l.Status,
		Reason:          l.Reason,
		ApprovedBy:      l.ApprovedBy,
		ApprovedAt:      formatTimePtr(l.ApprovedAt),
		RejectionReason: l.RejectionReason,
		CreatedAt:       formatTime(l.CreatedAt),
		UpdatedAt:       formatTime(l.UpdatedAt),
	}
}

func toLeaveDTOs(leaves []core.LeaveRequest) []LeaveDTO {
	out := make([]LeaveDTO, 0, len(leaves))
	for _, l := range leaves {
		out = append(out, toLeaveDTO(l))
	}
	return out
}

// =============================================================================
// PAYROLL
// =============================================================================

type PayrollPreviewResponse struct {
	Month     string              `json:"month"`
	Employees []PayrollSummaryDTO `json:"employees"`
}

type PayrollSummaryDTO struct {
	UserID             string              `json:"userId"`
	Email              string              `json:"email"`
	Name               string              `json:"name,omitempty"`
	TotalWorkedMinutes int                 `json:"totalWorkedMinutes"`
	TotalWorkedHours   decimal.Decimal     `json:"totalWorkedHours"`
	OvertimeMinutes    int                 `json:"overtimeMinutes"`
	PaidLeaveDays      int                 `json:"paidLeaveDays"`
	UnpaidLeaveDays    int                 `json:"unpaidLeaveDays"`
	DailyBreakdown     []DailyBreakdownDTO `json:"dailyBreakdown"`
}

type DailyBreakdownDTO struct {
	Date            string `json:"date"`
	WorkedMinutes   int    `json:"workedMinutes"`
	OvertimeMinutes int    `json:"overtimeMinutes"`
	HasPaidLeave    bool   `json:"hasPaidLeave"`
	HasUnpaidLeave  bool   `json:"hasUnpaidLeave"`
}

// ToPayrollPreviewResponse converts a preview for the wire. The CLI prints
// the same shape.
func ToPayrollPreviewResponse(res payroll.PreviewResult) PayrollPreviewResponse {
	out := PayrollPreviewResponse{
		Month:     res.Month,
		Employees: make([]PayrollSummaryDTO, 0, len(res.Employees)),
	}
	for _, s := range res.Employees {
		dto := PayrollSummaryDTO{
			UserID:             s.UserID,
			Email:              s.Email,
			Name:               s.Name,
			TotalWorkedMinutes: s.TotalWorkedMinutes,
			TotalWorkedHours:   s.TotalWorkedHours(),
			OvertimeMinutes:    s.OvertimeMinutes,
			PaidLeaveDays:      s.PaidLeaveDays,
			UnpaidLeaveDays:    s.UnpaidLeaveDays,
			DailyBreakdown:     make([]DailyBreakdownDTO, 0, len(s.DailyBreakdown)),
		}
		for _, d := range s.DailyBreakdown {
			dto.DailyBreakdown = append(dto.DailyBreakdown, DailyBreakdownDTO(d))
		}
		out.Employees = append(out.Employees, dto)
	}
	return out
}

// =============================================================================
// FORMATTING
// =============================================================================

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(core.DateLayout)
}
