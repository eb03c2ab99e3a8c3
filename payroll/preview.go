package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/warp/timekeeper/core"
	"golang.org/x/sync/errgroup"
)

// =============================================================================
// PREVIEW SERVICE - Loads records and builds summaries for every employee
// =============================================================================

// PreviewResult is the payroll preview for one month.
type PreviewResult struct {
	Month     string
	Employees []EmployeePayrollSummary
}

// PreviewService reads users, sessions and leave from a store and runs the
// pure builders over them.
type PreviewService struct {
	Store    core.Store
	Timezone string

	// Concurrency bounds how many employees are loaded at once. Zero means 1.
	Concurrency int

	Now    func() time.Time
	Logger *slog.Logger
}

// NewPreviewService creates a service with a UTC clock and the default logger.
func NewPreviewService(store core.Store, timezone string, concurrency int) *PreviewService {
	return &PreviewService{
		Store:       store,
		Timezone:    timezone,
		Concurrency: concurrency,
		Now:         time.Now,
		Logger:      slog.Default(),
	}
}

// payrollRoles are the roles included in a preview.
var payrollRoles = map[core.Role]bool{
	core.RoleEmployee: true,
	core.RoleManager:  true,
	core.RoleAdmin:    true,
}

// Preview builds the payroll preview for month. An empty month means the
// current UTC month.
func (ps *PreviewService) Preview(ctx context.Context, month string) (PreviewResult, error) {
	if month == "" {
		month = MonthOf(ps.now()).String()
	}
	bounds, err := MonthBounds(month, ps.Timezone)
	if err != nil {
		return PreviewResult{}, err
	}
	days, err := DaysInMonth(month, ps.Timezone)
	if err != nil {
		return PreviewResult{}, err
	}

	users, err := ps.Store.ListUsers(ctx)
	if err != nil {
		return PreviewResult{}, fmt.Errorf("listing users: %w", err)
	}
	var employees []core.User
	for _, u := range users {
		if payrollRoles[u.Role] {
			employees = append(employees, u)
		}
	}

	summaries := make([]EmployeePayrollSummary, len(employees))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(ps.Concurrency, 1))
	for i, u := range employees {
		g.Go(func() error {
			in, err := ps.loadInput(gctx, u, bounds)
			if err != nil {
				return err
			}
			summaries[i] = BuildSummary(in.Employee, bounds, days, in.Sessions, in.Leaves)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return PreviewResult{}, err
	}

	ps.logger().Info("payroll preview built",
		slog.String("month", month),
		slog.String("timezone", ps.Timezone),
		slog.Int("employees", len(summaries)),
	)

	return PreviewResult{Month: month, Employees: summaries}, nil
}

// loadInput fetches one employee's completed sessions starting in the month
// and approved leave overlapping it.
func (ps *PreviewService) loadInput(ctx context.Context, u core.User, bounds Bounds) (EmployeeInput, error) {
	sessions, err := ps.Store.ListSessions(ctx, core.SessionFilter{
		UserID:   u.ID,
		From:     bounds.Start,
		To:       bounds.End,
		Statuses: []core.SessionStatus{core.SessionCompleted},
	})
	if err != nil {
		return EmployeeInput{}, fmt.Errorf("loading sessions for %s: %w", u.ID, err)
	}

	leaves, err := ps.Store.ListLeaves(ctx, core.LeaveFilter{
		UserID:      u.ID,
		Statuses:    []core.LeaveStatus{core.LeaveApproved},
		OverlapFrom: bounds.Start,
		OverlapTo:   bounds.End,
	})
	if err != nil {
		return EmployeeInput{}, fmt.Errorf("loading leave for %s: %w", u.ID, err)
	}

	return EmployeeInput{Employee: EmployeeFromUser(u), Sessions: sessions, Leaves: leaves}, nil
}

func (ps *PreviewService) now() time.Time {
	if ps.Now == nil {
		return time.Now()
	}
	return ps.Now()
}

func (ps *PreviewService) logger() *slog.Logger {
	if ps.Logger == nil {
		return slog.Default()
	}
	return ps.Logger
}
