/*
Package leave manages the lifecycle of employee leave requests.

PURPOSE:
  Employees submit leave for a date range; managers and admins approve or
  reject it. Only APPROVED leave is visible to payroll.

LIFECYCLE:
  PENDING ──approve──► APPROVED
     │
     └────reject───► REJECTED

  Decided requests are final. Approving re-checks overlap because another
  request for the same days may have been approved in the meantime.

OVERLAP RULE:
  A user cannot hold two APPROVED leaves sharing a calendar day. Pending
  requests may overlap each other freely.

SEE ALSO:
  - validation.go: Input checks and date parsing
  - balance.go: Paid leave days left in a year
  - payroll/leave_days.go: How approved leave is counted
*/
package leave

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/warp/timekeeper/core"
)

// Service handles leave requests against a store.
type Service struct {
	Store  core.Store
	Now    func() time.Time
	NewID  func() string
	Logger *slog.Logger

	// AnnualEntitlement is the paid leave days granted per calendar year.
	AnnualEntitlement int
}

// NewService creates a service using the wall clock and random UUIDs.
func NewService(store core.Store) *Service {
	return &Service{
		Store:  store,
		Now:    time.Now,
		NewID:  uuid.NewString,
		Logger: slog.Default(),

		AnnualEntitlement: DefaultAnnualEntitlement,
	}
}

// =============================================================================
// SUBMIT
// =============================================================================

// Request validates in and records a PENDING request for userID.
func (s *Service) Request(ctx context.Context, userID string, in RequestInput) (*core.LeaveRequest, error) {
	v, err := ValidateRequest(in)
	if err != nil {
		return nil, err
	}

	var created core.LeaveRequest
	err = s.Store.WithTx(ctx, func(tx core.Store) error {
		if _, err := tx.GetUser(ctx, userID); err != nil {
			return err
		}
		if err := checkOverlap(ctx, tx, userID, "", v.StartDate, v.EndDate,
			"You have an approved leave request that overlaps with this date range"); err != nil {
			return err
		}

		now := s.now()
		created = core.LeaveRequest{
			ID:        s.newID(),
			UserID:    userID,
			StartDate: v.StartDate,
			EndDate:   v.EndDate,
			Type:      v.Type,
			Status:    core.LeavePending,
			Reason:    v.Reason,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.SaveLeave(ctx, created)
	})
	if err != nil {
		return nil, err
	}

	s.logger().Info("leave requested",
		slog.String("leave_id", created.ID),
		slog.String("user_id", userID),
		slog.String("type", string(created.Type)),
		slog.String("span", created.Span().String()),
	)
	return &created, nil
}

// =============================================================================
// DECIDE
// =============================================================================

// Approve marks a pending request APPROVED on behalf of approverID.
func (s *Service) Approve(ctx context.Context, id, approverID string) (*core.LeaveRequest, error) {
	var out core.LeaveRequest
	err := s.Store.WithTx(ctx, func(tx core.Store) error {
		l, err := pendingLeave(ctx, tx, id, "Only pending requests can be approved")
		if err != nil {
			return err
		}
		if err := checkOverlap(ctx, tx, l.UserID, l.ID, l.StartDate, l.EndDate,
			"This leave request overlaps with an existing approved leave"); err != nil {
			return err
		}

		now := s.now()
		l.Status = core.LeaveApproved
		l.ApprovedBy = approverID
		l.ApprovedAt = &now
		l.UpdatedAt = now
		out = *l
		return tx.SaveLeave(ctx, out)
	})
	if err != nil {
		return nil, err
	}

	s.logger().Info("leave approved",
		slog.String("leave_id", id),
		slog.String("approver_id", approverID),
	)
	return &out, nil
}

// Reject marks a pending request REJECTED with an optional reason.
func (s *Service) Reject(ctx context.Context, id, approverID, reason string) (*core.LeaveRequest, error) {
	var out core.LeaveRequest
	err := s.Store.WithTx(ctx, func(tx core.Store) error {
		l, err := pendingLeave(ctx, tx, id, "Only pending requests can be rejected")
		if err != nil {
			return err
		}
		l.Status = core.LeaveRejected
		l.RejectionReason = reason
		l.UpdatedAt = s.now()
		out = *l
		return tx.SaveLeave(ctx, out)
	})
	if err != nil {
		return nil, err
	}

	s.logger().Info("leave rejected",
		slog.String("leave_id", id),
		slog.String("approver_id", approverID),
	)
	return &out, nil
}

func pendingLeave(ctx context.Context, tx core.Store, id, message string) (*core.LeaveRequest, error) {
	l, err := tx.GetLeave(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Status != core.LeavePending {
		return nil, &core.StateError{
			Err:     core.ErrLeaveNotPending,
			Message: message,
			Details: map[string]any{"currentStatus": l.Status},
		}
	}
	return l, nil
}

// checkOverlap fails with ErrLeaveOverlap when userID already holds approved
// leave intersecting [start, end], ignoring excludeID.
func checkOverlap(ctx context.Context, tx core.Store, userID, excludeID string, start, end time.Time, message string) error {
	clashes, err := tx.ListLeaves(ctx, core.LeaveFilter{
		UserID:      userID,
		Statuses:    []core.LeaveStatus{core.LeaveApproved},
		OverlapFrom: start,
		OverlapTo:   end,
		ExcludeID:   excludeID,
	})
	if err != nil {
		return err
	}
	if len(clashes) == 0 {
		return nil
	}

	summary := make([]map[string]any, 0, len(clashes))
	for _, c := range clashes {
		summary = append(summary, map[string]any{
			"id":        c.ID,
			"startDate": c.StartDate.Format(core.DateLayout),
			"endDate":   c.EndDate.Format(core.DateLayout),
		})
	}
	return &core.StateError{
		Err:     core.ErrLeaveOverlap,
		Message: message,
		Details: map[string]any{"overlappingLeaves": summary},
	}
}

// =============================================================================
// QUERIES
// =============================================================================

// ListMine returns a user's requests, newest first.
func (s *Service) ListMine(ctx context.Context, userID string) ([]core.LeaveRequest, error) {
	leaves, err := s.Store.ListLeaves(ctx, core.LeaveFilter{UserID: userID})
	if err != nil {
		return nil, err
	}
	sortByCreated(leaves, false)
	return leaves, nil
}

// ListPending returns every pending request, oldest first.
func (s *Service) ListPending(ctx context.Context) ([]core.LeaveRequest, error) {
	leaves, err := s.Store.ListLeaves(ctx, core.LeaveFilter{Statuses: []core.LeaveStatus{core.LeavePending}})
	if err != nil {
		return nil, err
	}
	sortByCreated(leaves, true)
	return leaves, nil
}

// ListAll returns every request, newest first. An empty or unrecognised
// status means no filter.
func (s *Service) ListAll(ctx context.Context, status core.LeaveStatus) ([]core.LeaveRequest, error) {
	var f core.LeaveFilter
	switch status {
	case core.LeavePending, core.LeaveApproved, core.LeaveRejected, core.LeaveCancelled:
		f.Statuses = []core.LeaveStatus{status}
	}
	leaves, err := s.Store.ListLeaves(ctx, f)
	if err != nil {
		return nil, err
	}
	sortByCreated(leaves, false)
	return leaves, nil
}

func sortByCreated(leaves []core.LeaveRequest, ascending bool) {
	sort.SliceStable(leaves, func(i, j int) bool {
		if ascending {
			return leaves[i].CreatedAt.Before(leaves[j].CreatedAt)
		}
		return leaves[i].CreatedAt.After(leaves[j].CreatedAt)
	})
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Service) newID() string {
	if s.NewID == nil {
		return uuid.NewString()
	}
	return s.NewID()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
