/*
store.go - Persistence interfaces for users, sessions and leave

PURPOSE:
  Defines the interface between the domain services and the database.
  Services depend on these interfaces only; the SQLite and in-memory
  implementations are swapped freely (production vs. tests).

KEY INTERFACES:
  UserStore:    Employee records
  SessionStore: Time sessions and their breaks
  LeaveStore:   Leave requests
  Store:        All three, plus WithTx for atomic multi-write operations

ORDERING CONTRACT:
  - ListUsers: ascending by email
  - ListSessions: ascending by start time, breaks ascending by start time
  - Leave listings: ascending by start date unless noted

NOT FOUND:
  Get* methods return the matching Err*NotFound sentinel rather than nil.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - core/store/memory.go: In-memory for testing

SEE ALSO:
  - timetrack/service.go, leave/service.go, payroll/preview.go: Consumers
*/
package core

import (
	"context"
	"time"
)

type UserStore interface {
	SaveUser(ctx context.Context, u User) error
	GetUser(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
}

// SessionFilter narrows ListSessions. Zero values mean "no constraint".
// From/To bound StartTime inclusively.
type SessionFilter struct {
	UserID   string
	From     time.Time
	To       time.Time
	Statuses []SessionStatus
}

type SessionStore interface {
	// SaveSession inserts or updates a session and replaces its breaks.
	SaveSession(ctx context.Context, s TimeSession) error
	GetSession(ctx context.Context, id string) (*TimeSession, error)

	// FindOpenSession returns the user's ACTIVE or PAUSED session, or nil.
	FindOpenSession(ctx context.Context, userID string) (*TimeSession, error)

	ListSessions(ctx context.Context, f SessionFilter) ([]TimeSession, error)
}

// LeaveFilter narrows ListLeaves. Overlap bounds match leaves whose
// day span intersects [OverlapFrom, OverlapTo].
type LeaveFilter struct {
	UserID      string
	Statuses    []LeaveStatus
	OverlapFrom time.Time
	OverlapTo   time.Time
	ExcludeID   string
}

type LeaveStore interface {
	SaveLeave(ctx context.Context, l LeaveRequest) error
	GetLeave(ctx context.Context, id string) (*LeaveRequest, error)
	ListLeaves(ctx context.Context, f LeaveFilter) ([]LeaveRequest, error)
}

// Store is the full persistence surface.
type Store interface {
	UserStore
	SessionStore
	LeaveStore

	// WithTx executes fn within a transaction.
	// If fn returns error, every write made through the passed Store is rolled back.
	WithTx(ctx context.Context, fn func(Store) error) error
}

// MatchesSession applies a SessionFilter to one session. Stores without a
// query language use it directly.
func (f SessionFilter) MatchesSession(s TimeSession) bool {
	if f.UserID != "" && s.UserID != f.UserID {
		return false
	}
	if !f.From.IsZero() && s.StartTime.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && s.StartTime.After(f.To) {
		return false
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, st := range f.Statuses {
		if s.Status == st {
			return true
		}
	}
	return false
}

// MatchesLeave applies a LeaveFilter to one leave request.
func (f LeaveFilter) MatchesLeave(l LeaveRequest) bool {
	if f.UserID != "" && l.UserID != f.UserID {
		return false
	}
	if f.ExcludeID != "" && l.ID == f.ExcludeID {
		return false
	}
	if !f.OverlapFrom.IsZero() && !f.OverlapTo.IsZero() {
		if !l.Span().Overlaps(PeriodOf(f.OverlapFrom, f.OverlapTo)) {
			return false
		}
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, st := range f.Statuses {
		if l.Status == st {
			return true
		}
	}
	return false
}
