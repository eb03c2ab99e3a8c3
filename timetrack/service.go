/*
Package timetrack records clock-in, break and clock-out events.

PURPOSE:
  Maintains at most one open time session per user and the breaks inside
  it. Completed sessions are what payroll reads.

SESSION STATES:
  ACTIVE ──break start──► PAUSED ──break end──► ACTIVE
     │                      │
     └──────clock out───────┴──► COMPLETED

  An open (ACTIVE or PAUSED) session can also be CANCELLED by an approver;
  cancelled sessions never count as worked time.

STORED DURATIONS:
  TimeSession.Duration is gross minutes between start and end.
  BreakSession.Duration is the break's own minutes. Net worked time is
  always computed by readers as gross minus breaks.

SEE ALSO:
  - payroll/worked.go: Net minute calculation
  - entries.go: Manual entries and session edits
  - helpers.go: Duration formatting and week bounds
*/
package timetrack

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/warp/timekeeper/core"
	"github.com/warp/timekeeper/payroll"
)

// Service applies time tracking actions to a store.
type Service struct {
	Store  core.Store
	Now    func() time.Time
	NewID  func() string
	Logger *slog.Logger
}

// NewService creates a service using the wall clock and random UUIDs.
func NewService(store core.Store) *Service {
	return &Service{
		Store:  store,
		Now:    time.Now,
		NewID:  uuid.NewString,
		Logger: slog.Default(),
	}
}

// =============================================================================
// CLOCK ACTIONS
// =============================================================================

// ClockIn opens a new ACTIVE session for userID.
func (s *Service) ClockIn(ctx context.Context, userID string) (*core.TimeSession, error) {
	var out core.TimeSession
	err := s.Store.WithTx(ctx, func(tx core.Store) error {
		if _, err := tx.GetUser(ctx, userID); err != nil {
			return err
		}
		open, err := tx.FindOpenSession(ctx, userID)
		if err != nil {
			return err
		}
		if open != nil {
			return &core.StateError{
				Err:     core.ErrSessionAlreadyOpen,
				Message: "You already have an active time session",
				Details: map[string]any{"sessionId": open.ID},
			}
		}

		now := s.now()
		out = core.TimeSession{
			ID:        s.newID(),
			UserID:    userID,
			StartTime: now,
			Status:    core.SessionActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.SaveSession(ctx, out)
	})
	if err != nil {
		return nil, err
	}

	s.logger().Info("clocked in", slog.String("user_id", userID), slog.String("session_id", out.ID))
	return &out, nil
}

// StartBreak opens a REST break in the user's session and pauses it.
func (s *Service) StartBreak(ctx context.Context, userID string) (*core.BreakSession, error) {
	var out core.BreakSession
	err := s.withOpenSession(ctx, userID, func(tx core.Store, session *core.TimeSession) error {
		if active := session.ActiveBreak(); active != nil {
			return &core.StateError{
				Err:     core.ErrBreakAlreadyActive,
				Message: "You already have an active break",
				Details: map[string]any{"breakId": active.ID},
			}
		}

		now := s.now()
		out = core.BreakSession{
			ID:        s.newID(),
			SessionID: session.ID,
			StartTime: now,
			Type:      core.BreakRest,
		}
		session.Breaks = append(session.Breaks, out)
		session.Status = core.SessionPaused
		session.UpdatedAt = now
		return tx.SaveSession(ctx, *session)
	})
	if err != nil {
		return nil, err
	}

	s.logger().Info("break started", slog.String("user_id", userID), slog.String("break_id", out.ID))
	return &out, nil
}

// EndBreak closes the active break and resumes the session.
func (s *Service) EndBreak(ctx context.Context, userID string) (*core.BreakSession, error) {
	var out core.BreakSession
	err := s.withOpenSession(ctx, userID, func(tx core.Store, session *core.TimeSession) error {
		active := session.ActiveBreak()
		if active == nil {
			return &core.StateError{Err: core.ErrNoActiveBreak, Message: "No active break found"}
		}

		now := s.now()
		closeBreak(active, now)
		out = *active
		session.Status = core.SessionActive
		session.UpdatedAt = now
		return tx.SaveSession(ctx, *session)
	})
	if err != nil {
		return nil, err
	}

	s.logger().Info("break ended",
		slog.String("user_id", userID),
		slog.String("break_id", out.ID),
		slog.Int("minutes", *out.Duration),
	)
	return &out, nil
}

// ClockOut completes the user's session, ending any break still running.
func (s *Service) ClockOut(ctx context.Context, userID string) (*core.TimeSession, error) {
	var out core.TimeSession
	err := s.withOpenSession(ctx, userID, func(tx core.Store, session *core.TimeSession) error {
		now := s.now()
		if active := session.ActiveBreak(); active != nil {
			closeBreak(active, now)
		}

		gross := max(MinutesBetween(session.StartTime, now), 0)
		session.EndTime = &now
		session.Duration = &gross
		session.Status = core.SessionCompleted
		session.UpdatedAt = now
		out = *session
		return tx.SaveSession(ctx, out)
	})
	if err != nil {
		return nil, err
	}

	net, _ := payroll.SessionNetMinutes(out)
	s.logger().Info("clocked out",
		slog.String("user_id", userID),
		slog.String("session_id", out.ID),
		slog.Int("net_minutes", net),
	)
	return &out, nil
}

// CancelSession marks an open session CANCELLED. Completed sessions are final.
func (s *Service) CancelSession(ctx context.Context, sessionID string) (*core.TimeSession, error) {
	var out core.TimeSession
	err := s.Store.WithTx(ctx, func(tx core.Store) error {
		session, err := tx.GetSession(ctx, sessionID)
		if err != nil {
			return err
		}
		if !session.Status.IsOpen() {
			return &core.StateError{
				Err:     core.ErrNoOpenSession,
				Message: "Only active or paused sessions can be cancelled",
				Details: map[string]any{"currentStatus": session.Status},
			}
		}

		now := s.now()
		if active := session.ActiveBreak(); active != nil {
			closeBreak(active, now)
		}
		session.EndTime = &now
		session.Status = core.SessionCancelled
		session.UpdatedAt = now
		out = *session
		return tx.SaveSession(ctx, out)
	})
	if err != nil {
		return nil, err
	}

	s.logger().Info("session cancelled", slog.String("session_id", sessionID))
	return &out, nil
}

// withOpenSession loads the user's open session inside a transaction and
// hands it to fn, failing with ErrNoOpenSession when there is none.
func (s *Service) withOpenSession(ctx context.Context, userID string, fn func(tx core.Store, session *core.TimeSession) error) error {
	return s.Store.WithTx(ctx, func(tx core.Store) error {
		session, err := tx.FindOpenSession(ctx, userID)
		if err != nil {
			return err
		}
		if session == nil {
			return &core.StateError{Err: core.ErrNoOpenSession, Message: "No active time session found"}
		}
		return fn(tx, session)
	})
}

func closeBreak(b *core.BreakSession, at time.Time) {
	minutes := max(MinutesBetween(b.StartTime, at), 0)
	b.EndTime = &at
	b.Duration = &minutes
}

// =============================================================================
// QUERIES
// =============================================================================

// Status is a user's live time tracking state.
type Status struct {
	HasActiveSession bool
	Session          *core.TimeSession
	ActiveBreak      *core.BreakSession
	TotalWorkedToday int // net minutes, including the open session so far
}

// Status reports the open session, its running break and today's net minutes.
func (s *Service) Status(ctx context.Context, userID string) (Status, error) {
	if _, err := s.Store.GetUser(ctx, userID); err != nil {
		return Status{}, err
	}
	open, err := s.Store.FindOpenSession(ctx, userID)
	if err != nil {
		return Status{}, err
	}

	now := s.now()
	today := core.DateOf(now)
	completed, err := s.Store.ListSessions(ctx, core.SessionFilter{
		UserID:   userID,
		From:     today.StartOfDay(),
		To:       today.EndOfDay(),
		Statuses: []core.SessionStatus{core.SessionCompleted},
	})
	if err != nil {
		return Status{}, err
	}

	st := Status{TotalWorkedToday: payroll.DailyWorkedMinutes(completed, now)}
	if open != nil {
		st.HasActiveSession = true
		st.Session = open
		st.ActiveBreak = open.ActiveBreak()
		st.TotalWorkedToday += LiveNetMinutes(*open, now)
	}
	return st, nil
}

// LiveNetMinutes is the net time of an open session up to now. A running
// break counts as break time up to now.
func LiveNetMinutes(session core.TimeSession, now time.Time) int {
	breaks := 0
	for _, b := range session.Breaks {
		switch {
		case b.Duration != nil:
			breaks += *b.Duration
		case b.EndTime != nil:
			breaks += MinutesBetween(b.StartTime, *b.EndTime)
		default:
			breaks += MinutesBetween(b.StartTime, now)
		}
	}
	return max(MinutesBetween(session.StartTime, now)-breaks, 0)
}

// ListSessions returns the user's sessions starting in [from, to], newest
// first. Zero bounds default to the current Monday-Sunday week.
func (s *Service) ListSessions(ctx context.Context, userID string, from, to time.Time) ([]core.TimeSession, error) {
	if from.IsZero() || to.IsZero() {
		from, to = WeekBounds(s.now())
	}
	return s.History(ctx, userID, from, to)
}

// History returns the user's sessions newest first. Unlike ListSessions it
// applies no default window: zero bounds mean every session.
func (s *Service) History(ctx context.Context, userID string, from, to time.Time) ([]core.TimeSession, error) {
	f := core.SessionFilter{UserID: userID}
	if !from.IsZero() && !to.IsZero() {
		f.From, f.To = from, to
	}
	sessions, err := s.Store.ListSessions(ctx, f)
	if err != nil {
		return nil, err
	}
	slices.Reverse(sessions)
	return sessions, nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
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
