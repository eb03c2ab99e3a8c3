package timetrack

import (
	"context"
	"log/slog"
	"time"

	"github.com/warp/timekeeper/core"
)

// =============================================================================
// MANUAL ENTRIES - Sessions recorded or corrected after the fact
// =============================================================================

// Entry is a session typed in by hand. A nil End records a session that is
// still running.
type Entry struct {
	UserID string
	Start  time.Time
	End    *time.Time
	Notes  string
}

// SessionUpdate edits a stored session. Nil fields are left alone; ClearEnd
// reopens the session and wins over End.
type SessionUpdate struct {
	Start    *time.Time
	End      *time.Time
	ClearEnd bool
	Notes    *string
}

// CreateEntry records e as COMPLETED when it has an end and ACTIVE otherwise.
// An ACTIVE entry is refused while the user already has an open session.
func (s *Service) CreateEntry(ctx context.Context, e Entry) (*core.TimeSession, error) {
	if err := checkBounds(e.Start, e.End); err != nil {
		return nil, err
	}

	var out core.TimeSession
	err := s.Store.WithTx(ctx, func(tx core.Store) error {
		if _, err := tx.GetUser(ctx, e.UserID); err != nil {
			return err
		}
		if e.End == nil {
			if err := refuseSecondOpen(ctx, tx, e.UserID, ""); err != nil {
				return err
			}
		}

		now := s.now()
		out = core.TimeSession{
			ID:        s.newID(),
			UserID:    e.UserID,
			StartTime: e.Start.UTC(),
			Notes:     e.Notes,
			CreatedAt: now,
			UpdatedAt: now,
		}
		setEnd(&out, e.End)
		return tx.SaveSession(ctx, out)
	})
	if err != nil {
		return nil, err
	}

	s.logger().Info("time entry recorded",
		slog.String("user_id", out.UserID),
		slog.String("session_id", out.ID),
		slog.String("status", string(out.Status)),
	)
	return &out, nil
}

// GetSession returns one session with its breaks.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*core.TimeSession, error) {
	return s.Store.GetSession(ctx, sessionID)
}

// UpdateSession applies upd and recomputes the gross duration. Setting an end
// completes the session and closes a running break at that end; clearing it
// reopens the session. Cancelled sessions cannot be edited.
func (s *Service) UpdateSession(ctx context.Context, sessionID string, upd SessionUpdate) (*core.TimeSession, error) {
	var out core.TimeSession
	err := s.Store.WithTx(ctx, func(tx core.Store) error {
		session, err := tx.GetSession(ctx, sessionID)
		if err != nil {
			return err
		}
		if session.Status == core.SessionCancelled {
			return &core.StateError{
				Err:     core.ErrSessionNotEditable,
				Message: "Cancelled sessions cannot be edited",
				Details: map[string]any{"currentStatus": session.Status},
			}
		}

		start := session.StartTime
		if upd.Start != nil {
			start = upd.Start.UTC()
		}
		end := session.EndTime
		switch {
		case upd.ClearEnd:
			end = nil
		case upd.End != nil:
			e := upd.End.UTC()
			end = &e
		}
		if err := checkBounds(start, end); err != nil {
			return err
		}
		if end == nil && !session.Status.IsOpen() {
			if err := refuseSecondOpen(ctx, tx, session.UserID, session.ID); err != nil {
				return err
			}
		}

		session.StartTime = start
		if upd.Notes != nil {
			session.Notes = *upd.Notes
		}
		if upd.Start != nil || upd.End != nil || upd.ClearEnd {
			setEnd(session, end)
		}
		session.UpdatedAt = s.now()
		out = *session
		return tx.SaveSession(ctx, out)
	})
	if err != nil {
		return nil, err
	}

	s.logger().Info("time session edited",
		slog.String("session_id", out.ID),
		slog.String("status", string(out.Status)),
	)
	return &out, nil
}

// setEnd closes the session at end with its gross duration, or reopens it.
func setEnd(session *core.TimeSession, end *time.Time) {
	if end == nil {
		session.EndTime = nil
		session.Duration = nil
		session.Status = core.SessionActive
		if session.ActiveBreak() != nil {
			session.Status = core.SessionPaused
		}
		return
	}

	if active := session.ActiveBreak(); active != nil {
		closeBreak(active, *end)
	}
	at := *end
	gross := max(MinutesBetween(session.StartTime, at), 0)
	session.EndTime = &at
	session.Duration = &gross
	session.Status = core.SessionCompleted
}

func checkBounds(start time.Time, end *time.Time) error {
	if start.IsZero() {
		return core.NewValidationError("startTime", "startTime is required")
	}
	if end != nil && !end.After(start) {
		return &core.ValidationError{
			Field:   "endTime",
			Message: "endTime must be after startTime",
			Details: map[string]any{
				"startTime": start.UTC().Format(time.RFC3339),
				"endTime":   end.UTC().Format(time.RFC3339),
			},
		}
	}
	return nil
}

// refuseSecondOpen fails when userID has an open session other than exceptID.
func refuseSecondOpen(ctx context.Context, tx core.Store, userID, exceptID string) error {
	open, err := tx.FindOpenSession(ctx, userID)
	if err != nil {
		return err
	}
	if open != nil && open.ID != exceptID {
		return &core.StateError{
			Err:     core.ErrSessionAlreadyOpen,
			Message: "User already has an active time session",
			Details: map[string]any{"sessionId": open.ID},
		}
	}
	return nil
}
