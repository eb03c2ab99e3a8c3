package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/timekeeper/core"
	"github.com/warp/timekeeper/leave"
	"github.com/warp/timekeeper/payroll"
	"github.com/warp/timekeeper/timetrack"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   core.Store
	Time    *timetrack.Service
	Leave   *leave.Service
	Payroll *payroll.PreviewService
	Logger  *slog.Logger

	// Now is the clock used for seeding and query defaults.
	Now func() time.Time
}

// NewHandler wires the domain services over one store.
func NewHandler(store core.Store, timezone string, concurrency int, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		Store:   store,
		Time:    timetrack.NewService(store),
		Leave:   leave.NewService(store),
		Payroll: payroll.NewPreviewService(store, timezone, concurrency),
		Logger:  logger,
		Now:     time.Now,
	}
	h.Time.Logger = logger
	h.Leave.Logger = logger
	h.Payroll.Logger = logger
	return h
}

// =============================================================================
// HEALTH
// =============================================================================

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ok(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// USER HANDLERS
// =============================================================================

// ListUsers returns every user ordered by email.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toUserDTO(u))
	}
	ok(w, http.StatusOK, out)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.Store.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	ok(w, http.StatusOK, toUserDTO(*u))
}

// GetCurrentUser returns the actor.
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	ok(w, http.StatusOK, toUserDTO(mustActor(r)))
}

// GetUserTimeStatus is GetTimeStatus for another user.
func (h *Handler) GetUserTimeStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.Time.Status(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	ok(w, http.StatusOK, toTimeStatusDTO(st))
}

// ListTeamStatus returns every user's live clock state, ordered by email.
func (h *Handler) ListTeamStatus(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}

	out := make([]UserTimeStatusDTO, 0, len(users))
	for _, u := range users {
		st, err := h.Time.Status(r.Context(), u.ID)
		if err != nil {
			writeErrorFrom(w, r, err)
			return
		}
		row := UserTimeStatusDTO{
			UserID:           u.ID,
			Email:            u.Email,
			Name:             u.DisplayName(),
			Role:             u.Role,
			HasActiveSession: st.HasActiveSession,
			HasActiveBreak:   st.ActiveBreak != nil,
			TotalWorkedToday: st.TotalWorkedToday,
		}
		if u.Profile != nil {
			row.Department = u.Profile.Department
		}
		if st.Session != nil {
			row.SessionStart = formatTimePtr(&st.Session.StartTime)
		}
		out = append(out, row)
	}
	ok(w, http.StatusOK, out)
}

// ListRoles returns the fixed role set by name.
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	out := make([]RoleDTO, 0, len(core.Roles))
	for _, role := range core.Roles {
		out = append(out, RoleDTO{Name: role, Description: role.Description()})
	}
	ok(w, http.StatusOK, out)
}

// ListUserSessions returns another user's sessions newest first. An unknown
// user yields an empty list.
func (h *Handler) ListUserSessions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Store.GetUser(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			ok(w, http.StatusOK, []SessionDTO{})
			return
		}
		writeErrorFrom(w, r, err)
		return
	}

	from, to, err := parseRange(r)
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	sessions, err := h.Time.History(r.Context(), id, from, to)
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	ok(w, http.StatusOK, toSessionDTOs(sessions))
}

// =============================================================================
// QUERY PARAMETERS
// =============================================================================

// parseRange reads ?from&to. Both must be present to take effect; each is
// RFC 3339 or YYYY-MM-DD, where a bare "to" date covers that whole day.
func parseRange(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()
	fromParam, toParam := strings.TrimSpace(q.Get("from")), strings.TrimSpace(q.Get("to"))
	if fromParam == "" || toParam == "" {
		return time.Time{}, time.Time{}, nil
	}

	from, err := parseInstant(fromParam, false)
	if err != nil {
		return time.Time{}, time.Time{}, badQuery("from", fromParam)
	}
	to, err := parseInstant(toParam, true)
	if err != nil {
		return time.Time{}, time.Time{}, badQuery("to", toParam)
	}
	return from, to, nil
}

func parseInstant(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	d, err := time.Parse(core.DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		return core.DateOf(d).EndOfDay(), nil
	}
	return d, nil
}

func badQuery(field, provided string) error {
	return &core.ValidationError{
		Field:   field,
		Message: "Invalid " + field + " parameter",
		Details: map[string]any{"provided": provided},
		Cause:   errBadRequest,
	}
}
