package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/timekeeper/core"
	"github.com/warp/timekeeper/timetrack"
)

// =============================================================================
// MANUAL TIME ENTRIES
// =============================================================================

// ListEntries returns sessions newest first, optionally within ?from&to.
// ?userId naming someone else needs an admin or manager.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	actor := mustActor(r)
	userID := actor.ID
	if q := strings.TrimSpace(r.URL.Query().Get("userId")); q != "" && q != actor.ID {
		if !actor.Role.IsApprover() {
			forbidden(w, actor, approverRoles)
			return
		}
		userID = q
	}

	from, to, err := parseRange(r)
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	sessions, err := h.Time.History(r.Context(), userID, from, to)
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	ok(w, http.StatusOK, toSessionDTOs(sessions))
}

// CreateEntry records a session by hand. Only admins record for others.
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorFrom(w, r, err)
		return
	}

	actor := mustActor(r)
	entry := timetrack.Entry{UserID: actor.ID, Notes: strings.TrimSpace(req.Notes)}
	if req.UserID != "" && req.UserID != actor.ID {
		if actor.Role != core.RoleAdmin {
			forbidden(w, actor, []core.Role{core.RoleAdmin})
			return
		}
		entry.UserID = req.UserID
	}

	if req.StartTime != "" {
		start, err := parseEntryTime("startTime", req.StartTime)
		if err != nil {
			writeErrorFrom(w, r, err)
			return
		}
		entry.Start = start
	}
	if req.EndTime != nil && *req.EndTime != "" {
		end, err := parseEntryTime("endTime", *req.EndTime)
		if err != nil {
			writeErrorFrom(w, r, err)
			return
		}
		entry.End = &end
	}

	session, err := h.Time.CreateEntry(r.Context(), entry)
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	ok(w, http.StatusCreated, toSessionDTO(*session))
}

// GetEntry returns one session to its owner or to an approver.
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	session, err := h.Time.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	actor := mustActor(r)
	if session.UserID != actor.ID && !actor.Role.IsApprover() {
		forbidden(w, actor, approverRoles)
		return
	}
	ok(w, http.StatusOK, toSessionDTO(*session))
}

// UpdateEntry lets the owner or an admin edit a session.
func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	session, err := h.Time.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	actor := mustActor(r)
	if session.UserID != actor.ID && actor.Role != core.RoleAdmin {
		forbidden(w, actor, []core.Role{core.RoleAdmin})
		return
	}
	h.applySessionUpdate(w, r, session.ID)
}

// UpdateSession is the admin edit of any session.
func (h *Handler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	h.applySessionUpdate(w, r, chi.URLParam(r, "id"))
}

func (h *Handler) applySessionUpdate(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req UpdateEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorFrom(w, r, err)
		return
	}

	var upd timetrack.SessionUpdate
	if req.StartTime != nil {
		start, err := parseEntryTime("startTime", *req.StartTime)
		if err != nil {
			writeErrorFrom(w, r, err)
			return
		}
		upd.Start = &start
	}
	if req.EndTime.Set {
		if req.EndTime.Value == "" {
			upd.ClearEnd = true
		} else {
			end, err := parseEntryTime("endTime", req.EndTime.Value)
			if err != nil {
				writeErrorFrom(w, r, err)
				return
			}
			upd.End = &end
		}
	}
	upd.Notes = req.Notes

	session, err := h.Time.UpdateSession(r.Context(), sessionID, upd)
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	ok(w, http.StatusOK, toSessionDTO(*session))
}

// parseEntryTime reads an RFC 3339 instant from a request body.
func parseEntryTime(field, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &core.ValidationError{
			Field:   field,
			Message: "Invalid " + field,
			Details: map[string]any{"provided": s},
		}
	}
	return t.UTC(), nil
}
