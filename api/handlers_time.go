package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// =============================================================================
// TIME TRACKING HANDLERS
// =============================================================================

// ClockIn opens a session for the actor.
func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	session, err := h.Time.ClockIn(r.Context(), mustActor(r).ID)
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	ok(w, http.StatusCreated, toSessionDTO(*session))
}

func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	session, err := h.Time.ClockOut(r.Context(), mustActor(r).ID)
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	ok(w, http.StatusOK, toSessionDTO(*session))
}

func (h *Handler) StartBreak(w http.ResponseWriter, r *http.Request) {
	b, err := h.Time.StartBreak(r.Context(), mustActor(r).ID)
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	ok(w, http.StatusCreated, toBreakDTO(*b))
}

func (h *Handler) EndBreak(w http.ResponseWriter, r *http.Request) {
	b, err := h.Time.EndBreak(r.Context(), mustActor(r).ID)
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	ok(w, http.StatusOK, toBreakDTO(*b))
}

// GetTimeStatus returns the actor's open session and today's total.
func (h *Handler) GetTimeStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.Time.Status(r.Context(), mustActor(r).ID)
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	ok(w, http.StatusOK, toTimeStatusDTO(st))
}

// ListMySessions returns the actor's sessions in ?from&to, defaulting to the
// current week.
func (h *Handler) ListMySessions(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	sessions, err := h.Time.ListSessions(r.Context(), mustActor(r).ID, from, to)
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	ok(w, http.StatusOK, toSessionDTOs(sessions))
}

func (h *Handler) CancelSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.Time.CancelSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	ok(w, http.StatusOK, toSessionDTO(*session))
}
