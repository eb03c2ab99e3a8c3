package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/warp/timekeeper/core"
	"github.com/warp/timekeeper/leave"
)

// =============================================================================
// LEAVE HANDLERS
// =============================================================================

// RequestLeave submits a PENDING request for the actor.
func (h *Handler) RequestLeave(w http.ResponseWriter, r *http.Request) {
	var in leave.RequestInput
	if err := decodeJSON(r, &in); err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	l, err := h.Leave.Request(r.Context(), mustActor(r).ID, in)
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	ok(w, http.StatusCreated, toLeaveDTO(*l))
}

// GetLeaveBalance returns the actor's paid leave for ?year, default this year.
func (h *Handler) GetLeaveBalance(w http.ResponseWriter, r *http.Request) {
	year := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("year")); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1 || y > 9999 {
			writeErrorFrom(w, r, badQuery("year", raw))
			return
		}
		year = y
	}
	b, err := h.Leave.Balance(r.Context(), mustActor(r).ID, year)
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	ok(w, http.StatusOK, toLeaveBalanceDTO(b))
}

func (h *Handler) ListMyLeaves(w http.ResponseWriter, r *http.Request) {
	leaves, err := h.Leave.ListMine(r.Context(), mustActor(r).ID)
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	ok(w, http.StatusOK, toLeaveDTOs(leaves))
}

// ListPendingLeaves returns every pending request, oldest first.
func (h *Handler) ListPendingLeaves(w http.ResponseWriter, r *http.Request) {
	leaves, err := h.Leave.ListPending(r.Context())
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	ok(w, http.StatusOK, toLeaveDTOs(leaves))
}

// ListAllLeaves returns every request, newest first, optionally narrowed by
// ?status.
func (h *Handler) ListAllLeaves(w http.ResponseWriter, r *http.Request) {
	status := core.LeaveStatus(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))))
	leaves, err := h.Leave.ListAll(r.Context(), status)
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	ok(w, http.StatusOK, toLeaveDTOs(leaves))
}

func (h *Handler) ApproveLeave(w http.ResponseWriter, r *http.Request) {
	l, err := h.Leave.Approve(r.Context(), chi.URLParam(r, "id"), mustActor(r).ID)
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	ok(w, http.StatusOK, toLeaveDTO(*l))
}

// RejectLeave accepts an optional {"rejectionReason": "..."} body.
func (h *Handler) RejectLeave(w http.ResponseWriter, r *http.Request) {
	var req RejectLeaveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	l, err := h.Leave.Reject(r.Context(), chi.URLParam(r, "id"), mustActor(r).ID, strings.TrimSpace(req.RejectionReason))
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	ok(w, http.StatusOK, toLeaveDTO(*l))
}
