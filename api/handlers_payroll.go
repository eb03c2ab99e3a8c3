package api

import "net/http"

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// PreviewPayroll returns every employee's summary for ?month=YYYY-MM, or the
// current month when absent.
func (h *Handler) PreviewPayroll(w http.ResponseWriter, r *http.Request) {
	res, err := h.Payroll.Preview(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	ok(w, http.StatusOK, ToPayrollPreviewResponse(res))
}
