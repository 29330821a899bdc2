package httpx

import (
	"net/http"

	"github.com/target/scrapediff/internal/domain/model"
	"github.com/target/scrapediff/internal/service"
)

// DiffHandlers serves scrape diffs and applies moderation decisions.
type DiffHandlers struct {
	Svc *service.DiffService
}

// Compute handles GET /api/sources/{id}/diff.
func (h *DiffHandlers) Compute(w http.ResponseWriter, r *http.Request) {
	diff, err := h.Svc.Compute(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, diff)
}

// CompareJobs handles GET /api/jobs/{latest}/diff/{previous}.
func (h *DiffHandlers) CompareJobs(w http.ResponseWriter, r *http.Request) {
	diff, err := h.Svc.CompareJobs(r.Context(), r.PathValue("latest"), r.PathValue("previous"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, diff)
}

// Apply handles POST /api/sources/{id}/diff/apply. The body is always an
// ApplyOutcome; the status reflects why a failed apply was rejected.
func (h *DiffHandlers) Apply(w http.ResponseWriter, r *http.Request) {
	var set model.DecisionSet
	if !DecodeJSON(w, r, &set) {
		return
	}

	outcome, err := h.Svc.Apply(r.Context(), r.PathValue("id"), set)
	if err != nil {
		WriteJSON(w, statusForError(err), outcome)
		return
	}
	WriteJSON(w, http.StatusOK, outcome)
}
