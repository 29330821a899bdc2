package httpx

import (
	"net/http"

	"github.com/target/scrapediff/internal/domain/model"
	"github.com/target/scrapediff/internal/service"
)

// ScrapeHandlers runs scrapes on demand.
type ScrapeHandlers struct {
	Svc *service.ScrapeService
}

// Run handles POST /api/sources/{id}/scrape. An extraction failure is still a
// 200: the outcome carries the ERROR job and its message.
func (h *ScrapeHandlers) Run(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.Svc.Run(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, outcome)
}

// RunAll handles POST /api/scrape.
func (h *ScrapeHandlers) RunAll(w http.ResponseWriter, r *http.Request) {
	results, err := h.Svc.RunAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if results == nil {
		results = []model.SourceRunResult{}
	}
	failed := 0
	for _, res := range results {
		if res.Error != "" {
			failed++
		}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"results": results, "failed": failed})
}
