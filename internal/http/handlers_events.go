package httpx

import (
	"net/http"

	"github.com/target/scrapediff/internal/domain/model"
	"github.com/target/scrapediff/internal/service"
)

// EventHandlers provides browsing and the manual edit and delete operations on event records.
type EventHandlers struct {
	Svc *service.EventService
}

// List handles GET /api/events and GET /api/sources/{id}/events.
func (h *EventHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts, err := parseEventListQuery(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if id := r.PathValue("id"); id != "" {
		opts.SourceID = id
	}

	list, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"events": list.Events,
		"total":  list.Total,
		"limit":  opts.Limit,
		"offset": opts.Offset,
	})
}

// Get handles GET /api/events/{id}.
func (h *EventHandlers) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, rec)
}

// Edit handles PATCH /api/events/{id}.
func (h *EventHandlers) Edit(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateEventRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	rec, err := h.Svc.Edit(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, rec)
}

// Delete handles DELETE /api/events/{id}.
func (h *EventHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
