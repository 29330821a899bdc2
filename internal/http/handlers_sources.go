// Package httpx exposes the scrape, diff and moderation operations over a JSON API.
package httpx

import (
	"net/http"

	"github.com/target/scrapediff/internal/domain/model"
	"github.com/target/scrapediff/internal/service"
)

// SourceHandlers provides HTTP handlers for event source operations.
type SourceHandlers struct {
	Svc *service.SourceService
}

// Create handles POST /api/sources.
func (h *SourceHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventSourceRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	src, err := h.Svc.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, src)
}

// List handles GET /api/sources.
func (h *SourceHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, defaultPageLimit, maxPageLimit)
	sources, err := h.Svc.List(r.Context(), model.EventSourceListOptions{Limit: limit, Offset: offset})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if sources == nil {
		sources = []*model.EventSource{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"sources": sources, "limit": limit, "offset": offset})
}

// Get handles GET /api/sources/{id}.
func (h *SourceHandlers) Get(w http.ResponseWriter, r *http.Request) {
	src, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, src)
}

// Update handles PATCH /api/sources/{id}.
func (h *SourceHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateEventSourceRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	src, err := h.Svc.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, src)
}

// History handles GET /api/sources/{id}/jobs.
func (h *SourceHandlers) History(w http.ResponseWriter, r *http.Request) {
	status, err := parseStatusQuery(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	limit, offset := ParseLimitOffset(r, defaultPageLimit, maxPageLimit)

	jobs, err := h.Svc.History(r.Context(), model.ScrapeJobListOptions{
		SourceID: r.PathValue("id"),
		Status:   status,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if jobs == nil {
		jobs = []*model.ScrapeJob{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"jobs": jobs, "limit": limit, "offset": offset})
}

// Dashboard handles GET /api/sources/{id}/dashboard.
func (h *SourceHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.Svc.Dashboard(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, dash)
}
