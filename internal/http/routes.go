package httpx

import (
	"log/slog"
	"net/http"

	"github.com/target/scrapediff/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Sources *service.SourceService
	Scrapes *service.ScrapeService
	Diffs   *service.DiffService
	Events  *service.EventService

	// MaxBodyBytes caps JSON request bodies; zero disables the cap.
	MaxBodyBytes int64
	Logger       *slog.Logger // Optional
}

// NewRouter creates the API mux wrapped in recover, logging and body limit middleware.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)

	sources := &SourceHandlers{Svc: services.Sources}
	mux.HandleFunc("POST /api/sources", sources.Create)
	mux.HandleFunc("GET /api/sources", sources.List)
	mux.HandleFunc("GET /api/sources/{id}", sources.Get)
	mux.HandleFunc("PATCH /api/sources/{id}", sources.Update)
	mux.HandleFunc("GET /api/sources/{id}/jobs", sources.History)
	mux.HandleFunc("GET /api/sources/{id}/dashboard", sources.Dashboard)

	scrapes := &ScrapeHandlers{Svc: services.Scrapes}
	mux.HandleFunc("POST /api/sources/{id}/scrape", scrapes.Run)
	mux.HandleFunc("POST /api/scrape", scrapes.RunAll)

	diffs := &DiffHandlers{Svc: services.Diffs}
	mux.HandleFunc("GET /api/sources/{id}/diff", diffs.Compute)
	mux.HandleFunc("POST /api/sources/{id}/diff/apply", diffs.Apply)
	mux.HandleFunc("GET /api/jobs/{latest}/diff/{previous}", diffs.CompareJobs)

	events := &EventHandlers{Svc: services.Events}
	mux.HandleFunc("GET /api/events", events.List)
	mux.HandleFunc("GET /api/sources/{id}/events", events.List)
	mux.HandleFunc("GET /api/events/{id}", events.Get)
	mux.HandleFunc("PATCH /api/events/{id}", events.Edit)
	mux.HandleFunc("DELETE /api/events/{id}", events.Delete)

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var h http.Handler = mux
	h = LimitBody(services.MaxBodyBytes)(h)
	h = Logging(logger)(h)
	h = Recover(logger)(h)
	return h
}
