// Package devseed loads a small set of event sources for local development.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/scrapediff/internal/data"
	"github.com/target/scrapediff/internal/domain/model"
	apperrors "github.com/target/scrapediff/internal/errors"
	"github.com/target/scrapediff/internal/service"
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	Sources *service.SourceService
}

// NewServices constructs the seeding services over the provided DB.
func NewServices(db *sql.DB) Services {
	return Services{
		Sources: service.MustNewSourceService(service.SourceServiceOptions{
			Sources: data.NewEventSourceRepo(db),
			Jobs:    data.NewScrapeJobRepo(db),
		}),
	}
}

// Run creates every default source. Sources that already exist are left
// untouched so the command can be re-run.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	if svcs.Sources == nil {
		return errors.New("source service is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	failures := 0
	for _, req := range DefaultSources() {
		if err := createSource(ctx, svcs.Sources, logger, req); err != nil {
			failures++
		}
	}
	if failures > 0 {
		return fmt.Errorf("dev seeding encountered %d failure(s)", failures)
	}
	return nil
}

// DefaultSources lists the development calendars, one per scrape strategy.
func DefaultSources() []model.CreateEventSourceRequest {
	return []model.CreateEventSourceRequest{
		{URL: "https://events.example.com/calendar", ScrapeStrategy: model.StrategyGenericAI},
		{URL: "https://www.example.org/whats-on", ScrapeStrategy: model.StrategyGenericAI},
		{URL: "https://festival.example.net/programme.pdf", ScrapeStrategy: model.StrategyPDF},
		{URL: "https://club.example.co.uk/fixtures.png", ScrapeStrategy: model.StrategyImage},
		{URL: "https://venue.example.com/calendar", ScrapeStrategy: model.StrategyCSSCalendar},
	}
}

func createSource(
	ctx context.Context,
	svc *service.SourceService,
	logger *slog.Logger,
	req model.CreateEventSourceRequest,
) error {
	source, err := svc.Create(ctx, req)
	switch {
	case err == nil:
		logger.InfoContext(ctx, "created source", "id", source.ID, "url", source.URL, "strategy", source.ScrapeStrategy)
		return nil
	case apperrors.IsConflict(err):
		logger.InfoContext(ctx, "source already exists", "url", req.URL, "action", "skipped")
		return nil
	default:
		logger.ErrorContext(ctx, "failed to create source", "url", req.URL, "error", err)
		return err
	}
}
