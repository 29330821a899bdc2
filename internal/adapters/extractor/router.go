package extractor

import (
	"context"

	"github.com/target/scrapediff/internal/core"
	"github.com/target/scrapediff/internal/domain/model"
	apperrors "github.com/target/scrapediff/internal/errors"
)

// StrategyRouter dispatches extraction by the source's strategy tag.
// Known tags without a registered extractor fail as not implemented.
type StrategyRouter struct {
	routes map[model.ScrapeStrategy]core.Extractor
}

// NewStrategyRouter returns a router with the generic AI extractor registered.
func NewStrategyRouter(genericAI core.Extractor) *StrategyRouter {
	r := &StrategyRouter{routes: make(map[model.ScrapeStrategy]core.Extractor)}
	if genericAI != nil {
		r.routes[model.StrategyGenericAI] = genericAI
	}
	return r
}

// Register adds or replaces the extractor for a strategy.
func (r *StrategyRouter) Register(strategy model.ScrapeStrategy, ex core.Extractor) {
	r.routes[strategy] = ex
}

// Extract implements core.Extractor.
func (r *StrategyRouter) Extract(
	ctx context.Context,
	url string,
	strategy model.ScrapeStrategy,
) (*model.ExtractionResult, error) {
	if ex, ok := r.routes[strategy]; ok {
		return ex.Extract(ctx, url, strategy)
	}
	if strategy.Known() {
		return nil, apperrors.UnsupportedStrategyf("scrape strategy %q is not implemented", strategy)
	}
	return nil, apperrors.UnsupportedStrategyf("unknown scrape strategy %q", strategy)
}
