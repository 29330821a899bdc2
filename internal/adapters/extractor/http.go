// Package extractor adapts external extraction services to the core.Extractor port.
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/target/scrapediff/config"
	"github.com/target/scrapediff/internal/domain/model"
	apperrors "github.com/target/scrapediff/internal/errors"
)

const (
	// maxResponseBytes caps how much of an extractor response is read.
	maxResponseBytes = 16 << 20
	// errorSnippetLen bounds the response text quoted in error messages.
	errorSnippetLen = 200
)

// HTTPExtractorOptions configures an HTTPExtractor.
type HTTPExtractorOptions struct {
	Config config.ExtractorConfig
	Client *http.Client // Optional: defaults to a client with Config.Timeout
	Logger *slog.Logger
}

// HTTPExtractor calls a remote extraction service with {url, strategy} and
// locates the events array and status message in its JSON response with
// JMESPath expressions.
type HTTPExtractor struct {
	endpoint    string
	apiKey      string
	eventsPath  string
	messagePath string
	retryLimit  int
	client      *http.Client
	logger      *slog.Logger
}

type extractRequest struct {
	URL      string               `json:"url"`
	Strategy model.ScrapeStrategy `json:"strategy"`
}

// NewHTTPExtractor validates the endpoint and JMESPath expressions.
func NewHTTPExtractor(opts HTTPExtractorOptions) (*HTTPExtractor, error) {
	cfg := opts.Config
	cfg.Sanitize()
	if cfg.URL == "" {
		return nil, errors.New("extractor url is required")
	}
	if _, err := jmespath.Compile(cfg.EventsPath); err != nil {
		return nil, fmt.Errorf("invalid events path %q: %w", cfg.EventsPath, err)
	}
	if _, err := jmespath.Compile(cfg.MessagePath); err != nil {
		return nil, fmt.Errorf("invalid message path %q: %w", cfg.MessagePath, err)
	}

	hc := opts.Client
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPExtractor{
		endpoint:    cfg.URL,
		apiKey:      cfg.APIKey,
		eventsPath:  cfg.EventsPath,
		messagePath: cfg.MessagePath,
		retryLimit:  cfg.RetryLimit,
		client:      hc,
		logger:      logger.With("component", "http_extractor"),
	}, nil
}

// Extract posts the page URL to the extraction service and decodes the candidates.
func (e *HTTPExtractor) Extract(
	ctx context.Context,
	pageURL string,
	strategy model.ScrapeStrategy,
) (*model.ExtractionResult, error) {
	body, err := json.Marshal(extractRequest{URL: pageURL, Strategy: strategy})
	if err != nil {
		return nil, fmt.Errorf("encode extractor request: %w", err)
	}

	attempts := e.retryLimit + 1
	var lastErr error
	for attempt := range attempts {
		raw, retryable, postErr := e.post(ctx, body)
		if postErr == nil {
			return e.decode(raw)
		}
		lastErr = postErr
		if !retryable || attempt == attempts-1 {
			break
		}
		e.logger.WarnContext(ctx, "extractor call failed, retrying",
			"attempt", attempt+1,
			"url", pageURL,
			"error", postErr,
		)
		delay := time.Duration(attempt+1) * 500 * time.Millisecond
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}

// post returns the response body, or an error and whether it is worth retrying.
func (e *HTTPExtractor) post(ctx context.Context, body []byte) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("create extractor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, apperrors.Extraction(err, "extractor request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, apperrors.Extraction(err, "read extractor response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode >= 500, apperrors.Extractionf(
			"extractor returned status %d: %s", resp.StatusCode, snippet(raw))
	}
	return raw, false, nil
}

func (e *HTTPExtractor) decode(raw []byte) (*model.ExtractionResult, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, apperrors.Extraction(err, "extractor returned invalid JSON")
	}

	found, err := jmespath.Search(e.eventsPath, doc)
	if err != nil {
		return nil, apperrors.Extraction(err, "evaluate events path")
	}
	items, ok := found.([]any)
	if !ok {
		return nil, apperrors.Extractionf("extractor response: %q is not an array", e.eventsPath)
	}

	result := &model.ExtractionResult{Events: make([]model.CandidateEvent, 0, len(items))}
	for _, item := range items {
		result.Events = append(result.Events, toCandidate(item))
	}

	if msg, err := jmespath.Search(e.messagePath, doc); err == nil {
		if s, ok := msg.(string); ok {
			result.Message = strings.TrimSpace(s)
		}
	}
	return result, nil
}

// toCandidate converts one decoded array element. Elements that cannot be read
// become malformed candidates so the rest of the batch is still persisted.
func toCandidate(item any) model.CandidateEvent {
	if _, ok := item.(map[string]any); !ok {
		return model.MalformedCandidate(fmt.Errorf("event is not an object: %T", item))
	}
	b, err := json.Marshal(item)
	if err != nil {
		return model.MalformedCandidate(err)
	}
	var cand model.CandidateEvent
	if err := json.Unmarshal(b, &cand); err != nil {
		return model.MalformedCandidate(err)
	}
	return cand
}

func snippet(raw []byte) string {
	s := strings.Join(strings.Fields(string(raw)), " ")
	if len(s) > errorSnippetLen {
		return s[:errorSnippetLen] + "..."
	}
	return s
}
