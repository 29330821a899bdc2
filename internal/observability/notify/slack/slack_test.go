package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/scrapediff/internal/observability/notify"
)

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
}

func TestFormatMessageIncludesFields(t *testing.T) {
	client, err := NewClient(Config{
		WebhookURL: "https://hooks.slack.com/services/test",
		Channel:    "#scrapes",
		Username:   "bot",
		Timeout:    time.Second,
	})
	require.NoError(t, err)

	msg := client.formatMessage(notify.ScrapeFailurePayload{
		JobID:      "job-1",
		SourceID:   "src-1",
		SourceURL:  "https://tickets.example.com/events",
		Domain:     "example.com",
		Strategy:   "generic_ai",
		Error:      "extractor returned 503",
		ErrorClass: "extraction",
		Metadata:   map[string]string{"attempt": "1"},
	})

	assert.Equal(t, "bot", msg["username"])
	assert.Equal(t, "#scrapes", msg["channel"])

	text, ok := msg["text"].(string)
	require.True(t, ok)
	for _, want := range []string{
		"Scrape failed", "example.com", "job-1", "src-1", "generic_ai",
		"extractor returned 503", "extraction", "attempt: 1",
	} {
		assert.Contains(t, text, want)
	}
}

func TestFormatSourceValue(t *testing.T) {
	tcs := []struct {
		name     string
		sourceID string
		url      string
		prefix   string
		want     string
	}{
		{
			name:     "id with link",
			sourceID: "src-1",
			prefix:   "https://scrapediff.example/api/sources",
			want:     "<https://scrapediff.example/api/sources/src-1|src-1>",
		},
		{
			name:     "id and url with link",
			sourceID: "src-2",
			url:      "https://a.example/cal",
			prefix:   "https://scrapediff.example/api/sources",
			want:     "<https://scrapediff.example/api/sources/src-2|https://a.example/cal> (src-2)",
		},
		{
			name:     "invalid prefix falls back to plain text",
			sourceID: "src-3",
			url:      "https://a.example/cal",
			prefix:   "not a url",
			want:     "https://a.example/cal (src-3)",
		},
		{
			name: "url only",
			url:  "https://a.example/<cal>",
			want: "https://a.example/&lt;cal&gt;",
		},
		{name: "empty"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			client, err := NewClient(Config{
				WebhookURL:      "https://hooks.slack.com/services/test",
				SourceURLPrefix: tc.prefix,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, client.formatSourceValue(tc.sourceID, tc.url))
		})
	}
}

func TestSendScrapeFailure_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(Config{WebhookURL: srv.URL, RetryLimit: 1})
	require.NoError(t, err)

	require.NoError(t, client.SendScrapeFailure(context.Background(), notify.ScrapeFailurePayload{JobID: "job-1"}))
	assert.Equal(t, int32(2), calls.Load())
}

func TestSendScrapeFailure_ReturnsLastError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid_token", http.StatusForbidden)
	}))
	defer srv.Close()

	client, err := NewClient(Config{WebhookURL: srv.URL})
	require.NoError(t, err)

	err = client.SendScrapeFailure(context.Background(), notify.ScrapeFailurePayload{JobID: "job-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_token")
}
