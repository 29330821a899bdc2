package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/scrapediff/config"
	"github.com/target/scrapediff/internal/core"
	"github.com/target/scrapediff/internal/domain/model"
	"github.com/target/scrapediff/internal/mocks"
	"github.com/target/scrapediff/internal/service"
	"github.com/target/scrapediff/internal/testutil"
)

type routerFixture struct {
	sources   *mocks.MockEventSourceRepository
	jobs      *mocks.MockScrapeJobRepository
	events    *mocks.MockEventRecordRepository
	decisions *mocks.MockDecisionRepository
	dashboard *mocks.MockDashboardRepository
	extractor *mocks.MockExtractor
	handler   http.Handler
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &routerFixture{
		sources:   mocks.NewMockEventSourceRepository(ctrl),
		jobs:      mocks.NewMockScrapeJobRepository(ctrl),
		events:    mocks.NewMockEventRecordRepository(ctrl),
		decisions: mocks.NewMockDecisionRepository(ctrl),
		dashboard: mocks.NewMockDashboardRepository(ctrl),
		extractor: mocks.NewMockExtractor(ctrl),
	}
	f.handler = NewRouter(RouterServices{
		Sources: service.MustNewSourceService(service.SourceServiceOptions{
			Sources:   f.sources,
			Jobs:      f.jobs,
			Dashboard: f.dashboard,
		}),
		Scrapes: service.MustNewScrapeService(service.ScrapeServiceOptions{
			Sources:   f.sources,
			Jobs:      f.jobs,
			Events:    f.events,
			Extractor: f.extractor,
			Config:    config.ScrapeConfig{Concurrency: 2, Timeout: time.Minute},
		}),
		Diffs: service.MustNewDiffService(service.DiffServiceOptions{
			Sources:   f.sources,
			Jobs:      f.jobs,
			Events:    f.events,
			Decisions: f.decisions,
		}),
		Events:       service.MustNewEventService(service.EventServiceOptions{Events: f.events, Sources: f.sources}),
		MaxBodyBytes: 1024,
	})
	return f
}

func (f *routerFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestRouter_Health(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = f.do(t, http.MethodHead, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestRouter_CreateSource(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		f := newRouterFixture(t)
		f.sources.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p model.CreateEventSourceParams) (*model.EventSource, error) {
				assert.Equal(t, "https://www.example.co.uk/events", p.URL)
				assert.Equal(t, "example.co.uk", p.Domain)
				assert.Equal(t, model.StrategyGenericAI, p.ScrapeStrategy)
				return &model.EventSource{ID: "src-1", URL: p.URL, Domain: p.Domain, ScrapeStrategy: p.ScrapeStrategy}, nil
			})

		rec := f.do(t, http.MethodPost, "/api/sources", `{"url":"https://www.example.co.uk/events"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		src := decodeBody[model.EventSource](t, rec)
		assert.Equal(t, "src-1", src.ID)
	})

	t.Run("unknown field", func(t *testing.T) {
		f := newRouterFixture(t)
		rec := f.do(t, http.MethodPost, "/api/sources", `{"url":"https://example.com","name":"x"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_json", decodeBody[map[string]string](t, rec)["error"])
	})

	t.Run("invalid url", func(t *testing.T) {
		f := newRouterFixture(t)
		rec := f.do(t, http.MethodPost, "/api/sources", `{"url":"ftp://example.com"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation", decodeBody[map[string]string](t, rec)["error"])
	})

	t.Run("duplicate url", func(t *testing.T) {
		f := newRouterFixture(t)
		f.sources.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, model.ErrEventSourceURLExists)
		rec := f.do(t, http.MethodPost, "/api/sources", `{"url":"https://example.com"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("body too large", func(t *testing.T) {
		f := newRouterFixture(t)
		big := `{"url":"https://example.com/` + strings.Repeat("a", 2048) + `"}`
		rec := f.do(t, http.MethodPost, "/api/sources", big)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_GetSource_NotFound(t *testing.T) {
	f := newRouterFixture(t)
	f.sources.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, model.ErrEventSourceNotFound)

	rec := f.do(t, http.MethodGet, "/api/sources/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeBody[map[string]string](t, rec)["error"])
}

func TestRouter_History(t *testing.T) {
	t.Run("passes filter and pagination", func(t *testing.T) {
		f := newRouterFixture(t)
		source := testutil.EventSource("src-1", "https://example.com")
		f.sources.EXPECT().GetByID(gomock.Any(), source.ID).Return(source, nil)
		f.jobs.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, opts model.ScrapeJobListOptions) ([]*model.ScrapeJob, error) {
				assert.Equal(t, source.ID, opts.SourceID)
				require.NotNil(t, opts.Status)
				assert.Equal(t, model.ScrapeStatusError, *opts.Status)
				assert.Equal(t, 10, opts.Limit)
				assert.Equal(t, 5, opts.Offset)
				return nil, nil
			})

		rec := f.do(t, http.MethodGet, "/api/sources/src-1/jobs?status=error&limit=10&offset=5", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"jobs":[],"limit":10,"offset":5}`, rec.Body.String())
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		f := newRouterFixture(t)
		rec := f.do(t, http.MethodGet, "/api/sources/src-1/jobs?status=PENDING", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_Scrape(t *testing.T) {
	t.Run("extraction failure is reported in the outcome", func(t *testing.T) {
		f := newRouterFixture(t)
		source := testutil.EventSource("src-1", "https://example.com")
		job := testutil.ScrapeJob("job-1", source.ID, model.ScrapeStatusRunning, testutil.TestTime())

		f.sources.EXPECT().GetByID(gomock.Any(), source.ID).Return(source, nil)
		f.jobs.EXPECT().CreateRunning(gomock.Any(), source.ID).Return(job, nil)
		f.extractor.EXPECT().Extract(gomock.Any(), source.URL, source.ScrapeStrategy).
			Return(nil, errors.New("upstream unavailable"))
		f.jobs.EXPECT().Finish(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p model.FinishScrapeJobParams) (*model.ScrapeJob, error) {
				done := *job
				done.Status = p.Status
				done.Message = p.Message
				return &done, nil
			})

		rec := f.do(t, http.MethodPost, "/api/sources/src-1/scrape", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		outcome := decodeBody[model.JobOutcome](t, rec)
		assert.Equal(t, model.ScrapeStatusError, outcome.Job.Status)
		assert.Equal(t, "upstream unavailable", outcome.Job.Message)
	})

	t.Run("in progress", func(t *testing.T) {
		f := newRouterFixture(t)
		source := testutil.EventSource("src-1", "https://example.com")
		f.sources.EXPECT().GetByID(gomock.Any(), source.ID).Return(source, nil)
		f.jobs.EXPECT().CreateRunning(gomock.Any(), source.ID).Return(nil, model.ErrScrapeInProgress)

		rec := f.do(t, http.MethodPost, "/api/sources/src-1/scrape", "")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("all sources", func(t *testing.T) {
		f := newRouterFixture(t)
		f.sources.EXPECT().ListAll(gomock.Any()).Return(nil, nil)

		rec := f.do(t, http.MethodPost, "/api/scrape", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"results":[],"failed":0}`, rec.Body.String())
	})
}

func TestRouter_Diff_NotEnoughScrapes(t *testing.T) {
	f := newRouterFixture(t)
	source := testutil.EventSource("src-1", "https://example.com")
	f.sources.EXPECT().GetByID(gomock.Any(), source.ID).Return(source, nil)
	f.jobs.EXPECT().LatestSuccessful(gomock.Any(), source.ID, 2).Return(nil, nil)

	rec := f.do(t, http.MethodGet, "/api/sources/src-1/diff", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRouter_CompareJobs_SameJob(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(t, http.MethodGet, "/api/jobs/job-1/diff/job-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_ApplyDecisions(t *testing.T) {
	accepted := uuid.NewString()
	body, err := json.Marshal(model.DecisionSet{AcceptedNew: []string{accepted}})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		f := newRouterFixture(t)
		f.decisions.EXPECT().Apply(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p core.ApplyDecisionsParams) (map[model.DecisionList]int, error) {
				assert.Equal(t, "src-1", p.SourceID)
				assert.Equal(t, []string{accepted}, p.Decisions.AcceptedNew)
				return map[model.DecisionList]int{model.DecisionAcceptedNew: 1}, nil
			})

		rec := f.do(t, http.MethodPost, "/api/sources/src-1/diff/apply", string(body))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		outcome := decodeBody[model.ApplyOutcome](t, rec)
		assert.True(t, outcome.Success)
		assert.Equal(t, 1, outcome.Updated[model.DecisionAcceptedNew])
	})

	t.Run("foreign event rolls back", func(t *testing.T) {
		f := newRouterFixture(t)
		f.decisions.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(nil, model.ErrForeignEvent)

		rec := f.do(t, http.MethodPost, "/api/sources/src-1/diff/apply", string(body))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		outcome := decodeBody[model.ApplyOutcome](t, rec)
		assert.False(t, outcome.Success)
		assert.NotEmpty(t, outcome.Error)
	})

	t.Run("invalid id", func(t *testing.T) {
		f := newRouterFixture(t)
		rec := f.do(t, http.MethodPost, "/api/sources/src-1/diff/apply", `{"accepted_new":["not-a-uuid"]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, decodeBody[model.ApplyOutcome](t, rec).Success)
	})
}

func TestRouter_DeleteEvent(t *testing.T) {
	f := newRouterFixture(t)
	f.events.EXPECT().Delete(gomock.Any(), "evt-1").Return(true, nil)
	f.events.EXPECT().Delete(gomock.Any(), "evt-2").Return(false, nil)

	rec := f.do(t, http.MethodDelete, "/api/events/evt-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/events/evt-2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_EditEvent_Validation(t *testing.T) {
	f := newRouterFixture(t)
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(model.UpdateEventRequest{EventName: " ", StartDate: "2024-05-01"}))

	rec := f.do(t, http.MethodPatch, "/api/events/evt-1", buf.String())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_ListEvents(t *testing.T) {
	t.Run("all sources with filters", func(t *testing.T) {
		f := newRouterFixture(t)
		f.events.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, opts model.EventListOptions) (*model.EventList, error) {
				assert.Empty(t, opts.SourceID)
				require.NotNil(t, opts.State)
				assert.Equal(t, model.ModerationApproved, *opts.State)
				assert.Equal(t, "market", opts.Search)
				require.NotNil(t, opts.StartFrom)
				assert.True(t, opts.StartFrom.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
				assert.Nil(t, opts.StartTo)
				assert.Equal(t, 10, opts.Limit)
				assert.Equal(t, 20, opts.Offset)
				return &model.EventList{Events: []model.EventRecord{{ID: "evt-1"}}, Total: 21}, nil
			})

		rec := f.do(t, http.MethodGet, "/api/events?status=Approved&search=market&start_from=2024-05-01&limit=10&offset=20", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decodeBody[struct {
			Events []model.EventRecord `json:"events"`
			Total  int                 `json:"total"`
		}](t, rec)
		assert.Equal(t, 21, body.Total)
		require.Len(t, body.Events, 1)
	})

	t.Run("per source", func(t *testing.T) {
		f := newRouterFixture(t)
		f.sources.EXPECT().GetByID(gomock.Any(), "src-1").Return(&model.EventSource{ID: "src-1"}, nil)
		f.events.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, opts model.EventListOptions) (*model.EventList, error) {
				assert.Equal(t, "src-1", opts.SourceID)
				return &model.EventList{Events: []model.EventRecord{}}, nil
			})

		rec := f.do(t, http.MethodGet, "/api/sources/src-1/events", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("bad filters", func(t *testing.T) {
		f := newRouterFixture(t)
		for _, q := range []string{"status=archived", "start_to=soon"} {
			rec := f.do(t, http.MethodGet, "/api/events?"+q, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		}
	})
}

func TestWriteServiceError_HidesUncodedErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}
