// Package mocks provides mock implementations of the core ports for testing the scrape and diff services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	mockJobs := mocks.NewMockScrapeJobRepository(ctrl)
//	mockJobs.EXPECT().CreateRunning(gomock.Any(), sourceID).Return(job, nil)
package mocks

// Create, GetByID, List, ListAll, Update
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=event_source_repository_mock.go github.com/target/scrapediff/internal/core EventSourceRepository

// CreateRunning, Finish, GetByID, List, LatestSuccessful
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=scrape_job_repository_mock.go github.com/target/scrapediff/internal/core ScrapeJobRepository

// Create, GetByID, ListByJob, Update, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=event_record_repository_mock.go github.com/target/scrapediff/internal/core EventRecordRepository

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=decision_repository_mock.go github.com/target/scrapediff/internal/core DecisionRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=dashboard_repository_mock.go github.com/target/scrapediff/internal/core DashboardRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=reaper_repository_mock.go github.com/target/scrapediff/internal/core ReaperRepository

// SourceLocker and Extractor are the non-database ports of ScrapeService.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=source_locker_mock.go github.com/target/scrapediff/internal/core SourceLocker
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=extractor_mock.go github.com/target/scrapediff/internal/core Extractor
