package reaper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/scrapediff/config"
	"github.com/target/scrapediff/internal/core"
	"github.com/target/scrapediff/internal/mocks"
	"github.com/target/scrapediff/internal/service"
)

func TestNewRunner_RequiresDBOrRepo(t *testing.T) {
	_, err := NewRunner(RunnerOptions{Config: config.ReaperConfig{Interval: time.Minute}})
	require.Error(t, err)
}

func TestRunner_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockReaperRepository(ctrl)

	ran := make(chan core.FailStaleRunningParams, 1)
	repo.EXPECT().FailStaleRunningJobs(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p core.FailStaleRunningParams) (int64, error) {
			select {
			case ran <- p:
			default:
			}
			return 0, nil
		}).MinTimes(1)

	r, err := NewRunner(RunnerOptions{
		Repo:   repo,
		Config: config.ReaperConfig{Interval: 50 * time.Millisecond, RunningMaxAge: 30 * time.Minute, BatchSize: 10},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case p := <-ran:
		assert.Equal(t, service.AbandonedScrapeMessage, p.Message)
		assert.Equal(t, 30*time.Minute, p.MaxAge)
	case <-time.After(2 * time.Second):
		cancel()
		t.Fatal("reaper never ran")
	}

	cancel()
	require.NoError(t, <-done)
}
