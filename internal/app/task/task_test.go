package task

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/anzhiyu-c/boganto-blog/internal/pkg/metrics"
	"github.com/anzhiyu-c/boganto-blog/pkg/domain/model"
	"github.com/anzhiyu-c/boganto-blog/pkg/service/session"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionSweepJob_RemovesExpired(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	now := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Set(ctx, "old", &model.Session{Username: "admin", ExpiresAt: now.Add(-time.Minute)}, time.Hour))
	require.NoError(t, store.Set(ctx, "fresh", &model.Session{Username: "admin", ExpiresAt: now.Add(time.Hour)}, time.Hour))

	job := NewSessionSweepJob(store)
	job.now = func() time.Time { return now }

	before := testutil.ToFloat64(metrics.SessionsSweptTotal)
	job.Run()

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.SessionsSweptTotal))
	sess, err := store.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, "admin", sess.Username)
	gone, err := store.Get(ctx, "old")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestScheduler_RegisterJobs(t *testing.T) {
	s := NewScheduler(session.NewMemoryStore())
	require.NoError(t, s.RegisterJobs())
	assert.Equal(t, []string{"SessionSweepJob"}, s.Registered())

	empty := NewScheduler(nil)
	require.NoError(t, empty.RegisterJobs())
	assert.Empty(t, empty.Registered())
}

type panicJob struct{}

func (panicJob) Run()         { panic("boom") }
func (panicJob) Name() string { return "PanicJob" }

func TestWrappers(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	wrapped := cron.NewChain(NewPanicRecoveryWrapper(logger), NewLoggingWrapper(logger)).Then(panicJob{})
	assert.NotPanics(t, wrapped.Run)
	assert.Contains(t, buf.String(), "Job panicked")
	assert.Contains(t, buf.String(), "job_name=PanicJob")

	buf.Reset()
	ran := false
	ok := cron.NewChain(NewLoggingWrapper(logger)).Then(cron.FuncJob(func() { ran = true }))
	ok.Run()
	assert.True(t, ran)
	assert.Contains(t, buf.String(), "Job execution finished")
	assert.Contains(t, buf.String(), "execution_id=")
}
