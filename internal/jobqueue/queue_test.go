package jobqueue

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skillcatalog/indexer/internal/models"
)

func newTestQueue(t *testing.T) *Queue {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	q, err := NewWithDB(gdb)
	require.NoError(t, err)
	return q
}

func TestEnqueueDequeue(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, models.JobIndexSkill, IndexSkillPayload{Candidate: models.Candidate{Owner: "o", Repo: "r"}}))

	job, err := q.Dequeue(ctx, []models.JobKind{models.JobIndexSkill})
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, models.JobRunning, job.Status)
	assert.Equal(t, 1, job.Attempts)

	payload, err := DecodePayload[IndexSkillPayload](job)
	require.NoError(t, err)
	assert.Equal(t, "o", payload.Candidate.Owner)
}

func TestDequeue_EmptyQueueReturnsNil(t *testing.T) {
	q := newTestQueue(t)
	job, err := q.Dequeue(context.Background(), []models.JobKind{models.JobFullCrawl})
	require.NoError(t, err)
	assert.Nil(t, job)
}

func TestDequeue_OnlyMatchesRequestedKinds(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, models.JobFullCrawl, FullCrawlPayload{}))

	job, err := q.Dequeue(ctx, []models.JobKind{models.JobIncrementalCrawl})
	require.NoError(t, err)
	assert.Nil(t, job)
}

func TestComplete(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, models.JobScoreBatch, ScoreBatchPayload{}))

	job, err := q.Dequeue(ctx, []models.JobKind{models.JobScoreBatch})
	require.NoError(t, err)
	require.NoError(t, q.Complete(ctx, job.ID))

	second, err := q.Dequeue(ctx, []models.JobKind{models.JobScoreBatch})
	require.NoError(t, err)
	assert.Nil(t, second, "a succeeded job must never be claimed again")
}

func TestRetry_ReschedulesWhenAttemptsRemain(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, models.JobDeepScan, DeepScanPayload{Owner: "o", Repo: "r"}))

	job, err := q.Dequeue(ctx, []models.JobKind{models.JobDeepScan})
	require.NoError(t, err)
	require.Equal(t, 1, job.Attempts)

	require.NoError(t, q.Retry(ctx, job, errors.New("transient network error")))

	var reloaded models.Job
	require.NoError(t, q.db.First(&reloaded, job.ID).Error)
	assert.Equal(t, models.JobQueued, reloaded.Status)
	assert.Equal(t, "transient network error", reloaded.LastError)
	assert.True(t, reloaded.RunAfter.After(job.RunAfter))
}

func TestRetry_FailsPermanentlyOnceAttemptsExhausted(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, models.JobDeepScan, DeepScanPayload{}))

	job, err := q.Dequeue(ctx, []models.JobKind{models.JobDeepScan})
	require.NoError(t, err)
	job.Attempts = job.MaxAttempts // simulate the last permitted attempt

	require.NoError(t, q.Retry(ctx, job, errors.New("still failing")))

	var reloaded models.Job
	require.NoError(t, q.db.First(&reloaded, job.ID).Error)
	assert.Equal(t, models.JobFailed, reloaded.Status)
}

func TestFail_MarksPermanentlyFailedImmediately(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, models.JobIndexSkill, IndexSkillPayload{}))

	job, err := q.Dequeue(ctx, []models.JobKind{models.JobIndexSkill})
	require.NoError(t, err)

	require.NoError(t, q.Fail(ctx, job, errors.New("404 not found")))

	var reloaded models.Job
	require.NoError(t, q.db.First(&reloaded, job.ID).Error)
	assert.Equal(t, models.JobFailed, reloaded.Status)
	assert.Equal(t, "404 not found", reloaded.LastError)
}

func TestPending(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, models.JobFullCrawl, FullCrawlPayload{}))

	count, err := q.Pending(ctx, models.JobFullCrawl)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = q.Pending(ctx, models.JobIncrementalCrawl)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
