package jobqueue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillcatalog/indexer/internal/models"
)

// runBriefly runs w until timeout elapses, long enough for one poll cycle
// to claim and process the single enqueued job but short enough to keep
// the test fast.
func runBriefly(w *Worker, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	w.Run(ctx)
}

func TestWorker_RunsHandlerAndCompletesJob(t *testing.T) {
	q := newTestQueue(t)
	require.NoError(t, q.Enqueue(context.Background(), models.JobScoreBatch, ScoreBatchPayload{}))

	var handled bool
	w := NewWorker(q)
	w.SetPollInterval(5 * time.Millisecond)
	w.Handle(models.JobScoreBatch, func(ctx context.Context, job *models.Job) error {
		handled = true
		return nil
	})

	runBriefly(w, 100*time.Millisecond)

	assert.True(t, handled)

	var job models.Job
	require.NoError(t, q.db.First(&job).Error)
	assert.Equal(t, models.JobSucceeded, job.Status)
}

func TestWorker_PermanentFailureDropsJob(t *testing.T) {
	q := newTestQueue(t)
	require.NoError(t, q.Enqueue(context.Background(), models.JobIndexSkill, IndexSkillPayload{}))

	w := NewWorker(q)
	w.SetPollInterval(5 * time.Millisecond)
	w.Handle(models.JobIndexSkill, func(ctx context.Context, job *models.Job) error {
		return Permanent(errors.New("malformed content"))
	})

	runBriefly(w, 100*time.Millisecond)

	var job models.Job
	require.NoError(t, q.db.First(&job).Error)
	assert.Equal(t, models.JobFailed, job.Status)
	assert.Equal(t, "malformed content", job.LastError)
}

func TestWorker_TransientFailureReschedules(t *testing.T) {
	q := newTestQueue(t)
	require.NoError(t, q.Enqueue(context.Background(), models.JobDeepScan, DeepScanPayload{}))

	w := NewWorker(q)
	w.SetPollInterval(5 * time.Millisecond)
	w.Handle(models.JobDeepScan, func(ctx context.Context, job *models.Job) error {
		return errors.New("rate limited")
	})

	runBriefly(w, 100*time.Millisecond)

	var job models.Job
	require.NoError(t, q.db.First(&job).Error)
	assert.Equal(t, models.JobQueued, job.Status)
	assert.Equal(t, "rate limited", job.LastError)
	assert.True(t, job.RunAfter.After(time.Now()), "expected the retry to be scheduled in the future")
}
