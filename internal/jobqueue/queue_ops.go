package jobqueue

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skillcatalog/indexer/internal/models"
)

const (
	defaultMaxAttempts = 3
	baseBackoff        = time.Second
	maxBackoff         = 15 * time.Minute
)

// Enqueue inserts a new queued job of the given kind, runnable immediately.
func (q *Queue) Enqueue(ctx context.Context, kind models.JobKind, payload any) error {
	body, err := encodePayload(payload)
	if err != nil {
		return err
	}
	job := &models.Job{
		Kind:        kind,
		Status:      models.JobQueued,
		Payload:     body,
		MaxAttempts: defaultMaxAttempts,
		RunAfter:    time.Now(),
	}
	return q.db.WithContext(ctx).Create(job).Error
}

// Dequeue claims the oldest runnable job of one of the given kinds, locking
// its row with SELECT ... FOR UPDATE SKIP LOCKED so a concurrent worker
// polling the same kind cannot claim it too. It returns (nil, nil) when no
// job is ready.
func (q *Queue) Dequeue(ctx context.Context, kinds []models.JobKind) (*models.Job, error) {
	var job models.Job
	err := q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if q.supportsRowLocking() {
			tx = tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		}
		err := tx.
			Where("kind IN ? AND status = ? AND run_after <= ?", kinds, models.JobQueued, time.Now()).
			Order("run_after ASC").
			Limit(1).
			Take(&job).Error
		if err != nil {
			return err
		}

		now := time.Now()
		job.Status = models.JobRunning
		job.LockedAt = &now
		job.Attempts++
		return tx.Save(&job).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// Complete marks job succeeded.
func (q *Queue) Complete(ctx context.Context, id uint) error {
	return q.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": models.JobSucceeded}).Error
}

// Retry records cause and, if job has attempts remaining, reschedules it
// after an exponential backoff; otherwise it marks the job permanently
// failed.
func (q *Queue) Retry(ctx context.Context, job *models.Job, cause error) error {
	updates := map[string]any{"last_error": cause.Error()}
	if job.Attempts >= job.MaxAttempts {
		updates["status"] = models.JobFailed
	} else {
		updates["status"] = models.JobQueued
		updates["run_after"] = time.Now().Add(backoff(job.Attempts))
	}
	return q.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", job.ID).
		Updates(updates).Error
}

// Fail marks job permanently failed without scheduling another attempt, for
// errors the handler classified as non-retryable via Permanent.
func (q *Queue) Fail(ctx context.Context, job *models.Job, cause error) error {
	return q.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", job.ID).
		Updates(map[string]any{"status": models.JobFailed, "last_error": cause.Error()}).Error
}

// Pending counts queued-or-running jobs of the given kind, used by callers
// that want to avoid piling up redundant crawl jobs.
func (q *Queue) Pending(ctx context.Context, kind models.JobKind) (int64, error) {
	var count int64
	err := q.db.WithContext(ctx).Model(&models.Job{}).
		Where("kind = ? AND status IN ?", kind, []models.JobStatus{models.JobQueued, models.JobRunning}).
		Count(&count).Error
	return count, err
}

// supportsRowLocking reports whether the underlying dialect understands
// SELECT ... FOR UPDATE SKIP LOCKED. SQLite, used only in tests, does not;
// Postgres, used in production, does.
func (q *Queue) supportsRowLocking() bool {
	return q.db.Dialector.Name() == "postgres"
}

func backoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	d := baseBackoff << uint(attempts)
	if d > maxBackoff || d <= 0 {
		return maxBackoff
	}
	return d
}
