// Package jobqueue is the durable work queue the crawl and indexing
// pipeline runs on. Jobs are typed by kind (full-crawl, incremental-crawl,
// deep-scan, index-skill, score-batch), persisted in Postgres, and claimed
// with SELECT ... FOR UPDATE SKIP LOCKED so that multiple worker processes
// never pick up the same row. Each kind gets its own bounded concurrency
// limit and its own retry policy: transient failures are retried with
// exponential backoff up to a job's MaxAttempts, permanent failures are
// recorded and dropped.
package jobqueue

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/skillcatalog/indexer/internal/models"
)

// Queue wraps the GORM connection backing the jobs table.
type Queue struct {
	db *gorm.DB
}

// Config holds queue construction options.
type Config struct {
	DSN   string
	Debug bool
}

// New opens the Postgres connection and runs auto-migrations.
func New(cfg Config) (*Queue, error) {
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	q := &Queue{db: db}
	if err := q.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return q, nil
}

// NewWithDB wraps an already-open GORM connection (used by tests against an
// in-memory SQLite database).
func NewWithDB(db *gorm.DB) (*Queue, error) {
	q := &Queue{db: db}
	if err := q.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return q, nil
}

func (q *Queue) migrate() error {
	return q.db.AutoMigrate(&models.Job{})
}

// Close releases the underlying connection.
func (q *Queue) Close() error {
	sqlDB, err := q.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func encodePayload(payload any) (string, error) {
	if payload == nil {
		return "{}", nil
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("jobqueue: encode payload: %w", err)
	}
	return string(buf), nil
}

// DecodePayload unmarshals job's payload into a value of type T.
func DecodePayload[T any](job *models.Job) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(job.Payload), &v); err != nil {
		return v, fmt.Errorf("jobqueue: decode payload for job %d: %w", job.ID, err)
	}
	return v, nil
}

// Context key shared by callers that need the originating job's id inside a
// handler for logging.
type ctxKey struct{}

func withJobID(ctx context.Context, id uint) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// JobID extracts the id of the job currently being handled, if any.
func JobID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(ctxKey{}).(uint)
	return id, ok
}
