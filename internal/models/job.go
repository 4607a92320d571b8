package models

import "time"

// JobKind enumerates the durable work-queue job types.
type JobKind string

const (
	JobFullCrawl        JobKind = "full-crawl"
	JobIncrementalCrawl JobKind = "incremental-crawl"
	JobIndexSkill       JobKind = "index-skill"
	JobDeepScan         JobKind = "deep-scan"
	JobScoreBatch       JobKind = "score-batch"
)

// JobStatus is the lifecycle state of a queued job.
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// Job is a typed record placed on the durable work queue (internal/jobqueue).
// Payload is a JSON-encoded argument specific to Kind (e.g. a Candidate for
// index-skill, an owner/repo pair for deep-scan).
type Job struct {
	ID      uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Kind    JobKind   `gorm:"size:30;index" json:"kind"`
	Status  JobStatus `gorm:"size:20;index" json:"status"`
	Payload string    `gorm:"type:text" json:"payload"`

	Attempts    int       `gorm:"default:0" json:"attempts"`
	MaxAttempts int       `gorm:"default:3" json:"max_attempts"`
	LastError   string    `gorm:"size:2000" json:"last_error"`
	RunAfter    time.Time `gorm:"index" json:"run_after"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LockedAt  *time.Time `json:"locked_at"`
}

// TableName specifies the table name for GORM.
func (Job) TableName() string { return "jobs" }

// Terminal reports whether the job has reached a final state.
func (j Job) Terminal() bool {
	return j.Status == JobSucceeded || j.Status == JobFailed
}
