package jobqueue

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/skillcatalog/indexer/internal/log"
	"github.com/skillcatalog/indexer/internal/models"
)

// Scheduler enqueues the recurring crawl jobs on a cron schedule. A
// score-batch job is not scheduled here: both crawl handlers enqueue one
// themselves once their pipeline finishes, so scoring always follows a
// crawl rather than running on its own clock.
type Scheduler struct {
	cron  *cron.Cron
	queue *Queue
}

// Standard cron schedules for the two recurring crawl kinds.
const (
	FullCrawlSchedule        = "0 2 * * *" // daily at 02:00
	IncrementalCrawlSchedule = "0 * * * *" // hourly on the hour
)

// NewScheduler builds a Scheduler backed by q. It does not start running
// until Start is called.
func NewScheduler(q *Queue) *Scheduler {
	return &Scheduler{cron: cron.New(), queue: q}
}

// Start registers the full-crawl and incremental-crawl schedules and starts
// the cron loop in the background.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(FullCrawlSchedule, s.enqueueFunc(ctx, models.JobFullCrawl, FullCrawlPayload{})); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(IncrementalCrawlSchedule, s.enqueueFunc(ctx, models.JobIncrementalCrawl, IncrementalCrawlPayload{})); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the cron loop, waiting for any in-progress trigger to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) enqueueFunc(ctx context.Context, kind models.JobKind, payload any) func() {
	return func() {
		if err := s.queue.Enqueue(ctx, kind, payload); err != nil {
			log.Errorf("jobqueue: scheduler enqueue %s: %v", kind, err)
		}
	}
}
