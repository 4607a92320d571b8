package jobqueue

import (
	"context"
	"sync"
	"time"

	"github.com/skillcatalog/indexer/internal/log"
	"github.com/skillcatalog/indexer/internal/models"
)

// Handler runs the work for one job. A nil return marks the job succeeded;
// an error wrapped with Permanent marks it permanently failed; any other
// error schedules a backoff retry.
type Handler func(ctx context.Context, job *models.Job) error

// defaultConcurrency mirrors the typical load each kind puts on GitHub's
// API and the database: index-skill and deep-scan run several at once,
// full-crawl and incremental-crawl run one at a time so their discovery
// passes don't race each other.
func defaultConcurrency() map[models.JobKind]int {
	return map[models.JobKind]int{
		models.JobFullCrawl:        1,
		models.JobIncrementalCrawl: 1,
		models.JobDeepScan:         3,
		models.JobIndexSkill:       3,
		models.JobScoreBatch:       1,
	}
}

// Worker polls the queue for each registered job kind and dispatches claimed
// jobs to its handler, bounded by a per-kind concurrency limit.
type Worker struct {
	queue        *Queue
	handlers     map[models.JobKind]Handler
	concurrency  map[models.JobKind]int
	pollInterval time.Duration
}

// NewWorker builds a Worker with the default per-kind concurrency limits and
// a 2s poll interval.
func NewWorker(q *Queue) *Worker {
	return &Worker{
		queue:        q,
		handlers:     make(map[models.JobKind]Handler),
		concurrency:  defaultConcurrency(),
		pollInterval: 2 * time.Second,
	}
}

// Handle registers the handler that runs jobs of kind.
func (w *Worker) Handle(kind models.JobKind, h Handler) {
	w.handlers[kind] = h
}

// SetConcurrency overrides the default concurrency limit for kind.
func (w *Worker) SetConcurrency(kind models.JobKind, n int) {
	w.concurrency[kind] = n
}

// SetPollInterval overrides the default poll interval.
func (w *Worker) SetPollInterval(d time.Duration) {
	w.pollInterval = d
}

// Run starts one poll loop per registered job kind and blocks until ctx is
// cancelled and every in-flight job has returned.
func (w *Worker) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for kind, handler := range w.handlers {
		wg.Add(1)
		go func(kind models.JobKind, handler Handler) {
			defer wg.Done()
			w.runKind(ctx, kind, handler)
		}(kind, handler)
	}
	wg.Wait()
}

func (w *Worker) runKind(ctx context.Context, kind models.JobKind, handler Handler) {
	limit := w.concurrency[kind]
	if limit <= 0 {
		limit = 1
	}
	sem := make(chan struct{}, limit)
	var inFlight sync.WaitGroup

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			inFlight.Wait()
			return
		case <-ticker.C:
			for len(sem) < cap(sem) {
				job, err := w.queue.Dequeue(ctx, []models.JobKind{kind})
				if err != nil {
					log.Errorf("jobqueue: dequeue %s: %v", kind, err)
					break
				}
				if job == nil {
					break
				}

				sem <- struct{}{}
				inFlight.Add(1)
				go func(job *models.Job) {
					defer inFlight.Done()
					defer func() { <-sem }()
					w.process(ctx, job, handler)
				}(job)
			}
		}
	}
}

func (w *Worker) process(ctx context.Context, job *models.Job, handler Handler) {
	jobCtx := withJobID(ctx, job.ID)
	err := handler(jobCtx, job)
	if err == nil {
		if cerr := w.queue.Complete(ctx, job.ID); cerr != nil {
			log.Errorf("jobqueue: complete job %d: %v", job.ID, cerr)
		}
		return
	}

	if IsPermanent(err) {
		if ferr := w.queue.Fail(ctx, job, err); ferr != nil {
			log.Errorf("jobqueue: fail job %d: %v", job.ID, ferr)
		}
		log.Warnf("jobqueue: job %d (%s) permanently failed: %v", job.ID, job.Kind, err)
		return
	}

	if rerr := w.queue.Retry(ctx, job, err); rerr != nil {
		log.Errorf("jobqueue: retry job %d: %v", job.ID, rerr)
	}
}
