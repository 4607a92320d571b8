package pipeline

import (
	"context"
	"time"

	"github.com/skillcatalog/indexer/internal/discovery"
	"github.com/skillcatalog/indexer/internal/jobqueue"
	"github.com/skillcatalog/indexer/internal/log"
	"github.com/skillcatalog/indexer/internal/models"
)

// incrementalWindow is how far back the segmented/commit-sweep queries
// look on an incremental crawl, narrower than a full crawl's default.
const incrementalWindow = 2 * 24 * time.Hour

// staleAfter is how long a discovered repository can go unscanned before
// the incremental crawl re-walks it.
const staleAfter = 7 * 24 * time.Hour

// handleIncrementalCrawl runs only the segmented code-search and
// recent-commit-sweep strategies over a narrow recent window, then
// re-scans any discovered repository whose last scan has gone stale.
func (p *Pipeline) handleIncrementalCrawl(ctx context.Context, job *models.Job) error {
	commitSweep := discovery.NewCommitSweep(p.Client)
	commitSweep.RecentDays = int(incrementalWindow.Hours() / 24)

	engine := discovery.NewEngine([]discovery.Strategy{
		discovery.NewSegmentedSearch(p.Client),
		commitSweep,
	}, 2)

	result := engine.Run(ctx)
	for _, err := range result.Errs {
		log.Warnf("pipeline: incremental-crawl strategy error: %v", err)
	}

	if err := p.fanOutDiscovery(ctx, result); err != nil {
		return err
	}

	if err := p.enqueueStaleRescans(ctx); err != nil {
		return err
	}

	return p.Queue.Enqueue(ctx, models.JobScoreBatch, jobqueue.ScoreBatchPayload{})
}

func (p *Pipeline) enqueueStaleRescans(ctx context.Context) error {
	stale, err := p.Catalog.StaleDiscoveredRepos(ctx, time.Now().Add(-staleAfter))
	if err != nil {
		return err
	}
	for _, repo := range stale {
		if err := p.Queue.Enqueue(ctx, models.JobDeepScan, jobqueue.DeepScanPayload{Owner: repo.Owner, Repo: repo.Repo}); err != nil {
			log.Errorf("pipeline: enqueue stale rescan for %s: %v", repo.FullName(), err)
		}
	}
	return nil
}
