package pipeline

import (
	"context"

	"github.com/skillcatalog/indexer/internal/discovery"
	"github.com/skillcatalog/indexer/internal/jobqueue"
	"github.com/skillcatalog/indexer/internal/log"
	"github.com/skillcatalog/indexer/internal/models"
)

// fullCrawlConcurrency bounds how many of the four discovery strategies
// run at once; all four are independent network-bound scans.
const fullCrawlConcurrency = 4

// handleFullCrawl runs every discovery strategy (segmented code search,
// topic search, popular-repo sweep, recent-commit sweep), fans the
// results out into deep-scan and index-skill jobs, and schedules a
// score-batch once the fan-out is queued.
func (p *Pipeline) handleFullCrawl(ctx context.Context, job *models.Job) error {
	engine := discovery.NewEngine([]discovery.Strategy{
		discovery.NewSegmentedSearch(p.Client),
		discovery.NewTopicSearch(p.Client),
		discovery.NewPopularSweep(p.Client, p.MinStars),
		discovery.NewCommitSweep(p.Client),
	}, fullCrawlConcurrency)

	result := engine.Run(ctx)
	for _, err := range result.Errs {
		log.Warnf("pipeline: full-crawl strategy error: %v", err)
	}

	if err := p.fanOutDiscovery(ctx, result); err != nil {
		return err
	}
	return p.Queue.Enqueue(ctx, models.JobScoreBatch, jobqueue.ScoreBatchPayload{})
}

// fanOutDiscovery persists newly discovered repositories and enqueues the
// deep-scan and index-skill jobs a discovery pass's output implies.
func (p *Pipeline) fanOutDiscovery(ctx context.Context, result discovery.EngineResult) error {
	for _, repo := range result.Repos {
		r := repo
		if err := p.Catalog.UpsertDiscoveredRepo(ctx, &r); err != nil {
			log.Errorf("pipeline: upsert discovered repo %s: %v", r.FullName(), err)
			continue
		}
		if err := p.Queue.Enqueue(ctx, models.JobDeepScan, jobqueue.DeepScanPayload{Owner: r.Owner, Repo: r.Repo}); err != nil {
			log.Errorf("pipeline: enqueue deep-scan for %s: %v", r.FullName(), err)
		}
	}

	for _, candidate := range result.Candidates {
		if err := p.Queue.Enqueue(ctx, models.JobIndexSkill, jobqueue.IndexSkillPayload{Candidate: candidate}); err != nil {
			log.Errorf("pipeline: enqueue index-skill for %s: %v", candidate.Key(), err)
		}
	}
	return nil
}
