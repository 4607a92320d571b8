package pipeline

import (
	"context"

	"github.com/skillcatalog/indexer/internal/discovery"
	"github.com/skillcatalog/indexer/internal/jobqueue"
	"github.com/skillcatalog/indexer/internal/log"
	"github.com/skillcatalog/indexer/internal/models"
)

// handleDeepScan walks one repository's tree for instruction files,
// enqueues an index-skill job per candidate found, and records the scan.
func (p *Pipeline) handleDeepScan(ctx context.Context, job *models.Job) error {
	payload, err := jobqueue.DecodePayload[jobqueue.DeepScanPayload](job)
	if err != nil {
		return jobqueue.Permanent(err)
	}

	scanner := discovery.NewDeepScan(p.Client)
	candidates, err := scanner.ScanRepo(ctx, payload.Owner, payload.Repo)
	if err != nil {
		return err
	}

	for _, candidate := range candidates {
		if err := p.Queue.Enqueue(ctx, models.JobIndexSkill, jobqueue.IndexSkillPayload{Candidate: candidate}); err != nil {
			log.Errorf("pipeline: enqueue index-skill for %s: %v", candidate.Key(), err)
		}
	}

	if err := p.Catalog.MarkRepoScanned(ctx, payload.Owner, payload.Repo, len(candidates) > 0); err != nil {
		log.Errorf("pipeline: mark repo scanned %s/%s: %v", payload.Owner, payload.Repo, err)
	}

	return nil
}
