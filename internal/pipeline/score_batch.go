package pipeline

import (
	"context"

	"github.com/skillcatalog/indexer/internal/classify"
	"github.com/skillcatalog/indexer/internal/log"
	"github.com/skillcatalog/indexer/internal/models"
	"github.com/skillcatalog/indexer/internal/quality"
)

// handleScoreBatch loads the full non-blocked catalog snapshot, runs the
// classifier/deduper pass in place, recomputes each skill's quality score
// against its own content, and persists every row. A single skill's save
// failure is logged and does not abort the rest of the batch.
func (p *Pipeline) handleScoreBatch(ctx context.Context, job *models.Job) error {
	skills, err := p.Catalog.AllSkills(ctx)
	if err != nil {
		return err
	}

	classify.Run(skills)

	for _, skill := range skills {
		in := quality.NewInput(skill.RawContent, true, 0)
		skill.QualityScore, skill.QualityDetails = quality.Score(skill, in)

		if err := p.Catalog.SaveScored(ctx, skill); err != nil {
			log.Errorf("pipeline: save scored skill %s: %v", skill.ID, err)
		}
	}

	if p.Client != nil {
		requests, cacheHits, cacheMisses := p.Client.Stats()
		log.Infof("pipeline: score-batch complete (skills=%d requests=%d cache_hits=%d cache_misses=%d)", len(skills), requests, cacheHits, cacheMisses)
		p.Client.ResetStats()
	}

	return nil
}
