package discovery

import (
	"context"
	"sync"

	"github.com/skillcatalog/indexer/internal/models"
)

// EngineResult is the merged, deduplicated output of a full discovery run.
type EngineResult struct {
	Candidates []models.Candidate
	Repos      []models.DiscoveredRepo
	Errs       []error
}

// Engine fans out over the registered strategies, collecting their
// results as they complete and merging/deduplicating at the end. Modeled
// after ScrapeSeedsWithOptions: a bounded semaphore plus a
// WaitGroup, context checked both before and after acquiring a slot.
type Engine struct {
	Strategies     []Strategy
	MaxConcurrency int
}

// NewEngine builds an engine over the standard five strategies.
func NewEngine(strategies []Strategy, maxConcurrency int) *Engine {
	if maxConcurrency <= 0 {
		maxConcurrency = 5
	}
	return &Engine{Strategies: strategies, MaxConcurrency: maxConcurrency}
}

// Run executes every strategy concurrently (bounded) and merges results.
// Discovery results from concurrent strategies are collected in whatever
// order they complete; the final dedup makes output order-independent.
func (e *Engine) Run(ctx context.Context) EngineResult {
	type outcome struct {
		result Result
		err    error
	}

	sem := make(chan struct{}, e.MaxConcurrency)
	outcomes := make(chan outcome, len(e.Strategies))
	var wg sync.WaitGroup

	for _, strat := range e.Strategies {
		wg.Add(1)
		go func(s Strategy) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				outcomes <- outcome{err: ctx.Err()}
				return
			case sem <- struct{}{}:
				defer func() { <-sem }()
			}

			select {
			case <-ctx.Done():
				outcomes <- outcome{err: ctx.Err()}
				return
			default:
			}

			res, err := s.Discover(ctx)
			outcomes <- outcome{result: res, err: err}
		}(strat)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var candidateBatches [][]models.Candidate
	var repoBatches [][]models.DiscoveredRepo
	var errs []error
	for o := range outcomes {
		if o.err != nil {
			errs = append(errs, o.err)
		}
		if len(o.result.Candidates) > 0 {
			candidateBatches = append(candidateBatches, o.result.Candidates)
		}
		if len(o.result.Repos) > 0 {
			repoBatches = append(repoBatches, o.result.Repos)
		}
	}

	return EngineResult{
		Candidates: MergeCandidates(candidateBatches...),
		Repos:      MergeRepos(repoBatches...),
		Errs:       errs,
	}
}
