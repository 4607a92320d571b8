// Package discovery implements the five segmented search strategies that
// enumerate candidate instruction-file locations, merges their results,
// and deduplicates on (owner, repo, path, format).
package discovery

import (
	"context"

	"github.com/skillcatalog/indexer/internal/models"
)

// Strategy is one independent way of finding candidate instruction files
// or repositories likely to contain them. Modeling each strategy as a
// value implementing this interface lets the engine dispatch over the
// set as a simple fan-out rather than branching on strategy kind.
type Strategy interface {
	// Name identifies the strategy for diagnostics (DiscoveredVia).
	Name() string
	// Discover runs the strategy to completion and returns what it found.
	Discover(ctx context.Context) (Result, error)
}

// Result is the union of what a strategy can produce: segmented/topic
// search strategies return Candidates directly; sweep strategies return
// Repos for the deep-tree scanner to walk later.
type Result struct {
	Candidates []models.Candidate
	Repos      []models.DiscoveredRepo
}
