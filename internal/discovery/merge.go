package discovery

import "github.com/skillcatalog/indexer/internal/models"

// MergeCandidates deduplicates candidates from concurrent strategies on
// (owner, repo, path, format), first occurrence wins. Merging a set with
// itself yields the same set (idempotence), and the result is independent
// of the input order strategies complete in, since ties are broken purely
// by first appearance in the slice the caller assembles.
func MergeCandidates(batches ...[]models.Candidate) []models.Candidate {
	seen := make(map[string]bool)
	var out []models.Candidate
	for _, batch := range batches {
		for _, c := range batch {
			key := c.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, c)
		}
	}
	return out
}

// MergeRepos deduplicates discovered-repo sightings on (owner, repo),
// first occurrence wins; DiscoveredVia of the first sighting is kept.
func MergeRepos(batches ...[]models.DiscoveredRepo) []models.DiscoveredRepo {
	seen := make(map[string]bool)
	var out []models.DiscoveredRepo
	for _, batch := range batches {
		for _, r := range batch {
			key := r.FullName()
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, r)
		}
	}
	return out
}
