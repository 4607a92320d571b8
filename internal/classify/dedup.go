package classify

import (
	"sort"

	"github.com/skillcatalog/indexer/internal/models"
)

// ApplyDedup computes content_hash for every non-blocked skill with
// content, resets is_duplicate/canonical_skill_id, then partitions by
// content_hash and ranks each partition by (github_stars desc, created_at
// asc), id ascending as the final tiebreak. Rank
// 1 in each partition becomes canonical; the rest are marked duplicates
// pointing at it.
func ApplyDedup(skills []*models.Skill) {
	partitions := make(map[string][]*models.Skill)

	for _, s := range skills {
		if s.IsBlocked {
			continue
		}
		s.IsDuplicate = false
		s.CanonicalSkillID = nil

		if s.RawContent == "" {
			continue
		}
		s.ContentHash = s.ComputeContentHash()
		partitions[s.ContentHash] = append(partitions[s.ContentHash], s)
	}

	for _, group := range partitions {
		if len(group) < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool {
			a, b := group[i], group[j]
			if a.GitHubStars != b.GitHubStars {
				return a.GitHubStars > b.GitHubStars
			}
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID < b.ID
		})

		canonical := group[0]
		for _, dup := range group[1:] {
			dup.IsDuplicate = true
			id := canonical.ID
			dup.CanonicalSkillID = &id
		}
	}
}
