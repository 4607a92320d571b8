package classify

import "github.com/skillcatalog/indexer/internal/models"

func repoKey(owner, repo string) string { return owner + "/" + repo }

// RepoSkillCounts returns, for each (owner, repo) pair, the number of
// non-blocked skills sharing it.
func RepoSkillCounts(skills []*models.Skill) map[string]int {
	counts := make(map[string]int)
	for _, s := range skills {
		if s.IsBlocked {
			continue
		}
		counts[repoKey(s.Owner, s.Repo)]++
	}
	return counts
}

// ApplyRepoSkillCounts writes RepoSkillCount onto every skill row per
// non-blocked skills sharing it. Blocked rows are excluded from the count itself but
// still receive the count for their (owner, repo) so a later unblock
// doesn't leave a stale value.
func ApplyRepoSkillCounts(skills []*models.Skill) {
	counts := RepoSkillCounts(skills)
	for _, s := range skills {
		s.RepoSkillCount = counts[repoKey(s.Owner, s.Repo)]
	}
}
