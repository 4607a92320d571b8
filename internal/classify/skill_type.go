package classify

import (
	"regexp"

	"github.com/skillcatalog/indexer/internal/models"
)

// aggregatorNamePattern and projectBoundNamePattern are the repo-name
// matchers used by the skill_type rules.
var (
	aggregatorNamePattern   = regexp.MustCompile(`(?i)marketplace|awesome|collection|registry`)
	projectBoundNamePattern = regexp.MustCompile(`(?i)my-|project|team|internal|\.mdc|cursorrule|config|setup`)
)

// forkMarketplaceMinSkills and forkMarketplaceMinOwners are the thresholds
// for the fork-marketplace pattern: the same repo name forked across many
// owners, each hosting a handful of skills, that in aggregate behaves like
// a single large aggregator.
const (
	forkMarketplaceMinSkills = 20
	forkMarketplaceMinOwners = 3
)

// ApplySkillTypes assigns skill_type to every non-blocked skill per the
// skill_type rules, applying the repo_skill_count-based rules first and
// the fork-marketplace override last (it can only ever upgrade a skill to
// aggregator, never downgrade one).
//
// ApplyRepoSkillCounts must have already run so RepoSkillCount is current.
func ApplySkillTypes(skills []*models.Skill) {
	for _, s := range skills {
		if s.IsBlocked {
			continue
		}
		s.SkillType = baseSkillType(s)
	}
	applyForkMarketplacePattern(skills)
}

func baseSkillType(s *models.Skill) models.SkillType {
	count := s.RepoSkillCount
	switch {
	case count >= 50:
		return models.SkillTypeAggregator
	case count >= 10 && aggregatorNamePattern.MatchString(s.Repo):
		return models.SkillTypeAggregator
	case count >= 3:
		return models.SkillTypeCollection
	case count <= 2 && projectBoundNamePattern.MatchString(s.Repo):
		return models.SkillTypeProjectBound
	default:
		return models.SkillTypeStandalone
	}
}

// applyForkMarketplacePattern upgrades every skill belonging to a repo name
// that, summed across distinct owners, hosts at least forkMarketplaceMinSkills
// non-blocked skills spread over at least forkMarketplaceMinOwners owners.
func applyForkMarketplacePattern(skills []*models.Skill) {
	type group struct {
		owners map[string]bool
		count  int
	}
	groups := make(map[string]*group)

	for _, s := range skills {
		if s.IsBlocked {
			continue
		}
		g, ok := groups[s.Repo]
		if !ok {
			g = &group{owners: make(map[string]bool)}
			groups[s.Repo] = g
		}
		g.owners[s.Owner] = true
		g.count++
	}

	qualifies := make(map[string]bool)
	for name, g := range groups {
		if g.count >= forkMarketplaceMinSkills && len(g.owners) >= forkMarketplaceMinOwners {
			qualifies[name] = true
		}
	}

	for _, s := range skills {
		if s.IsBlocked {
			continue
		}
		if qualifies[s.Repo] {
			s.SkillType = models.SkillTypeAggregator
		}
	}
}
