// Package classify implements the batch classifier and deduper: per-repo
// skill counts, skill_type assignment, and content-hash deduplication with
// canonical selection. It runs as a pass over a full catalog
// snapshot, is pure, and is idempotent: running it twice over the same
// input yields byte-identical output.
package classify

import "github.com/skillcatalog/indexer/internal/models"

// Run applies the full classifier/deduper batch phase to skills in place:
// repo skill counts, skill_type rules (including the fork-marketplace
// upgrade, which runs last), and content-hash dedup with canonical
// selection. Blocked skills are excluded from every computation but are
// left otherwise untouched, per the "blocked records are honored forever"
// invariant enforced upstream by the catalog store.
func Run(skills []*models.Skill) {
	ApplyRepoSkillCounts(skills)
	ApplySkillTypes(skills)
	ApplyDedup(skills)
}
