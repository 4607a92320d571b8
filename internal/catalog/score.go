package catalog

import (
	"context"
	"fmt"

	"github.com/skillcatalog/indexer/internal/models"
)

// AllSkills returns every non-blocked skill, for the batch classifier and
// scorer to run over as one in-memory snapshot.
func (s *Store) AllSkills(ctx context.Context) ([]*models.Skill, error) {
	var skills []*models.Skill
	if err := s.db.WithContext(ctx).Where("is_blocked = ?", false).Find(&skills).Error; err != nil {
		return nil, fmt.Errorf("catalog: list skills: %w", err)
	}
	return skills, nil
}

// SaveScored persists a skill's classifier/scorer-derived columns
// (quality score and details, skill type, repo skill count, duplicate
// flags) after a score-batch pass, and fans out the usual side effects.
func (s *Store) SaveScored(ctx context.Context, skill *models.Skill) error {
	err := s.db.WithContext(ctx).Model(&models.Skill{}).Where("id = ?", skill.ID).Updates(map[string]any{
		"quality_score":      skill.QualityScore,
		"quality_details":    skill.QualityDetails,
		"skill_type":         skill.SkillType,
		"repo_skill_count":   skill.RepoSkillCount,
		"is_duplicate":       skill.IsDuplicate,
		"canonical_skill_id": skill.CanonicalSkillID,
	}).Error
	if err != nil {
		return fmt.Errorf("catalog: save scored skill: %w", err)
	}

	s.emitSideEffects(ctx, skill)
	return nil
}
