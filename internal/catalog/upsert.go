package catalog

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/skillcatalog/indexer/internal/models"
	"github.com/skillcatalog/indexer/pkg/version"
)

// ErrBlocked is returned by Upsert when the existing row for this id has
// been blocked; the caller should treat this as a skip, not a failure.
var ErrBlocked = fmt.Errorf("catalog: skill is blocked, write skipped")

// ErrVersionRegression is returned by Upsert when the candidate declares
// an older semver release than the row already on file; the caller
// should treat this the same as ErrBlocked, a skip rather than a failure.
var ErrVersionRegression = fmt.Errorf("catalog: candidate declares an older version than the stored skill")

// Upsert writes a skill record keyed on id. Honors blocked records
// (a row with is_blocked = true is never overwritten), rejects a
// candidate whose declared version is an older semver release than what
// is already stored, and no-ops when content is unchanged, unless force
// is set. On a real write it also assigns category matches and fans out
// search-index/cache side effects, best-effort.
func (s *Store) Upsert(ctx context.Context, skill *models.Skill, force bool) error {
	var existing models.Skill
	err := s.db.WithContext(ctx).First(&existing, "id = ?", skill.ID).Error
	switch {
	case err == nil:
		if existing.IsBlocked {
			return ErrBlocked
		}
		if !force && version.IsRegression(skill.Version, existing.Version) {
			return ErrVersionRegression
		}
		if existing.ContentHash == skill.ContentHash && !force {
			return nil
		}
	case err == gorm.ErrRecordNotFound:
		// first sighting, fall through to write
	default:
		return fmt.Errorf("lookup existing skill: %w", err)
	}

	skill.IndexedAt = time.Now()

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(skill).Error; err != nil {
			return fmt.Errorf("save skill: %w", err)
		}
		return assignCategories(tx, skill)
	}); err != nil {
		return err
	}

	s.emitSideEffects(ctx, skill)
	return nil
}

// assignCategories replaces a skill's category associations with the
// current keyword match set.
func assignCategories(tx *gorm.DB, skill *models.Skill) error {
	if err := tx.Where("skill_id = ?", skill.ID).Delete(&models.SkillCategory{}).Error; err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}

	slugs := MatchCategories(skill)
	if len(slugs) == 0 {
		return nil
	}

	rows := make([]models.SkillCategory, len(slugs))
	for i, slug := range slugs {
		rows[i] = models.SkillCategory{SkillID: skill.ID, CategoryID: slug}
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("assign categories: %w", err)
	}
	return nil
}
