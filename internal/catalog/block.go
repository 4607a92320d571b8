package catalog

import (
	"context"
	"fmt"

	"github.com/skillcatalog/indexer/internal/log"
)

// Block flips is_blocked on a skill, removes it from the search index, and
// invalidates the same caches an upsert would. A blocked record is honored
// forever: later Upsert calls against the same id abort without writing.
func (s *Store) Block(ctx context.Context, id string) error {
	skill, err := s.GetSkill(ctx, id)
	if err != nil {
		return fmt.Errorf("lookup skill to block: %w", err)
	}
	if skill == nil {
		return fmt.Errorf("catalog: skill %s not found", id)
	}
	if skill.IsBlocked {
		return nil
	}

	if err := s.db.WithContext(ctx).Model(skill).Update("is_blocked", true).Error; err != nil {
		return fmt.Errorf("block skill: %w", err)
	}
	skill.IsBlocked = true

	if err := s.index.Remove(ctx, skill.ID); err != nil {
		log.Errorf("catalog: search-index remove failed for %s: %v", skill.ID, err)
	}
	if err := s.cache.Invalidate(ctx, invalidationKeys(skill)...); err != nil {
		log.Errorf("catalog: cache invalidation failed for %s: %v", skill.ID, err)
	}

	return nil
}
