package catalog

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skillcatalog/indexer/internal/models"
)

// UpsertDiscoveredRepo records a repository a discovery strategy has seen.
// On conflict it only refreshes the strategy/branch/archived-state
// columns, leaving LastScanned and HasSkillMD untouched so a repeat
// sighting from strategy (b)/(c) does not erase strategy (e)'s scan
// progress.
func (s *Store) UpsertDiscoveredRepo(ctx context.Context, repo *models.DiscoveredRepo) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner"}, {Name: "repo"}},
		DoUpdates: clause.AssignmentColumns([]string{"discovered_via", "default_branch", "is_archived"}),
	}).Create(repo).Error
	if err != nil {
		return fmt.Errorf("catalog: upsert discovered repo: %w", err)
	}
	return nil
}

// StaleDiscoveredRepos returns repositories never scanned, or last
// scanned before cutoff, for the incremental crawl's stale-rescan pass.
func (s *Store) StaleDiscoveredRepos(ctx context.Context, cutoff time.Time) ([]models.DiscoveredRepo, error) {
	var repos []models.DiscoveredRepo
	err := s.db.WithContext(ctx).
		Where("is_archived = ?", false).
		Where("last_scanned IS NULL OR last_scanned < ?", cutoff).
		Find(&repos).Error
	if err != nil {
		return nil, fmt.Errorf("catalog: list stale discovered repos: %w", err)
	}
	return repos, nil
}

// MarkRepoScanned records that strategy (e) has walked owner/repo.
func (s *Store) MarkRepoScanned(ctx context.Context, owner, repo string, hasSkillMD bool) error {
	now := time.Now()
	err := s.db.WithContext(ctx).Model(&models.DiscoveredRepo{}).
		Where("owner = ? AND repo = ?", owner, repo).
		Updates(map[string]any{"last_scanned": &now, "has_skill_md": hasSkillMD}).Error
	if err != nil {
		return fmt.Errorf("catalog: mark repo scanned: %w", err)
	}
	return nil
}

// GetDiscoveredRepo retrieves a single discovered-repo row, returning
// (nil, nil) if absent.
func (s *Store) GetDiscoveredRepo(ctx context.Context, owner, repo string) (*models.DiscoveredRepo, error) {
	var row models.DiscoveredRepo
	err := s.db.WithContext(ctx).First(&row, "owner = ? AND repo = ?", owner, repo).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
