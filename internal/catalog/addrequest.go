package catalog

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/skillcatalog/indexer/internal/models"
)

// CreateAddRequest persists a new add-request row. The web/API surface
// that accepts user submissions and review decisions owns status
// transitions; the core only reads rows once they reach "approved".
func (s *Store) CreateAddRequest(ctx context.Context, req *models.AddRequest) error {
	if err := s.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("catalog: create add-request: %w", err)
	}
	return nil
}

// FindUnprocessedApprovedAddRequest returns the oldest approved, not-yet
// notified add-request for owner/repo, or (nil, nil) if there is none.
// The pipeline consults this after an upsert so a claimant is notified
// exactly once, the first time their repository's skill appears.
func (s *Store) FindUnprocessedApprovedAddRequest(ctx context.Context, owner, repo string) (*models.AddRequest, error) {
	var row models.AddRequest
	err := s.db.WithContext(ctx).
		Where("owner = ? AND repo = ? AND status = ? AND processed_at IS NULL", owner, repo, models.AddRequestApproved).
		Order("created_at ASC").
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("catalog: find approved add-request: %w", err)
	}
	return &row, nil
}

// MarkAddRequestProcessed records that the claimant has been notified.
func (s *Store) MarkAddRequestProcessed(ctx context.Context, id uint) error {
	now := time.Now()
	return s.db.WithContext(ctx).Model(&models.AddRequest{}).
		Where("id = ?", id).
		Update("processed_at", &now).Error
}
