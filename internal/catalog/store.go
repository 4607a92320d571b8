// Package catalog is the persistent skill store: idempotent upserts honoring
// blocked records and unchanged content, a block operation, and the static
// keyword-taxonomy categorizer. It owns the relational schema (Postgres in
// production, an in-memory SQLite database in tests) and fans out search-index
// and cache side effects after a successful write.
package catalog

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/skillcatalog/indexer/internal/cache"
	"github.com/skillcatalog/indexer/internal/log"
	"github.com/skillcatalog/indexer/internal/models"
	"github.com/skillcatalog/indexer/internal/searchindex"
)

// Store wraps the GORM connection with catalog-specific operations.
type Store struct {
	db    *gorm.DB
	cache cache.Cache
	index searchindex.Index
}

// Config holds store construction options. Cache and Index may be left nil,
// in which case Store falls back to cache.NoOp/searchindex.NoOp.
type Config struct {
	DSN   string
	Debug bool
	Cache cache.Cache
	Index searchindex.Index
}

// New opens the Postgres connection, runs auto-migrations, and seeds the
// static category taxonomy.
func New(cfg Config) (*Store, error) {
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db, cache: cfg.Cache, index: cfg.Index}
	if store.cache == nil {
		store.cache = cache.NoOp{}
	}
	if store.index == nil {
		store.index = searchindex.NoOp{}
	}

	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := store.seedCategories(); err != nil {
		return nil, fmt.Errorf("seed categories: %w", err)
	}

	return store, nil
}

// NewWithDB wraps an already-open GORM connection (used by tests against an
// in-memory SQLite database).
func NewWithDB(db *gorm.DB, c cache.Cache, idx searchindex.Index) (*Store, error) {
	store := &Store{db: db, cache: c, index: idx}
	if store.cache == nil {
		store.cache = cache.NoOp{}
	}
	if store.index == nil {
		store.index = searchindex.NoOp{}
	}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := store.seedCategories(); err != nil {
		return nil, fmt.Errorf("seed categories: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	return s.db.AutoMigrate(
		&models.Skill{},
		&models.DiscoveredRepo{},
		&models.Category{},
		&models.SkillCategory{},
		&models.AddRequest{},
		&models.RemovalRequest{},
	)
}

func (s *Store) seedCategories() error {
	for _, category := range AllCategories() {
		if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&category).Error; err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetSkill retrieves a skill by id, returning (nil, nil) if absent.
func (s *Store) GetSkill(ctx context.Context, id string) (*models.Skill, error) {
	var skill models.Skill
	err := s.db.WithContext(ctx).First(&skill, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &skill, nil
}

func invalidationKeys(skill *models.Skill) []string {
	keys := []string{
		"skill:" + skill.ID,
		"owner:" + skill.Owner,
		"list:featured",
		"list:recent",
	}
	for _, slug := range MatchCategories(skill) {
		keys = append(keys, "category:"+slug)
	}
	return keys
}

func (s *Store) emitSideEffects(ctx context.Context, skill *models.Skill) {
	doc := searchindex.Document{
		ID:              skill.ID,
		Name:            skill.Name,
		Description:     skill.Description,
		Owner:           skill.Owner,
		Repo:            skill.Repo,
		Compatibility:   skill.Compatibility.Platforms,
		GitHubStars:     skill.GitHubStars,
		SecurityScore:   skill.SecurityScore,
		IndexedAtUnixMs: skill.IndexedAt.UnixMilli(),
	}
	if err := s.index.Upsert(ctx, doc); err != nil {
		log.Errorf("catalog: search-index upsert failed for %s: %v", skill.ID, err)
	}
	if err := s.cache.Invalidate(ctx, invalidationKeys(skill)...); err != nil {
		log.Errorf("catalog: cache invalidation failed for %s: %v", skill.ID, err)
	}
}
