package catalog

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skillcatalog/indexer/internal/models"
	"github.com/skillcatalog/indexer/internal/searchindex"
)

type fakeCache struct {
	invalidated [][]string
}

func (f *fakeCache) Invalidate(ctx context.Context, keys ...string) error {
	f.invalidated = append(f.invalidated, keys)
	return nil
}
func (f *fakeCache) Close() error { return nil }

type fakeIndex struct {
	upserted []string
	removed  []string
}

func (f *fakeIndex) Upsert(ctx context.Context, doc searchindex.Document) error {
	f.upserted = append(f.upserted, doc.ID)
	return nil
}
func (f *fakeIndex) Remove(ctx context.Context, id string) error {
	f.removed = append(f.removed, id)
	return nil
}

func newTestStore(t *testing.T) (*Store, *fakeCache, *fakeIndex) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	c := &fakeCache{}
	idx := &fakeIndex{}
	store, err := NewWithDB(gdb, c, idx)
	require.NoError(t, err)
	return store, c, idx
}

func TestUpsert_CreatesNewSkill(t *testing.T) {
	store, _, idx := newTestStore(t)
	ctx := context.Background()

	skill := &models.Skill{ID: "o/r/skill", Owner: "o", Repo: "r", Name: "skill", RawContent: "hello"}
	skill.ContentHash = skill.ComputeContentHash()

	err := store.Upsert(ctx, skill, false)
	require.NoError(t, err)

	got, err := store.GetSkill(ctx, skill.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.IndexedAt.IsZero())
	assert.Contains(t, idx.upserted, skill.ID)
}

func TestUpsert_NoOpWhenContentHashUnchanged(t *testing.T) {
	store, _, idx := newTestStore(t)
	ctx := context.Background()

	skill := &models.Skill{ID: "o/r/skill", Owner: "o", Repo: "r", RawContent: "hello"}
	skill.ContentHash = skill.ComputeContentHash()
	require.NoError(t, store.Upsert(ctx, skill, false))
	firstIndexedAt := skill.IndexedAt

	idx.upserted = nil
	skill2 := &models.Skill{ID: "o/r/skill", Owner: "o", Repo: "r", RawContent: "hello", Description: "changed but same hash scenario"}
	skill2.ContentHash = skill.ContentHash

	require.NoError(t, store.Upsert(ctx, skill2, false))

	got, err := store.GetSkill(ctx, skill.ID)
	require.NoError(t, err)
	assert.Equal(t, firstIndexedAt.Unix(), got.IndexedAt.Unix())
	assert.Empty(t, idx.upserted, "expected no search-index side effect on a no-op upsert")
}

func TestUpsert_ForceOverridesNoOp(t *testing.T) {
	store, _, idx := newTestStore(t)
	ctx := context.Background()

	skill := &models.Skill{ID: "o/r/skill", Owner: "o", Repo: "r", RawContent: "hello"}
	skill.ContentHash = skill.ComputeContentHash()
	require.NoError(t, store.Upsert(ctx, skill, false))

	idx.upserted = nil
	skill2 := &models.Skill{ID: "o/r/skill", Owner: "o", Repo: "r", RawContent: "hello", Description: "forced update"}
	skill2.ContentHash = skill.ContentHash

	require.NoError(t, store.Upsert(ctx, skill2, true))

	got, err := store.GetSkill(ctx, skill.ID)
	require.NoError(t, err)
	assert.Equal(t, "forced update", got.Description)
	assert.Contains(t, idx.upserted, skill.ID)
}

func TestUpsert_HonorsBlockedRecordForever(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	skill := &models.Skill{ID: "o/r/skill", Owner: "o", Repo: "r", RawContent: "hello"}
	skill.ContentHash = skill.ComputeContentHash()
	require.NoError(t, store.Upsert(ctx, skill, false))
	require.NoError(t, store.Block(ctx, skill.ID))

	skill2 := &models.Skill{ID: "o/r/skill", Owner: "o", Repo: "r", RawContent: "completely different content"}
	skill2.ContentHash = skill2.ComputeContentHash()

	err := store.Upsert(ctx, skill2, true)
	assert.ErrorIs(t, err, ErrBlocked)

	got, err := store.GetSkill(ctx, skill.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.RawContent, "expected blocked row to remain untouched")
}

func TestUpsert_AssignsCategories(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	skill := &models.Skill{
		ID:         "o/r/skill",
		Owner:      "o",
		Repo:       "r",
		Name:       "python-testing-helper",
		RawContent: "x",
	}
	skill.ContentHash = skill.ComputeContentHash()
	require.NoError(t, store.Upsert(ctx, skill, false))

	var count int64
	require.NoError(t, store.db.Model(&models.SkillCategory{}).Where("skill_id = ?", skill.ID).Count(&count).Error)
	assert.Greater(t, count, int64(0))
}

func TestBlock_RemovesFromIndexAndInvalidatesCache(t *testing.T) {
	store, c, idx := newTestStore(t)
	ctx := context.Background()

	skill := &models.Skill{ID: "o/r/skill", Owner: "o", Repo: "r", RawContent: "hello"}
	skill.ContentHash = skill.ComputeContentHash()
	require.NoError(t, store.Upsert(ctx, skill, false))

	require.NoError(t, store.Block(ctx, skill.ID))

	got, err := store.GetSkill(ctx, skill.ID)
	require.NoError(t, err)
	assert.True(t, got.IsBlocked)
	assert.Contains(t, idx.removed, skill.ID)
	assert.NotEmpty(t, c.invalidated)
}

func TestBlock_IdempotentOnAlreadyBlocked(t *testing.T) {
	store, _, idx := newTestStore(t)
	ctx := context.Background()

	skill := &models.Skill{ID: "o/r/skill", Owner: "o", Repo: "r", RawContent: "hello"}
	skill.ContentHash = skill.ComputeContentHash()
	require.NoError(t, store.Upsert(ctx, skill, false))
	require.NoError(t, store.Block(ctx, skill.ID))

	idx.removed = nil
	require.NoError(t, store.Block(ctx, skill.ID))
	assert.Empty(t, idx.removed, "expected a second block of an already-blocked skill to be a no-op")
}
