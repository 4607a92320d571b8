package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillcatalog/indexer/internal/models"
)

func TestAllSkills_ExcludesBlocked(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	visible := &models.Skill{ID: "o/r/visible", Owner: "o", Repo: "r", RawContent: "x"}
	visible.ContentHash = visible.ComputeContentHash()
	require.NoError(t, store.Upsert(ctx, visible, false))

	blocked := &models.Skill{ID: "o/r/blocked", Owner: "o", Repo: "r", RawContent: "y"}
	blocked.ContentHash = blocked.ComputeContentHash()
	require.NoError(t, store.Upsert(ctx, blocked, false))
	require.NoError(t, store.Block(ctx, blocked.ID))

	skills, err := store.AllSkills(ctx)
	require.NoError(t, err)

	ids := make([]string, 0, len(skills))
	for _, s := range skills {
		ids = append(ids, s.ID)
	}
	assert.Contains(t, ids, visible.ID)
	assert.NotContains(t, ids, blocked.ID)
}

func TestSaveScored_PersistsAndEmitsSideEffects(t *testing.T) {
	store, _, idx := newTestStore(t)
	ctx := context.Background()

	skill := &models.Skill{ID: "o/r/skill", Owner: "o", Repo: "r", RawContent: "x"}
	skill.ContentHash = skill.ComputeContentHash()
	require.NoError(t, store.Upsert(ctx, skill, false))

	skill.QualityScore = 77
	skill.SkillType = models.SkillTypeCollection
	skill.RepoSkillCount = 4
	idx.upserted = nil

	require.NoError(t, store.SaveScored(ctx, skill))

	got, err := store.GetSkill(ctx, skill.ID)
	require.NoError(t, err)
	assert.Equal(t, 77, got.QualityScore)
	assert.Equal(t, models.SkillTypeCollection, got.SkillType)
	assert.Equal(t, 4, got.RepoSkillCount)
	assert.Contains(t, idx.upserted, skill.ID)
}
