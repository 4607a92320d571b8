package classify

import (
	"testing"
	"time"

	"github.com/skillcatalog/indexer/internal/models"
)

func TestApplyDedup_NoDuplicates(t *testing.T) {
	skills := []*models.Skill{
		{ID: "a/r/1", RawContent: "content one"},
		{ID: "a/r/2", RawContent: "content two"},
	}

	ApplyDedup(skills)

	for _, s := range skills {
		if s.IsDuplicate {
			t.Errorf("%s: expected no duplicate, got is_duplicate=true", s.ID)
		}
		if s.CanonicalSkillID != nil {
			t.Errorf("%s: expected nil canonical id, got %v", s.ID, s.CanonicalSkillID)
		}
		if s.ContentHash == "" {
			t.Errorf("%s: expected content_hash to be computed", s.ID)
		}
	}
}

func TestApplyDedup_CanonicalPicksHighestStars(t *testing.T) {
	low := &models.Skill{ID: "a/r/low", RawContent: "same", GitHubStars: 5}
	high := &models.Skill{ID: "a/r/high", RawContent: "same", GitHubStars: 500}
	skills := []*models.Skill{low, high}

	ApplyDedup(skills)

	if high.IsDuplicate {
		t.Error("expected highest-star record to be canonical, not duplicate")
	}
	if !low.IsDuplicate {
		t.Error("expected lower-star record to be marked duplicate")
	}
	if low.CanonicalSkillID == nil || *low.CanonicalSkillID != high.ID {
		t.Errorf("expected low to point at high, got %v", low.CanonicalSkillID)
	}
}

func TestApplyDedup_TieBreaksOnCreatedAtThenID(t *testing.T) {
	now := time.Now()
	older := &models.Skill{ID: "a/r/z", RawContent: "same", GitHubStars: 10, CreatedAt: now.Add(-time.Hour)}
	newer := &models.Skill{ID: "a/r/a", RawContent: "same", GitHubStars: 10, CreatedAt: now}
	skills := []*models.Skill{newer, older}

	ApplyDedup(skills)

	if older.IsDuplicate {
		t.Error("expected the older record to win the stars tie and become canonical")
	}
	if !newer.IsDuplicate {
		t.Error("expected the newer record to be marked duplicate")
	}
}

func TestApplyDedup_TieBreaksOnIDWhenFullyTied(t *testing.T) {
	same := time.Now()
	b := &models.Skill{ID: "a/r/b", RawContent: "same", GitHubStars: 10, CreatedAt: same}
	a := &models.Skill{ID: "a/r/a", RawContent: "same", GitHubStars: 10, CreatedAt: same}
	skills := []*models.Skill{b, a}

	ApplyDedup(skills)

	if a.IsDuplicate {
		t.Error("expected lexicographically smaller id to be canonical on a full tie")
	}
	if !b.IsDuplicate {
		t.Error("expected the other tied record to be marked duplicate")
	}
}

func TestApplyDedup_SkipsBlockedAndEmptyContent(t *testing.T) {
	blocked := &models.Skill{ID: "a/r/blocked", RawContent: "same", IsBlocked: true}
	empty := &models.Skill{ID: "a/r/empty"}
	skills := []*models.Skill{blocked, empty}

	ApplyDedup(skills)

	if blocked.ContentHash != "" {
		t.Error("expected blocked record's content_hash untouched")
	}
	if empty.ContentHash != "" {
		t.Error("expected empty-content record's content_hash untouched")
	}
}

func TestApplyDedup_ResetsPriorState(t *testing.T) {
	prior := "a/r/old-canonical"
	skills := []*models.Skill{
		{ID: "a/r/1", RawContent: "unique content", IsDuplicate: true, CanonicalSkillID: &prior},
	}

	ApplyDedup(skills)

	if skills[0].IsDuplicate {
		t.Error("expected is_duplicate reset to false for a now-unique record")
	}
	if skills[0].CanonicalSkillID != nil {
		t.Error("expected canonical_skill_id reset to nil for a now-unique record")
	}
}

func TestApplyDedup_Idempotent(t *testing.T) {
	low := &models.Skill{ID: "a/r/low", RawContent: "same", GitHubStars: 5}
	high := &models.Skill{ID: "a/r/high", RawContent: "same", GitHubStars: 500}
	skills := []*models.Skill{low, high}

	ApplyDedup(skills)
	firstLowDup, firstHighDup := low.IsDuplicate, high.IsDuplicate
	ApplyDedup(skills)

	if low.IsDuplicate != firstLowDup || high.IsDuplicate != firstHighDup {
		t.Error("expected idempotent dedup result across repeated runs")
	}
}
