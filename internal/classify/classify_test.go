package classify

import (
	"testing"

	"github.com/skillcatalog/indexer/internal/models"
)

func TestRun_FullPass(t *testing.T) {
	skills := []*models.Skill{
		{ID: "o/r/1", Owner: "o", Repo: "r", RawContent: "dup content", GitHubStars: 1},
		{ID: "o/r/2", Owner: "o", Repo: "r", RawContent: "dup content", GitHubStars: 9},
		{ID: "o/r/3", Owner: "o", Repo: "r", RawContent: "unique content"},
	}

	Run(skills)

	if skills[0].RepoSkillCount != 3 {
		t.Errorf("expected repo_skill_count=3, got %d", skills[0].RepoSkillCount)
	}
	if skills[0].SkillType != models.SkillTypeCollection {
		t.Errorf("expected collection type, got %s", skills[0].SkillType)
	}
	if !skills[0].IsDuplicate || skills[1].IsDuplicate {
		t.Error("expected skill 1 (fewer stars) to be the duplicate of skill 2")
	}
	if skills[2].IsDuplicate {
		t.Error("expected the unique-content skill to not be marked a duplicate")
	}
}

func TestRun_Idempotent(t *testing.T) {
	skills := []*models.Skill{
		{ID: "o/r/1", Owner: "o", Repo: "r", RawContent: "dup content", GitHubStars: 1},
		{ID: "o/r/2", Owner: "o", Repo: "r", RawContent: "dup content", GitHubStars: 9},
	}

	Run(skills)
	snapshot := make([]models.Skill, len(skills))
	for i, s := range skills {
		snapshot[i] = *s
	}

	Run(skills)

	for i, s := range skills {
		if s.RepoSkillCount != snapshot[i].RepoSkillCount ||
			s.SkillType != snapshot[i].SkillType ||
			s.IsDuplicate != snapshot[i].IsDuplicate ||
			s.ContentHash != snapshot[i].ContentHash {
			t.Errorf("expected a second Run to be a no-op, diverged at index %d", i)
		}
	}
}
