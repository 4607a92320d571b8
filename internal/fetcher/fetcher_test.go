package fetcher

import (
	"testing"

	"github.com/skillcatalog/indexer/internal/formats"
	"github.com/skillcatalog/indexer/internal/models"
)

func TestResolveFilePath(t *testing.T) {
	tests := []struct {
		name string
		c    models.Candidate
		want string
	}{
		{
			name: "skill.md under a path directory",
			c:    models.Candidate{Path: "skills/demo", SourceFormat: formats.SkillMD},
			want: "skills/demo/SKILL.md",
		},
		{
			name: "skill.md at repo root",
			c:    models.Candidate{Path: ".", SourceFormat: formats.SkillMD},
			want: "SKILL.md",
		},
		{
			name: "cursorrules is always root",
			c:    models.Candidate{Path: ".", SourceFormat: formats.Cursorrules},
			want: ".cursorrules",
		},
		{
			name: "windsurfrules is always root",
			c:    models.Candidate{Path: "ignored", SourceFormat: formats.Windsurfrules},
			want: ".windsurfrules",
		},
		{
			name: "copilot-instructions under .github",
			c:    models.Candidate{Path: ".github", SourceFormat: formats.CopilotInstructions},
			want: ".github/copilot-instructions.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveFilePath(tt.c); got != tt.want {
				t.Errorf("resolveFilePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtOf(t *testing.T) {
	tests := []struct{ path, want string }{
		{"scripts/deploy.sh", ".sh"},
		{"references/notes.MD", ".md"},
		{"noext", ""},
	}
	for _, tt := range tests {
		if got := extOf(tt.path); got != tt.want {
			t.Errorf("extOf(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
