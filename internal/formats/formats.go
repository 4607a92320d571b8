// Package formats is the single source of truth for the instruction-file
// patterns recognized by the indexer: filename, format tag, placement
// rule, and target platform. Discovery, the parser, and the classifier
// all consult this table rather than re-declaring the patterns.
package formats

import "strings"

// Format identifies a recognized instruction-file format.
type Format string

const (
	SkillMD              Format = "skill.md"
	AgentsMD             Format = "agents.md"
	Cursorrules          Format = "cursorrules"
	Windsurfrules        Format = "windsurfrules"
	CopilotInstructions  Format = "copilot-instructions"
)

// Placement describes where a format's file may live in a repository.
type Placement string

const (
	// PlacementAnywhere means the file may appear at any path.
	PlacementAnywhere Placement = "anywhere"
	// PlacementRootOnly means the file must sit at the repository root.
	PlacementRootOnly Placement = "root-only"
	// PlacementPathFiltered means the file must sit under a fixed directory.
	PlacementPathFiltered Placement = "path-filtered"
)

// Spec describes one recognized instruction-file format.
type Spec struct {
	Format    Format
	Filename  string
	Placement Placement
	// RequiredDir is set when Placement is PlacementPathFiltered; the
	// filename must appear under this directory (e.g. ".github/").
	RequiredDir string
	Platform    string
	// MinBodyLength is the recommended minimum description/body length
	// used by the parser's validation warnings.
	MinDescriptionLength int
}

// Table is the ordered list of all recognized instruction-file formats.
var Table = []Spec{
	{Format: SkillMD, Filename: "SKILL.md", Placement: PlacementAnywhere, Platform: "claude", MinDescriptionLength: 20},
	{Format: AgentsMD, Filename: "AGENTS.md", Placement: PlacementAnywhere, Platform: "codex", MinDescriptionLength: 20},
	{Format: Cursorrules, Filename: ".cursorrules", Placement: PlacementRootOnly, Platform: "cursor", MinDescriptionLength: 20},
	{Format: Windsurfrules, Filename: ".windsurfrules", Placement: PlacementRootOnly, Platform: "windsurf", MinDescriptionLength: 20},
	{Format: CopilotInstructions, Filename: "copilot-instructions.md", Placement: PlacementPathFiltered, RequiredDir: ".github/", Platform: "copilot", MinDescriptionLength: 20},
}

// ByFormat returns the Spec for a given Format, or false if unknown.
func ByFormat(f Format) (Spec, bool) {
	for _, s := range Table {
		if s.Format == f {
			return s, true
		}
	}
	return Spec{}, false
}

// ByFilename returns the Spec whose Filename matches, case-insensitively,
// along with whether a given candidate path satisfies its placement rule.
func ByFilename(filename string) (Spec, bool) {
	lower := strings.ToLower(filename)
	for _, s := range Table {
		if strings.ToLower(s.Filename) == lower {
			return s, true
		}
	}
	return Spec{}, false
}

// MatchesPlacement reports whether a candidate file at dirPath (the
// directory portion of the discovered path, "" for root) satisfies the
// format's placement rule.
func (s Spec) MatchesPlacement(dirPath string) bool {
	switch s.Placement {
	case PlacementRootOnly:
		return dirPath == "" || dirPath == "."
	case PlacementPathFiltered:
		return strings.HasPrefix(dirPath, s.RequiredDir) || dirPath == strings.TrimSuffix(s.RequiredDir, "/")
	default:
		return true
	}
}

// IsRootOnly reports whether the format must live at the repo root.
func (s Spec) IsRootOnly() bool {
	return s.Placement == PlacementRootOnly
}

// FileTag returns the id-suffix tag used when the format is not skill.md,
// per the skill-record id rule `owner/repo/<skill-name>[~<format-tag>]`.
func FileTag(f Format) string {
	if f == SkillMD {
		return ""
	}
	return string(f)
}

// ContentDir returns the directory a multi-file (SKILL.md) candidate's
// content lives under, given its resolved path. For root-only and
// .github-scoped single-file formats this is irrelevant since they carry
// no sibling scripts/references.
func ContentDir(path string) string {
	if path == "" || path == "." {
		return ""
	}
	return strings.TrimSuffix(path, "/") + "/"
}
