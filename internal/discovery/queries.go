package discovery

import "github.com/skillcatalog/indexer/internal/formats"

// SegmentedQuery is one code-search query in the fixed ~14-query list
// that partitions the search space to stay under the host's 1000-result
// cap per query.
type SegmentedQuery struct {
	Query  string
	Format formats.Format
}

// SegmentedQueries is the fixed list of code-search queries. It partitions
// SKILL.md by path and by size, and adds one query per additional format.
var SegmentedQueries = []SegmentedQuery{
	{Query: "filename:SKILL.md", Format: formats.SkillMD},
	{Query: "filename:SKILL.md path:skills", Format: formats.SkillMD},
	{Query: "filename:SKILL.md path:.claude", Format: formats.SkillMD},
	{Query: "filename:SKILL.md path:.github", Format: formats.SkillMD},
	{Query: "filename:SKILL.md path:.codex", Format: formats.SkillMD},
	{Query: "filename:SKILL.md size:<1000", Format: formats.SkillMD},
	{Query: "filename:SKILL.md size:1000..5000", Format: formats.SkillMD},
	{Query: "filename:SKILL.md size:>5000", Format: formats.SkillMD},
	{Query: "filename:AGENTS.md", Format: formats.AgentsMD},
	{Query: "filename:AGENTS.md path:skills", Format: formats.AgentsMD},
	{Query: "filename:.cursorrules", Format: formats.Cursorrules},
	{Query: "filename:.windsurfrules", Format: formats.Windsurfrules},
	{Query: "filename:copilot-instructions.md path:.github", Format: formats.CopilotInstructions},
}

// TopicQueries is the curated list of repo-search topics fed to the
// topic/description strategy.
var TopicQueries = []string{
	"topic:claude-skills",
	"topic:cursor-rules",
	"topic:skill",
	"topic:skills",
	"topic:agent-skills",
	`"SKILL.md" in:readme`,
	`".cursorrules" in:readme`,
	`"AGENTS.md" in:readme`,
}

// StarRange is one overlapping segment of the popular-repo sweep.
type StarRange struct {
	Min int
	Max int // 0 means unbounded
}

// StarRanges partitions repositories by star count to bypass the
// 1000-result search cap.
func StarRanges(minStars int) []StarRange {
	return []StarRange{
		{Min: minStars, Max: 500},
		{Min: 500, Max: 1000},
		{Min: 1000, Max: 2000},
		{Min: 2000, Max: 5000},
		{Min: 5000, Max: 10000},
		{Min: 10000, Max: 50000},
		{Min: 50000, Max: 100000},
		{Min: 100000, Max: 0},
	}
}

// WellKnownSkillRoots are the directory-listing fallback roots probed
// when a repository tree is truncated.
var WellKnownSkillRoots = []string{
	"skills",
	".claude/skills",
	".github/skills",
	".codex/skills",
	".",
}
