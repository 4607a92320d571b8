// Package quality computes the five-factor weighted quality score
// (documentation, maintenance, popularity, security, validation) that
// feeds the catalog's quality_score/quality_details columns.
package quality

import (
	"regexp"
	"strings"
	"time"

	"github.com/skillcatalog/indexer/internal/models"
)

// headerPattern matches a Markdown ATX header line.
var headerPattern = regexp.MustCompile(`(?m)^#{1,6}\s+\S`)

// fencedCodePattern matches a fenced code block opener.
var fencedCodePattern = regexp.MustCompile("(?m)^```")

// agentKeywords are repo-topic substrings that mark a repository as
// AI-agent-tooling adjacent for the popularity bonus.
var agentKeywords = []string{
	"agent", "llm", "claude", "skill", "mcp", "copilot", "cursor", "windsurf", "chatgpt", "prompt",
}

func countHeaders(body string) int {
	return len(headerPattern.FindAllStringIndex(body, -1))
}

func hasFencedCode(body string) bool {
	return fencedCodePattern.MatchString(body)
}

func hasAgentKeywordTopic(topics []string) bool {
	for _, topic := range topics {
		lowered := strings.ToLower(topic)
		for _, kw := range agentKeywords {
			if strings.Contains(lowered, kw) {
				return true
			}
		}
	}
	return false
}

func hasScripts(files []models.CachedFile) bool {
	for _, f := range files {
		if f.DirType == "scripts" {
			return true
		}
	}
	return false
}

func hasReferences(files []models.CachedFile) bool {
	for _, f := range files {
		if f.DirType == "references" {
			return true
		}
	}
	return false
}

func clamp100(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// documentationScore rewards richer, better-described, better-structured
// instruction files.
func documentationScore(skill *models.Skill, headerCount int, fencedCode bool) int {
	score := 0

	switch {
	case len(skill.Description) >= 100:
		score += 20
	case len(skill.Description) >= 40:
		score += 12
	case len(skill.Description) > 0:
		score += 5
	}

	switch {
	case len(skill.RawContent) >= 2000:
		score += 20
	case len(skill.RawContent) >= 500:
		score += 12
	case len(skill.RawContent) >= 100:
		score += 5
	}

	switch {
	case headerCount >= 5:
		score += 15
	case headerCount >= 2:
		score += 8
	case headerCount >= 1:
		score += 3
	}

	if fencedCode {
		score += 15
	}
	if skill.Version != "" {
		score += 10
	}
	if skill.License != "" {
		score += 10
	}
	if len(skill.Compatibility.Platforms) > 0 {
		score += 10
	}
	if hasScripts(skill.CachedFiles) {
		score += 5
	}
	if hasReferences(skill.CachedFiles) {
		score += 5
	}

	return clamp100(score)
}

// maintenanceScore rewards recently-active, well-described, licensed
// repositories.
func maintenanceScore(skill *models.Skill, now time.Time) int {
	score := 0

	if !skill.RepoPushedAt.IsZero() {
		days := now.Sub(skill.RepoPushedAt).Hours() / 24
		switch {
		case days < 30:
			score += 40
		case days < 90:
			score += 30
		case days < 180:
			score += 18
		case days < 365:
			score += 8
		}
	}

	if skill.License != "" {
		score += 15
	}
	if skill.Description != "" {
		score += 15
	}
	if len(skill.Topics) > 0 {
		score += 15
	}

	switch {
	case skill.GitHubForks >= 50:
		score += 15
	case skill.GitHubForks >= 10:
		score += 10
	case skill.GitHubForks >= 1:
		score += 5
	}

	return clamp100(score)
}

// popularityScore rewards star/fork counts and AI-agent-relevant repo
// topics.
func popularityScore(skill *models.Skill) int {
	score := 0

	switch {
	case skill.GitHubStars >= 1000:
		score += 50
	case skill.GitHubStars >= 100:
		score += 40
	case skill.GitHubStars >= 50:
		score += 30
	case skill.GitHubStars >= 10:
		score += 20
	case skill.GitHubStars >= 5:
		score += 10
	case skill.GitHubStars >= 1:
		score += 5
	}

	switch {
	case skill.GitHubForks >= 100:
		score += 30
	case skill.GitHubForks >= 20:
		score += 20
	case skill.GitHubForks >= 5:
		score += 10
	case skill.GitHubForks >= 1:
		score += 5
	}

	if hasAgentKeywordTopic(skill.Topics) {
		score += 20
	}

	return clamp100(score)
}

// securityFactorScore reads the security score computed by §4.5's
// scanner directly; it is already a 0-100 value.
func securityFactorScore(skill *models.Skill) int {
	return clamp100(skill.SecurityScore)
}

// validationScore implements the validation factor exactly:
// 100 if the parse was valid, else 100 minus 20 points per error,
// floored at 0.
func validationScore(isValid bool, errorCount int) int {
	if isValid {
		return 100
	}
	score := 100 - 20*errorCount
	if score < 0 {
		score = 0
	}
	return score
}
