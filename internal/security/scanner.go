package security

import (
	"strings"
	"time"

	"github.com/skillcatalog/indexer/internal/models"
)

// MaxContentSize is the maximum content size to scan (100KB).
// Larger content is truncated to prevent regex backtracking issues.
const MaxContentSize = 100 * 1024

// Scanner performs security analysis on skill content and sibling scripts.
type Scanner struct {
	bodyPatterns   []Pattern
	scriptPatterns []Pattern
	scorer         *Scorer
}

// NewScanner creates a new scanner with the full pattern set, split by
// scope: the instruction body sees prompt-injection/data-exfiltration plus
// credential-exposure patterns, sibling scripts see dangerous-shell plus
// credential-exposure patterns.
func NewScanner() *Scanner {
	body := make([]Pattern, 0, len(PromptInjectionPatterns)+len(CredentialPatterns))
	body = append(body, PromptInjectionPatterns...)
	body = append(body, CredentialPatterns...)

	scripts := make([]Pattern, 0, len(ScriptPatterns)+len(CredentialPatterns))
	scripts = append(scripts, ScriptPatterns...)
	scripts = append(scripts, CredentialPatterns...)

	return &Scanner{
		bodyPatterns:   body,
		scriptPatterns: scripts,
		scorer:         NewScorer(),
	}
}

// ScanSkill scans a skill's instruction body and its cached scripts/
// siblings, producing a combined score and status.
func (s *Scanner) ScanSkill(skill *models.Skill) *ScanResult {
	result := &ScanResult{
		SkillID:   skill.ID,
		ScannedAt: time.Now(),
	}

	bodyRaw := s.scanContentWithPatterns(skill.RawContent, "", s.bodyPatterns)
	result.Matches = s.scorer.FilterMitigated(skill.RawContent, bodyRaw)

	for _, f := range skill.CachedFiles {
		if f.DirType != "scripts" {
			continue
		}
		applicable := applicableScriptPatterns(s.scriptPatterns, f.Path)
		raw := s.scanContentWithPatterns(f.Content, f.Path, applicable)
		result.ScriptMatches = append(result.ScriptMatches, s.scorer.FilterMitigated(f.Content, raw)...)
	}

	all := append(append([]PatternMatch{}, result.Matches...), result.ScriptMatches...)
	result.Score, result.Status = Score(all)
	result.ThreatSummary = result.GenerateSummary()

	return result
}

// ScanContent scans raw content string against the body pattern set.
func (s *Scanner) ScanContent(content string) *ScanResult {
	result := &ScanResult{ScannedAt: time.Now()}
	raw := s.scanContentWithPatterns(content, "", s.bodyPatterns)
	result.Matches = s.scorer.FilterMitigated(content, raw)
	result.Score, result.Status = Score(result.Matches)
	result.ThreatSummary = result.GenerateSummary()
	return result
}

// ScanScriptContent scans one sibling script's content against the
// extension-applicable subset of the script pattern set.
func (s *Scanner) ScanScriptContent(content, filePath string) *ScanResult {
	result := &ScanResult{ScannedAt: time.Now()}
	applicable := applicableScriptPatterns(s.scriptPatterns, filePath)
	raw := s.scanContentWithPatterns(content, filePath, applicable)
	result.ScriptMatches = s.scorer.FilterMitigated(content, raw)
	result.Score, result.Status = Score(result.ScriptMatches)
	result.ThreatSummary = result.GenerateSummary()
	return result
}

// applicableScriptPatterns narrows the script pattern set to those whose
// FileTypes match filePath's extension; credential patterns have no
// FileTypes restriction and always apply.
func applicableScriptPatterns(patterns []Pattern, filePath string) []Pattern {
	if filePath == "" {
		return patterns
	}
	var out []Pattern
	for _, p := range patterns {
		if len(p.FileTypes) == 0 {
			out = append(out, p)
			continue
		}
		for _, ft := range p.FileTypes {
			if matchFileType(filePath, ft) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// scanContentWithPatterns scans content using a specific set of patterns.
func (s *Scanner) scanContentWithPatterns(content, filePath string, patterns []Pattern) []PatternMatch {
	if content == "" {
		return nil
	}

	// Truncate very large content to prevent regex backtracking issues.
	if len(content) > MaxContentSize {
		content = content[:MaxContentSize]
	}

	var matches []PatternMatch
	lines := strings.Split(content, "\n")

	for _, pattern := range patterns {
		if pattern.Regex == nil {
			continue
		}

		// Limit matches per pattern to prevent runaway scanning.
		allMatches := pattern.Regex.FindAllStringIndex(content, 10)
		for _, match := range allMatches {
			lineNum := 1
			charCount := 0
			for i, line := range lines {
				charCount += len(line) + 1
				if charCount > match[0] {
					lineNum = i + 1
					break
				}
			}

			matchedText := content[match[0]:match[1]]
			context := s.extractContext(content, match[0], match[1])

			matches = append(matches, PatternMatch{
				PatternID:   pattern.ID,
				PatternName: pattern.Name,
				Category:    pattern.Category,
				Severity:    pattern.Severity,
				MatchedText: matchedText,
				LineNumber:  lineNum,
				Context:     context,
				FilePath:    filePath,
			})
		}
	}

	return matches
}

// extractContext gets surrounding text for context.
func (s *Scanner) extractContext(content string, start, end int) string {
	contextStart := start - 50
	if contextStart < 0 {
		contextStart = 0
	}
	contextEnd := end + 50
	if contextEnd > len(content) {
		contextEnd = len(content)
	}

	context := content[contextStart:contextEnd]
	context = strings.ReplaceAll(context, "\n", " ")
	context = strings.TrimSpace(context)

	if contextStart > 0 {
		context = "..." + context
	}
	if contextEnd < len(content) {
		context = context + "..."
	}

	return context
}

// ScanAndClassify scans a skill and writes the resulting score/status back
// onto it, recomputing the content hash the scan was run against.
func (s *Scanner) ScanAndClassify(skill *models.Skill) *ScanResult {
	result := s.ScanSkill(skill)
	skill.SecurityScore = result.Score
	skill.SecurityStatus = result.Status
	skill.ContentHash = skill.ComputeContentHash()
	return result
}

// QuickScan performs a fast check returning just whether any pattern
// (body or script) matches, with no mitigation filtering or scoring.
func (s *Scanner) QuickScan(content string) bool {
	for _, pattern := range s.bodyPatterns {
		if pattern.Regex != nil && pattern.Regex.MatchString(content) {
			return true
		}
	}
	for _, pattern := range s.scriptPatterns {
		if pattern.Regex != nil && pattern.Regex.MatchString(content) {
			return true
		}
	}
	return false
}
