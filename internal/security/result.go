package security

import (
	"fmt"
	"time"

	"github.com/skillcatalog/indexer/internal/models"
)

// ThreatCategory represents a category of security threat.
type ThreatCategory string

const (
	CategoryInstructionOverride ThreatCategory = "instruction_override"
	CategoryJailbreak           ThreatCategory = "jailbreak"
	CategorySystemSpoofing      ThreatCategory = "system_spoofing"
	CategoryDataExfiltration    ThreatCategory = "data_exfiltration"
	CategoryCredentialExposure  ThreatCategory = "credential_exposure"
	CategoryObfuscation         ThreatCategory = "obfuscation"
	CategoryAgentManipulation   ThreatCategory = "agent_manipulation"
	CategoryPrivilegeEscalation ThreatCategory = "privilege_escalation"
	CategoryMultiTurnErosion    ThreatCategory = "multi_turn_erosion"
	CategoryScriptDanger        ThreatCategory = "script_danger"
)

// PatternMatch represents a single pattern that matched.
type PatternMatch struct {
	PatternID   string
	PatternName string
	Category    ThreatCategory
	Severity    models.ThreatLevel
	MatchedText string
	LineNumber  int
	Context     string // Surrounding text for review
	FilePath    string // Empty for the main instruction body, path for a script file
}

// ScanResult is the outcome of scanning a skill: the instruction body's
// matches, each scanned sibling script's matches, and the combined
// score/status the quality scorer's security factor reads.
type ScanResult struct {
	SkillID   string
	ScannedAt time.Time

	Matches       []PatternMatch // findings in the instruction body
	ScriptMatches []PatternMatch // findings in sibling scripts

	Score         int
	Status        models.SecurityStatus
	ThreatSummary string
}

// TotalMatchCount returns total matches across body and scripts.
func (r *ScanResult) TotalMatchCount() int {
	return len(r.Matches) + len(r.ScriptMatches)
}

// HighestSeverity returns the highest severity across all surviving matches.
func (r *ScanResult) HighestSeverity() models.ThreatLevel {
	highest := models.ThreatLevelNone
	for _, m := range r.Matches {
		if m.Severity.Severity() > highest.Severity() {
			highest = m.Severity
		}
	}
	for _, m := range r.ScriptMatches {
		if m.Severity.Severity() > highest.Severity() {
			highest = m.Severity
		}
	}
	return highest
}

// GenerateSummary creates a human-readable summary of the scan.
func (r *ScanResult) GenerateSummary() string {
	total := r.TotalMatchCount()
	if total == 0 {
		return "No threats detected"
	}

	var highest *PatternMatch
	for i := range r.Matches {
		if highest == nil || r.Matches[i].Severity.Severity() > highest.Severity.Severity() {
			highest = &r.Matches[i]
		}
	}
	for i := range r.ScriptMatches {
		if highest == nil || r.ScriptMatches[i].Severity.Severity() > highest.Severity.Severity() {
			highest = &r.ScriptMatches[i]
		}
	}

	if highest != nil {
		return fmt.Sprintf("Detected: %s (%d total patterns)", highest.PatternName, total)
	}
	return fmt.Sprintf("Detected %d potential threat patterns", total)
}
