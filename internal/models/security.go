package models

// ThreatLevel represents the severity of a single security finding.
type ThreatLevel string

const (
	ThreatLevelNone     ThreatLevel = "none"
	ThreatLevelLow      ThreatLevel = "low"
	ThreatLevelMedium   ThreatLevel = "medium"
	ThreatLevelHigh     ThreatLevel = "high"
	ThreatLevelCritical ThreatLevel = "critical"
)

// IsValid checks if the level is a known value.
func (t ThreatLevel) IsValid() bool {
	switch t {
	case ThreatLevelNone, ThreatLevelLow, ThreatLevelMedium, ThreatLevelHigh, ThreatLevelCritical:
		return true
	}
	return false
}

// Severity returns a numeric severity (0-4) for sorting and comparison.
func (t ThreatLevel) Severity() int {
	switch t {
	case ThreatLevelLow:
		return 1
	case ThreatLevelMedium:
		return 2
	case ThreatLevelHigh:
		return 3
	case ThreatLevelCritical:
		return 4
	default:
		return 0
	}
}

// ScorePenalty returns the points subtracted from the starting security
// score of 100 for one finding at this severity (spec §4.5: 30/20/10/5
// for critical/high/medium/low).
func (t ThreatLevel) ScorePenalty() int {
	switch t {
	case ThreatLevelCritical:
		return 30
	case ThreatLevelHigh:
		return 20
	case ThreatLevelMedium:
		return 10
	case ThreatLevelLow:
		return 5
	default:
		return 0
	}
}
