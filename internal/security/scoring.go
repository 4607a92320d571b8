package security

import (
	"regexp"

	"github.com/skillcatalog/indexer/internal/models"
)

// mitigationSuppressThreshold is the minimum combined mitigation weight
// of nearby context required to drop a threat match entirely rather than
// merely note it.
const mitigationSuppressThreshold = 3

// mitigationContext classifies why a nearby phrase mitigates a threat
// match: defensive framing counts for more than a bare documentation
// reference.
type mitigationContext string

const (
	mitigationDefensive     mitigationContext = "defensive"
	mitigationEducational   mitigationContext = "educational"
	mitigationDocumentation mitigationContext = "documentation"
)

// weight returns how strongly this context type argues that a threat
// match is a false positive.
func (c mitigationContext) weight() int {
	switch c {
	case mitigationDefensive:
		return 3
	case mitigationEducational:
		return 2
	case mitigationDocumentation:
		return 1
	default:
		return 0
	}
}

// mitigationPattern is one phrase whose presence near a threat match
// argues the match is benign framing rather than a live threat.
type mitigationPattern struct {
	ID    string
	Type  mitigationContext
	Regex *regexp.Regexp
}

// mitigationProximityWindow is how many characters on either side of a
// threat match are searched for mitigating phrases.
const mitigationProximityWindow = 200

// mitigationPatterns enumerates the phrases the scorer treats as
// evidence of benign framing, grouped by the strength of that evidence.
var mitigationPatterns = []mitigationPattern{
	{ID: "DEF-001", Type: mitigationDefensive, Regex: regexp.MustCompile(`(?i)\b(defend|protect|guard)\s+(against|from)\b`)},
	{ID: "DEF-002", Type: mitigationDefensive, Regex: regexp.MustCompile(`(?i)\bsecurity\s+best\s+practi(ce|ces)\b`)},
	{ID: "DEF-003", Type: mitigationDefensive, Regex: regexp.MustCompile(`(?i)\b(vulnerabilit(y|ies)\s+mitigation|mitigat(e|ing)\s+vulnerabilit(y|ies))\b`)},
	{ID: "DEF-004", Type: mitigationDefensive, Regex: regexp.MustCompile(`(?i)\b(never|don'?t|do\s+not|avoid)\s+(do|use|run|execute|allow)\b`)},
	{ID: "DEF-005", Type: mitigationDefensive, Regex: regexp.MustCompile(`(?i)\b(input\s+(validation|sanitiz(ation|ing))|validat(e|ing)\s+input|sanitiz(e|ing)\s+input)\b`)},

	{ID: "EDU-001", Type: mitigationEducational, Regex: regexp.MustCompile(`(?i)\b(understand(ing)?|learn(ing)?|explain(ing)?|educat(e|ion|ional))\s+(about\s+)?(the\s+)?(threat|attack|vulnerabilit(y|ies)|risk)\b`)},
	{ID: "EDU-002", Type: mitigationEducational, Regex: regexp.MustCompile(`(?i)\b(common|typical|frequent|known)\s+(vulnerabilit(y|ies)|attack|threat|exploit)\b`)},
	{ID: "EDU-003", Type: mitigationEducational, Regex: regexp.MustCompile(`(?i)\b(security\s+(test(ing)?|audit(ing)?)|penetration\s+test(ing)?|pentest(ing)?|red\s+team(ing)?)\b`)},
	{ID: "EDU-004", Type: mitigationEducational, Regex: regexp.MustCompile(`(?i)\b(detect(ing|ion)?|identify(ing)?|recogniz(e|ing)|spot(ting)?)\s+(the\s+)?(threat|attack|vulnerabilit(y|ies)|malicious|suspicious)\b`)},
	{ID: "EDU-005", Type: mitigationEducational, Regex: regexp.MustCompile(`(?i)\b(OWASP|CVE-\d{4}-\d{4,}|CWE-\d+)\b`)},

	{ID: "DOC-001", Type: mitigationDocumentation, Regex: regexp.MustCompile(`(?i)\b(see|refer\s+to|check)\s+(the\s+)?(documentation|docs|readme|manual)\b`)},
	{ID: "DOC-002", Type: mitigationDocumentation, Regex: regexp.MustCompile(`(?i)\b(usage|synopsis|options|flags|arguments|parameters)\s*:\s*$`)},
	{ID: "DOC-003", Type: mitigationDocumentation, Regex: regexp.MustCompile(`(?i)\b(example|sample|demo)\s*(command|usage|code)?\s*:\s*$`)},
	{ID: "DOC-004", Type: mitigationDocumentation, Regex: regexp.MustCompile(`(?i)\b(api|endpoint|method)\s+(documentation|reference|spec(ification)?)\b`)},
	{ID: "DOC-005", Type: mitigationDocumentation, Regex: regexp.MustCompile(`(?i)\b(config(uration)?|settings?)\s+(reference|documentation|options)\b`)},
}

// mitigationHit is one mitigationPattern match found near a threat.
type mitigationHit struct {
	PatternID    string
	Type         mitigationContext
	DistanceFrom int
}

// Scorer turns raw pattern matches into a survivor set and, from those,
// a 0-100 security score. It owns the mitigation pattern table directly
// rather than delegating to a separate analyzer type, since scoring is
// its only caller.
type Scorer struct {
	window int
}

// NewScorer builds a Scorer using the default proximity window.
func NewScorer() *Scorer {
	return &Scorer{window: mitigationProximityWindow}
}

// findMitigation searches content within the proximity window of a
// threat span for mitigationPatterns matches.
func (s *Scorer) findMitigation(content string, threatStart, threatEnd int) []mitigationHit {
	contentLen := len(content)
	if contentLen == 0 {
		return nil
	}

	if threatStart < 0 {
		threatStart = 0
	}
	if threatStart > contentLen {
		threatStart = contentLen
	}
	if threatEnd < threatStart {
		threatEnd = threatStart
	}
	if threatEnd > contentLen {
		threatEnd = contentLen
	}

	searchStart := threatStart - s.window
	if searchStart < 0 {
		searchStart = 0
	}
	searchEnd := threatEnd + s.window
	if searchEnd > contentLen {
		searchEnd = contentLen
	}
	if searchStart >= searchEnd {
		return nil
	}

	searchRegion := content[searchStart:searchEnd]

	var hits []mitigationHit
	for _, pattern := range mitigationPatterns {
		for _, loc := range pattern.Regex.FindAllStringIndex(searchRegion, -1) {
			absPos := searchStart + loc[0]
			matchedLen := loc[1] - loc[0]

			var distance int
			switch {
			case absPos < threatStart:
				distance = threatStart - (absPos + matchedLen)
				if distance < 0 {
					distance = 0
				}
			case absPos >= threatEnd:
				distance = absPos - threatEnd
			default:
				distance = 0
			}

			hits = append(hits, mitigationHit{PatternID: pattern.ID, Type: pattern.Type, DistanceFrom: distance})
		}
	}
	return hits
}

// totalWeight sums the mitigation weight across every hit's context
// type, regardless of how many hits share a type.
func totalWeight(hits []mitigationHit) int {
	total := 0
	for _, h := range hits {
		total += h.Type.weight()
	}
	return total
}

// FilterMitigated drops pattern matches whose surrounding text carries
// enough defensive/educational/documentation framing to treat the match
// as benign rather than an actual threat.
func (s *Scorer) FilterMitigated(content string, matches []PatternMatch) []PatternMatch {
	surviving := make([]PatternMatch, 0, len(matches))
	for _, m := range matches {
		estimatedPos := m.LineNumber * 80
		hits := s.findMitigation(content, estimatedPos, estimatedPos+len(m.MatchedText))
		if totalWeight(hits) >= mitigationSuppressThreshold {
			continue
		}
		surviving = append(surviving, m)
	}
	return surviving
}

// Score computes the 0-100 security score and pass/warning/fail status
// for a set of surviving pattern matches: each finding subtracts its
// severity's score penalty, and status follows the worst severity seen.
func Score(matches []PatternMatch) (int, models.SecurityStatus) {
	score := 100
	status := models.SecurityPass
	for _, m := range matches {
		score -= m.Severity.ScorePenalty()
		switch {
		case m.Severity == models.ThreatLevelCritical:
			status = models.SecurityFail
		case m.Severity == models.ThreatLevelHigh && status != models.SecurityFail:
			status = models.SecurityWarning
		}
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, status
}
