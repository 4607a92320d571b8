package security

import (
	"regexp"

	"github.com/skillcatalog/indexer/internal/models"
)

// CredentialPatterns detect hardcoded secrets. Spec.md §4.5's "credential
// exposure" group applies to both the instruction body and sibling scripts,
// the only one of the four pattern groups with that dual scope.
var CredentialPatterns = []Pattern{
	{
		ID:          "CR-001",
		Name:        "Hardcoded Password",
		Description: "Detects a password assigned directly in source or docs",
		Category:    CategoryCredentialExposure,
		Severity:    models.ThreatLevelCritical,
		Regex:       regexp.MustCompile(`(?i)\bpassword\s*[:=]\s*["']?[^\s"']{4,}["']?`),
		FileTypes:   []string{},
		Scope:       ScopeBoth,
	},
	{
		ID:          "CR-002",
		Name:        "Hardcoded API Key",
		Description: "Detects an API key assigned with a long alphanumeric literal",
		Category:    CategoryCredentialExposure,
		Severity:    models.ThreatLevelCritical,
		Regex:       regexp.MustCompile(`(?i)\b(api[_-]?key|apikey)\s*[:=]\s*["']?[A-Za-z0-9_\-]{20,}["']?`),
		FileTypes:   []string{},
		Scope:       ScopeBoth,
	},
	{
		ID:          "CR-003",
		Name:        "Private Key Assignment",
		Description: "Detects a private key embedded as a PEM block or assignment",
		Category:    CategoryCredentialExposure,
		Severity:    models.ThreatLevelCritical,
		Regex:       regexp.MustCompile(`(?i)(-----BEGIN\s+(RSA\s+)?PRIVATE\s+KEY-----|\bprivate[_-]?key\s*[:=]\s*["']?[A-Za-z0-9_\-/+=]{10,}["']?)`),
		FileTypes:   []string{},
		Scope:       ScopeBoth,
	},
	{
		ID:          "CR-004",
		Name:        "Hardcoded Secret",
		Description: "Detects a generic secret assigned with a moderately long literal",
		Category:    CategoryCredentialExposure,
		Severity:    models.ThreatLevelHigh,
		Regex:       regexp.MustCompile(`(?i)\bsecret\s*[:=]\s*["']?[A-Za-z0-9_\-]{10,}["']?`),
		FileTypes:   []string{},
		Scope:       ScopeBoth,
	},
}
