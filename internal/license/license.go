// Package license detects a repository's SPDX license identifier from
// the raw text of its license file.
package license

import (
	"regexp"
	"strings"
)

type pattern struct {
	spdxID string
	regex  *regexp.Regexp
}

// patterns is checked in order; the first match wins, so more specific
// identifiers (e.g. AGPL-3.0 before GPL-3.0) come first.
var patterns = []pattern{
	{"Unlicense", regexp.MustCompile(`(?i)unlicense|This is free and unencumbered`)},
	{"CC0-1.0", regexp.MustCompile(`(?i)Creative\s+Commons.*Zero|CC0`)},
	{"MIT", regexp.MustCompile(`(?i)MIT\s+License|Permission is hereby granted, free of charge`)},
	{"Apache-2.0", regexp.MustCompile(`(?i)Apache\s+License.*2\.0|Licensed under the Apache License`)},
	{"AGPL-3.0", regexp.MustCompile(`(?i)GNU\s+Affero.*License.*version\s+3|AGPL-3\.0|AGPLv3`)},
	{"GPL-3.0", regexp.MustCompile(`(?i)GNU\s+General\s+Public\s+License.*version\s+3|GPL-3\.0|GPLv3`)},
	{"GPL-2.0", regexp.MustCompile(`(?i)GNU\s+General\s+Public\s+License.*version\s+2|GPL-2\.0|GPLv2`)},
	{"LGPL-3.0", regexp.MustCompile(`(?i)GNU\s+Lesser.*License.*version\s+3|LGPL-3\.0|LGPLv3`)},
	{"LGPL-2.1", regexp.MustCompile(`(?i)GNU\s+Lesser.*License.*version\s+2\.1|LGPL-2\.1|LGPLv2\.1`)},
	{"BSD-3-Clause", regexp.MustCompile(`(?i)three\s+clauses|BSD.*3.*Clause|New BSD|Modified BSD`)},
	{"BSD-2-Clause", regexp.MustCompile(`(?i)two\s+clauses|BSD.*2.*Clause|Simplified BSD`)},
	{"EPL-2.0", regexp.MustCompile(`(?i)Eclipse\s+Public\s+License.*2\.0|EPL-2\.0`)},
	{"EPL-1.0", regexp.MustCompile(`(?i)Eclipse\s+Public\s+License.*1\.0|EPL-1\.0`)},
	{"MPL-2.0", regexp.MustCompile(`(?i)Mozilla\s+Public\s+License.*2\.0|MPL-2\.0|MPL\s+2`)},
	{"ISC", regexp.MustCompile(`(?i)ISC\s+License|Permission to use, copy, modify.*ISC`)},
	{"Zlib", regexp.MustCompile(`(?i)zlib\s+License`)},
}

// DetectType returns the SPDX identifier matched by content, or "Unknown".
func DetectType(content string) string {
	if content == "" {
		return "Unknown"
	}
	if len(content) > 2000 {
		content = content[:2000]
	}

	for _, p := range patterns {
		if p.regex.MatchString(content) {
			return p.spdxID
		}
	}

	lower := strings.ToLower(content)
	if strings.Contains(lower, "or any later") || strings.Contains(lower, "or (at your option) any later") {
		if strings.Contains(lower, "version 2") {
			return "GPL-2.0+"
		}
		if strings.Contains(lower, "version 3") {
			return "GPL-3.0+"
		}
	}

	return "Unknown"
}

// FileNames is the ordered list of candidate license file names a
// repository is probed for.
func FileNames() []string {
	return []string{
		"LICENSE",
		"LICENSE.md",
		"LICENSE.txt",
		"COPYING",
		"COPYING.md",
		"COPYING.txt",
		"LICENSE.rst",
	}
}
