package models

import "github.com/skillcatalog/indexer/internal/formats"

// Candidate is a tuple (owner, repo, path, branch, source_format)
// identifying a prospective instruction file, the canonical identity
// during discovery. For root-only formats path is ".".
type Candidate struct {
	Owner        string
	Repo         string
	Path         string
	Branch       string
	SourceFormat formats.Format

	// DiscoveredVia records which strategy produced this candidate, for
	// diagnostics only; it does not participate in the dedup key.
	DiscoveredVia string
}

// Key returns the dedup identity (owner, repo, path, format) used to
// collapse duplicates across strategies and branches.
func (c Candidate) Key() string {
	return c.Owner + "/" + c.Repo + "\x00" + c.Path + "\x00" + string(c.SourceFormat)
}

// FullName returns "owner/repo".
func (c Candidate) FullName() string { return c.Owner + "/" + c.Repo }
