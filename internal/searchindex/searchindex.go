// Package searchindex defines the narrow interface the catalog store uses
// against the external full-text search engine, and a resty-backed client
// implementing it. The engine's own ranking/query behavior is out of
// scope: the core only ever upserts and removes documents.
package searchindex

import "context"

// Document is the subset of a skill record the search engine needs for
// browse/search results.
type Document struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Owner           string   `json:"owner"`
	Repo            string   `json:"repo"`
	Compatibility   []string `json:"compatibility"`
	GitHubStars     int      `json:"github_stars"`
	SecurityScore   int      `json:"security_score"`
	IndexedAtUnixMs int64    `json:"indexed_at_unix_ms"`
}

// Index upserts and removes documents in the external search engine.
type Index interface {
	// Upsert indexes or replaces a document by ID.
	Upsert(ctx context.Context, doc Document) error

	// Remove deletes a document by ID; deleting an absent ID is not an error.
	Remove(ctx context.Context, id string) error
}

// NoOp is an Index that drops every write; used when MEILI_URL is not
// configured, so the pipeline can run with search-index sync disabled.
type NoOp struct{}

func (NoOp) Upsert(ctx context.Context, doc Document) error { return nil }
func (NoOp) Remove(ctx context.Context, id string) error     { return nil }
