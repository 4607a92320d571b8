package discovery

import (
	"context"
	"strings"

	"github.com/skillcatalog/indexer/internal/formats"
	"github.com/skillcatalog/indexer/internal/ghclient"
	"github.com/skillcatalog/indexer/internal/models"
)

// DefaultMaxPages bounds how many pages a single segmented query will
// paginate through (10 pages x 100 per page).
const DefaultMaxPages = 10

// SegmentedSearch is strategy (a): a fixed list of ~14 code-search
// queries that partition the search space by filename, path, and size to
// stay under the host's 1000-result-per-query ceiling.
type SegmentedSearch struct {
	Client   *ghclient.Client
	Queries  []SegmentedQuery
	MaxPages int
}

// NewSegmentedSearch builds the strategy with the default query list and
// page budget.
func NewSegmentedSearch(client *ghclient.Client) *SegmentedSearch {
	return &SegmentedSearch{Client: client, Queries: SegmentedQueries, MaxPages: DefaultMaxPages}
}

func (s *SegmentedSearch) Name() string { return string(models.ViaSegmentedCodeSearch) }

func (s *SegmentedSearch) Discover(ctx context.Context) (Result, error) {
	maxPages := s.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var candidates []models.Candidate
	for _, q := range s.Queries {
		expectedFilename := expectedFilenameFor(q.Format)

		for page := 1; page <= maxPages; page++ {
			results, hasNext, err := s.Client.SearchCode(ctx, q.Query, page)
			if err != nil {
				if ghclient.IsBeyondResultLimit(err) {
					break
				}
				return Result{}, err
			}

			for _, hit := range results {
				if !strings.EqualFold(baseName(hit.Path), expectedFilename) {
					continue
				}
				candidates = append(candidates, models.Candidate{
					Owner:         hit.Owner,
					Repo:          hit.Repo,
					Path:          dirOf(hit.Path),
					Branch:        "",
					SourceFormat:  q.Format,
					DiscoveredVia: s.Name(),
				})
			}

			if !hasNext {
				break
			}
			select {
			case <-ctx.Done():
				return Result{Candidates: candidates}, ctx.Err()
			default:
			}
		}
	}

	return Result{Candidates: candidates}, nil
}

func expectedFilenameFor(format formats.Format) string {
	spec, ok := formats.ByFormat(format)
	if !ok {
		return ""
	}
	return spec.Filename
}

func baseName(path string) string {
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// dirOf strips the filename suffix from path, returning "." for a
// root-level hit (an empty path normalizes to ".").
func dirOf(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return "."
	}
	return path[:idx]
}
