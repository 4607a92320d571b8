package discovery

import (
	"context"
	"fmt"

	"github.com/skillcatalog/indexer/internal/ghclient"
	"github.com/skillcatalog/indexer/internal/models"
)

// PopularSweep is strategy (c): enumerates repositories above a star
// threshold, segmented into overlapping star ranges to bypass the
// 1000-result cap. Archived repositories are skipped.
type PopularSweep struct {
	Client   *ghclient.Client
	MinStars int
	MaxPages int
}

func NewPopularSweep(client *ghclient.Client, minStars int) *PopularSweep {
	return &PopularSweep{Client: client, MinStars: minStars, MaxPages: DefaultMaxPages}
}

func (s *PopularSweep) Name() string { return string(models.ViaPopularSweep) }

func (s *PopularSweep) Discover(ctx context.Context) (Result, error) {
	maxPages := s.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var repos []models.DiscoveredRepo
	for _, r := range StarRanges(s.MinStars) {
		query := starRangeQuery(r)
		for page := 1; page <= maxPages; page++ {
			results, hasNext, err := s.Client.SearchRepositories(ctx, query, page)
			if err != nil {
				if ghclient.IsBeyondResultLimit(err) {
					break
				}
				return Result{}, err
			}
			for _, repo := range results {
				if repo.IsArchived {
					continue
				}
				repos = append(repos, models.DiscoveredRepo{
					Owner:         repo.Owner,
					Repo:          repo.Repo,
					DiscoveredVia: s.Name(),
					DefaultBranch: repo.DefaultBranch,
				})
			}
			if !hasNext {
				break
			}
			select {
			case <-ctx.Done():
				return Result{Repos: repos}, ctx.Err()
			default:
			}
		}
	}
	return Result{Repos: repos}, nil
}

func starRangeQuery(r StarRange) string {
	if r.Max == 0 {
		return fmt.Sprintf("stars:>%d", r.Min)
	}
	return fmt.Sprintf("stars:%d..%d", r.Min, r.Max)
}
