package discovery

import (
	"context"

	"github.com/skillcatalog/indexer/internal/ghclient"
	"github.com/skillcatalog/indexer/internal/models"
)

// TopicSearch is strategy (b): queries the repo-search endpoint across a
// curated set of topics and description phrases. Results only feed the
// discovered-repo table; they become candidates once the deep-tree
// walker processes them.
type TopicSearch struct {
	Client   *ghclient.Client
	Queries  []string
	MaxPages int
}

func NewTopicSearch(client *ghclient.Client) *TopicSearch {
	return &TopicSearch{Client: client, Queries: TopicQueries, MaxPages: DefaultMaxPages}
}

func (s *TopicSearch) Name() string { return string(models.ViaTopicSearch) }

func (s *TopicSearch) Discover(ctx context.Context) (Result, error) {
	maxPages := s.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var repos []models.DiscoveredRepo
	for _, q := range s.Queries {
		for page := 1; page <= maxPages; page++ {
			results, hasNext, err := s.Client.SearchRepositories(ctx, q, page)
			if err != nil {
				if ghclient.IsBeyondResultLimit(err) {
					break
				}
				return Result{}, err
			}
			for _, r := range results {
				repos = append(repos, models.DiscoveredRepo{
					Owner:         r.Owner,
					Repo:          r.Repo,
					DiscoveredVia: s.Name(),
					DefaultBranch: r.DefaultBranch,
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
