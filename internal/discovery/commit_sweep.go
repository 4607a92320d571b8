package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/skillcatalog/indexer/internal/ghclient"
	"github.com/skillcatalog/indexer/internal/models"
)

// DefaultRecentDays is how far back the commit sweep looks by default.
const DefaultRecentDays = 30

// CommitSweep is strategy (d): queries the commit-search endpoint for
// messages mentioning an instruction filename committed recently. This
// catches files added to non-default branches, which code search (which
// only indexes default branches) misses.
type CommitSweep struct {
	Client      *ghclient.Client
	Filenames   []string
	RecentDays  int
	MaxPages    int
	currentTime func() time.Time
}

func NewCommitSweep(client *ghclient.Client) *CommitSweep {
	return &CommitSweep{
		Client:     client,
		Filenames:  []string{"SKILL.md", "AGENTS.md", ".cursorrules", ".windsurfrules", "copilot-instructions.md"},
		RecentDays: DefaultRecentDays,
		MaxPages:   DefaultMaxPages,
	}
}

func (s *CommitSweep) Name() string { return string(models.ViaRecentCommitSweep) }

func (s *CommitSweep) Discover(ctx context.Context) (Result, error) {
	maxPages := s.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	days := s.RecentDays
	if days <= 0 {
		days = DefaultRecentDays
	}
	now := time.Now
	if s.currentTime != nil {
		now = s.currentTime
	}
	since := now().AddDate(0, 0, -days).Format("2006-01-02")

	seen := make(map[string]bool)
	var repos []models.DiscoveredRepo
	for _, filename := range s.Filenames {
		query := fmt.Sprintf("%s in:message committer-date:>%s", filename, since)
		for page := 1; page <= maxPages; page++ {
			results, hasNext, err := s.Client.SearchCommits(ctx, query, page)
			if err != nil {
				if ghclient.IsBeyondResultLimit(err) {
					break
				}
				return Result{}, err
			}
			for _, c := range results {
				key := c.Owner + "/" + c.Repo
				if seen[key] {
					continue
				}
				seen[key] = true
				repos = append(repos, models.DiscoveredRepo{
					Owner:         c.Owner,
					Repo:          c.Repo,
					DiscoveredVia: s.Name(),
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
