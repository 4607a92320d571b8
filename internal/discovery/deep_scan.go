package discovery

import (
	"context"

	"github.com/skillcatalog/indexer/internal/formats"
	"github.com/skillcatalog/indexer/internal/ghclient"
	"github.com/skillcatalog/indexer/internal/models"
)

// DeepScan is strategy (e): for each discovered repository (or explicitly
// named seed), walks the tree of selected branches and emits a candidate
// for every blob matching an instruction-file pattern. Branches within
// one repository are scanned sequentially so the dedup step can
// deterministically prefer the default-branch variant.
type DeepScan struct {
	Client      *ghclient.Client
	ExtraBranch []string
}

func NewDeepScan(client *ghclient.Client) *DeepScan {
	return &DeepScan{Client: client}
}

func (s *DeepScan) Name() string { return "deep-tree-scan" }

// ScanRepo walks one repository and returns its deduplicated candidates.
// Exposed separately from Discover because the engine drives this one
// repo-at-a-time, interleaved with persisting DiscoveredRepo.LastScanned.
func (s *DeepScan) ScanRepo(ctx context.Context, owner, repo string) ([]models.Candidate, error) {
	meta, err := s.Client.GetRepository(ctx, owner, repo)
	if err != nil {
		if ghclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if meta.IsArchived {
		return nil, nil
	}

	allBranches, err := s.Client.ListBranches(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	selected := ghclient.FilterAndSortBranches(allBranches, meta.DefaultBranch, s.ExtraBranch)

	type key struct {
		path   string
		format formats.Format
	}
	byKey := make(map[key]models.Candidate)

	for _, branch := range selected {
		select {
		case <-ctx.Done():
			return candidatesFromMap(byKey), ctx.Err()
		default:
		}

		entries, truncated, err := s.Client.GetTree(ctx, owner, repo, branch)
		if err != nil {
			continue
		}
		if truncated {
			entries = s.fallbackListing(ctx, owner, repo, branch)
		}

		for _, entry := range entries {
			spec, ok := formats.ByFilename(baseName(entry.Path))
			if !ok {
				continue
			}
			if !spec.MatchesPlacement(dirOf(entry.Path)) {
				continue
			}

			k := key{path: dirOf(entry.Path), format: spec.Format}
			existing, exists := byKey[k]
			isDefault := branch == meta.DefaultBranch
			wasDefault := exists && existing.Branch == meta.DefaultBranch
			if exists && wasDefault && !isDefault {
				continue // keep the default-branch variant
			}
			byKey[k] = models.Candidate{
				Owner:         owner,
				Repo:          repo,
				Path:          k.path,
				Branch:        branch,
				SourceFormat:  spec.Format,
				DiscoveredVia: s.Name(),
			}
		}
	}

	return candidatesFromMap(byKey), nil
}

func (s *DeepScan) fallbackListing(ctx context.Context, owner, repo, branch string) []ghclient.TreeEntry {
	var all []ghclient.TreeEntry
	for _, root := range WellKnownSkillRoots {
		entries, err := s.Client.ListDirectory(ctx, owner, repo, root, branch)
		if err != nil {
			continue
		}
		all = append(all, entries...)
	}
	return all
}

func candidatesFromMap(m map[struct {
	path   string
	format formats.Format
}]models.Candidate) []models.Candidate {
	out := make([]models.Candidate, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	return out
}
