package ghclient

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/google/go-github/v66/github"
)

// maxNonDefaultBranches caps the non-default branches selected for a
// deep scan at 5 (6 total including the default branch), per spec.
const maxNonDefaultBranches = 5

// wellKnownBranches are scanned in addition to the default branch,
// regardless of repository.
var wellKnownBranches = []string{"stable", "next", "latest", "canary", "dev", "develop"}

var versionBranchPattern = regexp.MustCompile(`^[vV]\d`)

// ListBranches returns up to 100 branch names for a repository.
func (c *Client) ListBranches(ctx context.Context, owner, repo string) ([]string, error) {
	credential, _, err := c.acquire(ctx)
	if err != nil {
		return nil, err
	}

	var names []string
	err = c.call(ctx, credential, func(rc *github.Client) (*github.Response, error) {
		branches, resp, err := rc.Repositories.ListBranches(ctx, owner, repo, &github.BranchListOptions{
			ListOptions: github.ListOptions{PerPage: 100},
		})
		if err != nil {
			return resp, err
		}
		names = make([]string, 0, len(branches))
		for _, b := range branches {
			names = append(names, b.GetName())
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// FilterAndSortBranches picks a deterministic, bounded set of branches to
// deep-scan:
//  1. always the default branch
//  2. exact well-known names
//  3. release/ or releases/-prefixed branches
//  4. up to 5 version-style branches (^[vV]\d), descending semver order
//  5. caller-provided extra patterns (exact or prefix match)
//  6. non-default branches capped at maxNonDefaultBranches total
//
// It is a pure function of its inputs: only entries present in all are
// ever returned, and the result is stable across calls with the same
// arguments.
func FilterAndSortBranches(all []string, defaultBranch string, extras []string) []string {
	present := make(map[string]bool, len(all))
	for _, b := range all {
		present[b] = true
	}

	selected := make([]string, 0, maxNonDefaultBranches+1)
	seen := make(map[string]bool, maxNonDefaultBranches+1)
	hasDefault := false

	addDefault := func(name string) {
		if name == "" || seen[name] || !present[name] {
			return
		}
		selected = append(selected, name)
		seen[name] = true
		hasDefault = true
	}
	addNonDefault := func(name string) bool {
		if name == "" || seen[name] || !present[name] {
			return false
		}
		nonDefaultCount := len(selected)
		if hasDefault {
			nonDefaultCount--
		}
		if nonDefaultCount >= maxNonDefaultBranches {
			return false
		}
		selected = append(selected, name)
		seen[name] = true
		return true
	}

	addDefault(defaultBranch)

	for _, b := range wellKnownBranches {
		addNonDefault(b)
	}

	var releasePrefixed []string
	var versionCandidates []string
	for _, b := range all {
		if seen[b] {
			continue
		}
		if strings.HasPrefix(b, "release/") || strings.HasPrefix(b, "releases/") {
			releasePrefixed = append(releasePrefixed, b)
			continue
		}
		if versionBranchPattern.MatchString(b) {
			versionCandidates = append(versionCandidates, b)
		}
	}
	sort.Strings(releasePrefixed)
	for _, rb := range releasePrefixed {
		addNonDefault(rb)
	}

	type versionBranch struct {
		name string
		ver  *semver.Version
	}
	var versioned []versionBranch
	for _, b := range versionCandidates {
		v, err := semver.NewVersion(strings.TrimPrefix(b, "v"))
		if err != nil {
			v, err = semver.NewVersion(strings.TrimPrefix(b, "V"))
			if err != nil {
				continue
			}
		}
		versioned = append(versioned, versionBranch{name: b, ver: v})
	}
	sort.Slice(versioned, func(i, j int) bool { return versioned[i].ver.GreaterThan(versioned[j].ver) })
	for _, vb := range versioned {
		addNonDefault(vb.name)
	}

	for _, e := range extras {
		for _, b := range all {
			if seen[b] {
				continue
			}
			if b == e || strings.HasPrefix(b, e) {
				addNonDefault(b)
			}
		}
	}

	return selected
}
