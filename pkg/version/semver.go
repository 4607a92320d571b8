package version

import "github.com/Masterminds/semver/v3"

// Compare parses a and b as semantic versions and reports their order:
// -1 if a < b, 0 if equal, 1 if a > b. ok is false if either string is
// not valid semver, in which case the int result is meaningless.
func Compare(a, b string) (result int, ok bool) {
	av, err := semver.NewVersion(a)
	if err != nil {
		return 0, false
	}
	bv, err := semver.NewVersion(b)
	if err != nil {
		return 0, false
	}
	return av.Compare(bv), true
}

// IsRegression reports whether candidate is an older semver release than
// current. Unparseable inputs never count as a regression, since a
// catalog entry's declared version is free-form text and frequently
// isn't semver at all.
func IsRegression(candidate, current string) bool {
	cmp, ok := Compare(candidate, current)
	return ok && cmp < 0
}
