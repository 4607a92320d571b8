package ghclient

import "testing"

func TestFilterAndSortBranches_StartsWithDefault(t *testing.T) {
	all := []string{"main", "develop", "v1.0.0", "v2.0.0", "release/3.0"}
	got := FilterAndSortBranches(all, "main", nil)
	if len(got) == 0 || got[0] != "main" {
		t.Fatalf("expected default branch first, got %v", got)
	}
}

func TestFilterAndSortBranches_CapsAtSix(t *testing.T) {
	all := []string{
		"main", "master", "develop", "dev",
		"v1.0.0", "v1.1.0", "v1.2.0", "v1.3.0", "v1.4.0", "v1.5.0",
		"release/1.0", "release/2.0",
	}
	got := FilterAndSortBranches(all, "main", []string{"release/2.0"})
	if max := maxNonDefaultBranches + 1; len(got) > max {
		t.Errorf("expected at most %d branches, got %d: %v", max, len(got), got)
	}
}

func TestFilterAndSortBranches_OnlyContainsInputBranches(t *testing.T) {
	all := []string{"main", "v1.0.0"}
	got := FilterAndSortBranches(all, "main", []string{"does-not-exist"})
	present := map[string]bool{"main": true, "v1.0.0": true}
	for _, b := range got {
		if !present[b] {
			t.Errorf("FilterAndSortBranches returned branch %q not in input set", b)
		}
	}
}

func TestFilterAndSortBranches_Deterministic(t *testing.T) {
	all := []string{"main", "develop", "v2.0.0", "v1.0.0", "v3.0.0"}
	first := FilterAndSortBranches(all, "main", nil)
	second := FilterAndSortBranches(all, "main", nil)
	if len(first) != len(second) {
		t.Fatalf("non-deterministic lengths: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("non-deterministic at index %d: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestFilterAndSortBranches_SemverDescending(t *testing.T) {
	all := []string{"main", "v1.0.0", "v2.5.0", "v1.9.0"}
	got := FilterAndSortBranches(all, "main", nil)

	idx := func(name string) int {
		for i, b := range got {
			if b == name {
				return i
			}
		}
		return -1
	}
	if idx("v2.5.0") == -1 || idx("v1.9.0") == -1 || idx("v1.0.0") == -1 {
		t.Fatalf("expected all version branches present, got %v", got)
	}
	if idx("v2.5.0") > idx("v1.9.0") || idx("v1.9.0") > idx("v1.0.0") {
		t.Errorf("expected descending semver order, got %v", got)
	}
}

func TestFilterAndSortBranches_NoDefault(t *testing.T) {
	all := []string{"main", "develop"}
	got := FilterAndSortBranches(all, "", nil)
	if len(got) == 0 {
		t.Fatal("expected well-known branches even without a default")
	}
}
