package version

import (
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Compare compares two versions. When both parse as strict semantic versions
// the semantic order is used; otherwise the plain strings are compared.
// It returns -1, 0 or +1 and never panics.
func Compare(a, b string) int {
	va, errA := semver.StrictNewVersion(a)
	vb, errB := semver.StrictNewVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}
	return strings.Compare(a, b)
}

// Rank returns a copy of versions sorted newest first.
// See [RankFunc] for the ordering policy.
func Rank(versions []string) []string {
	out := slices.Clone(versions)
	RankFunc(out, func(s string) string { return s })
	return out
}

// RankFunc sorts items in place, newest first, by the version key returns.
//
// All keys are parsed as strict semantic versions. If every key parses the
// items are ordered semantically; if any key fails, semantic parsing is
// abandoned for the whole list and keys are ordered as descending strings.
// Mixing the two comparators per pair would not give a total order. The sort
// is stable: equal keys keep their input order.
func RankFunc[T any](items []T, key func(T) string) {
	parsed := make([]*semver.Version, len(items))
	strict := true
	for i, it := range items {
		v, err := semver.StrictNewVersion(key(it))
		if err != nil {
			strict = false
			break
		}
		parsed[i] = v
	}

	if !strict {
		slices.SortStableFunc(items, func(a, b T) int {
			return strings.Compare(key(b), key(a))
		})
		return
	}

	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return parsed[b].Compare(parsed[a])
	})
	sorted := make([]T, len(items))
	for i, j := range idx {
		sorted[i] = items[j]
	}
	copy(items, sorted)
}
