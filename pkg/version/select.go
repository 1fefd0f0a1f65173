package version

// Match is an identifier that survived pattern filtering.
type Match struct {
	Raw     string // Identifier as the upstream reported it (tag or release name)
	Version string // Version extracted by the first matching pattern
	Index   int    // Position of Raw in the input list
}

// Filter keeps the identifiers that match a pattern, in input order. Each
// identifier is tried in its normalized form first, then without the package
// prefix, then as reported, so a pattern such as `^v(\d+\.\d+\.\d+)` that
// spells out the prefix still matches.
func Filter(ids []string, pkg string, patterns Patterns) []Match {
	var out []Match
	for i, id := range ids {
		if id == "" {
			continue
		}
		for _, f := range forms(id, pkg) {
			if v, ok := patterns.Match(f); ok && v != "" {
				out = append(out, Match{Raw: id, Version: v, Index: i})
				break
			}
		}
	}
	return out
}

// Select runs the full selection pipeline over ids and returns the newest
// match. The boolean is false when nothing matches; that is not an error.
func Select(ids []string, pkg string, patterns Patterns) (Match, bool) {
	matches := Filter(ids, pkg, patterns)
	if len(matches) == 0 {
		return Match{}, false
	}
	RankFunc(matches, func(m Match) string { return m.Version })
	return matches[0], true
}
