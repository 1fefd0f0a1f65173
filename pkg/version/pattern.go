package version

import (
	"fmt"
	"regexp"
)

// DefaultPattern is applied when a recipe configures no version patterns.
const DefaultPattern = `^v?(\d+\.\d+\.\d+)`

// Patterns is an ordered set of compiled version patterns.
type Patterns []*regexp.Regexp

// Compile compiles raw in order. Invalid expressions are skipped and returned
// as errors for the caller to log. An empty raw list yields [DefaultPattern].
func Compile(raw []string) (Patterns, []error) {
	if len(raw) == 0 {
		return Patterns{regexp.MustCompile(DefaultPattern)}, nil
	}
	var (
		out  Patterns
		errs []error
	)
	for _, p := range raw {
		re, err := regexp.Compile(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid version pattern %q: %w", p, err))
			continue
		}
		out = append(out, re)
	}
	return out, errs
}

// MustCompile is like [Compile] but panics on the first invalid pattern.
// It is intended for tests and package-level defaults.
func MustCompile(raw ...string) Patterns {
	p, errs := Compile(raw)
	if len(errs) > 0 {
		panic(errs[0])
	}
	return p
}

// Match returns the version extracted from id by the first matching pattern:
// its first capture group, or the whole match when the pattern has none.
// Patterns are anchored at the start of id whether or not they begin with "^",
// so "(\d+)" does not pick digits out of the middle of "foo-bar-2".
func (p Patterns) Match(id string) (string, bool) {
	for _, re := range p {
		loc := re.FindStringSubmatchIndex(id)
		if loc == nil || loc[0] != 0 {
			continue
		}
		if len(loc) >= 4 && loc[2] >= 0 {
			return id[loc[2]:loc[3]], true
		}
		return id[loc[0]:loc[1]], true
	}
	return "", false
}

// Strings returns the source text of every pattern.
func (p Patterns) Strings() []string {
	out := make([]string, len(p))
	for i, re := range p {
		out[i] = re.String()
	}
	return out
}
