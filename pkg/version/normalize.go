package version

import "strings"

const packageSeparators = "-_/.@"

var wordPrefixes = []string{"version", "release"}

// Normalize cleans a raw tag or release name for pattern matching.
//
// A leading occurrence of pkg followed by one of "-_/.@" is removed first
// (case-insensitive). Then exactly one prefix family is stripped: the words
// "version" or "release" (any case, optionally followed by a separator), or
// else a single "v"/"V". A prefix is only stripped when a digit follows it,
// which makes Normalize idempotent on its own output.
func Normalize(tag, pkg string) string {
	s := trimPackage(strings.TrimSpace(tag), pkg)

	lower := strings.ToLower(s)
	for _, w := range wordPrefixes {
		if !strings.HasPrefix(lower, w) {
			continue
		}
		rest := s[len(w):]
		if rest != "" && strings.IndexByte(packageSeparators+" :", rest[0]) >= 0 {
			rest = rest[1:]
		}
		if startsWithDigit(rest) {
			return rest
		}
		return s
	}

	if len(s) > 1 && (s[0] == 'v' || s[0] == 'V') && startsWithDigit(s[1:]) {
		return s[1:]
	}
	return s
}

// trimPackage removes a leading "<pkg><sep>" from s.
func trimPackage(s, pkg string) string {
	if pkg != "" && len(s) > len(pkg)+1 && strings.EqualFold(s[:len(pkg)], pkg) &&
		strings.IndexByte(packageSeparators, s[len(pkg)]) >= 0 {
		return s[len(pkg)+1:]
	}
	return s
}

// forms returns the spellings of tag that patterns are tried against, most
// cleaned first: the normalized form, the tag without the package prefix, and
// the tag as reported. Duplicates are dropped.
func forms(tag, pkg string) []string {
	raw := strings.TrimSpace(tag)
	out := []string{Normalize(raw, pkg)}
	for _, f := range []string{trimPackage(raw, pkg), raw} {
		if f != out[len(out)-1] && (len(out) < 2 || f != out[0]) {
			out = append(out, f)
		}
	}
	return out
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
