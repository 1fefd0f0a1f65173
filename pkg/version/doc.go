// Package version implements the version selection algorithm shared by every
// upstream resolver.
//
// # Overview
//
// Upstreams name their releases in wildly different ways: "v1.2.3",
// "ripgrep-14.1.0", "release-2.0", "VERSION_3_1". Selection runs in four
// steps over the raw identifiers:
//
//  1. [Normalize] strips a leading "<package><sep>" and then exactly one
//     prefix family: "version"/"release" (any case) or a single "v"/"V".
//  2. [Patterns.Match] tests the normalized identifier against the
//     configured regular expressions in order. The first match wins; its
//     first capture group (or the whole match) becomes the version.
//  3. [Rank] orders the survivors newest first by semantic version. If any
//     version fails to parse, the whole list falls back to descending string
//     order so that the ordering is always total and consistent.
//  4. [Select] returns the head of the ranked list. Ties keep input order.
//
// [Compare] applies the same semantic-then-string policy to two versions and
// is what the synchronizer uses to decide whether an update is warranted.
//
// # Patterns
//
// When a recipe configures no patterns, [DefaultPattern] is used:
//
//	^v?(\d+\.\d+\.\d+)
//
// Invalid expressions are skipped and reported by [Compile] so the caller can
// log them; they never abort selection.
package version
