// Package github resolves upstream versions from GitHub releases and tags.
//
// The resolver claims github.com, api.github.com and codeload.github.com
// URLs, including git+https and scp-style clone URLs. It has two paths:
//
//   - releases: GET /repos/{owner}/{repo}/releases, drafts and pre-releases
//     excluded
//   - tags: GET /repos/{owner}/{repo}/tags
//
// Auto-detected requests try releases first and fall back to tags when no
// release matches. A pinned mode runs its path alone. Either way the
// candidate's download URL is the deterministic tag archive
// https://github.com/{owner}/{repo}/archive/refs/tags/{tag}.tar.gz.
package github
