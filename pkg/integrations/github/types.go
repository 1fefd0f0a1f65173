package github

import "time"

// Release is a published GitHub release.
type Release struct {
	TagName     string     `json:"tag_name"`
	Name        string     `json:"name"`
	Draft       bool       `json:"draft"`
	Prerelease  bool       `json:"prerelease"`
	TarballURL  string     `json:"tarball_url,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Tag is a git tag as reported by the GitHub tags endpoint.
type Tag struct {
	Name       string `json:"name"`
	CommitSHA  string `json:"commit_sha"`
	TarballURL string `json:"tarball_url,omitempty"`
}

// RepoRef identifies a repository parsed from a source URL.
type RepoRef struct {
	Owner string
	Repo  string

	// APITarball is set when the source URL is an API tarball link
	// (api.github.com/repos/{owner}/{repo}/tarball/{ref}).
	APITarball bool
}

// String returns "owner/repo".
func (r RepoRef) String() string { return r.Owner + "/" + r.Repo }
