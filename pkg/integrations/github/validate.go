package github

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/matzehuels/recipesync/pkg/integrations"
)

// Regex patterns for GitHub resource validation.
var (
	// GitHub usernames/orgs: 1-39 alphanumeric or hyphen, not starting with hyphen
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// GitHub repo names: 1-100 alphanumeric, hyphen, underscore, or dot
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// Hosts lists the hostnames served by GitHub for repositories and archives.
var Hosts = []string{"github.com", "api.github.com", "codeload.github.com"}

// ValidateOwner validates a GitHub username or organization name.
func ValidateOwner(owner string) error {
	if owner == "" {
		return errors.New("owner is required")
	}
	if !validOwner.MatchString(owner) {
		return errors.New("invalid owner format: must be 1-39 alphanumeric characters or hyphens, cannot start with hyphen")
	}
	return nil
}

// ValidateRepo validates a GitHub repository name.
func ValidateRepo(repo string) error {
	if repo == "" {
		return errors.New("repo is required")
	}
	if !validRepo.MatchString(repo) {
		return errors.New("invalid repo format: must be 1-100 alphanumeric characters, hyphens, underscores, or dots")
	}
	return nil
}

// ValidateRepoRef validates both owner and repo parameters.
func ValidateRepoRef(owner, repo string) error {
	if err := ValidateOwner(owner); err != nil {
		return err
	}
	return ValidateRepo(repo)
}

// IsHost reports whether host is one of [Hosts]. An explicit port is ignored.
func IsHost(host string) bool {
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	for _, h := range Hosts {
		if strings.EqualFold(host, h) {
			return true
		}
	}
	return false
}

// ParseRepoURL extracts owner and repo from any GitHub source URL:
//
//	https://github.com/{owner}/{repo}[/...]
//	git+https://github.com/{owner}/{repo}.git
//	git@github.com:{owner}/{repo}.git
//	https://api.github.com/repos/{owner}/{repo}/tarball/{ref}
//	https://codeload.github.com/{owner}/{repo}/tar.gz/{ref}
func ParseRepoURL(raw string) (RepoRef, error) {
	host, path := integrations.SplitURL(integrations.NormalizeRepoURL(raw))
	if !IsHost(host) {
		return RepoRef{}, fmt.Errorf("not a github URL: %s", raw)
	}

	parts := strings.Split(strings.Trim(path, "/"), "/")
	var ref RepoRef
	if strings.EqualFold(host, "api.github.com") {
		if len(parts) < 3 || parts[0] != "repos" {
			return RepoRef{}, fmt.Errorf("invalid GitHub API URL: %s", raw)
		}
		parts = parts[1:]
		ref.APITarball = len(parts) >= 3 && (parts[2] == "tarball" || parts[2] == "zipball")
	}
	if len(parts) < 2 {
		return RepoRef{}, fmt.Errorf("invalid GitHub URL format: %s", raw)
	}
	ref.Owner = parts[0]
	ref.Repo = strings.TrimSuffix(parts[1], ".git")

	if err := ValidateRepoRef(ref.Owner, ref.Repo); err != nil {
		return RepoRef{}, fmt.Errorf("%s: %w", raw, err)
	}
	return ref, nil
}
