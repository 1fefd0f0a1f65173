// Package github provides an HTTP client for the GitHub REST API.
//
// # Overview
//
// This package lists releases and tags of a repository
// (https://api.github.com) so that recipesync can discover the newest
// upstream version of a recipe whose source lives on GitHub.
//
// # Usage
//
//	client := github.NewClient(cache.NewNullCache(), token, time.Hour)
//
//	releases, err := client.ListReleases(ctx, "BurntSushi", "ripgrep", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range releases {
//	    fmt.Println(r.TagName, github.ArchiveURL("BurntSushi", "ripgrep", r.TagName))
//	}
//
// # Authentication
//
// A GitHub personal access token is optional but recommended to avoid rate
// limits. Without a token, the client is limited to 60 requests/hour.
// With a token, the limit is 5000 requests/hour. Exhausted limits surface
// as [integrations.ErrRateLimited].
//
// # Archive URLs
//
// [ArchiveURL] builds the tag-pinned archive link
// https://github.com/{owner}/{repo}/archive/refs/tags/{tag}.tar.gz. It is
// always preferred over the API's tarball_url, which redirects to a
// codeload "legacy" link. [ResolveArchive] exists for recipes that already
// point at an API tarball URL and rewrites legacy links to the pinned form.
//
// # Caching
//
// Responses are cached to reduce API calls. The cache TTL is set when
// creating the client. Pass refresh=true to bypass the cache.
//
// # URL Parsing
//
// [ParseRepoURL] extracts owner and repo from github.com, api.github.com and
// codeload.github.com URLs, with or without git transport prefixes.
package github
