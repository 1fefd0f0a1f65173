// Package rubygems provides an HTTP client for the RubyGems.org API.
//
// # Overview
//
// This package fetches the latest published version of a gem from
// RubyGems.org (https://rubygems.org). The registry exposes a single
// latest-version endpoint, so there is no candidate list to rank.
//
// # Usage
//
//	client := rubygems.NewClient(cache.NewNullCache(), time.Hour)
//
//	gem, err := client.FetchGem(ctx, "rails", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(gem.Name, gem.Version)
//	fmt.Println(rubygems.DownloadURL(gem.Name, gem.Version))
//
// # Caching
//
// Responses are cached to reduce load on RubyGems. The cache TTL is set
// when creating the client. Pass refresh=true to bypass the cache.
//
// # Gem names from URLs
//
// [GemNameFromURL] recovers the gem name from recipe source URLs such as
// https://rubygems.org/downloads/rake-${{ version }}.gem.
package rubygems
