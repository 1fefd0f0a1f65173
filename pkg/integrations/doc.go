// Package integrations provides HTTP clients for the upstream APIs that
// recipesync queries.
//
// # Overview
//
// Each upstream has its own subpackage:
//
//   - [github]: releases, tags and API tarball redirects
//   - [rubygems]: latest gem versions and download URLs
//   - [condaforge]: published versions on the conda-forge channel
//
// # Client Pattern
//
// All clients embed [Client] and follow the same pattern:
//
//	client := rubygems.NewClient(backend, time.Hour) // Cache TTL
//	info, err := client.FetchGem(ctx, "rake", false) // false = use cache
//
// Clients handle:
//   - HTTP requests with retry and backoff for transient failures
//   - Response caching through [cache.Cache], keyed per client prefix
//   - API-specific parsing and normalization
//
// # Errors
//
// Clients return [ErrNotFound], [ErrNetwork] and [ErrRateLimited] wrapped with
// context. Resolvers in pkg/source translate them into coded errors.
//
// [github]: github.com/matzehuels/recipesync/pkg/integrations/github
// [rubygems]: github.com/matzehuels/recipesync/pkg/integrations/rubygems
// [condaforge]: github.com/matzehuels/recipesync/pkg/integrations/condaforge
// [cache.Cache]: github.com/matzehuels/recipesync/pkg/cache.Cache
package integrations
