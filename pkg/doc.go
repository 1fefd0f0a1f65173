// Package pkg provides the core libraries of recipesync.
//
// # Overview
//
// recipesync keeps build recipes in step with upstream releases. For each
// recipe it finds the newest upstream version, downloads and hashes the new
// source archive, and rewrites version, url and sha256 in place. The pkg
// directory is organized into these areas:
//
//  1. [recipe] - Recipe documents: field access and surgical, verified edits
//  2. [version] - Version patterns, tag normalization and ranking
//  3. [source] - Resolver registry and the GitHub, Git and RubyGems resolvers
//  4. [updater] - The per-recipe synchronization state machine
//  5. [pipeline] - Batch runs over a recipes directory with statistics
//  6. [integrations] - HTTP clients for GitHub, RubyGems and conda-forge
//
// Supporting packages: [cache] (API response cache), [httputil] (retry,
// rate limited transports, streaming sha256), [errors] (coded errors),
// [observability] (hooks) and [buildinfo].
//
// # Architecture
//
// The typical data flow for one recipe:
//
//	recipe.yaml
//	     ↓
//	[recipe] package (version, package name, sources, version config)
//	     ↓
//	[source] registry (pick resolver by URL, apply mode policy)
//	     ↓
//	[version] package (match patterns, rank candidates)
//	     ↓
//	[updater] package (compare, hash, apply edit)
//	     ↓
//	recipe.yaml (only when the hash succeeded)
//
// # Quick Start
//
// Synchronize one recipe:
//
//	import (
//	    "github.com/matzehuels/recipesync/pkg/integrations/github"
//	    "github.com/matzehuels/recipesync/pkg/source"
//	    ghsource "github.com/matzehuels/recipesync/pkg/source/github"
//	    "github.com/matzehuels/recipesync/pkg/updater"
//	)
//
//	client := github.NewClient(nil, os.Getenv("GITHUB_TOKEN"), time.Hour)
//	reg := source.NewRegistry(ghsource.New(client))
//	d := updater.New(reg, nil).SyncFile(ctx, "pkgs/ripgrep/recipe.yaml", updater.Options{})
//	fmt.Println(d.Outcome, d.Current, d.Candidate)
//
// [recipe]: github.com/matzehuels/recipesync/pkg/recipe
// [version]: github.com/matzehuels/recipesync/pkg/version
// [source]: github.com/matzehuels/recipesync/pkg/source
// [updater]: github.com/matzehuels/recipesync/pkg/updater
// [pipeline]: github.com/matzehuels/recipesync/pkg/pipeline
// [integrations]: github.com/matzehuels/recipesync/pkg/integrations
// [cache]: github.com/matzehuels/recipesync/pkg/cache
// [httputil]: github.com/matzehuels/recipesync/pkg/httputil
// [errors]: github.com/matzehuels/recipesync/pkg/errors
// [observability]: github.com/matzehuels/recipesync/pkg/observability
// [buildinfo]: github.com/matzehuels/recipesync/pkg/buildinfo
package pkg
