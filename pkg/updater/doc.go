// Package updater brings a recipe in line with its newest upstream version.
//
// [Synchronizer.Sync] walks one recipe through a fixed sequence of steps,
// each of which may end it:
//
//	inspect   read context.version, package.name and the first source entry
//	skip      local path sources, and sources with neither url nor git
//	resolve   ask the source registry for the newest candidate
//	compare   current >= upstream is up to date unless forced
//	dry run   report would_update and stop
//	hash      download the new archive and compute its sha256
//	apply     write version, url and sha256 in one edit
//
// The hash is computed before anything is edited. If it fails the recipe is
// left exactly as it was read, so a recipe never pairs a new version with a
// stale hash.
//
// When the recipe's url is a template such as
// "https://example.com/tool-${{ version }}.tar.gz" and expanding it with the
// new version gives exactly the resolved download URL, the template is kept
// and only the version and hash change.
//
// Git sources are resolved and compared but never rewritten; an update
// attempt reports NOT_IMPLEMENTED.
package updater
