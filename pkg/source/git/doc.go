// Package git resolves upstream versions of arbitrary Git remotes.
//
// Remotes are inspected with "git ls-remote", so nothing is cloned. Tags are
// filtered and ranked like every other source; when no tag matches and the
// request was auto-detected, the head of the default branch is reported with
// the first eight characters of its commit as the version. Branch candidates
// carry no download URL.
//
// The git binary is reached through the [Lister] interface; [ExecLister] is
// the production implementation.
package git
