// Package buildinfo holds version details stamped in at link time:
//
//	go build -ldflags "\
//	    -X github.com/matzehuels/recipesync/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/recipesync/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/recipesync/pkg/buildinfo.Date=$(date -u +%Y-%m-%d)" \
//	    ./cmd/recipesync
package buildinfo

import "fmt"

// Unstamped builds report these values.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}

// UserAgent identifies app in upstream API requests. GitHub rejects requests
// without one.
func UserAgent(app string) string {
	if Commit == "none" {
		return app + "/" + Version
	}
	return fmt.Sprintf("%s/%s (%s)", app, Version, Commit)
}
