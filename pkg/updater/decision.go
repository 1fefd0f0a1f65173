package updater

import (
	"github.com/matzehuels/recipesync/pkg/recipe"
	"github.com/matzehuels/recipesync/pkg/source"
)

// Outcome is the terminal state of one synchronization.
type Outcome string

const (
	OutcomeUpToDate    Outcome = "up_to_date"
	OutcomeWouldUpdate Outcome = "would_update"
	OutcomeUpdated     Outcome = "updated"
	OutcomeFailed      Outcome = "failed"
	OutcomeSkipped     Outcome = "skipped"
)

// Decision describes what happened to one recipe.
type Decision struct {
	Outcome Outcome `json:"outcome"`
	Package string  `json:"package"`
	Current string  `json:"current_version,omitempty"`

	// Candidate is set once upstream resolution succeeded.
	Candidate *source.Candidate `json:"candidate,omitempty"`

	// URL is the archive that was hashed.
	URL          string `json:"url,omitempty"`
	SHA256       string `json:"sha256,omitempty"`
	TemplateKept bool   `json:"template_kept,omitempty"`

	SourceKind recipe.SourceKind `json:"-"`

	// Unsupported marks recipes skipped because their source has neither a
	// url nor a git remote.
	Unsupported bool `json:"unsupported,omitempty"`

	// Ambiguous marks recipes with more than one source entry; only the
	// first one was considered.
	Ambiguous bool `json:"ambiguous,omitempty"`

	// UpstreamNewer is set when upstream is ahead of the recipe, whether or
	// not the update then succeeded.
	UpstreamNewer bool `json:"upstream_newer,omitempty"`

	// Written is true when the recipe file was saved.
	Written bool `json:"written,omitempty"`

	Err error `json:"-"`
}
