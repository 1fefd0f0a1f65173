package pipeline

import (
	"sync"

	"github.com/matzehuels/recipesync/pkg/errors"
	"github.com/matzehuels/recipesync/pkg/updater"
)

// Stats are the aggregate counters of a run.
type Stats struct {
	TotalPackages           int           `json:"total_packages"`
	PackagesOnCondaForge    int           `json:"packages_on_conda_forge"`
	PackagesNotOnCondaForge int           `json:"packages_not_on_conda_forge"`
	PackagesUpdated         int           `json:"packages_updated"`
	PackagesUpToDate        int           `json:"packages_up_to_date"`
	PackagesWithErrors      int           `json:"packages_with_errors"`
	CondaForgeNewer         int           `json:"conda_forge_newer"`
	UpstreamNewer           int           `json:"upstream_newer"`
	UnsupportedSources      int           `json:"unsupported_sources"`
	ErrorDetails            []ErrorDetail `json:"error_details"`
}

// ErrorDetail records why one recipe failed.
type ErrorDetail struct {
	Package string      `json:"package"`
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// SuccessRate is the share of packages that ended updated or up to date,
// in percent. It is zero for an empty run.
func (s *Stats) SuccessRate() float64 {
	if s.TotalPackages == 0 {
		return 0
	}
	return float64(s.PackagesUpdated+s.PackagesUpToDate) / float64(s.TotalPackages) * 100
}

// collector aggregates stats from concurrent workers.
type collector struct {
	mu    sync.Mutex
	stats Stats
}

func (c *collector) condaForge(st *CondaForgeStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !st.Exists {
		c.stats.PackagesNotOnCondaForge++
		return
	}
	c.stats.PackagesOnCondaForge++
	if st.Newer {
		c.stats.CondaForgeNewer++
	}
}

func (c *collector) decision(d updater.Decision) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.TotalPackages++
	if d.UpstreamNewer {
		c.stats.UpstreamNewer++
	}
	switch d.Outcome {
	case updater.OutcomeUpdated:
		c.stats.PackagesUpdated++
	case updater.OutcomeUpToDate:
		c.stats.PackagesUpToDate++
	case updater.OutcomeSkipped:
		if d.Unsupported {
			c.stats.UnsupportedSources++
		}
	case updater.OutcomeFailed:
		c.stats.PackagesWithErrors++
	}
}

// finish returns the counters with error details listed in result order.
func (c *collector) finish(results []Result) Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.ErrorDetails = []ErrorDetail{}
	for _, r := range results {
		if r.Outcome != updater.OutcomeFailed {
			continue
		}
		s.ErrorDetails = append(s.ErrorDetails, ErrorDetail{
			Package: r.Package,
			Code:    errors.CodeOr(r.Decision.Err, errors.ErrCodeInternal),
			Message: errorMessage(r.Decision.Err),
		})
	}
	return s
}

func errorMessage(err error) string {
	if err == nil {
		return "unknown error"
	}
	return errors.UserMessage(err)
}
