package cli

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/recipesync/pkg/buildinfo"
	"github.com/matzehuels/recipesync/pkg/cache"
	"github.com/matzehuels/recipesync/pkg/httputil"
	"github.com/matzehuels/recipesync/pkg/integrations/condaforge"
	ghapi "github.com/matzehuels/recipesync/pkg/integrations/github"
	gemapi "github.com/matzehuels/recipesync/pkg/integrations/rubygems"
	"github.com/matzehuels/recipesync/pkg/pipeline"
	"github.com/matzehuels/recipesync/pkg/source"
	"github.com/matzehuels/recipesync/pkg/source/git"
	"github.com/matzehuels/recipesync/pkg/source/github"
	"github.com/matzehuels/recipesync/pkg/source/rubygems"
	"github.com/matzehuels/recipesync/pkg/updater"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "recipesync"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command output. Defaults to os.Stdout.
	Out io.Writer

	cfg   Config
	flags globalFlags
}

// globalFlags holds the persistent flags bound on the root command.
type globalFlags struct {
	configPath string
	jsonOutput bool
	noCache    bool
	refresh    bool
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		cfg:    defaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// services bundles everything a sync command needs, built from the config.
type services struct {
	cache      cache.Cache
	github     *ghapi.Client
	rubygems   *gemapi.Client
	condaforge *condaforge.Client
	registry   *source.Registry
	download   *http.Client
}

// newServices wires clients, resolvers and the cache for one invocation.
func (c *CLI) newServices() (*services, error) {
	backend, err := c.newCache()
	if err != nil {
		return nil, err
	}
	ttl := c.cfg.CacheTTL.Duration
	timeout := c.cfg.Timeout.Duration
	userAgent := buildinfo.UserAgent(appName)

	// One transport for every GitHub client so they share the token bucket.
	ghHTTP := &http.Client{
		Timeout: timeout,
		Transport: httputil.NewTransport(httputil.TransportOptions{
			UserAgent:     userAgent,
			RatePerSecond: c.cfg.GitHubRate,
			Burst:         int(max(c.cfg.GitHubRate, 1)),
			LimitedHosts:  []string{"api.github.com"},
		}),
	}
	plainHTTP := &http.Client{
		Timeout:   timeout,
		Transport: httputil.NewTransport(httputil.TransportOptions{UserAgent: userAgent}),
	}

	s := &services{cache: backend, download: plainHTTP}
	s.github = ghapi.NewClient(backend, c.cfg.GitHubToken, ttl).WithBaseURL(c.cfg.GitHubAPI)
	s.github.WithHTTPClient(ghHTTP)
	s.rubygems = gemapi.NewClient(backend, ttl).WithBaseURL(c.cfg.RubyGemsAPI)
	s.rubygems.WithHTTPClient(plainHTTP)
	s.condaforge = condaforge.NewClient(backend, ttl).WithBaseURL(c.cfg.CondaForgeAPI)
	s.condaforge.WithHTTPClient(plainHTTP)

	gh := github.New(s.github)
	gh.Logger = c.Logger
	gr := git.New(git.ExecLister{Timeout: timeout})
	gr.Logger = c.Logger
	s.registry = source.NewRegistry(gh, rubygems.New(s.rubygems), gr)
	s.registry.Logger = c.Logger
	return s, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(s *services) *pipeline.Runner {
	syncer := updater.New(s.registry, updater.HTTPHasher{Client: s.download})
	syncer.Archives = s.github
	syncer.Logger = c.Logger
	return pipeline.NewRunner(syncer, s.condaforge, c.Logger)
}

func (c *CLI) newCache() (cache.Cache, error) {
	if c.flags.noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the configured cache directory, falling back to [cacheDir].
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.CacheDir != "" {
		return c.cfg.CacheDir, nil
	}
	return cacheDir()
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/recipesync/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
