package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

// defaultConfigFile is read from the working directory when --config is not given.
const defaultConfigFile = "recipesync.toml"

// Config is the merged runtime configuration.
// Sources apply in order: defaults, TOML file, environment, flags.
type Config struct {
	RecipesDir    string   `toml:"recipes_dir"`
	Concurrency   int      `toml:"concurrency"`
	Timeout       duration `toml:"timeout"`
	CacheTTL      duration `toml:"cache_ttl"`
	CondaForge    bool     `toml:"conda_forge"`
	GitHubRate    float64  `toml:"github_rate"` // Requests per second to the GitHub API
	GitHubAPI     string   `toml:"github_api"`
	RubyGemsAPI   string   `toml:"rubygems_api"`
	CondaForgeAPI string   `toml:"conda_forge_api"`

	// Environment only.
	GitHubToken string `toml:"-"`
	CacheDir    string `toml:"-"`
}

// duration decodes TOML strings such as "30s" or "1h".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func defaultConfig() Config {
	return Config{
		RecipesDir:  "./pkgs",
		Concurrency: 1,
		Timeout:     duration{30 * time.Second},
		CacheTTL:    duration{time.Hour},
		GitHubRate:  5,
	}
}

// loadConfig builds the configuration for a command invocation. A missing
// default config file is not an error; a missing explicit one is.
func loadConfig(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	if err := cfg.readFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return cfg, err
		}
	}

	cfg.applyEnv()
	if flags != nil {
		if err := cfg.applyFlags(flags); err != nil {
			return cfg, err
		}
	}
	if cfg.Concurrency < 1 {
		return cfg, fmt.Errorf("concurrency must be at least 1, got %d", cfg.Concurrency)
	}
	if cfg.Timeout.Duration <= 0 {
		return cfg, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout.Duration)
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		c.GitHubToken = token
	}
	if dir := os.Getenv("RECIPESYNC_CACHE_DIR"); dir != "" {
		c.CacheDir = dir
	}
}

// applyFlags overrides fields whose flag was set on the command line.
func (c *Config) applyFlags(flags *pflag.FlagSet) error {
	var err error
	set := func(name string, apply func() error) {
		if err == nil && flags.Changed(name) {
			err = apply()
		}
	}
	set("recipes-dir", func() (e error) { c.RecipesDir, e = flags.GetString("recipes-dir"); return })
	set("concurrency", func() (e error) { c.Concurrency, e = flags.GetInt("concurrency"); return })
	set("timeout", func() (e error) { c.Timeout.Duration, e = flags.GetDuration("timeout"); return })
	set("conda-forge", func() (e error) { c.CondaForge, e = flags.GetBool("conda-forge"); return })
	return err
}
