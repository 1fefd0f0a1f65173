// Package cli implements the recipesync command-line interface.
//
// This package provides commands for checking recipes against their upstream
// releases, applying updates, probing a single source URL, and managing the
// HTTP response cache. The CLI is built using cobra and logs through the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - check: Report which recipes have a newer upstream version
//   - update: Rewrite version, url and sha256 of outdated recipes
//   - list: Show the recipes found in the recipes directory
//   - resolve: Resolve one source URL (debugging aid)
//   - cache: Manage the HTTP response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context and injected into the runner, the
// synchronizer and the source registry.
//
// # Example
//
//	import "github.com/matzehuels/recipesync/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/recipesync/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Checked 42 recipes (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
// Using a distinct type prevents collisions with other packages.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
// The logger can be retrieved later with loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
// This ensures commands always have a valid logger even if context setup fails.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks logs synchronization, cache and HTTP events at debug level.
// It is registered for --verbose runs.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.SyncHooks  = (*logHooks)(nil)
	_ observability.CacheHooks = (*logHooks)(nil)
	_ observability.HTTPHooks  = (*logHooks)(nil)
)

func (h *logHooks) OnResolveStart(_ context.Context, pkg, url string) {
	h.logger.Debug("resolve", "package", pkg, "url", url)
}

func (h *logHooks) OnResolveComplete(_ context.Context, pkg, version string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("resolve failed", "package", pkg, "duration", d, "err", err)
		return
	}
	h.logger.Debug("resolved", "package", pkg, "version", version, "duration", d)
}

func (h *logHooks) OnHashStart(_ context.Context, pkg, url string) {
	h.logger.Debug("hashing", "package", pkg, "url", url)
}

func (h *logHooks) OnHashComplete(_ context.Context, pkg string, d time.Duration, err error) {
	h.logger.Debug("hashed", "package", pkg, "duration", d, "err", err)
}

func (h *logHooks) OnDecision(_ context.Context, pkg, decision string, err error) {
	h.logger.Debug("decision", "package", pkg, "outcome", decision, "err", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "namespace", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "namespace", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "namespace", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}
