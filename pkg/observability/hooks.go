// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about recipe synchronization, cache operations, and API calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSyncHooks(&mySyncHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Sync().OnResolveStart(ctx, pkg, url)
//	// ... query upstream ...
//	observability.Sync().OnResolveComplete(ctx, pkg, version, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Sync Hooks
// =============================================================================

// SyncHooks receives events from recipe synchronization.
type SyncHooks interface {
	// Resolve events
	OnResolveStart(ctx context.Context, pkg, url string)
	OnResolveComplete(ctx context.Context, pkg, version string, duration time.Duration, err error)

	// Hash events
	OnHashStart(ctx context.Context, pkg, url string)
	OnHashComplete(ctx context.Context, pkg string, duration time.Duration, err error)

	// OnDecision records the terminal outcome for one recipe.
	OnDecision(ctx context.Context, pkg, decision string, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSyncHooks is a no-op implementation of SyncHooks.
type NoopSyncHooks struct{}

func (NoopSyncHooks) OnResolveStart(context.Context, string, string) {}
func (NoopSyncHooks) OnResolveComplete(context.Context, string, string, time.Duration, error) {
}
func (NoopSyncHooks) OnHashStart(context.Context, string, string)                  {}
func (NoopSyncHooks) OnHashComplete(context.Context, string, time.Duration, error) {}
func (NoopSyncHooks) OnDecision(context.Context, string, string, error)            {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	syncHooks     SyncHooks     = NoopSyncHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetSyncHooks registers custom sync hooks.
// This should be called once at application startup before any recipes are processed.
func SetSyncHooks(h SyncHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		syncHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Sync returns the registered sync hooks.
func Sync() SyncHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return syncHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	syncHooks = NoopSyncHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
