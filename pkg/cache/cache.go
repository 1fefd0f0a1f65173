// Package cache provides byte-level caching for upstream API responses.
//
// Resolving a recipe set touches the same registries again and again: the
// GitHub tag list of a repository, the latest version of a gem, the conda-forge
// file list of a package. [Cache] lets the integration clients keep those
// responses between runs so repeated checks stay fast and within rate limits.
//
// Two implementations are provided:
//
//   - [FileCache]: JSON entries with expiry, sharded under a directory
//   - [NullCache]: never stores anything, used for --no-cache
//
// Keys are opaque strings. Callers namespace them (for example
// "github:tags:owner/repo") so that distinct upstreams never collide.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with an optional TTL.
//
// Implementations must be safe for concurrent use: the pipeline resolves
// descriptors in parallel and all of them share one cache.
type Cache interface {
	// Get returns the value for key. The boolean reports a hit; expired
	// entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// NullCache never stores anything. It backs --no-cache.
type NullCache struct{}

// NewNullCache returns a [NullCache].
func NewNullCache() *NullCache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Close() error                                             { return nil }

var _ Cache = (*NullCache)(nil)
