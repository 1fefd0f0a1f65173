package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Key joins a namespace and its parts into a cache key, e.g.
// Key("github", "tags", "BurntSushi/ripgrep") is "github:tags:BurntSushi/ripgrep".
func Key(namespace string, parts ...string) string {
	return namespace + ":" + strings.Join(parts, ":")
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
