package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a namespaced key: prefix + ":" + SHA-256 of the
// JSON-encoded parts. Catalog, scene, and artifact keys all go through
// this, so every backend sees the same key layout and the prefix makes
// entries identifiable in a shared Redis.
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the hex SHA-256 of data. Rack and scene hashes keep the
// full 64-character digest; only the file cache's directory fan-out
// shortens it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
