package model

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Fingerprint derives the content-cache key for one set of generation
// parameters. Case and topic order must not change the key: two requests that
// differ only in casing or topic ordering describe the same content, so all
// fields are trimmed and lowercased and topics are sorted before hashing.
func Fingerprint(role, experience string, topics []string) string {
	normalized := make([]string, 0, len(topics))
	for _, t := range topics {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(t)))
	}
	sort.Strings(normalized)

	base := strings.ToLower(strings.TrimSpace(role)) + ":" +
		strings.ToLower(strings.TrimSpace(experience)) + ":" +
		strings.Join(normalized, ",")

	sum := sha256.Sum256([]byte(base))
	return hex.EncodeToString(sum[:])
}
