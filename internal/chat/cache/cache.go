// internal/chat/cache/cache.go

// Package cache memoizes rendered answers keyed by normalized query text.
// Entries are never mutated after creation; overwrites replace wholesale.
package cache

import (
	"context"
	"strings"
)

// ResponseCache is the cache contract consumed by the orchestrator.
// Implementations are safe for concurrent use; Get treats expired entries
// as absent.
type ResponseCache interface {
	Get(ctx context.Context, query string) (string, bool)
	Put(ctx context.Context, query, message string)
	Clear(ctx context.Context)
}

// Normalize derives the cache key: lower-case, trimmed, internal
// whitespace collapsed to single spaces. Queries differing only in casing
// or spacing map to the same entry.
func Normalize(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
