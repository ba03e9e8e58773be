package syntax

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// tokenCache is a bounded cache mapping query strings (by xxhash) to their
// token streams, so that repeated identical queries (common when a search
// box re-submits the same text for paging) skip tokenization. Tokens are
// immutable once produced, so sharing one slice across invocations is safe.
//
// Eviction strategy: when the cache reaches capacity the entire map is
// replaced. Simpler than a true LRU and sufficient for a small number of
// distinct query templates repeated many times.
//
// Thread safety: all methods are safe for concurrent use.
type tokenCache struct {
	mu    sync.RWMutex
	items map[uint64]tokenCacheEntry
	max   int
}

type tokenCacheEntry struct {
	query  string // verified on lookup to guard against hash collisions
	tokens []Token
}

var globalTokenCache = &tokenCache{
	items: make(map[uint64]tokenCacheEntry, 256),
	max:   256,
}

func (c *tokenCache) get(key uint64, query string) ([]Token, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || e.query != query {
		return nil, false
	}
	return e.tokens, true
}

func (c *tokenCache) put(key uint64, e tokenCacheEntry) {
	c.mu.Lock()
	if len(c.items) >= c.max {
		c.items = make(map[uint64]tokenCacheEntry, c.max)
	}
	c.items[key] = e
	c.mu.Unlock()
}

// cachedTokenize retrieves the token stream for query from the process-level
// cache, tokenizing on a miss. The returned slice must not be modified.
func cachedTokenize(query string) []Token {
	key := xxhash.Sum64String(query)
	if toks, ok := globalTokenCache.get(key, query); ok {
		return toks
	}
	toks := Tokenize(query)
	globalTokenCache.put(key, tokenCacheEntry{query: query, tokens: toks})
	return toks
}
