package locator

import "sync"

// Cache holds the most recent search result so later commands can refer to
// an entry by its 1-based number. Each search replaces it wholesale.
type Cache struct {
	mu      sync.RWMutex
	matches []Match
}

func NewCache() *Cache {
	return &Cache{}
}

func (c *Cache) Replace(matches []Match) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.matches = append([]Match(nil), matches...)
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}

// At returns the n-th entry (1-based).
func (c *Cache) At(n int) (Match, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if n < 1 || n > len(c.matches) {
		return Match{}, false
	}
	return c.matches[n-1], true
}

func (c *Cache) Snapshot() []Match {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Match(nil), c.matches...)
}
