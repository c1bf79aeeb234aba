package dependent

import "sync"

type cacheKey struct {
	scope  string
	parent string
}

// OptionCache stores loaded option sets keyed by (scope, parent value).
type OptionCache struct {
	mu      sync.RWMutex
	entries map[cacheKey][]Option
}

func NewOptionCache() *OptionCache {
	return &OptionCache{entries: map[cacheKey][]Option{}}
}

func (c *OptionCache) Get(scope, parent string) ([]Option, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	opts, ok := c.entries[cacheKey{scope, parent}]
	if !ok {
		return nil, false
	}
	return cloneOptions(opts), true
}

func (c *OptionCache) Put(scope, parent string, opts []Option) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{scope, parent}] = cloneOptions(opts)
}

// Forget drops every option set of scope.
func (c *OptionCache) Forget(scope string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.scope == scope {
			delete(c.entries, k)
		}
	}
}
