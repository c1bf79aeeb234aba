// Package query is the remote list query layer: a process-wide keyed cache of
// list pages and per-view observers that read through it.
package query

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"jobboard/internal/listquery"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultCacheSize    = 256
	DefaultFreshFor     = 30 * time.Second
	DefaultFetchTimeout = 15 * time.Second
)

// FetchFunc loads the value for one cache key.
type FetchFunc func(ctx context.Context) (any, error)

type entry struct {
	value     any
	fetchedAt time.Time
	stale     bool
}

type CacheOptions struct {
	Size     int
	FreshFor time.Duration
	// FetchTimeout bounds a shared fetch, which outlives the caller that
	// started it.
	FetchTimeout time.Duration
	// Registerer receives the cache counters when set.
	Registerer prometheus.Registerer
	Clock      func() time.Time
}

// Cache holds list pages keyed by listquery.State.Key. Entries are replaced,
// never mutated; Invalidate marks an entity's entries stale so the next read
// refetches regardless of the freshness window.
type Cache struct {
	mu       sync.Mutex
	entries  *lru.Cache[string, entry]
	gens     map[listquery.Entity]uint64
	group    singleflight.Group
	freshFor     time.Duration
	fetchTimeout time.Duration
	now          func() time.Time

	lookups       *prometheus.CounterVec
	invalidations *prometheus.CounterVec
}

func NewCache(opts CacheOptions) (*Cache, error) {
	size := opts.Size
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, entry](size)
	if err != nil {
		return nil, err
	}
	c := &Cache{
		entries:      entries,
		gens:         map[listquery.Entity]uint64{},
		freshFor:     opts.FreshFor,
		fetchTimeout: opts.FetchTimeout,
		now:          opts.Clock,
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jobboard",
			Subsystem: "list_cache",
			Name:      "lookups_total",
			Help:      "List cache lookups by entity and result (hit, stale, miss).",
		}, []string{"entity", "result"}),
		invalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jobboard",
			Subsystem: "list_cache",
			Name:      "invalidations_total",
			Help:      "List cache invalidations by entity.",
		}, []string{"entity"}),
	}
	if c.freshFor <= 0 {
		c.freshFor = DefaultFreshFor
	}
	if c.fetchTimeout <= 0 {
		c.fetchTimeout = DefaultFetchTimeout
	}
	if c.now == nil {
		c.now = time.Now
	}
	if opts.Registerer != nil {
		if err := opts.Registerer.Register(c.lookups); err != nil {
			return nil, err
		}
		if err := opts.Registerer.Register(c.invalidations); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Peek returns the cached value for key and whether it is still fresh.
func (c *Cache) Peek(key string) (value any, fresh bool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries.Peek(key)
	if !ok {
		return nil, false, false
	}
	return e.value, c.isFresh(e), true
}

// Get returns the fresh cached value for key or runs fetch. Concurrent callers
// of one key share a single fetch; a fetch that started before an
// invalidation is never joined by callers arriving after it. The shared fetch
// keeps ctx values but not its cancellation, so one caller giving up does not
// fail the others.
func (c *Cache) Get(ctx context.Context, entity listquery.Entity, key string, fetch FetchFunc) (any, error) {
	c.mu.Lock()
	e, ok := c.entries.Get(key)
	gen := c.gens[entity]
	switch {
	case ok && c.isFresh(e):
		c.mu.Unlock()
		c.lookups.WithLabelValues(string(entity), "hit").Inc()
		return e.value, nil
	case ok:
		c.lookups.WithLabelValues(string(entity), "stale").Inc()
	default:
		c.lookups.WithLabelValues(string(entity), "miss").Inc()
	}
	c.mu.Unlock()

	ch := c.group.DoChan(key+"#"+strconv.FormatUint(gen, 10), func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()
		v, err := fetch(fctx)
		if err != nil {
			return nil, err
		}
		c.store(entity, key, v, gen)
		return v, nil
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate marks every cached page of entity stale.
func (c *Cache) Invalidate(entity listquery.Entity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gens[entity]++
	prefix := string(entity) + "?"
	for _, k := range c.entries.Keys() {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if e, ok := c.entries.Peek(k); ok {
			e.stale = true
			c.entries.Add(k, e)
		}
	}
	c.invalidations.WithLabelValues(string(entity)).Inc()
}

func (c *Cache) store(entity listquery.Entity, key string, v any, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Add(key, entry{
		value:     v,
		fetchedAt: c.now(),
		stale:     c.gens[entity] != gen,
	})
}

func (c *Cache) isFresh(e entry) bool {
	return !e.stale && c.now().Sub(e.fetchedAt) < c.freshFor
}
