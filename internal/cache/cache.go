package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Config holds the static TTL table and capacity for a Cache. TTLs are
// keyed by read-method name; methods without an entry use DefaultTTL.
type Config struct {
	MaxEntries int
	DefaultTTL time.Duration
	TTLs       map[string]time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxEntries: 1000,
		DefaultTTL: 5 * time.Minute,
		TTLs: map[string]time.Duration{
			"getRecommendations": 10 * time.Minute,
			"getUserGoals":       2 * time.Minute,
			"getGoalStats":       2 * time.Minute,
			"getPreferences":     5 * time.Minute,
			"scoringHelpers":     30 * time.Minute,
		},
	}
}

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache memoizes read operations with per-method TTLs, evicting the
// oldest-inserted entry once MaxEntries is exceeded. Concurrent callers
// with the same key share one in-flight computation; errors are never
// stored.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	order   []string
	group   singleflight.Group
	cfg     Config
	now     func() time.Time
}

func New(cfg Config) *Cache {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 1000
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = 5 * time.Minute
	}
	return &Cache{
		entries: make(map[string]*entry),
		cfg:     cfg,
		now:     time.Now,
	}
}

// Key builds a cache key from a method name and its arguments. The
// method name prefixes the key so writes can invalidate by method.
func Key(method string, args ...any) string {
	if len(args) == 0 {
		return method
	}
	encoded, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprintf("%s:%v", method, args)
	}
	return method + ":" + string(encoded)
}

// Do returns the cached value for key, or computes it via fn. The TTL
// is looked up by method name. fn errors propagate unmodified and leave
// no cache entry behind.
func Do[T any](ctx context.Context, c *Cache, method, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		return v.(T), nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// a racing caller may have filled the entry while this one
		// waited on the flight group
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(method, key, v)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		c.removeFromOrder(key)
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Set(method, key string, value any) {
	ttl, ok := c.cfg.TTLs[method]
	if !ok {
		ttl = c.cfg.DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = &entry{value: value, expiresAt: c.now().Add(ttl)}

	for len(c.entries) > c.cfg.MaxEntries && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// removeFromOrder drops key from the insertion order. Expired entries
// must leave order too, or a later re-Set of the same key would occupy
// its old slot and be evicted before genuinely older entries.
func (c *Cache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// InvalidatePrefix drops every entry whose key starts with prefix.
// Write operations call this for each affected read method.
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.order[:0]
	for _, key := range c.order {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		} else {
			kept = append(kept, key)
		}
	}
	c.order = kept
}

// Invalidate drops the entries for all listed read methods.
func (c *Cache) Invalidate(methods ...string) {
	for _, m := range methods {
		c.InvalidatePrefix(m)
	}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
