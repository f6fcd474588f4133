package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryClient implementa Client en memoria.
// Valores escalares via go-cache (TTL incluido); sets con un map propio
// protegido por RWMutex, ya que go-cache no modela membership.
// Útil para desarrollo y testing.
type memoryClient struct {
	prefix string
	kv     *gocache.Cache

	mu   sync.RWMutex
	sets map[string]setEntry
}

type setEntry struct {
	members   map[string]struct{}
	expiresAt time.Time // zero = no expira
}

// NewMemory crea un cliente de cache en memoria.
func NewMemory(prefix string, defaultTTL time.Duration) *memoryClient {
	if defaultTTL == 0 {
		defaultTTL = gocache.NoExpiration
	}
	return &memoryClient{
		prefix: prefix,
		kv:     gocache.New(defaultTTL, time.Minute),
		sets:   make(map[string]setEntry),
	}
}

func (c *memoryClient) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

func (c *memoryClient) Get(ctx context.Context, key string) (string, error) {
	v, ok := c.kv.Get(c.key(key))
	if !ok {
		return "", ErrNotFound
	}
	s, _ := v.(string)
	return s, nil
}

func (c *memoryClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.NoExpiration
	}
	c.kv.Set(c.key(key), value, ttl)
	return nil
}

func (c *memoryClient) Delete(ctx context.Context, key string) error {
	c.kv.Delete(c.key(key))

	c.mu.Lock()
	delete(c.sets, c.key(key))
	c.mu.Unlock()
	return nil
}

func (c *memoryClient) SAdd(ctx context.Context, key string, members ...string) error {
	k := c.key(key)
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.liveSet(k)
	if !ok {
		entry = setEntry{members: make(map[string]struct{})}
	}
	for _, m := range members {
		entry.members[m] = struct{}{}
	}
	c.sets[k] = entry
	return nil
}

func (c *memoryClient) SRem(ctx context.Context, key string, members ...string) error {
	k := c.key(key)
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.liveSet(k)
	if !ok {
		return nil
	}
	for _, m := range members {
		delete(entry.members, m)
	}
	c.sets[k] = entry
	return nil
}

func (c *memoryClient) SMembers(ctx context.Context, key string) ([]string, error) {
	k := c.key(key)
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.liveSetRead(k)
	if !ok {
		return []string{}, nil
	}
	out := make([]string, 0, len(entry.members))
	for m := range entry.members {
		out = append(out, m)
	}
	return out, nil
}

func (c *memoryClient) Expire(ctx context.Context, key string, ttl time.Duration) error {
	k := c.key(key)

	if v, ok := c.kv.Get(k); ok {
		c.kv.Set(k, v, ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.liveSet(k); ok {
		entry.expiresAt = time.Now().Add(ttl)
		c.sets[k] = entry
	}
	return nil
}

func (c *memoryClient) Ping(ctx context.Context) error { return nil }

func (c *memoryClient) Close() error {
	c.kv.Flush()
	c.mu.Lock()
	c.sets = make(map[string]setEntry)
	c.mu.Unlock()
	return nil
}

// liveSet retorna el set si existe y no expiró; purga lazy si expiró.
// Requiere c.mu tomado en modo escritura.
func (c *memoryClient) liveSet(k string) (setEntry, bool) {
	entry, ok := c.sets[k]
	if !ok {
		return setEntry{}, false
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(c.sets, k)
		return setEntry{}, false
	}
	return entry, true
}

// liveSetRead es la variante read-only (no purga, sólo filtra expirados).
func (c *memoryClient) liveSetRead(k string) (setEntry, bool) {
	entry, ok := c.sets[k]
	if !ok {
		return setEntry{}, false
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		return setEntry{}, false
	}
	return entry, true
}
