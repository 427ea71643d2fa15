package sns

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// CertCache stores raw PEM certificates by URL. Implementations treat every
// failure as a miss.
type CertCache interface {
	Get(ctx context.Context, certURL string) ([]byte, bool)
	Set(ctx context.Context, certURL string, raw []byte)
}

// NoCache never stores anything.
type NoCache struct{}

func (NoCache) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (NoCache) Set(context.Context, string, []byte)        {}

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

// MemoryCache keeps certificates in process for a fixed TTL.
type MemoryCache struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (c *MemoryCache) Get(_ context.Context, certURL string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[certURL]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, certURL)
		c.mu.Unlock()
		return nil, false
	}
	return entry.raw, true
}

func (c *MemoryCache) Set(_ context.Context, certURL string, raw []byte) {
	c.mu.Lock()
	c.entries[certURL] = memoryEntry{raw: raw, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// RedisCache shares certificates between replicas.
type RedisCache struct {
	rc     redis.UniversalClient
	ttl    time.Duration
	prefix string
	log    *logrus.Logger
}

func NewRedisCache(rc redis.UniversalClient, ttl time.Duration, log *logrus.Logger) *RedisCache {
	return &RedisCache{rc: rc, ttl: ttl, prefix: "sns:cert:", log: log}
}

func (c *RedisCache) Get(ctx context.Context, certURL string) ([]byte, bool) {
	raw, err := c.rc.Get(ctx, c.prefix+certURL).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WithField("cert_url", certURL).Warnf("Certificate cache read failed: %v", err)
		}
		return nil, false
	}
	return raw, true
}

func (c *RedisCache) Set(ctx context.Context, certURL string, raw []byte) {
	if err := c.rc.Set(ctx, c.prefix+certURL, raw, c.ttl).Err(); err != nil {
		c.log.WithField("cert_url", certURL).Warnf("Certificate cache write failed: %v", err)
	}
}
