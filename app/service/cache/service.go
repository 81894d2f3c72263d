package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"concierge/app/config"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
)

var _ do.Shutdownable = (*Service)(nil)

// Service is a two-tier search-result cache: a per-instance in-memory map in
// front of an optional shared Redis. Both tiers use the same TTL. A Redis
// that is down degrades the service to L1 only.
type Service struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]entry

	rdb *redis.Client
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	s := &Service{
		ttl:     time.Duration(cfg.Cache.TTLSeconds) * time.Second,
		entries: make(map[string]entry),
	}

	if cfg.Cache.RedisAddr != "" {
		s.rdb = redis.NewClient(&redis.Options{
			Addr: cfg.Cache.RedisAddr,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		if err := s.rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("Redis unreachable, search cache runs in-memory only", "error", err)
		}
	}

	return s, nil
}

// Get unmarshals a cached value into out and reports whether it was found.
func (s *Service) Get(ctx context.Context, key string, out any) bool {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if ok && time.Now().Before(e.expiresAt) {
		return json.Unmarshal(e.data, out) == nil
	}

	if s.rdb == nil {
		return false
	}

	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("Redis get failed", "key", key, "error", err)
		}
		return false
	}

	if err = json.Unmarshal(data, out); err != nil {
		return false
	}

	// refill L1 from the shared tier
	s.mu.Lock()
	s.entries[key] = entry{data: data, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()

	return true
}

func (s *Service) Set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		slog.Warn("Failed to marshal cache value", "key", key, "error", err)
		return
	}

	s.mu.Lock()
	s.entries[key] = entry{data: data, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()

	if s.rdb != nil {
		if err = s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
			slog.Warn("Redis set failed", "key", key, "error", err)
		}
	}
}

// SearchKey builds a stable cache key for a search request.
func SearchKey(category, query string, limit int) string {
	return fmt.Sprintf("search:%s:%s:%d", category, query, limit)
}

func (s *Service) Shutdown() error {
	if s.rdb != nil {
		return s.rdb.Close()
	}

	return nil
}
