package cache

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/JaimeStill/keepsake/pkg/lifecycle"
)

type memory struct {
	mu     sync.Mutex
	store  *gocache.Cache
	ttl    time.Duration
	logger *slog.Logger
}

func newMemory(cfg *Config, logger *slog.Logger) *memory {
	ttl := cfg.DefaultTTLDuration()
	return &memory{
		store:  gocache.New(ttl, time.Minute),
		ttl:    ttl,
		logger: logger,
	}
}

func (m *memory) Get(_ context.Context, key string) (string, error) {
	v, ok := m.store.Get(key)
	if !ok {
		return "", ErrMiss
	}
	s, ok := v.(string)
	if !ok {
		return "", ErrMiss
	}
	return s, nil
}

func (m *memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.ttl
	}
	m.store.Set(key, value, ttl)
	return nil
}

func (m *memory) Delete(_ context.Context, key string) error {
	m.store.Delete(key)
	return nil
}

func (m *memory) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ttl <= 0 {
		ttl = m.ttl
	}

	var n int64
	if v, exp, ok := m.store.GetWithExpiration(key); ok {
		if s, ok := v.(string); ok {
			n, _ = strconv.ParseInt(s, 10, 64)
		}
		if remaining := time.Until(exp); !exp.IsZero() && remaining > 0 {
			ttl = remaining
		}
	}
	n++
	m.store.Set(key, strconv.FormatInt(n, 10), ttl)
	return n, nil
}

func (m *memory) Ready() bool {
	return true
}

func (m *memory) Start(lc *lifecycle.Coordinator) error {
	m.logger.Info("using in-process cache")
	lc.Track("cache", m)

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		m.store.Flush()
	})
	return nil
}
