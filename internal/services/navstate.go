package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"journeylink_app/internal/navigation"
)

// StackStore persists a client's back stack between requests and restarts
type StackStore interface {
	Load(ctx context.Context, clientID string) ([]navigation.Route, error)
	Save(ctx context.Context, clientID string, routes []navigation.Route, ttl time.Duration) error
}

type savedRoute struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

// RedisStackStore keeps back stacks in Redis under nav:<clientID>.
// Params come back as JSON numbers and are re-typed by the registry on restore.
type RedisStackStore struct {
	cache *RedisCache
}

func NewRedisStackStore(cache *RedisCache) *RedisStackStore {
	return &RedisStackStore{cache: cache}
}

func stackKey(clientID string) string {
	return "nav:" + clientID
}

func (s *RedisStackStore) Load(ctx context.Context, clientID string) ([]navigation.Route, error) {
	var saved []savedRoute
	if err := s.cache.Get(ctx, stackKey(clientID), &saved); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}

	routes := make([]navigation.Route, 0, len(saved))
	for _, r := range saved {
		routes = append(routes, navigation.Route{Name: r.Name, Params: r.Params})
	}
	return routes, nil
}

func (s *RedisStackStore) Save(ctx context.Context, clientID string, routes []navigation.Route, ttl time.Duration) error {
	saved := make([]savedRoute, 0, len(routes))
	for _, r := range routes {
		saved = append(saved, savedRoute{Name: r.Name, Params: r.Params})
	}
	return s.cache.Set(ctx, stackKey(clientID), saved, ttl)
}

// MemoryStackStore is the StackStore used without Redis
type MemoryStackStore struct {
	mu      sync.Mutex
	entries map[string]memoryStack
	now     func() time.Time
}

type memoryStack struct {
	routes  []navigation.Route
	expires time.Time
}

func NewMemoryStackStore() *MemoryStackStore {
	return &MemoryStackStore{entries: make(map[string]memoryStack), now: time.Now}
}

func (s *MemoryStackStore) Load(_ context.Context, clientID string) ([]navigation.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[clientID]
	if !ok {
		return nil, nil
	}
	if !e.expires.IsZero() && s.now().After(e.expires) {
		delete(s.entries, clientID)
		return nil, nil
	}
	return append([]navigation.Route(nil), e.routes...), nil
}

func (s *MemoryStackStore) Save(_ context.Context, clientID string, routes []navigation.Route, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := memoryStack{routes: append([]navigation.Route(nil), routes...)}
	if ttl > 0 {
		e.expires = s.now().Add(ttl)
	}
	s.entries[clientID] = e
	return nil
}
