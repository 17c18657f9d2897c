package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"journeylink_app/internal/navigation"
)

type clientNavigator struct {
	feed     *navigation.Feed
	nav      *navigation.Navigator
	lastSeen time.Time
}

// NavigatorPool owns one navigator per browser client.
// Each navigator observes its own Feed, which the session middleware publishes to.
type NavigatorPool struct {
	mu       sync.Mutex
	clients  map[string]*clientNavigator
	registry *navigation.Registry
	store    StackStore
	signOut  navigation.SignOutFunc
	idle     time.Duration
	options  []navigation.Option
	logger   *slog.Logger
	now      func() time.Time
}

// NewNavigatorPool creates a pool. signOut is run when a client logs out;
// idle is how long an unused navigator and its saved stack are kept.
func NewNavigatorPool(registry *navigation.Registry, store StackStore, signOut navigation.SignOutFunc, idle time.Duration, opts ...navigation.Option) *NavigatorPool {
	return &NavigatorPool{
		clients:  make(map[string]*clientNavigator),
		registry: registry,
		store:    store,
		signOut:  signOut,
		idle:     idle,
		options:  opts,
		logger:   slog.Default().With("component", "navigators"),
		now:      time.Now,
	}
}

// Acquire returns the client's navigator, creating it from the saved stack on first use.
// session is the identity verified for this request; it is published when it differs
// from what the navigator last observed.
func (p *NavigatorPool) Acquire(ctx context.Context, clientID string, session *navigation.Session) (*navigation.Navigator, error) {
	p.mu.Lock()
	c, ok := p.clients[clientID]
	if ok {
		c.lastSeen = p.now()
	}
	p.mu.Unlock()

	if ok {
		c.publish(session)
		return c.nav, nil
	}

	history, err := p.store.Load(ctx, clientID)
	if err != nil {
		p.logger.Warn("failed to load back stack", "client", clientID, "error", err)
		history = nil
	}

	feed := navigation.NewFeed(session)
	feed.OnSignOut(p.signOut)

	opts := append([]navigation.Option{navigation.WithHistory(history)}, p.options...)
	nav, err := navigation.New(p.registry, feed, opts...)
	if err != nil {
		return nil, fmt.Errorf("create navigator: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, raced := p.clients[clientID]; raced {
		nav.Close()
		existing.lastSeen = p.now()
		return existing.nav, nil
	}
	p.clients[clientID] = &clientNavigator{feed: feed, nav: nav, lastSeen: p.now()}
	return nav, nil
}

// Publish pushes a session change to the client's navigator, e.g. right after sign-in
func (p *NavigatorPool) Publish(clientID string, session *navigation.Session) {
	p.mu.Lock()
	c, ok := p.clients[clientID]
	p.mu.Unlock()
	if ok {
		c.publish(session)
	}
}

// publish delivers session unless both the feed and the navigator already hold it
func (c *clientNavigator) publish(session *navigation.Session) {
	if sameSession(c.feed.CurrentSession(), session) && sameSession(c.nav.CurrentSession(), session) {
		return
	}
	c.feed.Publish(session)
}

// Save persists the client's back stack
func (p *NavigatorPool) Save(ctx context.Context, clientID string) error {
	p.mu.Lock()
	c, ok := p.clients[clientID]
	p.mu.Unlock()
	if !ok {
		return nil
	}
	return p.store.Save(ctx, clientID, c.nav.BackStack(), p.idle)
}

// Forget closes the client's navigator after saving its back stack.
// The next request builds a fresh navigator from the saved routes.
func (p *NavigatorPool) Forget(ctx context.Context, clientID string) error {
	p.mu.Lock()
	c, ok := p.clients[clientID]
	delete(p.clients, clientID)
	p.mu.Unlock()

	if !ok {
		return nil
	}
	c.nav.Close()
	return p.store.Save(ctx, clientID, c.nav.BackStack(), p.idle)
}

// Sweep closes navigators unused for longer than the idle period.
// Their saved stacks stay in the store until they expire.
func (p *NavigatorPool) Sweep() int {
	cutoff := p.now().Add(-p.idle)

	p.mu.Lock()
	var stale []*clientNavigator
	for id, c := range p.clients {
		if c.lastSeen.Before(cutoff) {
			stale = append(stale, c)
			delete(p.clients, id)
		}
	}
	p.mu.Unlock()

	for _, c := range stale {
		c.nav.Close()
	}
	if len(stale) > 0 {
		p.logger.Info("closed idle navigators", "count", len(stale))
	}
	return len(stale)
}

// Len returns the number of live navigators
func (p *NavigatorPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.clients)
}

func sameSession(a, b *navigation.Session) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
