package navigation

import (
	"context"
	"sync"
)

// Session is the currently authenticated identity as reported by the identity provider
type Session struct {
	UID           string
	Email         string
	DisplayName   string
	EmailVerified bool
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// IdentityProvider is the external source of sessions.
// CurrentSession must not block. Subscribe delivers every identity change
// until the returned cancel func is called.
type IdentityProvider interface {
	CurrentSession() *Session
	Subscribe(fn func(*Session)) (cancel func())
	SignOut(ctx context.Context) error
}

// SignOutFunc revokes the given session at the backing provider
type SignOutFunc func(ctx context.Context, s *Session) error

// Feed is an IdentityProvider backed by an observer list.
// Publish is the only writer; each published value replaces the previous one.
type Feed struct {
	mu sync.Mutex
	// delivering is held across a fan-out so subscribers see changes one at a time
	delivering sync.Mutex
	current    *Session
	subs       map[uint64]func(*Session)
	order      []uint64
	nextID     uint64
	signOut    SignOutFunc
}

// NewFeed returns a feed whose synchronous value starts at initial
func NewFeed(initial *Session) *Feed {
	return &Feed{
		current: initial.clone(),
		subs:    make(map[uint64]func(*Session)),
	}
}

// OnSignOut sets the hook run by SignOut before the session is cleared
func (f *Feed) OnSignOut(fn SignOutFunc) {
	f.mu.Lock()
	f.signOut = fn
	f.mu.Unlock()
}

// CurrentSession returns the last published session
func (f *Feed) CurrentSession() *Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current.clone()
}

// Subscribe registers fn for identity changes
func (f *Feed) Subscribe(fn func(*Session)) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	f.order = append(f.order, id)
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.subs, id)
			for i, v := range f.order {
				if v == id {
					f.order = append(f.order[:i], f.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish replaces the current session and notifies subscribers in subscription order.
// Deliveries are serialised and each one carries the latest value, so when
// publishes race, every subscriber ends on the value CurrentSession reports.
// Subscribers run outside the feed's lock and may read the feed, but must not
// publish from inside the callback.
func (f *Feed) Publish(s *Session) {
	f.mu.Lock()
	f.current = s.clone()
	f.mu.Unlock()

	f.delivering.Lock()
	defer f.delivering.Unlock()

	f.mu.Lock()
	latest := f.current
	fns := make([]func(*Session), 0, len(f.order))
	for _, id := range f.order {
		fns = append(fns, f.subs[id])
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(latest.clone())
	}
}

// SignOut runs the sign-out hook and publishes the absent session.
// When the hook fails the session is left in place.
func (f *Feed) SignOut(ctx context.Context) error {
	f.mu.Lock()
	hook := f.signOut
	current := f.current.clone()
	f.mu.Unlock()

	if hook != nil && current != nil {
		if err := hook(ctx, current); err != nil {
			return err
		}
	}
	f.Publish(nil)
	return nil
}
