package navigation

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedPublishReplacesValue(t *testing.T) {
	feed := NewFeed(nil)
	var seen []*Session
	cancel := feed.Subscribe(func(s *Session) {
		seen = append(seen, s)
	})

	feed.Publish(ana)
	feed.Publish(nil)
	cancel()
	feed.Publish(ana)

	require.Len(t, seen, 2)
	assert.Equal(t, "uid-ana", seen[0].UID)
	assert.Nil(t, seen[1])
	assert.Equal(t, "uid-ana", feed.CurrentSession().UID)
}

func TestFeedDoesNotAlias(t *testing.T) {
	s := &Session{UID: "a"}
	feed := NewFeed(s)
	s.UID = "changed"

	got := feed.CurrentSession()
	assert.Equal(t, "a", got.UID)

	got.UID = "mutated"
	assert.Equal(t, "a", feed.CurrentSession().UID)
}

func TestFeedSubscribersRunInOrder(t *testing.T) {
	feed := NewFeed(nil)
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		feed.Subscribe(func(*Session) { order = append(order, i) })
	}
	feed.Publish(ana)
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestFeedSignOutWithoutSessionSkipsHook(t *testing.T) {
	feed := NewFeed(nil)
	called := false
	feed.OnSignOut(func(context.Context, *Session) error {
		called = true
		return nil
	})

	require.NoError(t, feed.SignOut(context.Background()))
	assert.False(t, called)
}

func TestFeedRacingPublishesSettleOnLatest(t *testing.T) {
	feed := NewFeed(nil)
	nav := newNavigator(t, feed)

	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	var mu sync.Mutex
	var last *Session
	feed.Subscribe(func(s *Session) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
		}
		mu.Lock()
		last = s
		mu.Unlock()
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		feed.Publish(ana)
	}()
	<-entered
	go func() {
		defer wg.Done()
		feed.Publish(nil)
	}()
	require.Eventually(t, func() bool { return feed.CurrentSession() == nil }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	mu.Lock()
	assert.Nil(t, last)
	mu.Unlock()
	assert.Nil(t, nav.CurrentSession())

	visit, err := nav.Navigate(RoutePerfil, nil)
	require.NoError(t, err)
	assert.Equal(t, Redirected, visit.State)
	assert.Equal(t, RouteLogin, visit.Route.Name)
}
