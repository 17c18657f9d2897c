package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journeylink_app/internal/models"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCacheFromClient(client), mr
}

func seedCompanions(t *testing.T, store DocumentStore, companions ...models.Companion) {
	t.Helper()
	for _, c := range companions {
		require.NoError(t, store.Set(context.Background(), models.CollectionUsers, c.ID, c.ToMap()))
	}
}

func TestCompanionListCached(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	cache, mr := newTestCache(t)
	seedCompanions(t, store,
		models.Companion{ID: "u2", Name: "Luis", Email: "luis@example.com", Rating: 3.5},
		models.Companion{ID: "u1", Name: "Ana", Email: "ana@example.com", Rating: 4.8},
	)

	svc := NewCompanionService(store, cache, time.Minute)
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ana", list[0].Name)
	assert.Equal(t, "u1", list[0].ID)

	seedCompanions(t, store, models.Companion{ID: "u3", Name: "Marta"})
	cached, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 2, "served from cache")

	mr.FastForward(2 * time.Minute)
	fresh, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 3)

	seedCompanions(t, store, models.Companion{ID: "u4", Name: "Pablo"})
	require.NoError(t, svc.Invalidate(ctx))
	fresh, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 4)
}

func TestCompanionListWithoutCache(t *testing.T) {
	store := NewMemoryStore()
	seedCompanions(t, store, models.Companion{ID: "u1", Name: "Ana", Rating: 4})

	svc := NewCompanionService(store, nil, time.Minute)
	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.NoError(t, svc.Invalidate(context.Background()))
}

func TestCompanionProfile(t *testing.T) {
	store := NewMemoryStore()
	seedCompanions(t, store, models.Companion{ID: "u1", Name: "Ana", Email: "ana@example.com"})
	svc := NewCompanionService(store, nil, 0)

	c, err := svc.Profile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", c.Email)

	_, err = svc.Profile(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestFeatured(t *testing.T) {
	_, ok := Featured(nil)
	assert.False(t, ok)

	best, ok := Featured([]models.Companion{
		{Name: "Pedro", Rating: 3.9},
		{Name: "Ana", Rating: 4},
		{Name: "Luis", Rating: 4.9},
		{Name: "Marta", Rating: 4.9},
	})
	require.True(t, ok)
	assert.Equal(t, "Ana", best.Name)

	_, ok = Featured([]models.Companion{
		{Name: "Pedro", Rating: 3.9},
		{Name: "Sara", Rating: 2.5},
	})
	assert.False(t, ok)
}
