package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.Create(ctx, "comentarios", map[string]any{"destinatario": "Ana", "likes": 0})
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "comentarios", "c2", map[string]any{"destinatario": "Luis"}))

	doc, err := s.Get(ctx, "comentarios", id)
	require.NoError(t, err)
	assert.Equal(t, "Ana", doc.Data["destinatario"])

	matched, err := s.Query(ctx, "comentarios", "destinatario", "Luis")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "c2", matched[0].ID)

	all, err := s.List(ctx, "comentarios")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = s.Get(ctx, "comentarios", "missing")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
	assert.ErrorIs(t, s.Update(ctx, "comentarios", "missing", map[string]any{"likes": 1}), ErrDocumentNotFound)
}

func TestMemoryStoreArrayOps(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "comentarios", "c1", map[string]any{"likedBy": []string{"u1"}}))

	require.NoError(t, s.Update(ctx, "comentarios", "c1", map[string]any{"likedBy": ArrayUnion("u1", "u2")}))
	doc, _ := s.Get(ctx, "comentarios", "c1")
	assert.Equal(t, []string{"u1", "u2"}, stringsField(doc.Data, "likedBy"))

	require.NoError(t, s.Update(ctx, "comentarios", "c1", map[string]any{"likedBy": ArrayRemove("u1")}))
	doc, _ = s.Get(ctx, "comentarios", "c1")
	assert.Equal(t, []string{"u2"}, stringsField(doc.Data, "likedBy"))
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "usuario", "u1", map[string]any{"name": "Ana"}))

	doc, _ := s.Get(ctx, "usuario", "u1")
	doc.Data["name"] = "changed"

	again, _ := s.Get(ctx, "usuario", "u1")
	assert.Equal(t, "Ana", again.Data["name"])
}
