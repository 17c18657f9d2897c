package services

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a DocumentStore kept in process memory.
// Used when no Firestore project is configured and in tests.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]map[string]any)}
}

func (s *MemoryStore) List(_ context.Context, collection string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]Document, 0, len(s.collections[collection]))
	for id, data := range s.collections[collection] {
		docs = append(docs, Document{ID: id, Data: copyData(data)})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (s *MemoryStore) Query(ctx context.Context, collection, field string, value any) ([]Document, error) {
	all, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	matched := all[:0]
	for _, doc := range all {
		if reflect.DeepEqual(doc.Data[field], value) {
			matched = append(matched, doc)
		}
	}
	return matched, nil
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.collections[collection][id]
	if !ok {
		return Document{}, fmt.Errorf("%s/%s: %w", collection, id, ErrDocumentNotFound)
	}
	return Document{ID: id, Data: copyData(data)}, nil
}

func (s *MemoryStore) Create(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.NewString()
	return id, s.Set(ctx, collection, id, data)
}

func (s *MemoryStore) Set(_ context.Context, collection, id string, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]map[string]any)
	}
	s.collections[collection][id] = copyData(data)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.collections[collection][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrDocumentNotFound)
	}
	applyFields(data, fields)
	return nil
}

// Modify holds the store lock while fn runs; fn must not call the store
func (s *MemoryStore) Modify(_ context.Context, collection, id string, fn ModifyFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.collections[collection][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrDocumentNotFound)
	}
	fields, err := fn(copyData(data))
	if err != nil {
		return err
	}
	applyFields(data, fields)
	return nil
}

func applyFields(data, fields map[string]any) {
	for key, value := range fields {
		if op, isOp := value.(ArrayOp); isOp {
			data[key] = applyArrayOp(data[key], op)
			continue
		}
		data[key] = value
	}
}

func applyArrayOp(current any, op ArrayOp) []any {
	var items []any
	switch v := current.(type) {
	case []any:
		items = append(items, v...)
	case []string:
		for _, s := range v {
			items = append(items, s)
		}
	}

	if op.Remove {
		kept := items[:0]
		for _, item := range items {
			if !containsValue(op.Values, item) {
				kept = append(kept, item)
			}
		}
		return kept
	}

	for _, value := range op.Values {
		if !containsValue(items, value) {
			items = append(items, value)
		}
	}
	return items
}

func containsValue(values []any, v any) bool {
	for _, candidate := range values {
		if reflect.DeepEqual(candidate, v) {
			return true
		}
	}
	return false
}

func copyData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		switch vv := v.(type) {
		case []any:
			out[k] = append([]any(nil), vv...)
		case []string:
			out[k] = append([]string(nil), vv...)
		default:
			out[k] = v
		}
	}
	return out
}
