package services

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrDocumentNotFound is returned when a document ID does not exist in its collection
var ErrDocumentNotFound = errors.New("document not found")

// Document is a stored document with its ID
type Document struct {
	ID   string
	Data map[string]any
}

// ArrayOp is an atomic array mutation usable as a field value in Update
type ArrayOp struct {
	Remove bool
	Values []any
}

// ArrayUnion adds values to an array field, skipping ones already present
func ArrayUnion(values ...any) ArrayOp {
	return ArrayOp{Values: values}
}

// ArrayRemove removes every occurrence of values from an array field
func ArrayRemove(values ...any) ArrayOp {
	return ArrayOp{Remove: true, Values: values}
}

// ModifyFunc computes the fields to write from a document's current data.
// It may run more than once when a transaction is retried.
type ModifyFunc func(data map[string]any) (map[string]any, error)

// DocumentStore is the document database used by the screens.
// Update writes only the given fields; ArrayOp values are applied atomically.
// Modify reads and updates one document in a single transaction.
type DocumentStore interface {
	List(ctx context.Context, collection string) ([]Document, error)
	Query(ctx context.Context, collection, field string, value any) ([]Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	Create(ctx context.Context, collection string, data map[string]any) (string, error)
	Set(ctx context.Context, collection, id string, data map[string]any) error
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Modify(ctx context.Context, collection, id string, fn ModifyFunc) error
}

// Field helpers tolerate the loose typing of stored documents
// (numbers saved as strings, ints read back as int64, and so on).

func stringField(data map[string]any, key string) string {
	switch v := data[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func intField(data map[string]any, key string) int {
	switch v := data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return 0
}

func floatField(data map[string]any, key string) float64 {
	switch v := data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		var f float64
		if _, err := fmt.Sscanf(v, "%g", &f); err == nil {
			return f
		}
	}
	return 0
}

func stringsField(data map[string]any, key string) []string {
	switch v := data[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func timeField(data map[string]any, key string) time.Time {
	switch v := data[key].(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
