// Package docstore defines the document store adapter consumed by the content repositories.
//
// A store holds named collections of JSON-like documents. Implementations live in this package
// (Firestore, in-memory) and in platform/go/persistence (PostgreSQL JSONB).
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"time"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrAlreadyExists is returned when creating a document with an id that is taken.
	ErrAlreadyExists = errors.New("document already exists")
	// ErrWatchUnsupported is returned by stores that cannot push change notifications.
	ErrWatchUnsupported = errors.New("watch not supported by store")
)

// Timestamp field names managed by the stores.
const (
	FieldCreatedOn = "createdOn"
	FieldUpdatedOn = "updatedOn"
)

type serverTimestamp struct{}

// ServerTimestamp is a placeholder value resolved to the commit instant by the store.
var ServerTimestamp = serverTimestamp{}

// IsServerTimestamp reports whether v is the ServerTimestamp placeholder.
func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

// Direction is the sort direction of an Order.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// Filter is an equality predicate on a top-level field.
type Filter struct {
	Field string
	Value any
}

// Order sorts query results on a top-level field.
type Order struct {
	Field     string
	Direction Direction
}

// Query selects documents of one collection.
type Query struct {
	Filters []Filter
	Orders  []Order
}

// Where returns a copy of q with an additional equality filter.
func (q Query) Where(field string, value any) Query {
	filters := make([]Filter, 0, len(q.Filters)+1)
	filters = append(filters, q.Filters...)
	q.Filters = append(filters, Filter{Field: field, Value: value})
	return q
}

// OrderBy returns a copy of q with an additional sort key.
func (q Query) OrderBy(field string, dir Direction) Query {
	orders := make([]Order, 0, len(q.Orders)+1)
	orders = append(orders, q.Orders...)
	q.Orders = append(orders, Order{Field: field, Direction: dir})
	return q
}

// Document is a materialized store document.
type Document struct {
	ID   string
	Data map[string]any
}

// Store is the document database capability required by the repositories.
type Store interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	Query(ctx context.Context, collection string, q Query) ([]Document, error)
	// Create inserts a document under a store-assigned id.
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)
	// Set writes the document under id, replacing any previous content.
	Set(ctx context.Context, collection, id string, fields map[string]any) error
	// Update merges fields into an existing document; ErrNotFound when absent.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	// Delete removes an existing document; ErrNotFound when absent.
	Delete(ctx context.Context, collection, id string) error
	// RunTransaction executes fn atomically. fn must not call back into the Store.
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Watch delivers the full result set of q on every change until ctx is done.
	Watch(ctx context.Context, collection string, q Query, fn func([]Document)) error
	Close() error
}

// Tx is the set of operations available inside RunTransaction. Reads must precede writes.
type Tx interface {
	Get(collection, id string) (Document, error)
	Create(collection, id string, fields map[string]any) error
	Update(collection, id string, fields map[string]any) error
	Delete(collection, id string) error
}

// String returns the string value of field, or "".
func (d Document) String(field string) string {
	if v, ok := d.Data[field].(string); ok {
		return v
	}
	return ""
}

// Bool returns the boolean value of field, or false.
func (d Document) Bool(field string) bool {
	if v, ok := d.Data[field].(bool); ok {
		return v
	}
	return false
}

// Int returns the integer value of field whatever numeric type the store decoded it as.
func (d Document) Int(field string) int {
	n, _ := toFloat(d.Data[field])
	return int(math.Round(n))
}

// Has reports whether the document carries field.
func (d Document) Has(field string) bool {
	_, ok := d.Data[field]
	return ok
}

// Time returns the instant stored in field. RFC 3339 strings are parsed.
func (d Document) Time(field string) time.Time {
	switch v := d.Data[field].(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Strings returns the string elements of an array field.
func (d Document) Strings(field string) []string {
	switch v := d.Data[field].(type) {
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

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
