package docstore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used by tests, local development and the CLI demo seed.
type MemoryStore struct {
	mu       sync.RWMutex
	data     map[string]map[string]map[string]any
	last     time.Time
	watchers map[*memoryWatcher]struct{}
	now      func() time.Time
}

type memoryWatcher struct {
	collection string
	notify     chan struct{}
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:     make(map[string]map[string]map[string]any),
		watchers: make(map[*memoryWatcher]struct{}),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	fields, ok := s.data[collection][id]
	if !ok {
		return Document{}, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return Document{ID: id, Data: copyMap(fields)}, nil
}

// Query implements Store.
func (s *MemoryStore) Query(ctx context.Context, collection string, q Query) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryLocked(collection, q), nil
}

func (s *MemoryStore) queryLocked(collection string, q Query) []Document {
	docs := make([]Document, 0, len(s.data[collection]))
	for id, fields := range s.data[collection] {
		if !matches(fields, q.Filters) {
			continue
		}
		docs = append(docs, Document{ID: id, Data: copyMap(fields)})
	}

	sort.SliceStable(docs, func(i, j int) bool {
		for _, order := range q.Orders {
			c := compareValues(docs[i].Data[order.Field], docs[j].Data[order.Field])
			if c == 0 {
				continue
			}
			if order.Direction == Desc {
				return c > 0
			}
			return c < 0
		}
		return docs[i].ID < docs[j].ID
	})

	return docs
}

// Create implements Store.
func (s *MemoryStore) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := uuid.NewString()

	s.mu.Lock()
	s.putLocked(collection, id, s.resolve(fields))
	s.mu.Unlock()

	s.broadcast(collection)
	return id, nil
}

// Set implements Store.
func (s *MemoryStore) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("set %s: id is required", collection)
	}

	s.mu.Lock()
	s.putLocked(collection, id, s.resolve(fields))
	s.mu.Unlock()

	s.broadcast(collection)
	return nil
}

// Update implements Store.
func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	existing, ok := s.data[collection][id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	s.putLocked(collection, id, merge(existing, s.resolve(fields)))
	s.mu.Unlock()

	s.broadcast(collection)
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if _, ok := s.data[collection][id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	delete(s.data[collection], id)
	s.mu.Unlock()

	s.broadcast(collection)
	return nil
}

// RunTransaction implements Store. Writes are staged and applied only when fn succeeds; the
// store is locked for the whole callback.
func (s *MemoryStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	tx := &memoryTx{store: s, staged: make(map[string]map[string]map[string]any)}
	if err := fn(ctx, tx); err != nil {
		s.mu.Unlock()
		return err
	}

	touched := make([]string, 0, len(tx.staged))
	for collection, docs := range tx.staged {
		for id, fields := range docs {
			if fields == nil {
				delete(s.data[collection], id)
				continue
			}
			s.putLocked(collection, id, fields)
		}
		touched = append(touched, collection)
	}
	s.mu.Unlock()

	for _, collection := range touched {
		s.broadcast(collection)
	}
	return nil
}

// Watch implements Store. The current result set is delivered immediately and again after
// every mutation of the collection.
func (s *MemoryStore) Watch(ctx context.Context, collection string, q Query, fn func([]Document)) error {
	w := &memoryWatcher{collection: collection, notify: make(chan struct{}, 1)}

	s.mu.Lock()
	s.watchers[w] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.watchers, w)
		s.mu.Unlock()
	}()

	w.notify <- struct{}{}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.notify:
			s.mu.RLock()
			docs := s.queryLocked(collection, q)
			s.mu.RUnlock()
			fn(docs)
		}
	}
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) broadcast(collection string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for w := range s.watchers {
		if w.collection != collection {
			continue
		}
		select {
		case w.notify <- struct{}{}:
		default:
		}
	}
}

func (s *MemoryStore) putLocked(collection, id string, fields map[string]any) {
	docs, ok := s.data[collection]
	if !ok {
		docs = make(map[string]map[string]any)
		s.data[collection] = docs
	}
	docs[id] = fields
}

// resolve copies fields, replacing ServerTimestamp placeholders with a strictly increasing
// commit instant. Callers must hold the write lock.
func (s *MemoryStore) resolve(fields map[string]any) map[string]any {
	var ts time.Time
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if IsServerTimestamp(v) {
			if ts.IsZero() {
				ts = s.tick()
			}
			out[k] = ts
			continue
		}
		out[k] = copyValue(v)
	}
	return out
}

func (s *MemoryStore) tick() time.Time {
	now := s.now()
	if !now.After(s.last) {
		now = s.last.Add(time.Microsecond)
	}
	s.last = now
	return now
}

type memoryTx struct {
	store  *MemoryStore
	staged map[string]map[string]map[string]any
	wrote  bool
}

func (tx *memoryTx) lookup(collection, id string) (map[string]any, bool) {
	if docs, ok := tx.staged[collection]; ok {
		if fields, ok := docs[id]; ok {
			return fields, fields != nil
		}
	}
	fields, ok := tx.store.data[collection][id]
	return fields, ok
}

func (tx *memoryTx) stage(collection, id string, fields map[string]any) {
	docs, ok := tx.staged[collection]
	if !ok {
		docs = make(map[string]map[string]any)
		tx.staged[collection] = docs
	}
	docs[id] = fields
	tx.wrote = true
}

func (tx *memoryTx) Get(collection, id string) (Document, error) {
	if tx.wrote {
		return Document{}, fmt.Errorf("transaction reads must precede writes")
	}
	fields, ok := tx.lookup(collection, id)
	if !ok {
		return Document{}, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return Document{ID: id, Data: copyMap(fields)}, nil
}

func (tx *memoryTx) Create(collection, id string, fields map[string]any) error {
	if _, ok := tx.lookup(collection, id); ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrAlreadyExists)
	}
	tx.stage(collection, id, tx.store.resolve(fields))
	return nil
}

func (tx *memoryTx) Update(collection, id string, fields map[string]any) error {
	existing, ok := tx.lookup(collection, id)
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	tx.stage(collection, id, merge(existing, tx.store.resolve(fields)))
	return nil
}

func (tx *memoryTx) Delete(collection, id string) error {
	if _, ok := tx.lookup(collection, id); !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	tx.stage(collection, id, nil)
	return nil
}

func matches(fields map[string]any, filters []Filter) bool {
	for _, f := range filters {
		v, ok := fields[f.Field]
		if !ok || compareValues(v, f.Value) != 0 {
			return false
		}
	}
	return true
}

// compareValues orders absent values first, then numbers, strings, booleans and instants
// within their own type. Mixed types compare by type name.
func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	if fa, ok := toFloat(a); ok {
		if _, isString := a.(string); !isString {
			if fb, ok := toFloat(b); ok {
				if _, isString := b.(string); !isString {
					switch {
					case fa < fb:
						return -1
					case fa > fb:
						return 1
					}
					return 0
				}
			}
		}
	}

	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			}
			return 1
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	}

	if reflect.DeepEqual(a, b) {
		return 0
	}
	return strings.Compare(fmt.Sprintf("%T", a), fmt.Sprintf("%T", b))
}

func merge(existing, patch map[string]any) map[string]any {
	out := copyMap(existing)
	for k, v := range patch {
		out[k] = v
	}
	return out
}

func copyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = copyValue(item)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	}
	return v
}
