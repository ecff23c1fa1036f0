package content

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
)

// Kind describes one content category stored in a collection.
type Kind[T Entity] struct {
	// Name is the singular display name used in "<Name> not found".
	Name string
	// Plural is used in store failure messages, e.g. "Failed to fetch hero slides".
	Plural string
	// Collection is the document collection holding the kind.
	Collection string
	// Scope restricts the kind to documents carrying these field values (shared collections).
	Scope map[string]any
	// Ordering is the canonical list order.
	Ordering Ordering
	// Decode materializes a document; errors mark the document as malformed.
	Decode func(docstore.Document) (T, error)
}

const (
	listAll    = "all"
	listActive = "active"
)

type cacheEntry[T Entity] struct {
	items       []T
	initialized bool
}

// Cache holds the last fully materialized lists of one kind. Entries are only ever replaced whole.
//
// Concurrent refreshes are not coordinated: the entry reflects whichever refresh query finished last.
type Cache[T Entity] struct {
	store   docstore.Store
	kind    Kind[T]
	logger  *zap.Logger
	metrics *Metrics

	mu     sync.RWMutex
	all    cacheEntry[T]
	active cacheEntry[T]
}

// NewCache builds an empty cache; nothing is read until the first call.
func NewCache[T Entity](store docstore.Store, kind Kind[T], logger *zap.Logger, metrics *Metrics) *Cache[T] {
	if store == nil {
		panic("document store is required")
	}
	if kind.Decode == nil {
		panic("kind decoder is required")
	}
	if kind.Collection == "" {
		panic("kind collection is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Cache[T]{
		store:   store,
		kind:    kind,
		logger:  logger.With(zap.String("kind", kind.Plural)),
		metrics: metrics,
	}
}

// GetAll returns every document of the kind in canonical order. The store is only queried when
// forceRefresh is set or the list has never been loaded.
func (c *Cache[T]) GetAll(ctx context.Context, forceRefresh bool) ([]T, error) {
	return c.read(ctx, listAll, forceRefresh)
}

// GetActive is GetAll restricted to status == "active".
func (c *Cache[T]) GetActive(ctx context.Context, forceRefresh bool) ([]T, error) {
	return c.read(ctx, listActive, forceRefresh)
}

// GetByID scans the cached lists and falls back to a single point read. It never refreshes a list.
func (c *Cache[T]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T

	c.mu.RLock()
	for _, entry := range []*cacheEntry[T]{&c.all, &c.active} {
		for _, item := range entry.items {
			if item.EntityID() == id {
				c.mu.RUnlock()
				c.metrics.hit(c.kind.Plural, "id")
				return item, nil
			}
		}
	}
	c.mu.RUnlock()
	c.metrics.miss(c.kind.Plural, "id")

	doc, err := c.store.Get(ctx, c.kind.Collection, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return zero, &NotFoundError{Kind: c.kind.Name, ID: id}
		}
		c.logger.Error("point read failed", zap.String("id", id), zap.Error(err))
		return zero, &StoreError{Op: OpFetch, Kind: c.kind.Plural, Err: err}
	}
	if !c.inScope(doc) {
		return zero, &NotFoundError{Kind: c.kind.Name, ID: id}
	}

	item, err := c.kind.Decode(doc)
	if err != nil {
		c.logger.Warn("malformed document", zap.String("id", id), zap.Error(err))
		return zero, &StoreError{Op: OpFetch, Kind: c.kind.Plural, Err: err}
	}
	return item, nil
}

// InvalidateAndRefresh reloads the full list and marks the active list stale. It returns only once the
// reload finished so the caller observes its own writes.
func (c *Cache[T]) InvalidateAndRefresh(ctx context.Context) error {
	if _, err := c.GetAll(ctx, true); err != nil {
		return err
	}

	c.mu.Lock()
	c.active = cacheEntry[T]{}
	c.mu.Unlock()
	return nil
}

// Watch keeps the full list current from store change notifications until ctx is done.
// Stores without change notifications return docstore.ErrWatchUnsupported.
func (c *Cache[T]) Watch(ctx context.Context) error {
	return c.store.Watch(ctx, c.kind.Collection, c.query(listAll), func(docs []docstore.Document) {
		items := c.decodeAll(docs)

		c.mu.Lock()
		c.all = cacheEntry[T]{items: items, initialized: true}
		c.active = cacheEntry[T]{}
		c.mu.Unlock()

		c.metrics.refreshed(c.kind.Plural, "watch")
		c.logger.Debug("cache replaced from snapshot", zap.Int("items", len(items)))
	})
}

// Find queries the store directly for documents matching filters, in canonical order. The cached lists
// are neither consulted nor replaced.
func (c *Cache[T]) Find(ctx context.Context, filters map[string]any) ([]T, error) {
	q := c.query(listAll)
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		q = q.Where(k, filters[k])
	}

	docs, err := c.store.Query(ctx, c.kind.Collection, q)
	if err != nil {
		c.logger.Error("filtered query failed", zap.Any("filters", filters), zap.Error(err))
		return nil, &StoreError{Op: OpFetch, Kind: c.kind.Plural, Err: err}
	}
	return c.decodeAll(docs), nil
}

func (c *Cache[T]) read(ctx context.Context, list string, forceRefresh bool) ([]T, error) {
	if !forceRefresh {
		c.mu.RLock()
		entry := c.entry(list)
		if entry.initialized {
			items := slices.Clone(entry.items)
			c.mu.RUnlock()
			c.metrics.hit(c.kind.Plural, list)
			return items, nil
		}
		c.mu.RUnlock()
		c.metrics.miss(c.kind.Plural, list)
	}

	docs, err := c.store.Query(ctx, c.kind.Collection, c.query(list))
	if err != nil {
		c.metrics.refreshFailed(c.kind.Plural, list)
		c.logger.Error("cache refresh failed", zap.String("list", list), zap.Error(err))
		return nil, &StoreError{Op: OpFetch, Kind: c.kind.Plural, Err: err}
	}
	items := c.decodeAll(docs)

	c.mu.Lock()
	*c.entry(list) = cacheEntry[T]{items: items, initialized: true}
	c.mu.Unlock()
	c.metrics.refreshed(c.kind.Plural, list)

	return slices.Clone(items), nil
}

func (c *Cache[T]) entry(list string) *cacheEntry[T] {
	if list == listActive {
		return &c.active
	}
	return &c.all
}

func (c *Cache[T]) query(list string) docstore.Query {
	q := docstore.Query{}

	keys := make([]string, 0, len(c.kind.Scope))
	for k := range c.kind.Scope {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		q = q.Where(k, c.kind.Scope[k])
	}

	if list == listActive {
		q = q.Where(FieldStatus, StatusActive)
	}
	return c.kind.Ordering.apply(q)
}

func (c *Cache[T]) inScope(doc docstore.Document) bool {
	for k, v := range c.kind.Scope {
		if doc.Data[k] != v {
			return false
		}
	}
	return true
}

func (c *Cache[T]) decodeAll(docs []docstore.Document) []T {
	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		item, err := c.kind.Decode(doc)
		if err != nil {
			c.logger.Warn("skipping malformed document", zap.String("id", doc.ID), zap.Error(err))
			continue
		}
		items = append(items, item)
	}
	return items
}
