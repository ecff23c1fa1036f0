package content

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/requesttrace"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/validation"
)

// reservedFields are managed by the repository and ignored in caller payloads.
var reservedFields = []string{"id", FieldCreatedOn, FieldUpdatedOn, FieldCreatedBy, FieldUpdatedBy}

// CRUD is the surface every content kind offers to its handlers.
type CRUD[T Entity] interface {
	GetAll(ctx context.Context, forceRefresh bool) ([]T, error)
	GetActive(ctx context.Context, forceRefresh bool) ([]T, error)
	GetByID(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, fields map[string]any) (T, error)
	Update(ctx context.Context, id string, partial map[string]any) (T, error)
	Delete(ctx context.Context, id string) error
}

// Refresher is implemented by every cached kind; the api server warms and watches through it.
type Refresher interface {
	Name() string
	Refresh(ctx context.Context) error
	Watch(ctx context.Context) error
}

// Config extends Kind with the write-side rules of a content kind.
type Config[T Entity] struct {
	Kind[T]
	// Required fields must be present and non-blank on create, and non-blank when updated.
	Required []string
	// Schema validates field types and enums of create and update payloads when set.
	Schema *validation.Schema
	// DefaultStatus is stamped on create when the payload carries none; defaults to "active".
	DefaultStatus string
}

// Options carries the optional collaborators of a Repository.
type Options struct {
	Logger    *zap.Logger
	Metrics   *Metrics
	Validator *validation.SchemaValidator
}

// Repository is the read-through, write-then-refresh CRUD surface of one content kind.
type Repository[T Entity] struct {
	cfg       Config[T]
	store     docstore.Store
	cache     *Cache[T]
	validator *validation.SchemaValidator
	logger    *zap.Logger
}

// NewRepository wires a repository and its cache over store.
func NewRepository[T Entity](store docstore.Store, cfg Config[T], opts Options) *Repository[T] {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validator := opts.Validator
	if validator == nil && cfg.Schema != nil {
		validator = validation.NewSchemaValidator()
	}
	if cfg.DefaultStatus == "" {
		cfg.DefaultStatus = StatusActive
	}

	return &Repository[T]{
		cfg:       cfg,
		store:     store,
		cache:     NewCache(store, cfg.Kind, logger, opts.Metrics),
		validator: validator,
		logger:    logger.With(zap.String("kind", cfg.Plural)),
	}
}

// Name returns the kind's display name.
func (r *Repository[T]) Name() string { return r.cfg.Plural }

// GetAll delegates to the cache.
func (r *Repository[T]) GetAll(ctx context.Context, forceRefresh bool) ([]T, error) {
	return r.cache.GetAll(ctx, forceRefresh)
}

// GetActive delegates to the cache.
func (r *Repository[T]) GetActive(ctx context.Context, forceRefresh bool) ([]T, error) {
	return r.cache.GetActive(ctx, forceRefresh)
}

// GetByID delegates to the cache.
func (r *Repository[T]) GetByID(ctx context.Context, id string) (T, error) {
	return r.cache.GetByID(ctx, id)
}

// Find returns the documents matching filters straight from the store.
func (r *Repository[T]) Find(ctx context.Context, filters map[string]any) ([]T, error) {
	return r.cache.Find(ctx, filters)
}

// Refresh reloads the cached lists from the store.
func (r *Repository[T]) Refresh(ctx context.Context) error {
	return r.cache.InvalidateAndRefresh(ctx)
}

// Watch keeps the cache current from store notifications until ctx is done.
func (r *Repository[T]) Watch(ctx context.Context) error {
	return r.cache.Watch(ctx)
}

// Create validates fields, writes a new document with server timestamps and returns it as observed
// after the cache refresh.
func (r *Repository[T]) Create(ctx context.Context, fields map[string]any) (T, error) {
	var zero T

	payload := r.sanitize(fields)
	if err := r.validate(payload, true); err != nil {
		return zero, err
	}

	doc := r.newDocument(ctx, payload)
	id, err := r.store.Create(ctx, r.cfg.Collection, doc)
	if err != nil {
		r.logger.Error("create failed", zap.Error(err))
		return zero, &StoreError{Op: OpAdd, Kind: r.cfg.Plural, Err: err}
	}

	if err := r.cache.InvalidateAndRefresh(ctx); err != nil {
		return zero, err
	}
	return r.cache.GetByID(ctx, id)
}

// Update merges partial into an existing document with a fresh updatedOn.
func (r *Repository[T]) Update(ctx context.Context, id string, partial map[string]any) (T, error) {
	var zero T

	payload := r.sanitize(partial)
	if err := r.validate(payload, false); err != nil {
		return zero, err
	}
	if err := r.ensureInScope(ctx, id); err != nil {
		return zero, err
	}

	payload[FieldUpdatedOn] = docstore.ServerTimestamp
	requesttrace.Stamp(ctx, payload, FieldUpdatedBy)
	if err := r.store.Update(ctx, r.cfg.Collection, id, payload); err != nil {
		return zero, r.writeError(OpUpdate, id, err)
	}

	if err := r.cache.InvalidateAndRefresh(ctx); err != nil {
		return zero, err
	}
	return r.cache.GetByID(ctx, id)
}

// Delete removes the document and refreshes the cache.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	if err := r.ensureInScope(ctx, id); err != nil {
		return err
	}

	if err := r.store.Delete(ctx, r.cfg.Collection, id); err != nil {
		return r.writeError(OpDelete, id, err)
	}

	return r.cache.InvalidateAndRefresh(ctx)
}

// Upsert creates or updates the document with a fixed id inside a single store transaction.
func (r *Repository[T]) Upsert(ctx context.Context, id string, fields map[string]any) (T, error) {
	var zero T

	payload := r.sanitize(fields)
	if err := r.validate(payload, false); err != nil {
		return zero, err
	}

	err := r.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Tx) error {
		_, err := tx.Get(r.cfg.Collection, id)
		switch {
		case errors.Is(err, docstore.ErrNotFound):
			return tx.Create(r.cfg.Collection, id, r.newDocument(ctx, payload))
		case err != nil:
			return err
		}

		update := make(map[string]any, len(payload)+1)
		for k, v := range payload {
			update[k] = v
		}
		update[FieldUpdatedOn] = docstore.ServerTimestamp
		requesttrace.Stamp(ctx, update, FieldUpdatedBy)
		return tx.Update(r.cfg.Collection, id, update)
	})
	if err != nil {
		r.logger.Error("upsert failed", zap.String("id", id), zap.Error(err))
		return zero, &StoreError{Op: OpUpdate, Kind: r.cfg.Plural, Err: err}
	}

	if err := r.cache.InvalidateAndRefresh(ctx); err != nil {
		return zero, err
	}
	return r.cache.GetByID(ctx, id)
}

func (r *Repository[T]) newDocument(ctx context.Context, payload map[string]any) map[string]any {
	doc := make(map[string]any, len(payload)+len(r.cfg.Scope)+4)
	for k, v := range payload {
		doc[k] = v
	}
	for k, v := range r.cfg.Scope {
		doc[k] = v
	}
	if s, _ := doc[FieldStatus].(string); strings.TrimSpace(s) == "" {
		doc[FieldStatus] = r.cfg.DefaultStatus
	}
	// Firestore drops documents without the ordered field from OrderBy queries.
	if r.cfg.Ordering == ByOrderThenCreatedDesc && doc[FieldOrder] == nil {
		doc[FieldOrder] = 0
	}
	requesttrace.Stamp(ctx, doc, FieldCreatedBy)
	doc[FieldCreatedOn] = docstore.ServerTimestamp
	doc[FieldUpdatedOn] = docstore.ServerTimestamp
	return doc
}

// sanitize copies fields without repository-managed and scope fields.
func (r *Repository[T]) sanitize(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	for _, k := range reservedFields {
		delete(out, k)
	}
	for k := range r.cfg.Scope {
		delete(out, k)
	}
	return out
}

func (r *Repository[T]) validate(payload map[string]any, creating bool) error {
	fieldErrors := FieldErrors{}
	for _, field := range r.cfg.Required {
		v, present := payload[field]
		if !present && !creating {
			continue
		}
		if isBlank(v) {
			fieldErrors.Add(field, "is required")
		}
	}

	if r.cfg.Schema != nil {
		violations, err := r.validator.Validate(*r.cfg.Schema, payload)
		if err != nil {
			return err
		}
		for field, messages := range violations {
			for _, message := range messages {
				fieldErrors.Add(field, message)
			}
		}
	}

	if len(fieldErrors) > 0 {
		return &ValidationError{Fields: fieldErrors}
	}
	return nil
}

// ensureInScope rejects ids that belong to another kind sharing the collection.
func (r *Repository[T]) ensureInScope(ctx context.Context, id string) error {
	if len(r.cfg.Scope) == 0 {
		return nil
	}
	_, err := r.cache.GetByID(ctx, id)
	return err
}

func (r *Repository[T]) writeError(op, id string, err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return &NotFoundError{Kind: r.cfg.Name, ID: id}
	}
	r.logger.Error(op+" failed", zap.String("id", id), zap.Error(err))
	return &StoreError{Op: op, Kind: r.cfg.Plural, Err: err}
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}
