// Package content implements the cached document repository shared by every content kind.
//
// A Repository reads through a Cache holding the last fully materialized list of a kind and writes
// through to a docstore.Store, refreshing the cache after every mutation so the writer observes its
// own changes. Each kind (hero slides, testimonials, enquiries, ...) is a configuration of it.
package content

import (
	"time"

	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
)

// Well-known document fields.
const (
	FieldStatus    = "status"
	FieldOrder     = "order"
	FieldCreatedOn = docstore.FieldCreatedOn
	FieldUpdatedOn = docstore.FieldUpdatedOn
	FieldCreatedBy = "createdBy"
	FieldUpdatedBy = "updatedBy"
)

// Visibility states.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Entity is implemented by every materialized content type.
type Entity interface {
	EntityID() string
}

// Meta carries the fields common to every content document.
type Meta struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedOn time.Time `json:"createdOn"`
	UpdatedOn time.Time `json:"updatedOn"`
}

// EntityID implements Entity.
func (m Meta) EntityID() string { return m.ID }

// MetaFrom reads the common fields of doc.
func MetaFrom(doc docstore.Document) Meta {
	return Meta{
		ID:        doc.ID,
		Status:    doc.String(FieldStatus),
		CreatedOn: doc.Time(FieldCreatedOn),
		UpdatedOn: doc.Time(FieldUpdatedOn),
	}
}

// Ordering is the canonical sort of a kind's lists.
type Ordering int

const (
	// ByCreatedDesc lists newest documents first.
	ByCreatedDesc Ordering = iota
	// ByOrderThenCreatedDesc sorts on the user-assigned order, ties broken newest first.
	ByOrderThenCreatedDesc
)

func (o Ordering) apply(q docstore.Query) docstore.Query {
	if o == ByOrderThenCreatedDesc {
		q = q.OrderBy(FieldOrder, docstore.Asc)
	}
	return q.OrderBy(FieldCreatedOn, docstore.Desc)
}
