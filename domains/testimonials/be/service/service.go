package service

import (
	"context"
	"errors"

	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/validation"
)

// Collection holds couple testimonials shown on the home page.
const Collection = "testimonials"

// Testimonial is a quote from a couple, listed by its order field.
type Testimonial struct {
	content.Meta
	Name     string `json:"name"`
	Message  string `json:"message"`
	Location string `json:"location,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	Rating   int    `json:"rating,omitempty"`
	Order    int    `json:"order"`
}

var schema = validation.Schema{
	Name: "testimonial",
	Definition: `{
		"type": "object",
		"properties": {
			"name":     {"type": "string", "maxLength": 120},
			"message":  {"type": "string", "maxLength": 2000},
			"location": {"type": "string"},
			"imageUrl": {"type": "string", "format": "uri"},
			"rating":   {"type": "integer", "minimum": 1, "maximum": 5},
			"order":    {"type": "integer", "minimum": 0},
			"status":   {"enum": ["active", "inactive"]}
		}
	}`,
}

// Decode materializes a testimonial document.
func Decode(doc docstore.Document) (Testimonial, error) {
	if doc.String("name") == "" || doc.String("message") == "" {
		return Testimonial{}, errors.New("name or message missing")
	}
	return Testimonial{
		Meta:     content.MetaFrom(doc),
		Name:     doc.String("name"),
		Message:  doc.String("message"),
		Location: doc.String("location"),
		ImageURL: doc.String("imageUrl"),
		Rating:   doc.Int("rating"),
		Order:    doc.Int(content.FieldOrder),
	}, nil
}

// Config describes the testimonial kind.
func Config() content.Config[Testimonial] {
	return content.Config[Testimonial]{
		Kind: content.Kind[Testimonial]{
			Name:       "Testimonial",
			Plural:     "testimonials",
			Collection: Collection,
			Ordering:   content.ByOrderThenCreatedDesc,
			Decode:     Decode,
		},
		Required: []string{"name", "message"},
		Schema:   &schema,
	}
}

// Service defines the business operations for testimonials.
type Service interface {
	content.CRUD[Testimonial]
	content.Refresher
	// UpdateOrder moves a testimonial without touching its other fields.
	UpdateOrder(ctx context.Context, id string, order int) (Testimonial, error)
}

type service struct {
	*content.Repository[Testimonial]
}

// New constructs a testimonials Service over store.
func New(store docstore.Store, opts content.Options) Service {
	if store == nil {
		panic("document store is required")
	}
	return &service{Repository: content.NewRepository(store, Config(), opts)}
}

func (s *service) UpdateOrder(ctx context.Context, id string, order int) (Testimonial, error) {
	if order < 0 {
		return Testimonial{}, content.NewValidationError(map[string]string{content.FieldOrder: "must be zero or greater"})
	}
	return s.Update(ctx, id, map[string]any{content.FieldOrder: order})
}
