package service

import (
	"errors"

	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/validation"
)

// Collection holds the sections of the about page.
const Collection = "aboutContent"

// AboutContent is one section of the about page.
type AboutContent struct {
	content.Meta
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
}

var schema = validation.Schema{
	Name: "about-content",
	Definition: `{
		"type": "object",
		"properties": {
			"title":       {"type": "string", "maxLength": 200},
			"description": {"type": "string"},
			"imageUrl":    {"type": "string", "format": "uri"},
			"highlights":  {"type": "array", "items": {"type": "string"}},
			"status":      {"enum": ["active", "inactive"]}
		}
	}`,
}

// Decode materializes an about section.
func Decode(doc docstore.Document) (AboutContent, error) {
	if doc.String("title") == "" {
		return AboutContent{}, errors.New("title missing")
	}
	return AboutContent{
		Meta:        content.MetaFrom(doc),
		Title:       doc.String("title"),
		Description: doc.String("description"),
		ImageURL:    doc.String("imageUrl"),
		Highlights:  doc.Strings("highlights"),
	}, nil
}

// Config describes the about content kind.
func Config() content.Config[AboutContent] {
	return content.Config[AboutContent]{
		Kind: content.Kind[AboutContent]{
			Name:       "About content",
			Plural:     "about content",
			Collection: Collection,
			Ordering:   content.ByCreatedDesc,
			Decode:     Decode,
		},
		Required: []string{"title", "description"},
		Schema:   &schema,
	}
}

// Service defines the business operations for about content.
type Service interface {
	content.CRUD[AboutContent]
	content.Refresher
}

// New constructs an about content Service over store.
func New(store docstore.Store, opts content.Options) Service {
	if store == nil {
		panic("document store is required")
	}
	return content.NewRepository(store, Config(), opts)
}
