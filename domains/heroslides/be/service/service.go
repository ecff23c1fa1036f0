package service

import (
	"errors"

	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/validation"
)

// Collection holds the home page carousel slides.
const Collection = "heroSlides"

// HeroSlide is one slide of the home page carousel.
type HeroSlide struct {
	content.Meta
	Heading    string `json:"heading"`
	Subheading string `json:"subheading,omitempty"`
	ImageURL   string `json:"imageUrl,omitempty"`
	CTAText    string `json:"ctaText,omitempty"`
	CTALink    string `json:"ctaLink,omitempty"`
}

var schema = validation.Schema{
	Name: "hero-slide",
	Definition: `{
		"type": "object",
		"properties": {
			"heading":    {"type": "string", "maxLength": 200},
			"subheading": {"type": "string", "maxLength": 500},
			"imageUrl":   {"type": "string", "format": "uri"},
			"ctaText":    {"type": "string", "maxLength": 60},
			"ctaLink":    {"type": "string"},
			"status":     {"enum": ["active", "inactive"]}
		}
	}`,
}

// Decode materializes a hero slide document.
func Decode(doc docstore.Document) (HeroSlide, error) {
	if doc.String("heading") == "" {
		return HeroSlide{}, errors.New("heading missing")
	}
	return HeroSlide{
		Meta:       content.MetaFrom(doc),
		Heading:    doc.String("heading"),
		Subheading: doc.String("subheading"),
		ImageURL:   doc.String("imageUrl"),
		CTAText:    doc.String("ctaText"),
		CTALink:    doc.String("ctaLink"),
	}, nil
}

// Config describes the hero slide kind.
func Config() content.Config[HeroSlide] {
	return content.Config[HeroSlide]{
		Kind: content.Kind[HeroSlide]{
			Name:       "Hero slide",
			Plural:     "hero slides",
			Collection: Collection,
			Ordering:   content.ByCreatedDesc,
			Decode:     Decode,
		},
		Required: []string{"heading"},
		Schema:   &schema,
	}
}

// Service defines the business operations for hero slides.
type Service interface {
	content.CRUD[HeroSlide]
	content.Refresher
}

// New constructs a hero slide Service over store.
func New(store docstore.Store, opts content.Options) Service {
	if store == nil {
		panic("document store is required")
	}
	return content.NewRepository(store, Config(), opts)
}
