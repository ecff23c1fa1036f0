package service

import (
	"errors"

	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/validation"
)

// Collection holds the real-wedding showcase.
const Collection = "weddings"

// Wedding is a showcased celebration, optionally linked to the hosting hotel.
type Wedding struct {
	content.Meta
	Title       string   `json:"title"`
	CoupleNames string   `json:"coupleNames,omitempty"`
	Location    string   `json:"location,omitempty"`
	Date        string   `json:"date,omitempty"`
	Description string   `json:"description,omitempty"`
	CoverImage  string   `json:"coverImage,omitempty"`
	Gallery     []string `json:"gallery,omitempty"`
	HotelID     string   `json:"hotelId,omitempty"`
	Featured    bool     `json:"featured"`
}

var schema = validation.Schema{
	Name: "wedding",
	Definition: `{
		"type": "object",
		"properties": {
			"title":       {"type": "string", "maxLength": 200},
			"coupleNames": {"type": "string"},
			"location":    {"type": "string"},
			"date":        {"type": "string", "format": "date"},
			"description": {"type": "string"},
			"coverImage":  {"type": "string", "format": "uri"},
			"gallery":     {"type": "array", "items": {"type": "string", "format": "uri"}},
			"hotelId":     {"type": "string"},
			"featured":    {"type": "boolean"},
			"status":      {"enum": ["active", "inactive"]}
		}
	}`,
}

// Decode materializes a wedding document.
func Decode(doc docstore.Document) (Wedding, error) {
	if doc.String("title") == "" {
		return Wedding{}, errors.New("title missing")
	}
	return Wedding{
		Meta:        content.MetaFrom(doc),
		Title:       doc.String("title"),
		CoupleNames: doc.String("coupleNames"),
		Location:    doc.String("location"),
		Date:        doc.String("date"),
		Description: doc.String("description"),
		CoverImage:  doc.String("coverImage"),
		Gallery:     doc.Strings("gallery"),
		HotelID:     doc.String("hotelId"),
		Featured:    doc.Bool("featured"),
	}, nil
}

// Config describes the wedding kind.
func Config() content.Config[Wedding] {
	return content.Config[Wedding]{
		Kind: content.Kind[Wedding]{
			Name:       "Wedding",
			Plural:     "weddings",
			Collection: Collection,
			Ordering:   content.ByCreatedDesc,
			Decode:     Decode,
		},
		Required: []string{"title"},
		Schema:   &schema,
	}
}

// Service defines the business operations for weddings.
type Service interface {
	content.CRUD[Wedding]
	content.Refresher
}

// New constructs a weddings Service over store.
func New(store docstore.Store, opts content.Options) Service {
	if store == nil {
		panic("document store is required")
	}
	return content.NewRepository(store, Config(), opts)
}
