// Package service manages the hero extension band: an ordered image strip and one text block, both
// stored in the heroExtension collection and told apart by their type field.
package service

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/validation"
)

const (
	// Collection is shared by images and the content block.
	Collection = "heroExtension"
	// ContentID is the fixed id of the content block.
	ContentID = "content"

	fieldType   = "type"
	typeImage   = "image"
	typeContent = "content"
)

// Image is one picture of the strip.
type Image struct {
	content.Meta
	ImageURL string `json:"imageUrl"`
	AltText  string `json:"altText,omitempty"`
	Order    int    `json:"order"`
}

// Content is the text block shown beside the images.
type Content struct {
	content.Meta
	Title       string `json:"title,omitempty"`
	Subtitle    string `json:"subtitle,omitempty"`
	Description string `json:"description,omitempty"`
	ButtonText  string `json:"buttonText,omitempty"`
	ButtonLink  string `json:"buttonLink,omitempty"`
}

var imageSchema = validation.Schema{
	Name: "hero-extension-image",
	Definition: `{
		"type": "object",
		"properties": {
			"imageUrl": {"type": "string", "format": "uri"},
			"altText":  {"type": "string", "maxLength": 200},
			"order":    {"type": "integer", "minimum": 0},
			"status":   {"enum": ["active", "inactive"]}
		}
	}`,
}

var contentSchema = validation.Schema{
	Name: "hero-extension-content",
	Definition: `{
		"type": "object",
		"properties": {
			"title":       {"type": "string", "maxLength": 200},
			"subtitle":    {"type": "string", "maxLength": 300},
			"description": {"type": "string"},
			"buttonText":  {"type": "string", "maxLength": 60},
			"buttonLink":  {"type": "string"},
			"status":      {"enum": ["active", "inactive"]}
		}
	}`,
}

// DecodeImage materializes an image document.
func DecodeImage(doc docstore.Document) (Image, error) {
	if doc.String("imageUrl") == "" {
		return Image{}, errors.New("imageUrl missing")
	}
	return Image{
		Meta:     content.MetaFrom(doc),
		ImageURL: doc.String("imageUrl"),
		AltText:  doc.String("altText"),
		Order:    doc.Int(content.FieldOrder),
	}, nil
}

// DecodeContent materializes the content block.
func DecodeContent(doc docstore.Document) (Content, error) {
	return Content{
		Meta:        content.MetaFrom(doc),
		Title:       doc.String("title"),
		Subtitle:    doc.String("subtitle"),
		Description: doc.String("description"),
		ButtonText:  doc.String("buttonText"),
		ButtonLink:  doc.String("buttonLink"),
	}, nil
}

// ImageConfig describes the image kind.
func ImageConfig() content.Config[Image] {
	return content.Config[Image]{
		Kind: content.Kind[Image]{
			Name:       "Hero extension image",
			Plural:     "hero extension images",
			Collection: Collection,
			Scope:      map[string]any{fieldType: typeImage},
			Ordering:   content.ByOrderThenCreatedDesc,
			Decode:     DecodeImage,
		},
		Required: []string{"imageUrl"},
		Schema:   &imageSchema,
	}
}

// ContentConfig describes the content block kind.
func ContentConfig() content.Config[Content] {
	return content.Config[Content]{
		Kind: content.Kind[Content]{
			Name:       "Hero extension content",
			Plural:     "hero extension content",
			Collection: Collection,
			Scope:      map[string]any{fieldType: typeContent},
			Ordering:   content.ByCreatedDesc,
			Decode:     DecodeContent,
		},
		Schema: &contentSchema,
	}
}

// Service defines the business operations for the hero extension band. The CRUD surface manages images.
type Service interface {
	content.CRUD[Image]
	content.Refresher
	// GetContent returns the content block or a not found error when it was never saved.
	GetContent(ctx context.Context) (Content, error)
	// UpsertContent creates or merges the content block under its fixed id in one transaction.
	UpsertContent(ctx context.Context, fields map[string]any) (Content, error)
}

type service struct {
	*content.Repository[Image]
	content *content.Repository[Content]
}

// New constructs a hero extension Service over store.
func New(store docstore.Store, opts content.Options) Service {
	if store == nil {
		panic("document store is required")
	}
	return &service{
		Repository: content.NewRepository(store, ImageConfig(), opts),
		content:    content.NewRepository(store, ContentConfig(), opts),
	}
}

func (s *service) GetContent(ctx context.Context) (Content, error) {
	return s.content.GetByID(ctx, ContentID)
}

func (s *service) UpsertContent(ctx context.Context, fields map[string]any) (Content, error) {
	return s.content.Upsert(ctx, ContentID, fields)
}

// Refresh reloads both the images and the content block.
func (s *service) Refresh(ctx context.Context) error {
	if err := s.Repository.Refresh(ctx); err != nil {
		return err
	}
	return s.content.Refresh(ctx)
}

// Watch follows both the images and the content block until ctx is done.
func (s *service) Watch(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.Repository.Watch(ctx) })
	g.Go(func() error { return s.content.Watch(ctx) })
	return g.Wait()
}
