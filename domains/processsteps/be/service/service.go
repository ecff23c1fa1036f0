package service

import (
	"errors"

	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/validation"
)

// Collection holds the "how it works" steps.
const Collection = "processSteps"

// ProcessStep is one numbered step of the planning process.
type ProcessStep struct {
	content.Meta
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Order       int    `json:"order"`
}

var schema = validation.Schema{
	Name: "process-step",
	Definition: `{
		"type": "object",
		"properties": {
			"title":       {"type": "string", "maxLength": 120},
			"description": {"type": "string"},
			"icon":        {"type": "string"},
			"order":       {"type": "integer", "minimum": 0},
			"status":      {"enum": ["active", "inactive"]}
		}
	}`,
}

// Decode materializes a process step.
func Decode(doc docstore.Document) (ProcessStep, error) {
	if doc.String("title") == "" {
		return ProcessStep{}, errors.New("title missing")
	}
	return ProcessStep{
		Meta:        content.MetaFrom(doc),
		Title:       doc.String("title"),
		Description: doc.String("description"),
		Icon:        doc.String("icon"),
		Order:       doc.Int(content.FieldOrder),
	}, nil
}

// Config describes the process step kind.
func Config() content.Config[ProcessStep] {
	return content.Config[ProcessStep]{
		Kind: content.Kind[ProcessStep]{
			Name:       "Process step",
			Plural:     "process steps",
			Collection: Collection,
			Ordering:   content.ByOrderThenCreatedDesc,
			Decode:     Decode,
		},
		Required: []string{"title"},
		Schema:   &schema,
	}
}

// Service defines the business operations for process steps.
type Service interface {
	content.CRUD[ProcessStep]
	content.Refresher
}

// New constructs a process steps Service over store.
func New(store docstore.Store, opts content.Options) Service {
	if store == nil {
		panic("document store is required")
	}
	return content.NewRepository(store, Config(), opts)
}
