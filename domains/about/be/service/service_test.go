package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
)

func TestAboutContentNewestFirst(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := New(docstore.NewMemoryStore(), content.Options{})

	_, err := svc.Create(ctx, map[string]any{"title": "Our story", "description": "Since 2010"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, map[string]any{"title": "Our team", "description": "Planners", "highlights": []any{"award", "press"}})
	require.NoError(t, err)
	require.Equal(t, []string{"award", "press"}, second.Highlights)

	all, err := svc.GetAll(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "Our team", all[0].Title)
}

func TestAboutContentRequiresDescription(t *testing.T) {
	t.Parallel()

	svc := New(docstore.NewMemoryStore(), content.Options{})
	_, err := svc.Create(context.Background(), map[string]any{"title": "Our story"})

	var verr *content.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, []string{"is required"}, verr.Fields["description"])
}

func TestAboutContentUpdateMissing(t *testing.T) {
	t.Parallel()

	svc := New(docstore.NewMemoryStore(), content.Options{})
	_, err := svc.Update(context.Background(), "nope", map[string]any{"title": "x"})
	require.EqualError(t, err, "About content not found")
}
