package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
)

func TestHeroSlideLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := New(docstore.NewMemoryStore(), content.Options{Logger: zaptest.NewLogger(t)})

	created, err := svc.Create(ctx, map[string]any{"heading": "Your dream venue", "imageUrl": "https://cdn.example/h1.jpg"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, content.StatusActive, created.Status)
	require.False(t, created.CreatedOn.IsZero())

	active, err := svc.GetActive(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, created.ID, active[0].ID)

	updated, err := svc.Update(ctx, created.ID, map[string]any{"heading": "Celebrate in style"})
	require.NoError(t, err)
	require.Equal(t, "Celebrate in style", updated.Heading)
	require.True(t, updated.UpdatedOn.After(created.CreatedOn))

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	require.ErrorIs(t, err, content.ErrNotFound)
	require.EqualError(t, err, "Hero slide not found")
}

func TestHeroSlideValidation(t *testing.T) {
	t.Parallel()

	svc := New(docstore.NewMemoryStore(), content.Options{})

	_, err := svc.Create(context.Background(), map[string]any{"imageUrl": "not a uri"})
	var verr *content.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Contains(t, verr.Fields, "heading")
	require.Contains(t, verr.Fields, "imageUrl")
}

func TestDecodeRejectsSlideWithoutHeading(t *testing.T) {
	t.Parallel()

	_, err := Decode(docstore.Document{ID: "s1", Data: map[string]any{"status": "active"}})
	require.Error(t, err)
}
