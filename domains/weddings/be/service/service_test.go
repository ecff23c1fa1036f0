package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
)

func TestWeddingCreateAndDeactivate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := New(docstore.NewMemoryStore(), content.Options{})

	w, err := svc.Create(ctx, map[string]any{
		"title":    "Lakeside vows",
		"date":     "2025-09-14",
		"gallery":  []any{"https://cdn.example/1.jpg"},
		"featured": true,
	})
	require.NoError(t, err)
	require.True(t, w.Featured)
	require.Equal(t, []string{"https://cdn.example/1.jpg"}, w.Gallery)

	_, err = svc.Update(ctx, w.ID, map[string]any{"status": content.StatusInactive})
	require.NoError(t, err)

	active, err := svc.GetActive(ctx, false)
	require.NoError(t, err)
	require.Empty(t, active)

	all, err := svc.GetAll(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestWeddingRejectsBadDateAndStatus(t *testing.T) {
	t.Parallel()

	svc := New(docstore.NewMemoryStore(), content.Options{})
	_, err := svc.Create(context.Background(), map[string]any{"title": "x", "date": "14/09/2025", "status": "draft"})

	var verr *content.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "date")
	require.Contains(t, verr.Fields, "status")
}
