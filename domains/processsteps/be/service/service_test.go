package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
)

func TestProcessStepsOrderTiesNewestFirst(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := New(docstore.NewMemoryStore(), content.Options{})

	for _, title := range []string{"Tour", "Book"} {
		_, err := svc.Create(ctx, map[string]any{"title": title, "order": 1})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, map[string]any{"title": "Enquire", "order": 0})
	require.NoError(t, err)

	steps, err := svc.GetActive(ctx, true)
	require.NoError(t, err)
	require.Len(t, steps, 3)
	require.Equal(t, "Enquire", steps[0].Title)
	require.Equal(t, "Book", steps[1].Title)
	require.Equal(t, "Tour", steps[2].Title)
}
