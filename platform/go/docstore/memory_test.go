package docstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCreateGetResolvesServerTimestamp(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()

	id, err := store.Create(ctx, "heroSlides", map[string]any{
		"heading":      "Welcome",
		FieldCreatedOn: ServerTimestamp,
		FieldUpdatedOn: ServerTimestamp,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := store.Get(ctx, "heroSlides", id)
	require.NoError(t, err)
	require.Equal(t, "Welcome", doc.String("heading"))
	require.False(t, doc.Time(FieldCreatedOn).IsZero())
	require.Equal(t, doc.Time(FieldCreatedOn), doc.Time(FieldUpdatedOn))
}

func TestMemoryStoreUpdateAdvancesTimestamp(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	id, err := store.Create(ctx, "weddings", map[string]any{"title": "A", FieldCreatedOn: ServerTimestamp, FieldUpdatedOn: ServerTimestamp})
	require.NoError(t, err)

	require.NoError(t, store.Update(ctx, "weddings", id, map[string]any{"title": "B", FieldUpdatedOn: ServerTimestamp}))

	doc, err := store.Get(ctx, "weddings", id)
	require.NoError(t, err)
	require.Equal(t, "B", doc.String("title"))
	require.True(t, doc.Time(FieldUpdatedOn).After(doc.Time(FieldCreatedOn)))
}

func TestMemoryStoreMissingDocuments(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, "weddings", "nope")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, store.Update(ctx, "weddings", "nope", map[string]any{"title": "x"}), ErrNotFound)
	require.ErrorIs(t, store.Delete(ctx, "weddings", "nope"), ErrNotFound)
}

func TestMemoryStoreQueryFiltersAndOrders(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()

	for _, seed := range []map[string]any{
		{"name": "c", "order": 3, "status": "active"},
		{"name": "a", "order": 1, "status": "active"},
		{"name": "b", "order": int64(2), "status": "active"},
		{"name": "x", "order": 0, "status": "inactive"},
	} {
		_, err := store.Create(ctx, "testimonials", seed)
		require.NoError(t, err)
	}

	docs, err := store.Query(ctx, "testimonials", Query{}.Where("status", "active").OrderBy("order", Asc))
	require.NoError(t, err)
	require.Len(t, docs, 3)
	require.Equal(t, []string{"a", "b", "c"}, []string{docs[0].String("name"), docs[1].String("name"), docs[2].String("name")})

	docs, err = store.Query(ctx, "testimonials", Query{}.OrderBy("order", Desc))
	require.NoError(t, err)
	require.Len(t, docs, 4)
	require.Equal(t, "c", docs[0].String("name"))
	require.Equal(t, "x", docs[3].String("name"))
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "aboutContent", "one", map[string]any{"title": "About"}))

	doc, err := store.Get(ctx, "aboutContent", "one")
	require.NoError(t, err)
	doc.Data["title"] = "mutated"

	again, err := store.Get(ctx, "aboutContent", "one")
	require.NoError(t, err)
	require.Equal(t, "About", again.String("title"))
}

func TestMemoryStoreTransactionCommitsAtomically(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "auth", "u1", map[string]any{"name": "old"}))
	require.NoError(t, store.Set(ctx, "hotels", "h1", map[string]any{"name": "old"}))

	boom := errors.New("boom")
	err := store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := tx.Get("hotels", "h1"); err != nil {
			return err
		}
		if err := tx.Update("auth", "u1", map[string]any{"name": "new"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	doc, err := store.Get(ctx, "auth", "u1")
	require.NoError(t, err)
	require.Equal(t, "old", doc.String("name"))

	err = store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		if err := tx.Update("auth", "u1", map[string]any{"name": "new"}); err != nil {
			return err
		}
		return tx.Update("hotels", "h1", map[string]any{"name": "new"})
	})
	require.NoError(t, err)

	for _, coll := range []string{"auth", "hotels"} {
		id := map[string]string{"auth": "u1", "hotels": "h1"}[coll]
		doc, err := store.Get(ctx, coll, id)
		require.NoError(t, err)
		require.Equal(t, "new", doc.String("name"))
	}
}

func TestMemoryStoreTransactionCreateAndDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		return tx.Create("heroExtension", "content", map[string]any{"title": "x"})
	}))

	err := store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		return tx.Create("heroExtension", "content", map[string]any{"title": "y"})
	})
	require.ErrorIs(t, err, ErrAlreadyExists)

	require.NoError(t, store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		return tx.Delete("heroExtension", "content")
	}))

	_, err = store.Get(ctx, "heroExtension", "content")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreTransactionRejectsReadAfterWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "auth", "u1", map[string]any{"name": "a"}))

	err := store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		if err := tx.Update("auth", "u1", map[string]any{"name": "b"}); err != nil {
			return err
		}
		_, err := tx.Get("auth", "u1")
		return err
	})
	require.Error(t, err)
}

func TestMemoryStoreWatchDeliversSnapshots(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewMemoryStore()
	snapshots := make(chan []Document, 8)
	done := make(chan error, 1)
	go func() {
		done <- store.Watch(ctx, "weddings", Query{}, func(docs []Document) { snapshots <- docs })
	}()

	select {
	case docs := <-snapshots:
		require.Empty(t, docs)
	case <-time.After(time.Second):
		t.Fatal("initial snapshot not delivered")
	}

	_, err := store.Create(context.Background(), "weddings", map[string]any{"title": "A"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		select {
		case docs := <-snapshots:
			return len(docs) == 1
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestDocumentAccessors(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	doc := Document{ID: "d", Data: map[string]any{
		"n1":   float64(3),
		"n2":   int64(4),
		"b":    true,
		"t1":   ts,
		"t2":   ts.Format(time.RFC3339Nano),
		"list": []any{"a", 1, "b"},
	}}

	require.Equal(t, 3, doc.Int("n1"))
	require.Equal(t, 4, doc.Int("n2"))
	require.Equal(t, 0, doc.Int("missing"))
	require.True(t, doc.Bool("b"))
	require.True(t, doc.Time("t1").Equal(ts))
	require.True(t, doc.Time("t2").Equal(ts))
	require.Equal(t, []string{"a", "b"}, doc.Strings("list"))
	require.True(t, doc.Has("b"))
	require.False(t, doc.Has("nope"))
}
