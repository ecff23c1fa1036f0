package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/zenGate-Global/wedding-marketplace/platform/go/cache"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
)

type recordingPublisher struct {
	mu     sync.Mutex
	keys   []string
	events []CreatedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	p.events = append(p.events, payload.(CreatedEvent))
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

// countingStore counts point reads of hotel profiles.
type countingStore struct {
	docstore.Store
	mu    sync.Mutex
	reads int
}

func (s *countingStore) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	if collection == HotelsCollection {
		s.mu.Lock()
		s.reads++
		s.mu.Unlock()
	}
	return s.Store.Get(ctx, collection, id)
}

func seedHotel(t *testing.T, store docstore.Store, id string, premium bool) {
	t.Helper()
	require.NoError(t, store.Set(context.Background(), HotelsCollection, id, map[string]any{
		"name":      "Villa " + id,
		"isPremium": premium,
	}))
}

func hotelEnquiry(hotelID string) map[string]any {
	return map[string]any{
		"hotelId":     hotelID,
		"name":        "Jane Doe",
		"email":       "jane@example.com",
		"weddingDate": "2026-06-20",
		"guestCount":  120,
	}
}

func TestHotelEnquiryDefaultsToPendingAndPublishes(t *testing.T) {
	t.Parallel()

	publisher := &recordingPublisher{}
	svc := NewHotel(docstore.NewMemoryStore(), Options{Publisher: publisher})

	created, err := svc.Create(context.Background(), hotelEnquiry("h1"))
	require.NoError(t, err)
	require.Equal(t, StatusPending, created.Status)
	require.Equal(t, 120, created.GuestCount)

	require.Equal(t, []string{EventCreated}, publisher.keys)
	require.Equal(t, "hotel", publisher.events[0].Kind)
	require.Equal(t, created.ID, publisher.events[0].ID)
	require.Equal(t, "h1", publisher.events[0].OwnerID)
}

func TestPublishFailureDoesNotFailCreate(t *testing.T) {
	t.Parallel()

	publisher := &recordingPublisher{err: errors.New("broker down")}
	svc := NewVendor(docstore.NewMemoryStore(), Options{
		Options:   content.Options{Logger: zaptest.NewLogger(t)},
		Publisher: publisher,
	})

	created, err := svc.Create(context.Background(), map[string]any{"vendorId": "v1", "name": "Jo", "email": "jo@example.com"})
	require.NoError(t, err)
	require.Equal(t, StatusPending, created.Status)
	require.Len(t, publisher.events, 1)
}

func TestHotelEnquiryValidation(t *testing.T) {
	t.Parallel()

	svc := NewHotel(docstore.NewMemoryStore(), Options{})
	_, err := svc.Create(context.Background(), map[string]any{"name": "Jane", "email": "not-an-email", "isPremium": true})

	var verr *content.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "hotelId")
	require.Contains(t, verr.Fields, "email")
	require.Contains(t, verr.Fields, "payload")
}

func TestListForHotelRequiresPremium(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := docstore.NewMemoryStore()
	seedHotel(t, store, "basic", false)
	seedHotel(t, store, "gold", true)

	svc := NewHotel(store, Options{})
	_, err := svc.Create(ctx, hotelEnquiry("basic"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, hotelEnquiry("gold"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, hotelEnquiry("gold"))
	require.NoError(t, err)

	list, err := svc.ListForHotel(ctx, "basic")
	require.ErrorIs(t, err, content.ErrAccessDenied)
	require.NotErrorIs(t, err, content.ErrNotFound)
	require.Nil(t, list)

	list, err = svc.ListForHotel(ctx, "gold")
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, enquiry := range list {
		require.Equal(t, "gold", enquiry.HotelID)
	}
	require.True(t, list[0].CreatedOn.After(list[1].CreatedOn))

	_, err = svc.ListForHotel(ctx, "ghost")
	require.ErrorIs(t, err, content.ErrNotFound)
	require.EqualError(t, err, "Hotel not found")
}

func TestPremiumLookupIsCached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := &countingStore{Store: docstore.NewMemoryStore()}
	seedHotel(t, store, "gold", true)

	entitlements, err := cache.New[bool](cache.DefaultConfig(time.Minute))
	require.NoError(t, err)
	svc := NewHotel(store, Options{Entitlements: entitlements})

	for i := 0; i < 3; i++ {
		_, err := svc.ListForHotel(ctx, "gold")
		require.NoError(t, err)
	}
	require.Equal(t, 1, store.reads)
}

func TestUpdateStatusEnums(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	hotels := NewHotel(docstore.NewMemoryStore(), Options{})
	vendors := NewVendor(docstore.NewMemoryStore(), Options{})

	he, err := hotels.Create(ctx, hotelEnquiry("h1"))
	require.NoError(t, err)
	updated, err := hotels.UpdateStatus(ctx, he.ID, StatusContacted)
	require.NoError(t, err)
	require.Equal(t, StatusContacted, updated.Status)

	_, err = hotels.UpdateStatus(ctx, he.ID, StatusApproved)
	var verr *content.ValidationError
	require.ErrorAs(t, err, &verr)

	ve, err := vendors.Create(ctx, map[string]any{"vendorId": "v1", "name": "Jo", "email": "jo@example.com"})
	require.NoError(t, err)
	_, err = vendors.UpdateStatus(ctx, ve.ID, StatusClosed)
	require.ErrorAs(t, err, &verr)
	approved, err := vendors.UpdateStatus(ctx, ve.ID, StatusApproved)
	require.NoError(t, err)
	require.Equal(t, StatusApproved, approved.Status)

	_, err = vendors.UpdateStatus(ctx, "missing", StatusRejected)
	require.EqualError(t, err, "Vendor enquiry not found")
}

func TestListForVendor(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewVendor(docstore.NewMemoryStore(), Options{})
	for _, vendor := range []string{"v1", "v2", "v1"} {
		_, err := svc.Create(ctx, map[string]any{"vendorId": vendor, "name": "Jo", "email": "jo@example.com"})
		require.NoError(t, err)
	}

	list, err := svc.ListForVendor(ctx, "v1")
	require.NoError(t, err)
	require.Len(t, list, 2)

	_, err = svc.ListForVendor(ctx, " ")
	var verr *content.ValidationError
	require.ErrorAs(t, err, &verr)
}
