package service

import (
	"context"
	"errors"
	"strings"

	"github.com/zenGate-Global/wedding-marketplace/platform/go/cache"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/validation"
)

// HotelEnquiry is a couple's request to a venue.
type HotelEnquiry struct {
	content.Meta
	HotelID     string `json:"hotelId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	WeddingDate string `json:"weddingDate,omitempty"`
	GuestCount  int    `json:"guestCount,omitempty"`
	Message     string `json:"message,omitempty"`
}

var hotelSchema = validation.Schema{
	Name: "hotel-enquiry",
	Definition: `{
		"type": "object",
		"additionalProperties": false,
		"properties": {
			"hotelId":     {"type": "string", "minLength": 1},
			"name":        {"type": "string", "maxLength": 120},
			"email":       {"type": "string", "format": "email"},
			"phone":       {"type": "string", "maxLength": 40},
			"weddingDate": {"type": "string", "format": "date"},
			"guestCount":  {"type": "integer", "minimum": 1},
			"message":     {"type": "string", "maxLength": 4000},
			"status":      {"enum": ["Pending", "Contacted", "Closed"]}
		}
	}`,
}

// DecodeHotelEnquiry materializes a hotel enquiry.
func DecodeHotelEnquiry(doc docstore.Document) (HotelEnquiry, error) {
	if err := decodeCommon(doc, fieldHotelID); err != nil {
		return HotelEnquiry{}, err
	}
	return HotelEnquiry{
		Meta:        content.MetaFrom(doc),
		HotelID:     doc.String(fieldHotelID),
		Name:        doc.String("name"),
		Email:       doc.String("email"),
		Phone:       doc.String("phone"),
		WeddingDate: doc.String("weddingDate"),
		GuestCount:  doc.Int("guestCount"),
		Message:     doc.String("message"),
	}, nil
}

// HotelConfig describes the hotel enquiry kind.
func HotelConfig() content.Config[HotelEnquiry] {
	return content.Config[HotelEnquiry]{
		Kind: content.Kind[HotelEnquiry]{
			Name:       "Hotel enquiry",
			Plural:     "hotel enquiries",
			Collection: HotelCollection,
			Ordering:   content.ByCreatedDesc,
			Decode:     DecodeHotelEnquiry,
		},
		Required:      []string{fieldHotelID, "name", "email"},
		Schema:        &hotelSchema,
		DefaultStatus: StatusPending,
	}
}

// HotelService defines the business operations for hotel enquiries.
type HotelService interface {
	content.CRUD[HotelEnquiry]
	content.Refresher
	// ListForHotel returns the hotel's enquiries, newest first, when the hotel has premium access.
	ListForHotel(ctx context.Context, hotelID string) ([]HotelEnquiry, error)
	// UpdateStatus moves an enquiry through Pending, Contacted and Closed.
	UpdateStatus(ctx context.Context, id, status string) (HotelEnquiry, error)
}

type hotelService struct {
	*content.Repository[HotelEnquiry]
	store        docstore.Store
	entitlements *cache.TTL[bool]
	notify       notifier
}

// NewHotel constructs a HotelService over store.
func NewHotel(store docstore.Store, opts Options) HotelService {
	if store == nil {
		panic("document store is required")
	}
	return &hotelService{
		Repository:   content.NewRepository(store, HotelConfig(), opts.Options),
		store:        store,
		entitlements: opts.Entitlements,
		notify:       newNotifier(opts),
	}
}

// Create stores the enquiry and announces it.
func (s *hotelService) Create(ctx context.Context, fields map[string]any) (HotelEnquiry, error) {
	created, err := s.Repository.Create(ctx, submission(fields))
	if err != nil {
		return created, err
	}
	s.notify.created(ctx, CreatedEvent{
		Kind:      "hotel",
		ID:        created.ID,
		OwnerID:   created.HotelID,
		Name:      created.Name,
		Email:     created.Email,
		Message:   created.Message,
		CreatedOn: created.CreatedOn,
	})
	return created, nil
}

func (s *hotelService) ListForHotel(ctx context.Context, hotelID string) ([]HotelEnquiry, error) {
	hotelID = strings.TrimSpace(hotelID)
	if hotelID == "" {
		return nil, content.NewValidationError(map[string]string{fieldHotelID: "is required"})
	}

	premium, err := s.entitlements.GetOrFetch(ctx, hotelID, func(ctx context.Context) (bool, error) {
		return s.isPremium(ctx, hotelID)
	})
	if err != nil {
		return nil, err
	}
	if !premium {
		return nil, &content.AccessDeniedError{Reason: "Premium subscription required to view enquiries"}
	}

	return s.Find(ctx, map[string]any{fieldHotelID: hotelID})
}

func (s *hotelService) isPremium(ctx context.Context, hotelID string) (bool, error) {
	doc, err := s.store.Get(ctx, HotelsCollection, hotelID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return false, &content.NotFoundError{Kind: "Hotel", ID: hotelID}
		}
		return false, &content.StoreError{Op: content.OpFetch, Kind: "hotels", Err: err}
	}
	return doc.Bool(fieldIsPremium), nil
}

func (s *hotelService) UpdateStatus(ctx context.Context, id, status string) (HotelEnquiry, error) {
	if err := validateStatus(status, hotelStatuses); err != nil {
		return HotelEnquiry{}, err
	}
	return s.Update(ctx, id, map[string]any{content.FieldStatus: status})
}
