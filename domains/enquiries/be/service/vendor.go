package service

import (
	"context"
	"strings"

	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/validation"
)

// VendorEnquiry is a couple's request to a vendor (florist, photographer, ...).
type VendorEnquiry struct {
	content.Meta
	VendorID  string `json:"vendorId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	EventDate string `json:"eventDate,omitempty"`
	Message   string `json:"message,omitempty"`
}

var vendorSchema = validation.Schema{
	Name: "vendor-enquiry",
	Definition: `{
		"type": "object",
		"additionalProperties": false,
		"properties": {
			"vendorId":  {"type": "string", "minLength": 1},
			"name":      {"type": "string", "maxLength": 120},
			"email":     {"type": "string", "format": "email"},
			"phone":     {"type": "string", "maxLength": 40},
			"eventDate": {"type": "string", "format": "date"},
			"message":   {"type": "string", "maxLength": 4000},
			"status":    {"enum": ["Pending", "Approved", "Rejected"]}
		}
	}`,
}

// DecodeVendorEnquiry materializes a vendor enquiry.
func DecodeVendorEnquiry(doc docstore.Document) (VendorEnquiry, error) {
	if err := decodeCommon(doc, fieldVendorID); err != nil {
		return VendorEnquiry{}, err
	}
	return VendorEnquiry{
		Meta:      content.MetaFrom(doc),
		VendorID:  doc.String(fieldVendorID),
		Name:      doc.String("name"),
		Email:     doc.String("email"),
		Phone:     doc.String("phone"),
		EventDate: doc.String("eventDate"),
		Message:   doc.String("message"),
	}, nil
}

// VendorConfig describes the vendor enquiry kind.
func VendorConfig() content.Config[VendorEnquiry] {
	return content.Config[VendorEnquiry]{
		Kind: content.Kind[VendorEnquiry]{
			Name:       "Vendor enquiry",
			Plural:     "vendor enquiries",
			Collection: VendorCollection,
			Ordering:   content.ByCreatedDesc,
			Decode:     DecodeVendorEnquiry,
		},
		Required:      []string{fieldVendorID, "name", "email"},
		Schema:        &vendorSchema,
		DefaultStatus: StatusPending,
	}
}

// VendorService defines the business operations for vendor enquiries.
type VendorService interface {
	content.CRUD[VendorEnquiry]
	content.Refresher
	// ListForVendor returns the vendor's enquiries, newest first.
	ListForVendor(ctx context.Context, vendorID string) ([]VendorEnquiry, error)
	// UpdateStatus moves an enquiry through Pending, Approved and Rejected.
	UpdateStatus(ctx context.Context, id, status string) (VendorEnquiry, error)
}

type vendorService struct {
	*content.Repository[VendorEnquiry]
	notify notifier
}

// NewVendor constructs a VendorService over store.
func NewVendor(store docstore.Store, opts Options) VendorService {
	if store == nil {
		panic("document store is required")
	}
	return &vendorService{
		Repository: content.NewRepository(store, VendorConfig(), opts.Options),
		notify:     newNotifier(opts),
	}
}

// Create stores the enquiry and announces it.
func (s *vendorService) Create(ctx context.Context, fields map[string]any) (VendorEnquiry, error) {
	created, err := s.Repository.Create(ctx, submission(fields))
	if err != nil {
		return created, err
	}
	s.notify.created(ctx, CreatedEvent{
		Kind:      "vendor",
		ID:        created.ID,
		OwnerID:   created.VendorID,
		Name:      created.Name,
		Email:     created.Email,
		Message:   created.Message,
		CreatedOn: created.CreatedOn,
	})
	return created, nil
}

func (s *vendorService) ListForVendor(ctx context.Context, vendorID string) ([]VendorEnquiry, error) {
	vendorID = strings.TrimSpace(vendorID)
	if vendorID == "" {
		return nil, content.NewValidationError(map[string]string{fieldVendorID: "is required"})
	}
	return s.Find(ctx, map[string]any{fieldVendorID: vendorID})
}

func (s *vendorService) UpdateStatus(ctx context.Context, id, status string) (VendorEnquiry, error) {
	if err := validateStatus(status, vendorStatuses); err != nil {
		return VendorEnquiry{}, err
	}
	return s.Update(ctx, id, map[string]any{content.FieldStatus: status})
}
