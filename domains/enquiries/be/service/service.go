// Package service manages enquiries couples send to hotels and vendors.
//
// Enquiry creation is anonymous; listing a hotel's enquiries is a premium feature and fails with
// content.ErrAccessDenied for hotels without it.
package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zenGate-Global/wedding-marketplace/platform/go/cache"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/events"
)

// Collections read and written by the enquiry services.
const (
	HotelCollection  = "hotelEnquiries"
	VendorCollection = "vendorEnquiries"
	// HotelsCollection holds hotel profiles carrying the premium flag.
	HotelsCollection = "hotels"

	fieldHotelID   = "hotelId"
	fieldVendorID  = "vendorId"
	fieldIsPremium = "isPremium"
)

// EventCreated is the routing key of enquiry notifications.
const EventCreated = "enquiry.created"

// Enquiry statuses.
const (
	StatusPending   = "Pending"
	StatusContacted = "Contacted"
	StatusClosed    = "Closed"
	StatusApproved  = "Approved"
	StatusRejected  = "Rejected"
)

var (
	hotelStatuses  = []string{StatusPending, StatusContacted, StatusClosed}
	vendorStatuses = []string{StatusPending, StatusApproved, StatusRejected}
)

// Options carries the collaborators shared by both enquiry services.
type Options struct {
	content.Options
	// Publisher receives enquiry.created events; events.Noop when nil.
	Publisher events.Publisher
	// Entitlements caches the premium flag per hotel; every lookup reads the profile when nil.
	Entitlements *cache.TTL[bool]
}

// CreatedEvent is published after an enquiry is stored.
type CreatedEvent struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message,omitempty"`
	CreatedOn time.Time `json:"createdOn"`
}

// notifier publishes CreatedEvent without failing the request that stored the enquiry.
type notifier struct {
	publisher events.Publisher
	logger    *zap.Logger
}

func newNotifier(opts Options) notifier {
	publisher := opts.Publisher
	if publisher == nil {
		publisher = events.Noop{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return notifier{publisher: publisher, logger: logger}
}

func (n notifier) created(ctx context.Context, event CreatedEvent) {
	if err := n.publisher.Publish(ctx, EventCreated, event); err != nil {
		n.logger.Warn("enquiry event not published",
			zap.String("kind", event.Kind),
			zap.String("id", event.ID),
			zap.Error(err),
		)
	}
}

// submission drops the workflow status from a new enquiry so every enquiry starts Pending.
func submission(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if k != content.FieldStatus {
			out[k] = v
		}
	}
	return out
}

func validateStatus(status string, allowed []string) error {
	if !slices.Contains(allowed, status) {
		return content.NewValidationError(map[string]string{
			content.FieldStatus: "must be one of " + strings.Join(allowed, ", "),
		})
	}
	return nil
}

func decodeCommon(doc docstore.Document, owner string) error {
	if doc.String(owner) == "" {
		return errors.New(owner + " missing")
	}
	if doc.String("email") == "" {
		return errors.New("email missing")
	}
	return nil
}
