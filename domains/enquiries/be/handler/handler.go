package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zenGate-Global/wedding-marketplace/domains/enquiries/be/service"
	platformauth "github.com/zenGate-Global/wedding-marketplace/platform/go/auth"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/contentapi"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/respond"
)

var adminOnly = []string{platformauth.RoleAdmin}

// Handler wires both enquiry services to the REST routes.
type Handler struct {
	hotels     service.HotelService
	vendors    service.VendorService
	hotelCRUD  *contentapi.Handler[service.HotelEnquiry]
	vendorCRUD *contentapi.Handler[service.VendorEnquiry]
	// createLimit guards the anonymous POST routes.
	createLimit []func(http.Handler) http.Handler
}

// New constructs a Handler instance. createLimit wraps anonymous enquiry submission.
func New(hotels service.HotelService, vendors service.VendorService, logger *zap.Logger, createLimit ...func(http.Handler) http.Handler) *Handler {
	if hotels == nil || vendors == nil {
		panic("enquiry services are required")
	}
	return &Handler{
		hotels:      hotels,
		vendors:     vendors,
		hotelCRUD:   contentapi.New[service.HotelEnquiry](hotels, "hotelEnquiries", logger),
		vendorCRUD:  contentapi.New[service.VendorEnquiry](vendors, "vendorEnquiries", logger),
		createLimit: createLimit,
	}
}

func (h *Handler) routes() contentapi.Routes {
	return contentapi.Routes{
		WriteRoles:       adminOnly,
		ReadRoles:        adminOnly,
		PublicCreate:     true,
		CreateMiddleware: h.createLimit,
		NoActive:         true,
	}
}

// HotelRoutes mounts /hotel-enquiries.
func (h *Handler) HotelRoutes(r chi.Router) {
	h.hotelCRUD.Mount(r, h.routes())
	r.With(platformauth.RequireRole(platformauth.RoleAdmin, platformauth.RoleHotel)).Put("/{id}/status", h.UpdateHotelStatus)
}

// VendorRoutes mounts /vendor-enquiries.
func (h *Handler) VendorRoutes(r chi.Router) {
	h.vendorCRUD.Mount(r, h.routes())
	r.With(platformauth.RequireRole(platformauth.RoleAdmin, platformauth.RoleVendor)).Put("/{id}/status", h.UpdateVendorStatus)
}

// OwnerRoutes mounts the per-profile listings under /hotels and /vendors.
func (h *Handler) OwnerRoutes(r chi.Router) {
	r.With(platformauth.RequireRole(platformauth.RoleAdmin, platformauth.RoleHotel)).Get("/hotels/{hotelId}/enquiries", h.ListForHotel)
	r.With(platformauth.RequireRole(platformauth.RoleAdmin, platformauth.RoleVendor)).Get("/vendors/{vendorId}/enquiries", h.ListForVendor)
}

func (h *Handler) ListForHotel(w http.ResponseWriter, r *http.Request) {
	hotelID := chi.URLParam(r, "hotelId")
	if err := authorizeOwner(r, platformauth.RoleHotel, hotelID); err != nil {
		h.hotelCRUD.Fail(w, r, "ListForHotel", err)
		return
	}

	items, err := h.hotels.ListForHotel(r.Context(), hotelID)
	if err != nil {
		h.hotelCRUD.Fail(w, r, "ListForHotel", err)
		return
	}
	respond.OK(w, items)
}

func (h *Handler) ListForVendor(w http.ResponseWriter, r *http.Request) {
	vendorID := chi.URLParam(r, "vendorId")
	if err := authorizeOwner(r, platformauth.RoleVendor, vendorID); err != nil {
		h.vendorCRUD.Fail(w, r, "ListForVendor", err)
		return
	}

	items, err := h.vendors.ListForVendor(r.Context(), vendorID)
	if err != nil {
		h.vendorCRUD.Fail(w, r, "ListForVendor", err)
		return
	}
	respond.OK(w, items)
}

func (h *Handler) UpdateHotelStatus(w http.ResponseWriter, r *http.Request) {
	status, err := decodeStatus(r)
	if err != nil {
		h.hotelCRUD.Fail(w, r, "UpdateStatus", err)
		return
	}

	id := chi.URLParam(r, "id")
	enquiry, err := h.hotels.GetByID(r.Context(), id)
	if err == nil {
		err = authorizeOwner(r, platformauth.RoleHotel, enquiry.HotelID)
	}
	if err == nil {
		enquiry, err = h.hotels.UpdateStatus(r.Context(), id, status)
	}
	if err != nil {
		h.hotelCRUD.Fail(w, r, "UpdateStatus", err)
		return
	}
	respond.OK(w, enquiry)
}

func (h *Handler) UpdateVendorStatus(w http.ResponseWriter, r *http.Request) {
	status, err := decodeStatus(r)
	if err != nil {
		h.vendorCRUD.Fail(w, r, "UpdateStatus", err)
		return
	}

	id := chi.URLParam(r, "id")
	enquiry, err := h.vendors.GetByID(r.Context(), id)
	if err == nil {
		err = authorizeOwner(r, platformauth.RoleVendor, enquiry.VendorID)
	}
	if err == nil {
		enquiry, err = h.vendors.UpdateStatus(r.Context(), id, status)
	}
	if err != nil {
		h.vendorCRUD.Fail(w, r, "UpdateStatus", err)
		return
	}
	respond.OK(w, enquiry)
}

func decodeStatus(r *http.Request) (string, error) {
	payload, err := respond.Decode(r)
	if err != nil {
		return "", err
	}
	status, _ := payload[content.FieldStatus].(string)
	if status == "" {
		return "", content.NewValidationError(map[string]string{content.FieldStatus: "is required"})
	}
	return status, nil
}

// authorizeOwner lets admins through and limits role holders to their own linked profile.
func authorizeOwner(r *http.Request, role, ownerID string) error {
	creds, ok := platformauth.UserFromContext(r.Context())
	if !ok {
		return &content.AccessDeniedError{Reason: "authentication required"}
	}
	if !creds.Owns(role, ownerID) {
		return &content.AccessDeniedError{Reason: "You can only manage your own enquiries"}
	}
	return nil
}
