package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zenGate-Global/wedding-marketplace/domains/testimonials/be/service"
	platformauth "github.com/zenGate-Global/wedding-marketplace/platform/go/auth"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/contentapi"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/respond"
)

var writeRoles = []string{platformauth.RoleAdmin, platformauth.RoleMarketing}

// Handler wires the testimonials service to the REST routes.
type Handler struct {
	*contentapi.Handler[service.Testimonial]
	svc service.Service
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Handler: contentapi.New[service.Testimonial](svc, "testimonials", logger),
		svc:     svc,
	}
}

// Routes mounts the CRUD routes plus PUT /{id}/order.
func (h *Handler) Routes(r chi.Router) {
	h.Mount(r, contentapi.Routes{WriteRoles: writeRoles})
	r.With(platformauth.RequireRole(writeRoles...)).Put("/{id}/order", h.UpdateOrder)
}

// UpdateOrder expects {"order": <int>}.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	payload, err := respond.Decode(r)
	if err != nil {
		h.Fail(w, r, "UpdateOrder", err)
		return
	}

	order, ok := payload[content.FieldOrder].(int64)
	if !ok {
		h.Fail(w, r, "UpdateOrder", content.NewValidationError(map[string]string{content.FieldOrder: "must be an integer"}))
		return
	}

	updated, err := h.svc.UpdateOrder(r.Context(), chi.URLParam(r, "id"), int(order))
	if err != nil {
		h.Fail(w, r, "UpdateOrder", err)
		return
	}
	respond.OK(w, updated)
}
