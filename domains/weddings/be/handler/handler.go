package handler

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zenGate-Global/wedding-marketplace/domains/weddings/be/service"
	platformauth "github.com/zenGate-Global/wedding-marketplace/platform/go/auth"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/contentapi"
)

// Handler wires the weddings service to the REST routes.
type Handler struct {
	*contentapi.Handler[service.Wedding]
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	return &Handler{Handler: contentapi.New[service.Wedding](svc, "weddings", logger)}
}

// Routes mounts the wedding routes.
func (h *Handler) Routes(r chi.Router) {
	h.Mount(r, contentapi.Routes{
		WriteRoles: []string{platformauth.RoleAdmin, platformauth.RoleMarketing},
	})
}
