package handler

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zenGate-Global/wedding-marketplace/domains/about/be/service"
	platformauth "github.com/zenGate-Global/wedding-marketplace/platform/go/auth"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/contentapi"
)

// Handler wires the about content service to the REST routes.
type Handler struct {
	*contentapi.Handler[service.AboutContent]
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	return &Handler{Handler: contentapi.New[service.AboutContent](svc, "aboutContent", logger)}
}

// Routes mounts the about content routes.
func (h *Handler) Routes(r chi.Router) {
	h.Mount(r, contentapi.Routes{
		WriteRoles: []string{platformauth.RoleAdmin, platformauth.RoleMarketing},
	})
}
