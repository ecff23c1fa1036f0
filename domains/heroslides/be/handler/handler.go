package handler

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zenGate-Global/wedding-marketplace/domains/heroslides/be/service"
	platformauth "github.com/zenGate-Global/wedding-marketplace/platform/go/auth"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/contentapi"
)

// Handler wires the hero slides service to the REST routes.
type Handler struct {
	*contentapi.Handler[service.HeroSlide]
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	return &Handler{Handler: contentapi.New[service.HeroSlide](svc, "heroSlides", logger)}
}

// Routes mounts the hero slide routes; marketing and admin manage the carousel.
func (h *Handler) Routes(r chi.Router) {
	h.Mount(r, contentapi.Routes{
		WriteRoles: []string{platformauth.RoleAdmin, platformauth.RoleMarketing},
	})
}
