package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zenGate-Global/wedding-marketplace/domains/heroextension/be/service"
	platformauth "github.com/zenGate-Global/wedding-marketplace/platform/go/auth"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/contentapi"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/respond"
)

var writeRoles = []string{platformauth.RoleAdmin, platformauth.RoleMarketing}

// Handler wires the hero extension service to the REST routes.
type Handler struct {
	*contentapi.Handler[service.Image]
	svc service.Service
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Handler: contentapi.New[service.Image](svc, "heroExtension", logger),
		svc:     svc,
	}
}

// Routes mounts GET|PUT /content ahead of the image CRUD routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/content", h.GetContent)
	r.With(platformauth.RequireRole(writeRoles...)).Put("/content", h.UpsertContent)
	h.Mount(r, contentapi.Routes{WriteRoles: writeRoles})
}

func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	block, err := h.svc.GetContent(r.Context())
	if err != nil {
		h.Fail(w, r, "GetContent", err)
		return
	}
	respond.OK(w, block)
}

func (h *Handler) UpsertContent(w http.ResponseWriter, r *http.Request) {
	payload, err := respond.Decode(r)
	if err != nil {
		h.Fail(w, r, "UpsertContent", err)
		return
	}
	block, err := h.svc.UpsertContent(r.Context(), payload)
	if err != nil {
		h.Fail(w, r, "UpsertContent", err)
		return
	}
	respond.OK(w, block)
}
