// Package contentapi exposes a content repository over the shared REST routes.
package contentapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	platformauth "github.com/zenGate-Global/wedding-marketplace/platform/go/auth"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/respond"
)

// Service is the CRUD surface every content kind offers. *content.Repository satisfies it.
type Service[T content.Entity] interface {
	content.CRUD[T]
}

// Routes selects who may call the route groups.
type Routes struct {
	// WriteRoles guard POST, PUT and DELETE. Empty means anonymous writes.
	WriteRoles []string
	// ReadRoles guard the list and get routes. Empty means public reads.
	ReadRoles []string
	// CreateMiddleware wraps POST only (rate limiting for public submissions).
	CreateMiddleware []func(http.Handler) http.Handler
	// PublicCreate lets anonymous callers POST while other writes keep WriteRoles.
	PublicCreate bool
	// NoActive skips GET /active for kinds without an Active status.
	NoActive bool
}

// Handler serves one content kind.
type Handler[T content.Entity] struct {
	svc    Service[T]
	logger *zap.Logger
	// op prefixes log operation names, e.g. "heroSlides".
	op string
}

// New constructs a Handler instance.
func New[T content.Entity](svc Service[T], op string, logger *zap.Logger) *Handler[T] {
	if svc == nil {
		panic("content service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler[T]{svc: svc, logger: logger, op: op}
}

// Mount registers the standard routes on r:
//
//	GET    /          all documents
//	GET    /active    active documents, forced refresh by default (unless NoActive)
//	GET    /{id}
//	POST   /
//	PUT    /{id}
//	DELETE /{id}
func (h *Handler[T]) Mount(r chi.Router, routes Routes) {
	r.Group(func(r chi.Router) {
		if len(routes.ReadRoles) > 0 {
			r.Use(platformauth.RequireRole(routes.ReadRoles...))
		}
		r.Get("/", h.List)
		if !routes.NoActive {
			r.Get("/active", h.Active)
		}
		r.Get("/{id}", h.Get)
	})

	r.Group(func(r chi.Router) {
		r.Use(routes.CreateMiddleware...)
		if !routes.PublicCreate && len(routes.WriteRoles) > 0 {
			r.Use(platformauth.RequireRole(routes.WriteRoles...))
		}
		r.Post("/", h.Create)
	})

	r.Group(func(r chi.Router) {
		if len(routes.WriteRoles) > 0 {
			r.Use(platformauth.RequireRole(routes.WriteRoles...))
		}
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List returns every document; forceRefresh defaults to false.
func (h *Handler[T]) List(w http.ResponseWriter, r *http.Request) {
	force, err := respond.ForceRefresh(r, false)
	if err != nil {
		h.Fail(w, r, "List", err)
		return
	}
	items, err := h.svc.GetAll(r.Context(), force)
	if err != nil {
		h.Fail(w, r, "List", err)
		return
	}
	respond.OK(w, items)
}

// Active returns active documents; forceRefresh defaults to true because public pages read it.
func (h *Handler[T]) Active(w http.ResponseWriter, r *http.Request) {
	force, err := respond.ForceRefresh(r, true)
	if err != nil {
		h.Fail(w, r, "Active", err)
		return
	}
	items, err := h.svc.GetActive(r.Context(), force)
	if err != nil {
		h.Fail(w, r, "Active", err)
		return
	}
	respond.OK(w, items)
}

func (h *Handler[T]) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.Fail(w, r, "Get", err)
		return
	}
	respond.OK(w, item)
}

func (h *Handler[T]) Create(w http.ResponseWriter, r *http.Request) {
	payload, err := respond.Decode(r)
	if err != nil {
		h.Fail(w, r, "Create", err)
		return
	}
	created, err := h.svc.Create(r.Context(), payload)
	if err != nil {
		h.Fail(w, r, "Create", err)
		return
	}
	respond.Created(w, created, "")
}

func (h *Handler[T]) Update(w http.ResponseWriter, r *http.Request) {
	payload, err := respond.Decode(r)
	if err != nil {
		h.Fail(w, r, "Update", err)
		return
	}
	updated, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		h.Fail(w, r, "Update", err)
		return
	}
	respond.OK(w, updated)
}

func (h *Handler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.Fail(w, r, "Delete", err)
		return
	}
	respond.Done(w, "Deleted successfully")
}

// Fail writes err through respond.Error with the kind's operation name.
func (h *Handler[T]) Fail(w http.ResponseWriter, r *http.Request, operation string, err error) {
	respond.Error(w, r, h.logger, h.op+operation, err)
}
