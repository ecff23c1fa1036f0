package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zenGate-Global/wedding-marketplace/domains/accounts/be/service"
	platformauth "github.com/zenGate-Global/wedding-marketplace/platform/go/auth"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/respond"
)

// Handler wires the account synchronizer to the admin routes.
type Handler struct {
	svc    service.Service
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("accounts service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts the admin-only account routes.
func (h *Handler) Routes(r chi.Router) {
	r.Use(platformauth.RequireRole(platformauth.RoleAdmin))
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Put("/{id}/status", h.UpdateStatus)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	force, err := respond.ForceRefresh(r, false)
	if err != nil {
		h.fail(w, r, "List", err)
		return
	}
	accounts, err := h.svc.List(r.Context(), force)
	if err != nil {
		h.fail(w, r, "List", err)
		return
	}
	respond.OK(w, accounts)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Get", err)
		return
	}
	respond.OK(w, account)
}

// Update accepts any of {"name", "email", "role"}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	payload, err := respond.Decode(r)
	if err != nil {
		h.fail(w, r, "Update", err)
		return
	}

	var input service.UpdateInput
	fieldErrors := content.FieldErrors{}
	for field, dst := range map[string]**string{"name": &input.Name, "email": &input.Email, "role": &input.Role} {
		v, ok := payload[field]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			fieldErrors.Add(field, "must be a string")
			continue
		}
		*dst = &s
	}
	if len(fieldErrors) > 0 {
		h.fail(w, r, "Update", &content.ValidationError{Fields: fieldErrors})
		return
	}

	account, err := h.svc.UpdateAuth(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		h.fail(w, r, "Update", err)
		return
	}
	respond.OK(w, account)
}

// UpdateStatus expects {"status": "active"|"inactive"}.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	payload, err := respond.Decode(r)
	if err != nil {
		h.fail(w, r, "UpdateStatus", err)
		return
	}

	status, _ := payload[content.FieldStatus].(string)
	account, err := h.svc.UpdateAuthStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		h.fail(w, r, "UpdateStatus", err)
		return
	}
	respond.OK(w, account)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteAuth(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "Delete", err)
		return
	}
	respond.Done(w, "Deleted successfully")
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, operation string, err error) {
	respond.Error(w, r, h.logger, "accounts."+operation, err)
}
