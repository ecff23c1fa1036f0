package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/zenGate-Global/wedding-marketplace/domains/accounts/be/service"
	platformauth "github.com/zenGate-Global/wedding-marketplace/platform/go/auth"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
)

var admin = &platformauth.UserCredentials{Id: "root", Role: platformauth.RoleAdmin}

type fixture struct {
	store  *docstore.MemoryStore
	router http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := docstore.NewMemoryStore()
	svc := service.New(store, content.Options{Logger: zaptest.NewLogger(t)})

	r := chi.NewRouter()
	r.Route("/accounts", New(svc, zaptest.NewLogger(t)).Routes)

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "hotels", "h1", map[string]any{"name": "Villa Aurora", "status": "active"}))
	require.NoError(t, store.Set(ctx, service.AuthCollection, "a1", map[string]any{
		"email": "h@example.com", "name": "Villa Aurora", "role": "hotel", "hotelId": "h1", "status": "active",
	}))
	require.NoError(t, store.Set(ctx, service.AuthCollection, "a2", map[string]any{
		"email": "v@example.com", "name": "Blooms", "role": "vendor", "vendorId": "gone", "status": "active",
	}))
	return &fixture{store: store, router: r}
}

func (f *fixture) do(t *testing.T, method, path string, creds *platformauth.UserCredentials, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if creds != nil {
		req = req.WithContext(platformauth.WithUser(req.Context(), creds))
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var env map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestAccountsRequireAdmin(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rec, _ := f.do(t, http.MethodGet, "/accounts", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/accounts", &platformauth.UserCredentials{Id: "m", Role: platformauth.RoleMarketing}, "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := f.do(t, http.MethodGet, "/accounts?forceRefresh=true", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, env["data"], 2)
}

func TestUpdateStatusPropagates(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rec, env := f.do(t, http.MethodPut, "/accounts/a1/status", admin, `{"status":"inactive"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "inactive", env["data"].(map[string]any)["status"])

	hotel, err := f.store.Get(context.Background(), "hotels", "h1")
	require.NoError(t, err)
	require.Equal(t, "inactive", hotel.String("status"))

	rec, env = f.do(t, http.MethodPut, "/accounts/a1/status", admin, `{"status":"suspended"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Validation failed", env["message"])
}

func TestMissingProfileIsConflict(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rec, env := f.do(t, http.MethodPut, "/accounts/a2/status", admin, `{"status":"inactive"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, false, env["success"])
	require.Equal(t, "Linked vendor profile not found", env["message"])
}

func TestUpdateAndDelete(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rec, env := f.do(t, http.MethodPut, "/accounts/a1", admin, `{"name":"Villa Aurora Resort"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Villa Aurora Resort", env["data"].(map[string]any)["name"])

	rec, env = f.do(t, http.MethodPut, "/accounts/a1", admin, `{"name":42}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, env["errors"], "name")

	rec, _ = f.do(t, http.MethodDelete, "/accounts/a1", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = f.do(t, http.MethodGet, "/accounts/a1", admin, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Account not found", env["message"])
}
