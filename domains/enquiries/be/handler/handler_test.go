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

	"github.com/zenGate-Global/wedding-marketplace/domains/enquiries/be/service"
	platformauth "github.com/zenGate-Global/wedding-marketplace/platform/go/auth"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
)

type fixture struct {
	store   *docstore.MemoryStore
	hotels  service.HotelService
	vendors service.VendorService
	router  http.Handler
	limited int
}

func hotelUser(hotelID string) *platformauth.UserCredentials {
	return &platformauth.UserCredentials{Id: "u-" + hotelID, Role: platformauth.RoleHotel, HotelID: &hotelID}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{store: docstore.NewMemoryStore()}
	f.hotels = service.NewHotel(f.store, service.Options{})
	f.vendors = service.NewVendor(f.store, service.Options{})

	limit := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			f.limited++
			next.ServeHTTP(w, r)
		})
	}
	h := New(f.hotels, f.vendors, zaptest.NewLogger(t), limit)

	r := chi.NewRouter()
	r.Route("/hotel-enquiries", h.HotelRoutes)
	r.Route("/vendor-enquiries", h.VendorRoutes)
	h.OwnerRoutes(r)
	f.router = r

	ctx := context.Background()
	require.NoError(t, f.store.Set(ctx, service.HotelsCollection, "gold", map[string]any{"isPremium": true}))
	require.NoError(t, f.store.Set(ctx, service.HotelsCollection, "basic", map[string]any{"isPremium": false}))
	return f
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

func TestAnonymousSubmissionIsRateLimited(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rec, env := f.do(t, http.MethodPost, "/hotel-enquiries", nil, `{"hotelId":"gold","name":"Jane","email":"jane@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, service.StatusPending, env["data"].(map[string]any)["status"])
	require.Equal(t, 1, f.limited)

	rec, _ = f.do(t, http.MethodGet, "/hotel-enquiries", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListForHotelGating(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.hotels.Create(context.Background(), map[string]any{"hotelId": "gold", "name": "Jane", "email": "jane@example.com"})
	require.NoError(t, err)

	rec, env := f.do(t, http.MethodGet, "/hotels/gold/enquiries", hotelUser("gold"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, env["data"], 1)

	rec, env = f.do(t, http.MethodGet, "/hotels/basic/enquiries", hotelUser("basic"), "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Premium subscription required to view enquiries", env["message"])

	rec, _ = f.do(t, http.MethodGet, "/hotels/gold/enquiries", hotelUser("basic"), "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	admin := &platformauth.UserCredentials{Id: "a", Role: platformauth.RoleAdmin}
	rec, _ = f.do(t, http.MethodGet, "/hotels/gold/enquiries", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/hotels/nowhere/enquiries", admin, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHotelUpdatesOwnEnquiryStatus(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	enquiry, err := f.hotels.Create(context.Background(), map[string]any{"hotelId": "gold", "name": "Jane", "email": "jane@example.com"})
	require.NoError(t, err)
	path := "/hotel-enquiries/" + enquiry.ID + "/status"

	rec, _ := f.do(t, http.MethodPut, path, hotelUser("basic"), `{"status":"Contacted"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = f.do(t, http.MethodPut, path, hotelUser("gold"), `{"status":"Approved"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := f.do(t, http.MethodPut, path, hotelUser("gold"), `{"status":"Contacted"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, service.StatusContacted, env["data"].(map[string]any)["status"])
}

func TestVendorListing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.vendors.Create(context.Background(), map[string]any{"vendorId": "v1", "name": "Jo", "email": "jo@example.com"})
	require.NoError(t, err)

	vendorID := "v1"
	vendor := &platformauth.UserCredentials{Id: "u", Role: platformauth.RoleVendor, VendorID: &vendorID}

	rec, env := f.do(t, http.MethodGet, "/vendors/v1/enquiries", vendor, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, env["data"], 1)

	rec, _ = f.do(t, http.MethodGet, "/vendors/v2/enquiries", vendor, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAnonymousSubmissionCannotSetWorkflowFields(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	rec, env := f.do(t, http.MethodPost, "/hotel-enquiries", nil,
		`{"hotelId":"gold","name":"Jane","email":"jane@example.com","status":"Closed"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := env["data"].(map[string]any)
	require.Equal(t, service.StatusPending, created["status"])

	stored, err := f.store.Get(ctx, service.HotelCollection, created["id"].(string))
	require.NoError(t, err)
	require.Equal(t, service.StatusPending, stored.String("status"))

	for _, body := range []string{
		`{"hotelId":"gold","name":"Jane","email":"jane@example.com","isPremium":true}`,
		`{"hotelId":"gold","name":"Jane","email":"jane@example.com","hotel":{"owner":"x"}}`,
	} {
		rec, env = f.do(t, http.MethodPost, "/hotel-enquiries", nil, body)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		require.Contains(t, env["errors"], "payload", body)
	}

	rec, _ = f.do(t, http.MethodPost, "/vendor-enquiries", nil,
		`{"vendorId":"v1","name":"Jo","email":"jo@example.com","status":"Approved"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	admin := &platformauth.UserCredentials{Id: "a", Role: platformauth.RoleAdmin}
	rec, env = f.do(t, http.MethodGet, "/hotel-enquiries", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, env["data"], 1)

	rec, env = f.do(t, http.MethodGet, "/vendor-enquiries", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, env["data"], 1)
	require.Equal(t, service.StatusPending, env["data"].([]any)[0].(map[string]any)["status"])
}

func TestEnquiriesHaveNoActiveListing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.hotels.Create(context.Background(), map[string]any{"hotelId": "gold", "name": "Jane", "email": "jane@example.com"})
	require.NoError(t, err)

	admin := &platformauth.UserCredentials{Id: "a", Role: platformauth.RoleAdmin}
	for _, path := range []string{"/hotel-enquiries/active", "/vendor-enquiries/active"} {
		rec, _ := f.do(t, http.MethodGet, path, admin, "")
		require.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}
