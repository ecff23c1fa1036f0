package contentapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	platformauth "github.com/zenGate-Global/wedding-marketplace/platform/go/auth"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
)

type note struct {
	content.Meta
	Title string `json:"title"`
}

func decodeNote(doc docstore.Document) (note, error) {
	return note{Meta: content.MetaFrom(doc), Title: doc.String("title")}, nil
}

type envelope[T any] struct {
	Success bool                `json:"success"`
	Data    T                   `json:"data"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// withRole injects credentials from the X-Role header.
func withRole(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if role := r.Header.Get("X-Role"); role != "" {
			r = r.WithContext(platformauth.WithUser(r.Context(), &platformauth.UserCredentials{Id: "u1", Role: role}))
		}
		next.ServeHTTP(w, r)
	})
}

func newRouter(t *testing.T, svc Service[note], routes Routes) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	r.Use(withRole)
	r.Route("/notes", func(r chi.Router) {
		New[note](svc, "notes", zaptest.NewLogger(t)).Mount(r, routes)
	})
	return r
}

func newRepo() *content.Repository[note] {
	return content.NewRepository(docstore.NewMemoryStore(), content.Config[note]{
		Kind: content.Kind[note]{
			Name:       "Note",
			Plural:     "notes",
			Collection: "notes",
			Decode:     decodeNote,
		},
		Required: []string{"title"},
	}, content.Options{})
}

func do[T any](t *testing.T, h http.Handler, method, path, role, body string) (int, envelope[T]) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if role != "" {
		req.Header.Set("X-Role", role)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func TestCRUDRoundTrip(t *testing.T) {
	t.Parallel()

	h := newRouter(t, newRepo(), Routes{WriteRoles: []string{platformauth.RoleAdmin}})

	status, created := do[note](t, h, http.MethodPost, "/notes", platformauth.RoleAdmin, `{"title":"Welcome"}`)
	require.Equal(t, http.StatusCreated, status)
	require.True(t, created.Success)
	require.Equal(t, "Welcome", created.Data.Title)
	require.Equal(t, content.StatusActive, created.Data.Status)

	status, list := do[[]note](t, h, http.MethodGet, "/notes/active", "", "")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list.Data, 1)

	status, updated := do[note](t, h, http.MethodPut, "/notes/"+created.Data.ID, platformauth.RoleAdmin, `{"status":"inactive"}`)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, content.StatusInactive, updated.Data.Status)

	_, list = do[[]note](t, h, http.MethodGet, "/notes/active", "", "")
	require.Empty(t, list.Data)

	status, deleted := do[any](t, h, http.MethodDelete, "/notes/"+created.Data.ID, platformauth.RoleAdmin, "")
	require.Equal(t, http.StatusOK, status)
	require.True(t, deleted.Success)

	status, missing := do[any](t, h, http.MethodGet, "/notes/"+created.Data.ID, "", "")
	require.Equal(t, http.StatusNotFound, status)
	require.False(t, missing.Success)
	require.Equal(t, "Note not found", missing.Message)
}

func TestWritesRequireRole(t *testing.T) {
	t.Parallel()

	h := newRouter(t, newRepo(), Routes{WriteRoles: []string{platformauth.RoleAdmin, platformauth.RoleMarketing}})

	status, _ := do[any](t, h, http.MethodPost, "/notes", "", `{"title":"x"}`)
	require.Equal(t, http.StatusUnauthorized, status)

	status, _ = do[any](t, h, http.MethodPost, "/notes", platformauth.RoleUser, `{"title":"x"}`)
	require.Equal(t, http.StatusForbidden, status)

	status, _ = do[any](t, h, http.MethodPost, "/notes", platformauth.RoleMarketing, `{"title":"x"}`)
	require.Equal(t, http.StatusCreated, status)
}

func TestPublicCreateKeepsOtherWritesGuarded(t *testing.T) {
	t.Parallel()

	var limited int
	limiter := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limited++
			next.ServeHTTP(w, r)
		})
	}

	h := newRouter(t, newRepo(), Routes{
		WriteRoles:       []string{platformauth.RoleAdmin},
		ReadRoles:        []string{platformauth.RoleAdmin},
		PublicCreate:     true,
		CreateMiddleware: []func(http.Handler) http.Handler{limiter},
	})

	status, created := do[note](t, h, http.MethodPost, "/notes", "", `{"title":"Enquiry"}`)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, 1, limited)

	status, _ = do[any](t, h, http.MethodGet, "/notes", "", "")
	require.Equal(t, http.StatusUnauthorized, status)

	status, _ = do[any](t, h, http.MethodDelete, "/notes/"+created.Data.ID, "", "")
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestCreateValidationFailure(t *testing.T) {
	t.Parallel()

	h := newRouter(t, newRepo(), Routes{})

	status, env := do[any](t, h, http.MethodPost, "/notes", "", `{"title":"  "}`)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, []string{"is required"}, env.Errors["title"])

	status, env = do[any](t, h, http.MethodPost, "/notes", "", `not json`)
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, env.Errors, "body")
}

type mockService struct {
	getAllFn    func(ctx context.Context, force bool) ([]note, error)
	getActiveFn func(ctx context.Context, force bool) ([]note, error)
}

func (m *mockService) GetAll(ctx context.Context, force bool) ([]note, error) {
	if m.getAllFn == nil {
		panic("getAllFn not configured")
	}
	return m.getAllFn(ctx, force)
}

func (m *mockService) GetActive(ctx context.Context, force bool) ([]note, error) {
	if m.getActiveFn == nil {
		panic("getActiveFn not configured")
	}
	return m.getActiveFn(ctx, force)
}

func (m *mockService) GetByID(context.Context, string) (note, error) {
	panic("GetByID not configured")
}

func (m *mockService) Create(context.Context, map[string]any) (note, error) {
	panic("Create not configured")
}

func (m *mockService) Update(context.Context, string, map[string]any) (note, error) {
	panic("Update not configured")
}

func (m *mockService) Delete(context.Context, string) error {
	panic("Delete not configured")
}

func TestForceRefreshDefaults(t *testing.T) {
	t.Parallel()

	var gotAll, gotActive []bool
	svc := &mockService{
		getAllFn: func(_ context.Context, force bool) ([]note, error) {
			gotAll = append(gotAll, force)
			return []note{}, nil
		},
		getActiveFn: func(_ context.Context, force bool) ([]note, error) {
			gotActive = append(gotActive, force)
			return []note{}, nil
		},
	}
	h := newRouter(t, svc, Routes{})

	do[any](t, h, http.MethodGet, "/notes", "", "")
	do[any](t, h, http.MethodGet, "/notes?forceRefresh=true", "", "")
	do[any](t, h, http.MethodGet, "/notes/active", "", "")
	do[any](t, h, http.MethodGet, "/notes/active?forceRefresh=false", "", "")

	require.Equal(t, []bool{false, true}, gotAll)
	require.Equal(t, []bool{true, false}, gotActive)
}

func TestStoreFailureIsOpaque(t *testing.T) {
	t.Parallel()

	svc := &mockService{
		getAllFn: func(context.Context, bool) ([]note, error) {
			return nil, &content.StoreError{Op: content.OpFetch, Kind: "notes", Err: errors.New("permission denied on projects/secret")}
		},
	}
	h := newRouter(t, svc, Routes{})

	status, env := do[any](t, h, http.MethodGet, "/notes", "", "")
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, "Failed to fetch notes", env.Message)
}
