package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"firebase.google.com/go/v4/auth"
)

type ctxKey struct{}

// Marketplace roles carried in the "role" custom claim.
const (
	RoleAdmin     = "admin"
	RoleHotel     = "hotel"
	RoleVendor    = "vendor"
	RoleMarketing = "marketing"
	RoleUser      = "user"
)

// Roles lists every known role.
var Roles = []string{RoleAdmin, RoleHotel, RoleVendor, RoleMarketing, RoleUser}

type UserCredentials struct {
	Id            string
	Email         string
	EmailVerified bool
	Name          *string
	Role          string
	// HotelID and VendorID link hotel and vendor principals to their profiles.
	HotelID  *string
	VendorID *string
}

// HasRole reports whether the credentials carry one of roles.
func (c *UserCredentials) HasRole(roles ...string) bool {
	return c != nil && slices.Contains(roles, c.Role)
}

// Owns reports whether the caller may manage data belonging to the role's profile profileID.
// Admins own everything; hotel and vendor principals own only their linked profile.
func (c *UserCredentials) Owns(role, profileID string) bool {
	if c == nil {
		return false
	}
	if c.Role == RoleAdmin {
		return true
	}
	if c.Role != role || profileID == "" {
		return false
	}

	var linked *string
	switch role {
	case RoleHotel:
		linked = c.HotelID
	case RoleVendor:
		linked = c.VendorID
	}
	return linked != nil && *linked == profileID
}

// UserFromContext returns the credentials set by JWT, if any.
func UserFromContext(ctx context.Context) (*UserCredentials, bool) {
	u, ok := ctx.Value(ctxKey{}).(*UserCredentials)
	return u, ok && u != nil
}

// WithUser stores credentials on ctx. Used by the JWT middleware and tests.
func WithUser(ctx context.Context, creds *UserCredentials) context.Context {
	return context.WithValue(ctx, ctxKey{}, creds)
}

// VerifyFunc validates the incoming JWT and returns its claims map.
type VerifyFunc func(ctx context.Context, token string) (map[string]interface{}, error)

// ExtractFunc converts a claims map into UserCredentials.
type ExtractFunc func(claims map[string]interface{}) (*UserCredentials, error)

// JWT parses the request and sets the context credentials using the provided verify/extract functions.
// Requests without a bearer token pass through anonymously; public routes rely on that.
func JWT(verify VerifyFunc, extract ExtractFunc) func(http.Handler) http.Handler {
	if verify == nil {
		panic("auth.JWT: verify func must not be nil")
	}
	if extract == nil {
		extract = DefaultCredentialExtractor
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token, found := ExtractJWTToken(r)
			if token == "" || !found {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verify(r.Context(), token)
			if err != nil {
				w.Header().Set("WWW-Authenticate", fmt.Sprintf(`Bearer realm="api", error="invalid_token", error_description="%s"`, err.Error()))
				writeDenied(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			creds, err := extract(claims)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token", error_description="invalid claims"`)
				writeDenied(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), creds)))
		})
	}
}

// DefaultCredentialExtractor converts standard and marketplace claims into UserCredentials.
// Tokens without a role claim fall back to "admin" when isAdmin is set and "user" otherwise.
func DefaultCredentialExtractor(claims map[string]interface{}) (*UserCredentials, error) {
	if claims == nil {
		return nil, errors.New("missing claims")
	}

	role, _ := claim[string](claims, "role")
	switch {
	case role == "" && flag(claims, "isAdmin"):
		role = RoleAdmin
	case role == "":
		role = RoleUser
	case !slices.Contains(Roles, role):
		return nil, fmt.Errorf("unknown role %q", role)
	}

	id := "unknown-user"
	for _, key := range []string{"uid", "user_id", "sub"} {
		if v, ok := claim[string](claims, key); ok {
			id = v
			break
		}
	}

	email, _ := claim[string](claims, "email")
	return &UserCredentials{
		Id:            id,
		Email:         email,
		EmailVerified: flag(claims, "email_verified"),
		Name:          optional(claims, "name"),
		Role:          role,
		HotelID:       optional(claims, "hotelId"),
		VendorID:      optional(claims, "vendorId"),
	}, nil
}

// claim returns claims[key] when it holds a non-zero T.
func claim[T comparable](claims map[string]interface{}, key string) (T, bool) {
	var zero T
	v, ok := claims[key].(T)
	if !ok || v == zero {
		return zero, false
	}
	return v, true
}

func flag(claims map[string]interface{}, key string) bool {
	v, _ := claim[bool](claims, key)
	return v
}

func optional(claims map[string]interface{}, key string) *string {
	if v, ok := claim[string](claims, key); ok {
		return &v
	}
	return nil
}

// FirebaseTokenVerifier returns a VerifyFunc that validates tokens via Firebase Auth.
func FirebaseTokenVerifier(fbAuth *auth.Client) VerifyFunc {
	return func(ctx context.Context, token string) (map[string]interface{}, error) {
		t, err := fbAuth.VerifyIDToken(ctx, token)
		if err != nil {
			return nil, err
		}

		claims := make(map[string]interface{}, len(t.Claims)+2)
		for k, v := range t.Claims {
			claims[k] = v
		}
		claims["uid"] = t.UID
		claims["sub"] = t.Subject

		return claims, nil
	}
}

// UnsignedTokenVerifier returns a VerifyFunc that decodes unsigned JWT payloads without validation.
func UnsignedTokenVerifier() VerifyFunc {
	return func(ctx context.Context, token string) (map[string]interface{}, error) {
		return parseUnsignedJWTClaims(token)
	}
}

// RequireRole rejects anonymous requests with 401 and callers outside roles with 403.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			creds, ok := UserFromContext(r.Context())
			if !ok || creds == nil {
				writeDenied(w, http.StatusUnauthorized, "authentication required")
				return
			}

			if !creds.HasRole(roles...) {
				writeDenied(w, http.StatusForbidden, "forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeDenied emits the API envelope without depending on the response package.
func writeDenied(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `{"success":false,"data":null,"message":%q}`, message)
}
