package devtoken

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	platformauth "github.com/zenGate-Global/wedding-marketplace/platform/go/auth"
)

// Params captures the Firebase-compatible claims required to mint an unsigned JWT
// for local and CI environments. No environment variables are read so the builder
// stays deterministic for tooling.
type Params struct {
	ProjectID      string        // Firebase project id; used for aud and iss
	UserID         string        // user_id/sub/uid (required)
	Email          string        // email claim (required)
	Name           string        // display name
	EmailVerified  bool          // email_verified claim
	Role           string        // marketplace role custom claim (required)
	HotelID        string        // hotelId claim; required for the hotel role
	VendorID       string        // vendorId claim; required for the vendor role
	SignInProvider string        // firebase.sign_in_provider; default "password"
	ExpiresIn      time.Duration // relative expiry; default 1h if zero
	Issuer         string        // optional override; defaults to https://securetoken.google.com/<projectId>
}

// BuildUnsignedFirebaseToken returns a JWT string with alg "none" and no signature.
// The payload mirrors the Firebase ID token shape so it flows through the auth
// middleware when AUTH_PROVIDER=dev.
func BuildUnsignedFirebaseToken(p Params, now time.Time) (string, error) {
	if strings.TrimSpace(p.ProjectID) == "" {
		return "", errors.New("projectID is required")
	}
	if strings.TrimSpace(p.UserID) == "" {
		return "", errors.New("userID is required")
	}
	if strings.TrimSpace(p.Email) == "" {
		return "", errors.New("email is required")
	}
	if !slices.Contains(platformauth.Roles, p.Role) {
		return "", fmt.Errorf("role must be one of %s", strings.Join(platformauth.Roles, ", "))
	}
	if p.Role == platformauth.RoleHotel && strings.TrimSpace(p.HotelID) == "" {
		return "", errors.New("hotelID is required for the hotel role")
	}
	if p.Role == platformauth.RoleVendor && strings.TrimSpace(p.VendorID) == "" {
		return "", errors.New("vendorID is required for the vendor role")
	}

	if now.IsZero() {
		now = time.Now().UTC()
	}

	expiresIn := p.ExpiresIn
	if expiresIn == 0 {
		expiresIn = time.Hour
	}

	issuer := p.Issuer
	if strings.TrimSpace(issuer) == "" {
		issuer = fmt.Sprintf("https://securetoken.google.com/%s", p.ProjectID)
	}

	signInProvider := p.SignInProvider
	if strings.TrimSpace(signInProvider) == "" {
		signInProvider = "password"
	}

	payload := map[string]interface{}{
		"iss":            issuer,
		"aud":            p.ProjectID,
		"auth_time":      now.Unix(),
		"user_id":        p.UserID,
		"sub":            p.UserID,
		"iat":            now.Unix(),
		"exp":            now.Add(expiresIn).Unix(),
		"email":          p.Email,
		"email_verified": p.EmailVerified,
		"role":           p.Role,
		"firebase": map[string]interface{}{
			"identities":       map[string]interface{}{"email": []string{p.Email}},
			"sign_in_provider": signInProvider,
		},
	}
	if p.Name != "" {
		payload["name"] = p.Name
	}
	if p.HotelID != "" {
		payload["hotelId"] = p.HotelID
	}
	if p.VendorID != "" {
		payload["vendorId"] = p.VendorID
	}

	headerSegment, err := encodeSegment(map[string]interface{}{"alg": "none", "typ": "JWT"})
	if err != nil {
		return "", err
	}

	payloadSegment, err := encodeSegment(payload)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s.%s", headerSegment, payloadSegment), nil
}

func encodeSegment(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
