package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	oapimiddleware "github.com/oapi-codegen/nethttp-middleware"

	platformauth "github.com/zenGate-Global/wedding-marketplace/platform/go/auth"
)

// ErrRoleNotAllowed is reported when the caller's role is not among the operation's scopes.
var ErrRoleNotAllowed = errors.New("role not allowed")

// ValidateAuthenticationViaSwagger is the AuthenticationFunc of the OpenAPI request validator.
// Operations secured with bearerAuth require credentials placed on the context by auth.JWT; the
// security requirement's scopes, when present, list the roles allowed to call the operation.
// Operations declaring `security: []` or no security are not checked.
func ValidateAuthenticationViaSwagger(ctx context.Context, input *openapi3filter.AuthenticationInput) error {
	if input == nil || input.SecuritySchemeName != "bearerAuth" {
		return nil
	}

	r := input.RequestValidationInput.Request
	if r == nil {
		return fmt.Errorf("no request in validation input")
	}

	creds, ok := platformauth.UserFromContext(r.Context())
	if !ok || creds == nil {
		return fmt.Errorf("missing or invalid Authorization header")
	}

	if len(input.Scopes) > 0 && !creds.HasRole(input.Scopes...) {
		return fmt.Errorf("%w: %q", ErrRoleNotAllowed, creds.Role)
	}
	return nil
}

// ContractValidator validates requests against spec and answers rejections with the API envelope.
// It must run after auth.JWT.
func ContractValidator(spec *openapi3.T) func(http.Handler) http.Handler {
	return oapimiddleware.OapiRequestValidatorWithOptions(spec, &oapimiddleware.Options{
		Options: openapi3filter.Options{
			AuthenticationFunc: ValidateAuthenticationViaSwagger,
		},
		ErrorHandler:          contractError,
		SilenceServersWarning: true,
	})
}

func contractError(w http.ResponseWriter, message string, status int) {
	switch {
	case status == http.StatusUnauthorized && strings.Contains(message, ErrRoleNotAllowed.Error()):
		writeError(w, http.StatusForbidden, "forbidden")
	case status == http.StatusUnauthorized:
		writeError(w, status, "authentication required")
	default:
		writeError(w, status, message)
	}
}
