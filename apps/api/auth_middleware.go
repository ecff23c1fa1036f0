package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	platformauth "github.com/zenGate-Global/wedding-marketplace/platform/go/auth"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/gcp"
)

// buildAuthMiddleware constructs the JWT middleware for the configured provider. Requests without a
// bearer token pass through anonymously; route guards decide what they may call.
func buildAuthMiddleware(ctx context.Context, cfg config, logger *zap.Logger) (func(http.Handler) http.Handler, error) {
	var verify platformauth.VerifyFunc
	switch cfg.AuthProvider {
	case "firebase":
		_, fbAuth, err := gcp.InitFirebaseAuth(ctx, cfg.Store.Firebase())
		if err != nil {
			return nil, fmt.Errorf("init firebase auth: %w", err)
		}
		verify = platformauth.FirebaseTokenVerifier(fbAuth)
	case "dev":
		logger.Warn("using dev auth middleware; do not use in production")
		verify = platformauth.UnsignedTokenVerifier()
	default:
		return nil, fmt.Errorf("unsupported AUTH_PROVIDER %q (use firebase or dev)", cfg.AuthProvider)
	}

	return platformauth.JWT(verify, platformauth.DefaultCredentialExtractor), nil
}
