// Package contracts embeds the OpenAPI documents served by the API.
package contracts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed content.yaml
var contentSpec []byte

// Content loads and validates the content API contract.
func Content(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	spec, err := loader.LoadFromData(contentSpec)
	if err != nil {
		return nil, fmt.Errorf("load content contract: %w", err)
	}
	if err := spec.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate content contract: %w", err)
	}
	return spec, nil
}
