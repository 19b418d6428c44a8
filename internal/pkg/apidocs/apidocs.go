// Package apidocs validates the published OpenAPI document so a broken
// document is caught at startup instead of being served to integrators.
package apidocs

import (
	"context"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

const DefaultSpecPath = "./public/docs/v1/openapi.yml"

func Validate(path string) error {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return fmt.Errorf("load openapi document %s: %w", path, err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return fmt.Errorf("validate openapi document %s: %w", path, err)
	}
	return nil
}
