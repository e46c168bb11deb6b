package server

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"bci-mcp/pkg/mcpplugin"
)

// validateArgs checks args against the tool's input schema.
func validateArgs(t mcpplugin.Tool, args map[string]any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(t.InputSchema()),
		gojsonschema.NewGoLoader(args),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	errs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("invalid arguments: %s", strings.Join(errs, ", "))
}
