package server

import (
	"context"

	"bci-mcp/pkg/mcpplugin"
)

// EchoTool is installed when no plugin is present so a bare container still
// answers tool calls.
func EchoTool() mcpplugin.Tool {
	return mcpplugin.StringTool(
		"echo_tool",
		"A default tool to prove the server is running.",
		"text",
		func(_ context.Context, text string) string {
			return "Echo from SUSE BCI: " + text
		},
	)
}
