package mcpplugin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(context.Context, map[string]string) (string, error) { return "", nil }

func TestToolValidate(t *testing.T) {
	tests := []struct {
		name    string
		tool    Tool
		wantErr string
	}{
		{name: "ok", tool: Tool{Name: "a", Handler: noop, Params: []Param{{Name: "x"}}}},
		{name: "missing name", tool: Tool{Handler: noop}, wantErr: "tool name is required"},
		{name: "missing handler", tool: Tool{Name: "a"}, wantErr: `tool "a": handler is required`},
		{name: "empty param", tool: Tool{Name: "a", Handler: noop, Params: []Param{{}}}, wantErr: "parameter name is required"},
		{name: "duplicate param", tool: Tool{Name: "a", Handler: noop, Params: []Param{{Name: "x"}, {Name: "x"}}}, wantErr: `duplicate parameter "x"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tool.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInputSchema(t *testing.T) {
	tool := Tool{
		Name:    "t",
		Handler: noop,
		Params: []Param{
			{Name: "city", Description: "City name"},
			{Name: "units", Optional: true},
		},
	}
	schema := tool.InputSchema()
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []string{"city"}, schema["required"])

	props := schema["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "string", "description": "City name"}, props["city"])
	assert.Equal(t, map[string]any{"type": "string"}, props["units"])
}

func TestStringTool(t *testing.T) {
	tool := StringTool("up", "upper", "text", func(_ context.Context, in string) string {
		return "<" + in + ">"
	})
	require.NoError(t, tool.Validate())
	assert.Equal(t, []Param{{Name: "text"}}, tool.Params)

	out, err := tool.Handler(context.Background(), map[string]string{"text": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "<hi>", out)
}

func TestInputSchemaWithoutRequired(t *testing.T) {
	tool := Tool{Name: "t", Handler: noop, Params: []Param{{Name: "units", Optional: true}}}
	_, ok := tool.InputSchema()["required"]
	assert.False(t, ok)
}
