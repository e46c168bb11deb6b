package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bci-mcp/internal/loader"
	"bci-mcp/pkg/mcpplugin"
)

type fakeLoader struct {
	outcome loader.Outcome
	err     error
	tools   []mcpplugin.Tool
}

func (f *fakeLoader) Load(reg mcpplugin.Registrar) (loader.Outcome, error) {
	for _, t := range f.tools {
		if err := reg.AddTool(t); err != nil {
			return loader.OutcomeMissing, err
		}
	}
	return f.outcome, f.err
}

func TestBootstrapMissingInstallsEcho(t *testing.T) {
	s := New(testConfig())
	outcome, err := Bootstrap(s, &fakeLoader{err: fmt.Errorf("%w: /app/user_code/user_mcp", loader.ErrNotFound)})
	require.NoError(t, err)
	assert.Equal(t, loader.OutcomeMissing, outcome)
	assert.True(t, s.Sealed())

	tools := s.Tools()
	require.Len(t, tools, 1)
	assert.Equal(t, "echo_tool", tools[0].Name)

	out, err := s.Call(context.Background(), "echo_tool", map[string]any{"text": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "Echo from SUSE BCI: hi", out)
}

func TestBootstrapRegisteredWithoutToolsAddsNoFallback(t *testing.T) {
	s := New(testConfig())
	outcome, err := Bootstrap(s, &fakeLoader{outcome: loader.OutcomeRegistered})
	require.NoError(t, err)
	assert.Equal(t, loader.OutcomeRegistered, outcome)
	assert.Empty(t, s.Tools())
	assert.True(t, s.Sealed())
}

func TestBootstrapNoHookAddsNoFallback(t *testing.T) {
	s := New(testConfig())
	outcome, err := Bootstrap(s, &fakeLoader{outcome: loader.OutcomeNoHook})
	require.NoError(t, err)
	assert.Equal(t, loader.OutcomeNoHook, outcome)
	assert.Empty(t, s.Tools())
}

func TestBootstrapPluginTools(t *testing.T) {
	s := New(testConfig())
	tool := mcpplugin.StringTool("rev", "", "s", func(_ context.Context, in string) string { return in })
	_, err := Bootstrap(s, &fakeLoader{outcome: loader.OutcomeRegistered, tools: []mcpplugin.Tool{tool}})
	require.NoError(t, err)
	require.Len(t, s.Tools(), 1)
	assert.Equal(t, "rev", s.Tools()[0].Name)
}

func TestBootstrapFatal(t *testing.T) {
	s := New(testConfig())
	_, err := Bootstrap(s, &fakeLoader{err: errors.New("plugin user_mcp: syntax error")})
	require.Error(t, err)
	assert.False(t, s.Sealed())
	assert.Empty(t, s.Tools())
}

func TestBootstrapWithRealLoader(t *testing.T) {
	dir := t.TempDir()
	src := "package user_mcp\n\nfunc Helper() {}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user_mcp.go"), []byte(src), 0o644))

	s := New(testConfig())
	outcome, err := Bootstrap(s, loader.New(dir, "user_mcp"))
	require.NoError(t, err)
	assert.Equal(t, loader.OutcomeNoHook, outcome)
	assert.Empty(t, s.Tools())

	s = New(testConfig())
	outcome, err = Bootstrap(s, loader.New(t.TempDir(), "user_mcp"))
	require.NoError(t, err)
	assert.Equal(t, loader.OutcomeMissing, outcome)
	assert.Len(t, s.Tools(), 1)
}
