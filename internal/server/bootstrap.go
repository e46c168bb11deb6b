package server

import (
	"errors"
	"fmt"
	"log"

	"bci-mcp/internal/loader"
	"bci-mcp/pkg/mcpplugin"
)

// PluginLoader resolves the optional user plugin and runs its hook.
type PluginLoader interface {
	Load(reg mcpplugin.Registrar) (loader.Outcome, error)
}

// Bootstrap decides, once, which tools s exposes and then seals registration.
// A missing plugin installs EchoTool. A plugin without a hook, or whose hook
// adds nothing, leaves the registry as it is. Any other loader error is
// returned and s stays unsealed.
func Bootstrap(s *Server, l PluginLoader) (loader.Outcome, error) {
	before := len(s.Tools())
	outcome, err := l.Load(s)
	switch {
	case errors.Is(err, loader.ErrNotFound):
		log.Printf("INFO: %v; running in default echo mode.", err)
		if err := s.AddTool(EchoTool()); err != nil {
			return outcome, fmt.Errorf("install echo tool: %w", err)
		}
	case err != nil:
		return outcome, err
	case outcome == loader.OutcomeNoHook:
		log.Printf("WARN: plugin loaded, but no %s(mcpplugin.Registrar) function found.", mcpplugin.HookName)
	default:
		log.Printf("INFO: registered %d tools from plugin", len(s.Tools())-before)
	}
	s.Seal()
	return outcome, nil
}
