// Package server provides the MCP server instance: the tool registry, the
// SSE transport and the HTTP routing around it.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"

	"bci-mcp/internal/config"
	"bci-mcp/pkg/mcpplugin"
)

var (
	// ErrRegistrationClosed is returned by AddTool once the server is sealed.
	ErrRegistrationClosed = errors.New("tool registration is closed")
	// ErrDuplicateTool is returned when a tool name is already taken.
	ErrDuplicateTool = errors.New("tool already registered")
	// ErrUnknownTool is returned by Call for names nobody registered.
	ErrUnknownTool = errors.New("unknown tool")
)

// Server owns the tool registry, the MCP protocol server and the HTTP router.
type Server struct {
	cfg     config.Config
	router  *chi.Mux
	mcp     *mcpserver.MCPServer
	sse     *mcpserver.SSEServer
	httpSrv *http.Server

	mu     sync.RWMutex
	tools  map[string]mcpplugin.Tool
	sealed bool
}

var _ mcpplugin.Registrar = (*Server)(nil)

// New constructs a Server with middleware and routes configured and no tools.
func New(cfg config.Config) *Server {
	s := &Server{
		cfg:    cfg,
		router: chi.NewRouter(),
		mcp: mcpserver.NewMCPServer(cfg.Name, cfg.Version,
			mcpserver.WithToolCapabilities(false),
			mcpserver.WithRecovery(),
		),
		tools: make(map[string]mcpplugin.Tool),
	}
	s.httpSrv = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.sse = mcpserver.NewSSEServer(s.mcp,
		mcpserver.WithBaseURL(cfg.BaseURL),
		mcpserver.WithHTTPServer(s.httpSrv),
	)

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)

	s.router.Group(func(r chi.Router) {
		r.Use(s.auth)
		r.Handle("/sse", s.sse.SSEHandler())
		r.Handle("/message", s.sse.MessageHandler())
	})

	s.router.Route("/mcp", func(r chi.Router) {
		r.Use(s.auth)
		r.Use(middleware.Timeout(60 * time.Second))
		r.Get("/tools", s.handleListTools)
		r.Post("/call", s.handleCall)
	})

	return s
}

// Name returns the server display name.
func (s *Server) Name() string { return s.cfg.Name }

// AddTool registers t with the registry and the MCP server.
func (s *Server) AddTool(t mcpplugin.Tool) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return fmt.Errorf("%w: %s", ErrRegistrationClosed, t.Name)
	}
	if _, ok := s.tools[t.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, t.Name)
	}
	s.tools[t.Name] = t
	s.mcp.AddTool(toMCPTool(t), toolHandler(t))
	return nil
}

// Seal closes registration. It is idempotent.
func (s *Server) Seal() {
	s.mu.Lock()
	s.sealed = true
	s.mu.Unlock()
}

// Sealed reports whether registration is closed.
func (s *Server) Sealed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sealed
}

// Tools returns the registered tools sorted by name.
func (s *Server) Tools() []mcpplugin.Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]mcpplugin.Tool, 0, len(s.tools))
	for _, t := range s.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Server) lookup(name string) (mcpplugin.Tool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tools[name]
	return t, ok
}

// Call invokes a registered tool directly, bypassing the transport.
func (s *Server) Call(ctx context.Context, name string, args map[string]any) (string, error) {
	t, ok := s.lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t.Handler(ctx, stringArgs(t, args))
}

// Handler seals the registry and exposes the root HTTP handler.
func (s *Server) Handler() http.Handler {
	s.Seal()
	return s.router
}

// Serve seals the registry and blocks serving HTTP until the listener fails or
// ctx is done. Cancellation triggers a graceful shutdown and a nil return.
func (s *Server) Serve(ctx context.Context) error {
	s.Seal()
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.sse.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Token == "" {
			next.ServeHTTP(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+s.cfg.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"name":   s.cfg.Name,
		"tools":  len(s.Tools()),
	})
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	tools := s.Tools()
	out := make([]Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, Tool{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": out})
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	var req CallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, CallResponse{Error: "invalid json"})
		return
	}
	t, ok := s.lookup(req.Name)
	if !ok {
		writeJSON(w, http.StatusNotFound, CallResponse{Error: "unknown tool"})
		return
	}
	if req.Args == nil {
		req.Args = map[string]any{}
	}
	if err := validateArgs(t, req.Args); err != nil {
		writeJSON(w, http.StatusBadRequest, CallResponse{Error: err.Error()})
		return
	}
	out, err := t.Handler(r.Context(), stringArgs(t, req.Args))
	if err != nil {
		writeJSON(w, http.StatusOK, CallResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, CallResponse{Result: out})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func toMCPTool(t mcpplugin.Tool) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(t.Description)}
	for _, p := range t.Params {
		popts := []mcp.PropertyOption{}
		if p.Description != "" {
			popts = append(popts, mcp.Description(p.Description))
		}
		if !p.Optional {
			popts = append(popts, mcp.Required())
		}
		opts = append(opts, mcp.WithString(p.Name, popts...))
	}
	return mcp.NewTool(t.Name, opts...)
}

// toolHandler adapts a plugin handler to mcp-go. Handler errors are reported
// as error results so the protocol call itself succeeds.
func toolHandler(t mcpplugin.Tool) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := t.Handler(ctx, stringArgs(t, req.GetArguments()))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

// stringArgs keeps the declared parameters of t, coerced to strings.
func stringArgs(t mcpplugin.Tool, raw map[string]any) map[string]string {
	args := make(map[string]string, len(t.Params))
	for _, p := range t.Params {
		if v, ok := raw[p.Name]; ok && v != nil {
			args[p.Name] = cast.ToString(v)
		}
	}
	return args
}
