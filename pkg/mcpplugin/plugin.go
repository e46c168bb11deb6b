// Package mcpplugin defines the contract between the server and user plugins.
//
// A plugin is a Go package exposing a Register hook:
//
//	func Register(r mcpplugin.Registrar) error
//
// The hook runs once at startup, before the server accepts connections, and
// attaches tools through r.AddTool. The error return is optional.
package mcpplugin

import (
	"context"
	"errors"
	"fmt"
)

// HookName is the function a plugin must declare to contribute tools.
const HookName = "Register"

// Handler runs a tool call. Arguments are keyed by parameter name.
type Handler func(ctx context.Context, args map[string]string) (string, error)

// Param is a single string input of a tool.
type Param struct {
	Name        string
	Description string
	Optional    bool
}

// Tool is a named, described, callable unit exposed by the server.
type Tool struct {
	Name        string
	Description string
	Params      []Param
	Handler     Handler
}

// Registrar is the handle a plugin receives. The server instance implements it.
type Registrar interface {
	// Name returns the server display name.
	Name() string
	// AddTool attaches a tool. It fails once the server has started serving.
	AddTool(t Tool) error
}

// Validate reports whether t can be registered.
func (t Tool) Validate() error {
	if t.Name == "" {
		return errors.New("tool name is required")
	}
	if t.Handler == nil {
		return fmt.Errorf("tool %q: handler is required", t.Name)
	}
	seen := make(map[string]bool, len(t.Params))
	for _, p := range t.Params {
		if p.Name == "" {
			return fmt.Errorf("tool %q: parameter name is required", t.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("tool %q: duplicate parameter %q", t.Name, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// InputSchema describes the tool arguments as a JSON schema object.
func (t Tool) InputSchema() map[string]any {
	props := make(map[string]any, len(t.Params))
	var required []string
	for _, p := range t.Params {
		prop := map[string]any{"type": "string"}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		props[p.Name] = prop
		if !p.Optional {
			required = append(required, p.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// StringTool builds a tool with one required string parameter and a handler
// that cannot fail.
func StringTool(name, description, param string, fn func(ctx context.Context, in string) string) Tool {
	return Tool{
		Name:        name,
		Description: description,
		Params:      []Param{{Name: param}},
		Handler: func(ctx context.Context, args map[string]string) (string, error) {
			return fn(ctx, args[param]), nil
		},
	}
}
