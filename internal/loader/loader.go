// Package loader finds the optional user plugin and runs its Register hook
// through the yaegi Go interpreter.
//
// A plugin named user_mcp living under /app/user_code is either a package
// directory (/app/user_code/user_mcp/*.go) or a single file
// (/app/user_code/user_mcp.go). Its package clause must match the name.
package loader

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"bci-mcp/pkg/mcpplugin"
	"bci-mcp/pkg/wttr"
)

// ErrNotFound means no plugin exists at the configured location. It is the
// expected state of a bare container, not a failure.
var ErrNotFound = errors.New("plugin not found")

// Outcome is the result of a Load.
type Outcome int

const (
	// OutcomeMissing means no plugin was found.
	OutcomeMissing Outcome = iota
	// OutcomeNoHook means the plugin loaded but declares no Register hook.
	OutcomeNoHook
	// OutcomeRegistered means the Register hook ran to completion.
	OutcomeRegistered
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMissing:
		return "missing"
	case OutcomeNoHook:
		return "no-hook"
	case OutcomeRegistered:
		return "registered"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Loader resolves and interprets a single named plugin.
type Loader struct {
	Dir  string
	Name string
	// Stdout and Stderr receive the plugin's output. Nil means os.Stdout and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// New returns a loader for the plugin name under dir.
func New(dir, name string) *Loader {
	return &Loader{Dir: dir, Name: name}
}

// Load resolves the plugin, imports it and, when it declares a Register hook,
// calls the hook with reg. ErrNotFound is returned with OutcomeMissing when
// no plugin exists; any other error means the plugin is broken.
func (l *Loader) Load(reg mcpplugin.Registrar) (Outcome, error) {
	files, err := l.sources()
	if err != nil {
		return OutcomeMissing, err
	}
	if len(files) == 0 {
		return OutcomeNoHook, nil
	}
	hasHook, err := l.inspect(files)
	if err != nil {
		return OutcomeMissing, err
	}
	i, err := l.interpret(files)
	if err != nil {
		return OutcomeMissing, err
	}
	if !hasHook {
		return OutcomeNoHook, nil
	}
	v, err := i.Eval(l.Name + "." + mcpplugin.HookName)
	if err != nil {
		return OutcomeMissing, fmt.Errorf("plugin %s: %w", l.Name, err)
	}
	if err := callHook(v.Interface(), reg); err != nil {
		return OutcomeMissing, fmt.Errorf("plugin %s: %w", l.Name, err)
	}
	return OutcomeRegistered, nil
}

// sources reads the plugin's Go files keyed by base name. A package
// directory without Go files yields an empty map.
func (l *Loader) sources() (map[string][]byte, error) {
	dir := filepath.Join(l.Dir, l.Name)
	if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read plugin directory: %w", err)
		}
		files := make(map[string][]byte)
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || filepath.Ext(name) != ".go" || strings.HasSuffix(name, "_test.go") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				return nil, fmt.Errorf("read plugin source: %w", err)
			}
			files[name] = data
		}
		return files, nil
	}

	file := filepath.Join(l.Dir, l.Name+".go")
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, filepath.Join(l.Dir, l.Name))
		}
		return nil, fmt.Errorf("read plugin source: %w", err)
	}
	return map[string][]byte{filepath.Base(file): data}, nil
}

// inspect parses the sources and reports whether the hook is declared, either
// as a function or as a package-level variable. Its type is checked when called.
func (l *Loader) inspect(files map[string][]byte) (bool, error) {
	fset := token.NewFileSet()
	hasHook := false
	for name, data := range files {
		f, err := parser.ParseFile(fset, name, data, parser.SkipObjectResolution)
		if err != nil {
			return false, fmt.Errorf("plugin %s: %w", l.Name, err)
		}
		if f.Name.Name != l.Name {
			return false, fmt.Errorf("plugin %s: %s declares package %s", l.Name, name, f.Name.Name)
		}
		for _, decl := range f.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				if d.Recv == nil && d.Name.Name == mcpplugin.HookName {
					hasHook = true
				}
			case *ast.GenDecl:
				if d.Tok != token.VAR {
					continue
				}
				for _, spec := range d.Specs {
					for _, id := range spec.(*ast.ValueSpec).Names {
						if id.Name == mcpplugin.HookName {
							hasHook = true
						}
					}
				}
			}
		}
	}
	return hasHook, nil
}

// interpret imports the plugin into a fresh interpreter. The sources are
// staged in a temporary GOPATH that is removed once the import completes.
func (l *Loader) interpret(files map[string][]byte) (*interp.Interpreter, error) {
	gopath, err := os.MkdirTemp("", "mcp-plugin-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(gopath)

	pkgDir := filepath.Join(gopath, "src", l.Name)
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		return nil, err
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(pkgDir, name), data, 0o644); err != nil {
			return nil, err
		}
	}

	stdout, stderr := l.Stdout, l.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	i := interp.New(interp.Options{
		GoPath: gopath,
		Env:    os.Environ(),
		Stdout: stdout,
		Stderr: stderr,
	})
	for _, syms := range []interp.Exports{stdlib.Symbols, mcpplugin.Symbols, wttr.Symbols} {
		if err := i.Use(syms); err != nil {
			return nil, fmt.Errorf("load interpreter symbols: %w", err)
		}
	}
	if err := importPlugin(i, l.Name); err != nil {
		return nil, fmt.Errorf("plugin %s: %w", l.Name, err)
	}
	return i, nil
}

// importPlugin runs the plugin's package initialization. Panics in init
// functions or variable initializers are reported as errors.
func importPlugin(i *interp.Interpreter, name string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("init panicked: %v", r)
		}
	}()
	_, err = i.Eval(fmt.Sprintf("import %q", name))
	return err
}

// callHook runs the hook. Panics are reported as errors.
func callHook(hook any, reg mcpplugin.Registrar) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", mcpplugin.HookName, r)
		}
	}()
	switch fn := hook.(type) {
	case func(mcpplugin.Registrar):
		fn(reg)
		return nil
	case func(mcpplugin.Registrar) error:
		return fn(reg)
	default:
		return fmt.Errorf("%s has type %T, want func(mcpplugin.Registrar) [error]", mcpplugin.HookName, hook)
	}
}
