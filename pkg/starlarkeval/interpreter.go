// Package starlarkeval evaluates symbol definition files written in
// starlark.
//
//	exclusive("html", "elements")
//
//	register(
//	    symbol("html", "elements", "transition",
//	        framework = "vue",
//	        members = [symbol("html", "attributes", pattern = "on${js/events}")],
//	    ),
//	)
package starlarkeval

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.starlark.net/starlark"

	"github.com/stackb/websymbols/pkg/index"
	"github.com/stackb/websymbols/pkg/symbol"
)

// Reporter is implemented by *testing.T.
type Reporter func(format string, args ...interface{})

// Interpreter accumulates the symbols registered by the files it executes.
type Interpreter struct {
	// Global state
	globals starlark.StringDict
	// Thread context
	thread *starlark.Thread
	// reporter
	reporter Reporter
	// spec accumulates registered symbols
	spec *index.IndexSpec
}

// NewInterpreter creates an interpreter whose registered symbols are
// collected into an index of the given name.
func NewInterpreter(name string, reporter Reporter) *Interpreter {
	interpreter := &Interpreter{
		reporter: reporter,
		thread: &starlark.Thread{
			Name: name,
			Print: func(_ *starlark.Thread, msg string) {
				reporter("%s", msg)
			},
		},
		globals: starlark.StringDict{},
		spec:    &index.IndexSpec{Name: name},
	}
	return interpreter
}

// GetGlobal returns a global defined by the executed files, or nil.
func (i *Interpreter) GetGlobal(name string) starlark.Value {
	return i.globals[name]
}

// Spec returns the index built so far.
func (i *Interpreter) Spec() *index.IndexSpec {
	return i.spec
}

func (i *Interpreter) predeclared() starlark.StringDict {
	return starlark.StringDict{
		"symbol":    starlark.NewBuiltin("symbol", i.handleSymbol),
		"register":  starlark.NewBuiltin("register", i.handleRegister),
		"exclusive": starlark.NewBuiltin("exclusive", i.handleExclusive),
	}
}

func (i *Interpreter) handleSymbol(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var spec index.SymbolSpec
	var members *starlark.List
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"namespace", &spec.Namespace,
		"kind", &spec.Kind,
		"name?", &spec.Name,
		"pattern?", &spec.Pattern,
		"priority?", &spec.Priority,
		"virtual?", &spec.Virtual,
		"abstract?", &spec.Abstract,
		"framework?", &spec.Framework,
		"description?", &spec.Description,
		"origin?", &spec.Origin,
		"members?", &members,
	); err != nil {
		return nil, err
	}
	if spec.Namespace == "" || spec.Kind == "" {
		return nil, fmt.Errorf("%s: namespace and kind are required", b.Name())
	}
	if spec.Name == "" && spec.Pattern == "" {
		return nil, fmt.Errorf("%s: one of name or pattern is required", b.Name())
	}
	if _, err := symbol.ParsePriority(spec.Priority); err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	if members != nil {
		for j := 0; j < members.Len(); j++ {
			member, ok := members.Index(j).(*symbolValue)
			if !ok {
				return nil, fmt.Errorf("%s: members[%d]: want symbol, got %s", b.Name(), j, members.Index(j).Type())
			}
			spec.Members = append(spec.Members, member.spec)
		}
	}
	return &symbolValue{spec: &spec}, nil
}

func (i *Interpreter) handleRegister(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
	}
	for j, arg := range args {
		sym, ok := arg.(*symbolValue)
		if !ok {
			return nil, fmt.Errorf("%s: argument %d: want symbol, got %s", b.Name(), j, arg.Type())
		}
		i.spec.Symbols = append(i.spec.Symbols, sym.spec)
	}
	return starlark.None, nil
}

func (i *Interpreter) handleExclusive(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var ns, kind string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "namespace", &ns, "kind", &kind); err != nil {
		return nil, err
	}
	qk, err := symbol.ParseQualifiedKind(ns + "/" + kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	i.spec.Exclusive = append(i.spec.Exclusive, qk.String())
	return starlark.None, nil
}

// Exec executes the given source.  Globals defined by earlier files are
// visible to later ones.
func (i *Interpreter) Exec(filename string, src io.Reader) error {
	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}
	predeclared := i.predeclared()
	for k, v := range i.globals {
		predeclared[k] = v
	}
	state, err := starlark.ExecFile(i.thread, filename, bytes.NewReader(data), predeclared)
	if evalErr, ok := err.(*starlark.EvalError); ok {
		return fmt.Errorf("%s", evalErr.Backtrace())
	}
	if err != nil {
		return err
	}
	for k, v := range state {
		i.globals[k] = v
	}
	return nil
}

// EvalFile executes a single file and returns the index it registers.  The
// index is named after the file.
func EvalFile(filename string, reporter Reporter) (*index.IndexSpec, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	interpreter := NewInterpreter(name, reporter)
	if err := interpreter.Exec(filename, f); err != nil {
		return nil, err
	}
	return interpreter.Spec(), nil
}
