package starlark

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.starlark.net/starlark"

	"github.com/neurodesk/smartscript/pkg/smartscript"
)

// Evaluator runs Starlark lint scripts against a parsed document.
type Evaluator struct {
	thread    *starlark.Thread
	builtins  starlark.StringDict
	globals   starlark.StringDict
	collector *collector
}

// NewEvaluator creates an evaluator whose print builtin writes to stdout.
func NewEvaluator() *Evaluator {
	return NewEvaluatorWithOutput(os.Stdout)
}

func NewEvaluatorWithOutput(out io.Writer) *Evaluator {
	c := &collector{}
	return &Evaluator{
		thread:    &starlark.Thread{Name: "smartscript-lint"},
		builtins:  CreateBuiltins(out, c),
		globals:   make(starlark.StringDict),
		collector: c,
	}
}

// SetDocument exposes doc to scripts as the frozen globals doc (the root
// struct) and nodes (every node in pre-order).
func (e *Evaluator) SetDocument(doc *smartscript.DocumentNode) {
	root := ConvertNode(doc)
	nodes := Flatten(doc)
	root.Freeze()
	nodes.Freeze()
	e.globals["doc"] = root
	e.globals["nodes"] = nodes
}

// SetGlobal sets a global variable in the Starlark environment.
func (e *Evaluator) SetGlobal(name string, value starlark.Value) {
	e.globals[name] = value
}

func (e *Evaluator) predeclared() starlark.StringDict {
	predeclared := make(starlark.StringDict, len(e.builtins)+len(e.globals))
	for k, v := range e.builtins {
		predeclared[k] = v
	}
	for k, v := range e.globals {
		predeclared[k] = v
	}
	return predeclared
}

// Eval evaluates a Starlark expression.
func (e *Evaluator) Eval(expr string) (starlark.Value, error) {
	val, err := starlark.Eval(e.thread, "<eval>", expr, e.predeclared())
	if err != nil {
		return nil, fmt.Errorf("starlark evaluation error: %w", err)
	}
	return val, nil
}

// ExecFile executes a Starlark file. src may be nil, in which case the file
// is read from disk. Globals defined by the script are kept for later calls.
func (e *Evaluator) ExecFile(filename string, src any) (starlark.StringDict, error) {
	slog.Debug("running lint script", "script", filename)
	globals, err := starlark.ExecFile(e.thread, filename, src, e.predeclared())
	if err != nil {
		return nil, fmt.Errorf("starlark execution error: %w", err)
	}
	for k, v := range globals {
		e.globals[k] = v
	}
	return globals, nil
}

func (e *Evaluator) ExecString(script string) (starlark.StringDict, error) {
	return e.ExecFile("<script>", script)
}

// GetGlobal returns a global as plain Go data.
func (e *Evaluator) GetGlobal(name string) (any, bool) {
	if val, ok := e.globals[name]; ok {
		return ConvertFromStarlark(val), true
	}
	return nil, false
}

// Findings returns everything reported so far, in call order.
func (e *Evaluator) Findings() []Finding {
	return e.collector.findings
}
