package starlark

import (
	"fmt"
	"io"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Finding is a message reported by a lint script.
type Finding struct {
	Pos     syntax.Position
	Message string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s", f.Pos, f.Message)
}

// Reporter receives findings from the report builtin.
type Reporter interface {
	Report(Finding)
}

// collector is the default Reporter used by Evaluator.
type collector struct {
	findings []Finding
}

func (c *collector) Report(f Finding) { c.findings = append(c.findings, f) }

// CreateBuiltins returns the builtins available to lint scripts.
// print writes to out; report(msg) records a Finding at the call site.
func CreateBuiltins(out io.Writer, r Reporter) starlark.StringDict {
	return starlark.StringDict{
		"print": starlark.NewBuiltin("print", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			parts := make([]string, len(args))
			for i, a := range args {
				if s, ok := a.(starlark.String); ok {
					parts[i] = string(s)
				} else {
					parts[i] = a.String()
				}
			}
			fmt.Fprintln(out, strings.Join(parts, " "))
			return starlark.None, nil
		}),
		"report": starlark.NewBuiltin("report", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var msg string
			if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &msg); err != nil {
				return nil, err
			}
			r.Report(Finding{Pos: thread.CallFrame(1).Pos, Message: msg})
			return starlark.None, nil
		}),
	}
}
