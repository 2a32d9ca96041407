package starlark

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/neurodesk/smartscript/pkg/smartscript"
)

func mustParse(t *testing.T, src string) *smartscript.DocumentNode {
	t.Helper()
	doc, err := smartscript.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func field(t *testing.T, v starlark.Value, name string) starlark.Value {
	t.Helper()
	s, ok := v.(*starlarkstruct.Struct)
	if !ok {
		t.Fatalf("expected struct, got %T", v)
	}
	f, err := s.Attr(name)
	if err != nil {
		t.Fatalf("attr %s: %v", name, err)
	}
	return f
}

func TestConvertElement(t *testing.T) {
	tests := []struct {
		name      string
		input     smartscript.Element
		wantKind  string
		wantValue string
		wantSrc   string
	}{
		{"integer", smartscript.ConstantInteger{Value: 42}, "integer", "42", "42"},
		{"double", smartscript.ConstantDouble{Value: 2}, "double", "2.0", "2.0"},
		{"string", smartscript.StringLiteral{Value: `a"b`}, "string", `"a\"b"`, `"a\"b"`},
		{"variable", smartscript.Variable{Name: "i"}, "variable", `"i"`, "i"},
		{"function", smartscript.Function{Name: "sin"}, "function", `"sin"`, "@sin"},
		{"operator", smartscript.Operator{Symbol: "+"}, "operator", `"+"`, "+"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ConvertElement(tt.input)
			if got := string(field(t, v, "kind").(starlark.String)); got != tt.wantKind {
				t.Errorf("kind = %s, want %s", got, tt.wantKind)
			}
			if got := field(t, v, "value").String(); got != tt.wantValue {
				t.Errorf("value = %s, want %s", got, tt.wantValue)
			}
			if got := string(field(t, v, "source").(starlark.String)); got != tt.wantSrc {
				t.Errorf("source = %s, want %s", got, tt.wantSrc)
			}
		})
	}
	if ConvertElement(nil) != starlark.None {
		t.Error("nil element should convert to None")
	}
}

func TestConvertFromStarlark(t *testing.T) {
	list := starlark.NewList([]starlark.Value{starlark.String("a"), starlark.MakeInt(1), starlark.Bool(true)})
	dict := starlark.NewDict(1)
	_ = dict.SetKey(starlark.String("k"), starlark.Float(1.5))
	got := []any{
		ConvertFromStarlark(starlark.None),
		ConvertFromStarlark(list),
		ConvertFromStarlark(dict),
	}
	want := []any{nil, []any{"a", int64(1), true}, map[string]any{"k": 1.5}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluatorBasic(t *testing.T) {
	eval := NewEvaluator()
	result, err := eval.Eval("2 + 3")
	if err != nil {
		t.Fatalf("Eval error: %v", err)
	}
	if result.String() != "5" {
		t.Errorf("Expected '5', got %v", result.String())
	}
}

func TestEvaluatorDocument(t *testing.T) {
	eval := NewEvaluator()
	eval.SetDocument(mustParse(t, `Hi {$FOR i 1 10 2$}{$= i "x" @f $}{$END$}`))

	tests := map[string]string{
		"doc.kind":                           `"document"`,
		"len(nodes)":                         "4",
		"[n.kind for n in nodes]":            `["document", "text", "for", "echo"]`,
		"doc.children[1].variable.value":     `"i"`,
		"doc.children[1].step.value":         "2",
		"doc.children[1].children[0].source": `"{$= i \"x\" @f $}"`,
		"nodes[1].text":                      `"Hi "`,
	}
	for expr, want := range tests {
		got, err := eval.Eval(expr)
		if err != nil {
			t.Errorf("%s: %v", expr, err)
			continue
		}
		if got.String() != want {
			t.Errorf("%s = %s, want %s", expr, got.String(), want)
		}
	}

	if _, err := eval.ExecString("nodes.append(1)\n"); err == nil {
		t.Error("document globals should be frozen")
	}
}

func TestEvaluatorReport(t *testing.T) {
	eval := NewEvaluator()
	eval.SetDocument(mustParse(t, "{$FOR i 1 3$}{$END$}{$FOR j 0 9 3$}{$END$}"))

	script := `
def check(n):
    if n.kind == "for" and n.step == None:
        report("loop over %s has no step" % n.variable.value)

for n in nodes:
    check(n)
`
	if _, err := eval.ExecFile("loops.star", script); err != nil {
		t.Fatalf("ExecFile error: %v", err)
	}
	findings := eval.Findings()
	if len(findings) != 1 {
		t.Fatalf("findings = %v", findings)
	}
	if findings[0].Message != "loop over i has no step" {
		t.Errorf("message = %q", findings[0].Message)
	}
	if findings[0].Pos.Filename() != "loops.star" || findings[0].Pos.Line != 4 {
		t.Errorf("pos = %s", findings[0].Pos)
	}
}

func TestEvaluatorScriptGlobals(t *testing.T) {
	var out bytes.Buffer
	eval := NewEvaluatorWithOutput(&out)
	eval.SetGlobal("limit", starlark.MakeInt(3))

	if _, err := eval.ExecString("result = limit * 10\nprint('result', result)\n"); err != nil {
		t.Fatalf("ExecString error: %v", err)
	}
	result, ok := eval.GetGlobal("result")
	if !ok || result != int64(30) {
		t.Errorf("result = %v, %v", result, ok)
	}
	if out.String() != "result 30\n" {
		t.Errorf("print output = %q", out.String())
	}
	if _, err := eval.ExecString("report()"); err == nil {
		t.Error("report without a message should fail")
	}
}
