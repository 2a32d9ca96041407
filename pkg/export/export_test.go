package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/neurodesk/smartscript/pkg/common"
	"github.com/neurodesk/smartscript/pkg/smartscript"
)

func parse(t *testing.T, src string) *smartscript.DocumentNode {
	t.Helper()
	doc, err := smartscript.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestFromNode(t *testing.T) {
	doc := parse(t, `Hi {$FOR i 1 2.5$}{$= i "s" @f * $}{$END$}`)
	want := Node{Kind: "document", Children: []Node{
		{Kind: "text", Text: "Hi "},
		{Kind: "for", Elements: []Element{
			{Kind: "variable", Value: "i"},
			{Kind: "integer", Value: int64(1)},
			{Kind: "double", Value: 2.5},
		}, Children: []Node{
			{Kind: "echo", Elements: []Element{
				{Kind: "variable", Value: "i"},
				{Kind: "string", Value: "s"},
				{Kind: "function", Value: "f"},
				{Kind: "operator", Value: "*"},
			}},
		}},
	}}
	if diff := cmp.Diff(want, FromNode(doc)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalYAML(t *testing.T) {
	out, err := Marshal(parse(t, "a{$= 1 $}"), common.FormatYAML)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back map[string]any
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("yaml: %v\n%s", err, out)
	}
	if back["kind"] != "document" {
		t.Fatalf("got %s", out)
	}
	if !strings.Contains(string(out), "kind: echo") {
		t.Fatalf("missing echo node:\n%s", out)
	}
}

func TestMarshalJSON(t *testing.T) {
	out, err := Marshal(parse(t, "{$= x $}"), common.FormatJSON)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Node
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("json: %v", err)
	}
	if back.Children[0].Elements[0].Value != "x" {
		t.Fatalf("got %s", out)
	}
}

func TestMarshalPrettyAndUnknown(t *testing.T) {
	doc := parse(t, "a")
	out, err := Marshal(doc, common.FormatPretty)
	if err != nil || string(out) != smartscript.Pretty(doc) {
		t.Fatalf("pretty: %q %v", out, err)
	}
	if _, err := Marshal(doc, "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
