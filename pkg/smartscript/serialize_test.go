package smartscript

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const sampleDocument = "This is sample text.\n" +
	"{$ FOR i 1 10 1 $}\n" +
	"  This is {$= i $}-th time this message is generated.\n" +
	"{$END$}\n" +
	"{$FOR i 0 10 2 $}\n" +
	"  sin({$=i$}^2) = {$= i i * @sin  \"0.000\" @decfmt $}\n" +
	"{$END$}"

func TestSerializeExact(t *testing.T) {
	doc := &DocumentNode{Children: []Node{
		&TextNode{Text: `a{b\`},
		&EchoNode{Elements: []Element{Variable{Name: "x"}, StringLiteral{Value: `q"\`}, Function{Name: "f"}}},
		&ForLoopNode{
			Variable: Variable{Name: "i"},
			Start:    ConstantInteger{Value: 1},
			End:      ConstantDouble{Value: 10},
			Children: []Node{&TextNode{Text: "x"}},
		},
	}}
	want := `a\{b\\{$= x "q\"\\" @f $}{$FOR i 1 10.0 $}x{$END$}`
	if got := Serialize(doc); got != want {
		t.Fatalf("got  %q\nwant %q", got, want)
	}
}

func TestSerializeEscapedBrace(t *testing.T) {
	doc := mustParse(t, `A\{B`)
	if got := Serialize(doc); got != `A\{B` {
		t.Fatalf("got %q", got)
	}
}

func TestRenderDouble(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{3, "3.0"},
		{3.5, "3.5"},
		{-0.25, "-0.25"},
		{1e21, "1000000000000000000000.0"},
	}
	for _, tc := range cases {
		if got := (ConstantDouble{Value: tc.in}).Render(); got != tc.want {
			t.Errorf("Render(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	docs := []string{
		"",
		"Text {$= 1 $}",
		"{$FOR i 1 10 1$}{$=i$}{$END$}",
		`A\{B and \\ backslash`,
		sampleDocument,
		`{$= i i @fja "str\\in\"g" @decfmt ja $}`,
		"{$FOR i -1 10 1 $}{$END$}",
		`{$FOR x "a" "b" 3.0$}{$FOR y x x$}{$= "{x}" + 2.25 $}{$END$}{$END$}`,
		"no tags at all, just } and $ characters",
	}
	for _, src := range docs {
		first := mustParse(t, src)
		out := Serialize(first)
		second, err := Parse(out)
		if err != nil {
			t.Fatalf("re-parse of %q failed: %v\nserialized: %q", src, err, out)
		}
		if diff := cmp.Diff(first, second, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("round trip of %q changed the tree (-first +second):\n%s", src, diff)
		}
		if !Equal(first, second) {
			t.Fatalf("Equal disagrees with cmp for %q", src)
		}
		if again := Serialize(second); again != out {
			t.Fatalf("serialization not stable: %q then %q", out, again)
		}
		if err := CheckRoundTrip(src); err != nil {
			t.Fatalf("CheckRoundTrip(%q): %v", src, err)
		}
	}
}

func TestEscapeIdempotence(t *testing.T) {
	for _, text := range []string{"{", "a{b{c", `\{`, `{\`, "{$= x $}"} {
		doc := &DocumentNode{Children: []Node{&TextNode{Text: text}}}
		back := mustParse(t, Serialize(doc))
		if len(back.Children) != 1 {
			t.Fatalf("%q: got %d children", text, len(back.Children))
		}
		if got := back.Children[0].(*TextNode).Text; got != text {
			t.Fatalf("text %q came back as %q", text, got)
		}
	}
}
