package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/neurodesk/smartscript/pkg/common"
	"github.com/neurodesk/smartscript/pkg/smartscript"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "smartscript.yaml", `
lexer:
  quoted_numbers: true
output:
  format: yaml
  color: true
log:
  level: debug
documents:
  extensions: [".tpl"]
lint:
  scripts: ["checks/loops.star"]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Lexer.QuotedNumbers || cfg.Output.Format != common.FormatYAML || !cfg.Output.Color {
		t.Fatalf("got %+v", cfg)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("level = %v", cfg.SlogLevel())
	}
	if len(cfg.Documents.Extensions) != 1 || cfg.Documents.Extensions[0] != ".tpl" {
		t.Fatalf("extensions = %v", cfg.Documents.Extensions)
	}
	if cfg.Cache.Dir == "" {
		t.Fatal("cache dir should keep its default")
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "smartscript.toml", `
[output]
format = "json"

[log]
level = "warn"

[cache]
dir = "/tmp/ss"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Output.Format != common.FormatJSON || cfg.Cache.Dir != "/tmp/ss" || cfg.SlogLevel() != slog.LevelWarn {
		t.Fatalf("got %+v", cfg)
	}
	if cfg.Lexer.QuotedNumbers {
		t.Fatal("quoted numbers should default to off")
	}
}

func TestLoadRejects(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown yaml key", "lexer:\n  bogus: 1\n", "bogus"},
		{"bad format", "output:\n  format: xml\n", "output.format"},
		{"bad extension", "documents:\n  extensions: [txt]\n", "documents.extensions[0]"},
		{"duplicate extension", "documents:\n  extensions: [.a, .a]\n", "duplicate"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
	}
	for _, tc := range cases {
		_, err := Load(writeFile(t, "c.yml", tc.content))
		if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
			t.Errorf("%s: got %v, want error containing %q", tc.name, err, tc.wantErr)
		}
	}

	_, err := Load(writeFile(t, "c.toml", "[lexer]\nbogus = true\n"))
	if err == nil || !strings.Contains(err.Error(), "unknown keys") {
		t.Errorf("unknown toml key: got %v", err)
	}
	if _, err := Load(writeFile(t, "c.ini", "")); err == nil {
		t.Error("ini should be rejected")
	}
}

func TestParseOptions(t *testing.T) {
	cfg := Default()
	cfg.Lexer.QuotedNumbers = true
	doc, err := smartscript.Parse(`{$FOR i "-1" 3$}{$END$}`, cfg.ParseOptions()...)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	loop := doc.Children[0].(*smartscript.ForLoopNode)
	if loop.Start != (smartscript.ConstantInteger{Value: -1}) {
		t.Fatalf("start = %v", loop.Start)
	}
}
