package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/neurodesk/smartscript/pkg/common"
	"github.com/neurodesk/smartscript/pkg/smartscript"
	v "github.com/neurodesk/smartscript/pkg/validator"
)

// Config holds the settings of the smartscript command.
type Config struct {
	Lexer     LexerConfig     `yaml:"lexer" toml:"lexer"`
	Output    OutputConfig    `yaml:"output" toml:"output"`
	Log       LogConfig       `yaml:"log" toml:"log"`
	Documents DocumentsConfig `yaml:"documents" toml:"documents"`
	Cache     CacheConfig     `yaml:"cache" toml:"cache"`
	Lint      LintConfig      `yaml:"lint" toml:"lint"`
}

type LexerConfig struct {
	// QuotedNumbers reads "-1" inside FOR tags as a number.
	QuotedNumbers bool `yaml:"quoted_numbers" toml:"quoted_numbers"`
}

type OutputConfig struct {
	Format common.Format `yaml:"format" toml:"format"`
	Color  bool          `yaml:"color" toml:"color"`
}

type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

type DocumentsConfig struct {
	// Extensions selects the files picked up by directory validation.
	Extensions []string `yaml:"extensions" toml:"extensions"`
}

type CacheConfig struct {
	Dir string `yaml:"dir" toml:"dir"`
}

type LintConfig struct {
	Scripts []string `yaml:"scripts" toml:"scripts"`
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Default returns the configuration used when no file is given.
func Default() Config {
	cacheDir := filepath.Join(os.TempDir(), "smartscript-cache")
	if dir, err := os.UserCacheDir(); err == nil {
		cacheDir = filepath.Join(dir, "smartscript")
	}
	return Config{
		Output:    OutputConfig{Format: common.FormatPretty},
		Log:       LogConfig{Level: "info"},
		Documents: DocumentsConfig{Extensions: []string{".txt", ".smscr"}},
		Cache:     CacheConfig{Dir: cacheDir},
	}
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file on top of Default.
// Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return Config{}, err
		}
		defer f.Close()
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("failed to parse %s: unknown keys %v", path, undecoded)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q: use .yaml, .yml or .toml", ext)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	return v.All(
		v.MatchesAllowed(c.Output.Format, common.Formats, "output.format"),
		v.MatchesAllowed(strings.ToLower(c.Log.Level), logLevels, "log.level"),
		v.NoDuplicates(c.Documents.Extensions, "documents.extensions"),
		v.Map(c.Documents.Extensions, func(ext, desc string) error {
			return v.HasPrefix(ext, ".", desc)
		}, "documents.extensions"),
		v.Map(c.Lint.Scripts, v.NotEmpty, "lint.scripts"),
		v.NotEmpty(c.Cache.Dir, "cache.dir"),
	)
}

// ParseOptions returns the parser options selected by the config.
func (c Config) ParseOptions() []smartscript.Option {
	var opts []smartscript.Option
	if c.Lexer.QuotedNumbers {
		opts = append(opts, smartscript.QuotedNumbers())
	}
	return opts
}

// SlogLevel maps log.level to a slog level.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
