package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/neurodesk/smartscript/pkg/config"
	"github.com/neurodesk/smartscript/pkg/netcache"
	"github.com/neurodesk/smartscript/pkg/smartscript"
)

var (
	cfgFile string
	verbose bool
	cfg     = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "smartscript",
	Short: "Parse, format and lint SmartScript documents",
	Long: `smartscript reads documents made of plain text and {$ ... $} tags
(FOR loops, END and = echo tags) and turns them into a document tree.

Documents may be local paths or http(s) URLs; fetched documents are cached.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile != "" {
			loaded, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		level := cfg.SlogLevel()
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// loaderFor returns the loader for a document argument and the name to
// load through it.
func loaderFor(ctx context.Context, arg string) (smartscript.Loader, string, error) {
	if netcache.IsURL(arg) {
		return netcache.New(cfg.Cache.Dir).Loader(ctx), arg, nil
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return nil, "", err
	}
	return smartscript.FSLoader{FS: os.DirFS(filepath.Dir(abs))}, filepath.Base(abs), nil
}

func readSource(ctx context.Context, arg string) (string, error) {
	l, name, err := loaderFor(ctx, arg)
	if err != nil {
		return "", err
	}
	return l.Load(name)
}

// parseDocument loads and parses arg. Syntax errors come back as a caret
// snippet of the source.
func parseDocument(ctx context.Context, arg string) (*smartscript.DocumentNode, string, error) {
	l, name, err := loaderFor(ctx, arg)
	if err != nil {
		return nil, "", err
	}
	doc, src, err := smartscript.ParseFrom(l, name, cfg.ParseOptions()...)
	if err != nil {
		return nil, src, smartscript.WrapErrorWithSource(err, arg, src)
	}
	slog.Debug("parsed document", "document", arg, "nodes", countNodes(doc))
	return doc, src, nil
}

func countNodes(n smartscript.Node) int {
	count := 0
	_ = smartscript.Walk(smartscript.VisitorFunc(func(smartscript.Node) error {
		count++
		return nil
	}), n)
	return count
}
