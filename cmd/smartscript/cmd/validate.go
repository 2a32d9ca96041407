package cmd

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neurodesk/smartscript/pkg/smartscript"
)

var validateCmd = &cobra.Command{
	Use:   "validate <dir>",
	Short: "Parse every document under a directory",
	Long: `validate walks a directory and parses every file whose extension is
listed in documents.extensions, logging the result of each file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := discoverDocuments(args[0], cfg.Documents.Extensions)
		if err != nil {
			return err
		}
		failed := validateDocuments(os.DirFS(args[0]), docs)
		if failed > 0 {
			return fmt.Errorf("%d of %d documents failed to parse", failed, len(docs))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// discoverDocuments returns slash-separated paths relative to dir.
func discoverDocuments(dir string, extensions []string) ([]string, error) {
	var docs []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !slices.Contains(extensions, strings.ToLower(filepath.Ext(path))) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		docs = append(docs, filepath.ToSlash(rel))
		return nil
	})
	return docs, err
}

func validateDocuments(fsys fs.FS, docs []string) int {
	loader := smartscript.FSLoader{FS: fsys}
	failed := 0
	for _, name := range docs {
		if _, _, err := smartscript.ParseFrom(loader, name, cfg.ParseOptions()...); err != nil {
			slog.Error("validation error", "file", name, "error", err)
			failed++
			continue
		}
		slog.Info("validated", "file", name)
	}
	return failed
}
