package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/neurodesk/smartscript/pkg/starlark"
)

var lintScripts []string

var lintCmd = &cobra.Command{
	Use:   "lint <document>",
	Short: "Run Starlark lint scripts over a document tree",
	Long: `lint parses a document and runs each Starlark script with two globals:
doc, the root node, and nodes, every node in document order. Nodes are
structs with kind, children and source fields plus text (text nodes),
elements (echo and for nodes) and variable, start, end, step (for nodes).
Scripts call report(msg) for every problem found.

Scripts come from --script and from lint.scripts in the config file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scripts := append(append([]string{}, cfg.Lint.Scripts...), lintScripts...)
		if len(scripts) == 0 {
			return fmt.Errorf("no lint scripts given: use --script or lint.scripts in the config")
		}
		doc, _, err := parseDocument(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		eval := starlark.NewEvaluatorWithOutput(cmd.ErrOrStderr())
		eval.SetDocument(doc)
		for _, script := range scripts {
			if _, err := eval.ExecFile(script, nil); err != nil {
				return fmt.Errorf("lint script %s: %w", script, err)
			}
		}

		findings := eval.Findings()
		w := cmd.OutOrStdout()
		for _, f := range findings {
			line := fmt.Sprintf("%s: %s", args[0], f)
			if useColor(false) {
				line = WarningStyle.Render(line)
			}
			fmt.Fprintln(w, line)
		}
		slog.Debug("lint finished", "document", args[0], "scripts", len(scripts), "findings", len(findings))
		if len(findings) > 0 {
			return fmt.Errorf("%d lint finding(s) in %s", len(findings), args[0])
		}
		return nil
	},
}

func init() {
	lintCmd.Flags().StringArrayVarP(&lintScripts, "script", "s", nil, "Starlark lint script (repeatable)")
	rootCmd.AddCommand(lintCmd)
}
