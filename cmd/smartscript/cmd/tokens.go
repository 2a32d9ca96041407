package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neurodesk/smartscript/pkg/smartscript"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <document>",
	Short: "Print the token stream of a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readSource(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		var opts []smartscript.LexerOption
		if cfg.Lexer.QuotedNumbers {
			opts = append(opts, smartscript.WithQuotedNumbers())
		}
		toks, err := smartscript.NewLexer(src, opts...).Tokenize()
		// Tokens read before a lexical error are still printed.
		w := cmd.OutOrStdout()
		for _, tok := range toks {
			fmt.Fprintf(w, "%-8s %s\n", tok.Pos, tok)
		}
		if err != nil {
			return smartscript.WrapErrorWithSource(err, args[0], src)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}
