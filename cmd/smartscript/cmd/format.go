package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/neurodesk/smartscript/pkg/smartscript"
)

var formatCheck bool

var formatCmd = &cobra.Command{
	Use:   "format <document>...",
	Short: "Print documents in normalized form",
	Long: `format parses each document and prints it back with tag whitespace
normalized. With --check nothing is printed; the command fails if a
document does not survive a serialize/parse round trip unchanged.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, arg := range args {
			if formatCheck {
				src, err := readSource(cmd.Context(), arg)
				if err != nil {
					return err
				}
				if err := smartscript.CheckRoundTrip(src, cfg.ParseOptions()...); err != nil {
					return fmt.Errorf("%s: %w", arg, smartscript.WrapErrorWithSource(err, arg, src))
				}
				slog.Info("round trip ok", "document", arg)
				continue
			}
			doc, _, err := parseDocument(cmd.Context(), arg)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), smartscript.Serialize(doc)); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	formatCmd.Flags().BoolVar(&formatCheck, "check", false, "only verify the round trip")
	rootCmd.AddCommand(formatCmd)
}
