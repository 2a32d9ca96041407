package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neurodesk/smartscript/pkg/common"
	"github.com/neurodesk/smartscript/pkg/export"
)

var (
	parseFormat string
	parseColor  bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <document>",
	Short: "Parse a document and print its tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, _, err := parseDocument(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		format := cfg.Output.Format
		if parseFormat != "" {
			format = common.Format(parseFormat)
		}
		out, err := export.Marshal(doc, format)
		if err != nil {
			return err
		}
		if format == common.FormatPretty && useColor(parseColor) {
			out = []byte(colorizePretty(string(out)))
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), string(out))
		return err
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "", "output format: pretty, yaml or json (default from config)")
	parseCmd.Flags().BoolVar(&parseColor, "color", false, "colorize pretty output")
	rootCmd.AddCommand(parseCmd)
}
