package common

// Format selects how a parsed document is written out.
type Format string

const (
	FormatPretty Format = "pretty"
	FormatYAML   Format = "yaml"
	FormatJSON   Format = "json"
)

var Formats = []Format{FormatPretty, FormatYAML, FormatJSON}
