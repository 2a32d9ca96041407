package cmd

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	ColorKeyword = lipgloss.Color("#8B5CF6")
	ColorText    = lipgloss.Color("#94A3B8")
	ColorEcho    = lipgloss.Color("#06B6D4")
	ColorWarning = lipgloss.Color("#F59E0B")
	ColorError   = lipgloss.Color("#EF4444")
	ColorSuccess = lipgloss.Color("#10B981")

	KeywordStyle = lipgloss.NewStyle().Foreground(ColorKeyword).Bold(true)
	TextStyle    = lipgloss.NewStyle().Foreground(ColorText)
	EchoStyle    = lipgloss.NewStyle().Foreground(ColorEcho)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
)

func useColor(flag bool) bool {
	return flag || cfg.Output.Color
}

// colorizePretty styles each line of smartscript.Pretty output by node kind.
func colorizePretty(s string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(s, "\n") {
		body := strings.TrimRight(line, "\n")
		trimmed := strings.TrimLeft(body, " ")
		indent := body[:len(body)-len(trimmed)]
		var style lipgloss.Style
		switch {
		case trimmed == "":
			b.WriteString(line)
			continue
		case strings.HasPrefix(trimmed, "Text("):
			style = TextStyle
		case strings.HasPrefix(trimmed, "Echo("):
			style = EchoStyle
		default:
			style = KeywordStyle
		}
		b.WriteString(indent)
		b.WriteString(style.Render(trimmed))
		if strings.HasSuffix(line, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
