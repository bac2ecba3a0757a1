package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders md for a terminal of the given width. When the
// renderer cannot be built the raw markdown is returned.
func RenderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		// WithAutoStyle queries the terminal, which can block when output is piped.
		glamour.WithStandardStyle(markdownStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md + "\n"
	}
	out, err := r.Render(md)
	if err != nil {
		return md + "\n"
	}
	return strings.TrimRight(out, "\n") + "\n"
}

func markdownStyle() string {
	if os.Getenv("NO_COLOR") != "" {
		return "notty"
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("CLEANQUEST_MD_STYLE"))) {
	case "light":
		return "light"
	case "notty", "ascii":
		return "notty"
	default:
		return "dark"
	}
}
