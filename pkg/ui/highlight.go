package ui

import (
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const highlightStyle = "monokai"

// HighlightLua writes Lua source to w with terminal syntax highlighting.
// Plain text is written when colors are disabled.
func HighlightLua(w io.Writer, source string) error {
	if lipgloss.ColorProfile() == termenv.Ascii {
		_, err := io.WriteString(w, source)
		return err
	}
	if err := quick.Highlight(w, source, "lua", "terminal256", highlightStyle); err != nil {
		return fmt.Errorf("highlight: %w", err)
	}
	return nil
}
