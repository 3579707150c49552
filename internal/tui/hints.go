package tui

import (
	"strings"

	"github.com/mark3labs/scriptmatch/internal/tui/theme"
)

// Key labels shown in hint bars.
const (
	KeyUpDown = "↑/↓"
	KeyTab    = "tab"
	KeyEnter  = "enter"
	KeyEsc    = "esc"
	KeyNext   = "ctrl+n"
	KeySubmit = "ctrl+s"
	KeyOpen   = "ctrl+o"
	KeyThumb  = "ctrl+t"
	KeyEditor = "ctrl+e"
	KeyAPIKey = "ctrl+k"
	KeyReset  = "ctrl+r"
	KeyQuit   = "ctrl+c"
)

// RenderHintBar renders key-description pairs separated by bullets.
// Example: RenderHintBar("enter", "select", "esc", "back")
// Returns: "enter select • esc back"
func RenderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	s := theme.Current().S()
	var b strings.Builder
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString(" " + s.HintSeparator.Render("•") + " ")
		}
		b.WriteString(s.HintKey.Render(pairs[i]) + " " + s.HintDesc.Render(pairs[i+1]))
	}
	return b.String()
}
