package tui

import (
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
)

// DrawStyled renders lipgloss-styled content into area.
func DrawStyled(scr uv.Screen, area uv.Rectangle, style lipgloss.Style, text string) {
	content := style.Width(area.Dx()).Height(area.Dy()).Render(text)
	uv.NewStyledString(content).Draw(scr, area)
}

// DrawCentered draws pre-rendered content centered in area, clipped to it.
func DrawCentered(scr uv.Screen, area uv.Rectangle, content string) {
	w := min(lipgloss.Width(content), area.Dx())
	h := min(lipgloss.Height(content), area.Dy())
	x := area.Min.X + (area.Dx()-w)/2
	y := area.Min.Y + (area.Dy()-h)/2
	uv.NewStyledString(content).Draw(scr, uv.Rect(x, y, w, h))
}
