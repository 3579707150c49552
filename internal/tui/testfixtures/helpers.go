package testfixtures

import (
	"testing"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	uv "github.com/charmbracelet/ultraviolet"
)

// Initialize test environment
func init() {
	// Set Ascii profile to disable color output for consistent output across CI/platforms
	lipgloss.Writer.Profile = colorprofile.Ascii
}

// Canonical terminal size for all tests
const (
	TestTermWidth  = 120
	TestTermHeight = 40
)

// Conservative timeout for waiting on commands (CI compatibility)
const DefaultWaitDuration = 5 * time.Second

// Drawable is anything that draws itself onto a screen area.
type Drawable interface {
	Draw(scr uv.Screen, area uv.Rectangle)
}

// Render draws d on a canonical screen buffer and returns its text without
// styling.
// This consolidates the common pattern of:
//
//	canvas := uv.NewScreenBuffer(TestTermWidth, TestTermHeight)
//	d.Draw(canvas, canvas.Bounds())
//	out := canvas.String()
func Render(t *testing.T, d Drawable) string {
	t.Helper()
	canvas := uv.NewScreenBuffer(TestTermWidth, TestTermHeight)
	d.Draw(canvas, canvas.Bounds())
	return canvas.String()
}
