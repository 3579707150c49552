package tui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/scriptmatch/internal/tui/theme"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Enabled
	ButtonDisabled                    // Grayed out
	ButtonFocused                     // Highlighted primary action
)

// Button is a single labelled button.
type Button struct {
	Label string
	State ButtonState
}

// ButtonBar renders a centered row of buttons.
type ButtonBar struct {
	buttons []Button
	width   int
}

// NewButtonBar creates a button bar.
func NewButtonBar(buttons []Button) *ButtonBar {
	return &ButtonBar{buttons: buttons, width: 60}
}

// SetWidth updates the width the bar is centered in.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// Render renders the bar.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}
	s := theme.Current().S()
	rendered := make([]string, 0, len(b.buttons))
	for _, btn := range b.buttons {
		switch btn.State {
		case ButtonDisabled:
			rendered = append(rendered, s.ButtonDisabled.Render(btn.Label))
		case ButtonFocused:
			rendered = append(rendered, s.ButtonFocused.Render(btn.Label))
		default:
			rendered = append(rendered, s.ButtonNormal.Render(btn.Label))
		}
	}
	return lipgloss.PlaceHorizontal(b.width, lipgloss.Center, strings.Join(rendered, ""))
}

// stepButtons builds the Back / action / Next row for a step. An empty
// action label omits the middle button.
func stepButtons(backEnabled bool, action string, actionEnabled, nextEnabled bool) []Button {
	state := func(enabled bool, whenOn ButtonState) ButtonState {
		if !enabled {
			return ButtonDisabled
		}
		return whenOn
	}

	buttons := []Button{{Label: "← Back", State: state(backEnabled, ButtonNormal)}}
	if action != "" {
		buttons = append(buttons, Button{Label: action, State: state(actionEnabled, ButtonFocused)})
	}
	return append(buttons, Button{Label: "Next →", State: state(nextEnabled, ButtonNormal)})
}
