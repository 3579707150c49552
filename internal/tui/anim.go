package tui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/scriptmatch/internal/tui/theme"
)

// GradientSpinnerMsg is sent on each gradient spinner tick
type GradientSpinnerMsg struct{}

// GradientSpinner renders an animated gradient bar next to a label. It is
// shown while a model request is outstanding.
type GradientSpinner struct {
	frame  int
	size   int
	colorA string
	colorB string
	label  string
	active bool
}

// NewGradientSpinner creates a gradient spinner between two colors.
func NewGradientSpinner(colorA, colorB string) GradientSpinner {
	return GradientSpinner{size: 15, colorA: colorA, colorB: colorB}
}

// Start shows the spinner with label and starts ticking.
func (g *GradientSpinner) Start(label string) tea.Cmd {
	g.label = label
	if g.active {
		return nil
	}
	g.active = true
	return g.tick()
}

// Stop hides the spinner. The pending tick is ignored.
func (g *GradientSpinner) Stop() {
	g.active = false
}

// Active reports whether the spinner is shown.
func (g *GradientSpinner) Active() bool {
	return g.active
}

func (g *GradientSpinner) tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return GradientSpinnerMsg{}
	})
}

// Update advances the animation.
func (g *GradientSpinner) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(GradientSpinnerMsg); !ok || !g.active {
		return nil
	}
	g.frame = (g.frame + 1) % g.size
	return g.tick()
}

// View renders the label and the gradient bar.
func (g *GradientSpinner) View() string {
	if !g.active {
		return ""
	}
	var b strings.Builder
	for i := 0; i < g.size; i++ {
		pos := float64((i+g.frame)%g.size) / float64(g.size)
		hex := theme.InterpolateColor(g.colorA, g.colorB, pos)
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("█"))
	}
	if g.label == "" {
		return b.String()
	}
	return theme.Current().S().Base.Render(g.label+" ") + b.String()
}
