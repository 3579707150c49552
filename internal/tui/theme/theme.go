package theme

import (
	"image/color"
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	// Semantic colors
	Primary   string
	Secondary string
	Tertiary  string

	// Background hierarchy (dark→light)
	BgCrust    string
	BgBase     string
	BgMantle   string
	BgSurface0 string
	BgSurface1 string
	BgSurface2 string
	BgOverlay  string

	// Foreground hierarchy (dim→bright)
	FgMuted  string
	FgSubtle string
	FgBase   string
	FgBright string

	// Status colors
	Success string
	Warning string
	Error   string
	Info    string

	// Borders
	BorderMuted   string
	BorderDefault string
	BorderFocused string

	// Lazy-built styles
	styles     *Styles
	stylesOnce sync.Once
}

var (
	current     *Theme
	currentOnce sync.Once
)

// Current returns the active theme.
func Current() *Theme {
	currentOnce.Do(func() {
		current = NewCatppuccinMocha()
	})
	return current
}

// HexToColor converts a #RRGGBB string to a color.
func HexToColor(hex string) color.Color {
	return lipgloss.Color(hex)
}

// Styles contains the pre-built lipgloss styles shared by the TUI.
type Styles struct {
	Base      lipgloss.Style
	Muted     lipgloss.Style
	Highlight lipgloss.Style
	Title     lipgloss.Style
	StepDone  lipgloss.Style
	StepTodo  lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style

	Panel          lipgloss.Style
	PanelFocused   lipgloss.Style
	ModalContainer lipgloss.Style
	ModalTitle     lipgloss.Style
	StatusBar      lipgloss.Style

	HintKey       lipgloss.Style
	HintDesc      lipgloss.Style
	HintSeparator lipgloss.Style

	ButtonNormal   lipgloss.Style
	ButtonDisabled lipgloss.Style
	ButtonFocused  lipgloss.Style
	ListSelected   lipgloss.Style
}

// S returns the pre-built styles for this theme.
// Styles are lazily initialized on first call.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	c := lipgloss.Color
	button := lipgloss.NewStyle().Padding(0, 2).MarginLeft(1).MarginRight(1)
	return &Styles{
		Base:      lipgloss.NewStyle().Foreground(c(t.FgBase)),
		Muted:     lipgloss.NewStyle().Foreground(c(t.FgMuted)),
		Highlight: lipgloss.NewStyle().Foreground(c(t.Primary)).Bold(true),
		Title:     lipgloss.NewStyle().Foreground(c(t.Primary)).Bold(true),
		StepDone:  lipgloss.NewStyle().Foreground(c(t.Success)),
		StepTodo:  lipgloss.NewStyle().Foreground(c(t.BgOverlay)),
		Success:   lipgloss.NewStyle().Foreground(c(t.Success)).Bold(true),
		Warning:   lipgloss.NewStyle().Foreground(c(t.Warning)).Bold(true),
		Error:     lipgloss.NewStyle().Foreground(c(t.Error)).Bold(true),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.BorderDefault)).
			Padding(0, 1),
		PanelFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.BorderFocused)).
			Padding(0, 1),
		ModalContainer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.Tertiary)).
			Background(c(t.BgBase)).
			Padding(1, 2),
		ModalTitle: lipgloss.NewStyle().
			Foreground(c(t.Primary)).
			Bold(true),
		StatusBar: lipgloss.NewStyle().
			Foreground(c(t.FgMuted)).
			Background(c(t.BgMantle)).
			Padding(0, 1),

		HintKey:       lipgloss.NewStyle().Foreground(c(t.FgSubtle)).Bold(true),
		HintDesc:      lipgloss.NewStyle().Foreground(c(t.FgMuted)),
		HintSeparator: lipgloss.NewStyle().Foreground(c(t.BgSurface2)),

		ButtonNormal:   button.Foreground(c(t.FgBase)).Background(c(t.BgSurface0)),
		ButtonDisabled: button.Foreground(c(t.BgOverlay)).Background(c(t.BgMantle)),
		ButtonFocused:  button.Foreground(c(t.BgBase)).Background(c(t.Tertiary)).Bold(true),
		ListSelected: lipgloss.NewStyle().
			Foreground(c(t.Primary)).
			Background(c(t.BgSurface0)).
			Bold(true),
	}
}
