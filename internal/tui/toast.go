package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/scriptmatch/internal/tui/theme"
)

const toastDuration = 3 * time.Second

// ToastDismissMsg is sent when a toast expires.
type ToastDismissMsg struct {
	seq int
}

// Toast is a one-line notification in the bottom-right corner.
type Toast struct {
	message string
	isError bool
	seq     int
}

// NewToast creates an empty toast.
func NewToast() *Toast {
	return &Toast{}
}

// Show displays msg and schedules its dismissal.
func (t *Toast) Show(msg string) tea.Cmd {
	return t.show(msg, false)
}

// ShowError displays msg in the error color.
func (t *Toast) ShowError(msg string) tea.Cmd {
	return t.show(msg, true)
}

func (t *Toast) show(msg string, isError bool) tea.Cmd {
	t.message = msg
	t.isError = isError
	t.seq++
	seq := t.seq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return ToastDismissMsg{seq: seq}
	})
}

// Update hides the toast when its own dismiss message arrives. A newer
// toast is not cut short by an older timer.
func (t *Toast) Update(msg tea.Msg) {
	if m, ok := msg.(ToastDismissMsg); ok && m.seq == t.seq {
		t.message = ""
	}
}

// Message returns the visible message, or "".
func (t *Toast) Message() string {
	return t.message
}

// View renders the toast, or "" when hidden.
func (t *Toast) View(maxWidth int) string {
	if t.message == "" {
		return ""
	}
	th := theme.Current()
	bg := th.Success
	if t.isError {
		bg = th.Error
	}
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.BgBase)).
		Background(lipgloss.Color(bg)).
		Padding(0, 1).
		Bold(true)
	if lipgloss.Width(style.Render(t.message)) > maxWidth {
		style = style.Width(maxWidth)
	}
	return style.Render(t.message)
}
