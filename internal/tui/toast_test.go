package tui

import (
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/require"
)

func TestToastShowAndDismiss(t *testing.T) {
	toast := NewToast()
	require.Empty(t, toast.View(40))

	cmd := toast.Show("Script ready")
	require.NotNil(t, cmd)
	require.Equal(t, "Script ready", toast.Message())
	require.Contains(t, toast.View(40), "Script ready")

	toast.Update(ToastDismissMsg{seq: toast.seq})
	require.Empty(t, toast.Message())
	require.Empty(t, toast.View(40))
}

func TestToastStaleDismissKeepsNewerMessage(t *testing.T) {
	toast := NewToast()
	toast.Show("first")
	stale := ToastDismissMsg{seq: toast.seq}
	toast.ShowError("second")

	toast.Update(stale)
	require.Equal(t, "second", toast.Message())
}

func TestToastViewFitsWidth(t *testing.T) {
	toast := NewToast()
	toast.Show("a very long notification that will not fit in a narrow terminal")

	for _, line := range splitLines(toast.View(20)) {
		require.LessOrEqual(t, lipgloss.Width(line), 20)
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
