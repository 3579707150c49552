package tui

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/editor"
)

// openEditor launches $EDITOR on a temp copy of content and reports the
// edited text with an EditedMsg.
func openEditor(content string) tea.Cmd {
	tmp, err := os.CreateTemp("", "scriptmatch_script_*.txt")
	if err != nil {
		return editFailed(err)
	}
	path := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(path)
		return editFailed(err)
	}
	_ = tmp.Close()

	cmd, err := editor.Command("scriptmatch", path)
	if err != nil {
		_ = os.Remove(path)
		return editFailed(err)
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		defer os.Remove(path)
		if err != nil {
			return EditedMsg{Err: fmt.Errorf("editor: %w", err)}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return EditedMsg{Err: err}
		}
		return EditedMsg{Content: string(data)}
	})
}

func editFailed(err error) tea.Cmd {
	return func() tea.Msg {
		return EditedMsg{Err: fmt.Errorf("editor: %w", err)}
	}
}
