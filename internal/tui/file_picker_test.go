package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/require"
)

func pickerDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "drafts"), 0755))
	for _, name := range []string{"b.txt", "A.md", "cover.PNG", "notes.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	return dir
}

func names(f *FilePicker) []string {
	var out []string
	for _, item := range f.items {
		out = append(out, item.name)
	}
	return out
}

func TestFilePickerFiltersByPurpose(t *testing.T) {
	dir := pickerDir(t)

	scripts := NewFilePicker(PickScript, dir)
	require.Equal(t, []string{"..", "drafts", "A.md", "b.txt"}, names(scripts))

	images := NewFilePicker(PickThumbnail, dir)
	require.Equal(t, []string{"..", "drafts", "cover.PNG"}, names(images))
}

func TestFilePickerNavigatesAndSelects(t *testing.T) {
	dir := pickerDir(t)
	f := NewFilePicker(PickScript, dir)

	// Enter the subdirectory and come back.
	f.Update(special(tea.KeyDown))
	require.Nil(t, f.Update(special(tea.KeyEnter)))
	require.Equal(t, filepath.Join(dir, "drafts"), f.currentPath)
	f.Update(special(tea.KeyBackspace))
	require.Equal(t, dir, f.currentPath)

	f.Update(special(tea.KeyDown))
	f.Update(special(tea.KeyDown))
	cmd := f.Update(special(tea.KeyEnter))
	require.NotNil(t, cmd)
	require.Equal(t, FileSelectedMsg{Path: filepath.Join(dir, "A.md"), Purpose: PickScript}, cmd())
}

func TestFilePickerMissingDirectory(t *testing.T) {
	f := NewFilePicker(PickScript, filepath.Join(t.TempDir(), "missing"))
	require.NotEmpty(t, f.err)
	require.Contains(t, f.View(80), "✗")
}
