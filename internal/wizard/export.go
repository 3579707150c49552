package wizard

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-udiff"
	"github.com/gosimple/slug"
	"github.com/mark3labs/scriptmatch/internal/logger"
)

// DefaultExportFile is used when the title does not yield a usable slug.
const DefaultExportFile = "generated_script.txt"

var clipboardWrite = clipboard.WriteAll

// Script returns the generated script.
func (m *Machine) Script() (string, error) {
	m.mu.Lock()
	defer m.unlock()
	if m.st.Artifact == nil {
		return "", ErrNothingToExport
	}
	return m.st.Artifact.Script, nil
}

// Export writes the generated script to w exactly as stored.
func (m *Machine) Export(w io.Writer) error {
	script, err := m.Script()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, script)
	return err
}

// ExportName returns the default file name for the current title.
func (m *Machine) ExportName() string {
	m.mu.Lock()
	title := m.st.Inputs.Title
	m.unlock()
	return ExportName(title)
}

// ExportName derives a file name from a title.
func ExportName(title string) string {
	s := slug.Make(title)
	if s == "" {
		return DefaultExportFile
	}
	return s + ".txt"
}

// ExportFile writes the script to path, or to ExportName() in the working
// directory when path is empty. It returns the path written.
func (m *Machine) ExportFile(path string) (string, error) {
	script, err := m.Script()
	if err != nil {
		return "", err
	}
	if path == "" {
		path = m.ExportName()
	}
	if err := os.WriteFile(path, []byte(script), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	logger.Debug("Exported script to %s", path)
	return path, nil
}

// Copy puts the script on the system clipboard.
func (m *Machine) Copy() error {
	script, err := m.Script()
	if err != nil {
		return err
	}
	if err := clipboardWrite(script); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	return nil
}

// ExportDiff returns a unified diff between the file at path and the
// script. A missing file diffs against empty content.
func (m *Machine) ExportDiff(path string) (string, error) {
	script, err := m.Script()
	if err != nil {
		return "", err
	}
	old, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	return udiff.Unified(path, path, string(old), script), nil
}
