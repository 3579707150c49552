package tui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/scriptmatch/internal/tui/theme"
)

// PickPurpose says what a picked file will be imported as.
type PickPurpose int

const (
	PickScript PickPurpose = iota
	PickThumbnail
)

var pickExtensions = map[PickPurpose][]string{
	PickScript:    {".txt", ".md"},
	PickThumbnail: {".png", ".jpg", ".jpeg", ".webp", ".gif"},
}

// fileItem is a file or directory in the picker.
type fileItem struct {
	name  string
	path  string
	isDir bool
}

// FilePicker browses directories and picks one file of the accepted types.
type FilePicker struct {
	purpose     PickPurpose
	currentPath string
	items       []*fileItem
	selectedIdx int
	offset      int
	height      int
	err         string
}

// NewFilePicker opens a picker in dir.
func NewFilePicker(purpose PickPurpose, dir string) *FilePicker {
	fp := &FilePicker{purpose: purpose, height: 12}
	fp.loadDirectory(dir)
	return fp
}

func (f *FilePicker) accepts(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range pickExtensions[f.purpose] {
		if e == ext {
			return true
		}
	}
	return false
}

// loadDirectory lists directories first, then accepted files, each sorted
// case-insensitively.
func (f *FilePicker) loadDirectory(path string) {
	entries, err := os.ReadDir(path)
	if err != nil {
		f.err = err.Error()
		return
	}
	f.err = ""

	var dirs, files []*fileItem
	for _, entry := range entries {
		item := &fileItem{name: entry.Name(), path: filepath.Join(path, entry.Name()), isDir: entry.IsDir()}
		switch {
		case item.isDir:
			dirs = append(dirs, item)
		case f.accepts(item.name):
			files = append(files, item)
		}
	}
	byName := func(items []*fileItem) {
		sort.Slice(items, func(i, j int) bool {
			return strings.ToLower(items[i].name) < strings.ToLower(items[j].name)
		})
	}
	byName(dirs)
	byName(files)

	f.items = f.items[:0]
	if abs, err := filepath.Abs(path); err == nil && abs != filepath.Dir(abs) {
		f.items = append(f.items, &fileItem{name: "..", path: filepath.Dir(abs), isDir: true})
	}
	f.items = append(f.items, dirs...)
	f.items = append(f.items, files...)
	f.currentPath = path
	f.selectedIdx = 0
	f.offset = 0
}

// Update handles navigation keys. Picking a file returns a FileSelectedMsg.
func (f *FilePicker) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "up", "k":
		if f.selectedIdx > 0 {
			f.selectedIdx--
		}
	case "down", "j":
		if f.selectedIdx < len(f.items)-1 {
			f.selectedIdx++
		}
	case "backspace":
		if parent := filepath.Dir(f.currentPath); parent != f.currentPath {
			f.loadDirectory(parent)
		}
	case "enter":
		if len(f.items) == 0 {
			return nil
		}
		item := f.items[f.selectedIdx]
		if item.isDir {
			f.loadDirectory(item.path)
			return nil
		}
		purpose := f.purpose
		return func() tea.Msg {
			return FileSelectedMsg{Path: item.path, Purpose: purpose}
		}
	}

	if f.selectedIdx < f.offset {
		f.offset = f.selectedIdx
	}
	if f.selectedIdx >= f.offset+f.height {
		f.offset = f.selectedIdx - f.height + 1
	}
	return nil
}

// View renders the picker as a modal.
func (f *FilePicker) View(width int) string {
	s := theme.Current().S()
	title := "Import reference script"
	if f.purpose == PickThumbnail {
		title = "Attach thumbnail"
	}

	lines := []string{s.ModalTitle.Render(title), s.Muted.Render(f.currentPath), ""}
	if f.err != "" {
		lines = append(lines, s.Error.Render("✗ "+f.err))
	}
	if len(f.items) == 0 {
		lines = append(lines, s.Muted.Render("Directory is empty"))
	}
	end := min(f.offset+f.height, len(f.items))
	for i := f.offset; i < end; i++ {
		item := f.items[i]
		label := item.name
		if item.isDir {
			label += "/"
		}
		if i == f.selectedIdx {
			lines = append(lines, s.ListSelected.Render("▸ "+label))
		} else {
			lines = append(lines, "  "+label)
		}
	}
	lines = append(lines, "", RenderHintBar(KeyUpDown, "navigate", KeyEnter, "select", "backspace", "up", KeyEsc, "cancel"))
	return s.ModalContainer.Width(min(width-4, 80)).Render(strings.Join(lines, "\n"))
}
