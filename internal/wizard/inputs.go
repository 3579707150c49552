package wizard

import (
	"strings"

	"github.com/mark3labs/scriptmatch/internal/media"
	"github.com/mark3labs/scriptmatch/internal/state"
)

// Apply merges p into the inputs and saves. The merged state must still be
// valid; otherwise nothing changes.
func (m *Machine) Apply(p state.Patch) error {
	if p.Empty() {
		return nil
	}

	m.mu.Lock()
	defer m.unlock()
	if m.st.IsLoading {
		return ErrBusy
	}

	next := m.st.Clone()
	next.Merge(p)
	if err := next.Validate(); err != nil {
		return err
	}
	next.Error = ""
	m.st = next
	m.saveLocked()
	return nil
}

// ImportScript reads a text file into the reference script.
func (m *Machine) ImportScript(path string) error {
	text, err := media.ReadText(path)
	if err != nil {
		return err
	}
	return m.Apply(state.Patch{ReferenceScript: &text})
}

// ImportThumbnail reads an image file and stores it as a data URI.
func (m *Machine) ImportThumbnail(path string) error {
	img, err := media.ReadImage(path)
	if err != nil {
		return err
	}
	return m.Apply(state.Patch{Thumbnail: state.Ptr(img.DataURI())})
}

// AddPersonaPreset appends a preset rule to the persona rules unless it is
// already listed.
func (m *Machine) AddPersonaPreset(preset string) error {
	preset = strings.TrimSpace(preset)
	if preset == "" {
		return nil
	}

	m.mu.Lock()
	rules := m.st.Inputs.PersonaRules
	m.unlock()

	var kept []string
	for _, r := range strings.Split(rules, ",") {
		r = strings.TrimSpace(r)
		if r == preset {
			return nil
		}
		if r != "" {
			kept = append(kept, r)
		}
	}
	kept = append(kept, preset)
	return m.Apply(state.Patch{PersonaRules: state.Ptr(strings.Join(kept, ", "))})
}
