package tui

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/scriptmatch/internal/tui/theme"
)

// CredentialSubmittedMsg is sent when the user enters an API key.
type CredentialSubmittedMsg struct {
	Key string
}

// CredentialModal asks for the API key. The value is masked.
type CredentialModal struct {
	input   textinput.Model
	visible bool
	reason  string
}

// NewCredentialModal creates a hidden credential modal.
func NewCredentialModal() *CredentialModal {
	ti := textinput.New()
	ti.Placeholder = "AIza..."
	ti.EchoMode = textinput.EchoPassword
	ti.SetWidth(44)
	return &CredentialModal{input: ti}
}

// Show opens the modal. reason is shown above the input.
func (m *CredentialModal) Show(reason string) tea.Cmd {
	m.visible = true
	m.reason = reason
	m.input.SetValue("")
	return m.input.Focus()
}

// Hide closes the modal.
func (m *CredentialModal) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible reports whether the modal is open.
func (m *CredentialModal) IsVisible() bool {
	return m.visible
}

// Update handles input while the modal is open.
func (m *CredentialModal) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "esc":
			m.Hide()
			return nil
		case "enter":
			value := strings.TrimSpace(m.input.Value())
			if value == "" {
				return nil
			}
			m.Hide()
			return func() tea.Msg { return CredentialSubmittedMsg{Key: value} }
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// View renders the modal.
func (m *CredentialModal) View() string {
	s := theme.Current().S()
	parts := []string{s.ModalTitle.Render("API key")}
	if m.reason != "" {
		parts = append(parts, s.Warning.Render(m.reason))
	}
	parts = append(parts,
		s.Base.Render("The key is stored locally and sent only to the model endpoint."),
		"",
		s.PanelFocused.Render(m.input.View()),
		"",
		RenderHintBar(KeyEnter, "save", KeyEsc, "cancel"),
	)
	return s.ModalContainer.Width(56).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// ConfirmationModal asks a yes/no question.
type ConfirmationModal struct {
	title   string
	message string
	visible bool
}

// NewConfirmationModal creates a hidden confirmation modal.
func NewConfirmationModal(title, message string) *ConfirmationModal {
	return &ConfirmationModal{title: title, message: message}
}

// Show opens the modal.
func (m *ConfirmationModal) Show() { m.visible = true }

// Hide closes the modal.
func (m *ConfirmationModal) Hide() { m.visible = false }

// IsVisible reports whether the modal is open.
func (m *ConfirmationModal) IsVisible() bool { return m.visible }

// Update returns true when the user confirmed. Any answer closes the modal.
func (m *ConfirmationModal) Update(msg tea.Msg) (confirmed bool) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return false
	}
	switch strings.ToLower(key.String()) {
	case "y":
		m.Hide()
		return true
	case "n", "esc":
		m.Hide()
	}
	return false
}

// View renders the modal.
func (m *ConfirmationModal) View() string {
	t := theme.Current()
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Warning)).Render("⚠ " + m.title)
	body := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase)).Render(m.message)
	hint := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)).Render("Press Y to confirm, N or ESC to cancel")

	return lipgloss.NewStyle().
		Width(50).
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Warning)).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", hint))
}
