package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/scriptmatch/internal/prompt"
	"github.com/mark3labs/scriptmatch/internal/state"
	"github.com/mark3labs/scriptmatch/internal/tui/theme"
	"github.com/mark3labs/scriptmatch/internal/wizard"
)

// Focus slots per step.
const (
	focusPrimary   = 0 // textarea, tone row, title list, first input, persona input
	focusSecondary = 1 // custom tone, topic list, second input, preset list
)

var toneOptions = []struct {
	tone  state.Tone
	label string
}{
	{state.ToneBenchmark, "Keep the reference voice"},
	{state.ToneLogical, "Logical and informative"},
	{state.ToneCustom, "Custom"},
}

func (a *App) currentStep() wizard.Step {
	return a.machine.CurrentStep()
}

// focusStep moves keyboard focus to the widget of the current step. Focus
// starts at the first slot whenever the step changes.
func (a *App) focusStep() tea.Cmd {
	if cur := a.machine.CurrentStep().ID; cur != a.lastStep {
		a.focus = focusPrimary
		a.lastStep = cur
	}
	a.script.Blur()
	a.customTone.Blur()
	a.persona.Blur()
	for i := range a.cast {
		a.cast[i].Blur()
	}

	switch a.currentStep().ID {
	case wizard.StepInput:
		return a.script.Focus()
	case wizard.StepSettings:
		if a.focus == focusSecondary {
			return a.customTone.Focus()
		}
	case wizard.StepCharacters:
		a.focus = min(a.focus, len(a.cast)-1)
		return a.cast[a.focus].Focus()
	case wizard.StepPersona:
		if a.focus == focusPrimary {
			return a.persona.Focus()
		}
	}
	return nil
}

// cycleFocus moves between the focus slots of the step.
func (a *App) cycleFocus(delta int) tea.Cmd {
	slots := 2
	switch a.currentStep().ID {
	case wizard.StepInput, wizard.StepResult:
		slots = 1
	case wizard.StepSettings:
		if a.machine.State().Inputs.Tone != state.ToneCustom {
			slots = 1
		}
	case wizard.StepCharacters:
		slots = len(a.cast)
	}
	a.focus = ((a.focus+delta)%slots + slots) % slots
	return a.focusStep()
}

// handleStepKey handles keys that belong to the current step.
func (a *App) handleStepKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	st := a.machine.State()

	switch key {
	case "tab":
		return a.cycleFocus(1)
	case "shift+tab":
		return a.cycleFocus(-1)
	}

	switch a.currentStep().ID {
	case wizard.StepInput:
		switch key {
		case KeySubmit:
			return a.run(ActionAnalyze)
		case KeyOpen:
			a.openPicker(PickScript)
			return nil
		case KeyThumb:
			if a.machine.Variant() == state.VariantInstructional {
				a.openPicker(PickThumbnail)
			}
			return nil
		case KeyEditor:
			return openEditor(st.Inputs.ReferenceScript)
		}

	case wizard.StepSettings:
		if a.focus == focusSecondary {
			if key == KeyEnter {
				return a.next()
			}
			break
		}
		switch key {
		case "1", "2", "3":
			tone := toneOptions[key[0]-'1'].tone
			cmd := a.apply(state.Patch{Tone: &tone})
			if tone == state.ToneCustom {
				a.focus = focusSecondary
				return tea.Batch(cmd, a.focusStep())
			}
			return cmd
		case "+", "=", "right", "l":
			return a.setMinutes(st.Inputs.TargetMinutes + 1)
		case "-", "left", "h":
			return a.setMinutes(st.Inputs.TargetMinutes - 1)
		case "up", "k":
			a.analysis.ScrollUp(1)
		case "down", "j":
			a.analysis.ScrollDown(1)
		case KeyEnter, KeySubmit:
			return a.next()
		}
		return nil

	case wizard.StepSelection:
		return a.handleSelectionKey(key, st)

	case wizard.StepCharacters:
		if key == KeyEnter {
			if a.focus < len(a.cast)-1 {
				return a.cycleFocus(1)
			}
			return a.next()
		}

	case wizard.StepPersona:
		if key == KeySubmit {
			return a.run(ActionGenerate)
		}
		if a.focus == focusSecondary {
			switch key {
			case "up", "k":
				a.presetIdx = max(a.presetIdx-1, 0)
			case "down", "j":
				a.presetIdx = min(a.presetIdx+1, len(state.PersonaPresets)-1)
			case KeyEnter, "space":
				if err := a.machine.AddPersonaPreset(state.PersonaPresets[a.presetIdx]); err != nil {
					return a.toast.ShowError(err.Error())
				}
				a.persona.SetValue(a.machine.State().Inputs.PersonaRules)
			}
			return nil
		}

	case wizard.StepResult:
		switch key {
		case "c":
			if err := a.machine.Copy(); err != nil {
				return a.toast.ShowError(err.Error())
			}
			return a.toast.Show("Copied to clipboard")
		case "s", KeySubmit:
			path, err := a.machine.ExportFile("")
			if err != nil {
				return a.toast.ShowError(err.Error())
			}
			return a.toast.Show("Saved to " + path)
		case "n":
			a.confirm.Show()
			return nil
		}
		var cmd tea.Cmd
		a.result, cmd = a.result.Update(msg)
		return cmd
	}

	return a.updateStepInput(msg)
}

func (a *App) handleSelectionKey(key string, st state.WizardState) tea.Cmd {
	core := st.Analysis.Core()
	items, idx := core.SuggestedTitles, &a.titleIdx
	if a.focus == focusSecondary {
		items, idx = core.SuggestedTopics, &a.topicIdx
	}

	switch key {
	case "up", "k":
		*idx = max(*idx-1, 0)
	case "down", "j":
		*idx = min(*idx+1, max(len(items)-1, 0))
	case KeyEnter, "space":
		if *idx >= len(items) {
			return nil
		}
		p := state.Patch{Title: &items[*idx]}
		if a.focus == focusSecondary {
			p = state.Patch{Topic: &items[*idx]}
		}
		if cmd := a.apply(p); cmd != nil {
			return cmd
		}
		if a.focus == focusPrimary {
			a.focus = focusSecondary
		}
	case KeySubmit:
		if strings.TrimSpace(st.Inputs.Title) == "" {
			return a.toast.ShowError("Choose a title first.")
		}
		return a.run(ActionKeywords)
	}
	return nil
}

func (a *App) setMinutes(n int) tea.Cmd {
	n = min(max(n, prompt.MinTargetMinutes), prompt.MaxTargetMinutes)
	return a.apply(state.Patch{TargetMinutes: &n})
}

// updateStepInput forwards msg to the focused text widget and stores the
// edited value.
func (a *App) updateStepInput(msg tea.Msg) tea.Cmd {
	if a.machine.State().IsLoading {
		return nil
	}

	var cmd tea.Cmd
	switch a.currentStep().ID {
	case wizard.StepInput:
		before := a.script.Value()
		a.script, cmd = a.script.Update(msg)
		if v := a.script.Value(); v != before {
			return tea.Batch(cmd, a.apply(state.Patch{ReferenceScript: &v}))
		}

	case wizard.StepSettings:
		if a.focus != focusSecondary {
			return nil
		}
		v, c := updateInput(&a.customTone, msg)
		if v == nil {
			return c
		}
		return tea.Batch(c, a.apply(state.Patch{CustomTone: v}))

	case wizard.StepCharacters:
		v, c := updateInput(&a.cast[a.focus], msg)
		if v == nil {
			return c
		}
		chars := a.charactersFromInputs()
		return tea.Batch(c, a.apply(state.Patch{Characters: &chars}))

	case wizard.StepPersona:
		if a.focus != focusPrimary {
			return nil
		}
		v, c := updateInput(&a.persona, msg)
		if v == nil {
			return c
		}
		return tea.Batch(c, a.apply(state.Patch{PersonaRules: v}))
	}
	return cmd
}

// updateInput updates ti and returns its new value when it changed.
func updateInput(ti *textinput.Model, msg tea.Msg) (*string, tea.Cmd) {
	before := ti.Value()
	var cmd tea.Cmd
	*ti, cmd = ti.Update(msg)
	if v := ti.Value(); v != before {
		return &v, cmd
	}
	return nil, cmd
}

// charactersFromInputs reads the cast inputs. Supporting roles are comma
// separated and capped at state.MaxSupporting.
func (a *App) charactersFromInputs() state.Characters {
	c := state.Characters{
		FemaleProtagonist: strings.TrimSpace(a.cast[0].Value()),
		MaleProtagonist:   strings.TrimSpace(a.cast[1].Value()),
	}
	for _, name := range strings.Split(a.cast[2].Value(), ",") {
		if name = strings.TrimSpace(name); name != "" && len(c.Supporting) < state.MaxSupporting {
			c.Supporting = append(c.Supporting, name)
		}
	}
	return c
}

// stepView renders the body of the current step.
func (a *App) stepView(st state.WizardState, step wizard.Step) string {
	s := theme.Current().S()
	panel := func(focused bool, content string) string {
		style := s.Panel
		if focused {
			style = s.PanelFocused
		}
		return style.Width(max(a.width-2, 20)).Render(content)
	}

	switch step.ID {
	case wizard.StepInput:
		lines := []string{s.Title.Render("Reference script")}
		runes := len([]rune(strings.TrimSpace(st.Inputs.ReferenceScript)))
		count := fmt.Sprintf("%d characters", runes)
		if runes < prompt.MinScriptLength {
			count = s.Warning.Render(fmt.Sprintf("%s (at least %d)", count, prompt.MinScriptLength))
		} else {
			count = s.Muted.Render(count)
		}
		lines = append(lines, panel(true, a.script.View()), count)
		if a.machine.Variant() == state.VariantInstructional {
			thumb := s.Muted.Render("No thumbnail attached")
			if st.Inputs.Thumbnail != "" {
				thumb = s.Success.Render("✓ Thumbnail attached")
			}
			lines = append(lines, thumb)
		}
		return lipgloss.JoinVertical(lipgloss.Left, lines...)

	case wizard.StepSettings:
		tones := make([]string, len(toneOptions))
		for i, opt := range toneOptions {
			label := fmt.Sprintf("%d %s", i+1, opt.label)
			if st.Inputs.Tone == opt.tone {
				tones[i] = s.ListSelected.Render("● " + label)
			} else {
				tones[i] = s.Muted.Render("○ " + label)
			}
		}
		settings := []string{
			strings.Join(tones, "   "),
			fmt.Sprintf("Target length: %s minutes", s.Highlight.Render(fmt.Sprintf("‹ %d ›", st.Inputs.TargetMinutes))),
		}
		if st.Inputs.Tone == state.ToneCustom {
			settings = append(settings, a.customTone.View())
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			s.Title.Render("Analysis"),
			panel(false, a.analysis.View()),
			panel(true, lipgloss.JoinVertical(lipgloss.Left, settings...)),
		)

	case wizard.StepSelection:
		core := st.Analysis.Core()
		lists := lipgloss.JoinVertical(lipgloss.Left,
			s.Title.Render("Title"),
			panel(a.focus == focusPrimary, choiceList(core.SuggestedTitles, a.titleIdx, st.Inputs.Title, a.focus == focusPrimary)),
			s.Title.Render("Topic"),
			panel(a.focus == focusSecondary, choiceList(core.SuggestedTopics, a.topicIdx, st.Inputs.Topic, a.focus == focusSecondary)),
		)
		if st.TitleKeywords != nil {
			lists = lipgloss.JoinVertical(lipgloss.Left, lists,
				s.Title.Render("Keywords for this title"),
				renderMarkdown(keywordsMarkdown(*st.TitleKeywords), a.width-6),
			)
		}
		return lists

	case wizard.StepCharacters:
		labels := []string{"Female protagonist", "Male protagonist", fmt.Sprintf("Supporting (up to %d)", state.MaxSupporting)}
		rows := make([]string, 0, len(labels)*2)
		for i, label := range labels {
			rows = append(rows, s.Title.Render(label), panel(a.focus == i, a.cast[i].View()))
		}
		return lipgloss.JoinVertical(lipgloss.Left, rows...)

	case wizard.StepPersona:
		presets := make([]string, len(state.PersonaPresets))
		for i, p := range state.PersonaPresets {
			if a.focus == focusSecondary && i == a.presetIdx {
				presets[i] = s.ListSelected.Render("› " + p)
			} else {
				presets[i] = s.Base.Render("  " + p)
			}
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			s.Muted.Render(fmt.Sprintf("%s · %s · %d min", st.Inputs.Title, st.Inputs.Topic, st.Inputs.TargetMinutes)),
			s.Title.Render("Persona rules"),
			panel(a.focus == focusPrimary, a.persona.View()),
			s.Title.Render("Presets"),
			panel(a.focus == focusSecondary, strings.Join(presets, "\n")),
		)

	case wizard.StepResult:
		return panel(true, a.result.View())
	}
	return ""
}

// choiceList renders a list with the cursor at idx and chosen marked.
func choiceList(items []string, idx int, chosen string, focused bool) string {
	s := theme.Current().S()
	lines := make([]string, len(items))
	for i, item := range items {
		mark := "  "
		if item == chosen {
			mark = "✓ "
		}
		switch {
		case focused && i == idx:
			lines[i] = s.ListSelected.Render("› " + mark + item)
		case item == chosen:
			lines[i] = s.Success.Render("  " + mark + item)
		default:
			lines[i] = s.Base.Render("  " + mark + item)
		}
	}
	return strings.Join(lines, "\n")
}

// stepHints renders the step's keys above the keys available everywhere.
func (a *App) stepHints(st state.WizardState, step wizard.Step) string {
	if st.IsLoading {
		return RenderHintBar(KeyReset, "reset", KeyQuit, "quit")
	}
	var pairs []string
	switch step.ID {
	case wizard.StepInput:
		pairs = append(pairs, KeySubmit, "analyze", KeyOpen, "open file")
		if a.machine.Variant() == state.VariantInstructional {
			pairs = append(pairs, KeyThumb, "thumbnail")
		}
		pairs = append(pairs, KeyEditor, "editor")
	case wizard.StepSettings:
		pairs = append(pairs, "1-3", "tone", "←/→", "minutes", KeyUpDown, "scroll")
	case wizard.StepSelection:
		pairs = append(pairs, KeyUpDown, "move", KeyEnter, "choose", KeyTab, "title/topic", KeySubmit, "keywords")
	case wizard.StepCharacters:
		pairs = append(pairs, KeyTab, "next field")
	case wizard.StepPersona:
		pairs = append(pairs, KeyTab, "presets", KeyEnter, "add preset", KeySubmit, "generate")
	case wizard.StepResult:
		pairs = append(pairs, "s", "save", "c", "copy", "n", "start over", KeyUpDown, "scroll")
	}

	var global []string
	if !step.Terminal {
		global = append(global, KeyNext, "next")
	}
	if st.Step > 1 {
		global = append(global, KeyEsc, "back")
	}
	global = append(global, KeyAPIKey, "API key", KeyReset, "reset", KeyQuit, "quit")
	return lipgloss.JoinVertical(lipgloss.Left, RenderHintBar(pairs...), RenderHintBar(global...))
}
