// Package tui is the terminal front end of the script wizard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/scriptmatch/internal/llm"
	"github.com/mark3labs/scriptmatch/internal/logger"
	"github.com/mark3labs/scriptmatch/internal/state"
	"github.com/mark3labs/scriptmatch/internal/store"
	"github.com/mark3labs/scriptmatch/internal/tui/theme"
	"github.com/mark3labs/scriptmatch/internal/wizard"
)

// Run starts the wizard UI and blocks until the user quits.
func Run(ctx context.Context, m *wizard.Machine) error {
	app := NewApp(ctx, m)
	defer app.Close()

	p := tea.NewProgram(app, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("wizard UI failed: %w", err)
	}
	return nil
}

// App is the Bubbletea model of the wizard.
type App struct {
	ctx     context.Context
	machine *wizard.Machine

	width  int
	height int

	// Step widgets
	script     textarea.Model
	customTone textinput.Model
	persona    textinput.Model
	cast       [3]textinput.Model // female, male, supporting
	analysis   viewport.Model
	result     viewport.Model
	focus      int // focused widget index within the step
	lastStep   wizard.StepID
	titleIdx   int
	topicIdx   int
	presetIdx  int

	// Overlays
	picker     *FilePicker
	credential *CredentialModal
	confirm    *ConfirmationModal
	toast      *Toast
	spinner    GradientSpinner

	credentialPresent bool
	pendingAction     string // retried after a key is entered
	runSeq            int
	changes           chan store.Change
	cancelSub         func()
	quitting          bool
}

// NewApp creates the model for machine.
func NewApp(ctx context.Context, m *wizard.Machine) *App {
	t := theme.Current()

	ta := textarea.New()
	ta.Placeholder = "Paste the reference script here, or press ctrl+o to import a file."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Prompt = ""

	newInput := func(placeholder string) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.SetWidth(50)
		return ti
	}

	a := &App{
		ctx:        ctx,
		machine:    m,
		width:      100,
		height:     30,
		script:     ta,
		customTone: newInput("e.g. 국사 교수님처럼 차분하게"),
		persona:    newInput("Style rules, comma separated"),
		cast: [3]textinput.Model{
			newInput("Female protagonist"),
			newInput("Male protagonist"),
			newInput(fmt.Sprintf("Supporting cast, comma separated (up to %d)", state.MaxSupporting)),
		},
		analysis:          viewport.New(viewport.WithWidth(80), viewport.WithHeight(16)),
		result:            viewport.New(viewport.WithWidth(80), viewport.WithHeight(16)),
		credential:        NewCredentialModal(),
		confirm:           NewConfirmationModal("Start over?", "This clears the reference script, the analysis and the generated script. The API key is kept."),
		toast:             NewToast(),
		spinner:           NewGradientSpinner(t.Primary, t.Secondary),
		credentialPresent: m.CredentialPresent(),
		changes:           make(chan store.Change, 16),
	}
	a.cancelSub = m.Subscribe(func(c store.Change) {
		select {
		case a.changes <- c:
		default:
		}
	})
	a.loadInputs()
	a.refreshViews()
	a.focusStep()
	return a
}

// Close stops the store subscription.
func (a *App) Close() {
	if a.cancelSub != nil {
		a.cancelSub()
		a.cancelSub = nil
	}
}

// Init starts listening for store changes.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.waitForChange(), textarea.Blink}
	if !a.credentialPresent {
		cmds = append(cmds, a.credential.Show("No API key is stored yet."))
	}
	return tea.Batch(cmds...)
}

// waitForChange turns the next store notification into a message.
func (a *App) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case c := <-a.changes:
			return StoreChangedMsg{Change: c}
		case <-a.ctx.Done():
			return nil
		}
	}
}

// loadInputs copies the wizard inputs into the widgets.
func (a *App) loadInputs() {
	in := a.machine.State().Inputs
	a.script.SetValue(in.ReferenceScript)
	a.customTone.SetValue(in.CustomTone)
	a.persona.SetValue(in.PersonaRules)
	a.cast[0].SetValue(in.Characters.FemaleProtagonist)
	a.cast[1].SetValue(in.Characters.MaleProtagonist)
	a.cast[2].SetValue(strings.Join(in.Characters.Supporting, ", "))
}

// refreshViews re-renders the analysis and result viewports.
func (a *App) refreshViews() {
	st := a.machine.State()
	a.analysis.SetContent(renderMarkdown(analysisMarkdown(st.Analysis), a.analysis.Width()))
	a.analysis.GotoTop()

	var b strings.Builder
	if art := st.Artifact; art != nil {
		if art.Source == state.SourceFallback {
			b.WriteString(theme.Current().S().Warning.Render("Example script. The model did not answer.") + "\n\n")
		}
		b.WriteString(lipgloss.NewStyle().Width(a.result.Width()).Render(art.Script))
		if art.ThumbnailPrompt != "" {
			b.WriteString("\n\n" + theme.Current().S().Title.Render("Thumbnail prompt") + "\n")
			b.WriteString(lipgloss.NewStyle().Width(a.result.Width()).Render(art.ThumbnailPrompt))
		}
	}
	a.result.SetContent(b.String())
	a.result.GotoTop()
}

// chromeLines is the number of lines around the step body: header,
// progress, two spacers, status, buttons and two hint rows.
const chromeLines = 8

func (a *App) setSize(width, height int) {
	a.width = width
	a.height = height
	bodyW := max(width-6, 30)
	bodyH := max(height-chromeLines, 10)

	a.script.SetWidth(bodyW)
	a.script.SetHeight(max(bodyH-5, 3))
	a.analysis.SetWidth(bodyW)
	a.analysis.SetHeight(max(bodyH-8, 3))
	a.result.SetWidth(bodyW)
	a.result.SetHeight(max(bodyH-2, 3))
	for i := range a.cast {
		a.cast[i].SetWidth(min(bodyW, 60))
	}
	a.customTone.SetWidth(min(bodyW, 60))
	a.persona.SetWidth(min(bodyW, 80))
	a.refreshViews()
}

// Update handles incoming messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.setSize(msg.Width, msg.Height)
		return a, nil

	case StoreChangedMsg:
		if msg.Change.Key == store.KeyCredential {
			a.credentialPresent = msg.Change.Present
		}
		return a, a.waitForChange()

	case ActionDoneMsg:
		return a, a.handleActionDone(msg)

	case GradientSpinnerMsg:
		return a, a.spinner.Update(msg)

	case ToastDismissMsg:
		a.toast.Update(msg)
		return a, nil

	case FileSelectedMsg:
		a.picker = nil
		return a, a.importFile(msg)

	case EditedMsg:
		if msg.Err != nil {
			return a, a.toast.ShowError(msg.Err.Error())
		}
		a.apply(state.Patch{ReferenceScript: state.Ptr(msg.Content)})
		a.loadInputs()
		return a, nil

	case CredentialSubmittedMsg:
		return a, a.saveCredential(msg.Key)

	case tea.KeyPressMsg:
		return a, a.handleKey(msg)

	case tea.PasteMsg:
		return a, a.handlePaste(msg)
	}

	return a, a.updateStepInput(msg)
}

func (a *App) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	if key == KeyQuit {
		a.quitting = true
		return tea.Quit
	}

	switch {
	case a.confirm.IsVisible():
		if a.confirm.Update(msg) {
			return a.reset()
		}
		return nil
	case a.credential.IsVisible():
		return a.credential.Update(msg)
	case a.picker != nil:
		if key == KeyEsc {
			a.picker = nil
			return nil
		}
		return a.picker.Update(msg)
	}

	switch key {
	case KeyAPIKey:
		return a.credential.Show("")
	case KeyReset:
		a.confirm.Show()
		return nil
	}

	if a.machine.State().IsLoading {
		return nil
	}

	switch key {
	case KeyEsc:
		_ = a.machine.Back()
		a.focusStep()
		return nil
	case KeyNext:
		return a.next()
	}
	return a.handleStepKey(msg)
}

func (a *App) next() tea.Cmd {
	if err := a.machine.Next(); err != nil {
		return a.toast.ShowError(nextHint(a.machine.State(), err))
	}
	a.focusStep()
	return nil
}

// nextHint explains why the next step is not available.
func nextHint(st state.WizardState, err error) string {
	if errors.Is(err, wizard.ErrFinalStep) {
		return "This is the last step."
	}
	switch {
	case st.Analysis == nil:
		return "Analyze the reference script first."
	case st.Inputs.Title == "" || st.Inputs.Topic == "":
		return "Choose a title and a topic first."
	case st.Step >= 4 && !st.Inputs.Characters.HasProtagonists():
		return "Name both protagonists first."
	}
	return "Generate the script to continue."
}

// run executes a wizard action off the update loop.
func (a *App) run(action string) tea.Cmd {
	var fn func(context.Context) error
	var label string
	switch action {
	case ActionAnalyze:
		fn, label = a.machine.Analyze, "Analyzing"
	case ActionGenerate:
		fn, label = a.machine.Generate, "Writing script"
	case ActionKeywords:
		fn, label = a.machine.SuggestKeywords, "Finding keywords"
	default:
		return nil
	}
	ctx := a.ctx
	a.runSeq++
	seq := a.runSeq
	return tea.Batch(
		a.spinner.Start(label),
		func() tea.Msg { return ActionDoneMsg{Action: action, Err: fn(ctx), Seq: seq} },
	)
}

func (a *App) handleActionDone(msg ActionDoneMsg) tea.Cmd {
	if msg.Seq != a.runSeq {
		// Finished after a reset; the wizard already dropped the result.
		a.refreshViews()
		return nil
	}
	a.spinner.Stop()
	switch {
	case errors.Is(msg.Err, llm.ErrCredentialMissing):
		a.pendingAction = msg.Action
		return a.credential.Show("An API key is needed to continue.")
	case errors.Is(msg.Err, wizard.ErrBusy):
		return nil
	case msg.Err != nil:
		return a.toast.ShowError(msg.Err.Error())
	}

	a.refreshViews()
	a.focusStep()
	st := a.machine.State()
	if st.Error != "" {
		return a.toast.ShowError(st.Error)
	}
	switch msg.Action {
	case ActionAnalyze:
		a.titleIdx, a.topicIdx = 0, 0
		return a.toast.Show("Analysis ready")
	case ActionGenerate:
		return a.toast.Show("Script ready")
	}
	return nil
}

func (a *App) saveCredential(key string) tea.Cmd {
	if err := a.machine.SetCredential(key); err != nil {
		logger.Error("Failed to store API key: %v", err)
		return a.toast.ShowError(err.Error())
	}
	a.credentialPresent = true
	cmds := []tea.Cmd{a.toast.Show("API key saved")}
	if a.pendingAction != "" {
		cmds = append(cmds, a.run(a.pendingAction))
		a.pendingAction = ""
	}
	return tea.Batch(cmds...)
}

func (a *App) reset() tea.Cmd {
	if err := a.machine.Reset(); err != nil {
		logger.Error("Failed to save reset state: %v", err)
	}
	a.spinner.Stop()
	a.runSeq++
	a.pendingAction = ""
	a.titleIdx, a.topicIdx, a.presetIdx = 0, 0, 0
	a.loadInputs()
	a.refreshViews()
	a.focusStep()
	return a.toast.Show("Started over")
}

func (a *App) importFile(msg FileSelectedMsg) tea.Cmd {
	var err error
	switch msg.Purpose {
	case PickScript:
		err = a.machine.ImportScript(msg.Path)
	case PickThumbnail:
		err = a.machine.ImportThumbnail(msg.Path)
	}
	if err != nil {
		return a.toast.ShowError(err.Error())
	}
	a.loadInputs()
	return a.toast.Show("Imported " + msg.Path)
}

func (a *App) openPicker(purpose PickPurpose) {
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	a.picker = NewFilePicker(purpose, dir)
}

// apply merges p, reporting rejected edits in a toast.
func (a *App) apply(p state.Patch) tea.Cmd {
	if err := a.machine.Apply(p); err != nil {
		return a.toast.ShowError(err.Error())
	}
	return nil
}

// View renders the wizard.
func (a *App) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.KeyboardEnhancements = tea.KeyboardEnhancements{
		ReportEventTypes: true,
	}
	if a.quitting {
		view.AltScreen = false
		view.Content = lipgloss.NewLayer("")
		return view
	}

	canvas := uv.NewScreenBuffer(a.width, a.height)
	a.Draw(canvas, canvas.Bounds())
	view.Content = lipgloss.NewLayer(canvas.Render())
	view.BackgroundColor = theme.HexToColor(theme.Current().BgCrust)
	return view
}

// Draw renders the wizard and its overlays to scr.
func (a *App) Draw(scr uv.Screen, area uv.Rectangle) {
	DrawStyled(scr, area, lipgloss.NewStyle().Padding(0, 1), a.render())

	switch {
	case a.confirm.IsVisible():
		DrawCentered(scr, area, a.confirm.View())
	case a.credential.IsVisible():
		DrawCentered(scr, area, a.credential.View())
	case a.picker != nil:
		DrawCentered(scr, area, a.picker.View(area.Dx()))
	}

	if toast := a.toast.View(area.Dx() - 2); toast != "" {
		w, h := lipgloss.Width(toast), lipgloss.Height(toast)
		x := max(area.Max.X-w-1, area.Min.X)
		y := max(area.Max.Y-h-1, area.Min.Y)
		uv.NewStyledString(toast).Draw(scr, uv.Rect(x, y, w, h))
	}
}

func (a *App) render() string {
	st := a.machine.State()
	s := theme.Current().S()
	steps := a.machine.Steps()
	step := steps[st.Step-1]

	keyStatus := s.Error.Render("API key ✗")
	if a.credentialPresent {
		keyStatus = s.Success.Render("API key ✓")
	}
	left := s.Title.Render("scriptmatch") + s.Muted.Render(fmt.Sprintf("  Step %d of %d · %s", st.Step, len(steps), step.Title))
	gap := max(a.width-2-lipgloss.Width(left)-lipgloss.Width(keyStatus), 1)
	header := left + strings.Repeat(" ", gap) + keyStatus

	progress := make([]string, len(steps))
	for i, sp := range steps {
		label := fmt.Sprintf("%d %s", i+1, sp.Title)
		switch {
		case i+1 == st.Step:
			progress[i] = s.Highlight.Render(label)
		case i+1 < st.Step:
			progress[i] = s.StepDone.Render(label)
		default:
			progress[i] = s.StepTodo.Render(label)
		}
	}

	status := ""
	switch {
	case st.IsLoading:
		status = a.spinner.View()
	case st.Error != "":
		status = s.Error.Render("✗ " + st.Error)
	}

	bar := NewButtonBar(a.buttons(st, step))
	bar.SetWidth(a.width - 2)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		strings.Join(progress, s.HintSeparator.Render("  ›  ")),
		"",
		a.stepView(st, step),
		"",
		status,
		bar.Render(),
		a.stepHints(st, step),
	)
}

func (a *App) buttons(st state.WizardState, step wizard.Step) []Button {
	back := st.Step > 1 && !st.IsLoading
	next := a.machine.CanAdvance() && !st.IsLoading
	switch step.ID {
	case wizard.StepInput:
		return stepButtons(back, "Analyze", !st.IsLoading, next)
	case wizard.StepPersona:
		if a.machine.Variant() == state.VariantNarrative || st.Inputs.Title != "" {
			return stepButtons(back, "Generate", !st.IsLoading, next)
		}
	case wizard.StepResult:
		return []Button{
			{Label: "← Back", State: ButtonNormal},
			{Label: "Save", State: ButtonFocused},
			{Label: "Copy", State: ButtonNormal},
			{Label: "Start over", State: ButtonNormal},
		}
	}
	return stepButtons(back, "", false, next)
}

// handlePaste cleans pasted text and routes it to the focused input. Only
// the reference script keeps line breaks.
func (a *App) handlePaste(msg tea.PasteMsg) tea.Cmd {
	content := SanitizePaste(msg.Content)

	switch {
	case a.confirm.IsVisible(), a.picker != nil:
		return nil
	case a.credential.IsVisible():
		return a.credential.Update(tea.PasteMsg{Content: collapseNewlines(content)})
	}
	if a.currentStep().ID != wizard.StepInput {
		content = collapseNewlines(content)
	}
	return a.updateStepInput(tea.PasteMsg{Content: content})
}
