package tui

import (
	"context"
	"os"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/scriptmatch/internal/llm"
	"github.com/mark3labs/scriptmatch/internal/state"
	"github.com/mark3labs/scriptmatch/internal/store"
	"github.com/mark3labs/scriptmatch/internal/tui/testfixtures"
	"github.com/mark3labs/scriptmatch/internal/wizard"
	"github.com/stretchr/testify/require"
)

func press(text string) tea.KeyPressMsg {
	r := []rune(text)
	return tea.KeyPressMsg{Text: text, Code: r[0]}
}

func ctrl(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

func special(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// collect runs cmd and any batched children concurrently and delivers their
// messages. Commands still sleeping (ticks) are left behind.
func collect(cmd tea.Cmd) <-chan tea.Msg {
	out := make(chan tea.Msg, 64)
	var run func(tea.Cmd)
	run = func(c tea.Cmd) {
		if c == nil {
			return
		}
		go func() {
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, child := range batch {
					run(child)
				}
				return
			}
			out <- msg
		}()
	}
	run(cmd)
	return out
}

func receive[T any](t *testing.T, msgs <-chan tea.Msg) T {
	t.Helper()
	timeout := time.After(testfixtures.DefaultWaitDuration)
	for {
		select {
		case msg := <-msgs:
			if m, ok := msg.(T); ok {
				return m
			}
		case <-timeout:
			var zero T
			t.Fatalf("timed out waiting for %T", zero)
			return zero
		}
	}
}

func waitFor[T any](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	require.NotNil(t, cmd)
	return receive[T](t, collect(cmd))
}

type appFixture struct {
	app    *App
	store  *testfixtures.MockStore
	client *llm.MockClient
	m      *wizard.Machine
}

func newTestApp(t *testing.T, v state.Variant, withKey bool) *appFixture {
	t.Helper()
	st := testfixtures.NewMockStore()
	if withKey {
		st.Key = testfixtures.FixedKey
	}
	m, client := testfixtures.NewMachine(t, st, v)
	app := NewApp(context.Background(), m)
	t.Cleanup(app.Close)
	app.Update(tea.WindowSizeMsg{Width: testfixtures.TestTermWidth, Height: testfixtures.TestTermHeight})
	return &appFixture{app: app, store: st, client: client, m: m}
}

// send delivers msg and returns the resulting command.
func (f *appFixture) send(msg tea.Msg) tea.Cmd {
	_, cmd := f.app.Update(msg)
	return cmd
}

// analyzed runs an analysis and returns with the wizard on the settings step.
func (f *appFixture) analyzed(t *testing.T) {
	t.Helper()
	require.NoError(t, f.m.Apply(state.Patch{ReferenceScript: state.Ptr(testfixtures.FixedScript)}))
	f.app.loadInputs()
	done := waitFor[ActionDoneMsg](t, f.send(ctrl('s')))
	require.NoError(t, done.Err)
	f.send(done)
	require.Equal(t, 2, f.m.State().Step)
}

// selected picks the first title and second topic and moves on.
func (f *appFixture) selected(t *testing.T) {
	t.Helper()
	f.analyzed(t)
	f.send(ctrl('n'))
	require.Equal(t, wizard.StepSelection, f.m.CurrentStep().ID)
	f.send(special(tea.KeyEnter))
	f.send(special(tea.KeyDown))
	f.send(special(tea.KeyEnter))
	f.send(ctrl('n'))
}

func TestAppRendersFirstStep(t *testing.T) {
	f := newTestApp(t, state.VariantInstructional, true)

	out := testfixtures.Render(t, f.app)
	require.Contains(t, out, "Step 1 of 5")
	require.Contains(t, out, "API key ✓")
	require.Contains(t, out, "No thumbnail attached")
	require.Contains(t, out, "ctrl+s")

	view := f.app.View()
	require.True(t, view.AltScreen)
}

func TestAppTypingStoresReferenceScript(t *testing.T) {
	f := newTestApp(t, state.VariantInstructional, true)

	f.send(press("hello"))
	require.Equal(t, "hello", f.m.State().Inputs.ReferenceScript)
	require.Positive(t, f.store.SaveCalls())
}

func TestAppAnalyzeMovesToSettings(t *testing.T) {
	f := newTestApp(t, state.VariantInstructional, true)
	f.analyzed(t)

	require.Equal(t, int64(1), f.client.RequestCount())
	require.Equal(t, "Analysis ready", f.app.toast.Message())
	require.False(t, f.app.spinner.Active())
	require.Contains(t, testfixtures.Render(t, f.app), "Step 2 of 5")
}

func TestAppAnalyzeTooShortShowsError(t *testing.T) {
	f := newTestApp(t, state.VariantInstructional, true)
	f.send(press("짧다"))

	done := waitFor[ActionDoneMsg](t, f.send(ctrl('s')))
	require.ErrorIs(t, done.Err, wizard.ErrInputTooShort)
	f.send(done)

	require.Equal(t, int64(0), f.client.RequestCount())
	require.Contains(t, f.app.toast.Message(), "too short")
	require.Equal(t, 1, f.m.State().Step)
}

func TestAppMissingCredentialAsksAndRetries(t *testing.T) {
	f := newTestApp(t, state.VariantInstructional, false)
	require.Contains(t, testfixtures.Render(t, f.app), "API key ✗")
	require.NoError(t, f.m.Apply(state.Patch{ReferenceScript: state.Ptr(testfixtures.FixedScript)}))

	done := waitFor[ActionDoneMsg](t, f.send(ctrl('s')))
	require.ErrorIs(t, done.Err, llm.ErrCredentialMissing)
	f.send(done)
	require.True(t, f.app.credential.IsVisible())
	require.Equal(t, int64(0), f.client.RequestCount())

	f.send(press("AIza-new"))
	submitted := waitFor[CredentialSubmittedMsg](t, f.send(special(tea.KeyEnter)))
	require.Equal(t, "AIza-new", submitted.Key)
	require.False(t, f.app.credential.IsVisible())

	retried := waitFor[ActionDoneMsg](t, f.send(submitted))
	require.NoError(t, retried.Err)
	require.Equal(t, ActionAnalyze, retried.Action)
	require.Equal(t, "AIza-new", f.store.Key)
	require.Equal(t, int64(1), f.client.RequestCount())
	require.True(t, f.app.credentialPresent)
}

func TestAppCredentialModalEscapeCancels(t *testing.T) {
	f := newTestApp(t, state.VariantInstructional, true)

	f.send(ctrl('k'))
	require.True(t, f.app.credential.IsVisible())
	require.Contains(t, testfixtures.Render(t, f.app), "stored locally")

	f.send(special(tea.KeyEscape))
	require.False(t, f.app.credential.IsVisible())
	require.Equal(t, testfixtures.FixedKey, f.store.Key)
}

func TestAppNextGatedShowsHint(t *testing.T) {
	f := newTestApp(t, state.VariantInstructional, true)

	f.send(ctrl('n'))
	require.Equal(t, 1, f.m.State().Step)
	require.Equal(t, "Analyze the reference script first.", f.app.toast.Message())
}

func TestAppSettingsKeys(t *testing.T) {
	f := newTestApp(t, state.VariantInstructional, true)
	f.analyzed(t)

	f.send(press("2"))
	require.Equal(t, state.ToneLogical, f.m.State().Inputs.Tone)

	f.send(press("+"))
	f.send(press("+"))
	f.send(press("-"))
	require.Equal(t, state.DefaultTargetMinutes+1, f.m.State().Inputs.TargetMinutes)

	f.send(press("3"))
	require.Equal(t, state.ToneCustom, f.m.State().Inputs.Tone)
	require.Equal(t, focusSecondary, f.app.focus)
	f.send(press("차분하게"))
	require.Equal(t, "차분하게", f.m.State().Inputs.CustomTone)
}

func TestAppMinutesClamp(t *testing.T) {
	f := newTestApp(t, state.VariantInstructional, true)
	f.analyzed(t)

	for range state.DefaultTargetMinutes + 3 {
		f.send(press("-"))
	}
	require.Equal(t, 1, f.m.State().Inputs.TargetMinutes)
}

func TestAppSelectionPicksTitleAndTopic(t *testing.T) {
	f := newTestApp(t, state.VariantInstructional, true)
	f.selected(t)

	st := f.m.State()
	core := st.Analysis.Core()
	require.Equal(t, core.SuggestedTitles[0], st.Inputs.Title)
	require.Equal(t, core.SuggestedTopics[1], st.Inputs.Topic)
	require.Equal(t, wizard.StepPersona, f.m.CurrentStep().ID)
}

func TestAppSelectionKeywords(t *testing.T) {
	f := newTestApp(t, state.VariantInstructional, true)
	f.analyzed(t)
	f.send(ctrl('n'))

	f.send(ctrl('s'))
	require.Equal(t, "Choose a title first.", f.app.toast.Message())

	f.send(special(tea.KeyEnter))
	done := waitFor[ActionDoneMsg](t, f.send(ctrl('s')))
	require.NoError(t, done.Err)
	f.send(done)

	kw := f.m.State().TitleKeywords
	require.NotNil(t, kw)
	require.Equal(t, "배터리", kw.Large)
	require.Equal(t, wizard.StepSelection, f.m.CurrentStep().ID)
}

func TestAppPersonaPresetAndGenerate(t *testing.T) {
	f := newTestApp(t, state.VariantInstructional, true)
	f.selected(t)

	f.send(special(tea.KeyTab))
	require.Equal(t, focusSecondary, f.app.focus)
	f.send(special(tea.KeyEnter))
	f.send(special(tea.KeyEnter))
	require.Equal(t, state.PersonaPresets[0], f.m.State().Inputs.PersonaRules)
	require.Equal(t, state.PersonaPresets[0], f.app.persona.Value())

	done := waitFor[ActionDoneMsg](t, f.send(ctrl('s')))
	require.NoError(t, done.Err)
	f.send(done)

	st := f.m.State()
	require.Equal(t, 5, st.Step)
	require.NotNil(t, st.Artifact)
	require.Equal(t, "smartphone close-up", st.Artifact.ThumbnailPrompt)
	require.Equal(t, "Script ready", f.app.toast.Message())
	require.Contains(t, testfixtures.Render(t, f.app), "Thumbnail prompt")
}

func TestAppResultSave(t *testing.T) {
	f := newTestApp(t, state.VariantInstructional, true)
	f.selected(t)
	done := waitFor[ActionDoneMsg](t, f.send(ctrl('s')))
	f.send(done)

	t.Chdir(t.TempDir())
	f.send(press("s"))

	name := f.m.ExportName()
	require.Equal(t, "Saved to "+name, f.app.toast.Message())
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	require.Equal(t, f.m.State().Artifact.Script, string(data))
}

func TestAppGenerationFailureShowsError(t *testing.T) {
	f := newTestApp(t, state.VariantInstructional, true)
	f.selected(t)
	f.client.ShouldFail = true

	done := waitFor[ActionDoneMsg](t, f.send(ctrl('s')))
	require.NoError(t, done.Err)
	f.send(done)

	require.Equal(t, wizard.MsgGenerationFailed, f.m.State().Error)
	require.Equal(t, wizard.MsgGenerationFailed, f.app.toast.Message())
	require.Equal(t, wizard.StepPersona, f.m.CurrentStep().ID)
}

func TestAppIgnoresInputWhileLoading(t *testing.T) {
	f := newTestApp(t, state.VariantInstructional, true)
	require.NoError(t, f.m.Apply(state.Patch{ReferenceScript: state.Ptr(testfixtures.FixedScript)}))
	f.app.loadInputs()
	f.client.Gate = make(chan struct{})
	f.client.Started = make(chan *llm.Request, 1)

	msgs := collect(f.send(ctrl('s')))
	<-f.client.Started
	require.True(t, f.m.State().IsLoading)

	require.Nil(t, f.send(ctrl('s')))
	f.send(press("x"))
	require.Equal(t, testfixtures.FixedScript, f.m.State().Inputs.ReferenceScript)

	close(f.client.Gate)
	done := receive[ActionDoneMsg](t, msgs)
	require.NoError(t, done.Err)
	f.send(done)
	require.Equal(t, int64(1), f.client.RequestCount())
	require.Equal(t, 2, f.m.State().Step)
}

func TestAppResetConfirmation(t *testing.T) {
	f := newTestApp(t, state.VariantInstructional, true)
	f.analyzed(t)

	f.send(ctrl('r'))
	require.True(t, f.app.confirm.IsVisible())
	f.send(press("n"))
	require.False(t, f.app.confirm.IsVisible())
	require.Equal(t, 2, f.m.State().Step)

	f.send(ctrl('r'))
	f.send(press("y"))
	require.Equal(t, *state.Default(), f.m.State())
	require.Empty(t, f.app.script.Value())
	require.Equal(t, testfixtures.FixedKey, f.store.Key)
	require.Equal(t, "Started over", f.app.toast.Message())
}

func TestAppResetDuringRequestSkipsSuccessToast(t *testing.T) {
	f := newTestApp(t, state.VariantInstructional, true)
	require.NoError(t, f.m.Apply(state.Patch{ReferenceScript: state.Ptr(testfixtures.FixedScript)}))
	f.app.loadInputs()
	f.client.Gate = make(chan struct{})
	f.client.Started = make(chan *llm.Request, 1)

	msgs := collect(f.send(ctrl('s')))
	<-f.client.Started

	f.send(ctrl('r'))
	f.send(press("y"))
	require.Equal(t, "Started over", f.app.toast.Message())

	close(f.client.Gate)
	done := receive[ActionDoneMsg](t, msgs)
	require.Nil(t, f.send(done))
	require.Equal(t, "Started over", f.app.toast.Message())
	require.Equal(t, *state.Default(), f.m.State())
}

func TestAppEscGoesBack(t *testing.T) {
	f := newTestApp(t, state.VariantInstructional, true)
	f.analyzed(t)

	f.send(special(tea.KeyEscape))
	require.Equal(t, 1, f.m.State().Step)
	f.send(special(tea.KeyEscape))
	require.Equal(t, 1, f.m.State().Step)
}

func TestAppCredentialChangeUpdatesHeader(t *testing.T) {
	f := newTestApp(t, state.VariantInstructional, true)
	require.Equal(t, 1, f.store.Subscribers())

	require.NoError(t, f.m.ClearCredential())
	var changed StoreChangedMsg
	for changed.Change.Key != store.KeyCredential {
		msg, ok := f.app.waitForChange()().(StoreChangedMsg)
		require.True(t, ok)
		changed = msg
	}
	require.False(t, changed.Change.Present)

	require.NotNil(t, f.send(changed))
	require.False(t, f.app.credentialPresent)
	require.Contains(t, testfixtures.Render(t, f.app), "API key ✗")

	f.app.Close()
	require.Equal(t, 0, f.store.Subscribers())
}

func TestAppNarrativeCharacters(t *testing.T) {
	f := newTestApp(t, state.VariantNarrative, true)
	require.Contains(t, testfixtures.Render(t, f.app), "Step 1 of 6")
	require.NotContains(t, testfixtures.Render(t, f.app), "thumbnail")

	f.selected(t)
	require.Equal(t, wizard.StepCharacters, f.m.CurrentStep().ID)

	f.send(press("춘향"))
	f.send(special(tea.KeyTab))
	f.send(press("몽룡"))
	f.send(special(tea.KeyTab))
	f.send(press("방자, 향단, 월매, 변학도, 운봉"))

	chars := f.m.State().Inputs.Characters
	require.Equal(t, "춘향", chars.FemaleProtagonist)
	require.Equal(t, "몽룡", chars.MaleProtagonist)
	require.Equal(t, []string{"방자", "향단", "월매", "변학도"}, chars.Supporting)

	f.send(ctrl('n'))
	require.Equal(t, wizard.StepPersona, f.m.CurrentStep().ID)
}

func TestAppNarrativeIgnoresThumbnailPicker(t *testing.T) {
	f := newTestApp(t, state.VariantNarrative, true)
	f.send(ctrl('t'))
	require.Nil(t, f.app.picker)

	i := newTestApp(t, state.VariantInstructional, true)
	i.send(ctrl('t'))
	require.NotNil(t, i.app.picker)
	i.send(special(tea.KeyEscape))
	require.Nil(t, i.app.picker)
}

func TestAppImportFile(t *testing.T) {
	f := newTestApp(t, state.VariantInstructional, true)
	path := t.TempDir() + "/ref.txt"
	require.NoError(t, os.WriteFile(path, []byte(testfixtures.FixedScript), 0644))

	f.send(FileSelectedMsg{Path: path, Purpose: PickScript})
	require.Equal(t, testfixtures.FixedScript, f.m.State().Inputs.ReferenceScript)
	require.Equal(t, testfixtures.FixedScript, f.app.script.Value())

	f.send(FileSelectedMsg{Path: path + ".missing", Purpose: PickScript})
	require.NotEmpty(t, f.app.toast.Message())
}

func TestAppEditedScript(t *testing.T) {
	f := newTestApp(t, state.VariantInstructional, true)

	f.send(EditedMsg{Content: "edited text"})
	require.Equal(t, "edited text", f.m.State().Inputs.ReferenceScript)
	require.Equal(t, "edited text", f.app.script.Value())
}

func TestAppQuit(t *testing.T) {
	f := newTestApp(t, state.VariantInstructional, true)

	cmd := f.send(ctrl('c'))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
	require.False(t, f.app.View().AltScreen)
}

func TestAppPasteIsSanitized(t *testing.T) {
	f := newTestApp(t, state.VariantInstructional, true)

	f.send(tea.PasteMsg{Content: "\x1b[1m첫 줄\x1b[0m\r\n둘째 줄  \n"})
	require.Equal(t, "첫 줄\n둘째 줄", f.m.State().Inputs.ReferenceScript)
}
