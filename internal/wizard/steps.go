package wizard

import (
	"strings"

	"github.com/mark3labs/scriptmatch/internal/prompt"
	"github.com/mark3labs/scriptmatch/internal/state"
)

// StepID identifies a wizard step.
type StepID string

const (
	StepInput      StepID = "input"
	StepSettings   StepID = "settings"
	StepSelection  StepID = "selection"
	StepPersona    StepID = "persona"
	StepCharacters StepID = "characters"
	StepResult     StepID = "result"
)

// Step is one position in the wizard.
type Step struct {
	ID    StepID
	Title string
	// CanEnter is the entry predicate over the current state.
	CanEnter func(*state.WizardState) bool
	// Terminal steps are entered only by a successful generation.
	Terminal bool
}

func always(*state.WizardState) bool { return true }

func hasAnalysis(s *state.WizardState) bool { return s.Analysis != nil }

func lengthChosen(s *state.WizardState) bool {
	return hasAnalysis(s) && prompt.ValidateLength(s.Inputs.TargetMinutes) == nil
}

func selectionsMade(s *state.WizardState) bool {
	return lengthChosen(s) &&
		strings.TrimSpace(s.Inputs.Title) != "" &&
		strings.TrimSpace(s.Inputs.Topic) != ""
}

func castNamed(s *state.WizardState) bool {
	return selectionsMade(s) && s.Inputs.Characters.HasProtagonists()
}

func hasArtifact(s *state.WizardState) bool { return s.Artifact != nil }

// Steps returns the ordered step list of a variant.
func Steps(v state.Variant) []Step {
	if v == state.VariantNarrative {
		return []Step{
			{ID: StepInput, Title: "Reference script", CanEnter: always},
			{ID: StepSettings, Title: "Analysis & settings", CanEnter: hasAnalysis},
			{ID: StepSelection, Title: "Title & topic", CanEnter: lengthChosen},
			{ID: StepCharacters, Title: "Characters", CanEnter: selectionsMade},
			{ID: StepPersona, Title: "Persona", CanEnter: castNamed},
			{ID: StepResult, Title: "Script", CanEnter: hasArtifact, Terminal: true},
		}
	}
	return []Step{
		{ID: StepInput, Title: "Reference script", CanEnter: always},
		{ID: StepSettings, Title: "Analysis & settings", CanEnter: hasAnalysis},
		{ID: StepSelection, Title: "Title & topic", CanEnter: lengthChosen},
		{ID: StepPersona, Title: "Persona", CanEnter: selectionsMade},
		{ID: StepResult, Title: "Script", CanEnter: hasArtifact, Terminal: true},
	}
}
