// Package state defines the wizard's single persisted record and its
// JSON encoding.
package state

import (
	"fmt"
	"slices"
	"strings"
)

// Variant selects the product flavour: an instructional explainer or a
// period-drama narrative.
type Variant string

const (
	VariantInstructional Variant = "instructional"
	VariantNarrative     Variant = "narrative"
)

// Tone selects how the generated script should sound.
type Tone string

const (
	ToneBenchmark Tone = "benchmark"
	ToneLogical   Tone = "logical"
	ToneCustom    Tone = "custom"
)

// Valid reports whether t is one of the known tones.
func (t Tone) Valid() bool {
	switch t {
	case ToneBenchmark, ToneLogical, ToneCustom:
		return true
	}
	return false
}

// Source marks where an LLM-backed value came from.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceFallback Source = "fallback"
)

// DefaultTargetMinutes is the target length of a fresh wizard.
const DefaultTargetMinutes = 5

// MaxSupporting is the number of supporting roles a narrative can name.
const MaxSupporting = 4

// PersonaPresets are the rules offered as one-key additions to the persona field.
var PersonaPresets = []string{
	"국사 교수님 말투",
	"유행어 금지",
	"역사 고증 철저",
	"명언 2회 포함",
}

// WizardState is the whole working state of one wizard run.
type WizardState struct {
	Step          int             `json:"step"`
	Inputs        Inputs          `json:"inputs"`
	Analysis      *AnalysisResult `json:"analysisResult"`
	TitleKeywords *SEOKeywords    `json:"titleKeywords"`
	Artifact      *Artifact       `json:"generatedArtifact"`
	IsLoading     bool            `json:"isLoading"`
	Error         string          `json:"error,omitempty"`
}

// Inputs holds everything the user typed or imported.
type Inputs struct {
	ReferenceScript string     `json:"referenceScript"`
	Thumbnail       string     `json:"thumbnail,omitempty"` // data URI
	Title           string     `json:"title"`
	Topic           string     `json:"topic"`
	Tone            Tone       `json:"tone"`
	CustomTone      string     `json:"customTone,omitempty"`
	TargetMinutes   int        `json:"targetMinutes"`
	PersonaRules    string     `json:"personaRules"`
	Characters      Characters `json:"characters"`
}

// Characters names the cast of a narrative script.
type Characters struct {
	FemaleProtagonist string   `json:"femaleProtagonist"`
	MaleProtagonist   string   `json:"maleProtagonist"`
	Supporting        []string `json:"supporting"`
}

// HasProtagonists reports whether both leads are named.
func (c Characters) HasProtagonists() bool {
	return strings.TrimSpace(c.FemaleProtagonist) != "" && strings.TrimSpace(c.MaleProtagonist) != ""
}

// Artifact is the output of a generation request.
type Artifact struct {
	Script          string `json:"script"`
	ThumbnailPrompt string `json:"thumbnailPrompt,omitempty"`
	Source          Source `json:"source"`
}

// Default returns the state of a fresh wizard.
func Default() *WizardState {
	return &WizardState{
		Step: 1,
		Inputs: Inputs{
			Tone:          ToneBenchmark,
			TargetMinutes: DefaultTargetMinutes,
		},
	}
}

// Clone returns a deep copy.
func (s *WizardState) Clone() *WizardState {
	if s == nil {
		return nil
	}
	c := *s
	c.Inputs.Characters.Supporting = slices.Clone(s.Inputs.Characters.Supporting)
	if s.Analysis != nil {
		c.Analysis = s.Analysis.Clone()
	}
	if s.TitleKeywords != nil {
		kw := *s.TitleKeywords
		c.TitleKeywords = &kw
	}
	if s.Artifact != nil {
		a := *s.Artifact
		c.Artifact = &a
	}
	return &c
}

// Validate checks the structural invariants a persisted record must hold.
func (s *WizardState) Validate() error {
	if s.Step < 1 {
		return fmt.Errorf("step %d out of range", s.Step)
	}
	if s.Step > 1 && s.Analysis == nil {
		return fmt.Errorf("step %d requires an analysis result", s.Step)
	}
	if s.Analysis != nil {
		if err := s.Analysis.Validate(); err != nil {
			return err
		}
	}
	if s.Inputs.Tone != "" && !s.Inputs.Tone.Valid() {
		return fmt.Errorf("unknown tone %q", s.Inputs.Tone)
	}
	if len(s.Inputs.Characters.Supporting) > MaxSupporting {
		return fmt.Errorf("at most %d supporting characters, got %d", MaxSupporting, len(s.Inputs.Characters.Supporting))
	}
	return nil
}
