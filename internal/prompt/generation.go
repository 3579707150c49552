package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/scriptmatch/internal/llm"
	"github.com/mark3labs/scriptmatch/internal/state"
)

// Target length bounds, in minutes.
const (
	MinTargetMinutes = 1
	MaxTargetMinutes = 60
)

// CharsPerMinute converts narrated minutes into a character budget.
const CharsPerMinute = 250

// Prefix bounds applied to the reference script in generation requests.
const (
	InstructionalReferenceLimit = 1500
	NarrativeReferenceLimit     = 3000
)

// ScriptPayload is the structured reply of an instructional generation.
type ScriptPayload struct {
	Script          string `json:"script" jsonschema_description:"The complete script"`
	ThumbnailPrompt string `json:"thumbnailPrompt" jsonschema_description:"Image generation prompt: visual elements only, no text"`
}

var scriptPayloadSchema = llm.MustSchema(&ScriptPayload{})

// GenerationInput is everything a generation request is conditioned on.
type GenerationInput struct {
	ReferenceScript string
	Title           string
	Topic           string
	Tone            state.Tone
	CustomTone      string
	TargetMinutes   int
	PersonaRules    string
	Characters      state.Characters
	// InstructionTemplate is optional extra guidance with {{placeholders}}.
	InstructionTemplate string
}

// GenerationInputFrom collects the generation inputs of a wizard state.
func GenerationInputFrom(s *state.WizardState) GenerationInput {
	in := s.Inputs
	return GenerationInput{
		ReferenceScript: in.ReferenceScript,
		Title:           in.Title,
		Topic:           in.Topic,
		Tone:            in.Tone,
		CustomTone:      in.CustomTone,
		TargetMinutes:   in.TargetMinutes,
		PersonaRules:    in.PersonaRules,
		Characters:      in.Characters,
	}
}

// TargetChars is the narrative character budget for a runtime.
func TargetChars(minutes int) int {
	return minutes * CharsPerMinute
}

// ValidateLength checks the target length bounds.
func ValidateLength(minutes int) error {
	if minutes < MinTargetMinutes || minutes > MaxTargetMinutes {
		return fmt.Errorf("%w: %d minutes (want %d-%d)", ErrInvalidLength, minutes, MinTargetMinutes, MaxTargetMinutes)
	}
	return nil
}

// ToneInstruction resolves a tone to the single instruction fragment sent
// to the model.
func ToneInstruction(t state.Tone, custom string) (string, error) {
	switch t {
	case state.ToneBenchmark, "":
		return "Preserve the voice of the reference script: its sentence rhythm, pacing and hook style.", nil
	case state.ToneLogical:
		return "Emphasize a logical, informational tone: facts first, clear cause and effect.", nil
	case state.ToneCustom:
		custom = strings.TrimSpace(custom)
		if custom == "" {
			return "", fmt.Errorf("%w: custom tone text", ErrMissingSelection)
		}
		return "Use this persona and tone: " + custom, nil
	}
	return "", fmt.Errorf("%w: unknown tone %q", ErrMissingSelection, t)
}

// ValidateGeneration checks that the selections a generation needs are present.
func ValidateGeneration(v state.Variant, in GenerationInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title", ErrMissingSelection)
	}
	if strings.TrimSpace(in.Topic) == "" {
		return fmt.Errorf("%w: topic", ErrMissingSelection)
	}
	if err := ValidateLength(in.TargetMinutes); err != nil {
		return err
	}
	if v == state.VariantNarrative && !in.Characters.HasProtagonists() {
		return fmt.Errorf("%w: both protagonists must be named", ErrMissingSelection)
	}
	_, err := ToneInstruction(in.Tone, in.CustomTone)
	return err
}

// BuildGeneration builds the request that drafts the new script.
func BuildGeneration(v state.Variant, in GenerationInput) (*llm.Request, error) {
	if err := ValidateGeneration(v, in); err != nil {
		return nil, err
	}
	toneText, _ := ToneInstruction(in.Tone, in.CustomTone)

	var body string
	if v == state.VariantNarrative {
		body = narrativeGenerationPrompt(in, toneText)
	} else {
		body = instructionalGenerationPrompt(in, toneText)
	}
	if tmpl := strings.TrimSpace(in.InstructionTemplate); tmpl != "" {
		body += "\n\n**Additional instructions:**\n" + Render(tmpl, variablesFor(in, toneText))
	}

	req := llm.NewRequest(llm.RequestGeneration, body)
	req.Kind = string(v)
	if v == state.VariantInstructional {
		req.Schema = scriptPayloadSchema
		req.SchemaName = "generated_script"
	}
	return req, nil
}

// DecodeScriptPayload decodes the structured reply of an instructional generation.
func DecodeScriptPayload(raw json.RawMessage) (ScriptPayload, error) {
	var p ScriptPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("decoding script payload: %w", err)
	}
	return p, nil
}

func instructionalGenerationPrompt(in GenerationInput, toneText string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `Write a YouTube script and a thumbnail image prompt.

Topic: %s
Title: %s
Target length: %d minutes
Tone: %s
Persona / rules: %s

**Script rules:**
- Benchmark the sentence structure, pace and hook style of the reference script, but write about the new topic
- [0-30 seconds]: a strong hook (a danger warning or an instant fix)
- Follow the senior info detective style: friendly but information-first, mostly short sentences, reassuring phrases such as "don't panic"
- Structure: problem -> step-by-step solution -> bonus tip
- Write the script in Korean

**Thumbnail prompt rules:**
- No text at all; lettering is added later in a separate editor
- Describe visual elements only (smartphone screen, UI, finger icon, arrows)
- Name the background color field (yellow, red, green)
- Be concrete about subject and composition (e.g. "Galaxy phone settings screen, enlarged gear icon, red warning mark")

Reference script (for structure only, do not copy its content):
%s

Return JSON with exactly two fields:
{
  "script": "the complete script",
  "thumbnailPrompt": "image prompt, visual elements only"
}`,
		in.Topic, in.Title, in.TargetMinutes, toneText, personaOrNone(in.PersonaRules),
		truncate(in.ReferenceScript, InstructionalReferenceLimit))
	return sb.String()
}

func narrativeGenerationPrompt(in GenerationInput, toneText string) string {
	total := in.TargetMinutes * 60
	first, second := timestamp(total/3), timestamp(2*total/3)

	cast := fmt.Sprintf("- Female protagonist: %s\n- Male protagonist: %s\n",
		in.Characters.FemaleProtagonist, in.Characters.MaleProtagonist)
	for i, name := range in.Characters.Supporting {
		if strings.TrimSpace(name) == "" {
			continue
		}
		cast += fmt.Sprintf("- Supporting role %d: %s\n", i+1, name)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `Write a Korean period-drama (sageuk) story script for narration.

Title: %s
Premise: %s
Target length: %d minutes, about %d Korean characters in total
Tone: %s
Persona / rules: %s

Cast:
%s
**Structure (seven acts):**
1. Hook: within the first 30 seconds, open on the moment of greatest danger or loss
2. Setup: the world, the protagonists and what they want
3. Inciting incident
4. Rising conflict
5. Crisis
6. Climax
7. Resolution and a line that invites the next story

Insert exactly two wisdom beats, each a short proverb or teaching woven into the story:
- the first at about %s
- the second at about %s

**Speech register:**
- Every line of dialogue and narration uses archaic sentence endings such as "~하오", "~하였소", "~이옵니다", "~하느니라"
- Modern words, loanwords and slang are forbidden

Reference script (for structure only, do not copy its content):
%s

Return only the script text, no headings or commentary.`,
		in.Title, in.Topic, in.TargetMinutes, TargetChars(in.TargetMinutes), toneText,
		personaOrNone(in.PersonaRules), cast, first, second,
		truncate(in.ReferenceScript, NarrativeReferenceLimit))
	return sb.String()
}

func personaOrNone(rules string) string {
	if strings.TrimSpace(rules) == "" {
		return "(none)"
	}
	return rules
}

func timestamp(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
