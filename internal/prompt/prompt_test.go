package prompt

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/scriptmatch/internal/llm"
	"github.com/mark3labs/scriptmatch/internal/media"
	"github.com/mark3labs/scriptmatch/internal/state"
	"github.com/stretchr/testify/require"
)

func TestBuildAnalysisLengthGate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		script  string
		wantErr bool
	}{
		{"nine ascii", "123456789", true},
		{"ten ascii", "1234567890", false},
		{"nine hangul", "가나다라마바사아자", true},
		{"ten hangul", "가나다라마바사아자차", false},
		{"padding does not count", "   123456789\n\n", true},
		{"one letter padded to ten", "         a", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req, err := BuildAnalysis(state.VariantInstructional, AnalysisInput{Script: tt.script})
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInputTooShort)
				require.True(t, IsValidation(err))
				require.Nil(t, req)
				return
			}
			require.NoError(t, err)
			require.Contains(t, req.Prompt, tt.script)
		})
	}
}

func TestBuildAnalysisKinds(t *testing.T) {
	t.Parallel()
	thumb := &media.Image{MimeType: "image/png", Data: []byte{1}}
	script := strings.Repeat("가", 20)

	tests := []struct {
		name      string
		variant   state.Variant
		thumbnail *media.Image
		wantKind  state.AnalysisKind
		wantImage bool
		wantField string
	}{
		{"instructional", state.VariantInstructional, nil, state.KindInstructional, false, "seoKeywords"},
		{"instructional with thumbnail", state.VariantInstructional, thumb, state.KindInstructionalThumbnail, true, "coherenceCheck"},
		{"narrative ignores thumbnail", state.VariantNarrative, thumb, state.KindNarrative, false, "emotionalFlow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req, err := BuildAnalysis(tt.variant, AnalysisInput{Script: script, Thumbnail: tt.thumbnail})
			require.NoError(t, err)
			require.Equal(t, llm.RequestAnalysis, req.Name)
			require.Equal(t, string(tt.wantKind), req.Kind)
			require.Equal(t, tt.wantImage, req.Image != nil)
			require.True(t, req.Structured())

			var schema map[string]any
			require.NoError(t, json.Unmarshal(req.Schema, &schema))
			require.Contains(t, schema["required"], tt.wantField)
		})
	}
}

func TestBuildAnalysisTruncates(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("가", InstructionalAnalysisLimit) + "끝"
	req, err := BuildAnalysis(state.VariantInstructional, AnalysisInput{Script: long})
	require.NoError(t, err)
	require.NotContains(t, req.Prompt, "끝")
	require.Contains(t, req.Prompt, strings.Repeat("가", InstructionalAnalysisLimit))

	long = strings.Repeat("나", NarrativeAnalysisLimit) + "끝"
	req, err = BuildAnalysis(state.VariantNarrative, AnalysisInput{Script: long})
	require.NoError(t, err)
	require.NotContains(t, req.Prompt, "끝")
}

func validInput() GenerationInput {
	return GenerationInput{
		ReferenceScript: "여러분, 이 설정 하나만 바꾸세요.",
		Title:           "지금 당장 꺼야 할 설정",
		Topic:           "스마트폰 보안",
		Tone:            state.ToneBenchmark,
		TargetMinutes:   5,
		PersonaRules:    "유행어 금지",
		Characters: state.Characters{
			FemaleProtagonist: "연화",
			MaleProtagonist:   "도윤",
			Supporting:        []string{"최 대감", "", "월이"},
		},
	}
}

func TestBuildGenerationValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		variant state.Variant
		mutate  func(*GenerationInput)
		want    error
	}{
		{"no title", state.VariantInstructional, func(in *GenerationInput) { in.Title = " " }, ErrMissingSelection},
		{"no topic", state.VariantInstructional, func(in *GenerationInput) { in.Topic = "" }, ErrMissingSelection},
		{"zero minutes", state.VariantInstructional, func(in *GenerationInput) { in.TargetMinutes = 0 }, ErrInvalidLength},
		{"too long", state.VariantNarrative, func(in *GenerationInput) { in.TargetMinutes = 61 }, ErrInvalidLength},
		{"custom tone empty", state.VariantInstructional, func(in *GenerationInput) { in.Tone = state.ToneCustom }, ErrMissingSelection},
		{"narrative without male lead", state.VariantNarrative, func(in *GenerationInput) { in.Characters.MaleProtagonist = "" }, ErrMissingSelection},
		{"instructional ignores cast", state.VariantInstructional, func(in *GenerationInput) { in.Characters = state.Characters{} }, nil},
		{"upper bound", state.VariantNarrative, func(in *GenerationInput) { in.TargetMinutes = 60 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := validInput()
			tt.mutate(&in)
			_, err := BuildGeneration(tt.variant, in)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestToneInstruction(t *testing.T) {
	benchmark, err := ToneInstruction(state.ToneBenchmark, "ignored")
	require.NoError(t, err)
	require.Contains(t, benchmark, "Preserve the voice")

	logical, err := ToneInstruction(state.ToneLogical, "")
	require.NoError(t, err)
	require.Contains(t, logical, "logical, informational")

	custom, err := ToneInstruction(state.ToneCustom, "  국사 교수님 말투 ")
	require.NoError(t, err)
	require.Equal(t, "Use this persona and tone: 국사 교수님 말투", custom)

	_, err = ToneInstruction("shouting", "")
	require.ErrorIs(t, err, ErrMissingSelection)
}

func TestBuildGenerationInstructional(t *testing.T) {
	in := validInput()
	in.ReferenceScript = strings.Repeat("a", InstructionalReferenceLimit) + "TAIL"

	req, err := BuildGeneration(state.VariantInstructional, in)
	require.NoError(t, err)
	require.Equal(t, llm.RequestGeneration, req.Name)
	require.True(t, req.Structured())
	require.Contains(t, req.Prompt, "Title: 지금 당장 꺼야 할 설정")
	require.Contains(t, req.Prompt, "problem -> step-by-step solution -> bonus tip")
	require.Contains(t, req.Prompt, "No text at all")
	require.Contains(t, req.Prompt, "do not copy")
	require.NotContains(t, req.Prompt, "TAIL")

	var schema map[string]any
	require.NoError(t, json.Unmarshal(req.Schema, &schema))
	require.ElementsMatch(t, []any{"script", "thumbnailPrompt"}, schema["required"])
	require.Len(t, schema["properties"], 2)
}

func TestBuildGenerationNarrative(t *testing.T) {
	in := validInput()
	in.TargetMinutes = 30
	in.Tone = state.ToneLogical

	req, err := BuildGeneration(state.VariantNarrative, in)
	require.NoError(t, err)
	require.False(t, req.Structured(), "narrative output is plain text")
	require.Contains(t, req.Prompt, "about 7500 Korean characters")
	require.Contains(t, req.Prompt, "the first at about 10:00")
	require.Contains(t, req.Prompt, "the second at about 20:00")
	require.Contains(t, req.Prompt, "Female protagonist: 연화")
	require.Contains(t, req.Prompt, "Supporting role 1: 최 대감")
	require.Contains(t, req.Prompt, "Supporting role 3: 월이")
	require.NotContains(t, req.Prompt, "Supporting role 2")
	require.Contains(t, req.Prompt, "archaic sentence endings")
	require.Contains(t, req.Prompt, "logical, informational")
	require.Equal(t, 7500, TargetChars(30))
}

func TestBuildGenerationSplicesTemplate(t *testing.T) {
	in := validInput()
	in.InstructionTemplate = "Mention {{title}} twice within {{minutes}} minutes. {{unknown}}"

	req, err := BuildGeneration(state.VariantInstructional, in)
	require.NoError(t, err)
	require.Contains(t, req.Prompt, "**Additional instructions:**\nMention 지금 당장 꺼야 할 설정 twice within 5 minutes. {{unknown}}")
}

func TestBuildTitleKeywords(t *testing.T) {
	_, err := BuildTitleKeywords("  ")
	require.ErrorIs(t, err, ErrMissingSelection)

	req, err := BuildTitleKeywords("갤럭시 잠금화면 설정")
	require.NoError(t, err)
	require.Equal(t, llm.RequestKeywords, req.Name)
	require.Contains(t, req.Prompt, `"갤럭시 잠금화면 설정"`)
	require.True(t, req.Structured())
}

func TestDecodeScriptPayload(t *testing.T) {
	p, err := DecodeScriptPayload(json.RawMessage(`{"script":"본문","thumbnailPrompt":"yellow"}`))
	require.NoError(t, err)
	require.Equal(t, ScriptPayload{Script: "본문", ThumbnailPrompt: "yellow"}, p)

	_, err = DecodeScriptPayload(json.RawMessage(`[]`))
	require.Error(t, err)
}
