// Package prompt builds the model requests for each wizard action. Builders
// are pure: they validate inputs and return an llm.Request, never calling
// the model themselves.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mark3labs/scriptmatch/internal/llm"
	"github.com/mark3labs/scriptmatch/internal/media"
	"github.com/mark3labs/scriptmatch/internal/state"
)

// MinScriptLength is the shortest reference script, in characters after
// trimming, that can be analyzed.
const MinScriptLength = 10

// Prefix bounds applied to the reference script in analysis requests.
const (
	InstructionalAnalysisLimit = 3000
	NarrativeAnalysisLimit     = 5000
)

var analysisSchemas = map[state.AnalysisKind]json.RawMessage{
	state.KindInstructional:          llm.MustSchema(&state.InstructionalAnalysis{}),
	state.KindInstructionalThumbnail: llm.MustSchema(&state.ThumbnailAnalysis{}),
	state.KindNarrative:              llm.MustSchema(&state.NarrativeAnalysis{}),
}

// AnalysisInput is the raw material of an analysis request.
type AnalysisInput struct {
	Script    string
	Thumbnail *media.Image
}

// AnalysisKindFor returns the response shape for a variant. Thumbnails are
// only analyzed by the instructional variant.
func AnalysisKindFor(v state.Variant, hasThumbnail bool) state.AnalysisKind {
	switch {
	case v == state.VariantNarrative:
		return state.KindNarrative
	case hasThumbnail:
		return state.KindInstructionalThumbnail
	default:
		return state.KindInstructional
	}
}

// ValidateScript applies the minimum-length gate.
func ValidateScript(script string) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(script)); n < MinScriptLength {
		return fmt.Errorf("%w: %d characters, need at least %d", ErrInputTooShort, n, MinScriptLength)
	}
	return nil
}

// BuildAnalysis builds the request that asks the model to break down a
// reference script.
func BuildAnalysis(v state.Variant, in AnalysisInput) (*llm.Request, error) {
	if err := ValidateScript(in.Script); err != nil {
		return nil, err
	}

	kind := AnalysisKindFor(v, in.Thumbnail != nil)
	var body string
	switch kind {
	case state.KindNarrative:
		body = narrativeAnalysisPrompt(truncate(in.Script, NarrativeAnalysisLimit))
	default:
		body = instructionalAnalysisPrompt(truncate(in.Script, InstructionalAnalysisLimit), kind == state.KindInstructionalThumbnail)
	}

	req := llm.NewRequest(llm.RequestAnalysis, body)
	req.Kind = string(kind)
	req.Schema = analysisSchemas[kind]
	req.SchemaName = "script_analysis"
	if kind == state.KindInstructionalThumbnail {
		req.Image = in.Thumbnail
	}
	return req, nil
}

func instructionalAnalysisPrompt(script string, withThumbnail bool) string {
	var sb strings.Builder
	sb.WriteString(`Analyze the YouTube script below and return the result as JSON.
The channel style is "senior info detective": friendly but information-first,
short sentences, and reassuring phrases such as "don't panic" for older viewers.

Fields:
1. hookAnalysis: the hook strategy of the first 0-30 seconds (what risk or gain is presented, how the viewer is addressed, how urgency is expressed)
2. structureSummary: the overall structure (problem -> fix -> bonus pattern, ratio of short to long sentences, conclusion-example-twist beats)
3. toneStyle: voice traits (friendliness, expertise, consideration for seniors, reassurance phrases)
4. ctaPattern: the closing call to action (subscribe prompt, comment prompt, next-video teaser)
5. suggestedTitles: exactly 3 SEO-optimized titles using different formulas (danger warning, instant fix, hidden feature)
6. suggestedTopics: exactly 3 new topics that fit this style
7. thumbnailKeywords: the key thumbnail words (4-6 words on 2 lines)
8. seoKeywords: large, medium and small SEO keyword tiers, each a comma-separated list
`)
	if withThumbnail {
		sb.WriteString(`
The reference thumbnail image is attached. Also return:
- thumbnailAnalysis: color scheme, text layout, visual elements and recommendations
- coherenceCheck: how well the title, the thumbnail and the 0-30 second hook support each other
Judge the thumbnail against the channel standard: yellow background with black lettering, red accents, 4-6 words on 2 lines.
`)
	}
	sb.WriteString(`
Write every value in Korean. Be concrete and practical.

Script:
`)
	sb.WriteString(script)
	return sb.String()
}

func narrativeAnalysisPrompt(script string) string {
	return `Analyze the Korean period-drama (sageuk) story script below and return the result as JSON.

Fields:
1. hookAnalysis: how the first 0-30 seconds pull the listener into the story
2. structureSummary: the act structure and where the turning points fall
3. toneStyle: narration register, archaic sentence endings, pacing
4. ctaPattern: how the episode closes and invites the next one
5. suggestedTitles: exactly 3 titles in the same style
6. suggestedTopics: exactly 3 new story premises that fit this style
7. thumbnailKeywords: the key thumbnail words (4-6 words on 2 lines)
8. seoKeywords: large, medium and small SEO keyword tiers, each a comma-separated list
9. emotionalFlow: how tension and release move through the story
10. viralElements: the elements that make the story shareable

Write every value in Korean.

Script:
` + script
}

// truncate returns at most limit runes of s.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
