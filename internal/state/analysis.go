package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// AnalysisKind names the exact response shape an analysis request expects.
// The request builder and the decoder always agree on one kind.
type AnalysisKind string

const (
	KindInstructional          AnalysisKind = "instructional"
	KindInstructionalThumbnail AnalysisKind = "instructional+thumbnail"
	KindNarrative              AnalysisKind = "narrative"
)

// ErrKindMismatch is returned when an analysis result's payload does not
// match its declared kind.
var ErrKindMismatch = errors.New("analysis payload does not match kind")

// AnalysisCore holds the fields every analysis kind returns.
type AnalysisCore struct {
	HookAnalysis      string      `json:"hookAnalysis" jsonschema_description:"How the first 30 seconds hook the viewer: stakes, direct address, urgency"`
	StructureSummary  string      `json:"structureSummary" jsonschema_description:"Overall structure of the script and its sentence rhythm"`
	ToneStyle         string      `json:"toneStyle" jsonschema_description:"Voice and register of the narrator"`
	CTAPattern        string      `json:"ctaPattern" jsonschema_description:"How the script closes and asks for subscriptions or comments"`
	SuggestedTitles   []string    `json:"suggestedTitles" jsonschema:"minItems=3,maxItems=3" jsonschema_description:"Three SEO-friendly titles in the same style"`
	SuggestedTopics   []string    `json:"suggestedTopics" jsonschema:"minItems=3,maxItems=3" jsonschema_description:"Three new topics that suit this style"`
	ThumbnailKeywords string      `json:"thumbnailKeywords" jsonschema_description:"Four to six thumbnail words laid out on two lines"`
	SEOKeywords       SEOKeywords `json:"seoKeywords"`
}

// SEOKeywords are comma-separated keyword lists by search volume tier.
type SEOKeywords struct {
	Large  string `json:"large" jsonschema_description:"High-volume generic keywords, comma separated"`
	Medium string `json:"medium" jsonschema_description:"Category keywords, comma separated"`
	Small  string `json:"small" jsonschema_description:"Long-tail keywords, comma separated"`
}

// InstructionalAnalysis is the response to an instructional analysis without a thumbnail.
type InstructionalAnalysis struct {
	AnalysisCore
}

// ThumbnailAnalysis is the response to an instructional analysis with a thumbnail attached.
type ThumbnailAnalysis struct {
	AnalysisCore
	Thumbnail ThumbnailBreakdown `json:"thumbnailAnalysis"`
	Coherence CoherenceCheck     `json:"coherenceCheck"`
}

// ThumbnailBreakdown describes the reference thumbnail's composition.
type ThumbnailBreakdown struct {
	ColorScheme     string `json:"colorScheme"`
	TextLayout      string `json:"textLayout"`
	VisualElements  string `json:"visualElements"`
	Recommendations string `json:"recommendations"`
}

// CoherenceCheck rates how well title, thumbnail and hook support each other.
type CoherenceCheck struct {
	TitleThumbnailMatch string `json:"titleThumbnailMatch"`
	ThumbnailHookMatch  string `json:"thumbnailHookMatch"`
	OverallSynergy      string `json:"overallSynergy"`
}

// NarrativeAnalysis is the response to a narrative analysis.
type NarrativeAnalysis struct {
	AnalysisCore
	EmotionalFlow string   `json:"emotionalFlow" jsonschema_description:"How tension and release move through the story"`
	ViralElements []string `json:"viralElements" jsonschema_description:"Elements that make the story shareable"`
}

// AnalysisResult is a tagged union: exactly the payload named by Kind is set.
type AnalysisResult struct {
	Kind          AnalysisKind           `json:"kind"`
	Source        Source                 `json:"source"`
	Instructional *InstructionalAnalysis `json:"instructional,omitempty"`
	Thumbnail     *ThumbnailAnalysis     `json:"thumbnail,omitempty"`
	Narrative     *NarrativeAnalysis     `json:"narrative,omitempty"`
}

// NewPayload returns a zero value of the struct the kind decodes into.
func (k AnalysisKind) NewPayload() (any, error) {
	switch k {
	case KindInstructional:
		return &InstructionalAnalysis{}, nil
	case KindInstructionalThumbnail:
		return &ThumbnailAnalysis{}, nil
	case KindNarrative:
		return &NarrativeAnalysis{}, nil
	}
	return nil, fmt.Errorf("unknown analysis kind %q", k)
}

// DecodeAnalysis decodes a structured LLM payload of the given kind.
func DecodeAnalysis(kind AnalysisKind, raw json.RawMessage, source Source) (*AnalysisResult, error) {
	payload, err := kind.NewPayload()
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, payload); err != nil {
		return nil, fmt.Errorf("decoding %s analysis: %w", kind, err)
	}

	r := &AnalysisResult{Kind: kind, Source: source}
	switch p := payload.(type) {
	case *InstructionalAnalysis:
		r.Instructional = p
	case *ThumbnailAnalysis:
		r.Thumbnail = p
	case *NarrativeAnalysis:
		r.Narrative = p
	}
	return r, nil
}

// Core returns the fields shared by every kind.
func (r *AnalysisResult) Core() AnalysisCore {
	switch {
	case r.Instructional != nil:
		return r.Instructional.AnalysisCore
	case r.Thumbnail != nil:
		return r.Thumbnail.AnalysisCore
	case r.Narrative != nil:
		return r.Narrative.AnalysisCore
	}
	return AnalysisCore{}
}

// Validate checks that exactly the payload named by Kind is present.
func (r *AnalysisResult) Validate() error {
	set := 0
	for _, present := range []bool{r.Instructional != nil, r.Thumbnail != nil, r.Narrative != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("%w: %d payloads set", ErrKindMismatch, set)
	}

	var ok bool
	switch r.Kind {
	case KindInstructional:
		ok = r.Instructional != nil
	case KindInstructionalThumbnail:
		ok = r.Thumbnail != nil
	case KindNarrative:
		ok = r.Narrative != nil
	default:
		return fmt.Errorf("unknown analysis kind %q", r.Kind)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrKindMismatch, r.Kind)
	}
	switch r.Source {
	case SourceLLM, SourceFallback:
	default:
		return fmt.Errorf("unknown analysis source %q", r.Source)
	}
	return nil
}

// Clone returns a deep copy.
func (r *AnalysisResult) Clone() *AnalysisResult {
	c := *r
	if r.Instructional != nil {
		p := *r.Instructional
		p.AnalysisCore = r.Instructional.AnalysisCore.clone()
		c.Instructional = &p
	}
	if r.Thumbnail != nil {
		p := *r.Thumbnail
		p.AnalysisCore = r.Thumbnail.AnalysisCore.clone()
		c.Thumbnail = &p
	}
	if r.Narrative != nil {
		p := *r.Narrative
		p.AnalysisCore = r.Narrative.AnalysisCore.clone()
		p.ViralElements = slices.Clone(r.Narrative.ViralElements)
		c.Narrative = &p
	}
	return &c
}

func (c AnalysisCore) clone() AnalysisCore {
	c.SuggestedTitles = slices.Clone(c.SuggestedTitles)
	c.SuggestedTopics = slices.Clone(c.SuggestedTopics)
	return c
}
