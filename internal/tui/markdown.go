package tui

import (
	"fmt"
	"strings"

	"charm.land/glamour/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/scriptmatch/internal/state"
)

// renderMarkdown renders markdown content using glamour.
// Falls back to plain wrapping if rendering fails.
func renderMarkdown(content string, width int) string {
	if width > 120 {
		width = 120
	}
	if width < 20 {
		width = 20
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return lipgloss.NewStyle().Width(width).Render(content)
	}
	rendered, err := r.Render(content)
	if err != nil {
		return lipgloss.NewStyle().Width(width).Render(content)
	}
	return strings.TrimSuffix(rendered, "\n")
}

// analysisMarkdown lays out an analysis result as a markdown document.
func analysisMarkdown(r *state.AnalysisResult) string {
	if r == nil {
		return ""
	}
	core := r.Core()

	var b strings.Builder
	if r.Source == state.SourceFallback {
		b.WriteString("> Example analysis. The model did not answer.\n\n")
	}
	section := func(title, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", title, body)
	}
	list := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "## %s\n\n", title)
		for i, item := range items {
			fmt.Fprintf(&b, "%d. %s\n", i+1, item)
		}
		b.WriteString("\n")
	}

	section("Hook", core.HookAnalysis)
	section("Structure", core.StructureSummary)
	section("Tone", core.ToneStyle)
	section("Call to action", core.CTAPattern)
	if r.Narrative != nil {
		section("Emotional flow", r.Narrative.EmotionalFlow)
		list("Viral elements", r.Narrative.ViralElements)
	}
	if r.Thumbnail != nil {
		tb := r.Thumbnail.Thumbnail
		section("Thumbnail", fmt.Sprintf("- Colors: %s\n- Text layout: %s\n- Visual elements: %s\n- Recommendations: %s",
			tb.ColorScheme, tb.TextLayout, tb.VisualElements, tb.Recommendations))
		co := r.Thumbnail.Coherence
		section("Coherence", fmt.Sprintf("- Title and thumbnail: %s\n- Thumbnail and hook: %s\n- Overall: %s",
			co.TitleThumbnailMatch, co.ThumbnailHookMatch, co.OverallSynergy))
	}
	section("Thumbnail keywords", core.ThumbnailKeywords)
	section("SEO keywords", keywordsMarkdown(core.SEOKeywords))
	return strings.TrimSpace(b.String())
}

func keywordsMarkdown(kw state.SEOKeywords) string {
	if kw == (state.SEOKeywords{}) {
		return ""
	}
	return fmt.Sprintf("- Large: %s\n- Medium: %s\n- Small: %s", kw.Large, kw.Medium, kw.Small)
}

// RenderAnalysis renders an analysis result as styled terminal text.
func RenderAnalysis(r *state.AnalysisResult, width int) string {
	return renderMarkdown(analysisMarkdown(r), width)
}
