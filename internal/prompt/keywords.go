package prompt

import (
	"fmt"
	"strings"

	"github.com/mark3labs/scriptmatch/internal/llm"
	"github.com/mark3labs/scriptmatch/internal/state"
)

var keywordsSchema = llm.MustSchema(&state.SEOKeywords{})

// BuildTitleKeywords builds the request that splits a title into SEO
// keyword tiers.
func BuildTitleKeywords(title string) (*llm.Request, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title", ErrMissingSelection)
	}

	req := llm.NewRequest(llm.RequestKeywords, fmt.Sprintf(`Extract SEO keywords from this YouTube title.

Title: %q

Tiers:
- large: the highest-volume generic keywords (e.g. Samsung phone, Galaxy, smartphone, settings)
- medium: topic or category keywords (e.g. safety, scams, security, interpretation, AI features)
- small: long-tail keywords and specific feature names (e.g. lock screen, file transfer, live interpretation)

List 4-6 keywords per tier, comma separated, in Korean.

Return JSON:
{
  "large": "keyword1, keyword2, keyword3, keyword4",
  "medium": "keyword1, keyword2, keyword3, keyword4",
  "small": "keyword1, keyword2, keyword3, keyword4"
}`, title))
	req.Kind = "seo_keywords"
	req.Schema = keywordsSchema
	req.SchemaName = "seo_keywords"
	return req, nil
}
