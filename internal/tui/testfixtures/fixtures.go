package testfixtures

import (
	"testing"

	"github.com/mark3labs/scriptmatch/internal/llm"
	"github.com/mark3labs/scriptmatch/internal/state"
	"github.com/mark3labs/scriptmatch/internal/wizard"
)

// Fixed test values for consistent output
const (
	FixedKey    = "AIza-test"
	FixedScript = "여러분, 지금 이 설정 하나만 바꾸면 배터리가 두 배 오래갑니다."

	InstructionalAnalysisJSON = `{
  "hookAnalysis": "직접 호명과 손해 강조",
  "structureSummary": "문제 → 해결 → 보너스",
  "toneStyle": "친근한 정보형",
  "ctaPattern": "구독 유도",
  "suggestedTitles": ["배터리 두 배 설정", "지금 꺼야 할 기능", "아무도 모르는 절전법"],
  "suggestedTopics": ["배터리 절약", "알림 정리", "화면 밝기"],
  "thumbnailKeywords": "지금 당장\n꺼야 할 설정",
  "seoKeywords": {"large": "스마트폰", "medium": "설정", "small": "배터리 절약"}
}`

	NarrativeAnalysisJSON = `{
  "hookAnalysis": "몰락 장면 선공개",
  "structureSummary": "칠막 구성",
  "toneStyle": "사극 해설체",
  "ctaPattern": "다음 이야기 예고",
  "suggestedTitles": ["버려진 딸의 복수", "왕을 속인 여인", "마지막 문서"],
  "suggestedTopics": ["신분 역전", "궁중 암투", "숨겨진 혈통"],
  "thumbnailKeywords": "버려진 딸",
  "seoKeywords": {"large": "사극", "medium": "조선", "small": "야담"},
  "emotionalFlow": "불안 → 통쾌함",
  "viralElements": ["신분 역전"]
}`

	GeneratedJSON = `{"script": "여러분, 오늘은 세 가지 설정을 알려드립니다.", "thumbnailPrompt": "smartphone close-up"}`
	NarrativeText = "때는 조선 영조 연간이었소."
	KeywordsJSON  = `{"large": "배터리", "medium": "절전", "small": "배터리 두 배 설정"}`
)

// NewMockClient returns a mock model that answers every request kind of v.
func NewMockClient(v state.Variant) *llm.MockClient {
	c := llm.NewMockClient("")
	if v == state.VariantNarrative {
		c.Responses[llm.RequestAnalysis] = NarrativeAnalysisJSON
		c.Responses[llm.RequestGeneration] = NarrativeText
	} else {
		c.Responses[llm.RequestAnalysis] = InstructionalAnalysisJSON
		c.Responses[llm.RequestGeneration] = GeneratedJSON
	}
	c.Responses[llm.RequestKeywords] = KeywordsJSON
	return c
}

// NewMachine creates a wizard over st answering with a mock model.
func NewMachine(t *testing.T, st *MockStore, v state.Variant) (*wizard.Machine, *llm.MockClient) {
	t.Helper()
	client := NewMockClient(v)
	m, err := wizard.New(wizard.Options{Variant: v, Store: st, Client: client})
	if err != nil {
		t.Fatalf("failed to create wizard: %v", err)
	}
	return m, client
}
