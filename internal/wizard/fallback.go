package wizard

import (
	"github.com/mark3labs/scriptmatch/internal/state"
)

// Static example payloads stored when llm.fallback is on and a call fails.
// Every one is tagged state.SourceFallback.

func fallbackCore() state.AnalysisCore {
	return state.AnalysisCore{
		HookAnalysis:      "첫 문장에서 시청자의 손해를 직접 언급하며 긴장감을 만듭니다. \"여러분\"으로 시작하는 직접 호명과 시간 압박이 핵심입니다.",
		StructureSummary:  "문제 제기 → 원인 설명 → 단계별 해결책 → 보너스 팁 → 구독 유도의 구조입니다. 문장은 짧고 리듬이 빠릅니다.",
		ToneStyle:         "친근하지만 단호한 정보 전달형 말투로, 시청자를 안심시키는 표현이 반복됩니다.",
		CTAPattern:        "마지막에 \"도움이 되셨다면 구독과 좋아요\"로 마무리하며 댓글 참여를 유도합니다.",
		SuggestedTitles:   []string{"지금 당장 꺼야 할 스마트폰 설정 3가지", "이것 모르면 매달 돈이 샙니다", "전문가도 몰랐던 숨은 기능"},
		SuggestedTopics:   []string{"배터리를 두 배 오래 쓰는 방법", "통신비 절약 설정", "사진 화질 높이는 숨은 옵션"},
		ThumbnailKeywords: "지금 당장\n꺼야 할 설정",
		SEOKeywords:       fallbackKeywords(),
	}
}

func fallbackKeywords() state.SEOKeywords {
	return state.SEOKeywords{
		Large:  "유튜브, 영상, 콘텐츠, 정보",
		Medium: "제작, 편집, 기획, 마케팅",
		Small:  "썸네일, 대본, SEO, 조회수",
	}
}

// FallbackAnalysis returns the example analysis for kind.
func FallbackAnalysis(kind state.AnalysisKind) *state.AnalysisResult {
	r := &state.AnalysisResult{Kind: kind, Source: state.SourceFallback}
	switch kind {
	case state.KindInstructionalThumbnail:
		r.Thumbnail = &state.ThumbnailAnalysis{
			AnalysisCore: fallbackCore(),
			Thumbnail: state.ThumbnailBreakdown{
				ColorScheme:     "노란색 배경에 검은 글씨, 빨간 강조색",
				TextLayout:      "두 줄, 큰 글씨, 왼쪽 정렬",
				VisualElements:  "놀란 표정의 인물과 스마트폰 클로즈업",
				Recommendations: "핵심 단어 하나만 빨간색으로 강조하세요.",
			},
			Coherence: state.CoherenceCheck{
				TitleThumbnailMatch: "제목의 핵심 단어가 썸네일에 그대로 반복됩니다.",
				ThumbnailHookMatch:  "썸네일의 경고 문구를 첫 문장이 바로 이어받습니다.",
				OverallSynergy:      "높음",
			},
		}
	case state.KindNarrative:
		core := fallbackCore()
		core.HookAnalysis = "주인공의 몰락을 첫 장면에 먼저 보여 주어 \"어떻게 이렇게 되었나\"라는 궁금증을 만듭니다."
		core.StructureSummary = "발단 → 시련 → 조력자 등장 → 위기 → 반전 → 절정 → 여운의 칠막 구성입니다."
		core.ToneStyle = "사극 어투의 담담한 해설체입니다."
		core.SuggestedTitles = []string{"몰락한 양반가 딸의 마지막 선택", "임금도 울린 한 여인의 상소", "버려진 아이가 판서가 되기까지"}
		core.SuggestedTopics = []string{"조선 시대 과부의 재가 이야기", "노비 출신 의원의 일생", "역모에 휘말린 선비의 결말"}
		r.Narrative = &state.NarrativeAnalysis{
			AnalysisCore:  core,
			EmotionalFlow: "불안 → 분노 → 희망 → 절망 → 통쾌함 → 여운",
			ViralElements: []string{"권선징악", "신분 역전", "가족애"},
		}
	default:
		r.Kind = state.KindInstructional
		r.Instructional = &state.InstructionalAnalysis{AnalysisCore: fallbackCore()}
	}
	return r
}

// FallbackArtifact returns the example script for v.
func FallbackArtifact(v state.Variant) *state.Artifact {
	if v == state.VariantNarrative {
		return &state.Artifact{
			Script: "때는 조선 영조 연간이었소. 한양 북촌의 몰락한 양반가에 한 여인이 살고 있었으니...\n\n" +
				"(예시 대본입니다. API 키를 확인한 뒤 다시 생성하시오.)",
			Source: state.SourceFallback,
		}
	}
	return &state.Artifact{
		Script: "여러분, 지금 이 설정 하나 때문에 매달 손해를 보고 계실 수 있습니다.\n\n" +
			"(예시 대본입니다. API 키를 확인한 뒤 다시 생성해 주세요.)",
		ThumbnailPrompt: "A surprised person holding a smartphone, bright yellow background, high contrast, close-up",
		Source:          state.SourceFallback,
	}
}

// FallbackKeywords returns the example keyword tiers.
func FallbackKeywords() *state.SEOKeywords {
	kw := fallbackKeywords()
	return &kw
}
