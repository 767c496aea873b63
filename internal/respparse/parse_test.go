// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package respparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviewSchema = Schema{
	Keys:      []string{"summary"},
	ListKeys:  []string{"strengths", "improvement_suggestions"},
	ScoreKeys: []string{"content_quality", "language"},
	Labels: map[string][]string{
		"summary":                 {"核心内容摘要", "Summary"},
		"strengths":               {"主要优点", "Strengths"},
		"improvement_suggestions": {"改进建议", "Suggestions"},
		"content_quality":         {"内容质量", "Content quality"},
		"language":                {"语言表达", "Language"},
	},
}

type review struct {
	Summary     string   `json:"summary"`
	Strengths   []string `json:"strengths"`
	Suggestions []string `json:"improvement_suggestions"`
	Quality     int      `json:"content_quality"`
	Language    int      `json:"language"`
}

func TestParseTiers(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantKind Kind
		wantTier string
	}{
		{
			name:     "strict json",
			raw:      `{"summary": "本章提出新方法", "content_quality": 8}`,
			wantKind: Success,
			wantTier: TierStrict,
		},
		{
			name:     "fenced json",
			raw:      "Here is the analysis:\n```json\n{\"summary\": \"ok\", \"strengths\": [\"清晰\"]}\n```\nThanks.",
			wantKind: Success,
			wantTier: TierCleaned,
		},
		{
			name:     "prose around object",
			raw:      `The result is {"summary": "ok", "language": 7} as requested.`,
			wantKind: Success,
			wantTier: TierCleaned,
		},
		{
			name:     "trailing comma and raw newline",
			raw:      "{\"summary\": \"line one\nline two\", \"strengths\": [\"a\", \"b\",],}",
			wantKind: Success,
			wantTier: TierCleaned,
		},
		{
			name:     "smart quotes",
			raw:      `{“summary”: “ok”}`,
			wantKind: Success,
			wantTier: TierCleaned,
		},
		{
			name:     "labeled prose",
			raw:      "内容质量：8分\n主要优点：\n- 结构清晰\n- 论证充分\n\n核心内容摘要：提出了一种新的检测方法",
			wantKind: PartialSuccess,
			wantTier: TierHeuristic,
		},
		{
			name:     "truncated json",
			raw:      `{"summary": "部分结果", "strengths": ["清晰", "完整"], "content_quality": 7, "improvement_sugg`,
			wantKind: PartialSuccess,
			wantTier: TierHeuristic,
		},
		{
			name:     "nonsense",
			raw:      "I cannot help with that.",
			wantKind: Empty,
		},
		{
			name:     "empty",
			raw:      "",
			wantKind: Empty,
		},
		{
			name:     "overflowing score",
			raw:      `{"content_quality": 1e400}`,
			wantKind: Empty,
		},
		{
			name:     "object without schema keys",
			raw:      `{"unrelated": 1}`,
			wantKind: Empty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Parse(tt.raw, reviewSchema)
			assert.Equal(t, tt.wantKind, out.Kind, "kind")
			assert.Equal(t, tt.wantTier, out.Tier, "tier")
			assert.NotNil(t, out.Data)
			if tt.wantKind == Empty {
				assert.Zero(t, out.Confidence)
			}
		})
	}
}

func TestParseHeuristicFields(t *testing.T) {
	raw := "1. 内容质量：8分\n2. 语言表达: 7/10\n主要优点：\n- 结构清晰\n- 论证充分\n改进建议：增加实验；补充对比\n核心内容摘要：提出了一种新的检测方法"

	out := Parse(raw, reviewSchema)
	require.Equal(t, PartialSuccess, out.Kind)

	var r review
	require.NoError(t, out.Decode(&r))
	assert.Equal(t, 8, r.Quality)
	assert.Equal(t, 7, r.Language)
	assert.Equal(t, []string{"结构清晰", "论证充分"}, r.Strengths)
	assert.Equal(t, []string{"增加实验", "补充对比"}, r.Suggestions)
	assert.Equal(t, "提出了一种新的检测方法", r.Summary)
	assert.InDelta(t, 0.4, out.Confidence, 1e-9)
}

func TestParseDropsExponentScores(t *testing.T) {
	out := Parse(`{"summary": "ok", "content_quality": 1e400, "language": 7}`, reviewSchema)
	require.Equal(t, PartialSuccess, out.Kind)
	assert.NotContains(t, out.Data, "content_quality")

	var r review
	require.NoError(t, out.Decode(&r))
	assert.Equal(t, "ok", r.Summary)
	assert.Zero(t, r.Quality)
	assert.Equal(t, 7, r.Language)

	assert.Zero(t, toScore("3e2"))
}

func TestParseCoercesTypes(t *testing.T) {
	raw := `{"summary": ["第一点", "第二点"], "strengths": "清晰；完整", "content_quality": "9分", "language": 12.4}`

	out := Parse(raw, reviewSchema)
	require.Equal(t, Success, out.Kind)

	var r review
	require.NoError(t, out.Decode(&r))
	assert.Equal(t, "第一点; 第二点", r.Summary)
	assert.Equal(t, []string{"清晰", "完整"}, r.Strengths)
	assert.Equal(t, 9, r.Quality)
	assert.Equal(t, 10, r.Language)
}

func TestParsePartialConfidenceScalesWithCoverage(t *testing.T) {
	full := Parse("核心内容摘要：a\n主要优点：b\n改进建议：c\n内容质量：8分\n语言表达：7分", reviewSchema)
	one := Parse("核心内容摘要：a", reviewSchema)

	require.Equal(t, PartialSuccess, full.Kind)
	require.Equal(t, PartialSuccess, one.Kind)
	assert.Greater(t, full.Confidence, one.Confidence)
	assert.Less(t, full.Confidence, 1.0)
}

func TestParserRecoversFromPanickingStrategy(t *testing.T) {
	p := &Parser{Strategies: []Strategy{{
		Name: "boom",
		Kind: Success,
		Parse: func(string, Schema) (map[string]any, bool) {
			panic("bad strategy")
		},
	}}}

	out := p.Parse(`{"summary": "x"}`, reviewSchema)
	assert.Equal(t, Empty, out.Kind)
	assert.NotNil(t, out.Data)
}

func TestParseEmptySchemaAcceptsAnyObject(t *testing.T) {
	out := Parse(`{"anything": "goes"}`, Schema{})
	assert.Equal(t, Success, out.Kind)
	assert.Equal(t, "goes", out.Data["anything"])
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "partial", PartialSuccess.String())
	assert.Equal(t, "empty", Empty.String())
}
