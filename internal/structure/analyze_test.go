// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

func TestAnalyzeNumberedBoundaries(t *testing.T) {
	text := "1 Introduction\nSome intro text.\n2 Background\nBackground text here.\n2.1 Related Work\nPrior work text.\n3 Method\nMethod text.\n"
	out := Analyze(text)
	require.Len(t, out.Sections, 4)
	assert.Empty(t, out.Warnings)

	bg := strings.Index(text, "2 Background")
	rw := strings.Index(text, "2.1 Related Work")
	method := strings.Index(text, "3 Method")

	s := out.Sections
	assert.Equal(t, "Introduction", s[0].Title)
	assert.Equal(t, bg, s[0].EndOffset)

	assert.Equal(t, "2", s[1].Number)
	assert.Equal(t, bg, s[1].StartOffset)
	assert.Equal(t, method, s[1].EndOffset, "a subsection does not end its parent")

	assert.Equal(t, "2.1", s[2].Number)
	assert.Equal(t, 2, s[2].Level)
	assert.Equal(t, types.KindSubsection, s[2].Kind)
	assert.Equal(t, rw, s[2].StartOffset)
	assert.Equal(t, method, s[2].EndOffset)
	assert.Equal(t, 1, s[2].Parent)

	assert.Equal(t, len(text), s[3].EndOffset)
	assert.Equal(t, -1, s[3].Parent)

	assert.Equal(t, "Some intro text.\n", out.Body(text, 0))
	assert.Equal(t, "Method text.\n", out.Body(text, 3))
}

func TestAnalyzeChineseThesis(t *testing.T) {
	text := "摘要\n本文研究了一个问题。\n第一章 绪论\n正文。\n1.1 研究背景\n背景介绍。\n第二章 相关工作\n相关研究。\n参考文献\n[1] 张三. 论文[J]. 学报, 2020.\n致谢\n感谢导师。\n"
	out := Analyze(text)
	require.Len(t, out.Sections, 6)

	tests := []struct {
		title  string
		level  int
		number string
		kind   types.SectionKind
		tag    string
		parent int
	}{
		{"摘要", 1, "", types.KindSpecial, types.TagAbstract, -1},
		{"绪论", 1, "1", types.KindChapter, "", -1},
		{"研究背景", 2, "1.1", types.KindSubsection, "", 1},
		{"相关工作", 1, "2", types.KindChapter, "", -1},
		{"参考文献", 1, "", types.KindSpecial, types.TagReferences, -1},
		{"致谢", 1, "", types.KindSpecial, types.TagAcknowledgement, -1},
	}
	for i, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			s := out.Sections[i]
			assert.Equal(t, i, s.Index)
			assert.Equal(t, tt.title, s.Title)
			assert.Equal(t, tt.level, s.Level)
			assert.Equal(t, tt.number, s.Number)
			assert.Equal(t, tt.kind, s.Kind)
			assert.Equal(t, tt.tag, s.Tag)
			assert.Equal(t, tt.parent, s.Parent)
		})
	}

	refs, ok := out.Find(types.TagReferences)
	require.True(t, ok)
	assert.Contains(t, text[refs.StartOffset:refs.EndOffset], "学报")
	assert.NotContains(t, text[refs.StartOffset:refs.EndOffset], "感谢导师")

	_, ok = out.Find(types.TagAppendix)
	assert.False(t, ok)
}

func TestAnalyzeParsesTableOfContents(t *testing.T) {
	text := "目  录\n摘  要 .......... I\n第一章 绪论 .......... 1\n1.1 研究背景 .......... 2\n第二章 方法 .......... 5\n\n摘  要\n本文研究了一个问题。\n第一章 绪论\n内容。\n"
	out := Analyze(text)

	require.Len(t, out.TOC, 4)
	assert.Equal(t, types.TOCEntry{Level: 1, Title: "摘  要", Page: "I"}, out.TOC[0])
	assert.Equal(t, types.TOCEntry{Level: 1, Number: "1", Title: "绪论", Page: "1"}, out.TOC[1])
	assert.Equal(t, types.TOCEntry{Level: 2, Number: "1.1", Title: "研究背景", Page: "2"}, out.TOC[2])
	assert.Equal(t, types.TOCEntry{Level: 1, Number: "2", Title: "方法", Page: "5"}, out.TOC[3])

	require.Len(t, out.Sections, 3, "contents lines are not headings")
	assert.Equal(t, types.TagTOC, out.Sections[0].Tag)
	assert.Equal(t, types.TagAbstract, out.Sections[1].Tag)
	assert.Equal(t, "绪论", out.Sections[2].Title)
	assert.Equal(t, strings.LastIndex(text, "第一章 绪论"), out.Sections[2].StartOffset)

	assert.Equal(t, out.TOC, out.TableOfContents())
}

func TestAnalyzeSkipsStrayLeaderLines(t *testing.T) {
	text := "第一章 绪论 ........ 1\n第一章 绪论\n正文。\n"
	out := Analyze(text)
	require.Len(t, out.Sections, 1)
	assert.Equal(t, strings.Index(text, "第一章 绪论\n"), out.Sections[0].StartOffset)
}

func TestAnalyzeMarkdownLevels(t *testing.T) {
	text := "# 引言\n正文\n## 背景\n内容\n### 细节\n内容\n# 结论\n总结\n"
	out := Analyze(text)
	require.Len(t, out.Sections, 4)

	levels := []int{}
	parents := []int{}
	for _, s := range out.Sections {
		levels = append(levels, s.Level)
		parents = append(parents, s.Parent)
	}
	assert.Equal(t, []int{1, 2, 3, 1}, levels)
	assert.Equal(t, []int{-1, 0, 1, -1}, parents)
	assert.Equal(t, types.TagConclusion, out.Sections[3].Tag)

	toc := out.TableOfContents()
	require.Len(t, toc, 3, "derived contents keep the first two levels")
	assert.Equal(t, "背景", toc[1].Title)
}

func TestAnalyzeNoHeadings(t *testing.T) {
	text := "just some prose without any structure.\nmore prose follows here."
	out := Analyze(text)
	require.Len(t, out.Sections, 1)

	s := out.Sections[0]
	assert.Equal(t, types.TagDocument, s.Tag)
	assert.Equal(t, 0, s.StartOffset)
	assert.Equal(t, len(text), s.EndOffset)
	assert.Equal(t, -1, s.Parent)
	assert.Contains(t, out.Warnings, ErrNoHeadings.Error())
	assert.Equal(t, text, out.Body(text, 0))
}

func TestAnalyzeEmpty(t *testing.T) {
	out := Analyze(" \n\t\n")
	assert.Empty(t, out.Sections)
	assert.Contains(t, out.Warnings, ErrEmptyText.Error())
	assert.Equal(t, "", out.Body("", 0))
	assert.Empty(t, out.TableOfContents())
}

func TestAnalyzeNesting(t *testing.T) {
	text := "摘要\n内容。\n第一章 绪论\n1.1 背景\n1.1.1 问题\n细节。\n1.2 目标\n目标。\n第二章 方法\n2.1 模型\n模型。\n参考文献\n[1] A. B, 2020.\n"
	out := Analyze(text)
	require.NotEmpty(t, out.Sections)

	prevStart := -1
	for i, s := range out.Sections {
		assert.Less(t, s.StartOffset, s.EndOffset, "section %d is empty", i)
		assert.Greater(t, s.StartOffset, prevStart, "sections are ordered")
		prevStart = s.StartOffset
		if s.Parent >= 0 {
			p := out.Sections[s.Parent]
			assert.Less(t, s.Parent, i)
			assert.Less(t, p.Level, s.Level)
			assert.LessOrEqual(t, p.StartOffset, s.StartOffset)
			assert.GreaterOrEqual(t, p.EndOffset, s.EndOffset)
		}
	}
	assert.Equal(t, 3, out.Sections[3].Level)
	assert.Equal(t, 2, out.Sections[3].Parent)
}

func TestParseHeading(t *testing.T) {
	tests := []struct {
		line   string
		ok     bool
		level  int
		number string
		title  string
	}{
		{"第三章 实验与分析", true, 1, "3", "实验与分析"},
		{"第十二章", true, 1, "12", ""},
		{"第3节 实验设置", true, 2, "3", "实验设置"},
		{"Chapter 4: Experiments", true, 1, "4", "Experiments"},
		{"CHAPTER IV Results", true, 1, "4", "Results"},
		{"2.3.1 损失函数", true, 3, "2.3.1", "损失函数"},
		{"2.3损失函数", true, 2, "2.3", "损失函数"},
		{"1. Introduction", true, 1, "1", "Introduction"},
		{"1. 本文提出了一种方法。", false, 0, "", ""},
		{"2019 年的研究", false, 0, "", ""},
		{"1 [2] 引用文献", false, 0, "", ""},
		{"普通的一行文字", false, 0, "", ""},
		{"", false, 0, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			h, ok := parseHeading(tt.line)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.level, h.level)
			assert.Equal(t, tt.number, h.number)
			assert.Equal(t, tt.title, h.title)
		})
	}
}

func TestParseNumeral(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"7", 7, true},
		{"三", 3, true},
		{"十", 10, true},
		{"十二", 12, true},
		{"二十", 20, true},
		{"二十三", 23, true},
		{"IV", 4, true},
		{"XII", 12, true},
		{"abc", 0, false},
		{"零", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseNumeral(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
