// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyzer

import (
	"strings"
	"unicode/utf8"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/patterns"
	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/structure"
	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

// TaskKind names the analysis a task asks for.
type TaskKind string

// Per-section task kinds.
const (
	KindChapterSummary   TaskKind = "chapter_summary"
	KindMethodology      TaskKind = "methodology"
	KindConclusion       TaskKind = "conclusion"
	KindLiteratureReview TaskKind = "literature_review"
	KindSectionReview    TaskKind = "section_review"
)

// Whole-document task kinds.
const (
	KindStructureEvaluation  TaskKind = "structure_evaluation"
	KindContentQuality       TaskKind = "content_quality"
	KindTheoreticalFramework TaskKind = "theoretical_framework"
	KindAuthorContributions  TaskKind = "author_contributions"
	KindCoverMetadata        TaskKind = "cover_metadata"
)

// Mode selects the pool a task runs in.
type Mode int

const (
	ModeSection Mode = iota
	ModeGlobal
)

func (m Mode) String() string {
	if m == ModeGlobal {
		return "global"
	}
	return "section"
}

// Chapter types inferred from titles and content.
const (
	ChapterLiteratureReview = "literature_review"
	ChapterMethodology      = "methodology"
	ChapterResults          = "results"
	ChapterConclusion       = "conclusion"
	ChapterTheoretical      = "theoretical"
	ChapterSystem           = "system"
	ChapterGeneral          = "general"
	ChapterAbstract         = "abstract"
)

// Task is one unit of AI work. Index is the task's position in the plan
// and fixes the order in which results are merged.
type Task struct {
	Index       int
	Kind        TaskKind
	Mode        Mode
	Section     int
	Number      string
	Title       string
	ChapterType string
	Prompt      string

	// Fields lists the cover fields a cover_metadata task asks for.
	Fields []string
}

// Input is what planning needs: the text, its outline, and the record
// produced by pattern extraction.
type Input struct {
	Text       string
	Outline    structure.Outline
	Record     *types.Record
	Flags      types.FieldFlags
	Discipline types.Discipline
}

// chapterKeywords classify a chapter by title, checked in order.
var chapterKeywords = []struct {
	chapterType string
	keywords    []string
}{
	{ChapterLiteratureReview, []string{"绪论", "引言", "introduction", "综述", "现状", "背景", "概述", "related work"}},
	{ChapterMethodology, []string{"方法", "method", "算法", "algorithm", "模型", "model", "设计", "design"}},
	{ChapterResults, []string{"实验", "experiment", "结果", "result", "分析", "analysis", "评估", "evaluation"}},
	{ChapterConclusion, []string{"结论", "conclusion", "总结", "summary", "展望"}},
	{ChapterTheoretical, []string{"理论", "theory", "原理", "principle", "基础"}},
	{ChapterSystem, []string{"系统", "system", "实现", "implementation"}},
}

// contentIndicators classify a chapter by its opening text when the title
// says nothing.
var contentIndicators = map[string][]string{
	ChapterLiteratureReview: {"国内外研究现状", "研究综述", "学者", "文献"},
	ChapterMethodology:      {"本文提出", "本章提出", "方法", "算法", "模型"},
	ChapterResults:          {"实验结果", "准确率", "对比实验", "数据集", "表明"},
	ChapterConclusion:       {"本文总结", "未来工作", "不足之处", "展望"},
}

// minIndicatorHits is how many indicator hits classify a chapter by content.
const minIndicatorHits = 3

// classifyChapter infers the chapter type from title keywords, then from
// indicator words in the first part of content.
func classifyChapter(title, content string) string {
	t := strings.ToLower(title)
	for _, ck := range chapterKeywords {
		for _, kw := range ck.keywords {
			if strings.Contains(t, kw) {
				return ck.chapterType
			}
		}
	}

	head := truncateRunes(content, 2000)
	best, bestHits := ChapterGeneral, 0
	for _, ct := range []string{ChapterLiteratureReview, ChapterMethodology, ChapterResults, ChapterConclusion} {
		hits := 0
		for _, kw := range contentIndicators[ct] {
			hits += strings.Count(head, kw)
		}
		if hits > bestHits {
			best, bestHits = ct, hits
		}
	}
	if bestHits < minIndicatorHits {
		return ChapterGeneral
	}
	return best
}

func kindForChapter(chapterType string) TaskKind {
	switch chapterType {
	case ChapterLiteratureReview:
		return KindLiteratureReview
	case ChapterMethodology:
		return KindMethodology
	case ChapterConclusion:
		return KindConclusion
	}
	return KindChapterSummary
}

// Plan builds the task list: one task per qualifying section in document
// order, then the whole-document tasks. A section qualifies when it is a
// top-level chapter, the abstract, or the conclusion, and its body holds at
// least cfg.MinSectionChars characters.
func Plan(in Input, cfg types.ExtractionConfig) []Task {
	cfg = cfg.WithDefaults()
	var tasks []Task
	add := func(t Task) {
		t.Index = len(tasks)
		tasks = append(tasks, t)
	}

	for i, s := range in.Outline.Sections {
		qualifies := (s.Kind == types.KindChapter && s.Level == 1) ||
			s.Tag == types.TagAbstract || s.Tag == types.TagConclusion
		if !qualifies {
			continue
		}
		body := strings.TrimSpace(in.Outline.Body(in.Text, i))
		if utf8.RuneCountInString(body) < cfg.MinSectionChars {
			continue
		}

		var chapterType string
		switch s.Tag {
		case types.TagAbstract:
			chapterType = ChapterAbstract
		case types.TagConclusion:
			chapterType = ChapterConclusion
		default:
			chapterType = classifyChapter(s.Title, body)
		}
		kind := KindSectionReview
		if chapterType != ChapterAbstract {
			kind = kindForChapter(chapterType)
		}

		t := Task{
			Kind:        kind,
			Mode:        ModeSection,
			Section:     i,
			Number:      s.Number,
			Title:       s.Title,
			ChapterType: chapterType,
		}
		t.Prompt = renderPrompt(t, in.Discipline, truncateRunes(body, cfg.MaxPromptChars))
		add(t)
	}

	for _, kind := range []TaskKind{KindStructureEvaluation, KindContentQuality, KindTheoreticalFramework, KindAuthorContributions} {
		content := globalContent(kind, in, cfg.MaxPromptChars)
		if strings.TrimSpace(content) == "" {
			continue
		}
		t := Task{Kind: kind, Mode: ModeGlobal, Section: -1}
		t.Prompt = renderPrompt(t, in.Discipline, content)
		add(t)
	}

	if missing := unmatchedCover(in.Flags); len(missing) > 0 {
		cover := truncateRunes(patterns.CoverRegion(in.Text), cfg.MaxPromptChars)
		if strings.TrimSpace(cover) != "" {
			t := Task{Kind: KindCoverMetadata, Mode: ModeGlobal, Section: -1, Fields: missing}
			t.Prompt = renderPrompt(t, in.Discipline, cover)
			add(t)
		}
	}
	return tasks
}

// globalContent assembles the document excerpt for a whole-document task.
func globalContent(kind TaskKind, in Input, maxChars int) string {
	r := in.Record
	if r == nil {
		r = &types.Record{}
	}

	var sb strings.Builder
	switch kind {
	case KindStructureEvaluation:
		for _, s := range in.Outline.Sections {
			if s.Tag == types.TagDocument {
				continue
			}
			sb.WriteString(strings.Repeat("  ", max(s.Level-1, 0)))
			sb.WriteString(s.Heading())
			sb.WriteByte('\n')
		}
	case KindContentQuality:
		if r.AbstractCN == "" && r.AbstractEN == "" {
			return ""
		}
		writeLine(&sb, "题目", firstNonEmpty(r.TitleCN, r.TitleEN))
		writeLine(&sb, "关键词", firstNonEmpty(r.KeywordsCN, r.KeywordsEN))
		writeLine(&sb, "摘要", firstNonEmpty(r.AbstractCN, r.AbstractEN))
		var chapters []string
		for _, s := range in.Outline.Sections {
			if s.Level == 1 && s.Kind == types.KindChapter && s.Tag == "" {
				chapters = append(chapters, s.Heading())
			}
		}
		writeLine(&sb, "章节", strings.Join(chapters, "；"))
	case KindTheoreticalFramework:
		theory := patterns.Locate(in.Text, patterns.ContentTheory, in.Discipline, maxChars)
		if theory == "" {
			theory = firstNonEmpty(r.AbstractCN, r.AbstractEN)
		}
		sb.WriteString(theory)
	case KindAuthorContributions:
		writeLine(&sb, "摘要", firstNonEmpty(r.AbstractCN, r.AbstractEN))
		writeLine(&sb, "创新点", patterns.Locate(in.Text, patterns.ContentInnovation, in.Discipline, maxChars/2))
		writeLine(&sb, "结论", patterns.Locate(in.Text, patterns.ContentConclusion, in.Discipline, maxChars/2))
	}
	return truncateRunes(sb.String(), maxChars)
}

// unmatchedCover lists the cover fields pattern extraction left unmatched.
func unmatchedCover(flags types.FieldFlags) []string {
	var missing []string
	for _, f := range types.CoverFields {
		if !flags.Matched(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

func writeLine(sb *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	sb.WriteString(label)
	sb.WriteString("：")
	sb.WriteString(value)
	sb.WriteByte('\n')
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
