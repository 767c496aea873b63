// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package patterns

import (
	"regexp"
	"strings"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

// ContentKind names a region of the thesis body that analysis prompts need.
type ContentKind string

const (
	ContentMethodology ContentKind = "methodology"
	ContentResults     ContentKind = "results"
	ContentConclusion  ContentKind = "conclusion"
	ContentTheory      ContentKind = "theory"
	ContentInnovation  ContentKind = "innovation"
)

// baseLocators are heading keywords that apply to every discipline.
var baseLocators = map[ContentKind][]string{
	ContentMethodology: {"研究方法", "方法", "技术路线", "研究设计", "Method", "Methodology"},
	ContentResults:     {"实验结果", "结果与分析", "结果", "Results", "Experiments"},
	ContentConclusion:  {"结论", "总结与展望", "总结", "Conclusion"},
	ContentTheory:      {"理论基础", "相关理论", "理论框架", "文献综述", "Theoretical", "Related Work"},
	ContentInnovation:  {"创新点", "主要创新", "主要贡献", "本文贡献", "Contribution"},
}

// disciplineLocators add discipline-specific heading keywords, tried
// before the base list.
var disciplineLocators = map[types.Discipline]map[ContentKind][]string{
	types.DisciplineEngineering: {
		ContentMethodology: {"制备工艺", "实验方案", "试验方法", "工艺设计"},
		ContentResults:     {"性能测试", "表征结果", "试验结果"},
	},
	types.DisciplineComputerScience: {
		ContentMethodology: {"算法设计", "模型设计", "系统设计", "总体设计"},
		ContentResults:     {"实验评估", "性能评估", "实验与分析"},
	},
	types.DisciplineMedicine: {
		ContentMethodology: {"资料与方法", "对象与方法", "临床资料"},
		ContentResults:     {"临床结果", "疗效观察"},
	},
	types.DisciplineSocialSciences: {
		ContentMethodology: {"研究假设", "问卷设计", "样本与数据", "变量定义"},
		ContentResults:     {"实证结果", "实证分析", "回归结果"},
	},
	types.DisciplineNaturalSciences: {
		ContentMethodology: {"实验部分", "材料与方法", "样品制备"},
		ContentResults:     {"结果与讨论", "测量结果"},
	},
	types.DisciplineHumanities: {
		ContentMethodology: {"研究思路", "研究视角"},
		ContentTheory:      {"概念界定", "学术史"},
	},
	types.DisciplineAgriculture: {
		ContentMethodology: {"试验设计", "田间试验", "材料与方法"},
		ContentResults:     {"试验结果", "产量分析"},
	},
}

// maxHeadingRunes bounds the lines treated as headings by Locate.
const maxHeadingRunes = 40

var headingNumberRe = regexp.MustCompile(`^\s*#*\s*(?:第[一二三四五六七八九十\d]+[章节]|\d+(?:\.\d+)*\.?|Chapter\s+\d+)?\s*`)

// Locate returns up to maxLen bytes of text following the first short
// heading line that contains a keyword for kind. Discipline keywords are
// tried before the base keywords. It returns "" when nothing matches.
func Locate(text string, kind ContentKind, d types.Discipline, maxLen int) string {
	keywords := append(append([]string{}, disciplineLocators[d][kind]...), baseLocators[kind]...)
	if len(keywords) == 0 {
		return ""
	}

	for _, kw := range keywords {
		offset := 0
		for offset < len(text) {
			i := strings.Index(text[offset:], kw)
			if i < 0 {
				break
			}
			pos := offset + i
			offset = pos + len(kw)

			lineStart := strings.LastIndexByte(text[:pos], '\n') + 1
			lineEnd := strings.IndexByte(text[pos:], '\n')
			if lineEnd < 0 {
				lineEnd = len(text)
			} else {
				lineEnd += pos
			}
			line := text[lineStart:lineEnd]
			if !looksLikeHeading(line) {
				continue
			}

			body := text[lineEnd:]
			if maxLen > 0 && len(body) > maxLen {
				body = body[:runeFloor(body, maxLen)]
			}
			if strings.TrimSpace(body) != "" {
				return strings.TrimSpace(body)
			}
		}
	}
	return ""
}

// looksLikeHeading reports whether line is short, has no sentence-ending
// punctuation, and is not a table-of-contents entry.
func looksLikeHeading(line string) bool {
	t := strings.TrimSpace(line)
	if t == "" || len([]rune(t)) > maxHeadingRunes || tocLeaderRe.MatchString(t) {
		return false
	}
	if strings.ContainsAny(t, "。；;！？!?") {
		return false
	}
	rest := headingNumberRe.ReplaceAllString(t, "")
	return rest != ""
}
