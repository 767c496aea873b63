// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package patterns

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

var (
	spaceRunRe = regexp.MustCompile(`[ \t\r\f\v\x{3000}]+`)
	blankRunRe = regexp.MustCompile(`\n\s*\n+`)

	// labelPrefixRe strips a leading field label left inside a captured value.
	labelPrefixRe = regexp.MustCompile(`^(?:论文题目|中文题目|英文题目|题目|作者|姓名|导师|指导教师|专业|学院|Title|Author|Supervisor)\s*[:：]\s*`)

	academicTitleRe = regexp.MustCompile(`(?:副教授|教授|副研究员|研究员|讲师|博士生导师|博导|高级工程师|工程师|博士|院士)`)
	enHonorificRe   = regexp.MustCompile(`^(?:Associate Professor|Professor|Prof\.?|Dr\.?)\s*`)

	hanRunRe  = regexp.MustCompile(`\p{Han}{2,4}`)
	dateNumRe = regexp.MustCompile(`\d+`)

	keywordSepRe = regexp.MustCompile(`\s*[;；,，、]\s*|\s{2,}`)
)

// Clean normalizes a raw matched value for field. It removes control
// characters, folds whitespace, strips stray labels, and applies the
// field's own normalization. An empty result means the match was noise.
func Clean(field, value string) string {
	v := stripControl(value)
	v = labelPrefixRe.ReplaceAllString(strings.TrimSpace(v), "")

	switch field {
	case types.FieldAbstractCN, types.FieldAbstractEN, types.FieldAcknowledgement:
		return cleanParagraphs(v)
	}

	v = strings.TrimSpace(spaceRunRe.ReplaceAllString(strings.ReplaceAll(v, "\n", " "), " "))
	v = strings.Trim(v, " :：,，;；.。")

	switch field {
	case types.FieldAuthorCN:
		return cleanChineseName(v)
	case types.FieldSupervisorCN:
		return cleanChineseName(academicTitleRe.ReplaceAllString(v, " "))
	case types.FieldSupervisorEN:
		return strings.TrimSpace(enHonorificRe.ReplaceAllString(v, ""))
	case types.FieldDegreeLevel:
		return canonicalDegree(v)
	case types.FieldDefenseDate, types.FieldSubmissionDate:
		return normalizeDate(v)
	case types.FieldCollege:
		if i := strings.LastIndex(v, "大学"); i >= 0 {
			v = v[i+len("大学"):]
		}
		if len([]rune(v)) < 3 {
			return ""
		}
		return v
	case types.FieldKeywordsCN:
		return joinKeywords(v, "；")
	case types.FieldKeywordsEN:
		return joinKeywords(v, "; ")
	case types.FieldThesisNumber:
		return strings.ToUpper(v)
	}
	return v
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n':
			return r
		case '\t':
			return ' '
		}
		if unicode.IsControl(r) || r == '\uFEFF' {
			return -1
		}
		return r
	}, s)
}

// cleanParagraphs keeps paragraph breaks but folds runs of spaces and
// joins hard-wrapped lines inside a paragraph.
func cleanParagraphs(s string) string {
	paras := blankRunRe.Split(strings.TrimSpace(s), -1)
	out := make([]string, 0, len(paras))
	for _, para := range paras {
		lines := strings.Split(para, "\n")
		var b strings.Builder
		for _, line := range lines {
			line = strings.TrimSpace(spaceRunRe.ReplaceAllString(line, " "))
			if line == "" {
				continue
			}
			if b.Len() > 0 && needsSpace(b.String(), line) {
				b.WriteByte(' ')
			}
			b.WriteString(line)
		}
		if b.Len() > 0 {
			out = append(out, b.String())
		}
	}
	return strings.Join(out, "\n")
}

// needsSpace reports whether two wrapped lines of Latin text need a space
// between them. Han text joins without one.
func needsSpace(prev, next string) bool {
	last := []rune(prev)
	first := []rune(next)
	if len(last) == 0 || len(first) == 0 {
		return false
	}
	return !unicode.Is(unicode.Han, last[len(last)-1]) && !unicode.Is(unicode.Han, first[0])
}

// cleanChineseName returns the first run of two to four Han characters.
// Names printed with spaced characters ("张 三") are joined first.
func cleanChineseName(s string) string {
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return ""
	}
	if len([]rune(tokens[0])) >= 2 {
		return hanRunRe.FindString(tokens[0])
	}
	return hanRunRe.FindString(strings.Join(tokens, ""))
}

func canonicalDegree(v string) string {
	lower := strings.ToLower(strings.ReplaceAll(v, " ", ""))
	switch {
	case strings.Contains(v, "博士"), strings.HasPrefix(lower, "ph"), strings.HasPrefix(lower, "doctor"):
		return "博士"
	case strings.Contains(v, "硕士"), strings.HasPrefix(lower, "master"):
		return "硕士"
	case strings.Contains(v, "学士"), strings.HasPrefix(lower, "bachelor"):
		return "学士"
	}
	return v
}

// normalizeDate rewrites 2023年5月20日, 2023/05/20 and similar as
// 2023-05-20, or 2023-05 when no day is present.
func normalizeDate(v string) string {
	nums := dateNumRe.FindAllString(v, 3)
	if len(nums) < 2 {
		return ""
	}
	year, _ := strconv.Atoi(nums[0])
	month, _ := strconv.Atoi(nums[1])
	if year < 1900 || month < 1 || month > 12 {
		return ""
	}
	if len(nums) == 3 {
		day, _ := strconv.Atoi(nums[2])
		if day >= 1 && day <= 31 {
			return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		}
	}
	return fmt.Sprintf("%04d-%02d", year, month)
}

func joinKeywords(v, sep string) string {
	parts := keywordSepRe.Split(v, -1)
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.Trim(part, " .。"); part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, sep)
}
