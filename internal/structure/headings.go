// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

// heading is one recognized heading line.
type heading struct {
	level  int
	number string
	title  string
	kind   types.SectionKind
	tag    string
}

// maxTitleRunes and maxTopNumber guard numbered headings against list
// items, table rows, and numbered sentences.
const (
	maxTitleRunes = 60
	maxTopNumber  = 50
)

// specialHeadings map unnumbered front and back matter headings to tags.
// Each expression must match the whole (trimmed) line.
var specialHeadings = []struct {
	re  *regexp.Regexp
	tag string
}{
	{regexp.MustCompile(`^(?:中文摘要|摘\s*要)$`), types.TagAbstract},
	{regexp.MustCompile(`^(?:ABSTRACT|Abstract|英文摘要)$`), types.TagAbstractEN},
	{regexp.MustCompile(`^(?:目\s*录|CONTENTS|Contents|Table of Contents|TABLE OF CONTENTS)$`), types.TagTOC},
	{regexp.MustCompile(`^(?:参\s*考\s*文\s*献|References|REFERENCES|Bibliography|BIBLIOGRAPHY)$`), types.TagReferences},
	{regexp.MustCompile(`^(?:致\s*谢|Acknowledge?ments?|ACKNOWLEDGE?MENTS?)$`), types.TagAcknowledgement},
	{regexp.MustCompile(`^(?:结\s*论|总结与展望|Conclusions?|CONCLUSIONS?)$`), types.TagConclusion},
	{regexp.MustCompile(`^(?:附\s*录|Appendix|APPENDIX)(?:\s*[A-Z\d一二三四五六七八九十]{1,2})?(?:\s+\S.{0,30})?$`), types.TagAppendix},
	{regexp.MustCompile(`^(?:攻读.{1,20}(?:期间|学位).{0,20}(?:成果|论文)|作者简介|个人简历|Publications|PUBLICATIONS)$`), types.TagPublications},
}

var (
	markdownRe  = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*$`)
	cnChapterRe = regexp.MustCompile(`^第\s*([一二三四五六七八九十百零〇两\d]{1,4})\s*章\s*(.*)$`)
	cnSectionRe = regexp.MustCompile(`^第\s*([一二三四五六七八九十百零〇两\d]{1,4})\s*节\s*(.*)$`)
	enChapterRe = regexp.MustCompile(`^(?:Chapter|CHAPTER)\s+(\d{1,2}|[IVXL]{1,6})\s*[:.\-–]?\s*(.*)$`)
	dottedRe    = regexp.MustCompile(`^(\d{1,2}(?:\.\d{1,2}){0,3})\.?\s+(.+)$`)
	dottedHanRe = regexp.MustCompile(`^(\d{1,2}(?:\.\d{1,2}){1,3})\s*(\p{Han}.*)$`)
	citeRe      = regexp.MustCompile(`\[\d+(?:[,\-–]\d+)*\]`)
)

// parseHeading classifies a trimmed, width-folded line. Markdown headers
// are unwrapped and their text parsed again; otherwise the layers run in
// order: special headings, 第N章, 第N节, Chapter N, dotted numbers.
func parseHeading(line string) (heading, bool) {
	if line == "" || utf8.RuneCountInString(line) > maxTitleRunes+12 {
		return heading{}, false
	}

	if m := markdownRe.FindStringSubmatch(line); m != nil {
		hashes := len(m[1])
		inner := strings.TrimSpace(m[2])
		if h, ok := parseHeading(inner); ok {
			if h.number == "" && h.kind != types.KindSpecial {
				h.level = hashes
				h.kind = kindFor(hashes)
			}
			return h, true
		}
		if !plausibleTitle(inner) {
			return heading{}, false
		}
		return heading{level: hashes, title: inner, kind: kindFor(hashes)}, true
	}

	for _, s := range specialHeadings {
		if s.re.MatchString(line) {
			return heading{level: 1, title: line, kind: types.KindSpecial, tag: s.tag}, true
		}
	}

	if m := cnChapterRe.FindStringSubmatch(line); m != nil {
		n, ok := parseNumeral(m[1])
		title := strings.TrimSpace(m[2])
		if !ok || n > maxTopNumber || (title != "" && !plausibleTitle(title)) {
			return heading{}, false
		}
		return heading{level: 1, number: strconv.Itoa(n), title: title, kind: types.KindChapter}, true
	}

	if m := cnSectionRe.FindStringSubmatch(line); m != nil {
		n, ok := parseNumeral(m[1])
		title := strings.TrimSpace(m[2])
		if !ok || n > maxTopNumber || !plausibleTitle(title) {
			return heading{}, false
		}
		return heading{level: 2, number: strconv.Itoa(n), title: title, kind: types.KindSubsection}, true
	}

	if m := enChapterRe.FindStringSubmatch(line); m != nil {
		n, ok := parseNumeral(m[1])
		title := strings.TrimSpace(m[2])
		if !ok || n > maxTopNumber || (title != "" && !plausibleTitle(title)) {
			return heading{}, false
		}
		return heading{level: 1, number: strconv.Itoa(n), title: title, kind: types.KindChapter}, true
	}

	m := dottedRe.FindStringSubmatch(line)
	if m == nil {
		m = dottedHanRe.FindStringSubmatch(line)
	}
	if m != nil {
		number := m[1]
		title := strings.TrimSpace(m[2])
		top, _ := strconv.Atoi(strings.SplitN(number, ".", 2)[0])
		if top < 1 || top > maxTopNumber || !plausibleTitle(title) {
			return heading{}, false
		}
		level := strings.Count(number, ".") + 1
		return heading{level: level, number: number, title: title, kind: kindFor(level)}, true
	}

	return heading{}, false
}

func kindFor(level int) types.SectionKind {
	if level <= 1 {
		return types.KindChapter
	}
	return types.KindSubsection
}

// plausibleTitle rejects text that reads like a sentence, a citation, or
// a row of numbers rather than a heading.
func plausibleTitle(title string) bool {
	if title == "" || utf8.RuneCountInString(title) > maxTitleRunes {
		return false
	}
	first, _ := utf8.DecodeRuneInString(title)
	if unicode.IsDigit(first) || unicode.IsPunct(first) {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(title)
	if strings.ContainsRune(".。;；,，:：、", last) {
		return false
	}
	if strings.ContainsAny(title, "。；;") || citeRe.MatchString(title) {
		return false
	}
	letters := 0
	for _, r := range title {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters >= 2
}

var cnDigits = map[rune]int{
	'零': 0, '〇': 0, '一': 1, '二': 2, '两': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
}

// parseNumeral converts arabic, Chinese (一 to 九十九), and small roman
// numerals to an int.
func parseNumeral(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if n, ok := parseRoman(s); ok {
		return n, true
	}

	total, current := 0, 0
	for _, r := range s {
		switch r {
		case '十':
			if current == 0 {
				current = 1
			}
			total += current * 10
			current = 0
		case '百':
			if current == 0 {
				current = 1
			}
			total += current * 100
			current = 0
		default:
			d, ok := cnDigits[r]
			if !ok {
				return 0, false
			}
			current = d
		}
	}
	total += current
	return total, total > 0
}

var romanValues = map[rune]int{'I': 1, 'V': 5, 'X': 10, 'L': 50}

func parseRoman(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	total, prev := 0, 0
	runes := []rune(s)
	for i := len(runes) - 1; i >= 0; i-- {
		v, ok := romanValues[runes[i]]
		if !ok {
			return 0, false
		}
		if v < prev {
			total -= v
		} else {
			total += v
			prev = v
		}
	}
	return total, total > 0
}
