// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package patterns

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

// maxMatchesPerPattern bounds how many rejected matches one pattern may
// skip before giving up.
const maxMatchesPerPattern = 32

// coverMarkers end the cover region. The earliest one found wins.
var coverMarkers = []string{
	"学位论文使用授权书",
	"学位论文原创性声明",
	"独创性声明",
	"原创性声明",
	"版权使用授权书",
	"中文摘要",
	"摘要",
	"摘 要",
	"ABSTRACT",
}

// minCoverBytes keeps a marker that appears in the first line (for example
// in a running header) from producing an empty cover.
const minCoverBytes = 64

// Result holds the fields a pattern pass found and their flags.
type Result struct {
	Record types.Record
	Flags  types.FieldFlags
}

// Extractor applies a Table to document text.
type Extractor struct {
	table *Table
}

// New returns an Extractor over t. A nil table uses DefaultTable.
func New(t *Table) *Extractor {
	if t == nil {
		t = DefaultTable()
	}
	return &Extractor{table: t}
}

// Extract runs the default table over text.
func Extract(text string) Result {
	return New(nil).Extract(text)
}

// Extract runs every rule and returns the partial record. Fields with no
// accepted match stay empty and unflagged.
func (e *Extractor) Extract(text string) Result {
	res := Result{Flags: types.FieldFlags{}}
	if strings.TrimSpace(text) == "" {
		res.Record.Normalize()
		return res
	}

	// Cover fields match against folded text. Whole-text rules keep the
	// original punctuation of abstracts and keywords.
	cover := fold(CoverRegion(text))
	full := text

	for _, rule := range e.table.Rules {
		scope := cover
		if rule.Scope == ScopeFull {
			scope = full
		}

		value, priority := matchRule(rule, scope)
		if value == "" {
			continue
		}
		value = Clean(rule.Field, value)
		if value == "" {
			continue
		}
		res.Record.SetStringField(rule.Field, value)
		res.Flags.Set(rule.Field, types.SourcePattern, confidenceFor(priority))
	}

	res.Record.Normalize()
	return res
}

// confidenceFor maps a pattern's position in its rule to a confidence.
func confidenceFor(priority int) float64 {
	c := 0.9 - 0.05*float64(priority)
	if c < 0.6 {
		c = 0.6
	}
	return c
}

// matchRule returns the first accepted value and the index of the pattern
// or block that produced it.
func matchRule(rule Rule, text string) (string, int) {
	for i, pat := range rule.Patterns {
		if v := matchPattern(pat, text); v != "" {
			return v, i
		}
	}
	for i, blk := range rule.Blocks {
		if v := matchBlock(blk, text); v != "" {
			return v, len(rule.Patterns) + i
		}
	}
	return "", 0
}

func matchPattern(pat Pattern, text string) string {
	for _, m := range pat.Expr.FindAllStringSubmatch(text, maxMatchesPerPattern) {
		if pat.Group >= len(m) {
			continue
		}
		v := strings.TrimSpace(m[pat.Group])
		if v == "" {
			continue
		}
		if pat.Reject != nil && pat.Reject.MatchString(v) {
			continue
		}
		return v
	}
	return ""
}

var (
	// tocLeaderRe matches dot leaders followed by a page number, the shape
	// of a table-of-contents line.
	tocLeaderRe = regexp.MustCompile(`(?:\.{3,}|…{2,}|·{3,}|\s{4,})\s*[\dIVXivx]+\s*$`)
)

// matchBlock returns the body of the first heading matching blk.Start that
// is not a table-of-contents line and yields a non-trivial body.
func matchBlock(blk Block, text string) string {
	for _, loc := range blk.Start.FindAllStringIndex(text, maxMatchesPerPattern) {
		head := text[loc[0]:loc[1]]
		rest := text[loc[1]:]
		eol := strings.IndexByte(rest, '\n')
		if eol < 0 {
			eol = len(rest)
		}
		line := rest[:eol]
		if tocLeaderRe.MatchString(line) {
			continue
		}
		if !strings.HasSuffix(strings.TrimSpace(head), ":") && !strings.HasSuffix(strings.TrimSpace(head), "：") {
			if r, _ := utf8.DecodeRuneInString(line); line != "" && !unicode.IsSpace(r) {
				continue
			}
		}

		window := rest
		if blk.MaxLen > 0 && len(window) > blk.MaxLen {
			window = window[:runeFloor(window, blk.MaxLen)]
		}
		body := window
		if end := blk.End.FindStringIndex(window); end != nil {
			body = window[:end[0]]
		} else if cut := strings.LastIndex(window, "\n\n"); cut > 0 && len(window) < len(rest) {
			body = window[:cut]
		}
		if utf8.RuneCountInString(strings.TrimSpace(body)) < 30 || tocLines(body) >= 2 {
			continue
		}
		return body
	}
	return ""
}

func tocLines(body string) int {
	n := 0
	for _, line := range strings.Split(body, "\n") {
		if tocLeaderRe.MatchString(line) {
			n++
		}
	}
	return n
}

// CoverRegion returns the text before the first declaration or abstract
// marker, or the first tenth of the document when no marker is found.
func CoverRegion(text string) string {
	best := -1
	for _, m := range coverMarkers {
		i := strings.Index(text, m)
		if i >= minCoverBytes && (best < 0 || i < best) {
			best = i
		}
	}
	if best > 0 {
		return text[:best]
	}
	n := len(text) / 10
	if n < 2000 {
		n = 2000
	}
	if n >= len(text) {
		return text
	}
	return text[:runeFloor(text, n)]
}

// fold applies NFKC so full-width punctuation, digits, and letters match
// the ASCII forms used in the patterns.
func fold(s string) string {
	return norm.NFKC.String(s)
}

// runeFloor returns the largest rune boundary in s that is <= n.
func runeFloor(s string, n int) int {
	if n >= len(s) {
		return len(s)
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return n
}
