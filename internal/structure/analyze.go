// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package structure detects the heading hierarchy of a thesis and turns it
// into an ordered, nested list of sections with byte offsets into the text.
// A table of contents block, when present, is parsed into entries and its
// lines are never taken as headings.
package structure

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

var (
	// ErrEmptyText is reported when the text has no content.
	ErrEmptyText = errors.New("empty text")

	// ErrNoHeadings is reported when no heading was recognized and the
	// whole document became a single section.
	ErrNoHeadings = errors.New("no headings detected")
)

var (
	// tocLeaderRe matches a line ending in dot leaders and a page number.
	tocLeaderRe = regexp.MustCompile(`(?:\.{3,}|…{2,}|·{3,}|_{3,})\s*(?:\d{1,4}|[IVXivx]{1,6})\s*$`)

	// tocEntryRe splits a table-of-contents line into title and page.
	tocEntryRe = regexp.MustCompile(`^(.*?\S)\s*(?:[.…·_]{2,}|\s{2,}|\t)\s*(\d{1,4}|[IVXivx]{1,6})$`)

	// tocBarePageRe accepts "1.1 Title 12" inside a contents block.
	tocBarePageRe = regexp.MustCompile(`^(.*\S)\s+(\d{1,4})$`)
)

// Outline is the detected structure of one document.
type Outline struct {
	Sections []types.Section  `json:"sections"`
	TOC      []types.TOCEntry `json:"toc"`
	Warnings []string         `json:"warnings,omitempty"`
}

type candidate struct {
	offset int
	h      heading
}

// Analyze scans text line by line and builds the section outline. Each
// section ends where the next heading of the same or a higher level
// starts, or at the end of the text. When no heading is found the whole
// text is returned as one section and a warning is recorded.
func Analyze(text string) Outline {
	var out Outline
	if strings.TrimSpace(text) == "" {
		out.Warnings = append(out.Warnings, ErrEmptyText.Error())
		return out
	}

	var found []candidate
	inTOC := false
	for offset := 0; offset < len(text); {
		lineEnd := strings.IndexByte(text[offset:], '\n')
		if lineEnd < 0 {
			lineEnd = len(text)
		} else {
			lineEnd += offset
		}
		line := strings.TrimSpace(norm.NFKC.String(text[offset:lineEnd]))
		start := offset
		offset = lineEnd + 1

		if line == "" {
			continue
		}
		if inTOC {
			if e, ok := parseTOCLine(line); ok {
				out.TOC = append(out.TOC, e)
				continue
			}
			inTOC = false
		}
		if tocLeaderRe.MatchString(line) {
			continue
		}

		h, ok := parseHeading(line)
		if !ok {
			continue
		}
		if h.tag == types.TagTOC {
			inTOC = true
		}
		found = append(found, candidate{offset: start, h: h})
	}

	if len(found) == 0 {
		out.Sections = []types.Section{{
			Index:       0,
			Level:       1,
			Title:       "全文",
			StartOffset: 0,
			EndOffset:   len(text),
			Kind:        types.KindChapter,
			Tag:         types.TagDocument,
			Parent:      -1,
		}}
		out.Warnings = append(out.Warnings, ErrNoHeadings.Error())
		return out
	}

	out.Sections = buildSections(found, len(text))
	return out
}

// buildSections assigns end offsets and parents with a stack of open
// sections: a new heading closes every open section at its level or deeper.
func buildSections(found []candidate, textLen int) []types.Section {
	sections := make([]types.Section, 0, len(found))
	var open []int

	for i, c := range found {
		s := types.Section{
			Index:       i,
			Level:       c.h.level,
			Number:      c.h.number,
			Title:       c.h.title,
			StartOffset: c.offset,
			Kind:        c.h.kind,
			Tag:         c.h.tag,
			Parent:      -1,
		}
		for len(open) > 0 && sections[open[len(open)-1]].Level >= s.Level {
			sections[open[len(open)-1]].EndOffset = s.StartOffset
			open = open[:len(open)-1]
		}
		if len(open) > 0 {
			s.Parent = open[len(open)-1]
		}
		sections = append(sections, s)
		open = append(open, i)
	}
	for _, idx := range open {
		sections[idx].EndOffset = textLen
	}
	return sections
}

// parseTOCLine parses one line of a contents block.
func parseTOCLine(line string) (types.TOCEntry, bool) {
	m := tocEntryRe.FindStringSubmatch(line)
	if m == nil {
		m = tocBarePageRe.FindStringSubmatch(line)
	}
	if m == nil {
		return types.TOCEntry{}, false
	}
	title := strings.TrimRight(m[1], " .…·_")
	page := m[2]

	if h, ok := parseHeading(title); ok {
		return types.TOCEntry{Level: h.level, Number: h.number, Title: h.title, Page: page}, true
	}
	if !plausibleTitle(title) {
		return types.TOCEntry{}, false
	}
	return types.TOCEntry{Level: 1, Title: title, Page: page}, true
}

// Body returns the text of section i without its heading line.
func (o Outline) Body(text string, i int) string {
	if i < 0 || i >= len(o.Sections) {
		return ""
	}
	s := o.Sections[i]
	if s.StartOffset < 0 || s.EndOffset > len(text) || s.StartOffset >= s.EndOffset {
		return ""
	}
	span := text[s.StartOffset:s.EndOffset]
	if s.Tag == types.TagDocument {
		return span
	}
	if nl := strings.IndexByte(span, '\n'); nl >= 0 {
		return span[nl+1:]
	}
	return ""
}

// Find returns the first section carrying tag.
func (o Outline) Find(tag string) (types.Section, bool) {
	for _, s := range o.Sections {
		if s.Tag == tag {
			return s, true
		}
	}
	return types.Section{}, false
}

// TableOfContents returns the parsed contents block, or entries derived
// from the first two heading levels when the document has none.
func (o Outline) TableOfContents() []types.TOCEntry {
	if len(o.TOC) > 0 {
		return o.TOC
	}
	entries := []types.TOCEntry{}
	for _, s := range o.Sections {
		if s.Tag == types.TagDocument || s.Tag == types.TagTOC || s.Level > 2 {
			continue
		}
		entries = append(entries, types.TOCEntry{Level: s.Level, Number: s.Number, Title: s.Title})
	}
	return entries
}
