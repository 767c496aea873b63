// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package patterns

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// refStartRe matches the start of a numbered bibliography entry:
	// [1] ..., 1. ..., (1) ..., including full-width brackets.
	refStartRe = regexp.MustCompile(`^\s*(?:[\[［【]\s*(\d{1,4})\s*[\]］】]|(\d{1,4})\s*[.、．]|[(（]\s*(\d{1,4})\s*[)）])\s*(.+)$`)

	// refHeadingRe matches the heading that opens the references section.
	refHeadingRe = regexp.MustCompile(`^\s*#*\s*(?:参\s*考\s*文\s*献|References|REFERENCES|Bibliography|BIBLIOGRAPHY)\s*$`)

	// refTypeRe matches GB/T 7714 document type codes such as [J] or [M].
	refTypeRe = regexp.MustCompile(`\[(?:J|M|C|D|P|S|N|R|EB/OL|Z|A|G)\]`)

	// yearRe matches a plausible publication year.
	yearRe = regexp.MustCompile(`(?:19|20)\d{2}`)
)

// maxReferenceRunes caps a single entry so a missing entry break cannot
// swallow the rest of the document.
const maxReferenceRunes = 800

// ParseReferences splits the text of a references section into entries.
// Entries start with a number marker; unnumbered lines continue the
// previous entry. Lines before the first marker are ignored, and entries
// that look like prose rather than citations are dropped.
func ParseReferences(section string) []string {
	var entries []string
	var current strings.Builder
	open := false

	flush := func() {
		if !open {
			return
		}
		entry := strings.TrimSpace(spaceRunRe.ReplaceAllString(current.String(), " "))
		if isCitation(entry) {
			entries = append(entries, entry)
		}
		current.Reset()
		open = false
	}

	for _, line := range strings.Split(section, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || refHeadingRe.MatchString(trimmed) {
			continue
		}
		if refStartRe.MatchString(trimmed) {
			flush()
			current.WriteString(trimmed)
			open = true
			continue
		}
		if open && utf8.RuneCountInString(current.String()) < maxReferenceRunes {
			if needsSpace(current.String(), trimmed) {
				current.WriteByte(' ')
			}
			current.WriteString(trimmed)
		}
	}
	flush()

	return entries
}

// isCitation reports whether entry carries a document type code or a year,
// the minimum a bibliography entry has.
func isCitation(entry string) bool {
	m := refStartRe.FindStringSubmatch(entry)
	if m == nil {
		return false
	}
	body := m[4]
	if utf8.RuneCountInString(body) < 8 {
		return false
	}
	return refTypeRe.MatchString(body) || yearRe.MatchString(body)
}
