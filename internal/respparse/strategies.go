// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package respparse

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// fenceRe matches a fenced code block, optionally tagged json.
	fenceRe = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)```")

	// trailingCommaRe matches a comma directly before a closing bracket.
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

	smartQuotes = strings.NewReplacer(
		"“", `"`, "”", `"`, "„", `"`, "«", `"`, "»", `"`,
		"‘", "'", "’", "'",
	)
)

// parseStrict decodes raw as a JSON object with no repair.
func parseStrict(raw string, _ Schema) (map[string]any, bool) {
	return decodeObject(strings.TrimSpace(raw))
}

// parseCleaned applies progressively more invasive repairs and retries the
// decode after each one. Repairs that rewrite value text (quote folding,
// width folding) run last so earlier successes keep the original wording.
func parseCleaned(raw string, _ Schema) (map[string]any, bool) {
	s := stripFences(raw)
	repairs := []func(string) string{
		func(s string) string { return s },
		outermostObject,
		dropControlChars,
		func(s string) string { return trailingCommaRe.ReplaceAllString(s, "$1") },
		smartQuotes.Replace,
		norm.NFKC.String,
	}
	for _, repair := range repairs {
		s = repair(s)
		if data, ok := decodeObject(s); ok {
			return data, true
		}
	}
	return nil, false
}

func decodeObject(s string) (map[string]any, bool) {
	if !strings.HasPrefix(s, "{") {
		return nil, false
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(s), &data); err != nil {
		return nil, false
	}
	return data, data != nil
}

// stripFences returns the body of the first fenced block, or raw trimmed.
func stripFences(raw string) string {
	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(raw)
}

// outermostObject cuts s to the span from the first '{' to the last '}'.
func outermostObject(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}

// dropControlChars replaces control characters with spaces. Raw newlines
// inside JSON strings are invalid; outside strings they are whitespace.
func dropControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return ' '
		}
		return r
	}, s)
}

var (
	bulletRe      = regexp.MustCompile(`^\s*(?:[-*•·]|\d+[.、)）]|[（(]\d+[)）])\s*(.+)$`)
	scoreRe       = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:分|/\s*10|points?)`)
	numberRe      = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)([eE][+-]?\d+)?`)
	jsonStrItemRe = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)
	enumPrefixRe  = regexp.MustCompile(`^(?:\d+[.、)]|[（(]\d+[)）])\s*`)
)

// parseHeuristic scans prose or broken JSON for each schema key, by its
// quoted JSON name first and by its labels second.
func parseHeuristic(raw string, schema Schema) (map[string]any, bool) {
	text := stripFences(raw)
	lines := strings.Split(text, "\n")
	data := make(map[string]any)

	for _, key := range schema.Keys {
		if v, ok := quotedString(text, key); ok {
			data[key] = v
		} else if v, ok := labeledValue(lines, schema.labelsFor(key)); ok && v != "" {
			data[key] = v
		}
	}

	for _, key := range schema.ListKeys {
		if items, ok := quotedList(text, key); ok {
			data[key] = items
		} else if items := labeledList(lines, schema.labelsFor(key), schema); len(items) > 0 {
			data[key] = items
		}
	}

	for _, key := range schema.ScoreKeys {
		if v, ok := quotedNumber(text, key); ok {
			data[key] = v
			continue
		}
		if v, ok := labeledValue(lines, schema.labelsFor(key)); ok {
			if m := scoreRe.FindStringSubmatch(v); m != nil {
				data[key] = parseFloat(m[1])
			} else if m := numberRe.FindStringSubmatch(v); m != nil && m[2] == "" {
				data[key] = parseFloat(m[1])
			}
		}
	}

	return data, len(data) > 0
}

func (s Schema) labelsFor(key string) []string {
	labels := []string{key}
	return append(labels, s.Labels[key]...)
}

func quotedString(text, key string) (string, bool) {
	re, err := regexp.Compile(`"` + regexp.QuoteMeta(key) + `"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	if err != nil {
		return "", false
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return unquote(m[1]), true
}

func quotedNumber(text, key string) (float64, bool) {
	re, err := regexp.Compile(`"` + regexp.QuoteMeta(key) + `"\s*:\s*"?(\d+(?:\.\d+)?)([eE][+-]?\d+)?`)
	if err != nil {
		return 0, false
	}
	// Exponent forms are never scores.
	m := re.FindStringSubmatch(text)
	if m == nil || m[2] != "" {
		return 0, false
	}
	return parseFloat(m[1]), true
}

func quotedList(text, key string) ([]string, bool) {
	re, err := regexp.Compile(`(?s)"` + regexp.QuoteMeta(key) + `"\s*:\s*\[(.*?)\]`)
	if err != nil {
		return nil, false
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	var items []string
	for _, im := range jsonStrItemRe.FindAllStringSubmatch(m[1], -1) {
		if v := strings.TrimSpace(unquote(im[1])); v != "" {
			items = append(items, v)
		}
	}
	return items, len(items) > 0
}

func unquote(s string) string {
	if v, err := strconv.Unquote(`"` + s + `"`); err == nil {
		return v
	}
	return s
}

// labelLine reports whether line starts with one of labels followed by a
// colon, returning the text after the colon.
func labelLine(line string, labels []string) (string, bool) {
	t := norm.NFKC.String(strings.TrimSpace(line))
	t = strings.TrimLeft(t, "#*-•· ")
	t = enumPrefixRe.ReplaceAllString(t, "")
	t = strings.TrimLeft(t, "* ")
	for _, label := range labels {
		l := norm.NFKC.String(label)
		if len(t) < len(l) || !strings.EqualFold(t[:len(l)], l) {
			continue
		}
		rest := strings.TrimLeft(t[len(l):], "* ")
		if strings.HasPrefix(rest, ":") {
			return strings.TrimSpace(strings.Trim(rest[1:], "* ")), true
		}
	}
	return "", false
}

func labeledValue(lines []string, labels []string) (string, bool) {
	for _, line := range lines {
		if v, ok := labelLine(line, labels); ok {
			return v, true
		}
	}
	return "", false
}

// labeledList collects the items under a label: an inline value split on
// semicolons, or the bullet lines that follow until a blank line or the
// next known label.
func labeledList(lines []string, labels []string, schema Schema) []string {
	others := allLabels(schema)
	for i, line := range lines {
		v, ok := labelLine(line, labels)
		if !ok {
			continue
		}
		if v != "" {
			return splitItems(v)
		}
		var items []string
		for _, next := range lines[i+1:] {
			if strings.TrimSpace(next) == "" {
				if len(items) > 0 {
					break
				}
				continue
			}
			if _, isLabel := labelLine(next, others); isLabel {
				break
			}
			if m := bulletRe.FindStringSubmatch(next); m != nil {
				items = append(items, strings.TrimSpace(m[1]))
				continue
			}
			break
		}
		return items
	}
	return nil
}

func allLabels(schema Schema) []string {
	var labels []string
	for _, key := range schema.AllKeys() {
		labels = append(labels, schema.labelsFor(key)...)
	}
	return labels
}

// splitItems splits an inline list on semicolons and enumeration commas.
func splitItems(v string) []string {
	parts := strings.FieldsFunc(v, func(r rune) bool {
		return r == ';' || r == '；' || r == '、'
	})
	var items []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
