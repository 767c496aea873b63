// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package respparse

import (
	"fmt"
	"math"
	"strings"
)

// coerce rewrites schema fields in place to the types the schema declares
// so Decode into a typed struct succeeds: strings for Keys, string lists
// for ListKeys, integers in [0,10] for ScoreKeys. Unknown keys are left alone.
func coerce(data map[string]any, schema Schema) {
	for _, k := range schema.Keys {
		v, ok := data[k]
		if !ok {
			continue
		}
		data[k] = toText(v)
	}
	for _, k := range schema.ListKeys {
		v, ok := data[k]
		if !ok {
			continue
		}
		data[k] = toList(v)
	}
	for _, k := range schema.ScoreKeys {
		v, ok := data[k]
		if !ok {
			continue
		}
		data[k] = toScore(v)
	}
}

func toText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []any:
		return strings.Join(toList(t), "; ")
	case []string:
		return strings.Join(t, "; ")
	case float64:
		return trimFloat(t)
	default:
		return fmt.Sprint(t)
	}
}

func toList(v any) []string {
	items := []string{}
	switch t := v.(type) {
	case nil:
	case string:
		items = append(items, splitItems(t)...)
	case []string:
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				items = append(items, s)
			}
		}
	case []any:
		for _, e := range t {
			if s := toText(e); s != "" {
				items = append(items, s)
			}
		}
	default:
		if s := toText(t); s != "" {
			items = append(items, s)
		}
	}
	return items
}

func toScore(v any) int {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case string:
		if m := scoreRe.FindStringSubmatch(t); m != nil {
			f = parseFloat(m[1])
		} else if m := numberRe.FindStringSubmatch(t); m != nil && m[2] == "" {
			f = parseFloat(m[1])
		}
	}
	n := int(math.Round(f))
	if n < 0 {
		return 0
	}
	if n > 10 {
		return 10
	}
	return n
}

func trimFloat(f float64) string {
	if f == math.Trunc(f) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
