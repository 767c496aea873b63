// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"strings"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/patterns"
	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/structure"
	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

// Confidences for fields read from the outline.
const (
	confReferences      = 0.8
	confTOCParsed       = 0.9
	confTOCDerived      = 0.6
	confAcknowledgement = 0.7
	confAbstract        = 0.6
)

// abstractEnds cut a section-derived abstract before its keyword line.
var abstractEnds = []string{"关键词", "关键字", "Key words", "Keywords", "KEY WORDS", "KEYWORDS"}

// fillFromStructure fills the fields that come from whole sections:
// references, table of contents, acknowledgement, and abstracts patterns
// did not find.
func fillFromStructure(r *types.Record, flags types.FieldFlags, text string, o structure.Outline) {
	if s, ok := o.Find(types.TagReferences); ok {
		if refs := patterns.ParseReferences(o.Body(text, s.Index)); len(refs) > 0 {
			r.References = refs
			flags.Set(types.FieldReferences, types.SourceStructure, confReferences)
		}
	}

	if toc := o.TableOfContents(); len(toc) > 0 {
		r.TableOfContents = toc
		conf := confTOCDerived
		if len(o.TOC) > 0 {
			conf = confTOCParsed
		}
		flags.Set(types.FieldTableOfContents, types.SourceStructure, conf)
	}

	fill := func(field, tag string, conf float64, cut bool) {
		if r.IsFilled(field) {
			return
		}
		s, ok := o.Find(tag)
		if !ok {
			return
		}
		body := o.Body(text, s.Index)
		if cut {
			body = cutAt(body, abstractEnds)
		}
		if v := patterns.Clean(field, body); v != "" {
			r.SetStringField(field, v)
			flags.Set(field, types.SourceStructure, conf)
		}
	}
	fill(types.FieldAcknowledgement, types.TagAcknowledgement, confAcknowledgement, false)
	fill(types.FieldAbstractCN, types.TagAbstract, confAbstract, true)
	fill(types.FieldAbstractEN, types.TagAbstractEN, confAbstract, true)
}

// cutAt returns s up to the first of markers.
func cutAt(s string, markers []string) string {
	end := len(s)
	for _, m := range markers {
		if i := strings.Index(s, m); i >= 0 && i < end {
			end = i
		}
	}
	return s[:end]
}
