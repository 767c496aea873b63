// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package quality scores a merged extraction record: how many fields are
// filled, how much the filled values can be trusted, and which discipline
// the thesis belongs to. Everything here is pure computation.
package quality

import (
	"math"
	"strings"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

// Field weights for the aggregate confidence.
const (
	weightIdentity = 3.0
	weightContent  = 2.0
	weightAnalysis = 1.0
)

// unflaggedConfidence applies to fields that are filled but carry no flag,
// such as values copied in by a caller.
const unflaggedConfidence = 0.5

// minReferences is the reference count above which a record earns the
// bibliography share of the quality score.
const minReferences = 10

var identityFields = map[string]bool{
	types.FieldTitleCN:      true,
	types.FieldTitleEN:      true,
	types.FieldAuthorCN:     true,
	types.FieldAuthorEN:     true,
	types.FieldThesisNumber: true,
}

// Input is what Score needs. DisciplineHint, when set, is used instead of
// classifying the record text.
type Input struct {
	Record         *types.Record
	Flags          types.FieldFlags
	DisciplineHint types.Discipline
}

// Score computes the statistics for one record. ProcessingTime is left
// for the caller.
func Score(in Input) types.ExtractionStats {
	r := in.Record
	if r == nil {
		r = &types.Record{}
	}
	names := types.FieldNames()

	filled := 0
	var weighted, totalWeight float64
	for _, f := range names {
		w := fieldWeight(f)
		totalWeight += w
		if !r.IsFilled(f) {
			continue
		}
		filled++
		c := unflaggedConfidence
		if flag, ok := in.Flags[f]; ok && flag.Matched {
			c = flag.Confidence
		}
		weighted += w * c
	}

	fill := float64(filled) / float64(len(names))
	quality := 0.6 * fill
	if r.TitleCN != "" || r.TitleEN != "" {
		quality += 0.2
	}
	if len(r.References) > minReferences {
		quality += 0.2
	}

	return types.ExtractionStats{
		TotalFields:  len(names),
		FilledFields: filled,
		FillRatio:    round3(fill),
		Confidence:   round3(weighted / totalWeight),
		QualityScore: round3(quality),
		Discipline:   Discipline(r, in.DisciplineHint),
	}
}

// Discipline returns hint when set, else the discipline classified from
// the record's title, major, keywords, and abstracts.
func Discipline(r *types.Record, hint types.Discipline) types.Discipline {
	if hint != "" {
		return hint
	}
	d, _ := ClassifyDiscipline(disciplineText(r))
	return d
}

func fieldWeight(field string) float64 {
	if identityFields[field] {
		return weightIdentity
	}
	for _, f := range types.CoverFields {
		if f == field {
			return weightContent
		}
	}
	for _, f := range types.ContentFields {
		if f == field {
			return weightContent
		}
	}
	return weightAnalysis
}

// disciplineText is the part of a record that best indicates its field.
func disciplineText(r *types.Record) string {
	return strings.Join([]string{
		r.TitleCN, r.TitleEN, r.MajorCN, r.College,
		r.KeywordsCN, r.KeywordsEN, r.AbstractCN, r.AbstractEN,
	}, "\n")
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
