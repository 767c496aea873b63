// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyzer

import (
	"fmt"
	"sort"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/patterns"
	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

// maxCoverConfidence caps AI-supplied cover fields below pattern matches.
const maxCoverConfidence = 0.7

// sectionAnswer is the part of every per-section answer shared by all
// section kinds.
type sectionAnswer struct {
	Summary        string   `json:"summary"`
	KeyPoints      []string `json:"key_points"`
	Strengths      []string `json:"strengths"`
	Suggestions    []string `json:"improvement_suggestions"`
	ContentQuality int      `json:"content_quality"`
	Structure      int      `json:"structure"`
	AcademicValue  int      `json:"academic_value"`
	Language       int      `json:"language"`
}

func (s sectionAnswer) scored() bool {
	return s.ContentQuality > 0 || s.Structure > 0 || s.AcademicValue > 0 || s.Language > 0 ||
		len(s.Strengths) > 0 || len(s.Suggestions) > 0
}

// Merge folds task results into r in task index order and records flags
// for the fields it fills. Failed tasks leave their fields untouched and
// unmatched; each failure is returned as a warning.
func Merge(r *types.Record, flags types.FieldFlags, results []TaskResult) []string {
	ordered := append([]TaskResult(nil), results...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Task.Index < ordered[j].Task.Index })

	var warnings []string
	for _, res := range ordered {
		t := res.Task
		if res.Err != nil || !res.Outcome.OK() {
			err := res.Err
			if err == nil {
				err = ErrUnparseable
			}
			warnings = append(warnings, fmt.Sprintf("%s task %q failed: %v", t.Kind, t.Heading(), err))
			continue
		}
		if err := mergeOne(r, flags, res); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s task %q: %v", t.Kind, t.Heading(), err))
		}
	}
	return warnings
}

func mergeOne(r *types.Record, flags types.FieldFlags, res TaskResult) error {
	t, o := res.Task, res.Outcome
	conf := o.Confidence

	if t.Mode == ModeSection {
		var ans sectionAnswer
		if err := o.Decode(&ans); err != nil {
			return err
		}
		if t.Kind != KindSectionReview && (ans.Summary != "" || len(ans.KeyPoints) > 0) {
			r.ChapterSummaries = append(r.ChapterSummaries, types.ChapterSummary{
				SectionIndex: t.Section,
				Number:       t.Number,
				Title:        t.Title,
				ChapterType:  t.ChapterType,
				Summary:      ans.Summary,
				KeyPoints:    ans.KeyPoints,
				Confidence:   conf,
			})
			flags.Set(types.FieldChapterSummaries, types.SourceAI, conf)
		}
		if ans.scored() {
			r.SectionAnalysis = append(r.SectionAnalysis, types.SectionAnalysis{
				SectionIndex:   t.Section,
				Title:          t.Title,
				ContentQuality: ans.ContentQuality,
				Structure:      ans.Structure,
				AcademicValue:  ans.AcademicValue,
				Language:       ans.Language,
				Strengths:      ans.Strengths,
				Suggestions:    ans.Suggestions,
				Summary:        ans.Summary,
			})
			flags.Set(types.FieldSectionAnalysis, types.SourceAI, conf)
		}
		if len(ans.Suggestions) > 0 {
			r.AIInsights = appendUnique(r.AIInsights, ans.Suggestions...)
			flags.Set(types.FieldAIInsights, types.SourceAI, conf)
		}
	}

	switch t.Kind {
	case KindMethodology:
		var m types.MethodologyAnalysis
		if err := o.Decode(&m); err != nil {
			return err
		}
		dst := &r.MethodologyAnalysis
		dst.ResearchParadigm = firstNonEmpty(dst.ResearchParadigm, m.ResearchParadigm)
		dst.ResearchDesign = firstNonEmpty(dst.ResearchDesign, m.ResearchDesign)
		dst.TechnicalMethods = appendUnique(dst.TechnicalMethods, m.TechnicalMethods...)
		dst.DataMethods = appendUnique(dst.DataMethods, m.DataMethods...)
		dst.QualityAssurance = appendUnique(dst.QualityAssurance, m.QualityAssurance...)
		dst.Innovations = appendUnique(dst.Innovations, m.Innovations...)
		dst.Limitations = appendUnique(dst.Limitations, m.Limitations...)
		setIfFilled(r, flags, types.FieldMethodology, conf)

	case KindConclusion:
		var c types.ConclusionAnalysis
		if err := o.Decode(&c); err != nil {
			return err
		}
		dst := &r.ConclusionAnalysis
		dst.MainFindings = appendUnique(dst.MainFindings, c.MainFindings...)
		dst.Contributions = appendUnique(dst.Contributions, c.Contributions...)
		dst.Limitations = appendUnique(dst.Limitations, c.Limitations...)
		dst.FutureWork = appendUnique(dst.FutureWork, c.FutureWork...)
		setIfFilled(r, flags, types.FieldConclusion, conf)

	case KindLiteratureReview:
		var l types.LiteratureReview
		if err := o.Decode(&l); err != nil {
			return err
		}
		dst := &r.LiteratureReviewAnalysis
		dst.ResearchStreams = appendUnique(dst.ResearchStreams, l.ResearchStreams...)
		dst.ResearchGaps = appendUnique(dst.ResearchGaps, l.ResearchGaps...)
		dst.Coverage = firstNonEmpty(dst.Coverage, l.Coverage)
		setIfFilled(r, flags, types.FieldLiteratureReview, conf)

	case KindStructureEvaluation:
		if r.StructureEvaluation.IsEmpty() {
			if err := o.Decode(&r.StructureEvaluation); err != nil {
				return err
			}
			setIfFilled(r, flags, types.FieldStructureEvaluation, conf)
		}

	case KindContentQuality:
		if r.ContentQuality.IsEmpty() {
			if err := o.Decode(&r.ContentQuality); err != nil {
				return err
			}
			setIfFilled(r, flags, types.FieldContentQuality, conf)
		}

	case KindTheoreticalFramework:
		if r.TheoreticalFramework.IsEmpty() {
			if err := o.Decode(&r.TheoreticalFramework); err != nil {
				return err
			}
			setIfFilled(r, flags, types.FieldTheoreticalFramework, conf)
		}

	case KindAuthorContributions:
		if r.AuthorContributions.IsEmpty() {
			if err := o.Decode(&r.AuthorContributions); err != nil {
				return err
			}
			setIfFilled(r, flags, types.FieldAuthorContributions, conf)
		}

	case KindCoverMetadata:
		for _, f := range t.Fields {
			if r.IsFilled(f) {
				continue
			}
			raw, _ := o.Data[f].(string)
			v := patterns.Clean(f, raw)
			if v == "" {
				continue
			}
			r.SetStringField(f, v)
			flags.Set(f, types.SourceAI, min(conf, maxCoverConfidence))
		}
	}
	return nil
}

func setIfFilled(r *types.Record, flags types.FieldFlags, field string, conf float64) {
	if r.IsFilled(field) {
		flags.Set(field, types.SourceAI, conf)
	}
}

// appendUnique appends the non-empty items of src that dst lacks.
func appendUnique(dst []string, src ...string) []string {
	seen := make(map[string]bool, len(dst))
	for _, s := range dst {
		seen[s] = true
	}
	for _, s := range src {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		dst = append(dst, s)
	}
	return dst
}
