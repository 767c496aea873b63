// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for thesis extraction:
// the extracted record, document sections, cache entries, and configuration.
package types

// Record is the structured result of one extraction run over a thesis.
// Every declared field is always serialized; an empty value means unknown.
// Call Normalize before serializing so lists encode as [] rather than null.
type Record struct {
	ThesisNumber   string `json:"thesis_number" yaml:"thesis_number"`
	TitleCN        string `json:"title_cn" yaml:"title_cn"`
	TitleEN        string `json:"title_en" yaml:"title_en"`
	AuthorCN       string `json:"author_cn" yaml:"author_cn"`
	AuthorEN       string `json:"author_en" yaml:"author_en"`
	UniversityCN   string `json:"university_cn" yaml:"university_cn"`
	UniversityEN   string `json:"university_en" yaml:"university_en"`
	DegreeLevel    string `json:"degree_level" yaml:"degree_level"`
	MajorCN        string `json:"major_cn" yaml:"major_cn"`
	College        string `json:"college" yaml:"college"`
	SupervisorCN   string `json:"supervisor_cn" yaml:"supervisor_cn"`
	SupervisorEN   string `json:"supervisor_en" yaml:"supervisor_en"`
	DefenseDate    string `json:"defense_date" yaml:"defense_date"`
	SubmissionDate string `json:"submission_date" yaml:"submission_date"`

	AbstractCN      string `json:"abstract_cn" yaml:"abstract_cn"`
	AbstractEN      string `json:"abstract_en" yaml:"abstract_en"`
	KeywordsCN      string `json:"keywords_cn" yaml:"keywords_cn"`
	KeywordsEN      string `json:"keywords_en" yaml:"keywords_en"`
	Acknowledgement string `json:"acknowledgement" yaml:"acknowledgement"`

	References       []string          `json:"references" yaml:"references"`
	TableOfContents  []TOCEntry        `json:"table_of_contents" yaml:"table_of_contents"`
	ChapterSummaries []ChapterSummary  `json:"chapter_summaries" yaml:"chapter_summaries"`
	SectionAnalysis  []SectionAnalysis `json:"section_analysis" yaml:"section_analysis"`
	AIInsights       []string          `json:"ai_insights" yaml:"ai_insights"`

	TheoreticalFramework     TheoreticalFramework `json:"theoretical_framework" yaml:"theoretical_framework"`
	AuthorContributions      AuthorContributions  `json:"author_contributions" yaml:"author_contributions"`
	MethodologyAnalysis      MethodologyAnalysis  `json:"methodology_analysis" yaml:"methodology_analysis"`
	ConclusionAnalysis       ConclusionAnalysis   `json:"conclusion_analysis" yaml:"conclusion_analysis"`
	LiteratureReviewAnalysis LiteratureReview     `json:"literature_review_analysis" yaml:"literature_review_analysis"`
	StructureEvaluation      StructureEvaluation  `json:"structure_evaluation" yaml:"structure_evaluation"`
	ContentQuality           ContentQuality       `json:"content_quality" yaml:"content_quality"`
}

// Field names in declaration order. Scoring and reporting iterate this list
// so results never depend on map order.
const (
	FieldThesisNumber   = "thesis_number"
	FieldTitleCN        = "title_cn"
	FieldTitleEN        = "title_en"
	FieldAuthorCN       = "author_cn"
	FieldAuthorEN       = "author_en"
	FieldUniversityCN   = "university_cn"
	FieldUniversityEN   = "university_en"
	FieldDegreeLevel    = "degree_level"
	FieldMajorCN        = "major_cn"
	FieldCollege        = "college"
	FieldSupervisorCN   = "supervisor_cn"
	FieldSupervisorEN   = "supervisor_en"
	FieldDefenseDate    = "defense_date"
	FieldSubmissionDate = "submission_date"

	FieldAbstractCN      = "abstract_cn"
	FieldAbstractEN      = "abstract_en"
	FieldKeywordsCN      = "keywords_cn"
	FieldKeywordsEN      = "keywords_en"
	FieldAcknowledgement = "acknowledgement"

	FieldReferences       = "references"
	FieldTableOfContents  = "table_of_contents"
	FieldChapterSummaries = "chapter_summaries"
	FieldSectionAnalysis  = "section_analysis"
	FieldAIInsights       = "ai_insights"

	FieldTheoreticalFramework = "theoretical_framework"
	FieldAuthorContributions  = "author_contributions"
	FieldMethodology          = "methodology_analysis"
	FieldConclusion           = "conclusion_analysis"
	FieldLiteratureReview     = "literature_review_analysis"
	FieldStructureEvaluation  = "structure_evaluation"
	FieldContentQuality       = "content_quality"
)

// CoverFields are the bibliographic fields normally printed on the cover
// and declaration pages.
var CoverFields = []string{
	FieldThesisNumber, FieldTitleCN, FieldTitleEN, FieldAuthorCN, FieldAuthorEN,
	FieldUniversityCN, FieldUniversityEN, FieldDegreeLevel, FieldMajorCN, FieldCollege,
	FieldSupervisorCN, FieldSupervisorEN, FieldDefenseDate, FieldSubmissionDate,
}

// ContentFields are the free-text fields taken from the abstract and back matter.
var ContentFields = []string{
	FieldAbstractCN, FieldAbstractEN, FieldKeywordsCN, FieldKeywordsEN, FieldAcknowledgement,
}

// ListFields are the list-valued fields.
var ListFields = []string{
	FieldReferences, FieldTableOfContents, FieldChapterSummaries, FieldSectionAnalysis, FieldAIInsights,
}

// AnalysisFields are the structured fields filled by AI analysis.
var AnalysisFields = []string{
	FieldTheoreticalFramework, FieldAuthorContributions, FieldMethodology,
	FieldConclusion, FieldLiteratureReview, FieldStructureEvaluation, FieldContentQuality,
}

// FieldNames returns every declared field in declaration order.
func FieldNames() []string {
	names := make([]string, 0, len(CoverFields)+len(ContentFields)+len(ListFields)+len(AnalysisFields))
	names = append(names, CoverFields...)
	names = append(names, ContentFields...)
	names = append(names, ListFields...)
	names = append(names, AnalysisFields...)
	return names
}

// StringField returns the value of a string-typed field and whether name is one.
func (r *Record) StringField(name string) (string, bool) {
	p := r.stringPtr(name)
	if p == nil {
		return "", false
	}
	return *p, true
}

// SetStringField assigns a string-typed field. It reports false when name
// is not a string field.
func (r *Record) SetStringField(name, value string) bool {
	p := r.stringPtr(name)
	if p == nil {
		return false
	}
	*p = value
	return true
}

func (r *Record) stringPtr(name string) *string {
	switch name {
	case FieldThesisNumber:
		return &r.ThesisNumber
	case FieldTitleCN:
		return &r.TitleCN
	case FieldTitleEN:
		return &r.TitleEN
	case FieldAuthorCN:
		return &r.AuthorCN
	case FieldAuthorEN:
		return &r.AuthorEN
	case FieldUniversityCN:
		return &r.UniversityCN
	case FieldUniversityEN:
		return &r.UniversityEN
	case FieldDegreeLevel:
		return &r.DegreeLevel
	case FieldMajorCN:
		return &r.MajorCN
	case FieldCollege:
		return &r.College
	case FieldSupervisorCN:
		return &r.SupervisorCN
	case FieldSupervisorEN:
		return &r.SupervisorEN
	case FieldDefenseDate:
		return &r.DefenseDate
	case FieldSubmissionDate:
		return &r.SubmissionDate
	case FieldAbstractCN:
		return &r.AbstractCN
	case FieldAbstractEN:
		return &r.AbstractEN
	case FieldKeywordsCN:
		return &r.KeywordsCN
	case FieldKeywordsEN:
		return &r.KeywordsEN
	case FieldAcknowledgement:
		return &r.Acknowledgement
	}
	return nil
}

// IsFilled reports whether the named field holds a non-empty value.
func (r *Record) IsFilled(name string) bool {
	if s, ok := r.StringField(name); ok {
		return s != ""
	}
	switch name {
	case FieldReferences:
		return len(r.References) > 0
	case FieldTableOfContents:
		return len(r.TableOfContents) > 0
	case FieldChapterSummaries:
		return len(r.ChapterSummaries) > 0
	case FieldSectionAnalysis:
		return len(r.SectionAnalysis) > 0
	case FieldAIInsights:
		return len(r.AIInsights) > 0
	case FieldTheoreticalFramework:
		return !r.TheoreticalFramework.IsEmpty()
	case FieldAuthorContributions:
		return !r.AuthorContributions.IsEmpty()
	case FieldMethodology:
		return !r.MethodologyAnalysis.IsEmpty()
	case FieldConclusion:
		return !r.ConclusionAnalysis.IsEmpty()
	case FieldLiteratureReview:
		return !r.LiteratureReviewAnalysis.IsEmpty()
	case FieldStructureEvaluation:
		return !r.StructureEvaluation.IsEmpty()
	case FieldContentQuality:
		return !r.ContentQuality.IsEmpty()
	}
	return false
}

// Normalize replaces nil slices with empty ones throughout the record.
func (r *Record) Normalize() {
	r.References = nonNil(r.References)
	r.AIInsights = nonNil(r.AIInsights)
	if r.TableOfContents == nil {
		r.TableOfContents = []TOCEntry{}
	}
	if r.ChapterSummaries == nil {
		r.ChapterSummaries = []ChapterSummary{}
	}
	for i := range r.ChapterSummaries {
		r.ChapterSummaries[i].KeyPoints = nonNil(r.ChapterSummaries[i].KeyPoints)
	}
	if r.SectionAnalysis == nil {
		r.SectionAnalysis = []SectionAnalysis{}
	}
	for i := range r.SectionAnalysis {
		r.SectionAnalysis[i].Strengths = nonNil(r.SectionAnalysis[i].Strengths)
		r.SectionAnalysis[i].Suggestions = nonNil(r.SectionAnalysis[i].Suggestions)
	}

	tf := &r.TheoreticalFramework
	tf.CoreTheories = nonNil(tf.CoreTheories)
	tf.KeyConcepts = nonNil(tf.KeyConcepts)

	ac := &r.AuthorContributions
	ac.Innovations = nonNil(ac.Innovations)
	ac.TheoreticalContributions = nonNil(ac.TheoreticalContributions)
	ac.PracticalContributions = nonNil(ac.PracticalContributions)

	m := &r.MethodologyAnalysis
	m.TechnicalMethods = nonNil(m.TechnicalMethods)
	m.DataMethods = nonNil(m.DataMethods)
	m.QualityAssurance = nonNil(m.QualityAssurance)
	m.Innovations = nonNil(m.Innovations)
	m.Limitations = nonNil(m.Limitations)

	c := &r.ConclusionAnalysis
	c.MainFindings = nonNil(c.MainFindings)
	c.Contributions = nonNil(c.Contributions)
	c.Limitations = nonNil(c.Limitations)
	c.FutureWork = nonNil(c.FutureWork)

	lr := &r.LiteratureReviewAnalysis
	lr.ResearchStreams = nonNil(lr.ResearchStreams)
	lr.ResearchGaps = nonNil(lr.ResearchGaps)

	se := &r.StructureEvaluation
	se.Strengths = nonNil(se.Strengths)
	se.Issues = nonNil(se.Issues)

	cq := &r.ContentQuality
	cq.Strengths = nonNil(cq.Strengths)
	cq.Weaknesses = nonNil(cq.Weaknesses)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// TOCEntry is one line of the table of contents.
type TOCEntry struct {
	Level  int    `json:"level" yaml:"level"`
	Number string `json:"number" yaml:"number"`
	Title  string `json:"title" yaml:"title"`
	Page   string `json:"page" yaml:"page"`
}

// ChapterSummary is the AI digest of one top-level chapter.
type ChapterSummary struct {
	SectionIndex int      `json:"section_index" yaml:"section_index"`
	Number       string   `json:"number" yaml:"number"`
	Title        string   `json:"title" yaml:"title"`
	ChapterType  string   `json:"chapter_type" yaml:"chapter_type"`
	Summary      string   `json:"summary" yaml:"summary"`
	KeyPoints    []string `json:"key_points" yaml:"key_points"`
	Confidence   float64  `json:"confidence" yaml:"confidence"`
}

// SectionAnalysis scores one analyzed section on a 1-10 scale.
type SectionAnalysis struct {
	SectionIndex   int      `json:"section_index" yaml:"section_index"`
	Title          string   `json:"title" yaml:"title"`
	ContentQuality int      `json:"content_quality" yaml:"content_quality"`
	Structure      int      `json:"structure" yaml:"structure"`
	AcademicValue  int      `json:"academic_value" yaml:"academic_value"`
	Language       int      `json:"language" yaml:"language"`
	Strengths      []string `json:"strengths" yaml:"strengths"`
	Suggestions    []string `json:"improvement_suggestions" yaml:"improvement_suggestions"`
	Summary        string   `json:"summary" yaml:"summary"`
}

// TheoreticalFramework describes the theories the thesis builds on.
type TheoreticalFramework struct {
	CoreTheories []string `json:"core_theories" yaml:"core_theories"`
	KeyConcepts  []string `json:"key_concepts" yaml:"key_concepts"`
	Description  string   `json:"description" yaml:"description"`
}

// IsEmpty reports whether no part of the framework is known.
func (t TheoreticalFramework) IsEmpty() bool {
	return len(t.CoreTheories) == 0 && len(t.KeyConcepts) == 0 && t.Description == ""
}

// AuthorContributions lists what the author claims as new.
type AuthorContributions struct {
	Innovations              []string `json:"innovations" yaml:"innovations"`
	TheoreticalContributions []string `json:"theoretical_contributions" yaml:"theoretical_contributions"`
	PracticalContributions   []string `json:"practical_contributions" yaml:"practical_contributions"`
}

// IsEmpty reports whether no contribution is known.
func (a AuthorContributions) IsEmpty() bool {
	return len(a.Innovations) == 0 && len(a.TheoreticalContributions) == 0 && len(a.PracticalContributions) == 0
}

// MethodologyAnalysis describes the research methods of the thesis.
type MethodologyAnalysis struct {
	ResearchParadigm string   `json:"research_paradigm" yaml:"research_paradigm"`
	ResearchDesign   string   `json:"research_design" yaml:"research_design"`
	TechnicalMethods []string `json:"technical_methods" yaml:"technical_methods"`
	DataMethods      []string `json:"data_methodology" yaml:"data_methodology"`
	QualityAssurance []string `json:"quality_assurance" yaml:"quality_assurance"`
	Innovations      []string `json:"methodological_innovations" yaml:"methodological_innovations"`
	Limitations      []string `json:"limitations_and_considerations" yaml:"limitations_and_considerations"`
}

// IsEmpty reports whether nothing about the methodology is known.
func (m MethodologyAnalysis) IsEmpty() bool {
	return m.ResearchParadigm == "" && m.ResearchDesign == "" && len(m.TechnicalMethods) == 0 &&
		len(m.DataMethods) == 0 && len(m.QualityAssurance) == 0 && len(m.Innovations) == 0 &&
		len(m.Limitations) == 0
}

// ConclusionAnalysis digests the concluding chapter.
type ConclusionAnalysis struct {
	MainFindings  []string `json:"main_findings" yaml:"main_findings"`
	Contributions []string `json:"contributions" yaml:"contributions"`
	Limitations   []string `json:"limitations" yaml:"limitations"`
	FutureWork    []string `json:"future_work" yaml:"future_work"`
}

// IsEmpty reports whether nothing about the conclusion is known.
func (c ConclusionAnalysis) IsEmpty() bool {
	return len(c.MainFindings) == 0 && len(c.Contributions) == 0 && len(c.Limitations) == 0 && len(c.FutureWork) == 0
}

// LiteratureReview digests the literature review chapter.
type LiteratureReview struct {
	ResearchStreams []string `json:"research_streams" yaml:"research_streams"`
	ResearchGaps    []string `json:"research_gaps" yaml:"research_gaps"`
	Coverage        string   `json:"coverage" yaml:"coverage"`
}

// IsEmpty reports whether nothing about the review is known.
func (l LiteratureReview) IsEmpty() bool {
	return len(l.ResearchStreams) == 0 && len(l.ResearchGaps) == 0 && l.Coverage == ""
}

// StructureEvaluation rates the organization of the whole thesis.
type StructureEvaluation struct {
	Score     int      `json:"score" yaml:"score"`
	Strengths []string `json:"strengths" yaml:"strengths"`
	Issues    []string `json:"issues" yaml:"issues"`
	Summary   string   `json:"summary" yaml:"summary"`
}

// IsEmpty reports whether no evaluation is present.
func (s StructureEvaluation) IsEmpty() bool {
	return s.Score == 0 && len(s.Strengths) == 0 && len(s.Issues) == 0 && s.Summary == ""
}

// ContentQuality rates the academic quality of the whole thesis.
type ContentQuality struct {
	Score      int      `json:"score" yaml:"score"`
	Strengths  []string `json:"strengths" yaml:"strengths"`
	Weaknesses []string `json:"weaknesses" yaml:"weaknesses"`
	Summary    string   `json:"summary" yaml:"summary"`
}

// IsEmpty reports whether no assessment is present.
func (c ContentQuality) IsEmpty() bool {
	return c.Score == 0 && len(c.Strengths) == 0 && len(c.Weaknesses) == 0 && c.Summary == ""
}

// Field sources recorded in FieldFlag.Source.
const (
	SourcePattern   = "pattern"
	SourceStructure = "structure"
	SourceAI        = "ai"
	SourceHeuristic = "heuristic"
)

// FieldFlag records how a field was filled and how much to trust it.
type FieldFlag struct {
	Matched    bool    `json:"matched" yaml:"matched"`
	Source     string  `json:"source,omitempty" yaml:"source,omitempty"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// FieldFlags maps field names to their flags. Absent fields are unmatched.
type FieldFlags map[string]FieldFlag

// Set records a filled field, keeping the higher-confidence flag when the
// field was already set.
func (f FieldFlags) Set(field, source string, confidence float64) {
	if prev, ok := f[field]; ok && prev.Matched && prev.Confidence >= confidence {
		return
	}
	f[field] = FieldFlag{Matched: true, Source: source, Confidence: confidence}
}

// Matched reports whether field has a positive flag.
func (f FieldFlags) Matched(field string) bool {
	return f[field].Matched
}
