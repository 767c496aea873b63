// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SectionKind classifies a detected section.
type SectionKind string

const (
	KindChapter    SectionKind = "chapter"
	KindSubsection SectionKind = "subsection"
	KindSpecial    SectionKind = "special"
)

// Tags for special (unnumbered) sections.
const (
	TagAbstract        = "abstract"
	TagAbstractEN      = "abstract_en"
	TagTOC             = "toc"
	TagReferences      = "references"
	TagAcknowledgement = "acknowledgement"
	TagConclusion      = "conclusion"
	TagAppendix        = "appendix"
	TagPublications    = "publications"
	TagDocument        = "document"
)

// Section is a contiguous span of the document text under one heading.
// Offsets are byte offsets into the text the outline was built from;
// StartOffset is the heading line, EndOffset is exclusive.
type Section struct {
	Index       int         `json:"index" yaml:"index"`
	Level       int         `json:"level" yaml:"level"`
	Number      string      `json:"number" yaml:"number"`
	Title       string      `json:"title" yaml:"title"`
	StartOffset int         `json:"start_offset" yaml:"start_offset"`
	EndOffset   int         `json:"end_offset" yaml:"end_offset"`
	Kind        SectionKind `json:"kind" yaml:"kind"`
	Tag         string      `json:"tag,omitempty" yaml:"tag,omitempty"`
	Parent      int         `json:"parent" yaml:"parent"`
}

// Len returns the byte length of the section span.
func (s Section) Len() int {
	return s.EndOffset - s.StartOffset
}

// Heading returns the number and title joined for display.
func (s Section) Heading() string {
	if s.Number == "" {
		return s.Title
	}
	return s.Number + " " + s.Title
}

// Discipline is the inferred academic field of a thesis.
type Discipline string

// Disciplines in declaration order. Classification ties resolve to the
// earlier entry.
const (
	DisciplineEngineering     Discipline = "engineering"
	DisciplineNaturalSciences Discipline = "natural_sciences"
	DisciplineMedicine        Discipline = "medicine"
	DisciplineSocialSciences  Discipline = "social_sciences"
	DisciplineHumanities      Discipline = "humanities"
	DisciplineComputerScience Discipline = "computer_science"
	DisciplineAgriculture     Discipline = "agriculture"
	DisciplineGeneral         Discipline = "general"
)
