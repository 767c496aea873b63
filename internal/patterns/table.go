// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package patterns extracts bibliographic fields from thesis text with a
// versioned table of regular expressions. Extraction is deterministic, makes
// no network calls, and runs in time linear in the input.
package patterns

import (
	"regexp"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

// TableVersion identifies the pattern set. Bump it whenever a pattern
// changes so cached records can be traced to the rules that produced them.
const TableVersion = "2.3"

// Scope selects the part of the document a rule searches.
type Scope int

const (
	// ScopeCover limits matching to the cover and declaration pages.
	ScopeCover Scope = iota
	// ScopeFull searches the whole text.
	ScopeFull
)

// Pattern is one regular expression for a field. Group is the capture
// group holding the value. A match whose value matches Reject is skipped
// and scanning continues with the next match of the same pattern.
type Pattern struct {
	Expr   *regexp.Regexp
	Group  int
	Reject *regexp.Regexp
}

// Block extracts a multi-line body: the text between a heading line
// matching Start and the next match of End, capped at MaxLen bytes.
type Block struct {
	Start  *regexp.Regexp
	End    *regexp.Regexp
	MaxLen int
}

// Rule binds a field to its ordered patterns or blocks. The first accepted
// match wins.
type Rule struct {
	Field    string
	Scope    Scope
	Patterns []Pattern
	Blocks   []Block
}

// Table is an ordered list of rules.
type Table struct {
	Version string
	Rules   []Rule
}

func p(expr string) Pattern {
	return Pattern{Expr: regexp.MustCompile(expr), Group: 1}
}

func pr(expr, reject string) Pattern {
	return Pattern{Expr: regexp.MustCompile(expr), Group: 1, Reject: regexp.MustCompile(reject)}
}

const (
	dateExpr = `(\d{4}\s*[-/.年]\s*\d{1,2}(?:\s*[-/.月]\s*\d{1,2})?\s*[日号]?)`

	// cnTitleReject filters cover lines that are labels rather than titles.
	cnTitleReject = `学位论文|大学|学院|研究院|声明|授权|摘\s*要|目\s*录|姓\s*名|导\s*师|专\s*业|日\s*期|研究生|作\s*者|学\s*号|编\s*号|分类号|密\s*级|UDC|[:：]`

	enTitleReject = `(?i)thesis|dissertation|university|submitted|degree|abstract|declaration|\bby\b|supervisor|advisor|candidate|college|school|department|master|doctor|bachelor|[:：]`
)

// DefaultTable returns the built-in pattern table. Bilingual fields have
// independent rules so both languages can match.
func DefaultTable() *Table {
	return &Table{
		Version: TableVersion,
		Rules: []Rule{
			{Field: types.FieldThesisNumber, Patterns: []Pattern{
				p(`论文编号\s*[:：]\s*([A-Za-z0-9][A-Za-z0-9\-.]{2,30})`),
				p(`学\s*号\s*[:：]\s*([A-Za-z0-9][A-Za-z0-9\-]{2,30})`),
				p(`分\s*类\s*号\s*[:：]\s*([A-Za-z0-9][A-Za-z0-9\-.]{1,30})`),
				p(`UDC\s*[:：]?\s*([0-9][0-9.\-]{1,30})`),
			}},
			{Field: types.FieldTitleCN, Patterns: []Pattern{
				p(`(?:论文题目|中文题目|题\s*目)\s*[:：]\s*([^\n]{4,80})`),
				pr(`(?m)^[ \t\x{3000}]*(\p{Han}[^\n]{5,60}?)[ \t\x{3000}]*$`, cnTitleReject),
			}},
			{Field: types.FieldTitleEN, Patterns: []Pattern{
				p(`(?:英文题目|Title|TITLE)\s*[:：]\s*([^\n]{6,200})`),
				pr(`(?m)^[ \t]*([A-Z][A-Za-z][A-Za-z0-9,\-' ]{15,200}?)[ \t]*$`, enTitleReject),
			}},
			{Field: types.FieldAuthorCN, Patterns: []Pattern{
				p(`(?:作者姓名|研究生姓名|申请人姓名|研\s*究\s*生|作\s*者|姓\s*名|申\s*请\s*人)\s*[:：]\s*(\p{Han}[\p{Han} ]{1,5})`),
			}},
			{Field: types.FieldAuthorEN, Patterns: []Pattern{
				p(`(?:Candidate|CANDIDATE|Author|AUTHOR|By|BY)\s*[:：]?\s*([A-Z][a-zA-Z]+(?:[ \-][A-Z][a-zA-Z]+){1,2})`),
			}},
			{Field: types.FieldUniversityCN, Patterns: []Pattern{
				p(`(?:学位授予单位|授予学位单位|培养单位)\s*[:：]\s*(\p{Han}{2,20}(?:大学|学院|研究院|研究所))`),
				p(`(\p{Han}{2,12}大学)`),
				p(`(\p{Han}{2,12}(?:科学院|研究院))`),
			}},
			{Field: types.FieldUniversityEN, Patterns: []Pattern{
				p(`((?:[A-Z][a-z]+ ){0,4}University(?: of(?: (?:and|of|for|[A-Z][a-z]+)){1,6})?)`),
				p(`((?:[A-Z][a-z]+ ){1,4}(?:Institute|Academy) of(?: (?:and|of|[A-Z][a-z]+)){1,6})`),
			}},
			{Field: types.FieldDegreeLevel, Patterns: []Pattern{
				p(`(博士|硕士|学士)(?:学位|研究生|专业学位)`),
				p(`\b(Ph\.?\s?D|Doctor|DOCTOR|Master|MASTER|Bachelor|BACHELOR)\b`),
				p(`(博士|硕士|学士)`),
			}},
			{Field: types.FieldMajorCN, Patterns: []Pattern{
				p(`(?:学科专业|专业名称|学科名称|专\s*业|学\s*科)\s*[:：]\s*(\p{Han}[\p{Han}（）()与和及]{1,20})`),
			}},
			{Field: types.FieldCollege, Patterns: []Pattern{
				p(`(?:所在学院|培养学院|学院名称|院\s*系|学\s*院)\s*[:：]\s*(\p{Han}{2,20})`),
				p(`(\p{Han}{2,15}学院)`),
			}},
			{Field: types.FieldSupervisorCN, Patterns: []Pattern{
				p(`(?:指导教师|指导老师|导师姓名|导\s*师)\s*[:：]?\s*([^\d\n\r:：]{2,12})`),
			}},
			{Field: types.FieldSupervisorEN, Patterns: []Pattern{
				p(`(?:Supervisor|SUPERVISOR|Advisor|ADVISOR|Directed by|Under the guidance of)\s*[:：]?\s*((?:Prof\.?|Professor|Dr\.?)?\s*[A-Z][a-zA-Z]+(?:[ \-][A-Z][a-zA-Z]+){0,2})`),
			}},
			{Field: types.FieldDefenseDate, Patterns: []Pattern{
				p(`(?:论文答辩日期|答辩日期|Defen[cs]e [Dd]ate|Date of [Dd]efen[cs]e)\s*[:：]?\s*` + dateExpr),
			}},
			{Field: types.FieldSubmissionDate, Patterns: []Pattern{
				p(`(?:论文提交日期|提交日期|Submission [Dd]ate|Date of [Ss]ubmission)\s*[:：]?\s*` + dateExpr),
			}},
			{Field: types.FieldAbstractCN, Scope: ScopeFull, Blocks: []Block{{
				Start:  regexp.MustCompile(`(?m)^[ \t\x{3000}#]*(?:中文摘要|摘[ \t\x{3000}]*要)[ \t\x{3000}]*[:：]?`),
				End:    regexp.MustCompile(`(?m)^[ \t\x{3000}]*(?:关键词|关键字|【关键词】|ABSTRACT|Abstract)|关\s*键\s*[词字]\s*[:：]`),
				MaxLen: 12000,
			}}},
			{Field: types.FieldAbstractEN, Scope: ScopeFull, Blocks: []Block{{
				Start:  regexp.MustCompile(`(?m)^[ \t#]*(?:ABSTRACT|Abstract)[ \t]*[:：]?`),
				End:    regexp.MustCompile(`(?mi)^[ \t]*(?:key\s*words?|index terms)|key\s*words?\s*[:：]`),
				MaxLen: 16000,
			}}},
			{Field: types.FieldKeywordsCN, Scope: ScopeFull, Patterns: []Pattern{
				p(`(?:关\s*键\s*[词字]|【关键词】)\s*[:：]?\s*([^\n]{2,200})`),
			}},
			{Field: types.FieldKeywordsEN, Scope: ScopeFull, Patterns: []Pattern{
				p(`(?i)(?:key\s*words?|index terms)\s*[:：]\s*([^\n]{2,300})`),
			}},
		},
	}
}

// Fields returns the fields the table covers, in rule order.
func (t *Table) Fields() []string {
	fields := make([]string, 0, len(t.Rules))
	for _, r := range t.Rules {
		fields = append(fields, r.Field)
	}
	return fields
}
