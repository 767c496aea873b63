// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyzer

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/respparse"
	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

// promptTmpl is shared by every task kind. The instruction and the JSON
// skeleton vary per kind; the skeleton lists the schema keys in order so
// the model's answer lines up with the parser's schema.
var promptTmpl = template.Must(template.New("task").Parse(`你是一名资深的学位论文评审专家。{{.Instruction}}
{{if .Title}}
章节标题：{{.Title}}{{end}}{{if .Discipline}}
学科领域：{{.Discipline}}{{end}}

请只返回一个 JSON 对象，不要输出任何其他文字。格式如下：
{{.Skeleton}}

{{.Label}}：
{{.Content}}
`))

var instructions = map[TaskKind]string{
	KindChapterSummary:       "请概括以下章节的核心内容并列出要点，从内容质量、结构合理性、学术价值、语言表达四个维度评分（1-10分），并给出主要优点和改进建议。",
	KindMethodology:          "请分析以下章节的研究方法，包括研究范式、研究设计、技术方法、数据方法、质量保证、方法创新和局限性；同时概括章节内容并按四个维度评分（1-10分）。",
	KindConclusion:           "请分析以下结论章节，提取主要发现、研究贡献、局限性和未来工作；同时概括章节内容并按四个维度评分（1-10分）。",
	KindLiteratureReview:     "请分析以下文献综述或绪论章节，归纳研究脉络、研究空白和文献覆盖范围；同时概括章节内容并按四个维度评分（1-10分）。",
	KindSectionReview:        "请评价以下摘要的完整性、核心内容概括和研究价值，按内容质量、结构合理性、学术价值、语言表达评分（1-10分），并给出主要优点和改进建议。",
	KindStructureEvaluation:  "请根据以下论文目录评价论文整体结构的完整性和逻辑性，给出1-10分的评分、结构优点、存在的问题和总体评价。",
	KindContentQuality:       "请根据以下论文信息评价论文的整体学术质量，给出1-10分的评分、优点、不足和总体评价。",
	KindTheoreticalFramework: "请从以下内容中归纳论文的理论框架，包括核心理论、关键概念和框架描述。",
	KindAuthorContributions:  "请从以下内容中归纳作者的主要创新点、理论贡献和实践贡献。",
	KindCoverMetadata:        "请从以下论文封面文本中提取书目信息。无法确定的字段请保留空字符串，不要猜测。",
}

// sectionSchema holds the keys every per-section answer carries.
var sectionSchema = respparse.Schema{
	Keys:      []string{"summary"},
	ListKeys:  []string{"key_points", "strengths", "improvement_suggestions"},
	ScoreKeys: []string{"content_quality", "structure", "academic_value", "language"},
}

// extraKeys are the kind-specific keys added to sectionSchema or used alone
// for whole-document tasks.
var extraKeys = map[TaskKind]respparse.Schema{
	KindMethodology: {
		Keys: []string{"research_paradigm", "research_design"},
		ListKeys: []string{"technical_methods", "data_methodology", "quality_assurance",
			"methodological_innovations", "limitations_and_considerations"},
	},
	KindConclusion: {
		ListKeys: []string{"main_findings", "contributions", "limitations", "future_work"},
	},
	KindLiteratureReview: {
		Keys:     []string{"coverage"},
		ListKeys: []string{"research_streams", "research_gaps"},
	},
	KindStructureEvaluation: {
		Keys:      []string{"summary"},
		ListKeys:  []string{"strengths", "issues"},
		ScoreKeys: []string{"score"},
	},
	KindContentQuality: {
		Keys:      []string{"summary"},
		ListKeys:  []string{"strengths", "weaknesses"},
		ScoreKeys: []string{"score"},
	},
	KindTheoreticalFramework: {
		Keys:     []string{"description"},
		ListKeys: []string{"core_theories", "key_concepts"},
	},
	KindAuthorContributions: {
		ListKeys: []string{"innovations", "theoretical_contributions", "practical_contributions"},
	},
}

// labels are the prose labels a model may use instead of a key.
var labels = map[string][]string{
	"summary":                        {"核心内容摘要", "内容摘要", "总体评价", "总结", "Summary"},
	"key_points":                     {"要点", "主要内容", "Key points"},
	"strengths":                      {"主要优点", "优点", "Strengths"},
	"improvement_suggestions":        {"改进建议", "建议", "Suggestions"},
	"content_quality":                {"内容质量", "Content quality"},
	"structure":                      {"结构合理性", "结构", "Structure"},
	"academic_value":                 {"学术价值", "Academic value"},
	"language":                       {"语言表达", "Language"},
	"research_paradigm":              {"研究范式", "Research paradigm"},
	"research_design":                {"研究设计", "Research design"},
	"technical_methods":              {"技术方法", "Technical methods"},
	"data_methodology":               {"数据方法", "Data methods"},
	"quality_assurance":              {"质量保证", "Quality assurance"},
	"methodological_innovations":     {"方法创新", "Methodological innovations"},
	"limitations_and_considerations": {"局限性", "Limitations"},
	"main_findings":                  {"主要发现", "Main findings"},
	"contributions":                  {"研究贡献", "贡献", "Contributions"},
	"limitations":                    {"局限性", "不足之处", "Limitations"},
	"future_work":                    {"未来工作", "展望", "Future work"},
	"research_streams":               {"研究脉络", "研究方向", "Research streams"},
	"research_gaps":                  {"研究空白", "Research gaps"},
	"coverage":                       {"覆盖范围", "文献覆盖", "Coverage"},
	"score":                          {"评分", "总分", "Score"},
	"issues":                         {"存在的问题", "问题", "Issues"},
	"weaknesses":                     {"不足", "缺点", "Weaknesses"},
	"description":                    {"框架描述", "描述", "Description"},
	"core_theories":                  {"核心理论", "Core theories"},
	"key_concepts":                   {"关键概念", "Key concepts"},
	"innovations":                    {"创新点", "主要创新", "Innovations"},
	"theoretical_contributions":      {"理论贡献", "Theoretical contributions"},
	"practical_contributions":        {"实践贡献", "应用价值", "Practical contributions"},

	types.FieldThesisNumber:   {"学号", "论文编号"},
	types.FieldTitleCN:        {"中文题目", "论文题目"},
	types.FieldTitleEN:        {"英文题目", "English title"},
	types.FieldAuthorCN:       {"作者", "作者姓名"},
	types.FieldAuthorEN:       {"英文姓名", "Author"},
	types.FieldUniversityCN:   {"学校", "培养单位"},
	types.FieldUniversityEN:   {"University"},
	types.FieldDegreeLevel:    {"学位", "申请学位"},
	types.FieldMajorCN:        {"专业", "学科专业"},
	types.FieldCollege:        {"学院", "所在学院"},
	types.FieldSupervisorCN:   {"导师", "指导教师"},
	types.FieldSupervisorEN:   {"Supervisor"},
	types.FieldDefenseDate:    {"答辩日期"},
	types.FieldSubmissionDate: {"提交日期"},
}

// schemaFor returns the response schema for t.
func schemaFor(t Task) respparse.Schema {
	var s respparse.Schema
	switch {
	case t.Kind == KindCoverMetadata:
		s.Keys = append([]string(nil), t.Fields...)
	case t.Mode == ModeSection:
		extra := extraKeys[t.Kind]
		s.Keys = append(append([]string(nil), sectionSchema.Keys...), extra.Keys...)
		s.ListKeys = append(append([]string(nil), sectionSchema.ListKeys...), extra.ListKeys...)
		s.ScoreKeys = append([]string(nil), sectionSchema.ScoreKeys...)
	default:
		s = extraKeys[t.Kind]
	}

	s.Labels = make(map[string][]string, len(s.AllKeys()))
	for _, k := range s.AllKeys() {
		if l, ok := labels[k]; ok {
			s.Labels[k] = l
		}
	}
	return s
}

// skeleton renders the empty JSON object the prompt asks the model to fill.
func skeleton(s respparse.Schema) string {
	parts := make([]string, 0, len(s.AllKeys()))
	for _, k := range s.Keys {
		parts = append(parts, `"`+k+`": ""`)
	}
	for _, k := range s.ListKeys {
		parts = append(parts, `"`+k+`": []`)
	}
	for _, k := range s.ScoreKeys {
		parts = append(parts, `"`+k+`": 0`)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// renderPrompt executes promptTmpl for t over content.
func renderPrompt(t Task, d types.Discipline, content string) string {
	label := "论文信息"
	switch {
	case t.Kind == KindCoverMetadata:
		label = "封面文本"
	case t.Mode == ModeSection:
		label = "章节内容"
	}

	discipline := ""
	if d != "" && d != types.DisciplineGeneral {
		discipline = string(d)
	}

	var buf bytes.Buffer
	// The template and its inputs are fixed strings, so Execute cannot fail.
	_ = promptTmpl.Execute(&buf, struct {
		Instruction, Title, Discipline, Skeleton, Label, Content string
	}{
		Instruction: instructions[t.Kind],
		Title:       t.Heading(),
		Discipline:  discipline,
		Skeleton:    skeleton(schemaFor(t)),
		Label:       label,
		Content:     content,
	})
	return buf.String()
}

// Heading returns the section number and title, or "" for whole-document
// tasks.
func (t Task) Heading() string {
	if t.Number == "" {
		return t.Title
	}
	return t.Number + " " + t.Title
}
