// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package patterns

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

const sampleThesis = `分类号：TP391                      密级：公开
学号：SY2106123
北京航空航天大学
硕士学位论文

基于深度学习的遥感图像目标检测方法研究

Research on Object Detection in Remote Sensing Images Based on Deep Learning

作者姓名：张 三
学科专业：计算机科学与技术
所在学院：计算机学院
指导教师：李四 教授
Candidate: Zhang San
Supervisor: Prof. Li Si
Beihang University
论文提交日期：2023年3月15日
论文答辩日期：2023年5月20日

学位论文原创性声明
本人郑重声明：所呈交的学位论文是本人在导师指导下独立进行研究工作所取得的成果。

摘  要
遥感图像目标检测是计算机视觉领域的重要研究方向。本文针对小目标检测精度低的问题，
提出了一种基于多尺度特征融合的检测方法，并在公开数据集上验证了其有效性。
关键词：深度学习；目标检测；遥感图像

ABSTRACT
Object detection in remote sensing images is an important research topic in computer vision.
This thesis proposes a multi-scale feature fusion method for small objects.
Key words: deep learning, object detection, remote sensing

目  录
摘  要 .................................... I
第一章 绪论 ............................... 1
`

func TestExtractSampleCover(t *testing.T) {
	res := Extract(sampleThesis)
	r := res.Record

	tests := []struct {
		field string
		want  string
	}{
		{types.FieldThesisNumber, "SY2106123"},
		{types.FieldTitleCN, "基于深度学习的遥感图像目标检测方法研究"},
		{types.FieldTitleEN, "Research on Object Detection in Remote Sensing Images Based on Deep Learning"},
		{types.FieldAuthorCN, "张三"},
		{types.FieldAuthorEN, "Zhang San"},
		{types.FieldUniversityCN, "北京航空航天大学"},
		{types.FieldUniversityEN, "Beihang University"},
		{types.FieldDegreeLevel, "硕士"},
		{types.FieldMajorCN, "计算机科学与技术"},
		{types.FieldCollege, "计算机学院"},
		{types.FieldSupervisorCN, "李四"},
		{types.FieldSupervisorEN, "Li Si"},
		{types.FieldSubmissionDate, "2023-03-15"},
		{types.FieldDefenseDate, "2023-05-20"},
		{types.FieldKeywordsCN, "深度学习；目标检测；遥感图像"},
		{types.FieldKeywordsEN, "deep learning; object detection; remote sensing"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, ok := r.StringField(tt.field)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.True(t, res.Flags.Matched(tt.field))
			assert.Equal(t, types.SourcePattern, res.Flags[tt.field].Source)
		})
	}

	assert.True(t, strings.HasPrefix(r.AbstractCN, "遥感图像目标检测是计算机视觉领域的重要研究方向。本文针对"))
	assert.NotContains(t, r.AbstractCN, "\n", "wrapped Han lines are joined")
	assert.NotContains(t, r.AbstractCN, "关键词")
	assert.True(t, strings.HasPrefix(r.AbstractEN, "Object detection in remote sensing images"))
	assert.Contains(t, r.AbstractEN, "computer vision. This thesis")
}

func TestExtractFirstPatternWins(t *testing.T) {
	// 论文编号 outranks 学号 even when it appears later.
	text := "学号：S001122\n论文编号：ABC-2023.01\n"
	res := Extract(text)
	assert.Equal(t, "ABC-2023.01", res.Record.ThesisNumber)
	assert.InDelta(t, 0.9, res.Flags[types.FieldThesisNumber].Confidence, 1e-9)

	res = Extract("学号：S001122\n")
	assert.Equal(t, "S001122", res.Record.ThesisNumber)
	assert.InDelta(t, 0.85, res.Flags[types.FieldThesisNumber].Confidence, 1e-9)
}

func TestExtractBilingualSupervisorsIndependent(t *testing.T) {
	res := Extract("导师：王五\nAdvisor: Dr. Wang Wu\n")
	assert.Equal(t, "王五", res.Record.SupervisorCN)
	assert.Equal(t, "Wang Wu", res.Record.SupervisorEN)

	res = Extract("Under the guidance of Professor Zhao Liu\n")
	assert.Empty(t, res.Record.SupervisorCN)
	assert.Equal(t, "Zhao Liu", res.Record.SupervisorEN)
}

func TestExtractFullWidthPunctuation(t *testing.T) {
	res := Extract("论文编号：１２３４５６\n答辩日期：２０２２／０６／０１\n")
	assert.Equal(t, "123456", res.Record.ThesisNumber)
	assert.Equal(t, "2022-06-01", res.Record.DefenseDate)
}

func TestExtractEmptyAndNoise(t *testing.T) {
	res := Extract("")
	assert.Empty(t, res.Flags)
	assert.NotNil(t, res.Record.References)

	res = Extract("lorem ipsum dolor sit amet\n")
	for _, f := range types.CoverFields {
		assert.Falsef(t, res.Flags.Matched(f), "field %s matched noise", f)
	}
}

func TestExtractSkipsTOCAbstractLine(t *testing.T) {
	text := "目录\n摘要 ........................ I\n第一章 绪论 .................. 1\n\n摘要\n本文研究了一个非常重要的问题，并提出了新的解决方案，实验证明该方案效果显著优于已有方法。\n关键词：问题；方案\n"
	res := Extract(text)
	assert.True(t, strings.HasPrefix(res.Record.AbstractCN, "本文研究了一个非常重要的问题"))
}

func TestExtractIsDeterministic(t *testing.T) {
	a := Extract(sampleThesis)
	b := Extract(sampleThesis)
	assert.Equal(t, a, b)
}

func TestCoverRegion(t *testing.T) {
	cover := CoverRegion(sampleThesis)
	assert.Contains(t, cover, "指导教师")
	assert.NotContains(t, cover, "原创性声明")

	long := strings.Repeat("正文内容。", 2000)
	assert.Less(t, len(CoverRegion(long)), len(long))
}

func TestClean(t *testing.T) {
	tests := []struct {
		field string
		in    string
		want  string
	}{
		{types.FieldAuthorCN, "张 三", "张三"},
		{types.FieldAuthorCN, "张三 导师", "张三"},
		{types.FieldSupervisorCN, "王五副教授", "王五"},
		{types.FieldSupervisorEN, "Dr. Jane Doe", "Jane Doe"},
		{types.FieldDegreeLevel, "PhD", "博士"},
		{types.FieldDegreeLevel, "Master", "硕士"},
		{types.FieldDefenseDate, "2021年12月", "2021-12"},
		{types.FieldDefenseDate, "2021年13月", ""},
		{types.FieldCollege, "北京大学信息科学技术学院", "信息科学技术学院"},
		{types.FieldKeywordsCN, "机器学习，数据挖掘、推荐系统", "机器学习；数据挖掘；推荐系统"},
		{types.FieldTitleCN, "题目：一种新方法\t研究。", "一种新方法 研究"},
		{types.FieldThesisNumber, "sy2106", "SY2106"},
	}
	for _, tt := range tests {
		t.Run(tt.field+"/"+tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.field, tt.in))
		})
	}
}

func TestTableFieldsCoverBibliography(t *testing.T) {
	fields := DefaultTable().Fields()
	for _, f := range types.CoverFields {
		assert.Contains(t, fields, f)
	}
	assert.Equal(t, TableVersion, DefaultTable().Version)
}
