// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quality

import (
	"strings"
	"unicode/utf8"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

// disciplineOrder is the tie-break order for classification.
var disciplineOrder = []types.Discipline{
	types.DisciplineEngineering,
	types.DisciplineNaturalSciences,
	types.DisciplineMedicine,
	types.DisciplineSocialSciences,
	types.DisciplineHumanities,
	types.DisciplineComputerScience,
	types.DisciplineAgriculture,
}

// disciplineTerms are matched case-insensitively against the text.
var disciplineTerms = map[types.Discipline][]string{
	types.DisciplineEngineering: {
		"工程", "结构设计", "材料", "机械", "控制系统", "电路", "有限元", "工艺", "传感器", "振动",
		"engineering", "mechanical", "circuit", "finite element", "actuator",
	},
	types.DisciplineNaturalSciences: {
		"物理", "化学", "生物", "光谱", "分子", "晶体", "量子", "催化", "地质", "天文",
		"physics", "chemistry", "molecular", "spectroscopy", "quantum",
	},
	types.DisciplineMedicine: {
		"患者", "临床", "治疗", "疾病", "病例", "医院", "药物", "手术", "诊断", "护理",
		"patient", "clinical", "therapy", "diagnosis", "disease",
	},
	types.DisciplineSocialSciences: {
		"经济", "管理", "社会", "政策", "企业", "市场", "问卷", "实证", "金融", "绩效",
		"economic", "management", "policy", "survey", "empirical",
	},
	types.DisciplineHumanities: {
		"文学", "历史", "哲学", "文化", "艺术", "语言学", "翻译", "思想", "文本", "美学",
		"literature", "history", "philosophy", "culture", "linguistic",
	},
	types.DisciplineComputerScience: {
		"算法", "神经网络", "深度学习", "机器学习", "数据集", "模型训练", "计算机", "软件", "网络安全", "目标检测",
		"algorithm", "neural network", "deep learning", "dataset", "software",
	},
	types.DisciplineAgriculture: {
		"作物", "农业", "土壤", "种植", "产量", "品种", "施肥", "畜牧", "灌溉", "病虫害",
		"crop", "agricultural", "soil", "yield", "cultivar",
	},
}

// ClassifyDiscipline returns the discipline whose term set is densest in
// text, with every discipline's hits per 10k characters. Ties go to the
// earlier discipline in declaration order; no hits yields general.
func ClassifyDiscipline(text string) (types.Discipline, map[types.Discipline]float64) {
	scores := make(map[types.Discipline]float64, len(disciplineOrder))
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return types.DisciplineGeneral, scores
	}
	lower := strings.ToLower(text)

	best, bestScore := types.DisciplineGeneral, 0.0
	for _, d := range disciplineOrder {
		hits := 0
		for _, term := range disciplineTerms[d] {
			hits += strings.Count(lower, term)
		}
		score := float64(hits) * 10000 / float64(n)
		scores[d] = score
		if score > bestScore {
			best, bestScore = d, score
		}
	}
	return best, scores
}
