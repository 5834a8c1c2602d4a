package llm

import (
	"fmt"
	"sort"
	"strings"
)

// AssistantSystemPrompt frames every design-assistant conversation. It is
// prepended to the rolling context window on each turn.
const AssistantSystemPrompt = `你是一位专业的室内设计师助手，擅长回答装修、设计、材料选择等相关问题。
请用专业但易懂的语言回答，必要时给出具体建议。`

// styleAnalysisSystemPrompt asks the model to act as a designer and answer
// in JSON so the structured extractor can recover the recommendation.
const styleAnalysisSystemPrompt = `你是一位专业的室内设计师，擅长根据用户的家庭情况、生活习惯和偏好推荐最适合的装修风格。

请分析以下信息，并提供：
1. 最适合的1-2种主风格
2. 风格推荐理由
3. 关键设计元素建议
4. 预算分配建议
5. 材料选择建议

请以JSON格式输出，便于程序解析。`

// styleAnalysisFormat pins the exact JSON keys the extractor and the
// frontend expect in a quiz_result payload.
const styleAnalysisFormat = `请输出JSON格式：
{
    "recommended_styles": ["风格1", "风格2"],
    "style_reasoning": "推荐理由",
    "key_elements": ["元素1", "元素2", "元素3"],
    "budget_allocation": {"硬装": "60%", "软装": "30%", "其他": "10%"},
    "material_suggestions": ["材料1", "材料2"],
    "design_tips": ["建议1", "建议2"]
}`

// preferenceLabels maps quiz answer fields to the labels used when the
// collected preferences are summarized for the model.
var preferenceLabels = map[string]string{
	"ambience": "氛围偏好",
	"family":   "家庭成员构成",
	"pets":     "宠物情况",
	"storage":  "收纳需求",
}

// StyleAnalysisMessages builds the two-message prompt for the terminal quiz
// step from the accumulated preference map. Unknown keys are included
// verbatim so ad hoc preferences collected outside the quiz still reach the
// model. Output is deterministic (keys sorted) for testability.
func StyleAnalysisMessages(prefs map[string]string) []Message {
	keys := make([]string, 0, len(prefs))
	for k := range prefs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("请根据以下信息推荐装修风格：\n\n")
	for _, k := range keys {
		label := preferenceLabels[k]
		if label == "" {
			label = k
		}
		fmt.Fprintf(&b, "- %s：%s\n", label, prefs[k])
	}
	b.WriteString("\n")
	b.WriteString(styleAnalysisFormat)

	return []Message{
		{Role: "system", Content: styleAnalysisSystemPrompt},
		{Role: "user", Content: b.String()},
	}
}
