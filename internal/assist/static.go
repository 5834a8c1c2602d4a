package assist

// Reply is a ready-to-persist assistant turn produced without the model:
// content text, a message-type tag, and the structured metadata payload whose
// shape the frontend renders directly.
type Reply struct {
	Content  string
	Type     string
	Metadata map[string]any
}

// StaticReply is the deterministic fallback responder. It classifies the
// user text and returns one of four fixed canned payloads: style
// suggestions, budget tiers, a material question, or a generic follow-up.
// The payloads mirror what the model-backed path produces so the frontend
// renders them identically; only the content is fixed. StaticReply cannot
// fail and performs no I/O.
func StaticReply(userText string) Reply {
	switch Classify(userText) {
	case CategoryStyle:
		return Reply{
			Content: "根据您的户型和家庭情况，我推荐以下几种风格供您参考：",
			Type:    "suggestion",
			Metadata: map[string]any{
				"suggestions": []map[string]any{
					{
						"id":          "modern",
						"name":        "现代简约",
						"description": "简洁线条，功能至上，适合年轻家庭",
						"images":      []string{"url1", "url2"},
					},
					{
						"id":          "nordic",
						"name":        "北欧风",
						"description": "自然材质，明亮温馨，适合有孩子的家庭",
						"images":      []string{"url3", "url4"},
					},
					{
						"id":          "chinese",
						"name":        "新中式",
						"description": "传统与现代结合，文化底蕴深厚",
						"images":      []string{"url5", "url6"},
					},
				},
			},
		}
	case CategoryBudget:
		return Reply{
			Content: "装修预算通常分为以下几个档次，您可以根据实际情况选择：",
			Type:    "suggestion",
			Metadata: map[string]any{
				"budget_options": []map[string]any{
					{
						"tier":          "economy",
						"name":          "经济型",
						"price_per_sqm": "1000-1500元/㎡",
						"description":   "国产主流品牌，实用为主",
					},
					{
						"tier":          "standard",
						"name":          "舒适型",
						"price_per_sqm": "1500-2500元/㎡",
						"description":   "中高端混搭，品质与性价比平衡",
					},
					{
						"tier":          "premium",
						"name":          "豪华型",
						"price_per_sqm": "2500-4000元/㎡",
						"description":   "进口高端品牌，极致品质",
					},
				},
			},
		}
	case CategoryMaterial:
		return Reply{
			Content: "地板和瓷砖的选择需要考虑耐磨性、防滑性和美观度。您更偏好哪种材质？",
			Type:    "question",
			Metadata: map[string]any{
				"options": []map[string]any{
					{
						"id":   "wood",
						"name": "实木地板",
						"pros": []string{"脚感好", "环保"},
						"cons": []string{"价格较高", "需保养"},
					},
					{
						"id":   "composite",
						"name": "实木复合",
						"pros": []string{"性价比高", "稳定"},
						"cons": []string{"脚感略差"},
					},
					{
						"id":   "tile",
						"name": "瓷砖",
						"pros": []string{"耐用", "易清洁"},
						"cons": []string{"脚感硬", "冰冷"},
					},
				},
			},
		}
	default:
		return Reply{
			Content: "我理解您的需求。为了更好地为您设计，能否告诉我更多信息？比如您家有几口人、有没有宠物、喜欢明亮还是温馨的氛围？",
			Type:    "question",
			Metadata: map[string]any{
				"follow_up_questions": []string{
					"家庭成员构成（几口人、是否有老人小孩）",
					"是否有宠物",
					"日常起居习惯",
					"收纳需求",
				},
			},
		}
	}
}
