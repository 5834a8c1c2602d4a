package assist

import "testing"

func TestClassify_Keywords(t *testing.T) {
	cases := []struct {
		in   string
		want Category
	}{
		// style
		{"我喜欢北欧风格", CategoryStyle},
		{"what STYLE suits a small flat", CategoryStyle},
		{"准备装修了", CategoryStyle},
		// budget
		{"预算大概20万", CategoryBudget},
		{"Budget is tight", CategoryBudget},
		{"这个价格合理吗", CategoryBudget},
		{"全包多少钱", CategoryBudget},
		// material
		{"选什么材料好", CategoryMaterial},
		{"实木地板还是复合", CategoryMaterial},
		{"瓷砖耐用吗", CategoryMaterial},
		// question catch-all
		{"客厅朝北怎么办?", CategoryQuestion},
		{"需要吊顶吗？", CategoryQuestion},
		// generic
		{"你好", CategoryGeneric},
		{"", CategoryGeneric},
	}
	for _, tc := range cases {
		if got := Classify(tc.in); got != tc.want {
			t.Errorf("Classify(%q) = %v; want %v", tc.in, got, tc.want)
		}
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	// Mentions style, budget, and material; the style rule is evaluated first.
	if got := Classify("这个风格的材料预算是多少钱？"); got != CategoryStyle {
		t.Fatalf("got %v; want %v", got, CategoryStyle)
	}
	// Budget beats material.
	if got := Classify("地板的预算"); got != CategoryBudget {
		t.Fatalf("got %v; want %v", got, CategoryBudget)
	}
	// A question mark does not preempt earlier keyword rules.
	if got := Classify("瓷砖怎么选？"); got != CategoryMaterial {
		t.Fatalf("got %v; want %v", got, CategoryMaterial)
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	for _, in := range []string{"STYLE", "Style", "sTyLe advice"} {
		if got := Classify(in); got != CategoryStyle {
			t.Errorf("Classify(%q) = %v; want style", in, got)
		}
	}
}

func TestIsQuestion(t *testing.T) {
	cases := map[string]bool{
		"怎么办?":    true,
		"怎么办？":    true,
		"没有问题":    false,
		"":        false,
		"mid?dle": true,
	}
	for in, want := range cases {
		if got := IsQuestion(in); got != want {
			t.Errorf("IsQuestion(%q) = %v; want %v", in, got, want)
		}
	}
}
