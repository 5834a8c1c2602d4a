// Package assist implements the language-level building blocks of the design
// assistant: intent classification of free-form user text, recovery of
// structured payloads embedded in model completions, and the deterministic
// fallback responder used when the model is unreachable.
//
// Everything in this package is pure: no I/O, no persistence, no clock.
package assist

import "strings"

// Category is the coarse intent bucket a user message falls into.
type Category string

const (
	CategoryStyle    Category = "style"
	CategoryBudget   Category = "budget"
	CategoryMaterial Category = "material"
	CategoryQuestion Category = "question"
	CategoryGeneric  Category = "generic"
)

// rule pairs a category with the keyword set that triggers it. Matching is
// case-insensitive substring containment; both Chinese and English keywords
// are carried so the classifier works across scripts.
type rule struct {
	category Category
	keywords []string
}

// rules is evaluated in order and the first match wins, so an input that
// mentions both 风格 and 预算 classifies as style. The question rule matches
// either script's question mark and acts as a late catch-all before generic.
var rules = []rule{
	{CategoryStyle, []string{"风格", "style", "装修"}},
	{CategoryBudget, []string{"预算", "budget", "价格", "多少钱"}},
	{CategoryMaterial, []string{"材料", "material", "地板", "瓷砖"}},
	{CategoryQuestion, []string{"?", "？"}},
}

// Classify maps free-form user text to an intent category. It is
// deterministic, never fails, and returns CategoryGeneric when no keyword
// matches.
func Classify(text string) Category {
	lower := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.category
			}
		}
	}
	return CategoryGeneric
}

// IsQuestion reports whether the text contains a question mark in either
// script, independent of which category the full classifier would pick.
func IsQuestion(text string) bool {
	return strings.ContainsAny(text, "?？")
}
