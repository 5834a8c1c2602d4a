package assist

import (
	"encoding/json"
	"strings"
)

// ExtractJSON recovers a JSON object embedded in a model completion. Models
// asked for JSON frequently wrap it in prose or a fenced code block, so the
// recovery is layered and each layer falls through on parse failure:
//
//  1. parse the raw text directly,
//  2. parse the first ```json fenced block,
//  3. parse the first fenced block of any tag.
//
// The second return value is false when no layer yields a JSON object.
// ExtractJSON never panics and never returns an error; callers supply their
// own fallback payload when ok is false.
func ExtractJSON(raw string) (map[string]any, bool) {
	if m, ok := parseObject(raw); ok {
		return m, true
	}
	blocks := fencedBlocks(raw)
	for _, b := range blocks {
		if strings.EqualFold(b.tag, "json") {
			if m, ok := parseObject(b.body); ok {
				return m, true
			}
		}
	}
	for _, b := range blocks {
		if m, ok := parseObject(b.body); ok {
			return m, true
		}
	}
	return nil, false
}

// ExtractJSONList is the array-valued variant for material-suggestion
// replies, which the model returns as a JSON list. Same layering as
// ExtractJSON.
func ExtractJSONList(raw string) ([]map[string]any, bool) {
	if l, ok := parseList(raw); ok {
		return l, true
	}
	blocks := fencedBlocks(raw)
	for _, b := range blocks {
		if strings.EqualFold(b.tag, "json") {
			if l, ok := parseList(b.body); ok {
				return l, true
			}
		}
	}
	for _, b := range blocks {
		if l, ok := parseList(b.body); ok {
			return l, true
		}
	}
	return nil, false
}

type block struct {
	tag  string
	body string
}

// fencedBlocks scans for triple-backtick fences and returns the enclosed
// bodies with their info tags. Unterminated fences contribute the remainder
// of the text, which keeps the extractor total on truncated completions.
func fencedBlocks(s string) []block {
	var out []block
	for {
		start := strings.Index(s, "```")
		if start < 0 {
			return out
		}
		rest := s[start+3:]

		// The info tag runs to the end of the fence line.
		tag := ""
		body := rest
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			tag = strings.TrimSpace(rest[:nl])
			body = rest[nl+1:]
		}

		end := strings.Index(body, "```")
		if end < 0 {
			out = append(out, block{tag: tag, body: strings.TrimSpace(body)})
			return out
		}
		out = append(out, block{tag: tag, body: strings.TrimSpace(body[:end])})
		s = body[end+3:]
	}
}

func parseObject(s string) (map[string]any, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, false
	}
	return m, true
}

func parseList(s string) ([]map[string]any, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") {
		return nil, false
	}
	var l []map[string]any
	if err := json.Unmarshal([]byte(s), &l); err != nil {
		return nil, false
	}
	return l, true
}
