package gemini

import (
	"encoding/json"
	"fmt"
	"strings"
)

// maxExcerptChars caps the raw-response excerpt attached to parse errors.
const maxExcerptChars = 500

// ParseError reports a model response that could not be recovered into JSON.
// Excerpt holds a bounded prefix of the raw response for diagnostics.
type ParseError struct {
	Reason  string
	Excerpt string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("normalize model response: %s", e.Reason)
}

// Normalize recovers a JSON document from a raw model reply. It tries, in
// order: the trimmed text as-is, the content of a markdown code fence, and
// the slice between the first '{' and the last '}'. The brace slice is a
// heuristic and can be fooled by braces inside surrounding prose.
func Normalize(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	text = stripCodeFence(text)

	if json.Valid([]byte(text)) {
		return text, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		candidate := text[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}

	return "", &ParseError{
		Reason:  "no parseable JSON object in model response",
		Excerpt: excerptOf(raw),
	}
}

// stripCodeFence removes one layer of ``` fencing, tolerating a language tag
// on the opening fence. Text without a fence passes through unchanged.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	body := strings.TrimPrefix(text, "```")
	if nl := strings.Index(body, "\n"); nl >= 0 {
		firstLine := strings.TrimSpace(body[:nl])
		// A bare tag like "json" on the fence line is not content.
		if !strings.ContainsAny(firstLine, "{}[]") {
			body = body[nl+1:]
		}
	}
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	return strings.TrimSpace(body)
}

func excerptOf(raw string) string {
	if len(raw) > maxExcerptChars {
		return raw[:maxExcerptChars]
	}
	return raw
}
