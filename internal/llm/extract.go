package llm

import (
	"fmt"
	"regexp"
	"strings"
)

// ParseError indicates the capability's response could not be reduced to
// valid JSON after stripping known wrapper artifacts. It is fatal for the
// generation attempt and is never retried at this layer.
type ParseError struct {
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse generation response: %s", e.Reason)
}

// citeTagPattern matches leaked citation markup the model sometimes wraps
// around cited passages.
var citeTagPattern = regexp.MustCompile(`</?cite[^>]*>`)

// CleanResponse strips known wrapper artifacts from raw model output:
// citation markup tags and leading/trailing code-fence markers.
func CleanResponse(raw string) string {
	text := citeTagPattern.ReplaceAllString(raw, "")
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSpace(text)
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	}

	return text
}

// FirstJSONObject extracts the first balanced {...} substring. Brace counting
// is string-aware so braces inside JSON string values do not unbalance the
// scan.
func FirstJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", &ParseError{Reason: "no JSON object found in response", Raw: text}
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", &ParseError{Reason: "unbalanced JSON object in response", Raw: text}
}
