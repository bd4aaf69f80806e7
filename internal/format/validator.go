// Package format detects layout defects in generated content: residual
// markdown artifacts, leaked HTML, and punctuation spacing errors that would
// render badly for learners.
package format

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// IssueKind classifies a formatting defect
type IssueKind string

const (
	KindCodeFence              IssueKind = "codeFence"
	KindHTMLTagLeak            IssueKind = "htmlTagLeak"
	KindSpaceBeforePunctuation IssueKind = "spaceBeforePunctuation"
	KindUnpairedMarkdown       IssueKind = "unpairedMarkdown"
)

// Issue is one formatting defect at a structural path in the content tree
type Issue struct {
	Path   string    `json:"path"`
	Kind   IssueKind `json:"issue"`
	Sample string    `json:"sample"`
}

const sampleLimit = 140

var (
	htmlTagPattern    = regexp.MustCompile(`(?i)</?[a-z][^>]*>`)
	spacePunctPattern = regexp.MustCompile(`\s+[,.;:!?]`)
)

// codeFields are field names whose values legitimately contain code; the
// codeFence check does not apply to them.
var codeFields = map[string]bool{
	"starter_code":  true,
	"solution_code": true,
}

// Validate walks the content tree collecting string leaves and returns every
// formatting issue found, deduplicated by (path, kind). Objects, arrays and
// string leaves are inspected; numbers and booleans are not. Deterministic
// given identical input.
func Validate(content any) []Issue {
	tree, err := normalize(content)
	if err != nil {
		return nil
	}

	var issues []Issue
	seen := make(map[string]bool)
	add := func(path string, kind IssueKind, text string) {
		key := path + "\x00" + string(kind)
		if seen[key] {
			return
		}
		seen[key] = true
		sample := text
		if len(sample) > sampleLimit {
			sample = sample[:sampleLimit]
		}
		issues = append(issues, Issue{Path: path, Kind: kind, Sample: sample})
	}

	walk(tree, "", func(path, field, text string) {
		if strings.Contains(text, "```") && !codeFields[field] {
			add(path, KindCodeFence, text)
		}
		if htmlTagPattern.MatchString(text) {
			add(path, KindHTMLTagLeak, text)
		}
		if spacePunctPattern.MatchString(text) {
			add(path, KindSpaceBeforePunctuation, text)
		}
		if strings.Count(text, "**")%2 == 1 {
			add(path, KindUnpairedMarkdown, text)
		}
	})

	return issues
}

// normalize reduces arbitrary content to the generic JSON tree so that typed
// structs and decoded maps validate identically.
func normalize(content any) (any, error) {
	switch content.(type) {
	case nil:
		return nil, nil
	case string, map[string]any, []any:
		return content, nil
	}

	data, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("normalize content: %w", err)
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("normalize content: %w", err)
	}
	return tree, nil
}

// walk visits every string leaf with its structural path (e.g.
// "sections[2].content") and the name of the field holding it. Map keys are
// visited in sorted order so output is deterministic.
func walk(value any, path string, visit func(path, field, text string)) {
	switch v := value.(type) {
	case string:
		visit(path, lastField(path), v)
	case []any:
		for i, item := range v {
			walk(item, fmt.Sprintf("%s[%d]", path, i), visit)
		}
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child := k
			if path != "" {
				child = path + "." + k
			}
			walk(v[k], child, visit)
		}
	}
}

// lastField returns the final field name of a path, ignoring array indices
func lastField(path string) string {
	// Strip a trailing index: "hints[2]" -> "hints"
	if strings.HasSuffix(path, "]") {
		if j := strings.LastIndexByte(path, '['); j >= 0 {
			path = path[:j]
		}
	}
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		path = path[i+1:]
	}
	return path
}
