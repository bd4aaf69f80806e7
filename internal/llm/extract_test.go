package llm

import (
	"errors"
	"strings"
	"testing"
)

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain JSON untouched",
			input:    `{"a":1}`,
			expected: `{"a":1}`,
		},
		{
			name:     "strips cite tags",
			input:    `{"text":"GDPR applies<cite index="3">everywhere</cite> in the EU"}`,
			expected: `{"text":"GDPR applieseverywhere in the EU"}`,
		},
		{
			name:     "strips closing cite tags",
			input:    `before</cite>after`,
			expected: `beforeafter`,
		},
		{
			name:     "strips json fence",
			input:    "```json\n{\"a\":1}\n```",
			expected: `{"a":1}`,
		},
		{
			name:     "strips bare fence",
			input:    "```\n{\"a\":1}\n```",
			expected: `{"a":1}`,
		},
		{
			name:     "trims whitespace",
			input:    "  \n{\"a\":1}\n  ",
			expected: `{"a":1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanResponse(tt.input)
			if got != tt.expected {
				t.Errorf("CleanResponse(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFirstJSONObject(t *testing.T) {
	obj, err := FirstJSONObject(`Here is the result: {"title":"SOC 2","n":1} and some trailing prose`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj != `{"title":"SOC 2","n":1}` {
		t.Errorf("got %q", obj)
	}
}

func TestFirstJSONObject_Nested(t *testing.T) {
	input := `{"outer":{"inner":{"deep":true}},"after":2} {"second":1}`
	obj, err := FirstJSONObject(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj != `{"outer":{"inner":{"deep":true}},"after":2}` {
		t.Errorf("got %q", obj)
	}
}

func TestFirstJSONObject_BracesInStrings(t *testing.T) {
	// Braces and escaped quotes inside string values must not end the scan
	input := `{"text":"a } brace and a \" quote {"}`
	obj, err := FirstJSONObject(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj != input {
		t.Errorf("got %q", obj)
	}
}

func TestFirstJSONObject_Missing(t *testing.T) {
	_, err := FirstJSONObject("no json here")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestFirstJSONObject_Unbalanced(t *testing.T) {
	_, err := FirstJSONObject(`{"truncated": {"never closed"`)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if !strings.Contains(parseErr.Error(), "unbalanced") {
		t.Errorf("unexpected reason: %v", parseErr)
	}
}
