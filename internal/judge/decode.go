package judge

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoJSON reports that the model response contained no JSON object at all.
var ErrNoJSON = errors.New("no JSON object in response")

// MalformedError reports that a candidate JSON object failed to parse.
// A snippet of the offending text is carried for diagnosis.
type MalformedError struct {
	Snippet string
	Err     error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed judge JSON: %v: %s", e.Err, e.Snippet)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// Gap is one judge-identified missing or incorrect element. Prompts vary in
// which fields they populate; Severity and a description are the only common
// ground.
type Gap struct {
	ID            string `json:"id,omitempty"`
	Type          string `json:"type,omitempty"`
	Element       string `json:"element,omitempty"`
	Requirement   string `json:"requirement,omitempty"`
	Status        string `json:"status,omitempty"`
	Severity      string `json:"severity,omitempty"`
	Description   string `json:"description,omitempty"`
	Evidence      string `json:"evidence,omitempty"`
	FixSuggestion string `json:"fix_suggestion,omitempty"`
	FixAction     string `json:"fix_action,omitempty"`
}

// Verdict is the structured record decoded from a judge response.
// Constructed once, never mutated.
type Verdict struct {
	// Verdict is "PASS" or "FAIL".
	Verdict string `json:"verdict"`

	// Gaps lists what the judge found missing or wrong. Never nil.
	Gaps []Gap `json:"gaps"`

	// Summary is the judge's one-line assessment.
	Summary string `json:"summary"`

	// Raw retains the full parsed object for callers needing fields beyond
	// the common three (scope_creep, insights, requirements_checked).
	Raw map[string]any `json:"raw,omitempty"`
}

// codeFence matches the first triple-backtick fenced region, optionally
// tagged "json" (case-insensitive), capturing the inner text.
var codeFence = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)```")

// Decode extracts and parses exactly one JSON object from raw model output.
// The object may be wrapped in commentary or a code fence and may be followed
// by trailing prose; only the first complete, depth-balanced object is taken.
//
// The brace scan tracks JSON string literals (including escape sequences) so
// a brace inside a quoted value never corrupts the nesting depth.
func Decode(raw string) (*Verdict, error) {
	working := raw
	if strings.Contains(raw, "```") {
		if m := codeFence.FindStringSubmatch(raw); m != nil {
			working = strings.TrimSpace(m[1])
		}
	}

	start := strings.IndexByte(working, '{')
	if start < 0 {
		return nil, ErrNoJSON
	}

	end, ok := scanObject(working, start)
	if !ok {
		return nil, &MalformedError{Snippet: snippetOf(working[start:]), Err: errors.New("unbalanced braces")}
	}

	candidate := working[start:end]
	var parsed map[string]any
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, &MalformedError{Snippet: snippetOf(candidate), Err: err}
	}

	v := &Verdict{Gaps: []Gap{}, Raw: parsed}
	if s, ok := parsed["verdict"].(string); ok {
		v.Verdict = s
	}
	if s, ok := parsed["summary"].(string); ok {
		v.Summary = s
	}
	if rawGaps, ok := parsed["gaps"].([]any); ok {
		// Gap entries are free-form: prompts vary in which keys they emit
		// and models sometimes put structured values where a string was
		// asked for. Each entry is lifted on its own so one odd field never
		// loses the rest of the list.
		for _, rg := range rawGaps {
			if m, ok := rg.(map[string]any); ok {
				v.Gaps = append(v.Gaps, gapFromMap(m))
			}
		}
	}
	return v, nil
}

func gapFromMap(m map[string]any) Gap {
	return Gap{
		ID:            fieldText(m["id"]),
		Type:          fieldText(m["type"]),
		Element:       fieldText(m["element"]),
		Requirement:   fieldText(m["requirement"]),
		Status:        fieldText(m["status"]),
		Severity:      fieldText(m["severity"]),
		Description:   fieldText(m["description"]),
		Evidence:      fieldText(m["evidence"]),
		FixSuggestion: fieldText(m["fix_suggestion"]),
		FixAction:     fieldText(m["fix_action"]),
	}
}

// fieldText renders a gap field as text. Strings pass through; structured
// values are kept as compact JSON rather than dropped.
func fieldText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// scanObject returns the index just past the object opened at start, scanning
// brace depth while skipping string literals and their escapes.
func scanObject(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
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
				return i + 1, true
			}
		}
	}
	return 0, false
}

func snippetOf(s string) string {
	const max = 200
	if len(s) > max {
		return s[:max]
	}
	return s
}
