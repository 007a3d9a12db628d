// Package session models agent-session telemetry (spans grouped by root
// identifier) and fetches it from the trace-logging service.
package session

import (
	"time"

	"github.com/agentica-ai/tracelens/internal/braintrust"
)

// SpanType tags what kind of event a span records.
type SpanType string

const (
	SpanLLM     SpanType = "llm"
	SpanTask    SpanType = "task"
	SpanTool    SpanType = "tool"
	SpanUnknown SpanType = "unknown"
)

// ToolCall is one sub tool-call recorded in a span's metadata.
type ToolCall struct {
	Name string `json:"name"`
}

// Span is one telemetry event in a session. Read-only once fetched; only
// order of occurrence matters within a session. Optional payloads default to
// the empty string at the ingestion boundary rather than at access sites.
type Span struct {
	Created   time.Time  `json:"created"`
	CreatedAt string     `json:"created_raw,omitempty"`
	Type      SpanType   `json:"type"`
	Name      string     `json:"name"`
	Input     string     `json:"input,omitempty"`
	Output    string     `json:"output,omitempty"`
	AgentType string     `json:"agent_type,omitempty"`
	SkillName string     `json:"skill_name,omitempty"`
	ToolName  string     `json:"tool_name,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// Prefix returns the replay/trace label for the span's origin:
// agent, then skill, then tool, first one present wins.
func (s Span) Prefix() string {
	switch {
	case s.AgentType != "":
		return "[Agent:" + s.AgentType + "] "
	case s.SkillName != "":
		return "[Skill:" + s.SkillName + "] "
	case s.ToolName != "":
		return "[Tool:" + s.ToolName + "] "
	}
	return ""
}

// SpanFromRow ingests a BTQL row into a Span, applying all defaulting here
// so downstream code never touches raw maps.
func SpanFromRow(row braintrust.Row) Span {
	attrs := row.Map("span_attributes")
	meta := row.Map("metadata")

	span := Span{
		Type:      SpanUnknown,
		Name:      "unknown",
		Input:     stringify(row["input"]),
		Output:    stringify(row["output"]),
		AgentType: strField(meta, "agent_type"),
		SkillName: strField(meta, "skill_name"),
		ToolName:  strField(meta, "tool_name"),
		CreatedAt: row.Str("created"),
	}

	if t, err := time.Parse(time.RFC3339, span.CreatedAt); err == nil {
		span.Created = t
	}
	if v := strField(attrs, "type"); v != "" {
		switch SpanType(v) {
		case SpanLLM, SpanTask, SpanTool:
			span.Type = SpanType(v)
		}
	}
	if v := strField(attrs, "name"); v != "" {
		span.Name = v
	}

	for _, tc := range listField(meta, "tool_calls") {
		if m, ok := tc.(map[string]any); ok {
			name := strField(m, "name")
			if name == "" {
				name = "unknown"
			}
			span.ToolCalls = append(span.ToolCalls, ToolCall{Name: name})
		}
	}
	return span
}

func strField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func listField(m map[string]any, key string) []any {
	if v, ok := m[key].([]any); ok {
		return v
	}
	return nil
}

// stringify renders an input/output payload as text. Payloads are usually
// strings but can arrive as structured JSON values.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	}
	return stringifyJSON(v)
}
