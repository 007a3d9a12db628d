package formatter

import (
	"bytes"
	"strings"
	"testing"
)

func TestTableUsageReport(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "Tool", "Calls", "Sessions")
	tbl.AddRow("Bash", "42", "6")
	tbl.AddRow("Read", "17", "5")
	if err := tbl.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Tool", "Calls", "Sessions", "Bash", "Read", "----"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// Header, separator, two data rows.
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Errorf("expected 4 lines, got %d:\n%s", len(lines), out)
	}
}

func TestTableNoRowsNoOutput(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "Day", "Tokens")
	if err := tbl.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Empty result sets print nothing, not a lone header.
	if buf.Len() != 0 {
		t.Errorf("expected no output for an empty table, got:\n%s", buf.String())
	}
}

func TestTableMaxWidthTruncates(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "Session", "Spans")
	tbl.SetMaxWidth(0, 12)
	tbl.AddRow("0198f2ae-71d2-4c3a-9f00-aaaaaaaaaaaa", "20")
	if err := tbl.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "0198f2ae-...") {
		t.Errorf("expected truncated session ID, got:\n%s", out)
	}
	if strings.Contains(out, "aaaaaaaa") {
		t.Errorf("full session ID should not survive truncation:\n%s", out)
	}
}

func TestTableTinyMaxWidthSkipsEllipsis(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "Session", "Spans")
	tbl.SetMaxWidth(0, 2)
	tbl.AddRow("abcdef", "3")
	if err := tbl.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := buf.String()
	// Below 4 characters there is no room for "...": raw slice only.
	if strings.Contains(out, "...") {
		t.Errorf("tiny widths must not gain an ellipsis:\n%s", out)
	}
	if strings.Contains(out, "abcdef") {
		t.Errorf("value should have been truncated:\n%s", out)
	}
}

func TestTableValueAtExactWidth(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "Day", "Tokens")
	tbl.SetMaxWidth(0, 10)
	tbl.AddRow("2026-08-20", "1.5K")
	if err := tbl.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(buf.String(), "2026-08-20") {
		t.Errorf("value at exactly the width limit must pass through:\n%s", buf.String())
	}
}

func TestTableShortRowPadded(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "Agent", "Runs", "Sessions")
	tbl.AddRow("reviewer")
	if err := tbl.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(buf.String(), "reviewer") {
		t.Errorf("short rows keep their values:\n%s", buf.String())
	}
}

func TestTableSeparatorTracksHeaders(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "Day", "Tool Calls")
	tbl.AddRow("2026-08-19", "31")
	if err := tbl.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected at least 2 lines, got %d", len(lines))
	}

	// One dash per header character, per column.
	sep := lines[1]
	if !strings.Contains(sep, "---") {
		t.Fatalf("expected separator on line 2, got %q", sep)
	}
	if !strings.Contains(sep, strings.Repeat("-", len("Day"))) {
		t.Errorf("separator should cover %q: %q", "Day", sep)
	}
	if !strings.Contains(sep, strings.Repeat("-", len("Tool Calls"))) {
		t.Errorf("separator should cover %q: %q", "Tool Calls", sep)
	}
}
