package judge

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/agentica-ai/tracelens/internal/session"
)

// Caps for hierarchical context pieces. The handoff is the agent's own
// synthesis of the session, so it gets the most room; the ledger contributes
// only its Goal and State sections.
const (
	handoffCap     = 20_000
	ledgerGoalCap  = 2_000
	ledgerStateCap = 3_000
)

var (
	goalSection  = regexp.MustCompile(`(?s)## Goal\n(.*?)(?:\n## |\z)`)
	stateSection = regexp.MustCompile(`(?s)## State\n(.*?)(?:\n## |\z)`)
)

// FormatTrace renders a session's spans as numbered markdown sections, each
// text field truncated to perField characters. Replay order is span creation
// order, which callers guarantee.
func FormatTrace(sessionID string, spans []session.Span, perField int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Session Trace: %s\n\n", sessionID)

	for i, s := range spans {
		fmt.Fprintf(&b, "## %d. %s%s (%s)\n", i+1, s.Prefix(), s.Name, s.Type)

		switch s.Type {
		case session.SpanLLM, session.SpanTool:
			writeField(&b, "Input", s.Input, perField)
			writeField(&b, "Output", s.Output, perField)
		case session.SpanTask:
			writeField(&b, "Message", s.Input, perField)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeField(b *strings.Builder, label, text string, budget int) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	fmt.Fprintf(b, "**%s:** %s\n", label, Truncate(text, budget))
}

// HierarchicalContext assembles the session's handoff and ledger into the
// context block that precedes the raw trace. Priority: handoff (the agent's
// testimony) first, then the ledger's Goal and State sections. Either input
// may be empty; an empty result means the trace stands alone.
func HierarchicalContext(handoffContent, ledgerContent string) string {
	var parts []string

	if handoffContent != "" {
		parts = append(parts,
			"# Session Handoff (Agent's Summary)",
			"",
			head(handoffContent, handoffCap),
			"",
			"---",
			"",
		)
	}

	if ledgerContent != "" {
		section := []string{"# Session Goal & Context (from Ledger)", ""}
		found := false
		if m := goalSection.FindStringSubmatch(ledgerContent); m != nil {
			section = append(section, "## Goal\n"+head(strings.TrimSpace(m[1]), ledgerGoalCap))
			found = true
		}
		if m := stateSection.FindStringSubmatch(ledgerContent); m != nil {
			section = append(section, "\n## State\n"+head(strings.TrimSpace(m[1]), ledgerStateCap))
			found = true
		}
		if found {
			parts = append(parts, section...)
			parts = append(parts, "", "---", "")
		}
	}

	return strings.Join(parts, "\n")
}

// searchSeed extracts a search query from a plan document: the first
// top-level heading plus the opening of an Overview section, falling back to
// the plan's first 300 characters.
var (
	planHeading  = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	planOverview = regexp.MustCompile(`(?s)Overview[:\s]*\n(.+?)(?:\n\n|\n#)`)
)

// SearchSeed derives the precedent-search query for a plan document.
func SearchSeed(planContent string) string {
	var seed string
	if m := planHeading.FindStringSubmatch(planContent); m != nil {
		seed = m[1]
	}
	if m := planOverview.FindStringSubmatch(planContent); m != nil {
		seed += " " + head(m[1], 200)
	}
	if strings.TrimSpace(seed) == "" {
		seed = head(planContent, 300)
	}
	return seed
}

// head keeps the first n characters with no elision marker, unlike Truncate.
func head(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
