// Package judge runs LLM-as-judge evaluations over session traces and
// planning artifacts: prompt assembly under a character budget, one
// completion call, and structured-verdict decoding.
package judge

import "fmt"

// Budget holds the character-budget policy for trace formatting. Roughly
// 272k tokens of context maps to 800k characters at a conservative
// 3 chars/token.
type Budget struct {
	// TotalChars is the overall prompt character ceiling.
	TotalChars int `yaml:"total_chars" json:"total_chars"`

	// ReserveChars is headroom held back for the prompt template and the
	// model's response.
	ReserveChars int `yaml:"reserve_chars" json:"reserve_chars"`

	// MinPerField is the floor for any single truncated field.
	MinPerField int `yaml:"min_per_field" json:"min_per_field"`

	// MaxPerField is the cap for any single truncated field.
	MaxPerField int `yaml:"max_per_field" json:"max_per_field"`
}

// DefaultBudget returns the standard budget policy.
func DefaultBudget() Budget {
	return Budget{
		TotalChars:   800_000,
		ReserveChars: 100_000,
		MinPerField:  1_500,
		MaxPerField:  8_000,
	}
}

// PerField computes the per-field truncation limit for a session with
// spanCount spans and hierChars of hierarchical context already committed.
//
// Most spans contribute one or two truncatable text fields (input and/or
// output), so the field count is estimated at 1.5x the span count. The raw
// budget is floor-divided across those fields and clamped to
// [MinPerField, MaxPerField].
//
// The clamp makes the ceiling soft: for very large span counts the floor
// wins and the summed trace can exceed TotalChars. That slack is accepted
// policy, not a bug. Never fails, pure, safe for concurrent use.
func (b Budget) PerField(spanCount, hierChars int) int {
	available := b.TotalChars - b.ReserveChars - hierChars

	estimatedFields := spanCount * 3 / 2
	if estimatedFields < 1 {
		estimatedFields = 1
	}

	budget := available / estimatedFields
	if budget < b.MinPerField {
		budget = b.MinPerField
	}
	if budget > b.MaxPerField {
		budget = b.MaxPerField
	}
	return budget
}

// Truncate limits text to budget characters. Text within budget passes
// through unchanged; longer text keeps the first budget characters and gains
// a marker carrying the exact number of elided characters. Counts are in
// characters (runes), not bytes, so multibyte text is never split mid-rune.
func Truncate(text string, budget int) string {
	if text == "" {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= budget {
		return text
	}
	return string(runes[:budget]) + fmt.Sprintf("... [truncated %d chars]", len(runes)-budget)
}
