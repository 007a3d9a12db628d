package precedent

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

// Outcome labels for past handoffs.
const (
	OutcomeSucceeded    = "SUCCEEDED"
	OutcomeFailed       = "FAILED"
	OutcomePartialMinus = "PARTIAL_MINUS"
)

// Handoff is one prior session outcome retrieved as precedent.
type Handoff struct {
	SessionName  string `json:"session_name"`
	TaskNumber   int    `json:"task_number"`
	TaskSummary  string `json:"task_summary"`
	WhatWorked   string `json:"what_worked,omitempty"`
	WhatFailed   string `json:"what_failed,omitempty"`
	KeyDecisions string `json:"key_decisions,omitempty"`
	Outcome      string `json:"outcome"`
}

// Store reads precedent from the context-graph SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens the context-graph database read-only.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open context graph: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SearchHandoffs finds past handoffs with the given outcome whose summary or
// decisions overlap the query terms, ranked by term matches then recency.
func (s *Store) SearchHandoffs(query, outcome string, limit int) ([]Handoff, error) {
	rows, err := s.db.Query(`
		SELECT session_name, task_number, task_summary,
		       COALESCE(what_worked, ''), COALESCE(what_failed, ''),
		       COALESCE(key_decisions, ''), outcome
		FROM handoffs
		WHERE outcome = ?
		ORDER BY rowid DESC
		LIMIT 200`, outcome)
	if err != nil {
		return nil, fmt.Errorf("query handoffs: %w", err)
	}
	defer rows.Close()

	type scored struct {
		handoff Handoff
		score   int
		order   int
	}

	terms := searchTerms(query)
	var candidates []scored
	order := 0
	for rows.Next() {
		var h Handoff
		if err := rows.Scan(&h.SessionName, &h.TaskNumber, &h.TaskSummary,
			&h.WhatWorked, &h.WhatFailed, &h.KeyDecisions, &h.Outcome); err != nil {
			return nil, fmt.Errorf("scan handoff: %w", err)
		}
		candidates = append(candidates, scored{handoff: h, score: matchScore(h, terms), order: order})
		order++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate handoffs: %w", err)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].order < candidates[j].order
	})

	results := make([]Handoff, 0, limit)
	for _, c := range candidates {
		if len(results) == limit {
			break
		}
		if len(terms) > 0 && c.score == 0 {
			continue
		}
		results = append(results, c.handoff)
	}
	return results, nil
}

// searchTerms lowercases and splits a query, dropping short stopword-ish
// tokens that would match everything.
func searchTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,:;()[]#*`\"'")
		if len(f) >= 4 {
			terms = append(terms, f)
		}
	}
	return terms
}

func matchScore(h Handoff, terms []string) int {
	haystack := strings.ToLower(h.TaskSummary + " " + h.KeyDecisions + " " + h.WhatWorked + " " + h.WhatFailed)
	score := 0
	for _, t := range terms {
		if strings.Contains(haystack, t) {
			score++
		}
	}
	return score
}

// Format renders handoffs as the precedent block fed to the judge prompt.
func Format(handoffs []Handoff) string {
	if len(handoffs) == 0 {
		return "(No similar past work found)"
	}

	var parts []string
	for _, h := range handoffs {
		parts = append(parts, fmt.Sprintf("**%s/task-%d**", h.SessionName, h.TaskNumber))
		parts = append(parts, "  Summary: "+clip(h.TaskSummary, 150))
		if h.WhatWorked != "" {
			parts = append(parts, "  What worked: "+clip(h.WhatWorked, 150))
		}
		if h.WhatFailed != "" {
			parts = append(parts, "  What failed: "+clip(h.WhatFailed, 150))
		}
		if h.KeyDecisions != "" {
			parts = append(parts, "  Key decisions: "+clip(h.KeyDecisions, 100))
		}
		parts = append(parts, "")
	}
	return strings.Join(parts, "\n")
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
