package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/agentica-ai/tracelens/internal/braintrust"
)

// replayLimit caps how many spans are fetched for replay and learning.
const replayLimit = 200

// fullIDLength is the length of a complete session identifier; shorter
// arguments are treated as prefixes and resolved.
const fullIDLength = 36

// Summary describes one session in a listing.
type Summary struct {
	ID        string `json:"session_id"`
	Started   string `json:"started"`
	Ended     string `json:"ended"`
	SpanCount int    `json:"span_count"`
	ToolCount int    `json:"tool_count,omitempty"`
}

// NameCount is a usage tally keyed by tool, agent, or skill name.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// UsageStat is a cross-session usage tally for an agent or skill.
type UsageStat struct {
	Name     string `json:"name"`
	Runs     int    `json:"runs"`
	Sessions int    `json:"sessions"`
}

// LoopCandidate is a (session, tool) pair with its call count, used to spot
// repeated tool calls.
type LoopCandidate struct {
	SessionID string `json:"session_id"`
	Tool      string `json:"tool"`
	CallCount int    `json:"call_count"`
	FirstCall string `json:"first_call"`
	LastCall  string `json:"last_call"`
}

// DayActivity aggregates one day of sessions and tool calls.
type DayActivity struct {
	Day       string `json:"day"`
	Sessions  int    `json:"sessions"`
	ToolCalls int    `json:"tool_calls"`
}

// DayTokens aggregates one day of token consumption.
type DayTokens struct {
	Day      string `json:"day"`
	Sessions int    `json:"sessions"`
	Tokens   int    `json:"tokens"`
}

// Metrics gathers the per-session quantitative measurements.
type Metrics struct {
	TotalTokens int            `json:"total_tokens"`
	SpanCount   int            `json:"span_count"`
	ToolCalls   int            `json:"tool_calls"`
	ToolCounts  map[string]int `json:"tool_counts"`
}

// Store fetches session telemetry for one project via the query service.
type Store struct {
	bt        *braintrust.Client
	projectID string
}

// NewStore creates a store scoped to projectID.
func NewStore(bt *braintrust.Client, projectID string) *Store {
	return &Store{bt: bt, projectID: projectID}
}

// DaysAgo returns the ISO timestamp for n days ago. BTQL has no INTERVAL
// support, so time windows are rendered as literals.
func DaysAgo(n int) string {
	return time.Now().UTC().Add(-time.Duration(n) * 24 * time.Hour).Format("2006-01-02T15:04:05Z")
}

// Recent lists the most recent sessions with span and tool counts.
func (s *Store) Recent(ctx context.Context, limit int) ([]Summary, error) {
	rows, err := s.bt.Query(ctx, s.projectID, fmt.Sprintf(`
		SELECT
			root_span_id as session_id,
			MIN(created) as started,
			MAX(created) as ended,
			COUNT(*) as span_count,
			COUNT(*) FILTER (WHERE span_attributes['type'] = 'tool') as tool_count
		FROM logs
		GROUP BY root_span_id
		ORDER BY started DESC
		LIMIT %d`, limit))
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(rows))
	for _, r := range rows {
		summaries = append(summaries, Summary{
			ID:        r.Str("session_id"),
			Started:   r.Str("started"),
			Ended:     r.Str("ended"),
			SpanCount: r.Int("span_count"),
			ToolCount: r.Int("tool_count"),
		})
	}
	return summaries, nil
}

// Latest returns the most recent session, or nil when the project has none.
func (s *Store) Latest(ctx context.Context) (*Summary, error) {
	sessions, err := s.Recent(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return &sessions[0], nil
}

// Resolve expands a possibly-partial session ID to a full one. Full-length
// IDs pass through; shorter ones match by prefix. An empty result means no
// session matched.
func (s *Store) Resolve(ctx context.Context, id string) (string, error) {
	if len(id) >= fullIDLength {
		return id, nil
	}
	rows, err := s.bt.Query(ctx, s.projectID, fmt.Sprintf(`
		SELECT DISTINCT root_span_id
		FROM logs
		WHERE root_span_id LIKE '%s%%'
		LIMIT 1`, id))
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].Str("root_span_id"), nil
}

// Spans fetches a session's spans ordered by creation time.
func (s *Store) Spans(ctx context.Context, sessionID string) ([]Span, error) {
	rows, err := s.bt.Query(ctx, s.projectID, fmt.Sprintf(`
		SELECT
			created,
			input,
			output,
			span_attributes,
			metadata
		FROM logs
		WHERE root_span_id = '%s'
		ORDER BY created
		LIMIT %d`, sessionID, replayLimit))
	if err != nil {
		return nil, err
	}

	spans := make([]Span, 0, len(rows))
	for _, r := range rows {
		spans = append(spans, SpanFromRow(r))
	}
	return spans, nil
}

// TotalTokens sums the token metric across a session's spans.
func (s *Store) TotalTokens(ctx context.Context, sessionID string) (int, error) {
	rows, err := s.bt.Query(ctx, s.projectID, fmt.Sprintf(`
		SELECT
			SUM(COALESCE(metrics['tokens'], 0)) as total_tokens
		FROM logs
		WHERE root_span_id = '%s'`, sessionID))
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Int("total_tokens"), nil
}

// ToolCounts tallies tool spans in a session, most used first. Tool names
// come from metadata when tagged, falling back to the span name.
func (s *Store) ToolCounts(ctx context.Context, sessionID string) ([]NameCount, error) {
	rows, err := s.bt.Query(ctx, s.projectID, fmt.Sprintf(`
		SELECT
			COALESCE(metadata['tool_name'], span_attributes['name']) as tool,
			COUNT(*) as count
		FROM logs
		WHERE root_span_id = '%s'
		  AND span_attributes['type'] = 'tool'
		GROUP BY 1
		ORDER BY count DESC
		LIMIT 10`, sessionID))
	if err != nil {
		return nil, err
	}
	return nameCounts(rows, "tool"), nil
}

// AgentCounts tallies agent invocations in a session.
func (s *Store) AgentCounts(ctx context.Context, sessionID string) ([]NameCount, error) {
	rows, err := s.bt.Query(ctx, s.projectID, fmt.Sprintf(`
		SELECT
			metadata['agent_type'] as agent,
			COUNT(*) as count
		FROM logs
		WHERE root_span_id = '%s'
		  AND metadata['agent_type'] IS NOT NULL
		GROUP BY 1
		ORDER BY count DESC`, sessionID))
	if err != nil {
		return nil, err
	}
	return nameCounts(rows, "agent"), nil
}

// SkillCounts tallies skill activations in a session.
func (s *Store) SkillCounts(ctx context.Context, sessionID string) ([]NameCount, error) {
	rows, err := s.bt.Query(ctx, s.projectID, fmt.Sprintf(`
		SELECT
			metadata['skill_name'] as skill,
			COUNT(*) as count
		FROM logs
		WHERE root_span_id = '%s'
		  AND metadata['skill_name'] IS NOT NULL
		GROUP BY 1
		ORDER BY count DESC`, sessionID))
	if err != nil {
		return nil, err
	}
	return nameCounts(rows, "skill"), nil
}

// AgentStats tallies agent usage across sessions since the given ISO time.
func (s *Store) AgentStats(ctx context.Context, since string) ([]UsageStat, error) {
	rows, err := s.bt.Query(ctx, s.projectID, fmt.Sprintf(`
		SELECT
			metadata['agent_type'] as agent,
			COUNT(*) as runs,
			COUNT(DISTINCT root_span_id) as sessions
		FROM logs
		WHERE metadata['agent_type'] IS NOT NULL
		  AND created > '%s'
		GROUP BY 1
		ORDER BY runs DESC`, since))
	if err != nil {
		return nil, err
	}
	return usageStats(rows, "agent"), nil
}

// SkillStats tallies skill usage across sessions since the given ISO time.
func (s *Store) SkillStats(ctx context.Context, since string) ([]UsageStat, error) {
	rows, err := s.bt.Query(ctx, s.projectID, fmt.Sprintf(`
		SELECT
			metadata['skill_name'] as skill,
			COUNT(*) as activations,
			COUNT(DISTINCT root_span_id) as sessions
		FROM logs
		WHERE metadata['skill_name'] IS NOT NULL
		  AND created > '%s'
		GROUP BY 1
		ORDER BY activations DESC`, since))
	if err != nil {
		return nil, err
	}

	stats := make([]UsageStat, 0, len(rows))
	for _, r := range rows {
		stats = append(stats, UsageStat{
			Name:     r.Str("skill"),
			Runs:     r.Int("activations"),
			Sessions: r.Int("sessions"),
		})
	}
	return stats, nil
}

// LoopCandidates returns per-session tool call counts since the given time,
// highest first. BTQL has no HAVING, so the >N filter is the caller's job.
func (s *Store) LoopCandidates(ctx context.Context, since string) ([]LoopCandidate, error) {
	rows, err := s.bt.Query(ctx, s.projectID, fmt.Sprintf(`
		SELECT
			root_span_id as session_id,
			COALESCE(metadata['tool_name'], span_attributes['name']) as tool,
			COUNT(*) as call_count,
			MIN(created) as first_call,
			MAX(created) as last_call
		FROM logs
		WHERE span_attributes['type'] = 'tool'
		  AND created > '%s'
		GROUP BY root_span_id, 2
		ORDER BY call_count DESC
		LIMIT 100`, since))
	if err != nil {
		return nil, err
	}

	candidates := make([]LoopCandidate, 0, len(rows))
	for _, r := range rows {
		candidates = append(candidates, LoopCandidate{
			SessionID: r.Str("session_id"),
			Tool:      r.Str("tool"),
			CallCount: r.Int("call_count"),
			FirstCall: r.Str("first_call"),
			LastCall:  r.Str("last_call"),
		})
	}
	return candidates, nil
}

// Activity aggregates daily session and tool-call counts since the given
// time. BTQL has no DATE(), so raw rows are fetched and bucketed by the
// YYYY-MM-DD prefix of the created timestamp client-side.
func (s *Store) Activity(ctx context.Context, since string) ([]DayActivity, error) {
	rows, err := s.bt.Query(ctx, s.projectID, fmt.Sprintf(`
		SELECT
			created,
			root_span_id,
			span_attributes['type'] as span_type
		FROM logs
		WHERE created > '%s'
		ORDER BY created
		LIMIT 1000`, since))
	if err != nil {
		return nil, err
	}

	type bucket struct {
		sessions  map[string]struct{}
		toolCalls int
	}
	daily := map[string]*bucket{}
	for _, r := range rows {
		day := dayOf(r.Str("created"))
		if day == "" {
			continue
		}
		b, ok := daily[day]
		if !ok {
			b = &bucket{sessions: map[string]struct{}{}}
			daily[day] = b
		}
		b.sessions[r.Str("root_span_id")] = struct{}{}
		if r.Str("span_type") == "tool" {
			b.toolCalls++
		}
	}

	out := make([]DayActivity, 0, len(daily))
	for day, b := range daily {
		out = append(out, DayActivity{Day: day, Sessions: len(b.sessions), ToolCalls: b.toolCalls})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

// TokenTrends aggregates daily token consumption since the given time,
// bucketed client-side like Activity.
func (s *Store) TokenTrends(ctx context.Context, since string) ([]DayTokens, error) {
	rows, err := s.bt.Query(ctx, s.projectID, fmt.Sprintf(`
		SELECT
			created,
			root_span_id,
			metrics['tokens'] as tokens
		FROM logs
		WHERE created > '%s'
		ORDER BY created
		LIMIT 1000`, since))
	if err != nil {
		return nil, err
	}

	type bucket struct {
		sessions map[string]struct{}
		tokens   int
	}
	daily := map[string]*bucket{}
	for _, r := range rows {
		day := dayOf(r.Str("created"))
		if day == "" {
			continue
		}
		b, ok := daily[day]
		if !ok {
			b = &bucket{sessions: map[string]struct{}{}}
			daily[day] = b
		}
		b.sessions[r.Str("root_span_id")] = struct{}{}
		b.tokens += r.Int("tokens")
	}

	out := make([]DayTokens, 0, len(daily))
	for day, b := range daily {
		out = append(out, DayTokens{Day: day, Sessions: len(b.sessions), Tokens: b.tokens})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

// TopTools tallies the most used tools across sessions since the given time.
func (s *Store) TopTools(ctx context.Context, since string) ([]NameCount, error) {
	rows, err := s.bt.Query(ctx, s.projectID, fmt.Sprintf(`
		SELECT
			COALESCE(metadata['tool_name'], span_attributes['name']) as tool,
			COUNT(*) as count
		FROM logs
		WHERE span_attributes['type'] = 'tool'
		  AND created > '%s'
		GROUP BY 1
		ORDER BY count DESC
		LIMIT 5`, since))
	if err != nil {
		return nil, err
	}
	return nameCounts(rows, "tool"), nil
}

// SessionMetrics gathers all quantitative measurements for a session.
func (s *Store) SessionMetrics(ctx context.Context, sessionID string) (*Metrics, error) {
	tokens, err := s.TotalTokens(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	tools, err := s.ToolCounts(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	spanRows, err := s.bt.Query(ctx, s.projectID, fmt.Sprintf(`
		SELECT COUNT(*) as total
		FROM logs
		WHERE root_span_id = '%s'`, sessionID))
	if err != nil {
		return nil, err
	}

	m := &Metrics{TotalTokens: tokens, ToolCounts: map[string]int{}}
	if len(spanRows) > 0 {
		m.SpanCount = spanRows[0].Int("total")
	}
	for _, t := range tools {
		if t.Name == "" {
			continue
		}
		m.ToolCounts[t.Name] = t.Count
		m.ToolCalls += t.Count
	}
	return m, nil
}

func nameCounts(rows []braintrust.Row, key string) []NameCount {
	counts := make([]NameCount, 0, len(rows))
	for _, r := range rows {
		counts = append(counts, NameCount{Name: r.Str(key), Count: r.Int("count")})
	}
	return counts
}

func usageStats(rows []braintrust.Row, key string) []UsageStat {
	stats := make([]UsageStat, 0, len(rows))
	for _, r := range rows {
		stats = append(stats, UsageStat{
			Name:     r.Str(key),
			Runs:     r.Int("runs"),
			Sessions: r.Int("sessions"),
		})
	}
	return stats
}

func dayOf(created string) string {
	if len(created) < 10 {
		return ""
	}
	return created[:10]
}

// stringifyJSON renders a structured payload value as compact JSON.
func stringifyJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
