package judge

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agentica-ai/tracelens/internal/proxy"
)

// Default sampling parameters. Temperature is always zero: judges must be
// deterministic reviewers, not creative writers.
const (
	DefaultModel     = "gpt-5.2-2025-12-11"
	DefaultMaxTokens = 16_000
)

// Completer issues one chat-completion request. *proxy.Client satisfies it;
// tests substitute fakes.
type Completer interface {
	Complete(ctx context.Context, req proxy.Request) (*proxy.Completion, error)
}

// Result is one judge invocation's outcome: the decoded verdict plus
// invocation metadata.
type Result struct {
	Verdict

	// Scorer names the evaluation that produced this result.
	Scorer string `json:"scorer"`

	// RunID uniquely identifies this invocation.
	RunID string `json:"run_id"`

	// File is the evaluated artifact path, when there is one.
	File string `json:"file,omitempty"`

	// SessionID is the session under review, when there is one.
	SessionID string `json:"session_id,omitempty"`
}

// P0Gaps returns the blocking gaps.
func (r *Result) P0Gaps() []Gap {
	var p0 []Gap
	for _, g := range r.Gaps {
		if g.Severity == "P0" {
			p0 = append(p0, g)
		}
	}
	return p0
}

// Judge runs LLM-as-judge evaluations through a completion endpoint. Model
// and output-size limits are explicit configuration so tests and callers can
// substitute them; there are no package-level mutable defaults.
type Judge struct {
	completer Completer
	model     string
	maxTokens int
	logger    *zap.Logger
}

// New creates a judge. Empty model or zero maxTokens select the defaults.
func New(completer Completer, model string, maxTokens int, logger *zap.Logger) *Judge {
	if model == "" {
		model = DefaultModel
	}
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Judge{completer: completer, model: model, maxTokens: maxTokens, logger: logger}
}

// ScorePlan reviews a plan document for missing required elements.
func (j *Judge) ScorePlan(ctx context.Context, planContent string) (*Result, error) {
	return j.run(ctx, "plan_quality", PlanPrompt, map[string]string{
		"content": planContent,
	})
}

// ReviewImplementation compares a plan (intent) against a code diff
// (reality), with the session's tool usage as context.
func (j *Judge) ReviewImplementation(ctx context.Context, planContent, diffContent, sessionSummary string) (*Result, error) {
	return j.run(ctx, "implementation_review", ReviewPrompt, map[string]string{
		"plan_content":    planContent,
		"diff_content":    diffContent,
		"session_summary": sessionSummary,
	})
}

// JudgePlanWithPrecedent reviews a plan against formatted precedent from
// similar past work that succeeded and failed.
func (j *Judge) JudgePlanWithPrecedent(ctx context.Context, planContent, succeededPrecedent, failedPrecedent string) (*Result, error) {
	return j.run(ctx, "precedent_judge", PrecedentPrompt, map[string]string{
		"plan_content":        planContent,
		"succeeded_precedent": succeededPrecedent,
		"failed_precedent":    failedPrecedent,
	})
}

// ExtractLearnings asks the model for a markdown learnings report over a
// formatted session trace. The response is free-form markdown, so it skips
// the verdict decoder.
func (j *Judge) ExtractLearnings(ctx context.Context, formattedTrace string) (string, error) {
	prompt := fillPrompt(LearnPrompt, map[string]string{"formatted_trace": formattedTrace})
	j.logger.Debug("extracting learnings", zap.Int("prompt_chars", len(prompt)))

	comp, err := j.complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	return comp.Text, nil
}

// run is the fixed judge pipeline: fill the template, make exactly one
// completion call, decode the verdict, attach metadata.
func (j *Judge) run(ctx context.Context, scorer, template string, args map[string]string) (*Result, error) {
	prompt := fillPrompt(template, args)
	runID := uuid.NewString()

	j.logger.Debug("judge call",
		zap.String("scorer", scorer),
		zap.String("run_id", runID),
		zap.Int("prompt_chars", len(prompt)),
	)

	comp, err := j.complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", scorer, err)
	}

	verdict, err := Decode(comp.Text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", scorer, err)
	}

	return &Result{Verdict: *verdict, Scorer: scorer, RunID: runID}, nil
}

func (j *Judge) complete(ctx context.Context, prompt string) (*proxy.Completion, error) {
	return j.completer.Complete(ctx, proxy.Request{
		Model:       j.model,
		Messages:    []proxy.Message{{Role: "user", Content: prompt}},
		Temperature: 0,
		MaxTokens:   j.maxTokens,
	})
}
