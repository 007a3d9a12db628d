package judge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentica-ai/tracelens/internal/proxy"
)

// fakeCompleter returns a canned completion and records the last request.
type fakeCompleter struct {
	text string
	err  error
	last proxy.Request
}

func (f *fakeCompleter) Complete(ctx context.Context, req proxy.Request) (*proxy.Completion, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &proxy.Completion{Text: f.text, FinishReason: "stop"}, nil
}

func TestNewDefaults(t *testing.T) {
	j := New(&fakeCompleter{}, "", 0, nil)
	assert.Equal(t, DefaultModel, j.model)
	assert.Equal(t, DefaultMaxTokens, j.maxTokens)
	assert.NotNil(t, j.logger)
}

func TestScorePlan(t *testing.T) {
	fake := &fakeCompleter{text: `{"verdict": "PASS", "gaps": [], "summary": "complete plan"}`}
	j := New(fake, "test-model", 100, nil)

	result, err := j.ScorePlan(context.Background(), "# My Plan\ndo things")
	require.NoError(t, err)

	assert.Equal(t, "plan_quality", result.Scorer)
	assert.Equal(t, "PASS", result.Verdict.Verdict)
	assert.NotEmpty(t, result.RunID)

	// The plan content is substituted into the prompt, and sampling is
	// deterministic.
	require.Len(t, fake.last.Messages, 1)
	assert.Contains(t, fake.last.Messages[0].Content, "# My Plan")
	assert.Equal(t, "test-model", fake.last.Model)
	assert.Zero(t, fake.last.Temperature)
	assert.Equal(t, 100, fake.last.MaxTokens)
}

func TestReviewImplementation(t *testing.T) {
	fake := &fakeCompleter{text: `{"verdict": "FAIL", "gaps": [{"severity": "P0", "requirement": "migrations"}], "summary": "missing migrations"}`}
	j := New(fake, "", 0, nil)

	result, err := j.ReviewImplementation(context.Background(), "plan text", "diff text", "session summary")
	require.NoError(t, err)

	assert.Equal(t, "implementation_review", result.Scorer)
	assert.Equal(t, "FAIL", result.Verdict.Verdict)
	assert.Len(t, result.P0Gaps(), 1)

	prompt := fake.last.Messages[0].Content
	assert.Contains(t, prompt, "plan text")
	assert.Contains(t, prompt, "diff text")
	assert.Contains(t, prompt, "session summary")
}

func TestJudgePlanWithPrecedent(t *testing.T) {
	fake := &fakeCompleter{text: `{"verdict": "PASS", "gaps": [], "summary": "grounded in precedent"}`}
	j := New(fake, "", 0, nil)

	result, err := j.JudgePlanWithPrecedent(context.Background(), "the plan", "won before", "lost before")
	require.NoError(t, err)

	assert.Equal(t, "precedent_judge", result.Scorer)

	prompt := fake.last.Messages[0].Content
	assert.Contains(t, prompt, "won before")
	assert.Contains(t, prompt, "lost before")
}

func TestRunDistinctRunIDs(t *testing.T) {
	fake := &fakeCompleter{text: `{"verdict": "PASS", "gaps": [], "summary": "s"}`}
	j := New(fake, "", 0, nil)

	first, err := j.ScorePlan(context.Background(), "p")
	require.NoError(t, err)
	second, err := j.ScorePlan(context.Background(), "p")
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRunCompleterError(t *testing.T) {
	wantErr := errors.New("proxy down")
	j := New(&fakeCompleter{err: wantErr}, "", 0, nil)

	_, err := j.ScorePlan(context.Background(), "p")
	assert.ErrorIs(t, err, wantErr)
}

func TestRunMalformedVerdict(t *testing.T) {
	j := New(&fakeCompleter{text: "I refuse to answer in JSON."}, "", 0, nil)

	_, err := j.ScorePlan(context.Background(), "p")
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestExtractLearnings(t *testing.T) {
	fake := &fakeCompleter{text: "## What Worked\n- incremental fixes"}
	j := New(fake, "", 0, nil)

	got, err := j.ExtractLearnings(context.Background(), "# Session Trace: abc\n...")
	require.NoError(t, err)

	// Free-form markdown comes back verbatim, no verdict decoding.
	assert.Equal(t, "## What Worked\n- incremental fixes", got)
	assert.Contains(t, fake.last.Messages[0].Content, "# Session Trace: abc")
}

func TestFillPrompt(t *testing.T) {
	got := fillPrompt("plan: {plan_content}, diff: {diff_content}", map[string]string{
		"plan_content": "P",
		"diff_content": "D",
	})
	assert.Equal(t, "plan: P, diff: D", got)
}
