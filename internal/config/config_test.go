package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentica-ai/tracelens/internal/judge"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "agentica", cfg.Project)
	assert.Equal(t, "markdown", cfg.Output)
	assert.Equal(t, judge.DefaultModel, cfg.Judge.Model)
	assert.Equal(t, judge.DefaultMaxTokens, cfg.Judge.MaxTokens)
	assert.Equal(t, judge.DefaultBudget(), cfg.Budget)
	assert.Equal(t, "context-graph", cfg.Graph.Command)
	assert.Equal(t, filepath.Join(".claude", "cache", "learnings"), cfg.Paths.LearningsDir)
}

func TestMergePrecedence(t *testing.T) {
	dst := Default()
	merged := merge(dst, &Config{
		Project: "other",
		Judge:   JudgeConfig{Model: "custom-model"},
		Budget:  judge.Budget{MaxPerField: 4000},
	})

	assert.Equal(t, "other", merged.Project)
	assert.Equal(t, "custom-model", merged.Judge.Model)
	assert.Equal(t, 4000, merged.Budget.MaxPerField)

	// Unset override fields keep the base values.
	assert.Equal(t, "markdown", merged.Output)
	assert.Equal(t, judge.DefaultMaxTokens, merged.Judge.MaxTokens)
	assert.Equal(t, judge.DefaultBudget().MinPerField, merged.Budget.MinPerField)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("TRACELENS_PROJECT", "env-project")
	t.Setenv("TRACELENS_OUTPUT", "json")
	t.Setenv("TRACELENS_VERBOSE", "1")
	t.Setenv("TRACELENS_MODEL", "env-model")

	cfg := applyEnv(Default())

	assert.Equal(t, "env-project", cfg.Project)
	assert.Equal(t, "json", cfg.Output)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "env-model", cfg.Judge.Model)
}

func TestLoadProjectConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("project: from-file\nbudget:\n  max_per_field: 6000\n"), 0o644))
	t.Setenv("TRACELENS_CONFIG", path)

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Project)
	assert.Equal(t, 6000, cfg.Budget.MaxPerField)
	assert.Equal(t, judge.DefaultBudget().TotalChars, cfg.Budget.TotalChars)
}

func TestLoadFlagOverridesWin(t *testing.T) {
	t.Setenv("TRACELENS_PROJECT", "env-project")

	cfg, err := Load(&Config{Project: "flag-project"})
	require.NoError(t, err)
	assert.Equal(t, "flag-project", cfg.Project)
}

func TestProjectDir(t *testing.T) {
	t.Setenv("CLAUDE_PROJECT_DIR", "/tmp/proj")
	assert.Equal(t, "/tmp/proj", ProjectDir())
	assert.Equal(t, filepath.Join("/tmp/proj", "plans"), InProjectDir("plans"))
	assert.Equal(t, "/abs/path", InProjectDir("/abs/path"))
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv(APIKeyVar, "sk-test")
	key, err := APIKey()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", key)
}

func TestAPIKeyFromDotEnv(t *testing.T) {
	t.Setenv(APIKeyVar, "")
	os.Unsetenv(APIKeyVar)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte(APIKeyVar+"=sk-from-file\n"), 0o644))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(cwd) })

	key, err := APIKey()
	require.NoError(t, err)
	assert.Equal(t, "sk-from-file", key)
}
