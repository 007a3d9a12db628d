package artifacts

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 8, 20, 14, 30, 5, 0, time.UTC)

func TestSaveLearnings(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "learnings")

	path, err := SaveLearnings(dir, "sess-abc", "## What Worked\n- small steps", testNow)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "2026-08-20_sess-abc.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "# Learnings from Session sess-abc")
	assert.Contains(t, content, "**Date:** 2026-08-20 14:30:05")
	assert.Contains(t, content, "## What Worked\n- small steps")
}

func TestSaveReview(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reviews")

	path, err := SaveReview(dir, "thoughts/shared/plans/2026-08-20-uploader.md", "## Review\nPASS\n\n", testNow)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "2026-08-20_14-30-05_2026-08-20-uploader.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Content is trimmed and ends with exactly one newline.
	assert.Equal(t, "## Review\nPASS\n", string(data))
}

func TestSaveCreatesDirectories(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	_, err := SaveLearnings(dir, "s", "x", testNow)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
