// Package artifacts persists judge outputs (learnings reports, plan reviews)
// under the cache directory tree.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SaveLearnings writes a learnings report for a session. The filename embeds
// the ISO date and the session identifier. Returns the written path.
func SaveLearnings(dir, sessionID, content string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create learnings dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.md", now.Format("2006-01-02"), sessionID))

	var b strings.Builder
	fmt.Fprintf(&b, "# Learnings from Session %s\n\n", sessionID)
	fmt.Fprintf(&b, "**Date:** %s\n\n", now.Format("2006-01-02 15:04:05"))
	b.WriteString(content)

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write learnings: %w", err)
	}
	return path, nil
}

// SaveReview writes a plan-review report. The filename embeds a timestamp
// and the source plan's base name. Returns the written path.
func SaveReview(dir, planPath, content string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create reviews dir: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(planPath), filepath.Ext(planPath))
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.md", now.Format("2006-01-02_15-04-05"), base))

	if err := os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write review: %w", err)
	}
	return path, nil
}
