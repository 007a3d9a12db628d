package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/agentica-ai/tracelens/internal/config"
	"github.com/agentica-ai/tracelens/internal/formatter"
)

var reviewSessionID string

var reviewCmd = &cobra.Command{
	Use:   "review <plan-file>",
	Short: "Review an implementation against its plan",
	Long: `Compare a plan (intent) against the working tree's git diff
(reality), with session tool usage as context. Exits non-zero when the
verdict is FAIL.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newLocalApp()
		if err != nil {
			return err
		}

		planPath := args[0]
		planContent, err := readPlan(planPath)
		if err != nil {
			return err
		}

		diffContent := gitDiff()

		sessionSummary := "Session data not provided"
		if reviewSessionID != "" {
			sessionSummary = fmt.Sprintf("Session %s - see trace logs for details",
				formatter.ShortID(reviewSessionID, 8))
		}

		result, err := a.judge().ReviewImplementation(ctx, planContent, diffContent, sessionSummary)
		if err != nil {
			return err
		}
		result.File = planPath
		result.SessionID = reviewSessionID

		if a.jsonOut() {
			if err := formatter.JSON(os.Stdout, result); err != nil {
				return err
			}
		} else {
			p0 := result.P0Gaps()
			fmt.Println("\n## Implementation Review")
			fmt.Printf("**Plan:** %s\n", planPath)
			fmt.Printf("**Verdict:** %s\n", result.Verdict.Verdict)
			fmt.Printf("**Gaps:** %d total (%d blocking)\n", len(result.Gaps), len(p0))
			if result.Summary != "" {
				fmt.Printf("\n**Summary:** %s\n", result.Summary)
			}
			printGaps(result.Gaps)
			printScopeCreep(result.Raw)

			if result.Verdict.Verdict == "FAIL" {
				fmt.Printf("\n**Action Required:** Address %d P0 gap(s) before proceeding\n", len(p0))
			} else {
				fmt.Println("\n**Ready for:** Handoff creation")
			}
		}

		if result.Verdict.Verdict == "FAIL" {
			return fmt.Errorf("review failed: %d blocking gap(s)", len(result.P0Gaps()))
		}
		return nil
	},
}

// gitDiff captures the working tree's uncommitted changes. Diff failures are
// reported inline rather than aborting the review.
func gitDiff() string {
	cmd := exec.Command("git", "diff", "HEAD")
	cmd.Dir = config.ProjectDir()
	out, err := cmd.Output()
	if err != nil {
		return fmt.Sprintf("(could not get diff: %v)", err)
	}
	if len(out) == 0 {
		return "(no uncommitted changes)"
	}
	return string(out)
}

// printScopeCreep lists diff content the plan never asked for, when the
// judge reported any.
func printScopeCreep(raw map[string]any) {
	items, ok := raw["scope_creep"].([]any)
	if !ok || len(items) == 0 {
		return
	}
	fmt.Println("\n### Scope Creep (in diff but not in plan)")
	for _, item := range items {
		fmt.Printf("  - %v\n", item)
	}
}

func init() {
	reviewCmd.Flags().StringVar(&reviewSessionID, "session", "", "Session ID providing implementation context")
	rootCmd.AddCommand(reviewCmd)
}
