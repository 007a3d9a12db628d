package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentica-ai/tracelens/internal/artifacts"
	"github.com/agentica-ai/tracelens/internal/config"
	"github.com/agentica-ai/tracelens/internal/formatter"
	"github.com/agentica-ai/tracelens/internal/judge"
	"github.com/agentica-ai/tracelens/internal/precedent"
)

// Precedent retrieval counts: successes show what to repeat, failures plus a
// partial miss show what to avoid.
const (
	succeededPrecedents = 3
	failedPrecedents    = 2
	partialPrecedents   = 1
)

var judgeCmd = &cobra.Command{
	Use:   "judge <plan-file>",
	Short: "Judge a plan against past precedent",
	Long: `Judge a plan using precedent retrieved from the context graph:
similar past work that succeeded and failed. The review is printed and saved
under the reviews cache. Exits non-zero when the verdict is FAIL.`,
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

		succeeded, failed, err := searchPrecedent(a, planContent)
		if err != nil {
			return err
		}

		result, err := a.judge().JudgePlanWithPrecedent(ctx, planContent,
			precedent.Format(succeeded), precedent.Format(failed))
		if err != nil {
			return err
		}
		result.File = planPath

		if a.jsonOut() {
			if err := formatter.JSON(os.Stdout, map[string]any{
				"result": result,
				"precedent_found": map[string]int{
					"succeeded": len(succeeded),
					"failed":    len(failed),
				},
			}); err != nil {
				return err
			}
		} else {
			report := judgeReport(planPath, result, len(succeeded), len(failed))
			fmt.Println("\n" + report)

			dir := config.InProjectDir(a.cfg.Paths.ReviewsDir)
			path, err := artifacts.SaveReview(dir, planPath, report, time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("\nReview saved to: %s\n", path)
		}

		if result.Verdict.Verdict == "FAIL" {
			return fmt.Errorf("plan judged FAIL against past precedent")
		}
		return nil
	},
}

// searchPrecedent retrieves similar past handoffs from the context graph
// database, seeded from the plan's heading and overview.
func searchPrecedent(a *app, planContent string) (succeeded, failed []precedent.Handoff, err error) {
	store, err := precedent.Open(config.InProjectDir(a.cfg.Graph.DBPath))
	if err != nil {
		return nil, nil, err
	}
	defer store.Close()

	seed := judge.SearchSeed(planContent)

	succeeded, err = store.SearchHandoffs(seed, precedent.OutcomeSucceeded, succeededPrecedents)
	if err != nil {
		return nil, nil, err
	}
	failed, err = store.SearchHandoffs(seed, precedent.OutcomeFailed, failedPrecedents)
	if err != nil {
		return nil, nil, err
	}
	partial, err := store.SearchHandoffs(seed, precedent.OutcomePartialMinus, partialPrecedents)
	if err != nil {
		return nil, nil, err
	}
	failed = append(failed, partial...)
	return succeeded, failed, nil
}

// judgeReport renders the review markdown printed to the terminal and saved
// to the reviews cache.
func judgeReport(planPath string, result *judge.Result, succeeded, failed int) string {
	var lines []string
	lines = append(lines, "## Precedent-Enhanced Plan Review")
	lines = append(lines, fmt.Sprintf("**Plan:** %s", planPath))
	lines = append(lines, fmt.Sprintf("**Verdict:** %s", result.Verdict.Verdict))
	lines = append(lines, fmt.Sprintf("**Precedent used:** %d succeeded, %d failed", succeeded, failed))

	if result.Summary != "" {
		lines = append(lines, fmt.Sprintf("\n**Summary:** %s", result.Summary))
	}

	if insights, ok := result.Raw["insights"].([]any); ok && len(insights) > 0 {
		lines = append(lines, "\n### Insights from Past Successes")
		for _, insight := range insights {
			lines = append(lines, fmt.Sprintf("  - %v", insight))
		}
	}

	if len(result.Gaps) > 0 {
		lines = append(lines, "\n### Gaps Found (based on past failures)")
		for _, g := range result.Gaps {
			sev := g.Severity
			if sev == "" {
				sev = "?"
			}
			lines = append(lines, fmt.Sprintf("\n**[%s]:** %s", sev, formatter.Clip(gapText(g), 80)))
			if g.Evidence != "" {
				lines = append(lines, "  Evidence: "+g.Evidence)
			}
		}
	}

	if result.Verdict.Verdict == "FAIL" {
		lines = append(lines, "\n**Action:** Revise plan to address patterns from past failures")
	} else {
		lines = append(lines, "\n**Ready for:** Implementation")
	}
	return strings.Join(lines, "\n")
}

func init() {
	rootCmd.AddCommand(judgeCmd)
}
