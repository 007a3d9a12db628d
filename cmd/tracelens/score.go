package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentica-ai/tracelens/internal/config"
	"github.com/agentica-ai/tracelens/internal/formatter"
	"github.com/agentica-ai/tracelens/internal/judge"
)

var scoreCmd = &cobra.Command{
	Use:   "score [plan-file...]",
	Short: "Score plan quality with an LLM judge",
	Long: `Score plan documents for missing required elements. With no
arguments, scores today's plans from the configured plans directory.

Plans have a feedback loop: they can be revised before implementation, so
scoring them is actionable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newLocalApp()
		if err != nil {
			return err
		}

		paths := args
		if len(paths) == 0 {
			paths, err = todaysPlans(a)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				fmt.Println("No plans found for today")
				return nil
			}
		}

		j := a.judge()
		var results []*judge.Result
		for _, path := range paths {
			content, err := readPlan(path)
			if err != nil {
				return err
			}
			result, err := j.ScorePlan(ctx, content)
			if err != nil {
				return fmt.Errorf("score %s: %w", path, err)
			}
			result.File = path
			results = append(results, result)
		}

		if a.jsonOut() {
			return formatter.JSON(os.Stdout, results)
		}

		for _, r := range results {
			fmt.Printf("## Plan Quality: %s\n", r.File)
			fmt.Printf("**Verdict:** %s\n", r.Verdict.Verdict)
			if r.Summary != "" {
				fmt.Printf("**Summary:** %s\n", r.Summary)
			}
			printGaps(r.Gaps)
			fmt.Println()
		}
		return nil
	},
}

// todaysPlans lists plan files in the plans directory whose names start with
// today's date.
func todaysPlans(a *app) ([]string, error) {
	dir := config.InProjectDir(a.cfg.Paths.PlansDir)
	today := time.Now().Format("2006-01-02")

	matches, err := filepath.Glob(filepath.Join(dir, today+"*.md"))
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return matches, nil
}

func printGaps(gaps []judge.Gap) {
	if len(gaps) == 0 {
		return
	}
	fmt.Println("\n### Gaps Found")
	for _, g := range gaps {
		sev := g.Severity
		if sev == "" {
			sev = "?"
		}
		status := g.Status
		if status == "" {
			status = "?"
		}
		fmt.Printf("\n**[%s] %s:** %s\n", sev, status, formatter.Clip(gapText(g), 80))
		if g.Evidence != "" {
			fmt.Printf("  Evidence: %s\n", g.Evidence)
		}
		if fix := gapFix(g); fix != "" {
			fmt.Printf("  Fix: %s\n", fix)
		}
	}
}

// gapText picks the gap's description line. The review prompts emit
// "requirement", the plan-quality prompt emits "description".
func gapText(g judge.Gap) string {
	if g.Requirement != "" {
		return g.Requirement
	}
	return g.Description
}

// gapFix picks the gap's fix line, "fix_action" over "fix_suggestion".
func gapFix(g judge.Gap) string {
	if g.FixAction != "" {
		return g.FixAction
	}
	return g.FixSuggestion
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
