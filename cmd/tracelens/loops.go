package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentica-ai/tracelens/internal/formatter"
	"github.com/agentica-ai/tracelens/internal/session"
)

// Loop detection thresholds: a tool called more than loopThreshold times in
// one session is a candidate; only the top loopDisplayLimit are shown.
const (
	loopThreshold    = 5
	loopDisplayLimit = 15
)

var loopsDays int

var loopsCmd = &cobra.Command{
	Use:   "loops",
	Short: "Find sessions with repeated tool calls",
	Long: `Find sessions where the same tool was called many times, a signal
of an agent stuck in a loop.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		candidates, err := a.store.LoopCandidates(ctx, session.DaysAgo(loopsDays))
		if err != nil {
			return err
		}

		var loops []session.LoopCandidate
		for _, c := range candidates {
			if c.CallCount > loopThreshold {
				loops = append(loops, c)
			}
			if len(loops) == loopDisplayLimit {
				break
			}
		}

		if len(loops) == 0 {
			fmt.Printf("No potential loops detected (>%d same tool calls)\n", loopThreshold)
			return nil
		}

		if a.jsonOut() {
			return formatter.JSON(os.Stdout, loops)
		}

		fmt.Printf("## Potential Loops (>%d repeated tool calls)\n\n", loopThreshold)
		for _, l := range loops {
			fmt.Printf("**Session:** `%s`\n", formatter.ShortID(l.SessionID, 8))
			fmt.Printf("  Tool: %s (%dx)\n\n", l.Tool, l.CallCount)
		}
		return nil
	},
}

func init() {
	loopsCmd.Flags().IntVar(&loopsDays, "days", 7, "Look-back window in days")
	rootCmd.AddCommand(loopsCmd)
}
