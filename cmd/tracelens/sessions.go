package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentica-ai/tracelens/internal/formatter"
)

var sessionsLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		sessions, err := a.store.Recent(ctx, sessionsLimit)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions found")
			return nil
		}

		if a.jsonOut() {
			return formatter.JSON(os.Stdout, sessions)
		}

		fmt.Printf("## Recent Sessions (%d)\n\n", len(sessions))
		for _, s := range sessions {
			fmt.Printf("**%s**\n", formatter.ShortID(s.ID, 12))
			fmt.Printf("  Started: %s\n", s.Started)
			fmt.Printf("  Spans: %d | Tools: %d\n\n", s.SpanCount, s.ToolCount)
		}
		return nil
	},
}

func init() {
	sessionsCmd.Flags().IntVarP(&sessionsLimit, "limit", "n", 5, "Number of sessions to list")
	rootCmd.AddCommand(sessionsCmd)
}
