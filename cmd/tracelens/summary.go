package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentica-ai/tracelens/internal/formatter"
	"github.com/agentica-ai/tracelens/internal/session"
)

var summaryDays int

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Weekly activity summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		since := session.DaysAgo(summaryDays)
		daily, err := a.store.Activity(ctx, since)
		if err != nil {
			return err
		}
		topTools, err := a.store.TopTools(ctx, since)
		if err != nil {
			return err
		}

		if a.jsonOut() {
			return formatter.JSON(os.Stdout, map[string]any{
				"daily":     daily,
				"top_tools": topTools,
			})
		}

		fmt.Println("## Weekly Summary")
		fmt.Println()
		fmt.Println("### Daily Activity")
		t := formatter.NewTable(os.Stdout, "Day", "Sessions", "Tool Calls")
		for _, d := range daily {
			t.AddRow(d.Day, fmt.Sprintf("%d", d.Sessions), fmt.Sprintf("%d", d.ToolCalls))
		}
		if err := t.Render(); err != nil {
			return err
		}

		if len(topTools) > 0 {
			fmt.Println()
			fmt.Println("### Top Tools")
			for _, tool := range topTools {
				fmt.Printf("- %s: %d\n", tool.Name, tool.Count)
			}
		}
		return nil
	},
}

func init() {
	summaryCmd.Flags().IntVar(&summaryDays, "days", 7, "Look-back window in days")
	rootCmd.AddCommand(summaryCmd)
}
