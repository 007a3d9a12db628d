package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentica-ai/tracelens/internal/formatter"
	"github.com/agentica-ai/tracelens/internal/session"
)

var statsDays int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Agent and skill usage statistics",
}

var statsAgentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Agent usage across recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		stats, err := a.store.AgentStats(ctx, session.DaysAgo(statsDays))
		if err != nil {
			return err
		}
		if len(stats) == 0 {
			fmt.Printf("No agent data found (last %d days)\n", statsDays)
			return nil
		}
		if a.jsonOut() {
			return formatter.JSON(os.Stdout, stats)
		}
		return printUsageTable(fmt.Sprintf("## Agent Usage (Last %d Days)", statsDays), "Agent", "Runs", stats)
	},
}

var statsSkillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Skill usage across recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		stats, err := a.store.SkillStats(ctx, session.DaysAgo(statsDays))
		if err != nil {
			return err
		}
		if len(stats) == 0 {
			fmt.Printf("No skill data found (last %d days)\n", statsDays)
			return nil
		}
		if a.jsonOut() {
			return formatter.JSON(os.Stdout, stats)
		}
		return printUsageTable(fmt.Sprintf("## Skill Usage (Last %d Days)", statsDays), "Skill", "Activations", stats)
	},
}

func printUsageTable(title, nameHeader, runsHeader string, stats []session.UsageStat) error {
	fmt.Println(title)
	fmt.Println()
	t := formatter.NewTable(os.Stdout, nameHeader, runsHeader, "Sessions")
	for _, s := range stats {
		t.AddRow(s.Name, fmt.Sprintf("%d", s.Runs), fmt.Sprintf("%d", s.Sessions))
	}
	return t.Render()
}

func init() {
	statsCmd.PersistentFlags().IntVar(&statsDays, "days", 7, "Look-back window in days")
	statsCmd.AddCommand(statsAgentsCmd)
	statsCmd.AddCommand(statsSkillsCmd)
	rootCmd.AddCommand(statsCmd)
}
