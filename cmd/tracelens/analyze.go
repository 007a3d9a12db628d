package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentica-ai/tracelens/internal/formatter"
	"github.com/agentica-ai/tracelens/internal/session"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the most recent session",
	Long: `Analyze the most recent session: span count, token total, and the
tool, agent, and skill breakdowns.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		return runAnalyze(ctx, a)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

type analysisReport struct {
	Session session.Summary     `json:"session"`
	Tokens  int                 `json:"total_tokens"`
	Tools   []session.NameCount `json:"tools,omitempty"`
	Agents  []session.NameCount `json:"agents,omitempty"`
	Skills  []session.NameCount `json:"skills,omitempty"`
}

func runAnalyze(ctx context.Context, a *app) error {
	latest, err := a.store.Latest(ctx)
	if err != nil {
		return err
	}
	if latest == nil {
		fmt.Println("No sessions found")
		return nil
	}

	tools, err := a.store.ToolCounts(ctx, latest.ID)
	if err != nil {
		return err
	}
	agents, err := a.store.AgentCounts(ctx, latest.ID)
	if err != nil {
		return err
	}
	skills, err := a.store.SkillCounts(ctx, latest.ID)
	if err != nil {
		return err
	}
	tokens, err := a.store.TotalTokens(ctx, latest.ID)
	if err != nil {
		return err
	}

	report := analysisReport{Session: *latest, Tokens: tokens, Tools: tools, Agents: agents, Skills: skills}
	if a.jsonOut() {
		return formatter.JSON(os.Stdout, report)
	}

	fmt.Println("## Session Analysis")
	fmt.Printf("**ID:** `%s`\n", formatter.ShortID(latest.ID, 8))
	fmt.Printf("**Started:** %s\n", latest.Started)
	fmt.Printf("**Spans:** %d\n", latest.SpanCount)
	if tokens > 0 {
		fmt.Printf("**Tokens:** %s\n", formatter.Tokens(tokens))
	}

	if len(tools) > 0 {
		fmt.Println("\n### Tool Usage")
		for i, t := range tools {
			if i == 7 {
				break
			}
			fmt.Printf("- %s: %d\n", t.Name, t.Count)
		}
	}
	if len(agents) > 0 {
		fmt.Println("\n### Agents Spawned")
		for _, t := range agents {
			fmt.Printf("- %s: %d\n", t.Name, t.Count)
		}
	}
	if len(skills) > 0 {
		fmt.Println("\n### Skills Activated")
		for _, t := range skills {
			fmt.Printf("- %s: %d\n", t.Name, t.Count)
		}
	}
	return nil
}
