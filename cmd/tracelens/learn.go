package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentica-ai/tracelens/internal/artifacts"
	"github.com/agentica-ai/tracelens/internal/config"
	"github.com/agentica-ai/tracelens/internal/formatter"
	"github.com/agentica-ai/tracelens/internal/judge"
	"github.com/agentica-ai/tracelens/internal/precedent"
)

var learnCmd = &cobra.Command{
	Use:   "learn [session-id]",
	Short: "Extract learnings from a session",
	Long: `Extract learnings from a session trace with an LLM judge and save
them under the learnings cache. Defaults to the most recent session; a
session ID may be a unique prefix.

The trace is enriched with hierarchical context (handoff and ledger) from
the context graph when available, and each span field is truncated to a
dynamic per-field budget so the whole prompt fits the model's window.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		var id string
		if len(args) == 1 {
			id, err = a.store.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if id == "" {
				return fmt.Errorf("session not found: %s", args[0])
			}
		} else {
			latest, err := a.store.Latest(ctx)
			if err != nil {
				return err
			}
			if latest == nil {
				fmt.Println("No sessions found")
				return nil
			}
			id = latest.ID
		}

		spans, err := a.store.Spans(ctx, id)
		if err != nil {
			return err
		}
		if len(spans) == 0 {
			fmt.Printf("No data for session: %s\n", id)
			return nil
		}

		graph := precedent.NewGraph(a.cfg.Graph.Command, logger)
		hier := graph.Hierarchical(ctx, id)

		var handoffContent, ledgerContent string
		if hier.Handoff != nil {
			handoffContent = hier.Handoff.Content
			fmt.Fprintf(os.Stderr, "  Found handoff: %s\n", hier.Handoff.SessionName)
		}
		if hier.Ledger != nil {
			ledgerContent = hier.Ledger.Content
			fmt.Fprintf(os.Stderr, "  Found ledger: %s\n", hier.Ledger.SessionName)
		}

		hierContext := judge.HierarchicalContext(handoffContent, ledgerContent)
		perField := a.cfg.Budget.PerField(len(spans), len(hierContext))
		fmt.Fprintf(os.Stderr, "  Spans: %d, budget: %d chars/field\n", len(spans), perField)

		trace := judge.FormatTrace(id, spans, perField)
		full := trace
		if hierContext != "" {
			full = hierContext + "\n" + trace
		}

		content, err := a.judge().ExtractLearnings(ctx, full)
		if err != nil {
			return err
		}

		dir := config.InProjectDir(a.cfg.Paths.LearningsDir)
		path, err := artifacts.SaveLearnings(dir, id, content, time.Now())
		if err != nil {
			return err
		}

		if a.jsonOut() {
			return formatter.JSON(os.Stdout, map[string]string{
				"session_id": id,
				"file":       path,
				"learnings":  content,
			})
		}

		fmt.Printf("Learnings saved to: %s\n", path)
		fmt.Println("\n" + content)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(learnCmd)
}
