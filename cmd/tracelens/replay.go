package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentica-ai/tracelens/internal/formatter"
	"github.com/agentica-ai/tracelens/internal/session"
)

// replayFieldLimit caps each displayed input/output field.
const replayFieldLimit = 200

var replayCmd = &cobra.Command{
	Use:   "replay <session-id>",
	Short: "Replay a session's spans in order",
	Long: `Replay a session span by span, showing inputs and outputs truncated
for the terminal. The session ID may be a unique prefix.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		id, err := a.store.Resolve(ctx, args[0])
		if err != nil {
			return err
		}
		if id == "" {
			return fmt.Errorf("session not found: %s", args[0])
		}

		spans, err := a.store.Spans(ctx, id)
		if err != nil {
			return err
		}
		if len(spans) == 0 {
			fmt.Printf("No data for session: %s\n", id)
			return nil
		}

		if a.jsonOut() {
			return formatter.JSON(os.Stdout, spans)
		}

		fmt.Printf("## Session Replay: `%s`\n\n", formatter.ShortID(id, 12))
		for i, s := range spans {
			fmt.Printf("%3d. %s**%s** (%s)\n", i+1, s.Prefix(), s.Name, s.Type)

			switch s.Type {
			case session.SpanLLM, session.SpanTool:
				printReplayField("Input", s.Input)
				printReplayField("Output", s.Output)
			case session.SpanTask:
				printReplayField("Message", s.Input)
			}

			if len(s.ToolCalls) > 0 {
				fmt.Printf("     Tool calls: %d\n", len(s.ToolCalls))
				for j, tc := range s.ToolCalls {
					if j == 3 {
						break
					}
					fmt.Printf("       - %s\n", tc.Name)
				}
			}
			fmt.Println()
		}
		return nil
	},
}

func printReplayField(label, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	fmt.Printf("     %s: %s\n", label, formatter.Clip(text, replayFieldLimit))
}

func init() {
	rootCmd.AddCommand(replayCmd)
}
