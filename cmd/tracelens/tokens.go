package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentica-ai/tracelens/internal/formatter"
	"github.com/agentica-ai/tracelens/internal/session"
)

var tokensDays int

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Token usage trends",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		trends, err := a.store.TokenTrends(ctx, session.DaysAgo(tokensDays))
		if err != nil {
			return err
		}
		if len(trends) == 0 {
			fmt.Println("No token data found")
			return nil
		}

		if a.jsonOut() {
			return formatter.JSON(os.Stdout, trends)
		}

		fmt.Printf("## Token Trends (Last %d Days)\n\n", tokensDays)
		t := formatter.NewTable(os.Stdout, "Day", "Sessions", "Tokens")
		for _, d := range trends {
			t.AddRow(d.Day, fmt.Sprintf("%d", d.Sessions), formatter.Tokens(d.Tokens))
		}
		return t.Render()
	},
}

func init() {
	tokensCmd.Flags().IntVar(&tokensDays, "days", 7, "Look-back window in days")
	rootCmd.AddCommand(tokensCmd)
}
