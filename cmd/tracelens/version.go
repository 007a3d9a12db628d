package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the tracelens version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tracelens %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
