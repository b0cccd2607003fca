package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "circlectl",
	Short: "Operator tools for the circle leader engine",
	Long: `circlectl previews recurring to-do schedules, computes scorecard trend
reports from exported ratings and runs the daily digest by hand.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
