package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
)

var dueDatesCmd = &cobra.Command{
	Use:   "due-dates <start> <rule> <until>",
	Short: "Print the due dates a recurring to-do would generate",
	Long: `Print every due date after <start> up to and including <until> for the
given repeat rule (daily, weekly, monthly or yearly). Dates are YYYY-MM-DD.
Month-end starts are clamped and stay clamped: Jan 31 monthly gives Feb 28,
Mar 28, Apr 28.`,
	Example: "  circlectl due-dates 2025-01-31 monthly 2025-06-30\n  circlectl due-dates 2025-03-01 weekly 2025-04-30 --interval 2",
	Args:    cobra.ExactArgs(3),
	RunE:    runDueDates,
}

func init() {
	rootCmd.AddCommand(dueDatesCmd)
	dueDatesCmd.Flags().IntP("interval", "i", 1, "Repeat every N units")
}

func runDueDates(cmd *cobra.Command, args []string) error {
	interval, _ := cmd.Flags().GetInt("interval")

	dates, err := domain.GenerateDueDateStrings(args[0], args[1], interval, args[2])
	if err != nil {
		return err
	}
	rule, err := domain.ParseRepeatRule(args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s, starting %s\n", domain.BuildRepeatLabel(rule, interval), args[0])
	if len(dates) == 0 {
		fmt.Fprintln(out, "No occurrences before the horizon.")
		return nil
	}
	for _, d := range dates {
		fmt.Fprintln(out, d)
	}
	return nil
}
