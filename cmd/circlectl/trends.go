package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
)

var trendsCmd = &cobra.Command{
	Use:   "trends <ratings.json>",
	Short: "Compute the weekly trend report from exported ratings",
	Long: `Read a JSON array of ratings and print the per-dimension weekly trend.

Each rating looks like {"scored_date": "2025-03-04", "reach": 4, "connect": 3}.
Weeks run Sunday to Saturday in US Central time (UTC-6). Unless
--include-current is set, the week that has not finished yet is left out.
Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrends,
}

func init() {
	rootCmd.AddCommand(trendsCmd)
	trendsCmd.Flags().StringP("format", "f", "text", "Output format: text, json or yaml")
	trendsCmd.Flags().Int("max-weeks", 0, "Keep only the most recent N weeks (0 keeps all)")
	trendsCmd.Flags().Bool("include-current", false, "Include the week still in progress")
	trendsCmd.Flags().String("today", "", "Reference date (YYYY-MM-DD) instead of the current day")
}

func readRatings(cmd *cobra.Command, path string) ([]domain.Rating, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var ratings []domain.Rating
	if err := json.NewDecoder(r).Decode(&ratings); err != nil {
		return nil, fmt.Errorf("decode ratings: %w", err)
	}
	return ratings, nil
}

func runTrends(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	maxWeeks, _ := cmd.Flags().GetInt("max-weeks")
	includeCurrent, _ := cmd.Flags().GetBool("include-current")
	today, _ := cmd.Flags().GetString("today")

	if maxWeeks < 0 {
		return fmt.Errorf("--max-weeks must not be negative")
	}

	now := time.Now()
	if today != "" {
		d, err := domain.ParseDate(today)
		if err != nil {
			return fmt.Errorf("--today: %w", err)
		}
		// Noon at UTC-6 is the same calendar day in Central time.
		now = d.Add(18 * time.Hour)
	}

	ratings, err := readRatings(cmd, args[0])
	if err != nil {
		return err
	}

	trends := domain.ComputeWeeklyTrends(ratings, domain.TrendOptions{
		MaxWeeks:           maxWeeks,
		IncludeCurrentWeek: includeCurrent,
		Now:                now,
	})

	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(trends)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(trends); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		return printTrends(out, trends)
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

var sentimentColors = map[domain.Sentiment]*color.Color{
	domain.SentimentPositive: color.New(color.FgGreen, color.Bold),
	domain.SentimentNeutral:  color.New(color.FgYellow),
	domain.SentimentNegative: color.New(color.FgRed, color.Bold),
}

func formatValue(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

func formatDelta(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%+.1f", *v)
}

func printTrends(out io.Writer, trends domain.WeeklyTrends) error {
	if len(trends.AllWeeks) == 0 {
		fmt.Fprintln(out, "No completed weeks with ratings.")
		return nil
	}

	fmt.Fprintf(out, "Weeks: %s to %s (%d)\n\n", trends.AllWeeks[0], trends.AllWeeks[len(trends.AllWeeks)-1], len(trends.AllWeeks))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DIMENSION\tCURRENT\tPREVIOUS\tCHANGE\tSLOPE\tTREND")
	for _, d := range domain.Dimensions {
		c := trends.Category(d)
		label := fmt.Sprintf("%s %s", c.Trend.Icon, c.Trend.Text)
		if paint, ok := sentimentColors[c.Trend.Sentiment]; ok {
			label = paint.Sprint(label)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%s\n",
			d, formatValue(c.CurrentValue), formatValue(c.PreviousValue), formatDelta(c.WeekOverWeekDelta), c.TrendSlope, label)
	}
	return w.Flush()
}
