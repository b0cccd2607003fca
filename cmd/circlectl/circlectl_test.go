package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
)

func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

const ratingsJSON = `[
	{"scored_date": "2025-02-18", "reach": 2, "connect": 4},
	{"scored_date": "2025-02-25", "reach": 3, "connect": 4},
	{"scored_date": "2025-03-04", "reach": 4, "connect": 4},
	{"scored_date": "2025-03-11", "reach": 5}
]`

func writeRatings(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ratings.json")
	require.NoError(t, os.WriteFile(path, []byte(ratingsJSON), 0o600))
	return path
}

func TestDueDatesCommand(t *testing.T) {
	t.Run("Success: Clamped monthly series", func(t *testing.T) {
		out, err := execute(t, "due-dates", "2025-01-31", "monthly", "2025-04-30")
		require.NoError(t, err)
		assert.Equal(t, "Every month, starting 2025-01-31\n2025-02-28\n2025-03-28\n2025-04-28\n", out)
	})

	t.Run("Success: Interval", func(t *testing.T) {
		out, err := execute(t, "due-dates", "2025-03-01", "weekly", "2025-03-31", "--interval", "2")
		require.NoError(t, err)
		assert.Contains(t, out, "Every 2 weeks")
		assert.Contains(t, out, "2025-03-15\n2025-03-29\n")
	})

	t.Run("Success: Horizon before first occurrence", func(t *testing.T) {
		out, err := execute(t, "due-dates", "2025-03-01", "yearly", "2025-12-31")
		require.NoError(t, err)
		assert.Contains(t, out, "No occurrences")
	})

	t.Run("Fail: Unknown rule", func(t *testing.T) {
		_, err := execute(t, "due-dates", "2025-03-01", "hourly", "2025-03-31")
		assert.ErrorIs(t, err, domain.ErrInvalidRepeatRule)
	})

	t.Run("Fail: Zero interval", func(t *testing.T) {
		_, err := execute(t, "due-dates", "2025-03-01", "daily", "2025-03-31", "-i", "0")
		assert.ErrorIs(t, err, domain.ErrInvalidInterval)
	})
}

func TestTrendsCommand(t *testing.T) {
	path := writeRatings(t)

	t.Run("Success: Text table", func(t *testing.T) {
		out, err := execute(t, "trends", path, "--today", "2025-03-12")
		require.NoError(t, err)
		assert.Contains(t, out, "Weeks: 2025-02-22 to 2025-03-08 (3)")
		assert.Contains(t, out, "Strong Growth")
		assert.Contains(t, out, "Stable")
	})

	t.Run("Success: JSON", func(t *testing.T) {
		out, err := execute(t, "trends", path, "--today", "2025-03-12", "--format", "json")
		require.NoError(t, err)

		var trends domain.WeeklyTrends
		require.NoError(t, json.Unmarshal([]byte(out), &trends))
		assert.Len(t, trends.AllWeeks, 3)
		require.NotNil(t, trends.Reach.CurrentValue)
		assert.Equal(t, 4.0, *trends.Reach.CurrentValue)
		assert.Equal(t, 1.0, trends.Reach.TrendSlope)
	})

	t.Run("Success: YAML with current week", func(t *testing.T) {
		out, err := execute(t, "trends", path, "--today", "2025-03-12", "-f", "yaml", "--include-current", "--max-weeks", "2")
		require.NoError(t, err)

		var trends domain.WeeklyTrends
		require.NoError(t, yaml.Unmarshal([]byte(out), &trends))
		assert.Equal(t, []string{"2025-03-08", "2025-03-15"}, trends.AllWeeks)
		assert.Equal(t, 5.0, *trends.Reach.CurrentValue)
	})

	t.Run("Fail: Unknown format", func(t *testing.T) {
		_, err := execute(t, "trends", path, "--format", "xml")
		assert.ErrorContains(t, err, "unknown format")
	})

	t.Run("Fail: Missing file", func(t *testing.T) {
		_, err := execute(t, "trends", filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})
}

type fakeDigests struct {
	users []*domain.User
	sent  map[string]bool
	errs  map[string]error
}

func (f *fakeDigests) Recipients(ctx context.Context) ([]*domain.User, error) {
	return f.users, nil
}

func (f *fakeDigests) SendTo(ctx context.Context, userID string) (bool, error) {
	return f.sent[userID], f.errs[userID]
}

func TestSendDigests(t *testing.T) {
	svc := &fakeDigests{
		users: []*domain.User{
			{ID: "u1", Email: "a@example.com", DigestEnabled: true},
			{ID: "u2", Email: "b@example.com", DigestEnabled: true},
			{ID: "u3", Email: "c@example.com", DigestEnabled: true},
			{ID: "u4", Email: "invalid", DigestEnabled: true},
		},
		sent: map[string]bool{"u1": true},
		errs: map[string]error{"u3": errors.New("mailbox full")},
	}

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	summary, err := sendDigests(context.Background(), cmd, svc)
	require.NoError(t, err)
	assert.Equal(t, digestSummary{Sent: 1, Skipped: 2, Failed: 1}, summary)
	assert.Contains(t, out.String(), "sent     a@example.com")
	assert.Contains(t, out.String(), "c@example.com: mailbox full")
}
