package main

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/circle-leader-engine/internal/adapters/email"
	"github.com/comitanigiacomo/circle-leader-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/circle-leader-engine/internal/config"
	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
	"github.com/comitanigiacomo/circle-leader-engine/internal/core/services"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Daily digest operations",
}

var digestRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Send today's digest to every opted-in user now",
	Long: `Connect to the database configured in the environment (or .env) and send
today's digest to every user with digests enabled. Users with nothing due are
skipped. Without EMAIL_API_KEY, or with --dry-run, messages are only logged.`,
	Args: cobra.NoArgs,
	RunE: runDigest,
}

func init() {
	rootCmd.AddCommand(digestCmd)
	digestCmd.AddCommand(digestRunCmd)
	digestRunCmd.Flags().String("env-file", ".env", "Path to an optional .env file")
	digestRunCmd.Flags().Bool("dry-run", false, "Log messages instead of sending them")
}

type digestSender interface {
	Recipients(ctx context.Context) ([]*domain.User, error)
	SendTo(ctx context.Context, userID string) (bool, error)
}

type digestSummary struct {
	Sent, Skipped, Failed int
}

// sendDigests delivers one digest per recipient in turn. A failed recipient
// is reported and does not stop the run.
func sendDigests(ctx context.Context, cmd *cobra.Command, svc digestSender) (digestSummary, error) {
	var summary digestSummary

	users, err := svc.Recipients(ctx)
	if err != nil {
		return summary, fmt.Errorf("list recipients: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, u := range users {
		if !u.CanReceiveDigest() {
			summary.Skipped++
			continue
		}
		sent, err := svc.SendTo(ctx, u.ID)
		switch {
		case err != nil:
			summary.Failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", u.Email, err)
		case sent:
			summary.Sent++
			fmt.Fprintf(out, "sent     %s\n", u.Email)
		default:
			summary.Skipped++
			fmt.Fprintf(out, "skipped  %s (nothing due)\n", u.Email)
		}
	}
	return summary, nil
}

func runDigest(cmd *cobra.Command, args []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	dsn := cfg.Database.DSN()
	if dsn == "" {
		return fmt.Errorf("DB_NAME is not set; digest run needs the database")
	}

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	var sender services.EmailSender = email.LogSender{}
	if cfg.Email.APIKey != "" && !dryRun {
		sender = email.NewResendClient(cfg.Email.BaseURL, cfg.Email.APIKey, cfg.Email.From, cfg.Email.Timeout)
	}

	var links *services.LinkService
	if cfg.Digest.LinkSecret != "" {
		links = services.NewLinkService(cfg.Digest.LinkSecret, "circle-leader-engine", cfg.Digest.LinkTTL)
	}

	clock := domain.SystemClock{}
	digestService := services.NewDigestService(
		repository.NewPostgresUserRepository(db),
		repository.NewPostgresLeaderRepository(db),
		services.NewTodoService(repository.NewPostgresTodoRepository(db), clock),
		sender, links, clock, cfg.Digest.BaseURL,
	)

	summary, err := sendDigests(cmd.Context(), cmd, digestService)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d sent, %d skipped, %d failed\n", summary.Sent, summary.Skipped, summary.Failed)
	if summary.Failed > 0 {
		return fmt.Errorf("%d digests failed", summary.Failed)
	}
	return nil
}
