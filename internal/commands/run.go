package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/slms-dev/ledgercheck/internal/balances"
	"github.com/slms-dev/ledgercheck/internal/invariant"
	"github.com/slms-dev/ledgercheck/internal/ledgerclient"
	"github.com/slms-dev/ledgercheck/internal/report"
	"github.com/slms-dev/ledgercheck/internal/scenario"
	"github.com/slms-dev/ledgercheck/pkg/config"
	"github.com/slms-dev/ledgercheck/pkg/database"
)

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full scenario pipeline against the live ledger",
		Long: `Authenticates against the ledger API, executes the accounting
scenarios in order, cross-validates the trial balance against the general
ledger, prints the report and writes the JSON run artifact.

Exits non-zero if any scenario fails or if the ledger API or database is
unreachable.`,
		RunE: runHarness,
	}
}

func runHarness(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Logs go to stderr; stdout is reserved for the rendered report.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil)).With(
		slog.String("run_id", uuid.NewString()),
	)

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Connectivity failures are fatal before any scenario executes.
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to ledger database: %w", err)
	}
	defer pool.Close()
	logger.Info("database connection established")

	reader := balances.NewPgxBalanceReader(pool, cfg.CompanyID, cfg.DBTimeout)
	if err := reader.Ping(ctx); err != nil {
		return err
	}

	client := ledgerclient.New(cfg.APIBaseURL, cfg.HTTPTimeout, logger)
	if err := client.Login(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("failed to authenticate against ledger API: %w", err)
	}

	fixture := scenario.DefaultFixture()
	if cfg.FixturePath != "" {
		fixture, err = scenario.LoadFixture(cfg.FixturePath)
		if err != nil {
			return fmt.Errorf("failed to load fixture %s: %w", cfg.FixturePath, err)
		}
		logger.Info("loaded fixture overrides", slog.String("path", cfg.FixturePath))
	}

	env := &scenario.Env{
		Ledger:   client,
		Balances: reader,
		Check:    invariant.NewChecker(decimal.NewFromFloat(cfg.Tolerance)),
		Fixture:  fixture,
		Logger:   logger,
	}

	recorder := report.NewRecorder()
	summary := scenario.NewRunner(env, recorder).Run(ctx)

	fmt.Fprint(cmd.OutOrStdout(), recorder.Render())

	if err := recorder.WriteFile(cfg.ResultsPath); err != nil {
		return err
	}
	logger.Info("results written", slog.String("path", cfg.ResultsPath))

	if !recorder.AllPassed() {
		return fmt.Errorf("%d of %d scenarios failed", summary.Failed, summary.Total)
	}
	return nil
}
