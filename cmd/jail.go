package cmd

import (
	"context"
	"fmt"

	"dispatch-core/core/broadcast"
	"dispatch-core/core/config"
	"dispatch-core/core/database"
	"dispatch-core/core/logger"
	"dispatch-core/feature/jail"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// jailCmd is the parent command for jail operations.
var jailCmd = &cobra.Command{
	Use:   "jail",
	Short: "Jail maintenance operations",
}

// jailSweepCmd releases every arrest whose sentence is served.
var jailSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Release all arrests past their release time",
	Long: `Scans unreleased arrests and releases every one whose minutes-based
sentence is served. Intended to run from cron between server restarts.`,
	RunE: runJailSweep,
}

func init() {
	jailCmd.AddCommand(jailSweepCmd)
	RootCmd.AddCommand(jailCmd)
}

func runJailSweep(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	svc := jail.NewService(db, broadcast.NewHub(l), l)

	released, err := svc.ReleaseDue(ctx)
	if err != nil {
		return fmt.Errorf("failed to sweep jail: %w", err)
	}

	l.Info("Jail sweep complete", zap.Int("released", released))
	return nil
}
