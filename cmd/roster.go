package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"dispatch-core/core/broadcast"
	"dispatch-core/core/config"
	"dispatch-core/core/database"
	"dispatch-core/core/logger"
	"dispatch-core/feature/units"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rosterCmd prints the current active-unit roster.
var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Print the active unit roster",
	Long:  `Loads the active LEO and EMS/FD roster from the database and prints it as JSON.`,
	RunE:  runRoster,
}

func init() {
	RootCmd.AddCommand(rosterCmd)
}

func runRoster(cmd *cobra.Command, args []string) error {
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

	// A hub with no subscribers satisfies the publisher dependency.
	svc := units.NewService(db, broadcast.NewHub(l), l)

	snap, err := svc.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}

	l.Info("Roster loaded",
		zap.Int("officers", len(snap.Officers)),
		zap.Int("deputies", len(snap.Deputies)),
		zap.Int("combined_units", len(snap.CombinedUnits)),
		zap.Int("combined_ems_units", len(snap.CombinedEmsUnits)),
	)

	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode roster: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
