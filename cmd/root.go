package cmd

import (
	"fmt"
	"os"

	"dispatch-core/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "dispatch-core",
	Short: "Dispatch Core Service",
	Long: `Dispatch Core is the computer-aided dispatch backend for role-play
communities. It tracks unit status, combined units, calls, and the jail, and
pushes roster updates to connected clients over websockets.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with debug level gives readable ISO8601 output for a
		// CLI invocation regardless of the configured server format.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
