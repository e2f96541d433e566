/*
Copyright © 2025 pvelab authors
*/
package cmd

import (
	"context"

	"pvelab/internal/logging"
	"pvelab/internal/provision"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start [service]",
	Short: "Start managed containers (optionally just one service)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runStartStop(args, true)
	},
}

// stopCmd represents the stop command
var stopCmd = &cobra.Command{
	Use:   "stop [service]",
	Short: "Stop managed containers (optionally just one service)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runStartStop(args, false)
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
}

func runStartStop(args []string, start bool) {
	cfg := loadConfig()
	requirePrivilege(cfg)

	var only string
	if len(args) > 0 {
		only = args[0]
	}

	client, r := newClient(cfg)
	defer r.Close()

	ctx := context.Background()
	used, err := client.UsedCTIDs(ctx)
	if err != nil {
		logging.Logger().Fatal("failed to list containers", zap.Error(err))
	}

	matched := false
	for _, spec := range cfg.Services {
		if !spec.Enabled || !used[spec.CTID] {
			continue
		}
		if only != "" && spec.Name != only {
			continue
		}
		matched = true

		var opErr error
		if start {
			opErr = client.Start(ctx, spec.CTID)
		} else {
			opErr = client.Stop(ctx, spec.CTID)
		}
		if opErr != nil {
			logging.Logger().Fatal("container operation failed",
				zap.String("service", spec.Name),
				zap.Error(opErr))
		}
		logging.Logger().Info("container state changed",
			zap.String("service", spec.Name),
			zap.Int("ctid", spec.CTID),
			zap.Bool("started", start))
	}

	if only != "" && !matched {
		validNames := make([]string, 0, len(provision.Kinds))
		for _, k := range provision.Kinds {
			validNames = append(validNames, string(k))
		}
		logging.Logger().Fatal("no matching provisioned service",
			zap.String("service", only),
			zap.Strings("known", validNames))
	}
}
