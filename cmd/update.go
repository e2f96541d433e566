/*
Copyright © 2025 pvelab authors
*/
package cmd

import (
	"context"

	"pvelab/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Run package updates inside managed containers",
	Long: `Run apt-get update && upgrade inside every enabled service container
that exists on the host. The first failing container aborts the run.`,
	Run: func(cmd *cobra.Command, args []string) {
		runUpdate()
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate() {
	cfg := loadConfig()
	requirePrivilege(cfg)

	client, r := newClient(cfg)
	defer r.Close()

	ctx := context.Background()
	used, err := client.UsedCTIDs(ctx)
	if err != nil {
		logging.Logger().Fatal("failed to list containers", zap.Error(err))
	}

	for _, spec := range cfg.Services {
		if !spec.Enabled || !used[spec.CTID] {
			continue
		}
		logging.Logger().Info("updating container",
			zap.String("service", spec.Name),
			zap.Int("ctid", spec.CTID))
		_, err := client.Exec(ctx, spec.CTID,
			"apt-get update && DEBIAN_FRONTEND=noninteractive apt-get upgrade -y")
		if err != nil {
			logging.Logger().Fatal("update failed",
				zap.String("service", spec.Name),
				zap.Error(err))
		}
	}
}
