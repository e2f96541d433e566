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

var backupStorage string

// backupCmd represents the backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot-backup managed containers with vzdump",
	Run: func(cmd *cobra.Command, args []string) {
		runBackup()
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)

	backupCmd.Flags().StringVar(&backupStorage, "storage", "",
		"backup target storage (defaults to STORAGE from the config)")
}

func runBackup() {
	cfg := loadConfig()
	requirePrivilege(cfg)

	client, r := newClient(cfg)
	defer r.Close()

	storage := backupStorage
	if storage == "" {
		storage = cfg.Storage
	}

	ctx := context.Background()
	used, err := client.UsedCTIDs(ctx)
	if err != nil {
		logging.Logger().Fatal("failed to list containers", zap.Error(err))
	}

	for _, spec := range cfg.Services {
		if !spec.Enabled || !used[spec.CTID] {
			continue
		}
		logging.Logger().Info("backing up container",
			zap.String("service", spec.Name),
			zap.Int("ctid", spec.CTID),
			zap.String("storage", storage))
		if err := client.Snapshot(ctx, spec.CTID, storage); err != nil {
			logging.Logger().Fatal("backup failed",
				zap.String("service", spec.Name),
				zap.Error(err))
		}
	}
}
