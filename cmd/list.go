/*
Copyright © 2025 pvelab authors
*/
package cmd

import (
	"context"
	"fmt"

	"pvelab/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List containers on the Proxmox host",
	Run: func(cmd *cobra.Command, args []string) {
		runList()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList() {
	cfg := loadConfig()
	requirePrivilege(cfg)

	client, r := newClient(cfg)
	defer r.Close()

	containers, err := client.List(context.Background())
	if err != nil {
		logging.Logger().Fatal("failed to list containers", zap.Error(err))
	}

	// Mark the containers this tool's config knows about
	managed := make(map[int]string)
	for _, spec := range cfg.Services {
		managed[spec.CTID] = spec.Name
	}

	fmt.Printf("%-6s %-10s %-20s %s\n", "CTID", "STATUS", "NAME", "SERVICE")
	for _, ct := range containers {
		fmt.Printf("%-6d %-10s %-20s %s\n", ct.CTID, ct.Status, ct.Name, managed[ct.CTID])
	}
}
