/*
Copyright © 2025 pvelab authors
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// resourcesCmd represents the resources command
var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Show configured resources for each service",
	Run: func(cmd *cobra.Command, args []string) {
		runResources()
	},
}

func init() {
	rootCmd.AddCommand(resourcesCmd)
}

func runResources() {
	cfg := loadConfig()
	requirePrivilege(cfg)

	client, r := newClient(cfg)
	defer r.Close()

	ctx := context.Background()
	used, err := client.UsedCTIDs(ctx)
	if err != nil {
		// Resource listing still works without host state; just mark unknown
		used = nil
	}

	fmt.Printf("%-10s %-6s %-6s %-10s %-8s %-18s %s\n",
		"SERVICE", "CTID", "CORES", "MEMORY_MB", "DISK_GB", "IP", "STATE")
	for _, spec := range cfg.Services {
		if !spec.Enabled {
			continue
		}
		state := "unknown"
		if used != nil {
			state = "absent"
			if used[spec.CTID] {
				if s, serr := client.Status(ctx, spec.CTID); serr == nil {
					state = s
				} else {
					state = "present"
				}
			}
		}
		fmt.Printf("%-10s %-6d %-6d %-10d %-8d %-18s %s\n",
			spec.Name, spec.CTID, spec.Cores, spec.MemoryMB, spec.DiskGB, spec.IP, state)
	}
}
