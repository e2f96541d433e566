/*
Copyright © 2025 pvelab authors
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pvelab",
	Short: "Provision homelab service containers on a Proxmox host",
	Long: `pvelab stands up homelab application containers (Pi-hole, Trilium,
Homarr, Observium, UniFi Controller, and a generic Docker host) as LXC
containers on a Proxmox VE host, driven by a declarative key=value config.

Run a sub-command directly, or run pvelab with no arguments for an
interactive menu.`,
	Run: func(cmd *cobra.Command, args []string) {
		runMenu()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default /etc/pvelab.conf, or $PVELAB_CONFIG)")
}
