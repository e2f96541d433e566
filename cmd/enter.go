/*
Copyright © 2025 pvelab authors
*/
package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"pvelab/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// enterCmd represents the enter command
var enterCmd = &cobra.Command{
	Use:   "enter <service>",
	Short: "Attach an interactive shell inside a service container",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runEnter(args[0])
	},
}

func init() {
	rootCmd.AddCommand(enterCmd)
}

func runEnter(service string) {
	cfg := loadConfig()
	requirePrivilege(cfg)

	for _, spec := range cfg.Services {
		if spec.Name != service {
			continue
		}
		if cfg.PVEHost != "" {
			// An interactive session cannot be proxied through the
			// command runner; tell the operator what to run instead
			fmt.Printf("run on %s: pct enter %d\n", cfg.PVEHost, spec.CTID)
			return
		}
		c := exec.Command("pct", "enter", fmt.Sprint(spec.CTID))
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			logging.Logger().Fatal("pct enter failed", zap.Error(err))
		}
		return
	}

	logging.Logger().Error("unknown service", zap.String("service", service))
	os.Exit(1)
}
