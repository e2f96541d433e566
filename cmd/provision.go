/*
Copyright © 2025 pvelab authors
*/
package cmd

import (
	"context"
	"os"

	"pvelab/internal/logging"
	"pvelab/internal/provision"
	"pvelab/internal/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var provisionReportPath string

// provisionCmd represents the provision command
var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Provision all enabled services from the config",
	Long: `Create and install every enabled service container that does not
already exist on the host. Entries whose CTID is already in use are skipped;
disabled entries produce no side effects.`,
	Run: func(cmd *cobra.Command, args []string) {
		runProvision()
	},
}

func init() {
	rootCmd.AddCommand(provisionCmd)

	provisionCmd.Flags().StringVar(&provisionReportPath, "report", "",
		"write a JSON run report to this path (overrides REPORT_PATH)")
}

func runProvision() {
	cfg := loadConfig()
	requirePrivilege(cfg)

	client, r := newClient(cfg)
	defer r.Close()

	p := provision.New(client, provision.Options{
		BootWait:  cfg.BootWait,
		OnFailure: cfg.OnFailure,
	})

	rep := report.New()
	results, err := p.ProvisionAll(context.Background(), cfg.Services)
	rep.Finish(results)
	rep.PrintSummary(os.Stdout)

	reportPath := provisionReportPath
	if reportPath == "" {
		reportPath = cfg.ReportPath
	}
	if reportPath != "" {
		if werr := rep.Write(reportPath); werr != nil {
			logging.Logger().Error("failed to write run report", zap.Error(werr))
		}
	}

	if err != nil {
		logging.Logger().Fatal("provisioning run aborted", zap.Error(err))
	}
}
