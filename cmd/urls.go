/*
Copyright © 2025 pvelab authors
*/
package cmd

import (
	"fmt"
	"time"

	"pvelab/internal/probe"
	"pvelab/internal/provision"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var urlsCheck bool

// urlsCmd represents the urls command
var urlsCmd = &cobra.Command{
	Use:   "urls",
	Short: "Print access URLs for enabled services",
	Long: `Print the access URL of every enabled service. With --check each
URL is probed over HTTP and its reachability reported.`,
	Run: func(cmd *cobra.Command, args []string) {
		runURLs(urlsCheck)
	},
}

func init() {
	rootCmd.AddCommand(urlsCmd)

	urlsCmd.Flags().BoolVar(&urlsCheck, "check", false, "probe each URL and report up/down")
}

func runURLs(check bool) {
	cfg := loadConfig()
	requirePrivilege(cfg)

	for _, spec := range cfg.Services {
		if !spec.Enabled {
			continue
		}
		url := provision.AccessURL(spec)
		if !check {
			fmt.Printf("%-10s %s\n", spec.Name, url)
			continue
		}
		if err := probe.Check(url, 5*time.Second); err != nil {
			color.Red("%-10s %s  DOWN (%v)", spec.Name, url, err)
		} else {
			color.Green("%-10s %s  UP", spec.Name, url)
		}
	}
}
