package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"pvelab/internal/config"
	"pvelab/internal/logging"
	"pvelab/internal/pve"
	"pvelab/internal/runner"

	"go.uber.org/zap"
)

// loadConfig loads the configuration, handling the first-run case: when no
// config file exists yet, an example is written and the process exits 0 with
// instructions.
func loadConfig() *config.Config {
	cfg, err := config.Load(cfgFile)
	if errors.Is(err, config.ErrNotFound) {
		path := config.ResolvePath(cfgFile)
		requirePrivilege(nil)
		if werr := config.WriteExample(path); werr != nil {
			logging.Logger().Fatal("failed to write example config", zap.Error(werr))
		}
		fmt.Printf("No configuration found. An example config was written to %s.\n", path)
		fmt.Println("Edit it, enable the services you want, then run: pvelab provision")
		os.Exit(0)
	}
	if err != nil {
		logging.Logger().Fatal("failed to load configuration", zap.Error(err))
	}
	return cfg
}

// requirePrivilege enforces the superuser requirement. In remote mode the
// commands run as the configured SSH user on the Proxmox host instead, so
// the local euid does not matter.
func requirePrivilege(cfg *config.Config) {
	if !privileged(cfg, os.Geteuid()) {
		logging.Logger().Error("pvelab must run as root on the Proxmox host")
		os.Exit(1)
	}
}

// privileged reports whether the process may drive the Proxmox host: root
// locally, or any euid when a remote host is configured.
func privileged(cfg *config.Config, euid int) bool {
	if cfg != nil && cfg.PVEHost != "" {
		return true
	}
	return euid == 0
}

// newClient builds the Proxmox client: local exec on the host itself, or
// SSH when PVE_HOST is configured. The caller must Close the runner.
func newClient(cfg *config.Config) (*pve.Client, runner.Runner) {
	r, err := runner.New(runner.Config{
		Host:       cfg.PVEHost,
		User:       cfg.PVEUser,
		KeyPath:    cfg.PVESSHKey,
		Timeout:    60 * time.Second,
		SSHTimeout: 10 * time.Second,
	})
	if err != nil {
		logging.Logger().Fatal("failed to connect to Proxmox host", zap.Error(err))
	}
	return pve.NewClient(r), r
}
