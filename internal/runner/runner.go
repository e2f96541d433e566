package runner

import (
	"context"
	"os"
	"time"
)

// Runner defines the interface for executing commands on the Proxmox host.
// Commands are shell command lines; output is combined stdout+stderr.
type Runner interface {
	// Run executes a command on the host and returns its output
	Run(ctx context.Context, command string) (string, error)

	// WriteFile writes content to a file on the host
	WriteFile(path, content string, mode os.FileMode) error

	// Close closes the underlying connection, if any
	Close() error
}

// Config defines configuration for creating runners
type Config struct {
	// Host is the Proxmox host to connect to over SSH. Empty means the
	// commands run locally (the tool is running on the host itself).
	Host       string
	User       string
	PrivateKey string // PEM-encoded private key content
	KeyPath    string // Path to private key file
	Timeout    time.Duration
	SSHTimeout time.Duration
}

// New creates a runner based on the config: an SSH runner when a remote host
// is configured, a local runner otherwise.
func New(config Config) (Runner, error) {
	if config.Host == "" {
		return NewLocal(), nil
	}
	return NewSSH(config)
}
