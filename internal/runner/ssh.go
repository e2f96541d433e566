package runner

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"pvelab/internal/logging"

	"github.com/pkg/sftp"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
)

// SSH executes commands on a remote Proxmox host over SSH, with SFTP for
// file transfer.
type SSH struct {
	client     *ssh.Client
	sftpClient *sftp.Client
	host       string
	user       string
}

// escapeNewlines escapes newline characters for proper log formatting
func escapeNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", "\\n")
}

// safeClose safely closes a resource and logs any errors
func safeClose(name string, closer func() error) {
	if err := closer(); err != nil {
		logging.Logger().Warn("failed to close resource",
			zap.String("resource", name),
			zap.Error(err))
	}
}

// NewSSH creates a new SSH runner connected to config.Host.
func NewSSH(config Config) (*SSH, error) {
	// Wait for SSH port to become available
	if err := waitForSSH(config.Host, config.Timeout); err != nil {
		return nil, fmt.Errorf("SSH not available after timeout: %w", err)
	}

	// Load private key - prefer content over path
	var signer ssh.Signer
	var err error
	switch {
	case config.PrivateKey != "":
		signer, err = ssh.ParsePrivateKey([]byte(config.PrivateKey))
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
	case config.KeyPath != "":
		keyData, readErr := os.ReadFile(config.KeyPath)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read private key file: %w", readErr)
		}
		signer, err = ssh.ParsePrivateKey(keyData)
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key file: %w", err)
		}
	default:
		return nil, fmt.Errorf("either PrivateKey or KeyPath must be provided")
	}

	clientConfig := &ssh.ClientConfig{
		User: config.User,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(signer),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // homelab hosts rarely have known_hosts managed
		Timeout:         config.SSHTimeout,
	}

	client, err := ssh.Dial("tcp", net.JoinHostPort(config.Host, "22"), clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to dial SSH: %w", err)
	}

	logging.Logger().Info("SSH connection established",
		zap.String("user", config.User),
		zap.String("host", config.Host))

	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create SFTP client: %w", err)
	}

	return &SSH{
		client:     client,
		sftpClient: sftpClient,
		host:       config.Host,
		user:       config.User,
	}, nil
}

// Close closes the SFTP and SSH connections
func (s *SSH) Close() error {
	if s.sftpClient != nil {
		safeClose("SFTP client", s.sftpClient.Close)
	}
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// Run executes a command on the remote host and returns its combined output.
func (s *SSH) Run(ctx context.Context, command string) (string, error) {
	session, err := s.client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	defer safeClose("SSH session", session.Close)

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	logging.Logger().Debug("executing remote command",
		zap.String("command", logging.Truncate(command)),
		zap.String("host", s.host))

	done := make(chan error, 1)
	go func() {
		done <- session.Run(command)
	}()

	select {
	case <-ctx.Done():
		// Best effort: a killed session surfaces as a run error below.
		_ = session.Signal(ssh.SIGKILL)
		<-done
		return stdout.String() + stderr.String(), ctx.Err()
	case err = <-done:
	}

	logging.Logger().Info("remote command executed",
		zap.String("command", logging.Truncate(command)),
		zap.String("host", s.host),
		zap.String("stdout", escapeNewlines(logging.Truncate(stdout.String()))),
		zap.String("stderr", escapeNewlines(logging.Truncate(stderr.String()))),
		zap.Bool("success", err == nil))

	if err != nil {
		return stdout.String() + stderr.String(), fmt.Errorf("command %q failed: %w: %s",
			logging.Truncate(command), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// WriteFile writes content to a file on the remote host using SFTP.
func (s *SSH) WriteFile(path, content string, mode os.FileMode) error {
	file, err := s.sftpClient.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return fmt.Errorf("failed to open remote file %s: %w", path, err)
	}
	defer safeClose("remote file", file.Close)

	if _, err := file.Write([]byte(content)); err != nil {
		return fmt.Errorf("failed to write remote file %s: %w", path, err)
	}
	if err := s.sftpClient.Chmod(path, mode); err != nil {
		logging.Logger().Warn("failed to set remote file permissions",
			zap.String("path", path),
			zap.Error(err))
	}
	return nil
}

// waitForSSH waits for the SSH port on host to accept connections.
func waitForSSH(host string, timeout time.Duration) error {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	deadline := time.Now().Add(timeout)
	addr := net.JoinHostPort(host, "22")

	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
		if err == nil {
			conn.Close()
			return nil
		}
		time.Sleep(2 * time.Second)
	}
	return fmt.Errorf("timed out waiting for %s", addr)
}
