package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"pvelab/internal/logging"

	"go.uber.org/zap"
)

// Local executes commands directly on the machine the tool runs on.
type Local struct{}

// NewLocal creates a runner that executes commands locally.
func NewLocal() *Local {
	return &Local{}
}

// Run executes a shell command locally and returns its combined output.
func (l *Local) Run(ctx context.Context, command string) (string, error) {
	logging.Logger().Debug("running local command", zap.String("command", command))

	cmd := exec.CommandContext(ctx, "bash", "-c", command)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("command %q failed: %w: %s",
			command, err, strings.TrimSpace(string(output)))
	}
	return string(output), nil
}

// WriteFile writes content to a local file.
func (l *Local) WriteFile(path, content string, mode os.FileMode) error {
	return os.WriteFile(path, []byte(content), mode)
}

// Close is a no-op for the local runner.
func (l *Local) Close() error {
	return nil
}
