package pve

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"pvelab/internal/runner"
)

// Client wraps the Proxmox host CLIs (pct, pveam, vzdump) behind a runner so
// the same code drives a local host or a remote one over SSH.
type Client struct {
	run runner.Runner
}

// NewClient creates a Proxmox client on top of the given runner.
func NewClient(r runner.Runner) *Client {
	return &Client{run: r}
}

// Container is one row of `pct list`.
type Container struct {
	CTID   int
	Status string
	Name   string
}

// List returns the containers registered on the host.
func (c *Client) List(ctx context.Context) ([]Container, error) {
	output, err := c.run.Run(ctx, "pct list")
	if err != nil {
		return nil, fmt.Errorf("pct list: %w", err)
	}
	return parseContainerList(output), nil
}

// parseContainerList parses `pct list` output. The first line is a header;
// the Lock column may be empty, so the name is always the last field.
func parseContainerList(output string) []Container {
	var containers []Container
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i, line := range lines {
		if i == 0 {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		ctid, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		ct := Container{CTID: ctid, Status: fields[1]}
		if len(fields) > 2 {
			ct.Name = fields[len(fields)-1]
		}
		containers = append(containers, ct)
	}
	return containers
}

// UsedCTIDs returns the set of container identifiers already in use.
func (c *Client) UsedCTIDs(ctx context.Context) (map[int]bool, error) {
	containers, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	used := make(map[int]bool, len(containers))
	for _, ct := range containers {
		used[ct.CTID] = true
	}
	return used, nil
}

// CreateParams holds the parameters for a single `pct create` call.
type CreateParams struct {
	CTID       int
	Template   string // full volume id, e.g. local:vztmpl/debian-12-standard_12.7-1_amd64.tar.zst
	Hostname   string
	Cores      int
	MemoryMB   int
	SwapMB     int
	DiskGB     int
	Storage    string
	Bridge     string
	IP         string // CIDR
	Gateway    string
	Nesting    bool
	Privileged bool
}

// CommandLine assembles the pct create invocation for the params.
func (p CreateParams) CommandLine() string {
	var b strings.Builder
	fmt.Fprintf(&b, "pct create %d %s", p.CTID, p.Template)
	fmt.Fprintf(&b, " --hostname %s", p.Hostname)
	fmt.Fprintf(&b, " --cores %d", p.Cores)
	fmt.Fprintf(&b, " --memory %d", p.MemoryMB)
	fmt.Fprintf(&b, " --swap %d", p.SwapMB)
	fmt.Fprintf(&b, " --rootfs %s:%d", p.Storage, p.DiskGB)
	fmt.Fprintf(&b, " --net0 name=eth0,bridge=%s,gw=%s,ip=%s", p.Bridge, p.Gateway, p.IP)
	b.WriteString(" --onboot 1")
	if p.Privileged {
		b.WriteString(" --unprivileged 0")
	} else {
		b.WriteString(" --unprivileged 1")
	}
	if p.Nesting {
		b.WriteString(" --features nesting=1,keyctl=1")
	}
	return b.String()
}

// Create creates a container. The host's container registry is the system of
// record; callers are expected to have checked the CTID beforehand.
func (c *Client) Create(ctx context.Context, p CreateParams) error {
	if _, err := c.run.Run(ctx, p.CommandLine()); err != nil {
		return fmt.Errorf("pct create %d: %w", p.CTID, err)
	}
	return nil
}

// Start starts a container.
func (c *Client) Start(ctx context.Context, ctid int) error {
	if _, err := c.run.Run(ctx, fmt.Sprintf("pct start %d", ctid)); err != nil {
		return fmt.Errorf("pct start %d: %w", ctid, err)
	}
	return nil
}

// Stop stops a container.
func (c *Client) Stop(ctx context.Context, ctid int) error {
	if _, err := c.run.Run(ctx, fmt.Sprintf("pct stop %d", ctid)); err != nil {
		return fmt.Errorf("pct stop %d: %w", ctid, err)
	}
	return nil
}

// Status returns the container state, e.g. "running" or "stopped".
func (c *Client) Status(ctx context.Context, ctid int) (string, error) {
	output, err := c.run.Run(ctx, fmt.Sprintf("pct status %d", ctid))
	if err != nil {
		return "", fmt.Errorf("pct status %d: %w", ctid, err)
	}
	// Output is "status: running"
	_, state, found := strings.Cut(strings.TrimSpace(output), ":")
	if !found {
		return "", fmt.Errorf("pct status %d: unexpected output %q", ctid, output)
	}
	return strings.TrimSpace(state), nil
}

// Exec runs a shell command inside a container and returns its output.
func (c *Client) Exec(ctx context.Context, ctid int, command string) (string, error) {
	full := fmt.Sprintf("pct exec %d -- bash -c %s", ctid, ShellQuote(command))
	output, err := c.run.Run(ctx, full)
	if err != nil {
		return output, fmt.Errorf("pct exec %d: %w", ctid, err)
	}
	return output, nil
}

// Push writes content into a file inside a container. The file is staged on
// the host first because `pct push` only copies host-side files.
func (c *Client) Push(ctx context.Context, ctid int, dest, content string, mode os.FileMode) error {
	staging := fmt.Sprintf("/tmp/pvelab-push-%d%s", ctid, strings.ReplaceAll(dest, "/", "-"))
	if err := c.run.WriteFile(staging, content, mode); err != nil {
		return fmt.Errorf("staging file for push: %w", err)
	}
	cmd := fmt.Sprintf("pct push %d %s %s --perms %o && rm -f %s",
		ctid, staging, dest, mode, staging)
	if _, err := c.run.Run(ctx, cmd); err != nil {
		return fmt.Errorf("pct push %d %s: %w", ctid, dest, err)
	}
	return nil
}

// ShellQuote single-quotes s for safe inclusion in a shell command line.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
