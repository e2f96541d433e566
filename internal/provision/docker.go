package provision

import (
	"context"
	"fmt"

	"pvelab/internal/compose"
	"pvelab/internal/pve"
)

// installDocker turns the container into a generic Docker host: engine plus
// Portainer for management, and optionally a compose project fetched from a
// configured URL.
func installDocker(ctx context.Context, client *pve.Client, spec ServiceSpec) (string, error) {
	if err := installDockerEngine(ctx, client, spec.CTID); err != nil {
		return "", err
	}

	stack, err := compose.Render(compose.Portainer())
	if err != nil {
		return "", err
	}
	if err := runSteps(ctx, client, spec.CTID, []string{"mkdir -p /opt/portainer"}); err != nil {
		return "", err
	}
	if err := client.Push(ctx, spec.CTID, "/opt/portainer/docker-compose.yml", stack, 0o644); err != nil {
		return "", err
	}
	if err := runSteps(ctx, client, spec.CTID, []string{
		"cd /opt/portainer && docker compose up -d",
	}); err != nil {
		return "", err
	}

	if spec.ComposeURL != "" {
		if err := runSteps(ctx, client, spec.CTID, []string{
			"mkdir -p /opt/stack",
			fmt.Sprintf("curl -fsSL %s -o /opt/stack/docker-compose.yml", pve.ShellQuote(spec.ComposeURL)),
			"cd /opt/stack && docker compose up -d",
		}); err != nil {
			return "", err
		}
	}
	return "", nil
}
