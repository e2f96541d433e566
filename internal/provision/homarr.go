package provision

import (
	"context"

	"pvelab/internal/compose"
	"pvelab/internal/pve"
)

// installHomarr installs Docker inside the container and brings up the
// Homarr dashboard as a compose stack on port 7575.
func installHomarr(ctx context.Context, client *pve.Client, spec ServiceSpec) (string, error) {
	if err := installDockerEngine(ctx, client, spec.CTID); err != nil {
		return "", err
	}

	stack, err := compose.Render(compose.Homarr())
	if err != nil {
		return "", err
	}
	if err := runSteps(ctx, client, spec.CTID, []string{"mkdir -p /opt/homarr"}); err != nil {
		return "", err
	}
	if err := client.Push(ctx, spec.CTID, "/opt/homarr/docker-compose.yml", stack, 0o644); err != nil {
		return "", err
	}

	if err := runSteps(ctx, client, spec.CTID, []string{
		"cd /opt/homarr && docker compose up -d",
	}); err != nil {
		return "", err
	}
	return "", nil
}
