package provision

import (
	"context"
	"fmt"

	"pvelab/internal/pve"
)

// InstallerFunc runs a service's install sequence inside a freshly created
// container. It returns a generated credential when the recipe produces one
// (empty otherwise).
type InstallerFunc func(ctx context.Context, client *pve.Client, spec ServiceSpec) (credential string, err error)

// installers maps every service kind to its install sequence. Keep this
// table in sync with Kinds; provisionOne fails on a missing entry.
var installers = map[ServiceKind]InstallerFunc{
	KindPihole:    installPihole,
	KindTrilium:   installTrilium,
	KindHomarr:    installHomarr,
	KindObservium: installObservium,
	KindUnifi:     installUnifi,
	KindDocker:    installDocker,
}

// runSteps executes a fixed sequence of shell commands inside the container,
// stopping at the first failure.
func runSteps(ctx context.Context, client *pve.Client, ctid int, steps []string) error {
	for _, step := range steps {
		if _, err := client.Exec(ctx, ctid, step); err != nil {
			return fmt.Errorf("install step failed: %w", err)
		}
	}
	return nil
}

// aptInstall builds a non-interactive apt install command for the packages.
func aptInstall(packages ...string) string {
	cmd := "DEBIAN_FRONTEND=noninteractive apt-get install -y"
	for _, pkg := range packages {
		cmd += " " + pkg
	}
	return cmd
}

// installDockerEngine installs the Docker engine inside a container via the
// upstream convenience script. Shared by every kind that needs an embedded
// container runtime.
func installDockerEngine(ctx context.Context, client *pve.Client, ctid int) error {
	return runSteps(ctx, client, ctid, []string{
		"apt-get update",
		aptInstall("curl", "ca-certificates"),
		"curl -fsSL https://get.docker.com | sh",
		"systemctl enable --now docker",
	})
}
