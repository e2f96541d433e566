package config

import (
	"fmt"
	"os"
)

// ExampleConfig is written to disk when no configuration file exists, so a
// first run leaves the operator with a template to fill in.
const ExampleConfig = `# pvelab configuration
# Shell-sourceable key=value format. Enable the services you want, assign
# each a free CTID and a static address, then run: pvelab provision

# Host-level defaults
STORAGE=local-lvm
BRIDGE=vmbr0
GATEWAY=10.1.10.1
TEMPLATE=debian-12-standard_12.7-1_amd64.tar.zst

# abort: stop the whole batch at the first install failure (default)
# continue: mark the entry failed and move on to the next service
ON_FAILURE=abort

# Seconds to wait after container start before running installers
BOOT_WAIT_SECONDS=10

# Remote mode: set PVE_HOST to drive a Proxmox host over SSH instead of
# running on the host itself
#PVE_HOST=proxmox.lan
#PVE_USER=root
#PVE_SSH_KEY=/root/.ssh/id_rsa

# Pi-hole (DNS filtering)
PIHOLE_ENABLED=false
PIHOLE_CTID=100
PIHOLE_HOSTNAME=pihole
PIHOLE_IP=10.1.10.10/24

# Trilium Notes
TRILIUM_ENABLED=false
TRILIUM_CTID=101
TRILIUM_HOSTNAME=trilium
TRILIUM_IP=10.1.10.11/24

# Homarr (dashboard)
HOMARR_ENABLED=false
HOMARR_CTID=102
HOMARR_HOSTNAME=homarr
HOMARR_IP=10.1.10.12/24

# Observium (network monitoring)
OBSERVIUM_ENABLED=false
OBSERVIUM_CTID=103
OBSERVIUM_HOSTNAME=observium
OBSERVIUM_IP=10.1.10.13/24

# UniFi Controller
UNIFI_ENABLED=false
UNIFI_CTID=104
UNIFI_HOSTNAME=unifi
UNIFI_IP=10.1.10.14/24

# Generic Docker host (Portainer + optional compose project)
DOCKER_ENABLED=false
DOCKER_CTID=105
DOCKER_HOSTNAME=docker
DOCKER_IP=10.1.10.15/24
#DOCKER_COMPOSE_URL=https://example.com/docker-compose.yml
`

// WriteExample writes the example configuration to path.
func WriteExample(path string) error {
	if path == "" {
		path = DefaultPath
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("refusing to overwrite existing config at %s", path)
	}
	if err := os.WriteFile(path, []byte(ExampleConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write example config: %w", err)
	}
	return nil
}
