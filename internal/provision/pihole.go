package provision

import (
	"context"
	"fmt"
	"strings"

	"pvelab/internal/pve"
)

// installPihole installs Pi-hole unattended. The installer is preseeded via
// setupVars.conf; the generated admin password is read back for display.
func installPihole(ctx context.Context, client *pve.Client, spec ServiceSpec) (string, error) {
	if err := runSteps(ctx, client, spec.CTID, []string{
		"apt-get update",
		aptInstall("curl", "ca-certificates"),
		"mkdir -p /etc/pihole",
	}); err != nil {
		return "", err
	}

	setupVars := fmt.Sprintf(`PIHOLE_INTERFACE=eth0
IPV4_ADDRESS=%s
IPV6_ADDRESS=
PIHOLE_DNS_1=1.1.1.1
PIHOLE_DNS_2=1.0.0.1
QUERY_LOGGING=true
INSTALL_WEB_SERVER=true
INSTALL_WEB_INTERFACE=true
LIGHTTPD_ENABLED=true
BLOCKING_ENABLED=true
`, spec.IP)
	if err := client.Push(ctx, spec.CTID, "/etc/pihole/setupVars.conf", setupVars, 0o644); err != nil {
		return "", err
	}

	if err := runSteps(ctx, client, spec.CTID, []string{
		"curl -sSL https://install.pi-hole.net | bash /dev/stdin --unattended",
	}); err != nil {
		return "", err
	}

	// The unattended install generates a random web password and records it
	// in setupVars.conf
	output, err := client.Exec(ctx, spec.CTID,
		"grep ^WEBPASSWORD= /etc/pihole/setupVars.conf | cut -d= -f2")
	if err != nil {
		return "", fmt.Errorf("failed to read generated web password: %w", err)
	}
	return strings.TrimSpace(output), nil
}
