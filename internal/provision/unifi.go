package provision

import (
	"context"

	"pvelab/internal/pve"
)

// installUnifi installs the UniFi Network Controller from the Ubiquiti apt
// repository, plus the MongoDB it depends on.
func installUnifi(ctx context.Context, client *pve.Client, spec ServiceSpec) (string, error) {
	return "", runSteps(ctx, client, spec.CTID, []string{
		"apt-get update",
		aptInstall("curl", "ca-certificates", "gnupg"),
		"curl -fsSL https://dl.ui.com/unifi/unifi-repo.gpg -o /usr/share/keyrings/unifi-repo.gpg",
		`echo 'deb [signed-by=/usr/share/keyrings/unifi-repo.gpg] https://www.ui.com/downloads/unifi/debian stable ubiquiti' > /etc/apt/sources.list.d/unifi.list`,
		"curl -fsSL https://pgp.mongodb.com/server-7.0.asc | gpg --dearmor -o /usr/share/keyrings/mongodb-server-7.0.gpg",
		`echo 'deb [signed-by=/usr/share/keyrings/mongodb-server-7.0.gpg] http://repo.mongodb.org/apt/debian bookworm/mongodb-org/7.0 main' > /etc/apt/sources.list.d/mongodb-org-7.0.list`,
		"apt-get update",
		aptInstall("openjdk-17-jre-headless", "mongodb-org-server", "unifi"),
		"systemctl enable --now unifi",
	})
}
