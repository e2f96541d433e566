package provision

import (
	"context"

	"pvelab/internal/pve"
)

const triliumUnit = `[Unit]
Description=Trilium Notes
After=network.target

[Service]
Type=simple
User=trilium
ExecStart=/opt/trilium/trilium.sh
WorkingDirectory=/opt/trilium
Restart=on-failure

[Install]
WantedBy=multi-user.target
`

// installTrilium installs the Trilium Notes server from the upstream release
// tarball and runs it as a systemd service on port 8080.
func installTrilium(ctx context.Context, client *pve.Client, spec ServiceSpec) (string, error) {
	if err := runSteps(ctx, client, spec.CTID, []string{
		"apt-get update",
		aptInstall("curl", "ca-certificates", "jq"),
		"useradd -r -m -d /var/lib/trilium trilium",
		`url=$(curl -fsSL https://api.github.com/repos/TriliumNext/Notes/releases/latest | jq -r '.assets[] | select(.name | test("linux-x64.tar.xz$")) | .browser_download_url'); curl -fsSL "$url" -o /tmp/trilium.tar.xz`,
		"mkdir -p /opt/trilium",
		"tar -xf /tmp/trilium.tar.xz -C /opt/trilium --strip-components=1",
		"rm -f /tmp/trilium.tar.xz",
		"chown -R trilium:trilium /opt/trilium",
	}); err != nil {
		return "", err
	}

	if err := client.Push(ctx, spec.CTID, "/etc/systemd/system/trilium.service", triliumUnit, 0o644); err != nil {
		return "", err
	}

	if err := runSteps(ctx, client, spec.CTID, []string{
		"systemctl daemon-reload",
		"systemctl enable --now trilium",
	}); err != nil {
		return "", err
	}
	return "", nil
}
