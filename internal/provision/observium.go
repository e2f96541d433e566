package provision

import (
	"context"
	"fmt"
	"strings"

	"pvelab/internal/pve"

	"github.com/google/uuid"
)

// installObservium installs Observium Community Edition via the upstream
// install script and creates an admin user with a generated password.
func installObservium(ctx context.Context, client *pve.Client, spec ServiceSpec) (string, error) {
	if err := runSteps(ctx, client, spec.CTID, []string{
		"apt-get update",
		aptInstall("wget", "ca-certificates"),
		"wget -q -O /tmp/observium_installscript.sh https://www.observium.org/observium_installscript.sh",
		"chmod +x /tmp/observium_installscript.sh",
		"yes '' | /tmp/observium_installscript.sh",
	}); err != nil {
		return "", err
	}

	// Random admin password, level 10 = global admin
	password := strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	addUser := fmt.Sprintf("cd /opt/observium && ./adduser.php admin %s 10", pve.ShellQuote(password))
	if err := runSteps(ctx, client, spec.CTID, []string{addUser}); err != nil {
		return "", err
	}
	return "admin / " + password, nil
}
