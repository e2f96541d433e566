package pve

import (
	"context"
	"fmt"
	"strings"

	"pvelab/internal/logging"

	"go.uber.org/zap"
)

// UpdateTemplateCatalog refreshes the appliance template index on the host.
func (c *Client) UpdateTemplateCatalog(ctx context.Context) error {
	if _, err := c.run.Run(ctx, "pveam update"); err != nil {
		return fmt.Errorf("pveam update: %w", err)
	}
	return nil
}

// AvailableTemplates lists the system templates offered by the catalog.
func (c *Client) AvailableTemplates(ctx context.Context) ([]string, error) {
	output, err := c.run.Run(ctx, "pveam available --section system")
	if err != nil {
		return nil, fmt.Errorf("pveam available: %w", err)
	}
	var names []string
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		fields := strings.Fields(line)
		// Lines are "<section> <template name>"
		if len(fields) == 2 {
			names = append(names, fields[1])
		}
	}
	return names, nil
}

// DownloadedTemplates lists template volumes already present on storage.
func (c *Client) DownloadedTemplates(ctx context.Context, storage string) ([]string, error) {
	output, err := c.run.Run(ctx, fmt.Sprintf("pveam list %s", storage))
	if err != nil {
		return nil, fmt.Errorf("pveam list %s: %w", storage, err)
	}
	var names []string
	for i, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if i == 0 {
			continue // header
		}
		fields := strings.Fields(line)
		if len(fields) >= 1 {
			names = append(names, fields[0])
		}
	}
	return names, nil
}

// DownloadTemplate downloads a template onto storage.
func (c *Client) DownloadTemplate(ctx context.Context, storage, name string) error {
	logging.Logger().Info("downloading container template",
		zap.String("template", name),
		zap.String("storage", storage))
	if _, err := c.run.Run(ctx, fmt.Sprintf("pveam download %s %s", storage, name)); err != nil {
		return fmt.Errorf("pveam download %s: %w", name, err)
	}
	return nil
}

// EnsureTemplate makes sure the template volume exists on storage, updating
// the catalog and downloading it when missing. Returns the full volume id
// usable in pct create.
func (c *Client) EnsureTemplate(ctx context.Context, storage, name string) (string, error) {
	volid := fmt.Sprintf("%s:vztmpl/%s", storage, name)

	downloaded, err := c.DownloadedTemplates(ctx, storage)
	if err != nil {
		return "", err
	}
	for _, have := range downloaded {
		if have == volid || strings.HasSuffix(have, "/"+name) {
			return volid, nil
		}
	}

	if err := c.UpdateTemplateCatalog(ctx); err != nil {
		return "", err
	}
	if err := c.DownloadTemplate(ctx, storage, name); err != nil {
		return "", err
	}
	return volid, nil
}

// Snapshot backs up a container with vzdump in snapshot mode.
func (c *Client) Snapshot(ctx context.Context, ctid int, storage string) error {
	cmd := fmt.Sprintf("vzdump %d --storage %s --mode snapshot --compress zstd", ctid, storage)
	if _, err := c.run.Run(ctx, cmd); err != nil {
		return fmt.Errorf("vzdump %d: %w", ctid, err)
	}
	return nil
}
