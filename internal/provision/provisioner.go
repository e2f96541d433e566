package provision

import (
	"context"
	"fmt"
	"time"

	"pvelab/internal/logging"
	"pvelab/internal/pve"

	"go.uber.org/zap"
)

// FailurePolicy decides what happens to the rest of the batch when one
// service's install sequence fails.
type FailurePolicy string

const (
	// FailureAbort stops the whole run at the first failure.
	FailureAbort FailurePolicy = "abort"
	// FailureContinue records the failure and moves on to the next entry.
	FailureContinue FailurePolicy = "continue"
)

// Options configures a Provisioner.
type Options struct {
	// BootWait is the fixed delay between container start and install.
	// There is no readiness polling; the delay is a proxy for "boot
	// complete".
	BootWait time.Duration

	// OnFailure selects the batch failure policy.
	OnFailure FailurePolicy
}

// Provisioner creates service containers on a Proxmox host one at a time.
type Provisioner struct {
	client *pve.Client
	opts   Options
}

// New creates a Provisioner on top of a Proxmox client.
func New(client *pve.Client, opts Options) *Provisioner {
	if opts.OnFailure == "" {
		opts.OnFailure = FailureAbort
	}
	return &Provisioner{client: client, opts: opts}
}

// ProvisionAll processes the service entries sequentially, in order. With
// the abort policy, entries after a failure are never attempted and the
// error is returned alongside the partial results; with the continue policy
// every entry is processed and failures are recorded per entry.
func (p *Provisioner) ProvisionAll(ctx context.Context, specs []ServiceSpec) ([]Result, error) {
	used, err := p.client.UsedCTIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing containers: %w", err)
	}

	results := make([]Result, 0, len(specs))
	for _, spec := range specs {
		result := p.provisionOne(ctx, spec, used)
		results = append(results, result)

		if result.Status == StatusCreated {
			used[spec.CTID] = true
		}
		if result.Status == StatusFailed && p.opts.OnFailure == FailureAbort {
			return results, fmt.Errorf("provisioning %s failed: %w", spec.Name, result.Err)
		}
	}
	return results, nil
}

// provisionOne handles a single entry: skip checks, container creation, boot
// wait, and the kind-specific install sequence.
func (p *Provisioner) provisionOne(ctx context.Context, spec ServiceSpec, used map[int]bool) Result {
	if !spec.Enabled {
		return Result{Spec: spec, Status: StatusDisabled}
	}

	if used[spec.CTID] {
		logging.Logger().Info("container already exists, skipping",
			zap.String("service", spec.Name),
			zap.Int("ctid", spec.CTID))
		return Result{Spec: spec, Status: StatusSkippedExists, AccessURL: AccessURL(spec)}
	}

	logging.Logger().Info("provisioning service",
		zap.String("service", spec.Name),
		zap.Int("ctid", spec.CTID),
		zap.String("ip", spec.IP))

	if err := p.create(ctx, spec); err != nil {
		return Result{Spec: spec, Status: StatusFailed, Err: err}
	}

	installer, ok := installers[spec.Kind]
	if !ok {
		return Result{Spec: spec, Status: StatusFailed,
			Err: fmt.Errorf("no installer for service kind %q", spec.Kind)}
	}
	credential, err := installer(ctx, p.client, spec)
	if err != nil {
		return Result{Spec: spec, Status: StatusFailed, Err: err}
	}

	url := AccessURL(spec)
	logging.Logger().Info("service provisioned",
		zap.String("service", spec.Name),
		zap.Int("ctid", spec.CTID),
		zap.String("url", url))

	return Result{Spec: spec, Status: StatusCreated, AccessURL: url, Credential: credential}
}

// create stands up and starts the container for the spec.
func (p *Provisioner) create(ctx context.Context, spec ServiceSpec) error {
	volid, err := p.client.EnsureTemplate(ctx, spec.Storage, spec.Template)
	if err != nil {
		return err
	}

	params := pve.CreateParams{
		CTID:     spec.CTID,
		Template: volid,
		Hostname: spec.Hostname,
		Cores:    spec.Cores,
		MemoryMB: spec.MemoryMB,
		SwapMB:   spec.SwapMB,
		DiskGB:   spec.DiskGB,
		Storage:  spec.Storage,
		Bridge:   spec.Bridge,
		IP:       spec.IP,
		Gateway:  spec.Gateway,
		Nesting:  DefaultsFor(spec.Kind).NeedsNesting,
	}
	if err := p.client.Create(ctx, params); err != nil {
		return err
	}
	if err := p.client.Start(ctx, spec.CTID); err != nil {
		return err
	}

	// Static boot delay; install commands need networking and DNS up
	// inside the container
	time.Sleep(p.opts.BootWait)
	return nil
}
