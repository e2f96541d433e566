package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"pvelab/internal/provision"

	"github.com/joho/godotenv"
)

// DefaultPath is where the tool looks for its configuration by default.
const DefaultPath = "/etc/pvelab.conf"

// ErrNotFound is returned when the configuration file does not exist. The
// caller is expected to write an example config and exit cleanly.
var ErrNotFound = errors.New("config file not found")

// Config contains application configuration
type Config struct {
	// Host-level defaults applied to every container
	Storage  string
	Bridge   string
	Gateway  string
	Template string

	// OnFailure decides whether an install failure aborts the whole batch
	// or only marks that entry as failed
	OnFailure provision.FailurePolicy

	// BootWait is the fixed delay between starting a container and running
	// its install sequence
	BootWait time.Duration

	// ReportPath, when set, is where the JSON run report is written
	ReportPath string

	// Remote mode: when PVEHost is set the Proxmox CLIs run over SSH
	PVEHost   string
	PVEUser   string
	PVESSHKey string

	// Services holds one entry per supported service kind, in
	// provisioning order, whether enabled or not
	Services []provision.ServiceSpec
}

// prefixes maps service kinds to their configuration key prefixes.
var prefixes = map[provision.ServiceKind]string{
	provision.KindPihole:    "PIHOLE",
	provision.KindTrilium:   "TRILIUM",
	provision.KindHomarr:    "HOMARR",
	provision.KindObservium: "OBSERVIUM",
	provision.KindUnifi:     "UNIFI",
	provision.KindDocker:    "DOCKER",
}

// ResolvePath resolves an explicit config path, falling back to the
// PVELAB_CONFIG environment variable and then to DefaultPath.
func ResolvePath(path string) string {
	if path == "" {
		path = os.Getenv("PVELAB_CONFIG")
	}
	if path == "" {
		path = DefaultPath
	}
	return path
}

// Load loads configuration from a shell-sourceable key=value file. An empty
// path falls back to the PVELAB_CONFIG environment variable, then to
// DefaultPath.
func Load(path string) (*Config, error) {
	path = ResolvePath(path)

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	vals, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	bootWait, err := getInt(vals, "BOOT_WAIT_SECONDS", 10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Storage:   getString(vals, "STORAGE", "local-lvm"),
		Bridge:    getString(vals, "BRIDGE", "vmbr0"),
		Gateway:   getString(vals, "GATEWAY", ""),
		Template:  getString(vals, "TEMPLATE", "debian-12-standard_12.7-1_amd64.tar.zst"),
		OnFailure: provision.FailurePolicy(getString(vals, "ON_FAILURE", string(provision.FailureAbort))),
		BootWait:  time.Duration(bootWait) * time.Second,

		ReportPath: getString(vals, "REPORT_PATH", ""),
		PVEHost:    getString(vals, "PVE_HOST", ""),
		PVEUser:    getString(vals, "PVE_USER", "root"),
		PVESSHKey:  getString(vals, "PVE_SSH_KEY", ""),
	}

	if cfg.OnFailure != provision.FailureAbort && cfg.OnFailure != provision.FailureContinue {
		return nil, fmt.Errorf("ON_FAILURE must be %q or %q, got %q",
			provision.FailureAbort, provision.FailureContinue, cfg.OnFailure)
	}

	for _, kind := range provision.Kinds {
		spec, err := serviceSpec(vals, kind, cfg)
		if err != nil {
			return nil, err
		}
		cfg.Services = append(cfg.Services, spec)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// serviceSpec assembles the spec for one service kind from its config keys.
func serviceSpec(vals map[string]string, kind provision.ServiceKind, cfg *Config) (provision.ServiceSpec, error) {
	prefix := prefixes[kind]
	defaults := provision.DefaultsFor(kind)

	ctid, err := getInt(vals, prefix+"_CTID", 0)
	if err != nil {
		return provision.ServiceSpec{}, err
	}
	cores, err := getInt(vals, prefix+"_CORES", defaults.Cores)
	if err != nil {
		return provision.ServiceSpec{}, err
	}
	memory, err := getInt(vals, prefix+"_MEMORY_MB", defaults.MemoryMB)
	if err != nil {
		return provision.ServiceSpec{}, err
	}
	disk, err := getInt(vals, prefix+"_DISK_GB", defaults.DiskGB)
	if err != nil {
		return provision.ServiceSpec{}, err
	}

	spec := provision.ServiceSpec{
		Kind:     kind,
		Name:     string(kind),
		Enabled:  getBool(vals, prefix+"_ENABLED"),
		CTID:     ctid,
		Hostname: getString(vals, prefix+"_HOSTNAME", string(kind)),
		IP:       getString(vals, prefix+"_IP", ""),
		Gateway:  cfg.Gateway,
		Cores:    cores,
		MemoryMB: memory,
		SwapMB:   defaults.SwapMB,
		DiskGB:   disk,
		Bridge:   cfg.Bridge,
		Storage:  cfg.Storage,
		Template: cfg.Template,
	}
	if kind == provision.KindDocker {
		spec.ComposeURL = getString(vals, "DOCKER_COMPOSE_URL", "")
	}

	// Disabled entries are carried through for reporting but never
	// validated or provisioned
	if !spec.Enabled {
		return spec, nil
	}
	if err := spec.Validate(); err != nil {
		return spec, fmt.Errorf("invalid config for %s: %w", spec.Name, err)
	}
	return spec, nil
}

// validate applies cross-entry checks on the assembled configuration.
func validate(cfg *Config) error {
	seen := make(map[int]string)
	anyEnabled := false
	for _, spec := range cfg.Services {
		if !spec.Enabled {
			continue
		}
		anyEnabled = true
		if other, dup := seen[spec.CTID]; dup {
			return fmt.Errorf("duplicate CTID %d shared by %s and %s", spec.CTID, other, spec.Name)
		}
		seen[spec.CTID] = spec.Name
	}
	if anyEnabled && cfg.Gateway == "" {
		return fmt.Errorf("GATEWAY is required when any service is enabled")
	}
	return nil
}

func getString(vals map[string]string, key, fallback string) string {
	if v, ok := vals[key]; ok && v != "" {
		return os.ExpandEnv(v)
	}
	return fallback
}

func getBool(vals map[string]string, key string) bool {
	v := strings.ToLower(strings.TrimSpace(vals[key]))
	return v == "true" || v == "yes" || v == "1"
}

func getInt(vals map[string]string, key string, fallback int) (int, error) {
	v, ok := vals[key]
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}
