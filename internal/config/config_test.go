package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pvelab/internal/provision"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pvelab.conf")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.conf"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestLoadSingleService(t *testing.T) {
	path := writeConfig(t, `
GATEWAY=10.1.10.1
TRILIUM_ENABLED=true
TRILIUM_CTID=101
TRILIUM_IP=10.1.10.11/24
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Storage != "local-lvm" {
		t.Errorf("Storage = %q, want default local-lvm", cfg.Storage)
	}
	if cfg.Bridge != "vmbr0" {
		t.Errorf("Bridge = %q, want default vmbr0", cfg.Bridge)
	}
	if cfg.OnFailure != provision.FailureAbort {
		t.Errorf("OnFailure = %q, want default abort", cfg.OnFailure)
	}

	if len(cfg.Services) != len(provision.Kinds) {
		t.Fatalf("got %d service entries, want %d", len(cfg.Services), len(provision.Kinds))
	}

	enabled := 0
	for _, spec := range cfg.Services {
		if !spec.Enabled {
			continue
		}
		enabled++
		if spec.Kind != provision.KindTrilium {
			t.Errorf("enabled service = %s, want trilium", spec.Kind)
		}
		if spec.CTID != 101 {
			t.Errorf("CTID = %d, want 101", spec.CTID)
		}
		if spec.Hostname != "trilium" {
			t.Errorf("Hostname = %q, want default trilium", spec.Hostname)
		}
		if spec.Gateway != "10.1.10.1" {
			t.Errorf("Gateway = %q, want 10.1.10.1", spec.Gateway)
		}
		defaults := provision.DefaultsFor(provision.KindTrilium)
		if spec.Cores != defaults.Cores || spec.MemoryMB != defaults.MemoryMB {
			t.Errorf("sizing = %d/%d, want defaults %d/%d",
				spec.Cores, spec.MemoryMB, defaults.Cores, defaults.MemoryMB)
		}
	}
	if enabled != 1 {
		t.Errorf("got %d enabled services, want 1", enabled)
	}
}

func TestLoadSizingOverrides(t *testing.T) {
	path := writeConfig(t, `
GATEWAY=10.1.10.1
PIHOLE_ENABLED=true
PIHOLE_CTID=100
PIHOLE_IP=10.1.10.10/24
PIHOLE_CORES=4
PIHOLE_MEMORY_MB=2048
PIHOLE_DISK_GB=10
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	spec := cfg.Services[0]
	if spec.Kind != provision.KindPihole {
		t.Fatalf("first service = %s, want pihole", spec.Kind)
	}
	if spec.Cores != 4 || spec.MemoryMB != 2048 || spec.DiskGB != 10 {
		t.Errorf("sizing = %d/%d/%d, want 4/2048/10", spec.Cores, spec.MemoryMB, spec.DiskGB)
	}
}

func TestLoadDuplicateCTID(t *testing.T) {
	path := writeConfig(t, `
GATEWAY=10.1.10.1
PIHOLE_ENABLED=true
PIHOLE_CTID=100
PIHOLE_IP=10.1.10.10/24
TRILIUM_ENABLED=true
TRILIUM_CTID=100
TRILIUM_IP=10.1.10.11/24
`)
	if _, err := Load(path); err == nil {
		t.Error("Load() with duplicate CTIDs should fail")
	}
}

func TestLoadInvalidCIDR(t *testing.T) {
	path := writeConfig(t, `
GATEWAY=10.1.10.1
TRILIUM_ENABLED=true
TRILIUM_CTID=101
TRILIUM_IP=10.1.10.11
`)
	if _, err := Load(path); err == nil {
		t.Error("Load() with non-CIDR IP should fail")
	}
}

func TestLoadMissingGateway(t *testing.T) {
	path := writeConfig(t, `
TRILIUM_ENABLED=true
TRILIUM_CTID=101
TRILIUM_IP=10.1.10.11/24
`)
	if _, err := Load(path); err == nil {
		t.Error("Load() without GATEWAY should fail when a service is enabled")
	}
}

func TestLoadMalformedCTID(t *testing.T) {
	path := writeConfig(t, `
GATEWAY=10.1.10.1
TRILIUM_ENABLED=true
TRILIUM_CTID=1o1
TRILIUM_IP=10.1.10.11/24
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() with non-integer CTID should fail")
	}
	if !strings.Contains(err.Error(), "TRILIUM_CTID") || !strings.Contains(err.Error(), "1o1") {
		t.Errorf("error %q does not name the offending key and value", err)
	}
}

func TestLoadMalformedBootWait(t *testing.T) {
	path := writeConfig(t, `
GATEWAY=10.1.10.1
BOOT_WAIT_SECONDS=abc
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() with non-integer BOOT_WAIT_SECONDS should fail")
	}
	if !strings.Contains(err.Error(), "BOOT_WAIT_SECONDS") {
		t.Errorf("error %q does not name the offending key", err)
	}
}

func TestLoadBadFailurePolicy(t *testing.T) {
	path := writeConfig(t, `
GATEWAY=10.1.10.1
ON_FAILURE=retry
`)
	if _, err := Load(path); err == nil {
		t.Error("Load() with unknown ON_FAILURE should fail")
	}
}

func TestLoadAllDisabled(t *testing.T) {
	// A config with nothing enabled is valid; gateway is not required
	path := writeConfig(t, "STORAGE=tank\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage != "tank" {
		t.Errorf("Storage = %q, want tank", cfg.Storage)
	}
	for _, spec := range cfg.Services {
		if spec.Enabled {
			t.Errorf("service %s unexpectedly enabled", spec.Name)
		}
	}
}

func TestWriteExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pvelab.conf")
	if err := WriteExample(path); err != nil {
		t.Fatalf("WriteExample() error = %v", err)
	}

	// The example must itself be parseable, with everything disabled
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() of example config error = %v", err)
	}
	for _, spec := range cfg.Services {
		if spec.Enabled {
			t.Errorf("example config enables %s", spec.Name)
		}
	}

	// Never clobber an existing config
	if err := WriteExample(path); err == nil {
		t.Error("WriteExample() over existing file should fail")
	}
}
