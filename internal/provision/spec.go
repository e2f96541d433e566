package provision

import (
	"fmt"
	"net"
	"strings"
)

// ServiceKind identifies one of the supported homelab services.
type ServiceKind string

const (
	KindPihole    ServiceKind = "pihole"
	KindTrilium   ServiceKind = "trilium"
	KindHomarr    ServiceKind = "homarr"
	KindObservium ServiceKind = "observium"
	KindUnifi     ServiceKind = "unifi"
	KindDocker    ServiceKind = "docker"
)

// Kinds lists all supported service kinds in provisioning order.
var Kinds = []ServiceKind{
	KindPihole,
	KindTrilium,
	KindHomarr,
	KindObservium,
	KindUnifi,
	KindDocker,
}

// KindDefaults holds the default container sizing for a service kind.
type KindDefaults struct {
	Cores    int
	MemoryMB int
	SwapMB   int
	DiskGB   int
	// NeedsNesting marks kinds that run Docker inside the container and
	// therefore require nesting and keyctl features on creation.
	NeedsNesting bool
}

var kindDefaults = map[ServiceKind]KindDefaults{
	KindPihole:    {Cores: 1, MemoryMB: 512, SwapMB: 512, DiskGB: 4},
	KindTrilium:   {Cores: 1, MemoryMB: 1024, SwapMB: 512, DiskGB: 8},
	KindHomarr:    {Cores: 2, MemoryMB: 2048, SwapMB: 512, DiskGB: 8, NeedsNesting: true},
	KindObservium: {Cores: 2, MemoryMB: 2048, SwapMB: 512, DiskGB: 16},
	KindUnifi:     {Cores: 2, MemoryMB: 2048, SwapMB: 1024, DiskGB: 16},
	KindDocker:    {Cores: 2, MemoryMB: 2048, SwapMB: 512, DiskGB: 16, NeedsNesting: true},
}

// DefaultsFor returns the default sizing for the given kind.
func DefaultsFor(kind ServiceKind) KindDefaults {
	return kindDefaults[kind]
}

// ServiceSpec represents the specification for creating one service container
type ServiceSpec struct {
	Kind     ServiceKind
	Name     string
	Enabled  bool
	CTID     int
	Hostname string
	IP       string // CIDR notation, e.g. 10.1.10.11/24
	Gateway  string
	Cores    int
	MemoryMB int
	SwapMB   int
	DiskGB   int
	Bridge   string
	Storage  string
	Template string

	// ComposeURL is only used by KindDocker: an optional URL to a
	// docker-compose.yml deployed after the Docker engine is installed.
	ComposeURL string
}

// Address returns the bare IP address without the CIDR suffix.
func (s ServiceSpec) Address() string {
	addr, _, found := strings.Cut(s.IP, "/")
	if found {
		return addr
	}
	return s.IP
}

// Validate checks that the spec is well-formed enough to be provisioned.
func (s ServiceSpec) Validate() error {
	if _, ok := kindDefaults[s.Kind]; !ok {
		return fmt.Errorf("unknown service kind %q", s.Kind)
	}
	if s.CTID < 100 {
		return fmt.Errorf("%s: CTID must be >= 100, got %d", s.Name, s.CTID)
	}
	if s.Hostname == "" {
		return fmt.Errorf("%s: hostname is required", s.Name)
	}
	if _, _, err := net.ParseCIDR(s.IP); err != nil {
		return fmt.Errorf("%s: IP must be in CIDR notation: %w", s.Name, err)
	}
	if net.ParseIP(s.Gateway) == nil {
		return fmt.Errorf("%s: invalid gateway address %q", s.Name, s.Gateway)
	}
	return nil
}

// Status describes the outcome of provisioning a single service entry.
type Status string

const (
	StatusCreated       Status = "created"
	StatusSkippedExists Status = "skipped-exists"
	StatusDisabled      Status = "disabled"
	StatusFailed        Status = "failed"
)

// Result contains the outcome of one provisioning attempt
type Result struct {
	Spec       ServiceSpec
	Status     Status
	AccessURL  string
	Credential string
	Err        error
}
