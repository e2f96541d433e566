package provision_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"pvelab/internal/provision"
	"pvelab/internal/pve"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// MockRunner implements runner.Runner with tracking of every command and
// file write issued against the Proxmox host.
type MockRunner struct {
	mu       sync.Mutex
	Commands []string
	Files    map[string]string
	Outputs  map[string]string // command prefix -> canned output
	FailOn   string            // commands containing this substring fail
}

func NewMockRunner() *MockRunner {
	return &MockRunner{
		Files:   make(map[string]string),
		Outputs: make(map[string]string),
	}
}

func (m *MockRunner) Run(_ context.Context, command string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Commands = append(m.Commands, command)
	if m.FailOn != "" && strings.Contains(command, m.FailOn) {
		return "", fmt.Errorf("exit status 1")
	}
	for prefix, output := range m.Outputs {
		if strings.HasPrefix(command, prefix) {
			return output, nil
		}
	}
	return "", nil
}

func (m *MockRunner) WriteFile(path, content string, _ os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Files[path] = content
	return nil
}

func (m *MockRunner) Close() error { return nil }

func (m *MockRunner) CommandsMatching(substr string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []string
	for _, cmd := range m.Commands {
		if strings.Contains(cmd, substr) {
			matched = append(matched, cmd)
		}
	}
	return matched
}

func (m *MockRunner) MutatingCommands() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var mutating []string
	for _, cmd := range m.Commands {
		// pct list / pveam list / pct status are read-only
		if strings.HasPrefix(cmd, "pct list") ||
			strings.HasPrefix(cmd, "pveam list") ||
			strings.HasPrefix(cmd, "pct status") {
			continue
		}
		mutating = append(mutating, cmd)
	}
	return mutating
}

const emptyHost = "VMID       Status     Lock         Name\n"

const templatePresent = `NAME                                                         SIZE
local-lvm:vztmpl/debian-12-standard_12.7-1_amd64.tar.zst     120MB
`

func triliumSpec() provision.ServiceSpec {
	return provision.ServiceSpec{
		Kind:     provision.KindTrilium,
		Name:     "trilium",
		Enabled:  true,
		CTID:     101,
		Hostname: "trilium",
		IP:       "10.1.10.11/24",
		Gateway:  "10.1.10.1",
		Cores:    1,
		MemoryMB: 1024,
		SwapMB:   512,
		DiskGB:   8,
		Bridge:   "vmbr0",
		Storage:  "local-lvm",
		Template: "debian-12-standard_12.7-1_amd64.tar.zst",
	}
}

func piholeSpec() provision.ServiceSpec {
	spec := triliumSpec()
	spec.Kind = provision.KindPihole
	spec.Name = "pihole"
	spec.CTID = 100
	spec.Hostname = "pihole"
	spec.IP = "10.1.10.10/24"
	return spec
}

func newProvisioner(mock *MockRunner, policy provision.FailurePolicy) *provision.Provisioner {
	return provision.New(pve.NewClient(mock), provision.Options{
		BootWait:  0,
		OnFailure: policy,
	})
}

var _ = Describe("Provisioner", func() {
	var mock *MockRunner

	BeforeEach(func() {
		mock = NewMockRunner()
		mock.Outputs["pct list"] = emptyHost
		mock.Outputs["pveam list"] = templatePresent
	})

	Describe("disabled entries", func() {
		It("produces no side effects", func() {
			spec := triliumSpec()
			spec.Enabled = false

			results, err := newProvisioner(mock, provision.FailureAbort).
				ProvisionAll(context.Background(), []provision.ServiceSpec{spec})

			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Status).To(Equal(provision.StatusDisabled))
			Expect(mock.MutatingCommands()).To(BeEmpty())
		})
	})

	Describe("identifier collision", func() {
		It("skips entries whose CTID is already in use without mutating calls", func() {
			mock.Outputs["pct list"] = "VMID       Status     Lock         Name\n" +
				"101        running                 trilium\n"

			results, err := newProvisioner(mock, provision.FailureAbort).
				ProvisionAll(context.Background(), []provision.ServiceSpec{triliumSpec()})

			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Status).To(Equal(provision.StatusSkippedExists))
			Expect(results[0].AccessURL).To(Equal("http://10.1.10.11:8080"))
			Expect(mock.MutatingCommands()).To(BeEmpty())
		})
	})

	Describe("a single enabled service", func() {
		It("creates exactly one container and reports its access URL", func() {
			specs := []provision.ServiceSpec{piholeSpec(), triliumSpec()}
			specs[0].Enabled = false

			results, err := newProvisioner(mock, provision.FailureAbort).
				ProvisionAll(context.Background(), specs)

			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
			Expect(results[0].Status).To(Equal(provision.StatusDisabled))
			Expect(results[1].Status).To(Equal(provision.StatusCreated))
			Expect(results[1].AccessURL).To(Equal("http://10.1.10.11:8080"))

			creates := mock.CommandsMatching("pct create")
			Expect(creates).To(HaveLen(1))
			Expect(creates[0]).To(HavePrefix("pct create 101 local-lvm:vztmpl/debian-12-standard"))
			Expect(creates[0]).To(ContainSubstring("--net0 name=eth0,bridge=vmbr0,gw=10.1.10.1,ip=10.1.10.11/24"))
			Expect(mock.CommandsMatching("pct start 101")).To(HaveLen(1))

			// The install sequence pushed the systemd unit into the container
			Expect(mock.CommandsMatching("pct push 101")).NotTo(BeEmpty())
		})
	})

	Describe("idempotence", func() {
		It("yields SkippedExists on a second run against the same config", func() {
			specs := []provision.ServiceSpec{triliumSpec()}

			first, err := newProvisioner(mock, provision.FailureAbort).
				ProvisionAll(context.Background(), specs)
			Expect(err).NotTo(HaveOccurred())
			Expect(first[0].Status).To(Equal(provision.StatusCreated))

			// Second run: the host now reports CTID 101 as used
			second := NewMockRunner()
			second.Outputs["pct list"] = "VMID       Status     Lock         Name\n" +
				"101        running                 trilium\n"
			second.Outputs["pveam list"] = templatePresent

			results, err := newProvisioner(second, provision.FailureAbort).
				ProvisionAll(context.Background(), specs)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].Status).To(Equal(provision.StatusSkippedExists))
			Expect(second.MutatingCommands()).To(BeEmpty())
		})

		It("does not reuse a CTID created earlier in the same run", func() {
			// Two entries sharing a CTID: the second must be skipped, not
			// recreated. The config layer rejects this, but the provisioner
			// holds the invariant on its own too.
			a := triliumSpec()
			b := piholeSpec()
			b.CTID = a.CTID

			results, err := newProvisioner(mock, provision.FailureAbort).
				ProvisionAll(context.Background(), []provision.ServiceSpec{a, b})

			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].Status).To(Equal(provision.StatusCreated))
			Expect(results[1].Status).To(Equal(provision.StatusSkippedExists))
			Expect(mock.CommandsMatching("pct create")).To(HaveLen(1))
		})
	})

	Describe("failure policy", func() {
		It("aborts the batch at the first install failure", func() {
			mock.FailOn = "install.pi-hole.net"

			results, err := newProvisioner(mock, provision.FailureAbort).
				ProvisionAll(context.Background(), []provision.ServiceSpec{piholeSpec(), triliumSpec()})

			Expect(err).To(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Status).To(Equal(provision.StatusFailed))
			// The second entry was never attempted
			Expect(mock.CommandsMatching("pct create 101")).To(BeEmpty())
		})

		It("continues to the next entry when configured to", func() {
			mock.FailOn = "install.pi-hole.net"

			results, err := newProvisioner(mock, provision.FailureContinue).
				ProvisionAll(context.Background(), []provision.ServiceSpec{piholeSpec(), triliumSpec()})

			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
			Expect(results[0].Status).To(Equal(provision.StatusFailed))
			Expect(results[0].Err).To(HaveOccurred())
			Expect(results[1].Status).To(Equal(provision.StatusCreated))
		})
	})

	Describe("credential extraction", func() {
		It("reports the generated Pi-hole web password", func() {
			mock.Outputs["pct exec 100 -- bash -c 'grep ^WEBPASSWORD="] = "s3cretpass\n"

			results, err := newProvisioner(mock, provision.FailureAbort).
				ProvisionAll(context.Background(), []provision.ServiceSpec{piholeSpec()})

			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].Status).To(Equal(provision.StatusCreated))
			Expect(results[0].Credential).To(Equal("s3cretpass"))
		})
	})

	Describe("container features", func() {
		It("enables nesting only for kinds that run Docker inside", func() {
			homarr := triliumSpec()
			homarr.Kind = provision.KindHomarr
			homarr.Name = "homarr"
			homarr.CTID = 102
			homarr.IP = "10.1.10.12/24"

			results, err := newProvisioner(mock, provision.FailureAbort).
				ProvisionAll(context.Background(), []provision.ServiceSpec{triliumSpec(), homarr})

			Expect(err).NotTo(HaveOccurred())
			Expect(results[1].AccessURL).To(Equal("http://10.1.10.12:7575"))

			triliumCreate := mock.CommandsMatching("pct create 101")
			Expect(triliumCreate).To(HaveLen(1))
			Expect(triliumCreate[0]).NotTo(ContainSubstring("nesting=1"))

			homarrCreate := mock.CommandsMatching("pct create 102")
			Expect(homarrCreate).To(HaveLen(1))
			Expect(homarrCreate[0]).To(ContainSubstring("--features nesting=1,keyctl=1"))
		})
	})
})
