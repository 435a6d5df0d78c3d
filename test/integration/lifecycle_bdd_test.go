//go:build integration

package integration

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"voxd/internal/daemon"
	"voxd/internal/domain"
	"voxd/internal/infra"
)

// stubProcessManager scripts process liveness for the registry.
type stubProcessManager struct {
	running  map[int]bool
	cmdlines map[int]string
}

func newStubProcessManager() *stubProcessManager {
	return &stubProcessManager{
		running:  make(map[int]bool),
		cmdlines: make(map[int]string),
	}
}

func (m *stubProcessManager) IsRunning(pid int) bool { return m.running[pid] }

func (m *stubProcessManager) Cmdline(pid int) (string, error) {
	return m.cmdlines[pid], nil
}

func (m *stubProcessManager) CurrentPID() int { return os.Getpid() }

// stubController records control-channel traffic and lets specs script when
// the "process" exits.
type stubController struct {
	pm         *stubProcessManager
	exitOnTerm bool
	terminated []int
	killed     []int
	toggled    []int
}

func (c *stubController) Exists(pid int) bool { return c.pm.running[pid] }

func (c *stubController) Terminate(pid int) error {
	c.terminated = append(c.terminated, pid)
	if c.exitOnTerm {
		c.pm.running[pid] = false
	}
	return nil
}

func (c *stubController) Kill(pid int) error {
	c.killed = append(c.killed, pid)
	c.pm.running[pid] = false
	return nil
}

func (c *stubController) Toggle(pid int) error {
	c.toggled = append(c.toggled, pid)
	return nil
}

var _ = Describe("Daemon lifecycle", func() {
	var (
		tmpDir       string
		registryPath string
		pm           *stubProcessManager
		registry     *infra.FileRegistry
		controller   *stubController
		control      *daemon.Control
	)

	const daemonPID = 54321

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "voxd-integration-*")
		Expect(err).NotTo(HaveOccurred())

		registryPath = filepath.Join(tmpDir, "daemon.pid")
		pm = newStubProcessManager()
		registry = infra.NewFileRegistryWithPath(registryPath, pm, zap.NewNop())
		controller = &stubController{pm: pm}
		control = daemon.NewControl(registry, controller, zap.NewNop())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	registerLiveDaemon := func() {
		Expect(registry.Write(daemonPID)).To(Succeed())
		// The written entry records this test binary's command line; make
		// the scripted process match it so the entry reads as live.
		entry, err := registry.Read()
		Expect(err).NotTo(HaveOccurred())
		pm.running[daemonPID] = true
		pm.cmdlines[daemonPID] = entry.Command + " " + domain.IdentityToken
	}

	Describe("Status", func() {
		Context("when no daemon is registered", func() {
			It("reports not running", func() {
				st := control.Status()
				Expect(st.Running).To(BeFalse())
				Expect(st.RegistryPath).To(Equal(registryPath))
			})
		})

		Context("when a live daemon is registered", func() {
			It("reports the registered PID", func() {
				registerLiveDaemon()

				st := control.Status()
				Expect(st.Running).To(BeTrue())
				Expect(st.PID).To(Equal(daemonPID))
			})
		})

		Context("when the registry entry points at a dead process", func() {
			It("self-heals the registry file on disk", func() {
				Expect(registry.Write(daemonPID)).To(Succeed())
				// PID never marked running: the process is gone.

				st := control.Status()
				Expect(st.Running).To(BeFalse())
				_, err := os.Stat(registryPath)
				Expect(os.IsNotExist(err)).To(BeTrue())
			})
		})

		Context("when the registry file holds a legacy bare PID", func() {
			It("still finds the daemon", func() {
				Expect(os.WriteFile(registryPath, []byte("54321"), 0o600)).To(Succeed())
				pm.running[daemonPID] = true
				pm.cmdlines[daemonPID] = "/usr/local/bin/voxd run"

				st := control.Status()
				Expect(st.Running).To(BeTrue())
				Expect(st.PID).To(Equal(daemonPID))
			})
		})
	})

	Describe("Stop", func() {
		Context("when the daemon exits on the graceful request", func() {
			It("removes the registry file without escalating", func() {
				registerLiveDaemon()
				controller.exitOnTerm = true

				Expect(control.Stop()).To(Succeed())
				Expect(controller.terminated).To(ConsistOf(daemonPID))
				Expect(controller.killed).To(BeEmpty())

				_, err := os.Stat(registryPath)
				Expect(os.IsNotExist(err)).To(BeTrue())
			})
		})

		Context("when the daemon ignores the graceful request", func() {
			It("escalates to a forced kill and still cleans up", func() {
				registerLiveDaemon()
				controller.exitOnTerm = false

				start := time.Now()
				Expect(control.Stop()).To(Succeed())
				Expect(controller.terminated).To(ConsistOf(daemonPID))
				Expect(controller.killed).To(ConsistOf(daemonPID))
				// The grace period is bounded.
				Expect(time.Since(start)).To(BeNumerically("<", 10*time.Second))

				_, err := os.Stat(registryPath)
				Expect(os.IsNotExist(err)).To(BeTrue())
			})
		})

		Context("when no daemon is running", func() {
			It("returns ErrNotRunning without signaling anything", func() {
				err := control.Stop()
				Expect(err).To(MatchError(domain.ErrNotRunning))
				Expect(controller.terminated).To(BeEmpty())
			})
		})

		Context("when the registered PID now belongs to another program", func() {
			It("deletes the entry and refuses to signal the stranger", func() {
				Expect(registry.Write(daemonPID)).To(Succeed())
				pm.running[daemonPID] = true
				pm.cmdlines[daemonPID] = "/usr/bin/vim notes.txt"

				err := control.Stop()
				Expect(err).To(MatchError(domain.ErrNotRunning))
				Expect(controller.terminated).To(BeEmpty())
				Expect(controller.killed).To(BeEmpty())

				_, statErr := os.Stat(registryPath)
				Expect(os.IsNotExist(statErr)).To(BeTrue())
			})
		})
	})

	Describe("Toggle", func() {
		Context("with a live daemon", func() {
			It("delivers the toggle to the registered PID", func() {
				registerLiveDaemon()

				Expect(control.Toggle()).To(Succeed())
				Expect(controller.toggled).To(ConsistOf(daemonPID))
			})
		})

		Context("without a daemon", func() {
			It("fails with ErrNotRunning", func() {
				Expect(control.Toggle()).To(MatchError(domain.ErrNotRunning))
			})
		})
	})
})
