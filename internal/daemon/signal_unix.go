//go:build !windows

package daemon

import (
	"os"
	"syscall"
)

// notifySignals lists the signals the daemon loop subscribes to.
// SIGUSR1 is the remote toggle; the rest request shutdown.
func notifySignals() []os.Signal {
	return []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1}
}

func isToggleSignal(sig os.Signal) bool {
	return sig == syscall.SIGUSR1
}
