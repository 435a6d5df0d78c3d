//go:build windows

package daemon

import "os"

// notifySignals lists the signals the daemon loop subscribes to. Windows has
// no user-defined signals, so there is no remote toggle channel here.
func notifySignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}

func isToggleSignal(os.Signal) bool {
	return false
}
