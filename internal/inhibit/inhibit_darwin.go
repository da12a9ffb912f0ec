//go:build darwin

package inhibit

import (
	"os"
	"strconv"
)

func (m *Manager) platformStart(reason string) (*Handle, error) {
	// -i: prevent idle sleep
	// -w <pid>: exit automatically when this process dies, so an orphaned
	// caffeinate cannot outlive a crashed run.
	argv := []string{"caffeinate", "-i", "-w", strconv.Itoa(os.Getpid())}
	return m.startProcess(argv, nil, reason)
}
