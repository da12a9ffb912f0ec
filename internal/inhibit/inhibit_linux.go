//go:build linux

package inhibit

import "syscall"

func (m *Manager) platformStart(reason string) (*Handle, error) {
	argv := []string{
		"systemd-inhibit",
		"--what=sleep",
		"--who=" + m.Tag,
		"--why=" + reason,
		"sleep", "infinity",
	}
	// Kernel sends SIGTERM to the child when this process dies, so a crash
	// cannot leave the inhibitor holding the lock silently. Orphans from a
	// force-killed run are still possible; Cleanup covers those.
	attr := &syscall.SysProcAttr{Pdeathsig: syscall.SIGTERM}
	return m.startProcess(argv, attr, reason)
}
