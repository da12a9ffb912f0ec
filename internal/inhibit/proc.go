//go:build !windows

package inhibit

import (
	"fmt"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// killSettle bounds the wait for process reaping after a kill escalation.
const killSettle = 200 * time.Millisecond

// startProcess launches a process-backed inhibitor and arranges reaping.
func (m *Manager) startProcess(argv []string, attr *syscall.SysProcAttr, reason string) (*Handle, error) {
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s not found", ErrNotFound, argv[0])
	}

	execCommand := m.execCommand
	if execCommand == nil {
		execCommand = exec.Command
	}
	cmd := execCommand(path, argv[1:]...)
	cmd.SysProcAttr = attr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", argv[0], err)
	}

	h := &Handle{
		PID:       cmd.Process.Pid,
		Reason:    reason,
		StartedAt: time.Now(),
		cmd:       cmd,
		done:      make(chan struct{}),
	}
	// Reap in the background so the child never becomes a zombie.
	go func() {
		_ = cmd.Wait()
		close(h.done)
	}()
	h.stop = newProcStop(h)
	return h, nil
}

// newProcStop returns the SIGTERM-then-SIGKILL stop for a process-backed
// handle.
func newProcStop(h *Handle) func(time.Duration) error {
	var once sync.Once
	return func(grace time.Duration) error {
		if h.cmd == nil || h.cmd.Process == nil {
			return nil
		}
		once.Do(func() {
			_ = h.cmd.Process.Signal(syscall.SIGTERM)
		})
		select {
		case <-h.done:
			return nil
		case <-time.After(grace):
		}
		_ = h.cmd.Process.Kill()
		select {
		case <-h.done:
		case <-time.After(killSettle):
		}
		return fmt.Errorf("inhibitor pid %d did not exit within %s; killed", h.PID, grace)
	}
}
