//go:build linux

package power

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const precheckTimeout = 5 * time.Second

var linuxCommands = map[Capability][]string{
	Suspend:     {"systemctl", "suspend"},
	Hibernate:   {"systemctl", "hibernate"},
	HybridSleep: {"systemctl", "hybrid-sleep"},
}

func newProvider() Provider {
	return &commandProvider{commands: linuxCommands}
}

func newPrechecker() Prechecker {
	return &systemdPrecheck{}
}

// systemdPrecheck probes permissions with `systemctl <state> --dry-run`,
// which exercises the polkit authorization path without changing power state.
type systemdPrecheck struct{}

func (s *systemdPrecheck) Check(ctx context.Context, cap Capability) (bool, string) {
	argv, ok := linuxCommands[cap]
	if !ok {
		return false, cap.String() + " is not supported on this platform"
	}
	if _, err := exec.LookPath(argv[0]); err != nil {
		return false, "systemctl command not found"
	}

	ctx, cancel := context.WithTimeout(ctx, precheckTimeout)
	defer cancel()

	args := append(argv[1:], "--dry-run")
	out, err := exec.CommandContext(ctx, argv[0], args...).CombinedOutput()
	if err == nil {
		return true, ""
	}
	if ctx.Err() == context.DeadlineExceeded {
		return false, fmt.Sprintf("permission check timed out for %s", cap)
	}

	msg := strings.TrimSpace(string(out))
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "authentication") || strings.Contains(lower, "unauthorized") {
		return false, fmt.Sprintf("insufficient permissions for %s; run with sudo or configure polkit rules", cap)
	}
	if msg == "" {
		msg = err.Error()
	}
	return false, fmt.Sprintf("cannot use %s: %s", cap, msg)
}
