package power

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// Provider invokes one-shot power-state transitions. It owns the command
// templates and enforces the timeout itself; callers only interpret the
// returned Outcome. PreventSleep is not a one-shot action and is rejected
// here — the inhibit package owns that lifecycle.
type Provider interface {
	Invoke(ctx context.Context, cap Capability, timeout time.Duration) Outcome
}

// Prechecker reports whether a capability can currently be invoked without
// an interactive authentication prompt. Check must be side-effect free.
type Prechecker interface {
	Check(ctx context.Context, cap Capability) (allowed bool, diagnostic string)
}

// New returns the platform Provider.
// See provider_linux.go, provider_darwin.go, provider_windows.go.
func New() Provider {
	return newProvider()
}

// NewPrechecker returns the platform Prechecker.
func NewPrechecker() Prechecker {
	return newPrechecker()
}

// commandProvider runs one command template per capability with a hard
// timeout. All platform providers are instances of it.
type commandProvider struct {
	commands map[Capability][]string
}

func (p *commandProvider) Invoke(ctx context.Context, cap Capability, timeout time.Duration) Outcome {
	if cap == PreventSleep {
		return Failed("prevent is a long-lived inhibitor, not a one-shot action")
	}
	argv, ok := p.commands[cap]
	if !ok {
		return Failed("%s is not supported on this platform", cap)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return Succeeded()
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return TimedOutAfter(timeout)
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return Failed("sleep command failed: %s", msg)
	}
	return Failed("sleep command failed: %v", err)
}

// lookPathCheck is a Prechecker for platforms whose only useful probe is
// command availability.
type lookPathCheck struct {
	commands map[Capability][]string
}

func (c *lookPathCheck) Check(_ context.Context, cap Capability) (bool, string) {
	argv, ok := c.commands[cap]
	if !ok {
		return false, cap.String() + " is not supported on this platform"
	}
	if _, err := exec.LookPath(argv[0]); err != nil {
		return false, argv[0] + " not found"
	}
	return true, ""
}
