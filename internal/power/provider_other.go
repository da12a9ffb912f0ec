//go:build !linux && !darwin && !windows

package power

import "context"

func newProvider() Provider {
	return &commandProvider{commands: map[Capability][]string{}}
}

func newPrechecker() Prechecker {
	return unsupportedCheck{}
}

type unsupportedCheck struct{}

func (unsupportedCheck) Check(context.Context, Capability) (bool, string) {
	return false, "power-state transitions are not supported on this platform"
}
