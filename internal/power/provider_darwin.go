//go:build darwin

package power

var darwinCommands = map[Capability][]string{
	Suspend: {"pmset", "sleepnow"},
}

func newProvider() Provider {
	return &commandProvider{commands: darwinCommands}
}

func newPrechecker() Prechecker {
	return &lookPathCheck{commands: darwinCommands}
}
