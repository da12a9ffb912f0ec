//go:build windows

package power

var windowsCommands = map[Capability][]string{
	Suspend:   {"Rundll32.exe", "Powrprof.dll,SetSuspendState", "Sleep"},
	Hibernate: {"shutdown", "/h"},
}

func newProvider() Provider {
	return &commandProvider{commands: windowsCommands}
}

func newPrechecker() Prechecker {
	return &lookPathCheck{commands: windowsCommands}
}
