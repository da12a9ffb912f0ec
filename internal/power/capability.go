package power

import "fmt"

// Capability is one named power-state or sleep-prevention action the
// platform can perform.
type Capability int

const (
	// Suspend puts the system to sleep with state preserved in RAM.
	Suspend Capability = iota
	// Hibernate saves state to disk and powers off.
	Hibernate
	// HybridSleep saves state to disk, then suspends to RAM.
	HybridSleep
	// PreventSleep holds a long-lived inhibitor that blocks automatic
	// sleep. It is never invoked through Provider; see the inhibit package.
	PreventSleep
)

func (c Capability) String() string {
	switch c {
	case Suspend:
		return "suspend"
	case Hibernate:
		return "hibernate"
	case HybridSleep:
		return "hybrid-sleep"
	case PreventSleep:
		return "prevent"
	default:
		return fmt.Sprintf("capability(%d)", int(c))
	}
}

// ParseCapability maps a user-facing name to a Capability.
func ParseCapability(s string) (Capability, error) {
	switch s {
	case "suspend":
		return Suspend, nil
	case "hibernate":
		return Hibernate, nil
	case "hybrid-sleep":
		return HybridSleep, nil
	case "prevent":
		return PreventSleep, nil
	default:
		return 0, fmt.Errorf("unknown sleep type %q (expected suspend, hibernate, hybrid-sleep or prevent)", s)
	}
}
