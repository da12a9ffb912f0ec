//go:build !linux && !darwin && !windows

package inhibit

import "fmt"

func (m *Manager) platformStart(string) (*Handle, error) {
	return nil, fmt.Errorf("%w: no sleep-prevention backend on this OS", ErrNotFound)
}
