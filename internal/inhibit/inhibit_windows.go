//go:build windows

package inhibit

import (
	"errors"
	"os"
	"runtime"
	"sync"
	"syscall"
	"time"
)

// SetThreadExecutionState flags.
const (
	esContinuous     = 0x80000000
	esSystemRequired = 0x00000001
)

var (
	kernel32                    = syscall.NewLazyDLL("kernel32.dll")
	procSetThreadExecutionState = kernel32.NewProc("SetThreadExecutionState")
)

// platformStart holds ES_CONTINUOUS|ES_SYSTEM_REQUIRED on a dedicated
// locked OS thread. The execution state is per-thread, so the goroutine
// stays parked until Stop releases it. There is no child process and the
// state dies with this process, so orphan cleanup has nothing to do here.
func (m *Manager) platformStart(reason string) (*Handle, error) {
	done := make(chan struct{})
	release := make(chan struct{})
	startErr := make(chan error, 1)

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		r, _, _ := procSetThreadExecutionState.Call(uintptr(esContinuous | esSystemRequired))
		if r == 0 {
			startErr <- errors.New("SetThreadExecutionState failed")
			close(done)
			return
		}
		startErr <- nil
		<-release
		procSetThreadExecutionState.Call(uintptr(esContinuous))
		close(done)
	}()

	if err := <-startErr; err != nil {
		return nil, err
	}

	var once sync.Once
	return &Handle{
		PID:       os.Getpid(),
		Reason:    reason,
		StartedAt: time.Now(),
		done:      done,
		stop: func(grace time.Duration) error {
			once.Do(func() { close(release) })
			select {
			case <-done:
				return nil
			case <-time.After(grace):
				return errors.New("execution-state release timed out")
			}
		},
	}, nil
}
