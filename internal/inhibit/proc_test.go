//go:build !windows

package inhibit

import (
	"os"
	"os/exec"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitDone(t *testing.T, h *Handle, within time.Duration) {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(within):
		t.Fatal("inhibitor process did not exit in time")
	}
}

func TestStartProcessMissingBinary(t *testing.T) {
	m := NewManager()
	_, err := m.startProcess([]string{"definitely-not-a-real-binary-xyzq"}, nil, "test")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStopGraceful(t *testing.T) {
	m := NewManager()
	h, err := m.startProcess([]string{"sleep", "30"}, nil, "test")
	require.NoError(t, err)

	require.NoError(t, m.Stop(h))
	waitDone(t, h, 2*time.Second)
}

func TestStopEscalatesWhenTermIgnored(t *testing.T) {
	m := NewManager()
	m.Grace = 100 * time.Millisecond

	// The child reports readiness on a pipe once its TERM trap is installed;
	// stopping earlier would race the trap and terminate gracefully.
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	m.execCommand = func(name string, arg ...string) *exec.Cmd {
		cmd := exec.Command(name, arg...)
		cmd.Stdout = w
		return cmd
	}

	h, err := m.startProcess([]string{"sh", "-c", `trap "" TERM; echo ready; while :; do sleep 0.1; done`}, nil, "test")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	buf := make([]byte, 16)
	_, err = r.Read(buf)
	require.NoError(t, err, "child never reported readiness")

	err = m.Stop(h)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "killed")
	waitDone(t, h, 2*time.Second)
}

func TestStopNilHandle(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Stop(nil))
	require.NoError(t, m.Stop(&Handle{}))
}

func TestWaitReturnsOnCancel(t *testing.T) {
	m := NewManager()
	m.Poll = 10 * time.Millisecond
	h, err := m.startProcess([]string{"sleep", "30"}, nil, "test")
	require.NoError(t, err)
	defer func() { _ = m.Stop(h) }()

	var cancelled atomic.Bool
	done := make(chan error, 1)
	go func() { done <- m.Wait(h, cancelled.Load) }()

	time.Sleep(30 * time.Millisecond)
	cancelled.Store(true)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Wait did not observe cancellation")
	}
}

func TestWaitDetectsSelfExit(t *testing.T) {
	m := NewManager()
	m.Poll = 10 * time.Millisecond
	h, err := m.startProcess([]string{"sh", "-c", "exit 0"}, nil, "test")
	require.NoError(t, err)

	waitDone(t, h, 2*time.Second)
	err = m.Wait(h, func() bool { return false })
	require.ErrorIs(t, err, ErrExited)
}
