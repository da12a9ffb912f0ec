package inhibit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProc struct {
	pid     int32
	name    string
	cmdline string

	termErr error
	killErr error

	terminated bool
	killed     bool
}

func (f *fakeProc) Pid() int32               { return f.pid }
func (f *fakeProc) Name() (string, error)    { return f.name, nil }
func (f *fakeProc) Cmdline() (string, error) { return f.cmdline, nil }

func (f *fakeProc) Terminate() error {
	f.terminated = true
	return f.termErr
}

func (f *fakeProc) Kill() error {
	f.killed = true
	return f.killErr
}

type fakeLister struct {
	procs []proc
	err   error
}

func (f fakeLister) Processes(context.Context) ([]proc, error) { return f.procs, f.err }

func testManager(procs ...proc) *Manager {
	m := NewManager()
	m.procs = fakeLister{procs: procs}
	return m
}

func TestCleanupTerminatesOnlyTaggedInhibitors(t *testing.T) {
	ours1 := &fakeProc{pid: 101, name: "systemd-inhibit", cmdline: "systemd-inhibit --what=sleep --who=sleepctl --why=scheduled sleep infinity"}
	ours2 := &fakeProc{pid: 102, name: "systemd-inhibit", cmdline: "systemd-inhibit --what=sleep --who=sleepctl --why=manual sleep infinity"}
	foreign := &fakeProc{pid: 103, name: "systemd-inhibit", cmdline: "systemd-inhibit --what=sleep --who=gnome-session --why=session sleep infinity"}
	unrelated := &fakeProc{pid: 104, name: "firefox", cmdline: "/usr/lib/firefox/firefox"}

	m := testManager(ours1, ours2, foreign, unrelated)
	rep, err := m.Cleanup(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, []int32{101, 102}, rep.Terminated)
	assert.Empty(t, rep.Failed)
	assert.Equal(t, 1, rep.Skipped)

	assert.True(t, ours1.terminated)
	assert.True(t, ours2.terminated)
	assert.False(t, foreign.terminated, "foreign inhibitors must never be touched")
	assert.False(t, unrelated.terminated)
}

func TestCleanupEscalatesToKill(t *testing.T) {
	stubborn := &fakeProc{
		pid:     201,
		name:    "systemd-inhibit",
		cmdline: "systemd-inhibit --who=sleepctl sleep infinity",
		termErr: errors.New("operation not permitted"),
	}

	m := testManager(stubborn)
	rep, err := m.Cleanup(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int32{201}, rep.Terminated)
	assert.True(t, stubborn.killed)
	assert.Empty(t, rep.Failed)
}

func TestCleanupReportsUnkillable(t *testing.T) {
	killErr := errors.New("operation not permitted")
	stuck := &fakeProc{
		pid:     301,
		name:    "caffeinate",
		cmdline: "caffeinate -i --who=sleepctl",
		termErr: errors.New("no such process"),
		killErr: killErr,
	}
	ok := &fakeProc{pid: 302, name: "systemd-inhibit", cmdline: "systemd-inhibit --who=sleepctl sleep infinity"}

	m := testManager(stuck, ok)
	rep, err := m.Cleanup(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int32{302}, rep.Terminated)
	require.Contains(t, rep.Failed, int32(301))
	assert.Equal(t, killErr, rep.Failed[301])
}

func TestCleanupIdempotent(t *testing.T) {
	m := testManager()
	rep, err := m.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rep.Terminated)
	assert.Empty(t, rep.Failed)
	assert.Zero(t, rep.Skipped)
}

func TestCleanupPropagatesListError(t *testing.T) {
	m := NewManager()
	listErr := errors.New("proc scan failed")
	m.procs = fakeLister{err: listErr}

	_, err := m.Cleanup(context.Background())
	require.ErrorIs(t, err, listErr)
}

func TestForeignListsUntaggedOnly(t *testing.T) {
	ours := &fakeProc{pid: 401, name: "systemd-inhibit", cmdline: "systemd-inhibit --who=sleepctl sleep infinity"}
	other := &fakeProc{pid: 402, name: "systemd-inhibit", cmdline: "systemd-inhibit --who=NetworkManager sleep infinity"}
	noise := &fakeProc{pid: 403, name: "bash", cmdline: "bash"}

	m := testManager(ours, other, noise)
	foreign, err := m.Foreign(context.Background())
	require.NoError(t, err)

	require.Len(t, foreign, 1)
	assert.Equal(t, int32(402), foreign[0].PID)
	assert.Contains(t, foreign[0].Cmdline, "NetworkManager")
}
