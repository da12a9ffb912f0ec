package inhibit

import (
	"context"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

// inhibitorNames are the process names an OS-level sleep inhibitor can run
// under. Cleanup and Foreign only ever look at these.
var inhibitorNames = map[string]bool{
	"systemd-inhibit": true,
	"caffeinate":      true,
}

// proc abstracts the slice of gopsutil used here so cleanup is testable
// against fakes.
type proc interface {
	Pid() int32
	Name() (string, error)
	Cmdline() (string, error)
	Terminate() error
	Kill() error
}

type lister interface {
	Processes(ctx context.Context) ([]proc, error)
}

// CleanupReport summarizes one cleanup pass. A partially failed pass is
// reported, not fatal.
type CleanupReport struct {
	Terminated []int32
	Failed     map[int32]error
	Skipped    int // inhibitors seen but not tagged by this tool
}

// Cleanup enumerates active inhibitors visible to the OS, filters to those
// tagged with this application's identity and terminates them. It recovers
// orphans left by a prior crashed run. Idempotent; inhibitors this tool did
// not tag are never touched.
func (m *Manager) Cleanup(ctx context.Context) (CleanupReport, error) {
	rep := CleanupReport{Failed: make(map[int32]error)}

	procs, err := m.procs.Processes(ctx)
	if err != nil {
		return rep, err
	}

	tag := "--who=" + m.Tag
	for _, p := range procs {
		name, err := p.Name()
		if err != nil || !inhibitorNames[name] {
			continue
		}
		cmdline, err := p.Cmdline()
		if err != nil {
			continue
		}
		if !strings.Contains(cmdline, tag) {
			rep.Skipped++
			continue
		}
		if err := p.Terminate(); err != nil {
			if kerr := p.Kill(); kerr != nil {
				rep.Failed[p.Pid()] = kerr
				continue
			}
		}
		rep.Terminated = append(rep.Terminated, p.Pid())
	}
	return rep, nil
}

// ForeignInhibitor is an inhibitor held by something other than this tool.
type ForeignInhibitor struct {
	PID     int32
	Cmdline string
}

// Foreign lists inhibitors not tagged by this tool. The sleep command
// refuses to schedule while any exist, unless forced.
func (m *Manager) Foreign(ctx context.Context) ([]ForeignInhibitor, error) {
	procs, err := m.procs.Processes(ctx)
	if err != nil {
		return nil, err
	}

	tag := "--who=" + m.Tag
	var foreign []ForeignInhibitor
	for _, p := range procs {
		name, err := p.Name()
		if err != nil || !inhibitorNames[name] {
			continue
		}
		cmdline, err := p.Cmdline()
		if err != nil {
			continue
		}
		if strings.Contains(cmdline, tag) {
			continue
		}
		foreign = append(foreign, ForeignInhibitor{PID: p.Pid(), Cmdline: cmdline})
	}
	return foreign, nil
}

// gopsutilLister is the production process source.
type gopsutilLister struct{}

func (gopsutilLister) Processes(ctx context.Context) ([]proc, error) {
	ps, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]proc, 0, len(ps))
	for _, p := range ps {
		out = append(out, gopsutilProc{p})
	}
	return out, nil
}

type gopsutilProc struct {
	p *process.Process
}

func (g gopsutilProc) Pid() int32               { return g.p.Pid }
func (g gopsutilProc) Name() (string, error)    { return g.p.Name() }
func (g gopsutilProc) Cmdline() (string, error) { return g.p.Cmdline() }
func (g gopsutilProc) Terminate() error         { return g.p.Terminate() }
func (g gopsutilProc) Kill() error              { return g.p.Kill() }
