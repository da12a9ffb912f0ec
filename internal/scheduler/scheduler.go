// Package scheduler drives the countdown → act → evaluate → re-arm loop at
// the core of sleepctl. One run executes on a dedicated goroutine so the
// invoking CLI loop is never blocked; progress is pushed to an Observer and
// cancellation is a cooperative flag polled at tick boundaries.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/systemsleep/sleepctl/internal/power"
)

// Result is the terminal state of a completed run.
type Result struct {
	Phase   Phase
	Message string
}

// Scheduler executes Requests. A single instance runs at most one request
// at a time; Run rejects re-entry while a run is active.
type Scheduler struct {
	req      Request
	provider power.Provider
	precheck power.Prechecker
	obs      Observer
	token    *Token

	interval time.Duration
	log      *slog.Logger
	runID    string
	running  atomic.Bool
}

// New creates a Scheduler for one request. The token is the caller's
// cancellation handle; obs receives all progress notifications.
func New(req Request, provider power.Provider, precheck power.Prechecker, token *Token, obs Observer) *Scheduler {
	if obs == nil {
		obs = NopObserver{}
	}
	if token == nil {
		token = NewToken()
	}
	return &Scheduler{
		req:      req,
		provider: provider,
		precheck: precheck,
		obs:      obs,
		token:    token,
		interval: time.Second,
		log:      slog.Default(),
		runID:    uuid.NewString(),
	}
}

// SetInterval overrides the 1-second tick interval. Tests use this to run
// countdowns in milliseconds; the tick count is unchanged.
func (s *Scheduler) SetInterval(d time.Duration) {
	if d > 0 {
		s.interval = d
	}
}

// AddObserver attaches another observer. Must be called before Run.
func (s *Scheduler) AddObserver(o Observer) {
	if o == nil || s.running.Load() {
		return
	}
	s.obs = MultiObserver{s.obs, o}
}

// SetLogger overrides the run logger.
func (s *Scheduler) SetLogger(log *slog.Logger) {
	if log != nil {
		s.log = log
	}
}

// RunID identifies this run in events and logs.
func (s *Scheduler) RunID() string {
	return s.runID
}

// Run validates the request, prechecks permissions, then drives the cycle
// loop until a terminal phase. It blocks; callers start it on a background
// goroutine. Validation and precheck failures return an error before any
// notification is emitted; once the run starts, the terminal notification
// is always the last one emitted and Run returns its Result.
func (s *Scheduler) Run(ctx context.Context) (Result, error) {
	if !s.running.CompareAndSwap(false, true) {
		return Result{}, ErrAlreadyRunning
	}
	defer s.running.Store(false)

	if err := s.req.Validate(); err != nil {
		return Result{}, err
	}
	if allowed, diag := s.precheck.Check(ctx, s.req.Capability); !allowed {
		return Result{}, fmt.Errorf("%w: %s", ErrPermissionDenied, diag)
	}

	s.log.Info("run starting",
		"run_id", s.runID,
		"capability", s.req.Capability.String(),
		"initial_delay", s.req.InitialDelay,
		"cycle", s.req.Cycle,
	)

	cycle := 1
	total := int(s.req.InitialDelay / time.Second)

	for {
		if res, done := s.countdown(cycle, total); done {
			return res, nil
		}

		// Cancellation is re-checked before entering Acting; an in-flight
		// platform call is not interruptible.
		if s.token.Cancelled() {
			return s.terminate(Cancelled, "cancelled before sleep command"), nil
		}

		s.obs.OnPhaseChange(Acting, fmt.Sprintf("issuing %s command", s.req.Capability))
		s.log.Info("issuing sleep command", "run_id", s.runID, "cycle", cycle)

		outcome := s.provider.Invoke(ctx, s.req.Capability, s.req.ActionTimeout)
		if outcome.Status != power.Success {
			s.log.Error("sleep command failed", "run_id", s.runID, "cycle", cycle, "error", outcome.Message)
			return s.terminate(Failed, outcome.Message), nil
		}
		s.log.Info("sleep command issued successfully", "run_id", s.runID, "cycle", cycle)

		if !s.req.Cycle {
			return s.terminate(Completed, fmt.Sprintf("%s command issued successfully", s.req.Capability)), nil
		}

		// A cancellation observed once the action returns prevents re-arming.
		if s.token.Cancelled() {
			return s.terminate(Cancelled, "cancelled after wake"), nil
		}

		total = int(s.req.WakeDelay / time.Second)
		s.obs.OnPhaseChange(Waiting,
			fmt.Sprintf("system woke up; next %s in %s", s.req.Capability, s.req.WakeDelay))
		s.log.Info("system woke up; re-arming", "run_id", s.runID, "wake_delay", s.req.WakeDelay)
		cycle++
	}
}

// countdown runs one Counting phase of total seconds, emitting a tick per
// elapsed second. Progress is monotonic and reaches exactly 100 on the tick
// immediately preceding Acting. A zero-length countdown emits a single
// zero-progress tick so observers see every cycle.
func (s *Scheduler) countdown(cycle, total int) (Result, bool) {
	s.obs.OnPhaseChange(Counting, countingMessage(cycle, total))

	if total == 0 {
		s.obs.OnTick(cycle, 0, 0)
		return Result{}, false
	}

	for elapsed := 1; elapsed <= total; elapsed++ {
		if s.token.Cancelled() {
			return s.terminate(Cancelled, "countdown interrupted by user"), true
		}
		time.Sleep(s.interval)
		remaining := time.Duration(total-elapsed) * time.Second
		percent := float64(elapsed) / float64(total) * 100
		s.obs.OnTick(cycle, remaining, percent)
	}
	return Result{}, false
}

func (s *Scheduler) terminate(phase Phase, message string) Result {
	s.log.Info("run finished", "run_id", s.runID, "phase", phase.String(), "message", message)
	s.obs.OnTerminal(phase, message)
	return Result{Phase: phase, Message: message}
}

func countingMessage(cycle, total int) string {
	if total == 0 {
		return fmt.Sprintf("[cycle %d] sleeping immediately", cycle)
	}
	return fmt.Sprintf("[cycle %d] sleeping in %s", cycle, time.Duration(total)*time.Second)
}
