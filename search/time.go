package search

import (
	"context"
	"sync/atomic"
	"time"
)

// errSearchTimeout is the sentinel panic value every search frame
// recovers down to its Engine.Run boundary, grounded in the teacher's
// own searchTimeout / errSearchTimeout idiom (engine/timemanagement.go,
// pkg/engine). Cooperative cancellation this way keeps the move loop
// itself free of an error return it would otherwise have to check
// after every recursive call.
type searchTimeoutError struct{}

func (searchTimeoutError) Error() string { return "search: timeout" }

var errSearchTimeout error = searchTimeoutError{}

// TimeManager owns the node counter and the hard deadline for one
// search. PollDeadline is wired into the pool's TimerWorker tick and
// cancels the search's context once the wall clock crosses the
// deadline; PanicOnHardTimeout, polled by the search itself, is what
// panics with errSearchTimeout.
type TimeManager struct {
	ctx    context.Context
	cancel context.CancelFunc

	deadline time.Time
	hard     bool

	nodes int64
}

// NewTimeManager derives a deadline from limits the same way the
// teacher's ComputeThinkTime does, simplified: a fixed think time or
// time-control based budget, whichever the caller resolved, arrives
// already as a duration.
func NewTimeManager(parent context.Context, think time.Duration, infinite bool) *TimeManager {
	ctx, cancel := context.WithCancel(parent)
	tm := &TimeManager{ctx: ctx, cancel: cancel}
	if !infinite {
		tm.deadline = time.Now().Add(think)
		tm.hard = true
	}
	return tm
}

// Stop cancels the search's context, used by the UCI "stop" command.
func (tm *TimeManager) Stop() { tm.cancel() }

// Done reports whether the context has been cancelled, either by Stop
// or by the parent context (process shutdown).
func (tm *TimeManager) Done() bool {
	select {
	case <-tm.ctx.Done():
		return true
	default:
		return false
	}
}

// IncNodes bumps the shared node counter. Called from every leaf.
func (tm *TimeManager) IncNodes() int64 {
	return atomic.AddInt64(&tm.nodes, 1)
}

func (tm *TimeManager) Nodes() int64 {
	return atomic.LoadInt64(&tm.nodes)
}

// PanicOnHardTimeout is polled from inside the search at move-loop
// boundaries; it panics with errSearchTimeout rather than returning an
// error so the caller doesn't need to thread a cancellation check
// through every return path of alphaBeta. Only ever call this from a
// Worker's own goroutine: an unrecovered panic raised anywhere else
// (the pool's TimerWorker, say) would bring the whole process down.
func (tm *TimeManager) PanicOnHardTimeout() {
	if tm.Done() {
		panic(errSearchTimeout)
	}
	if tm.hard && time.Now().After(tm.deadline) {
		tm.cancel()
		panic(errSearchTimeout)
	}
}

// PollDeadline is the TimerWorker tick callback: it only cancels the
// context once the hard deadline has passed. Cancellation is observed
// back on each Worker's own goroutine the next time it calls Done or
// PanicOnHardTimeout, which is where the errSearchTimeout panic
// actually needs to happen.
func (tm *TimeManager) PollDeadline() {
	if tm.hard && time.Now().After(tm.deadline) {
		tm.cancel()
	}
}
