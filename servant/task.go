package servant

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// Task is one dispatched servant invocation. Its Done channel is closed
// exactly once, after every phase (including ActionException) has returned.
type Task struct {
	servant Servant
	ctx     *Context
	state   atomic.Int32
	done    chan struct{}
	started time.Time
	elapsed atomic.Int64
	ex      atomic.Pointer[Exception]
}

func newTask(s Servant, ctx *Context) *Task {
	return &Task{
		servant: s,
		ctx:     ctx,
		done:    make(chan struct{}),
		started: time.Now(),
	}
}

func (t *Task) String() string {
	return fmt.Sprintf("servant.Task{SN: %s, State: %s}", t.ctx.SN(), t.State())
}

// Context returns the task's context. Read it only after Done is closed.
func (t *Task) Context() *Context {
	return t.ctx
}

// State returns the current lifecycle position.
func (t *Task) State() State {
	return State(t.state.Load())
}

// Exception returns the fault that diverted the task, if any.
func (t *Task) Exception() *Exception {
	return t.ex.Load()
}

// Duration returns how long the task ran. Zero until it is done.
func (t *Task) Duration() time.Duration {
	return time.Duration(t.elapsed.Load())
}

// Done is closed when the task has finished.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task is done or ctx ends. A timed out wait leaves
// the task running.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitTimeout waits up to d and reports whether the task finished.
func (t *Task) WaitTimeout(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-t.done:
		return true
	case <-timer.C:
		return false
	}
}

func (t *Task) setState(s State) {
	t.state.Store(int32(s))
}
