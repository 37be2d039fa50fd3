// Package operation provides the environment threaded through long running
// device operations: cancellation and progress reporting.
package operation

import (
	"context"

	"github.com/golang/glog"
)

// Env is handed to every blocking driver operation.
type Env interface {
	// Context carries cancellation of the whole operation.
	Context() context.Context
	// SetProgressRange sets the upper bound of progress positions.
	SetProgressRange(n uint)
	// SetProgressPosition reports the current position in [0, range].
	SetProgressPosition(n uint)
}

type nullEnv struct {
	ctx context.Context
}

// Null creates an Env which ignores progress.
func Null(ctx context.Context) Env {
	return &nullEnv{ctx: ctx}
}

func (e *nullEnv) Context() context.Context { return e.ctx }
func (e *nullEnv) SetProgressRange(uint)    {}
func (e *nullEnv) SetProgressPosition(uint) {}

// ProgressFunc receives progress as (position, range).
type ProgressFunc func(pos, max uint)

type funcEnv struct {
	ctx context.Context
	fn  ProgressFunc
	max uint
}

// WithProgress creates an Env forwarding progress to fn.
func WithProgress(ctx context.Context, fn ProgressFunc) Env {
	return &funcEnv{ctx: ctx, fn: fn}
}

func (e *funcEnv) Context() context.Context { return e.ctx }

func (e *funcEnv) SetProgressRange(n uint) {
	e.max = n
}

func (e *funcEnv) SetProgressPosition(n uint) {
	if e.fn != nil {
		e.fn(n, e.max)
	}
}

// Logged creates an Env which logs progress with glog at verbosity 2.
func Logged(ctx context.Context, name string) Env {
	return WithProgress(ctx, func(pos, max uint) {
		glog.V(2).Infof("%s: %d/%d", name, pos, max)
	})
}
