// Package stackgraph names, a stack graph is a graph-based representation
// of a program's name binding structure that supports incremental,
// language-agnostic, cross-file name resolution (spec.md §1).
//
// The root package holds only the cancellation mechanism shared by every
// long-running operation (stitching, assertion running): everything else
// lives in the component packages (arena, graph, stack, partial, cycles,
// stitching, assert) per spec.md §2's component table.
package stackgraph

import (
	"fmt"
	"time"
)

// CancellationFlag is checked at named checkpoints by any bounded
// traversal (spec.md §5 "Suspension points": dequeue, before candidate
// enumeration, before each enqueue). A non-nil return aborts the run
// cleanly; no partial results already reported to a callback are
// retracted, but no further callback invocations occur.
type CancellationFlag interface {
	Check(at string) error
}

// NoCancellation never cancels.
type NoCancellation struct{}

func (NoCancellation) Check(at string) error { return nil }

// CancelAfterDuration cancels once Limit has elapsed since it was
// constructed.
type CancelAfterDuration struct {
	Limit time.Duration
	start time.Time
}

// NewCancelAfterDuration starts the clock now.
func NewCancelAfterDuration(limit time.Duration) *CancelAfterDuration {
	return &CancelAfterDuration{Limit: limit, start: time.Now()}
}

func (c *CancelAfterDuration) Check(at string) error {
	if time.Since(c.start) > c.Limit {
		return &CancellationError{At: at}
	}
	return nil
}

// CancellationError is the run-fatal error a CancellationFlag raises; it
// propagates out of the stitcher/assertion runner and aborts the run
// (spec.md §7 "Run-fatal errors").
type CancellationError struct {
	At string
}

func (e *CancellationError) Error() string {
	return fmt.Sprintf("cancelled at %q", e.At)
}
