package harness

import (
	"errors"
	"fmt"
)

// ErrNotSorted reports that a candidate left its output out of order. It is
// fatal to the run that produced it.
var ErrNotSorted = errors.New("output not sorted")

// NotSortedError carries the sequences of a failed validation.
type NotSortedError struct {
	Spec   string
	Input  []int
	Output []int
	// Index is the position of the first element smaller than its predecessor.
	Index int
}

func (e *NotSortedError) Error() string {
	prefix := ErrNotSorted.Error()
	if e.Spec != "" {
		prefix = fmt.Sprintf("%s: spec %q", prefix, e.Spec)
	}
	if e.Index < 1 || e.Index >= len(e.Output) {
		return prefix
	}
	return fmt.Sprintf("%s: output[%d]=%d < output[%d]=%d",
		prefix, e.Index, e.Output[e.Index], e.Index-1, e.Output[e.Index-1])
}

// Unwrap lets errors.Is match ErrNotSorted.
func (e *NotSortedError) Unwrap() error { return ErrNotSorted }
