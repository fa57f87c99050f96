package harness

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"sortbench/internal/spec"
)

// RunTrial sorts values in place, measures the processor time it took, and
// checks the result is non-decreasing. On disorder both sequences are written
// to the diagnostics sink and a *NotSortedError is returned.
func (h *Harness) RunTrial(sorter spec.Sorter, values []int) (Ticks, error) {
	initial := slices.Clone(values)

	start := h.clock.Now()
	sorter.Sort(values)
	elapsed := h.clock.Now() - start
	if elapsed < 0 {
		elapsed = 0
	}

	idx := firstDescent(values)
	if idx < 0 {
		return elapsed, nil
	}

	nse := &NotSortedError{Input: initial, Output: slices.Clone(values), Index: idx}
	if err := h.writeDiagnostics(initial, values); err != nil {
		return 0, errors.Join(nse, err)
	}
	return 0, nse
}

// measure runs one trial and reports a failure to the log and observers.
func (h *Harness) measure(ctx context.Context, mode Mode, name string, sorter spec.Sorter, values []int) (Ticks, error) {
	ticks, err := h.RunTrial(sorter, values)
	if err == nil {
		return ticks, nil
	}

	var nse *NotSortedError
	if errors.As(err, &nse) {
		nse.Spec = name
		h.logger.Error("Output not sorted",
			zap.String("mode", string(mode)),
			zap.String("spec", name),
			zap.Int("length", len(values)),
			zap.Int("index", nse.Index))
		for _, o := range h.observers {
			if oerr := o.ObserveFailure(ctx, mode, nse); oerr != nil {
				h.logger.Warn("Observer failed to record failure", zap.Error(oerr))
			}
		}
	}
	return 0, err
}

func (h *Harness) writeDiagnostics(input, output []int) error {
	if _, err := fmt.Fprintf(h.diagnostics, "INPUT_DATA = %s\n", FormatSequence(input)); err != nil {
		return fmt.Errorf("failed to write diagnostics: %w", err)
	}
	if _, err := fmt.Fprintf(h.diagnostics, "OUTPUT_DATA = %s\n", FormatSequence(output)); err != nil {
		return fmt.Errorf("failed to write diagnostics: %w", err)
	}
	return nil
}

// firstDescent returns the first index i with values[i] < values[i-1], or -1.
func firstDescent(values []int) int {
	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1] {
			return i
		}
	}
	return -1
}
