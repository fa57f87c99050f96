package harness

import (
	"context"

	"go.uber.org/zap"

	"sortbench/internal/spec"
)

// Benchmark runs a size sweep: one single-trial specification per length,
// from sw.Start in steps of sw.Step, stopping before the cap. Progress is
// reported after every length that is a multiple of the progress interval.
func (h *Harness) Benchmark(ctx context.Context, sw spec.SweepSpec) error {
	if err := sw.Validate(); err != nil {
		return err
	}
	limit := sw.MaxLength
	if limit == 0 {
		limit = h.sweepCap
	}

	h.logger.Info("Starting sweep",
		zap.String("name", sw.Name),
		zap.Int("start", sw.Start),
		zap.Int("step", sw.Step),
		zap.Int("cap", limit))

	iterations := 0
	for length := sw.Start; length < limit; length += sw.Step {
		if err := h.run(ctx, ModeSweep, sw.TestSpecAt(length)); err != nil {
			return err
		}
		iterations++
		if h.progressInterval > 0 && length%h.progressInterval == 0 {
			p := SweepProgress{Sweep: sw.Name, Iterations: iterations, Length: length, Cap: limit}
			h.logger.Info("Sweep progress",
				zap.String("name", sw.Name),
				zap.Int("iterations", iterations),
				zap.Int("length", length))
			if h.onProgress != nil {
				h.onProgress(p)
			}
		}
		if sw.Step > limit-length {
			break
		}
	}

	h.logger.Info("Sweep complete", zap.String("name", sw.Name), zap.Int("iterations", iterations))
	return nil
}
