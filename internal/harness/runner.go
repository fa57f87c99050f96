package harness

import (
	"context"

	"sortbench/internal/spec"
)

// Run executes s.Trials independent trials, logging one result line each.
func (h *Harness) Run(ctx context.Context, s spec.TestSpec) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return h.run(ctx, ModeRun, s)
}

func (h *Harness) run(ctx context.Context, mode Mode, s spec.TestSpec) error {
	for i := 0; i < s.Trials; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		values := h.gen.Generate(s)
		ticks, err := h.measure(ctx, mode, s.Name, s.Sort, values)
		if err != nil {
			return err
		}
		if err := h.writeResult(len(values), ticks); err != nil {
			return err
		}
		if err := h.notify(ctx, Trial{Mode: mode, Spec: s.Name, Length: len(values), Ticks: ticks, Critical: s.Critical}); err != nil {
			return err
		}
	}
	return nil
}

// Average runs the trials of s without logging result lines and returns the
// mean duration. The mean is accumulated as the sum of ticks/Trials per
// trial; each term truncates, so the result may fall short of the exact mean
// by up to Trials-1 ticks. Zero trials yield zero.
func (h *Harness) Average(ctx context.Context, s spec.TestSpec) (Ticks, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	if s.Trials == 0 {
		return 0, nil
	}

	var mean Ticks
	n := Ticks(s.Trials)
	for i := 0; i < s.Trials; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		values := h.gen.Generate(s)
		ticks, err := h.measure(ctx, ModeAverage, s.Name, s.Sort, values)
		if err != nil {
			return 0, err
		}
		mean += ticks / n
		if err := h.notify(ctx, Trial{Mode: ModeAverage, Spec: s.Name, Length: len(values), Ticks: ticks, Critical: s.Critical}); err != nil {
			return 0, err
		}
	}
	return mean, nil
}

// AverageAll averages every configured specification in order.
func (h *Harness) AverageAll(ctx context.Context) ([]Ticks, error) {
	means := make([]Ticks, 0, len(h.specs))
	for _, s := range h.specs {
		m, err := h.Average(ctx, s)
		if err != nil {
			return means, err
		}
		means = append(means, m)
	}
	return means, nil
}
