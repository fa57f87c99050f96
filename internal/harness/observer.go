package harness

import "context"

// Mode names the entry point that produced a trial.
type Mode string

const (
	ModeRun     Mode = "run"
	ModeAverage Mode = "average"
	ModeSweep   Mode = "sweep"
	ModeOnce    Mode = "once"
)

// Trial is one completed, validated sort invocation.
type Trial struct {
	Mode     Mode
	Spec     string
	Length   int
	Ticks    Ticks
	Critical bool
}

// Observer receives every completed trial and the failure that ends a run.
// An error from an observer aborts the run.
type Observer interface {
	ObserveTrial(ctx context.Context, t Trial) error
	ObserveFailure(ctx context.Context, mode Mode, err *NotSortedError) error
}
