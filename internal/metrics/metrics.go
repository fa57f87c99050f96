// Package metrics exports harness trial statistics in the Prometheus text
// format so node_exporter's textfile collector can pick them up.
package metrics

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"sortbench/internal/harness"
)

const namespace = "sortbench"

// Recorder counts trials and failures on a private registry. It implements
// harness.Observer.
type Recorder struct {
	registry *prometheus.Registry

	// TrialsTotal counts validated trials. Labels: mode, spec
	TrialsTotal *prometheus.CounterVec
	// TrialTicks observes processor ticks per trial. Labels: mode
	TrialTicks *prometheus.HistogramVec
	// FailuresTotal counts unsorted outputs. Labels: mode
	FailuresTotal *prometheus.CounterVec
	// LastLength is the length of the most recent trial. Labels: mode
	LastLength *prometheus.GaugeVec
}

var _ harness.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder with all metrics registered.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		TrialsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trials_total",
				Help:      "Validated sort trials by mode and specification",
			},
			[]string{"mode", "spec"},
		),
		TrialTicks: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "trial_ticks",
				Help:      "Processor ticks consumed per trial",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
			},
			[]string{"mode"},
		),
		FailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "failures_total",
				Help:      "Trials whose output was not sorted",
			},
			[]string{"mode"},
		),
		LastLength: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_trial_length",
				Help:      "Input length of the most recent trial",
			},
			[]string{"mode"},
		),
	}
}

// Registry returns the registry the metrics live in.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveTrial records one validated trial.
func (r *Recorder) ObserveTrial(_ context.Context, t harness.Trial) error {
	mode := string(t.Mode)
	r.TrialsTotal.WithLabelValues(mode, t.Spec).Inc()
	r.TrialTicks.WithLabelValues(mode).Observe(float64(t.Ticks))
	r.LastLength.WithLabelValues(mode).Set(float64(t.Length))
	return nil
}

// ObserveFailure counts a validation failure.
func (r *Recorder) ObserveFailure(_ context.Context, mode harness.Mode, _ *harness.NotSortedError) error {
	r.FailuresTotal.WithLabelValues(string(mode)).Inc()
	return nil
}

// WriteTextfile writes the current metric values to path, creating its
// directory if needed.
func (r *Recorder) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
