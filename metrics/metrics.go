// Package metrics exports benchmark results as prometheus gauges.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"pollex.nl/joinbench/bench"
)

var _ bench.Recorder = (*Recorder)(nil)

// Recorder keeps the latest result per scale and strategy on its own registry.
type Recorder struct {
	registry *prometheus.Registry
	duration *prometheus.GaugeVec
	records  *prometheus.GaugeVec
	faster   *prometheus.GaugeVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "joinbench_resolve_duration_seconds",
			Help: "Wall-clock time of one strategy run",
		}, []string{"scale", "strategy"}),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "joinbench_resolved_records",
			Help: "Number of book/author pairs a strategy returned",
		}, []string{"scale", "strategy"}),
		faster: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "joinbench_faster",
			Help: "1 for the strategy that won the scale, 0 otherwise",
		}, []string{"scale", "strategy"}),
	}

	r.registry.MustRegister(r.duration, r.records, r.faster)
	return r
}

func (r *Recorder) ObserveMeasurement(scale bench.Scale, m bench.Measurement) {
	r.duration.WithLabelValues(scale.Name, m.Strategy).Set(m.Elapsed.Seconds())
	r.records.WithLabelValues(scale.Name, m.Strategy).Set(float64(m.Records))
}

func (r *Recorder) ObserveVerdict(v bench.Verdict) {
	for _, m := range v.Measurements {
		won := 0.0
		if m.Strategy == v.Faster {
			won = 1
		}
		r.faster.WithLabelValues(v.Scale.Name, m.Strategy).Set(won)
	}
}

// Gatherer exposes the registry, e.g. for promhttp or tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes every metric to path in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
