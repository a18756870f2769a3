/*
Package stats implements the usage-statistics sink consumed by the
prediction engine.

Counts are exported as a Prometheus counter vector keyed by event name, so
a hosting process can surface commit statistics without the engine knowing
anything about scraping.
*/
package stats

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Recorder counts named events. Increment is safe for concurrent use.
type Recorder struct {
	counts *prometheus.CounterVec
}

// NewRecorder registers the usage counter vector with the given
// registerer. Pass prometheus.DefaultRegisterer for process-global
// metrics, or a private registry in tests.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	counts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "yosoku",
		Name:      "usage_events_total",
		Help:      "Usage-statistics events recorded by the prediction engine.",
	}, []string{"event"})
	reg.MustRegister(counts)
	return &Recorder{counts: counts}
}

// IncrementCount adds one to the named event counter.
func (r *Recorder) IncrementCount(name string) {
	r.counts.WithLabelValues(name).Inc()
}

// Count returns the current value of the named event counter. Intended for
// tests and debug output.
func (r *Recorder) Count(name string) float64 {
	var m dto.Metric
	if err := r.counts.WithLabelValues(name).Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}
