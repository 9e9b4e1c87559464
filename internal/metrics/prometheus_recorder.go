package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "deskclock"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	cycles           prom.Counter
	events           *prom.CounterVec
	transitions      *prom.CounterVec
	fallbacks        *prom.CounterVec
	dispatchDuration prom.Histogram
}

// NewPrometheusRecorder constructs the metrics and registers them in reg.
// A nil registry gets a private one.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}

	pr := &PrometheusRecorder{
		cycles: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "scheduler_cycles_total",
			Help:      "Scheduler loop iterations, with or without an event",
		}),
		events: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Events dispatched by kind",
		}, []string{"kind"}),
		transitions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Transitions taken by source and target state",
		}, []string{"from", "to"}),
		fallbacks: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_fallbacks_total",
			Help:      "Table lookups that substituted the first entry",
		}, []string{"lookup"}),
		dispatchDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent in lookup plus transition action",
			Buckets:   prom.ExponentialBuckets(1e-6, 4, 10),
		}),
	}

	reg.MustRegister(pr.cycles, pr.events, pr.transitions, pr.fallbacks, pr.dispatchDuration)

	return pr
}

func (p *PrometheusRecorder) IncCycle() {
	if p == nil {
		return
	}

	p.cycles.Inc()
}

func (p *PrometheusRecorder) IncEvent(kind string) {
	if p == nil {
		return
	}

	p.events.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncTransition(from, to string) {
	if p == nil {
		return
	}

	p.transitions.WithLabelValues(from, to).Inc()
}

func (p *PrometheusRecorder) IncLookupFallback(label FallbackLabel) {
	if p == nil {
		return
	}

	p.fallbacks.WithLabelValues(string(label)).Inc()
}

func (p *PrometheusRecorder) ObserveDispatchDuration(d time.Duration) {
	if p == nil {
		return
	}

	p.dispatchDuration.Observe(d.Seconds())
}
