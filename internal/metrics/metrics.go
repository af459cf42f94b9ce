package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "countries"

type Registry struct {
	reg *prometheus.Registry

	RefreshCycles    *prometheus.CounterVec
	RefreshDuration  prometheus.Histogram
	LastRefresh      prometheus.Gauge
	UpstreamFailures *prometheus.CounterVec
	Upserts          *prometheus.CounterVec
	SummaryFailures  prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	cycles := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "refresh",
		Name:      "cycles_total",
		Help:      "Refresh cycles by outcome.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "refresh",
		Name:      "duration_seconds",
		Help:      "Duration of refresh cycles.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~51s
	})
	last := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "refresh",
		Name:      "last_success_timestamp_seconds",
		Help:      "Cycle timestamp of the last successful refresh.",
	})
	upstream := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "failures_total",
		Help:      "Upstream fetch failures by source.",
	}, []string{"source"})
	upserts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "upserts_total",
		Help:      "Country upserts by result.",
	}, []string{"result"})
	summary := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "summary",
		Name:      "failures_total",
		Help:      "Summary image generation failures.",
	})

	r.MustRegister(cycles, duration, last, upstream, upserts, summary)
	return &Registry{
		reg:              r,
		RefreshCycles:    cycles,
		RefreshDuration:  duration,
		LastRefresh:      last,
		UpstreamFailures: upstream,
		Upserts:          upserts,
		SummaryFailures:  summary,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
