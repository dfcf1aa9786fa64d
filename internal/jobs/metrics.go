package jobs

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	retries  *prometheus.CounterVec
	inFlight prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "annex_jobs_total",
				Help: "Count of finished jobs by kind and terminal status",
			},
			[]string{"kind", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "annex_job_duration_seconds",
				Help:    "Time from first attempt to terminal status",
				Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900, 1800},
			},
			[]string{"kind"},
		),
		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "annex_job_retries_total",
				Help: "Count of scheduled job retries by kind and error kind",
			},
			[]string{"kind", "error_kind"},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "annex_jobs_in_flight",
				Help: "Number of jobs currently running",
			},
		),
	}

	reg.MustRegister(
		m.total,
		m.duration,
		m.retries,
		m.inFlight,
	)

	return m
}
