package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"dotpaccel/src/harness"
)

// Metrics counts what the harness sees.  It implements harness.Recorder
// and dotp.Observer and is safe for concurrent use.
type Metrics struct {
	Registry *prometheus.Registry

	ChecksTotal     prometheus.Counter
	MismatchesTotal prometheus.Counter
	TimeoutsTotal   prometheus.Counter
	DonePolls       prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		ChecksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dotp_checks_total",
				Help: "Number of dot products computed on the accelerator and compared",
			},
		),
		MismatchesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dotp_mismatches_total",
				Help: "Number of checks where the accelerator disagreed with the software reference",
			},
		),
		TimeoutsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dotp_timeouts_total",
				Help: "Number of checks abandoned because done never came up",
			},
		),
		DonePolls: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dotp_done_polls",
				Help:    "Reads of the done register per operation",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
	}
	m.Registry.MustRegister(m.ChecksTotal, m.MismatchesTotal, m.TimeoutsTotal, m.DonePolls)
	return m
}

func (m *Metrics) Checked(r harness.Report) {
	m.ChecksTotal.Inc()
	if !r.Match {
		m.MismatchesTotal.Inc()
	}
}

func (m *Metrics) TimedOut() {
	m.TimeoutsTotal.Inc()
}

func (m *Metrics) DonePolled(polls int) {
	m.DonePolls.Observe(float64(polls))
}

// WriteText dumps every metric in the Prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.Registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
