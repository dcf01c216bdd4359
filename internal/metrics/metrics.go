// Package metrics wraps the Prometheus counters/histograms the ingest
// pipeline reports through, grounded on the teacher's internal/metrics
// Metrics struct + register() pattern.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every collector dltcat registers. It implements
// ingest.Metrics.
type Metrics struct {
	MessagesDecodedTotal     prometheus.Counter
	ParsingHiccupsTotal      prometheus.Counter
	UnrecoverableErrorsTotal prometheus.Counter
	ChunksEmittedTotal       prometheus.Counter
	BytesWrittenTotal        prometheus.Counter
	DecodeDurationSeconds    prometheus.Histogram
}

// New constructs and registers a Metrics set against reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		MessagesDecodedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dlthub",
			Subsystem: "ingest",
			Name:      "messages_decoded_total",
			Help:      "Total DLT messages successfully decoded.",
		}),
		ParsingHiccupsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dlthub",
			Subsystem: "ingest",
			Name:      "parsing_hiccups_total",
			Help:      "Total recoverable decode failures (datagram skipped).",
		}),
		UnrecoverableErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dlthub",
			Subsystem: "ingest",
			Name:      "unrecoverable_errors_total",
			Help:      "Total fatal decode/socket failures that terminated a run.",
		}),
		ChunksEmittedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dlthub",
			Subsystem: "ingest",
			Name:      "chunks_emitted_total",
			Help:      "Total progress chunks emitted.",
		}),
		BytesWrittenTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dlthub",
			Subsystem: "ingest",
			Name:      "bytes_written_total",
			Help:      "Total bytes written to the output file.",
		}),
		DecodeDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dlthub",
			Subsystem: "ingest",
			Name:      "decode_duration_seconds",
			Help:      "Time to decode a single datagram.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		m.MessagesDecodedTotal,
		m.ParsingHiccupsTotal,
		m.UnrecoverableErrorsTotal,
		m.ChunksEmittedTotal,
		m.BytesWrittenTotal,
		m.DecodeDurationSeconds,
	)
	return m
}

func (m *Metrics) DecodedMessage()     { m.MessagesDecodedTotal.Inc() }
func (m *Metrics) ParsingHiccup()      { m.ParsingHiccupsTotal.Inc() }
func (m *Metrics) UnrecoverableError() { m.UnrecoverableErrorsTotal.Inc() }
func (m *Metrics) ChunkEmitted()       { m.ChunksEmittedTotal.Inc() }
func (m *Metrics) BytesWritten(n int)  { m.BytesWrittenTotal.Add(float64(n)) }
func (m *Metrics) DecodeDuration(d time.Duration) {
	m.DecodeDurationSeconds.Observe(d.Seconds())
}
