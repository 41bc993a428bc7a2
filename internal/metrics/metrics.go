// Package metrics exposes decode and tracking counters in the Prometheus
// text format.
//
// Collectors live on a private registry per Metrics value, so repeated runs
// in one process (tests, the library facade) never collide. There is no
// HTTP endpoint: WriteTextfile produces a file for the node exporter's
// textfile collector.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kolkov/tracechain/internal/causality"
	"github.com/kolkov/tracechain/internal/trace/decoder"
)

const namespace = "tracechain"

// Chain query outcomes.
const (
	OutcomeComplete = "complete"
	OutcomePartial  = "partial"
	OutcomeCycle    = "cycle"
	OutcomeNotFound = "not_found"
)

// Metrics holds the collectors for one registry.
type Metrics struct {
	reg *prometheus.Registry

	records        *prometheus.CounterVec
	bytesRead      prometheus.Counter
	windowRefills  prometheus.Counter
	windowCompacts prometheus.Counter
	sourceReads    prometheus.Counter

	messages         prometheus.Gauge
	pending          prometheus.Gauge
	promisesResolved prometheus.Counter
	overwrites       prometheus.Counter
	maxDepth         prometheus.Gauge

	chainQueries *prometheus.CounterVec
	chainLength  prometheus.Histogram
	duration     prometheus.Histogram
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,

		records: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_decoded_total",
			Help:      "Records decoded, by record kind",
		}, []string{"kind"}),
		bytesRead: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_decoded_total",
			Help:      "Trace bytes consumed by the decoder",
		}),
		windowRefills: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "window_refills_total",
			Help:      "Read window resets after full consumption",
		}),
		windowCompacts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "window_compactions_total",
			Help:      "Read window tail shifts below the low-water mark",
		}),
		sourceReads: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_reads_total",
			Help:      "Read calls issued against the byte source",
		}),

		messages: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "messages",
			Help:      "Messages in the causal graph of the last run",
		}),
		pending: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_promises",
			Help:      "Promise messages left unresolved at the end of the last run",
		}),
		promisesResolved: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promises_resolved_total",
			Help:      "Promise messages resolved by a turn start",
		}),
		overwrites: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "message_overwrites_total",
			Help:      "Sends that reused an existing message id",
		}),
		maxDepth: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "max_scope_depth",
			Help:      "Deepest scope nesting seen on any lane in the last run",
		}),

		chainQueries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chain_queries_total",
			Help:      "Chain queries, by outcome",
		}, []string{"outcome"}),
		chainLength: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chain_length",
			Help:      "Messages per returned chain",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analyze_duration_seconds",
			Help:      "Wall time of a decode and tracking pass",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// ObserveDecode adds one run's decoder counters.
func (m *Metrics) ObserveDecode(s decoder.Stats) {
	for kind, n := range s.Records {
		m.records.WithLabelValues(kind.String()).Add(float64(n))
	}
	m.bytesRead.Add(float64(s.Bytes))
	m.windowRefills.Add(float64(s.Window.Refills))
	m.windowCompacts.Add(float64(s.Window.Compacts))
	m.sourceReads.Add(float64(s.Window.Reads))
}

// ObserveGraph records the final state of a tracking pass.
func (m *Metrics) ObserveGraph(g *causality.Graph) {
	s := g.Stats()
	m.messages.Set(float64(g.Len()))
	m.pending.Set(float64(len(g.Pending())))
	m.promisesResolved.Add(float64(s.PromisesResolved))
	m.overwrites.Add(float64(s.Overwrites))
	m.maxDepth.Set(float64(s.MaxDepth))
}

// ObserveChain counts a chain query by outcome.
func (m *Metrics) ObserveChain(c causality.Chain, err error) {
	switch {
	case errors.Is(err, causality.ErrNotFound):
		m.chainQueries.WithLabelValues(OutcomeNotFound).Inc()
		return
	case err != nil:
		return
	case c.Cycle:
		m.chainQueries.WithLabelValues(OutcomeCycle).Inc()
	case c.Partial:
		m.chainQueries.WithLabelValues(OutcomePartial).Inc()
	default:
		m.chainQueries.WithLabelValues(OutcomeComplete).Inc()
	}
	m.chainLength.Observe(float64(len(c.Messages)))
}

// ObserveDuration records the wall time of a pass.
func (m *Metrics) ObserveDuration(d time.Duration) {
	m.duration.Observe(d.Seconds())
}

// WriteTextfile writes every collector to path in the Prometheus text format.
// The file is written to a temporary name and renamed into place.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
