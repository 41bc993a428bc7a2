package tracechain

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kolkov/tracechain/internal/causality"
	"github.com/kolkov/tracechain/internal/metrics"
	"github.com/kolkov/tracechain/internal/trace/decoder"
	"github.com/kolkov/tracechain/internal/trace/marker"
	"github.com/kolkov/tracechain/internal/trace/record"
	"github.com/kolkov/tracechain/internal/trace/stream"
)

// Re-exported types. They are aliases, so values returned by this package
// can be passed straight to the methods documented on them.
type (
	// Message is one message send in the causal graph.
	Message = causality.Message

	// Chain is the ancestry of a message, from the message to its root.
	Chain = causality.Chain

	// Graph is the frozen message table of a completed run.
	Graph = causality.Graph

	// Entity is a row of the entity table.
	Entity = causality.Entity

	// TrackerStats counts what the causality tracker saw.
	TrackerStats = causality.Stats

	// DecodeStats counts what the decoder read.
	DecodeStats = decoder.Stats

	// Event is a decoded trace record.
	Event = record.Event

	// MarkerTable maps marker names to byte codes.
	MarkerTable = marker.Table

	// Metrics collects Prometheus counters across runs.
	Metrics = metrics.Metrics

	// FormatError reports a structurally invalid stream.
	FormatError = record.FormatError

	// TruncatedError reports a stream that ends inside a record.
	TruncatedError = decoder.TruncatedError

	// LookupError reports a chain query for an unknown message.
	LookupError = causality.LookupError

	// DuplicateError reports a reused id in strict mode.
	DuplicateError = causality.DuplicateError
)

// None is the sentinel id for "no parent", "no activity" and an
// unresolved promise receiver.
const None = causality.None

var (
	// ErrNotFound is wrapped by LookupError.
	ErrNotFound = causality.ErrNotFound

	// ErrTruncated is wrapped by TruncatedError.
	ErrTruncated = stream.ErrTruncated
)

// DefaultMarkerTable returns the built-in marker code assignment.
func DefaultMarkerTable() *MarkerTable {
	return marker.Default()
}

// LoadMarkerTable reads and validates a YAML marker table.
func LoadMarkerTable(path string) (*MarkerTable, error) {
	return marker.LoadTable(path)
}

// NewMetrics creates a collector set on a private Prometheus registry.
func NewMetrics() *Metrics {
	return metrics.New()
}

// Options configures Analyze.
//
// The zero value decodes with the built-in marker table, the default
// window and the lenient causal policy.
type Options struct {
	// Markers is the marker table. Nil selects DefaultMarkerTable.
	Markers *MarkerTable

	// WindowSize and LowWater size the read window. Zero selects the
	// defaults (2048 and 20 bytes).
	WindowSize int
	LowWater   int

	// Strict rejects reused message and pending promise ids.
	Strict bool

	// TrackChannelSends adds channel sends to the causal graph.
	TrackChannelSends bool

	// SingleLane ignores implementation thread switches.
	SingleLane bool

	// Observer, if set, sees every decoded event before it is tracked.
	Observer func(Event)

	// Logger receives diagnostics. Nil disables logging.
	Logger *zap.Logger

	// Metrics, if set, receives decode and graph counters after the run
	// and chain query outcomes from Result.ChainOf.
	Metrics *Metrics
}

// Result is the outcome of a successful Analyze.
type Result struct {
	// Graph is the frozen causal graph.
	Graph *Graph

	// Decode holds the decoder counters.
	Decode DecodeStats

	// Duration is the wall time of the pass.
	Duration time.Duration

	metrics *Metrics
}

// Tracker returns the causality tracker counters.
func (r *Result) Tracker() TrackerStats {
	return r.Graph.Stats()
}

// ChainOf returns the causal chain of message id.
//
// Returns a *LookupError (wrapping ErrNotFound) for unknown ids. A chain
// that stops at a missing parent or a cycle is returned with Partial or
// Cycle set and a nil error.
func (r *Result) ChainOf(id int64) (Chain, error) {
	c, err := r.Graph.ChainOf(id)
	if r.metrics != nil {
		r.metrics.ObserveChain(c, err)
	}
	return c, err
}

// DefaultMessage returns the message tracked when the caller names none:
// the second direct actor message send, or the first if there is only one.
func (r *Result) DefaultMessage() (int64, bool) {
	if id, ok := r.Graph.NthSend(2); ok {
		return id, true
	}
	return r.Graph.NthSend(1)
}

// Analyze decodes the whole stream and folds it into a causal graph.
//
// The stream is read sequentially until exhausted. Any structural error
// aborts the run and no partial result is returned. ctx is checked between
// records; a record, once its marker byte is read, is always decoded whole.
//
// Example:
//
//	res, err := tracechain.Analyze(ctx, f, tracechain.Options{})
//	if err != nil {
//		return err
//	}
//	chain, err := res.ChainOf(42)
func Analyze(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	start := time.Now()

	markers := opts.Markers
	if markers == nil {
		markers = marker.Default()
	}
	table, err := record.NewDispatchTable(markers)
	if err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	dopts := decoder.Options{
		WindowSize: opts.WindowSize,
		LowWater:   opts.LowWater,
		Logger:     log.Named("decoder"),
	}
	if opts.Observer != nil {
		dopts.Observer = decoder.ObserverFunc(opts.Observer)
	}
	dec, err := decoder.New(r, table, dopts)
	if err != nil {
		return nil, err
	}

	tr := causality.NewTracker(causality.Options{
		Strict:            opts.Strict,
		TrackChannelSends: opts.TrackChannelSends,
		SingleLane:        opts.SingleLane,
		Logger:            log.Named("causality"),
	})

	err = dec.Each(func(ev record.Event) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return tr.Apply(ev)
	})
	if err != nil {
		log.Debug("analysis aborted", zap.Int64("offset", dec.Offset()), zap.Error(err))
		return nil, err
	}

	res := &Result{
		Graph:    tr.Finish(),
		Decode:   dec.Stats(),
		Duration: time.Since(start),
		metrics:  opts.Metrics,
	}
	if m := opts.Metrics; m != nil {
		m.ObserveDecode(res.Decode)
		m.ObserveGraph(res.Graph)
		m.ObserveDuration(res.Duration)
	}
	log.Debug("analysis complete",
		zap.Uint64("records", res.Decode.Total),
		zap.Int("messages", res.Graph.Len()),
		zap.Duration("duration", res.Duration))
	return res, nil
}

// AnalyzeFile opens path and runs Analyze over it.
func AnalyzeFile(ctx context.Context, path string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace: %w", err)
	}
	defer f.Close()

	res, err := Analyze(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}
