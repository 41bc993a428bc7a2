// Package decoder turns a trace byte stream into a sequence of typed events.
//
// It drives the pipeline
//
//	byte source -> stream.Window -> marker byte -> record.DispatchTable -> record.Decode
//
// one record at a time. Decoding is strictly sequential; a Decoder has a
// single owner and must not be shared between goroutines.
//
// Errors are terminal. Once Next returns a *record.FormatError or a
// *TruncatedError, record boundaries are lost and the stream cannot be
// resynchronised.
package decoder

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/kolkov/tracechain/internal/trace/marker"
	"github.com/kolkov/tracechain/internal/trace/record"
	"github.com/kolkov/tracechain/internal/trace/stream"
)

// Observer is notified of every successfully decoded event.
type Observer interface {
	OnEvent(ev record.Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev record.Event)

// OnEvent implements Observer.
func (f ObserverFunc) OnEvent(ev record.Event) { f(ev) }

// Options configures a Decoder. Zero values select the defaults.
type Options struct {
	// WindowSize is the read window capacity (default stream.DefaultSize).
	WindowSize int

	// LowWater is the refill threshold (default stream.DefaultLowWater).
	// It must be at least record.MaxRecordSize.
	LowWater int

	// Observer, if set, sees every decoded event.
	Observer Observer

	// Logger receives debug output. Nil means no logging.
	Logger *zap.Logger
}

// TruncatedError reports a stream that ends inside a record.
type TruncatedError struct {
	Offset int64       // Stream offset of the record's marker byte
	Kind   record.Kind // Kind of the incomplete record
	Marker marker.Name // Marker of the incomplete record
	Need   int         // Payload bytes the record declares
}

// Error implements the error interface.
func (e *TruncatedError) Error() string {
	return fmt.Sprintf("offset 0x%x (%s): stream ends inside %s record (%d payload bytes declared)",
		e.Offset, e.Marker, e.Kind, e.Need)
}

// Unwrap returns stream.ErrTruncated.
func (e *TruncatedError) Unwrap() error {
	return stream.ErrTruncated
}

// Decoder reads events from a trace stream.
type Decoder struct {
	win      *stream.Window
	table    *record.DispatchTable
	observer Observer
	log      *zap.Logger
	stats    Stats
	err      error // sticky terminal error
}

// New creates a decoder reading from src with marker codes resolved by table.
func New(src io.Reader, table *record.DispatchTable, opts Options) (*Decoder, error) {
	if table == nil {
		return nil, errors.New("decoder: nil dispatch table")
	}
	if opts.WindowSize == 0 {
		opts.WindowSize = stream.DefaultSize
	}
	if opts.LowWater == 0 {
		opts.LowWater = stream.DefaultLowWater
	}
	if opts.LowWater < record.MaxRecordSize {
		return nil, fmt.Errorf("decoder: low-water mark %d is below the largest record size %d",
			opts.LowWater, record.MaxRecordSize)
	}
	win, err := stream.NewWindow(src, opts.WindowSize, opts.LowWater)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Decoder{
		win:      win,
		table:    table,
		observer: opts.Observer,
		log:      log,
		stats:    newStats(),
	}, nil
}

// Next decodes the next record.
//
// It returns io.EOF once the source is exhausted on a record boundary.
// Any other error is terminal and is returned again by later calls.
func (d *Decoder) Next() (record.Event, error) {
	if d.err != nil {
		return nil, d.err
	}
	ev, err := d.next()
	if err != nil {
		d.err = err
		if !errors.Is(err, io.EOF) {
			d.log.Debug("decode stopped", zap.Int64("offset", d.win.Offset()), zap.Error(err))
		}
		return nil, err
	}
	d.stats.record(ev.Kind())
	if d.observer != nil {
		d.observer.OnEvent(ev)
	}
	return ev, nil
}

func (d *Decoder) next() (record.Event, error) {
	if err := d.win.Ensure(1); err != nil {
		return nil, err
	}

	offset := d.win.Offset()
	code := d.win.Byte()
	kind, name, err := d.table.Lookup(code, offset)
	if err != nil {
		return nil, err
	}

	need := kind.PayloadSize()
	if need > 0 {
		if err := d.win.Ensure(need); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, stream.ErrTruncated) {
				return nil, &TruncatedError{Offset: offset, Kind: kind, Marker: name, Need: need}
			}
			return nil, err
		}
	}

	return record.Decode(kind, code, record.Header{Mark: name, Pos: offset, Code: code}, d.win.Next(need))
}

// Offset returns the stream position of the next undecoded byte.
func (d *Decoder) Offset() int64 {
	return d.win.Offset()
}

// Stats returns decoding counters.
func (d *Decoder) Stats() Stats {
	s := d.stats.clone()
	s.Window = d.win.Stats()
	s.Bytes = d.win.Offset()
	return s
}

// Each decodes the whole stream, calling fn for every event.
// It stops at the first error from the stream or from fn; io.EOF is not
// reported.
func (d *Decoder) Each(fn func(record.Event) error) error {
	for {
		ev, err := d.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
}
