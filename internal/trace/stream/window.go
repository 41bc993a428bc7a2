// Package stream implements the fixed-size read window the trace decoder
// uses over its byte source.
//
// The window guarantees a minimum lookahead before each record is decoded
// so that a record never straddles a refill. Refill policy:
//   - fully consumed window: discard and refill from the start
//   - fewer than LowWater bytes left: move the unconsumed tail to the
//     front and top up behind it
//
// There is no buffering beyond the window itself.
package stream

import (
	"errors"
	"fmt"
	"io"
)

const (
	// DefaultSize is the default window capacity in bytes.
	DefaultSize = 2048

	// DefaultLowWater is the default refill threshold. It must be at least
	// the size of the largest record (19 bytes).
	DefaultLowWater = 20
)

// maxEmptyReads bounds consecutive (0, nil) reads before giving up.
const maxEmptyReads = 100

// ErrTruncated is returned when the source ends in the middle of a record.
var ErrTruncated = errors.New("stream: truncated record")

// Stats counts the window's interaction with its source.
type Stats struct {
	Refills   uint64 // Full discards followed by a refill
	Compacts  uint64 // Tail moves followed by a top-up
	Reads     uint64 // Read calls against the source
	BytesRead int64  // Bytes obtained from the source
}

// Window is a fixed-capacity view over an io.Reader.
//
// Not safe for concurrent use; a Window has exactly one owner.
type Window struct {
	src      io.Reader
	buf      []byte
	r, w     int   // unconsumed bytes are buf[r:w]
	base     int64 // stream offset of buf[0]
	lowWater int
	eof      bool
	stats    Stats
}

// NewWindow creates a window of size bytes over src.
//
// lowWater is the refill threshold; it must be positive and no larger than
// size.
func NewWindow(src io.Reader, size, lowWater int) (*Window, error) {
	if lowWater <= 0 || size < lowWater {
		return nil, fmt.Errorf("stream: invalid window size %d / low-water %d", size, lowWater)
	}
	return &Window{
		src:      src,
		buf:      make([]byte, size),
		lowWater: lowWater,
	}, nil
}

// Remaining returns the number of unconsumed bytes in the window.
func (w *Window) Remaining() int {
	return w.w - w.r
}

// Offset returns the stream position of the next unconsumed byte.
func (w *Window) Offset() int64 {
	return w.base + int64(w.r)
}

// Done reports whether the source is exhausted and every byte consumed.
func (w *Window) Done() bool {
	return w.eof && w.Remaining() == 0
}

// Stats returns the source interaction counters.
func (w *Window) Stats() Stats {
	return w.stats
}

// Ensure makes at least n unconsumed bytes available.
//
// When fewer than the low-water mark remain, the unconsumed tail is moved
// to the front and the window is topped up to max(n, low-water) bytes, or
// to capacity, or until the source ends. Offset is unchanged.
//
// Returns:
//   - nil: at least n bytes can be consumed with Byte or Next
//   - io.EOF: the source is exhausted and the window is empty
//   - ErrTruncated: the source is exhausted with 0 < remaining < n
//   - io.ErrNoProgress: the source kept returning (0, nil)
//   - a wrapped read error from the source
//
// n must not exceed the window capacity.
//
// Performance: no allocation. A compaction copies only the unconsumed tail.
//
// Thread Safety: NOT safe for concurrent use.
func (w *Window) Ensure(n int) error {
	if n > len(w.buf) {
		return fmt.Errorf("stream: lookahead %d exceeds window size %d", n, len(w.buf))
	}

	switch rem := w.Remaining(); {
	case rem == 0 && !w.eof:
		w.base += int64(w.w)
		w.r, w.w = 0, 0
		w.stats.Refills++
	case rem > 0 && w.r > 0 && (rem < w.lowWater || rem < n):
		copy(w.buf, w.buf[w.r:w.w])
		w.base += int64(w.r)
		w.w = rem
		w.r = 0
		w.stats.Compacts++
	}

	if w.Remaining() < w.lowWater || w.Remaining() < n {
		if err := w.fill(n); err != nil {
			return err
		}
	}

	switch rem := w.Remaining(); {
	case rem >= n:
		return nil
	case rem == 0:
		return io.EOF
	default:
		return ErrTruncated
	}
}

// fill reads until max(n, low-water) bytes are available, the buffer is
// full or the source is exhausted. io.Reader may return short reads, so one
// call is not always enough to honour the lookahead.
func (w *Window) fill(n int) error {
	target := max(n, w.lowWater)
	empty := 0
	for !w.eof && w.w < len(w.buf) {
		m, err := w.src.Read(w.buf[w.w:])
		w.stats.Reads++
		w.w += m
		w.stats.BytesRead += int64(m)
		if errors.Is(err, io.EOF) {
			w.eof = true
			break
		}
		if err != nil {
			return fmt.Errorf("stream: read: %w", err)
		}
		if w.Remaining() >= target {
			break
		}
		if m > 0 {
			empty = 0
			continue
		}
		if empty++; empty >= maxEmptyReads {
			return io.ErrNoProgress
		}
	}
	return nil
}

// Byte consumes and returns one byte. The caller must have ensured it.
func (w *Window) Byte() byte {
	b := w.buf[w.r]
	w.r++
	return b
}

// Next consumes n bytes and returns them. The slice aliases the window and
// is only valid until the next Ensure. The caller must have ensured them.
func (w *Window) Next(n int) []byte {
	b := w.buf[w.r : w.r+n]
	w.r += n
	return b
}
