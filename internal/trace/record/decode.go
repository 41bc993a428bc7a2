package record

import (
	"encoding/binary"
	"fmt"
)

// cursor reads big-endian fields from a payload and counts what it consumed.
// Reads past the end set short instead of panicking so that a decode
// function that disagrees with the size table surfaces as a FormatError.
type cursor struct {
	buf   []byte
	pos   int
	short bool
}

func (c *cursor) take(n int) []byte {
	if c.pos+n > len(c.buf) {
		c.short = true
		c.pos += n
		return make([]byte, n)
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b
}

func (c *cursor) u16() uint16 { return binary.BigEndian.Uint16(c.take(2)) }
func (c *cursor) u32() uint32 { return binary.BigEndian.Uint32(c.take(4)) }

//nolint:gosec // G115: ids are signed in the trace format (-1 means none).
func (c *cursor) i64() int64 { return int64(binary.BigEndian.Uint64(c.take(8))) }

func (c *cursor) section() SourceSection {
	return SourceSection{
		FileID:      c.u16(),
		StartLine:   c.u16(),
		StartColumn: c.u16(),
		Length:      c.u16(),
	}
}

type decodeFunc func(c *cursor, h Header) Event

// decoders holds one self-contained decode function per kind.
// ReceiveOp and PassiveEntityCreation are independent: a receive never
// consumes bytes belonging to the following record.
var decoders = [kindCount]decodeFunc{
	KindActivityCreation: func(c *cursor, h Header) Event {
		return ActivityCreation{Header: h, ID: c.i64(), Symbol: c.u16(), Section: c.section()}
	},
	KindActivityCompletion: func(_ *cursor, h Header) Event {
		return ActivityCompletion{Header: h}
	},
	KindDynamicScopeStart: func(c *cursor, h Header) Event {
		return ScopeStart{Header: h, ID: c.i64(), Section: c.section()}
	},
	KindDynamicScopeEnd: func(_ *cursor, h Header) Event {
		return ScopeEnd{Header: h}
	},
	KindPassiveEntityCreation: func(c *cursor, h Header) Event {
		return EntityCreation{Header: h, ID: c.i64(), Section: c.section()}
	},
	KindPassiveEntityCompletion: func(_ *cursor, h Header) Event {
		return EntityCompletion{Header: h}
	},
	KindSendOp: func(c *cursor, h Header) Event {
		return Send{Header: h, EntityID: c.i64(), TargetID: c.i64()}
	},
	KindReceiveOp: func(c *cursor, h Header) Event {
		return Receive{Header: h, SourceID: c.i64()}
	},
	KindImplThread: func(c *cursor, h Header) Event {
		return ImplThread{Header: h, LaneID: c.i64()}
	},
	KindImplThreadCurrentActivity: func(c *cursor, h Header) Event {
		return CurrentActivity{Header: h, ActivityID: c.i64(), BufferID: c.u32()}
	},
}

// Decode decodes the payload of a record of kind k.
//
// payload must hold exactly k.PayloadSize() bytes (the bytes after the
// marker). The returned error is always a *FormatError.
func Decode(k Kind, code byte, h Header, payload []byte) (Event, error) {
	if !k.Valid() {
		return nil, NewFormatError(h.Pos, code, h.Mark, "record kind has no decoder")
	}
	want := k.PayloadSize()
	if len(payload) != want {
		return nil, NewFormatError(h.Pos, code, h.Mark,
			fmt.Sprintf("%s payload is %d bytes, declared %d", k, len(payload), want))
	}

	c := &cursor{buf: payload}
	ev := decoders[k](c, h)
	if c.short || c.pos != want {
		return nil, NewFormatError(h.Pos, code, h.Mark,
			fmt.Sprintf("%s decoder consumed %d bytes, declared %d", k, c.pos, want))
	}
	return ev, nil
}

// Consumed reports how many payload bytes the decoder for k reads.
// It exists so tests can check the size table against the decoders
// without constructing events by hand.
func Consumed(k Kind) int {
	if !k.Valid() {
		return 0
	}
	c := &cursor{buf: make([]byte, 64)}
	decoders[k](c, Header{})
	return c.pos
}
