// Package tracegen writes synthetic traces in the runtime's binary format.
//
// It is used by the synth command and by tests throughout the module to
// build byte streams record by record:
//
//	b := tracegen.New(nil)
//	b.Activity(1).Current(1).TurnStart(100).Send(5, 2).TurnEnd()
//	data, err := b.Bytes()
package tracegen

import (
	"github.com/kolkov/tracechain/internal/trace/marker"
	"github.com/kolkov/tracechain/internal/trace/record"
)

// Builder accumulates encoded records. The first encoding error is kept
// and reported by Bytes; later calls are no-ops.
type Builder struct {
	table *record.DispatchTable
	buf   []byte
	err   error
}

// New creates a builder encoding marker codes with table.
// A nil table selects marker.Default().
func New(table *marker.Table) *Builder {
	if table == nil {
		table = marker.Default()
	}
	d, err := record.NewDispatchTable(table)
	return &Builder{table: d, err: err}
}

// Event appends an arbitrary event.
func (b *Builder) Event(ev record.Event) *Builder {
	if b.err != nil {
		return b
	}
	b.buf, b.err = b.table.Append(b.buf, ev)
	return b
}

// Raw appends bytes verbatim, for corrupt or truncated streams.
func (b *Builder) Raw(p ...byte) *Builder {
	if b.err == nil {
		b.buf = append(b.buf, p...)
	}
	return b
}

// Code returns the byte for marker n, for use with Raw.
func (b *Builder) Code(n marker.Name) byte {
	c, _ := b.table.Code(n)
	return c
}

func h(n marker.Name) record.Header { return record.Header{Mark: n} }

// Activity appends an ACTOR_CREATION record.
func (b *Builder) Activity(id int64) *Builder {
	return b.Event(record.ActivityCreation{Header: h(marker.ActorCreation), ID: id})
}

// Spawn appends an activity creation with an explicit marker, symbol and section.
func (b *Builder) Spawn(n marker.Name, id int64, symbol uint16, sec record.SourceSection) *Builder {
	return b.Event(record.ActivityCreation{Header: h(n), ID: id, Symbol: symbol, Section: sec})
}

// Complete appends a PROCESS_COMPLETION record.
func (b *Builder) Complete() *Builder {
	return b.Event(record.ActivityCompletion{Header: h(marker.ProcessCompletion)})
}

// Lane appends an IMPL_THREAD record.
func (b *Builder) Lane(id int64) *Builder {
	return b.Event(record.ImplThread{Header: h(marker.ImplThread), LaneID: id})
}

// Current appends an IMPL_THREAD_CURRENT_ACTIVITY record.
func (b *Builder) Current(activity int64) *Builder {
	return b.Event(record.CurrentActivity{Header: h(marker.ImplThreadCurrentActivity), ActivityID: activity})
}

// TurnStart appends a TURN_START record.
func (b *Builder) TurnStart(id int64) *Builder {
	return b.Scope(marker.TurnStart, id)
}

// TurnEnd appends a TURN_END record.
func (b *Builder) TurnEnd() *Builder {
	return b.ScopeEnd(marker.TurnEnd)
}

// Scope appends a scope start with marker n.
func (b *Builder) Scope(n marker.Name, id int64) *Builder {
	return b.Event(record.ScopeStart{Header: h(n), ID: id})
}

// ScopeEnd appends a scope end with marker n.
func (b *Builder) ScopeEnd(n marker.Name) *Builder {
	return b.Event(record.ScopeEnd{Header: h(n)})
}

// Send appends an ACTOR_MSG_SEND record.
func (b *Builder) Send(id, target int64) *Builder {
	return b.Event(record.Send{Header: h(marker.ActorMsgSend), EntityID: id, TargetID: target})
}

// PromiseSend appends a PROMISE_MSG_SEND record.
func (b *Builder) PromiseSend(id, promise int64) *Builder {
	return b.Event(record.Send{Header: h(marker.PromiseMsgSend), EntityID: id, TargetID: promise})
}

// Resolve appends a PROMISE_RESOLUTION record.
func (b *Builder) Resolve(id, promise int64) *Builder {
	return b.Event(record.Send{Header: h(marker.PromiseResolution), EntityID: id, TargetID: promise})
}

// ChannelSend appends a CHANNEL_MSG_SEND record.
func (b *Builder) ChannelSend(id, channel int64) *Builder {
	return b.Event(record.Send{Header: h(marker.ChannelMsgSend), EntityID: id, TargetID: channel})
}

// Promise appends a PROMISE_CREATION record.
func (b *Builder) Promise(id int64) *Builder {
	return b.Event(record.EntityCreation{Header: h(marker.PromiseCreation), ID: id})
}

// Channel appends a CHANNEL_CREATION record.
func (b *Builder) Channel(id int64) *Builder {
	return b.Event(record.EntityCreation{Header: h(marker.ChannelCreation), ID: id})
}

// Receive appends a CHANNEL_MSG_RCV record.
func (b *Builder) Receive(source int64) *Builder {
	return b.Event(record.Receive{Header: h(marker.ChannelMsgRcv), SourceID: source})
}

// Len returns the number of bytes encoded so far.
func (b *Builder) Len() int {
	return len(b.buf)
}

// Bytes returns the encoded stream or the first encoding error.
func (b *Builder) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.buf, nil
}

// MustBytes is like Bytes but panics on error. For tests and fixtures.
func (b *Builder) MustBytes() []byte {
	data, err := b.Bytes()
	if err != nil {
		panic(err)
	}
	return data
}
