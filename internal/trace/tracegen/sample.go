package tracegen

import (
	"github.com/kolkov/tracechain/internal/trace/marker"
	"github.com/kolkov/tracechain/internal/trace/record"
)

// Sample writes a small, well-formed two-lane trace exercising every
// causal rule: direct sends inside turns, a promise send resolved by a
// later turn, a monitor scope, a channel send and joins.
//
// The causal chain of message 14 is 14 -> 12 -> 10 (root).
func Sample(table *marker.Table) ([]byte, error) {
	sec := func(line uint16) record.SourceSection {
		return record.SourceSection{FileID: 1, StartLine: line, StartColumn: 3, Length: 20}
	}

	b := New(table)
	b.Lane(1).
		Spawn(marker.ProcessCreation, 1, 1, sec(1)).
		Spawn(marker.ActorCreation, 2, 2, sec(10)).
		Spawn(marker.ActorCreation, 3, 3, sec(20)).
		Current(1).
		Send(10, 2). // root: main -> actor 2
		Lane(2).
		Current(2).
		TurnStart(10).
		Event(record.EntityCreation{Header: h(marker.PromiseCreation), ID: 50, Section: sec(11)}).
		Send(12, 3).         // parent 10
		PromiseSend(13, 50). // parent 10, receiver pending on promise 50
		Scope(marker.MonitorEnter, 900).
		ChannelSend(11, 60).
		ScopeEnd(marker.MonitorExit).
		TurnEnd().
		Lane(1).
		Current(3).
		TurnStart(12).
		Send(14, 2). // parent 12
		TurnEnd().
		Current(2).
		TurnStart(50). // resolves 13 -> actor 2
		TurnEnd().
		Receive(60).
		Complete()
	return b.Bytes()
}
