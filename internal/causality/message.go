package causality

import "github.com/kolkov/tracechain/internal/trace/marker"

// None is the id sentinel for "no activity", "no turn" and "no parent".
const None int64 = -1

// Unresolved is the receiver of a promise message whose resolving turn has
// not been seen.
const Unresolved = None

// Message is a node of the causal graph: one message send.
type Message struct {
	// ID is the sender-local entity id carried by the send record.
	ID int64

	// Sender is the activity current on the sending lane, or None.
	Sender int64

	// Receiver is the target actor. For promise messages it is Unresolved
	// until a turn with the promise's id begins.
	Receiver int64

	// Parent is the id of the innermost turn enclosing the send, or None.
	Parent int64

	// Promise is the promise the message was sent through, or None for
	// direct sends.
	Promise int64

	// Lane is the implementation thread the send was recorded on.
	Lane int64

	// Marker is the send variant.
	Marker marker.Name

	// Offset is the stream position of the send record.
	Offset int64
}

// IsPromise reports whether m was sent through a promise.
func (m Message) IsPromise() bool {
	return m.Promise != None
}

// Resolved reports whether m's receiver is known.
func (m Message) Resolved() bool {
	return m.Receiver != Unresolved
}

// IsRoot reports whether m has no causal parent.
func (m Message) IsRoot() bool {
	return m.Parent == None
}
