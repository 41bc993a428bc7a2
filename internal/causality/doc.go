// Package causality reconstructs the causal ancestry of asynchronous
// messages from a decoded actor runtime trace.
//
// # Architecture
//
// The package consists of three parts:
//
//  1. Tracker: a state machine folded over the event stream
//  2. Graph: the frozen message table produced at the end of the fold
//  3. Chain query: walks a message's parents up to its root
//
// # Causal Rules
//
// A message's causal parent is the turn that was executing on the sending
// lane when the message was sent. Turns are identified by the id of the
// message that started them, so following parents from message to message
// walks back through the turns that led to it:
//
//	send 1 (no turn)          -> parent -1 (root)
//	turn 1 { send 2 }         -> parent 1
//	turn 2 { send 3 }         -> parent 2
//
//	ChainOf(3) = [3, 2, 1]
//
// Promise sends and promise resolutions do not know their receiver when
// they happen. They are parked in a pending set keyed by the promise id and
// receive the lane's current activity as receiver when a turn whose id
// equals the promise id begins.
//
// # Lanes
//
// State that depends on "what is running right now" (current activity and
// the scope stack) is kept per implementation thread. IMPL_THREAD records
// switch lanes. Records seen before the first IMPL_THREAD belong to the
// implicit lane NoLane, so single-lane traces need no lane records at all.
//
// # Thread Safety
//
// A Tracker is owned by the single goroutine driving the decode. A Graph is
// immutable once returned and may be queried concurrently.
//
// # Example Usage
//
//	tr := causality.NewTracker(causality.Options{})
//	for each decoded event ev {
//		if err := tr.Apply(ev); err != nil { ... } // fatal
//	}
//	g := tr.Finish()
//	chain, err := g.ChainOf(42)
package causality
