package record

import (
	"fmt"

	"github.com/kolkov/tracechain/internal/trace/marker"
)

// SourceSection locates the code that produced a record.
// It is carried for provenance only and has no causal meaning.
type SourceSection struct {
	FileID      uint16
	StartLine   uint16
	StartColumn uint16
	Length      uint16
}

// String formats the section as "file:line:col+len".
func (s SourceSection) String() string {
	return fmt.Sprintf("%d:%d:%d+%d", s.FileID, s.StartLine, s.StartColumn, s.Length)
}

// Event is a decoded trace record.
//
// The concrete type identifies the record kind; use a type switch to
// dispatch on it.
type Event interface {
	// Kind returns the record layout the event was decoded from.
	Kind() Kind
	// Marker returns the symbolic marker of the record.
	Marker() marker.Name
	// Offset returns the stream position of the record's marker byte.
	Offset() int64
}

// Header holds the fields common to every event.
type Header struct {
	Mark marker.Name
	Pos  int64
	Code byte // raw marker byte as read; zero for events built in memory
}

// Marker implements Event.
func (h Header) Marker() marker.Name { return h.Mark }

// Offset implements Event.
func (h Header) Offset() int64 { return h.Pos }

// ActivityCreation records a new process, actor, task or thread.
type ActivityCreation struct {
	Header
	ID      int64
	Symbol  uint16
	Section SourceSection
}

// Kind implements Event.
func (ActivityCreation) Kind() Kind { return KindActivityCreation }

// ActivityCompletion marks the end of an activity.
type ActivityCompletion struct {
	Header
}

// Kind implements Event.
func (ActivityCompletion) Kind() Kind { return KindActivityCompletion }

// ScopeStart opens a turn, monitor or transaction scope.
type ScopeStart struct {
	Header
	ID      int64
	Section SourceSection
}

// Kind implements Event.
func (ScopeStart) Kind() Kind { return KindDynamicScopeStart }

// ScopeEnd closes the innermost open scope.
type ScopeEnd struct {
	Header
}

// Kind implements Event.
func (ScopeEnd) Kind() Kind { return KindDynamicScopeEnd }

// EntityCreation records a new channel or promise.
type EntityCreation struct {
	Header
	ID      int64
	Section SourceSection
}

// Kind implements Event.
func (EntityCreation) Kind() Kind { return KindPassiveEntityCreation }

// EntityCompletion marks the end of a passive entity.
type EntityCompletion struct {
	Header
}

// Kind implements Event.
func (EntityCompletion) Kind() Kind { return KindPassiveEntityCompletion }

// Send records a message send or promise resolution.
//
// EntityID is the sender-local id of the message; TargetID is the receiving
// actor for direct sends and the promise for promise sends.
type Send struct {
	Header
	EntityID int64
	TargetID int64
}

// Kind implements Event.
func (Send) Kind() Kind { return KindSendOp }

// Receive records a channel receive or a task/thread join.
type Receive struct {
	Header
	SourceID int64
}

// Kind implements Event.
func (Receive) Kind() Kind { return KindReceiveOp }

// ImplThread selects the implementation thread (lane) that subsequent
// records describe.
type ImplThread struct {
	Header
	LaneID int64
}

// Kind implements Event.
func (ImplThread) Kind() Kind { return KindImplThread }

// CurrentActivity sets the activity running on the current lane.
type CurrentActivity struct {
	Header
	ActivityID int64
	BufferID   uint32
}

// Kind implements Event.
func (CurrentActivity) Kind() Kind { return KindImplThreadCurrentActivity }
