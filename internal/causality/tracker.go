package causality

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kolkov/tracechain/internal/trace/marker"
	"github.com/kolkov/tracechain/internal/trace/provenance"
	"github.com/kolkov/tracechain/internal/trace/record"
)

// Options configures a Tracker.
type Options struct {
	// Strict turns reused message ids and reused pending promise ids into
	// DuplicateErrors. By default the later send silently wins.
	Strict bool

	// TrackChannelSends records CHANNEL_MSG_SEND as messages (receiver =
	// channel id). By default channel sends have no causal effect.
	TrackChannelSends bool

	// SingleLane ignores IMPL_THREAD records and keeps one global current
	// activity and scope stack, as older tools did.
	SingleLane bool

	// Logger receives debug and warning output. Nil means no logging.
	Logger *zap.Logger
}

// Stats counts what the tracker has seen.
type Stats struct {
	Events           uint64 // Events applied
	Messages         uint64 // Message sends recorded (including overwrites)
	Overwrites       uint64 // Message ids reused
	PromiseSends     uint64 // Promise sends and resolutions recorded
	PromisesResolved uint64 // Pending promises resolved by a turn start
	PendingReplaced  uint64 // Pending promise ids reused
	ChannelSends     uint64 // Channel sends seen
	SelfParented     uint64 // Sends whose id equals the enclosing turn id
	Completions      uint64 // Activity and passive entity completion markers
	LaneSwitches     uint64 // IMPL_THREAD records
	MaxDepth         int    // Deepest scope nesting on any lane
}

// Tracker folds trace events into a causal message graph.
//
// A Tracker is single-owner state: it must be fed events in stream order
// by one goroutine. Errors returned by Apply are fatal; the tracker should
// be discarded after one.
type Tracker struct {
	opts Options
	log  *zap.Logger

	lanes map[int64]*Lane
	lane  *Lane // lane described by the records being applied

	messages map[int64]*Message
	pending  map[int64]*Message // promise id -> message awaiting resolution
	sends    []int64            // direct send ids in stream order

	entities *EntityTable
	depot    *provenance.Depot
	stats    Stats
}

// NewTracker creates a tracker with empty state.
func NewTracker(opts Options) *Tracker {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	t := &Tracker{
		opts:     opts,
		log:      log,
		lanes:    make(map[int64]*Lane),
		messages: make(map[int64]*Message),
		pending:  make(map[int64]*Message),
		entities: newEntityTable(),
		depot:    provenance.NewDepot(),
	}
	t.lane = t.laneFor(NoLane)
	return t
}

func (t *Tracker) laneFor(id int64) *Lane {
	l, ok := t.lanes[id]
	if !ok {
		l = newLane(id)
		t.lanes[id] = l
	}
	return l
}

// Lane returns the lane subsequent events apply to.
func (t *Tracker) Lane() *Lane {
	return t.lane
}

// Stats returns the tracker counters.
func (t *Tracker) Stats() Stats {
	return t.stats
}

// Apply folds one event into the tracker state.
//
// Events must be applied in stream order: a promise send is only resolved
// by a TURN_START that comes after it.
//
// Returns:
//   - *record.FormatError: scope end on an empty scope stack of the lane
//   - *DuplicateError: reused message or pending promise id (Strict only)
//   - a plain error for an Event implementation outside package record
//
// Performance: constant time per event apart from map growth. Scope and
// lane events do not allocate once the lane exists.
//
// Thread Safety: NOT safe for concurrent use. A Tracker has one owner,
// normally the loop driving the decoder.
func (t *Tracker) Apply(ev record.Event) error {
	t.stats.Events++

	switch e := ev.(type) {
	case record.ActivityCreation:
		t.entities.define(e.ID, EntityActivity, e.Marker(), e.Symbol, t.depot.Intern(e.Section))

	case record.ActivityCompletion, record.EntityCompletion:
		t.stats.Completions++

	case record.ScopeStart:
		t.scopeStart(e)

	case record.ScopeEnd:
		return t.scopeEnd(e)

	case record.EntityCreation:
		t.entities.define(e.ID, EntityPassive, e.Marker(), 0, t.depot.Intern(e.Section))

	case record.Receive:
		t.entities.getOrCreate(e.SourceID).Receives++

	case record.Send:
		return t.send(e)

	case record.ImplThread:
		t.stats.LaneSwitches++
		if !t.opts.SingleLane {
			t.lane = t.laneFor(e.LaneID)
			t.log.Debug("lane switch", zap.Int64("lane", e.LaneID), zap.Int64("activity", t.lane.Activity))
		}

	case record.CurrentActivity:
		t.lane.Activity = e.ActivityID

	default:
		return fmt.Errorf("causality: unsupported event %T", ev)
	}
	return nil
}

func (t *Tracker) scopeStart(e record.ScopeStart) {
	t.lane.push(e.ID, e.Marker())
	if d := t.lane.Depth(); d > t.stats.MaxDepth {
		t.stats.MaxDepth = d
	}
	if e.Marker() != marker.TurnStart {
		return
	}

	m, ok := t.pending[e.ID]
	if !ok {
		return
	}
	m.Receiver = t.lane.Activity
	delete(t.pending, e.ID)
	t.stats.PromisesResolved++
	t.log.Debug("promise resolved",
		zap.Int64("promise", e.ID),
		zap.Int64("message", m.ID),
		zap.Int64("receiver", m.Receiver))
}

// scopeEnds pairs each scope start marker with its end marker.
var scopeEnds = map[marker.Name]marker.Name{
	marker.TurnStart:        marker.TurnEnd,
	marker.MonitorEnter:     marker.MonitorExit,
	marker.TransactionStart: marker.TransactionEnd,
}

func (t *Tracker) scopeEnd(e record.ScopeEnd) error {
	s, ok := t.lane.pop()
	if !ok {
		return record.NewFormatErrorWithSuggestion(e.Offset(), e.Code, e.Marker(),
			"scope end without an open scope",
			"the trace may start in the middle of a turn or mix lanes without IMPL_THREAD records")
	}
	if scopeEnds[s.marker] != e.Marker() {
		t.log.Debug("scope end does not match open scope",
			zap.Int64("offset", e.Offset()),
			zap.Stringer("open", s.marker),
			zap.Stringer("end", e.Marker()),
			zap.Int64("scope", s.id))
	}
	return nil
}

func (t *Tracker) send(e record.Send) error {
	name := e.Marker()
	switch {
	case name.IsDirectSend():
	case name.IsPromiseSend():
	case name.IsChannelSend():
		t.stats.ChannelSends++
		if !t.opts.TrackChannelSends {
			return nil
		}
	default:
		return nil
	}

	turn := t.lane.CurrentTurn()
	if turn != None && turn == e.EntityID {
		t.stats.SelfParented++
		t.log.Debug("send id equals enclosing turn", zap.Int64("id", e.EntityID))
	}

	m := &Message{
		ID:       e.EntityID,
		Sender:   t.lane.Activity,
		Receiver: e.TargetID,
		Parent:   turn,
		Promise:  None,
		Lane:     t.lane.ID,
		Marker:   name,
		Offset:   e.Offset(),
	}
	if name.IsPromiseSend() {
		m.Receiver = Unresolved
		m.Promise = e.TargetID
	}

	if err := t.store(m); err != nil {
		return err
	}

	if name.IsDirectSend() {
		t.sends = append(t.sends, m.ID)
	}
	if m.IsPromise() {
		return t.park(m)
	}
	return nil
}

// store inserts m into the message table. A reused id replaces the earlier
// message; if that message was still pending, its pending entry goes too.
func (t *Tracker) store(m *Message) error {
	t.stats.Messages++
	prev, dup := t.messages[m.ID]
	if !dup {
		t.messages[m.ID] = m
		return nil
	}
	if t.opts.Strict {
		return &DuplicateError{ID: m.ID, Offset: m.Offset}
	}

	t.stats.Overwrites++
	t.log.Debug("message id reused", zap.Int64("id", m.ID), zap.Int64("offset", m.Offset))
	if prev.IsPromise() && t.pending[prev.Promise] == prev {
		delete(t.pending, prev.Promise)
	}
	t.messages[m.ID] = m
	return nil
}

// park registers a promise message until its resolving turn begins.
func (t *Tracker) park(m *Message) error {
	t.stats.PromiseSends++
	if _, dup := t.pending[m.Promise]; dup {
		if t.opts.Strict {
			return &DuplicateError{ID: m.Promise, Offset: m.Offset, Promise: true}
		}
		t.stats.PendingReplaced++
		t.log.Debug("pending promise replaced", zap.Int64("promise", m.Promise), zap.Int64("message", m.ID))
	}
	t.pending[m.Promise] = m
	return nil
}

// Finish freezes the tracker state into a Graph.
//
// Promise messages still pending keep an Unresolved receiver; they are
// reported at warn level but are not an error. The tracker may not be
// used after Finish.
func (t *Tracker) Finish() *Graph {
	if n := len(t.pending); n > 0 {
		t.log.Warn("unresolved promise messages at end of trace", zap.Int("count", n))
	}
	for _, l := range t.lanes {
		if l.Depth() > 0 {
			t.log.Debug("scopes left open at end of trace", zap.Int64("lane", l.ID), zap.Int("depth", l.Depth()))
		}
	}
	return t.graph()
}

func (t *Tracker) graph() *Graph {
	g := &Graph{
		messages: make(map[int64]Message, len(t.messages)),
		pending:  make(map[int64]int64, len(t.pending)),
		sends:    append([]int64(nil), t.sends...),
		entities: t.entities.clone(),
		depot:    t.depot,
		stats:    t.stats,
	}
	for id, m := range t.messages {
		g.messages[id] = *m
	}
	for promise, m := range t.pending {
		g.pending[promise] = m.ID
	}
	return g
}
