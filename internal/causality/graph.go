package causality

import (
	"sort"

	"github.com/kolkov/tracechain/internal/trace/provenance"
	"github.com/kolkov/tracechain/internal/trace/record"
)

// Graph is the frozen result of a tracking pass.
//
// A Graph never changes after Finish returns it, so it may be queried from
// any number of goroutines. Failed queries leave it untouched.
type Graph struct {
	messages map[int64]Message
	pending  map[int64]int64 // promise id -> message id
	sends    []int64
	entities *EntityTable
	depot    *provenance.Depot
	stats    Stats
}

// Len returns the number of messages.
func (g *Graph) Len() int {
	return len(g.messages)
}

// Message returns the message with the given id.
func (g *Graph) Message(id int64) (Message, bool) {
	m, ok := g.messages[id]
	return m, ok
}

// Messages returns every message sorted by stream offset.
func (g *Graph) Messages() []Message {
	out := make([]Message, 0, len(g.messages))
	for _, m := range g.messages {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Offset != out[j].Offset {
			return out[i].Offset < out[j].Offset
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Roots returns the messages with no causal parent, in stream order.
func (g *Graph) Roots() []Message {
	var out []Message
	for _, m := range g.Messages() {
		if m.IsRoot() {
			out = append(out, m)
		}
	}
	return out
}

// Children returns the messages whose parent is id, in stream order.
func (g *Graph) Children(id int64) []Message {
	var out []Message
	for _, m := range g.Messages() {
		if m.Parent == id && m.ID != id {
			out = append(out, m)
		}
	}
	return out
}

// Pending returns the messages whose promise was never resolved, sorted by
// promise id.
func (g *Graph) Pending() []Message {
	promises := make([]int64, 0, len(g.pending))
	for p := range g.pending {
		promises = append(promises, p)
	}
	sort.Slice(promises, func(i, j int) bool { return promises[i] < promises[j] })

	out := make([]Message, 0, len(promises))
	for _, p := range promises {
		if m, ok := g.messages[g.pending[p]]; ok {
			out = append(out, m)
		}
	}
	return out
}

// NthSend returns the id of the n-th direct actor message send (1-based) in
// stream order. Reused ids are counted once per send record.
func (g *Graph) NthSend(n int) (int64, bool) {
	if n < 1 || n > len(g.sends) {
		return None, false
	}
	return g.sends[n-1], true
}

// Entity returns the entity table row for id.
func (g *Graph) Entity(id int64) (Entity, bool) {
	return g.entities.Get(id)
}

// Entities returns every entity sorted by id.
func (g *Graph) Entities() []Entity {
	return g.entities.All()
}

// Section resolves an entity's creation section.
func (g *Graph) Section(e Entity) (record.SourceSection, bool) {
	return g.depot.Get(e.Section)
}

// Sections returns the number of distinct source sections interned.
func (g *Graph) Sections() int {
	unique, _ := g.depot.Stats()
	return unique
}

// Stats returns the tracker counters at the time the graph was frozen.
func (g *Graph) Stats() Stats {
	return g.stats
}
