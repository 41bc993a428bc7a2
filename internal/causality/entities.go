package causality

import (
	"sort"

	"github.com/kolkov/tracechain/internal/trace/marker"
	"github.com/kolkov/tracechain/internal/trace/provenance"
)

// EntityKind classifies entity table rows.
type EntityKind uint8

const (
	// EntityUnknown is an id only seen as the source of a receive or join.
	EntityUnknown EntityKind = iota
	// EntityActivity is a process, actor, task or thread.
	EntityActivity
	// EntityPassive is a channel or promise.
	EntityPassive
)

// String returns the kind name.
func (k EntityKind) String() string {
	switch k {
	case EntityActivity:
		return "activity"
	case EntityPassive:
		return "passive"
	default:
		return "unknown"
	}
}

// Entity is a row of the entity table, kept for diagnostics and provenance.
type Entity struct {
	ID       int64
	Kind     EntityKind
	Marker   marker.Name       // Creation marker (empty for EntityUnknown)
	Symbol   uint16            // Activity symbol id
	Section  provenance.Handle // Creation source section
	Receives int               // Receive/join records naming this id as source
}

// EntityTable maps entity ids to their creation records.
//
// Entries are created on first mention and never freed; completion
// markers do not remove them.
type EntityTable struct {
	rows map[int64]*Entity
}

func newEntityTable() *EntityTable {
	return &EntityTable{rows: make(map[int64]*Entity)}
}

// getOrCreate returns the row for id, creating an EntityUnknown row if needed.
func (t *EntityTable) getOrCreate(id int64) *Entity {
	if e, ok := t.rows[id]; ok {
		return e
	}
	e := &Entity{ID: id}
	t.rows[id] = e
	return e
}

// define records a creation. A later creation with the same id overwrites
// the earlier one but keeps its receive count.
func (t *EntityTable) define(id int64, kind EntityKind, m marker.Name, symbol uint16, sec provenance.Handle) {
	e := t.getOrCreate(id)
	e.Kind = kind
	e.Marker = m
	e.Symbol = symbol
	e.Section = sec
}

// Get returns a copy of the row for id.
func (t *EntityTable) Get(id int64) (Entity, bool) {
	e, ok := t.rows[id]
	if !ok {
		return Entity{}, false
	}
	return *e, true
}

// Len returns the number of rows.
func (t *EntityTable) Len() int {
	return len(t.rows)
}

// All returns every row sorted by id.
func (t *EntityTable) All() []Entity {
	out := make([]Entity, 0, len(t.rows))
	for _, e := range t.rows {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (t *EntityTable) clone() *EntityTable {
	c := &EntityTable{rows: make(map[int64]*Entity, len(t.rows))}
	for id, e := range t.rows {
		cp := *e
		c.rows[id] = &cp
	}
	return c
}
