// Package provenance implements deduplicated storage for the source
// sections attached to trace records.
//
// Most records of a trace point at a small set of source locations (the
// same actor class, the same send site), so sections are interned once and
// referenced by a 64-bit handle, the FNV-1a hash of the encoded section.
//
// Design:
//   - One Depot per decode run, owned by the causality tracker
//   - Hash-based deduplication (FNV-1a over the 8 encoded bytes)
//   - Handle 0 means "no section"
//
// Usage:
//
//	d := provenance.NewDepot()
//	h := d.Intern(ev.Section)
//	...
//	sec, ok := d.Get(h)
package provenance

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/kolkov/tracechain/internal/trace/record"
)

// Handle identifies an interned section. The zero Handle is never issued.
type Handle uint64

// Depot is a deduplicating store of source sections.
//
// Not safe for concurrent use.
type Depot struct {
	sections map[Handle]record.SourceSection
	interned uint64 // Intern calls, including duplicates
}

// NewDepot creates an empty depot.
func NewDepot() *Depot {
	return &Depot{sections: make(map[Handle]record.SourceSection)}
}

// Intern stores s if it is new and returns its handle.
//
// Identical sections always yield the same handle. On the (astronomically
// unlikely) event of a hash collision between different sections, the
// first section stored keeps the handle and the later one is probed
// linearly to the next free value.
//
// The zero section means "not recorded" and always yields handle 0.
func (d *Depot) Intern(s record.SourceSection) Handle {
	d.interned++
	if s == (record.SourceSection{}) {
		return 0
	}
	h := hashSection(s)
	for {
		prev, ok := d.sections[h]
		if !ok {
			d.sections[h] = s
			return h
		}
		if prev == s {
			return h
		}
		h++
		if h == 0 {
			h = 1
		}
	}
}

// Get returns the section for h.
func (d *Depot) Get(h Handle) (record.SourceSection, bool) {
	if h == 0 {
		return record.SourceSection{}, false
	}
	s, ok := d.sections[h]
	return s, ok
}

// Stats returns the number of unique sections and the number of Intern calls.
func (d *Depot) Stats() (unique int, interned uint64) {
	return len(d.sections), d.interned
}

func hashSection(s record.SourceSection) Handle {
	var buf [8]byte
	binary.BigEndian.PutUint16(buf[0:], s.FileID)
	binary.BigEndian.PutUint16(buf[2:], s.StartLine)
	binary.BigEndian.PutUint16(buf[4:], s.StartColumn)
	binary.BigEndian.PutUint16(buf[6:], s.Length)

	h := fnv.New64a()
	_, _ = h.Write(buf[:]) // Write never returns an error for hash.Hash.
	if sum := Handle(h.Sum64()); sum != 0 {
		return sum
	}
	return 1
}
