package record

import (
	"encoding/binary"
	"fmt"
)

func putSection(b []byte, s SourceSection) []byte {
	b = binary.BigEndian.AppendUint16(b, s.FileID)
	b = binary.BigEndian.AppendUint16(b, s.StartLine)
	b = binary.BigEndian.AppendUint16(b, s.StartColumn)
	return binary.BigEndian.AppendUint16(b, s.Length)
}

//nolint:gosec // G115: ids round-trip through their two's complement form.
func putID(b []byte, id int64) []byte {
	return binary.BigEndian.AppendUint64(b, uint64(id))
}

// Append encodes ev, marker byte first, and appends it to b.
//
// The marker code is resolved through d, so the output is readable by a
// decoder built from the same marker table. The Header's Pos is ignored.
func (d *DispatchTable) Append(b []byte, ev Event) ([]byte, error) {
	code, ok := d.Code(ev.Marker())
	if !ok {
		return b, fmt.Errorf("encode: marker %q not in table", ev.Marker())
	}
	if k, _ := KindOf(ev.Marker()); k != ev.Kind() {
		return b, fmt.Errorf("encode: marker %s uses %s records, got %s", ev.Marker(), k, ev.Kind())
	}

	start := len(b)
	b = append(b, code)
	switch e := ev.(type) {
	case ActivityCreation:
		b = putID(b, e.ID)
		b = binary.BigEndian.AppendUint16(b, e.Symbol)
		b = putSection(b, e.Section)
	case ScopeStart:
		b = putID(b, e.ID)
		b = putSection(b, e.Section)
	case EntityCreation:
		b = putID(b, e.ID)
		b = putSection(b, e.Section)
	case Send:
		b = putID(b, e.EntityID)
		b = putID(b, e.TargetID)
	case Receive:
		b = putID(b, e.SourceID)
	case ImplThread:
		b = putID(b, e.LaneID)
	case CurrentActivity:
		b = putID(b, e.ActivityID)
		b = binary.BigEndian.AppendUint32(b, e.BufferID)
	case ActivityCompletion, ScopeEnd, EntityCompletion:
	default:
		return b[:start], fmt.Errorf("encode: unsupported event %T", ev)
	}

	if got, want := len(b)-start, 1+ev.Kind().PayloadSize(); got != want {
		return b[:start], fmt.Errorf("encode: %s encoded to %d bytes, declared %d", ev.Kind(), got, want)
	}
	return b, nil
}
