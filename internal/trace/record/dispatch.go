package record

import (
	"fmt"

	"github.com/kolkov/tracechain/internal/trace/marker"
)

// kindOf is the fixed marker-to-layout mapping of the trace format.
// It is closed: every marker in marker.Names has exactly one entry.
var kindOf = map[marker.Name]Kind{
	marker.ProcessCreation:   KindActivityCreation,
	marker.ProcessCompletion: KindActivityCompletion,
	marker.ActorCreation:     KindActivityCreation,
	marker.TaskSpawn:         KindActivityCreation,
	marker.ThreadSpawn:       KindActivityCreation,

	marker.ActorMsgSend:      KindSendOp,
	marker.PromiseMsgSend:    KindSendOp,
	marker.ChannelMsgSend:    KindSendOp,
	marker.PromiseResolution: KindSendOp,

	marker.ChannelMsgRcv: KindReceiveOp,
	marker.TaskJoin:      KindReceiveOp,
	marker.ThreadJoin:    KindReceiveOp,

	marker.TurnStart:        KindDynamicScopeStart,
	marker.TurnEnd:          KindDynamicScopeEnd,
	marker.MonitorEnter:     KindDynamicScopeStart,
	marker.MonitorExit:      KindDynamicScopeEnd,
	marker.TransactionStart: KindDynamicScopeStart,
	marker.TransactionEnd:   KindDynamicScopeEnd,

	marker.ChannelCreation: KindPassiveEntityCreation,
	marker.PromiseCreation: KindPassiveEntityCreation,

	marker.ImplThread:                KindImplThread,
	marker.ImplThreadCurrentActivity: KindImplThreadCurrentActivity,
}

// KindOf returns the record layout used by marker n.
func KindOf(n marker.Name) (Kind, bool) {
	k, ok := kindOf[n]
	return k, ok
}

// DispatchTable resolves marker bytes to record kinds.
//
// It is built once from a marker.Table and is read-only afterwards.
type DispatchTable struct {
	kinds [256]Kind
	names [256]marker.Name
}

// NewDispatchTable builds the byte-indexed lookup for t.
func NewDispatchTable(t *marker.Table) (*DispatchTable, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	d := &DispatchTable{}
	for name, code := range t.Codes {
		k, ok := kindOf[name]
		if !ok {
			return nil, fmt.Errorf("dispatch: marker %s has no record layout", name)
		}
		d.kinds[code] = k
		d.names[code] = name
	}
	return d, nil
}

// Lookup returns the record kind and marker for code.
//
// offset is the stream position of the marker byte and is only used to
// annotate the error for an unknown code.
func (d *DispatchTable) Lookup(code byte, offset int64) (Kind, marker.Name, error) {
	k := d.kinds[code]
	if !k.Valid() {
		return KindUnknown, "", NewFormatErrorWithSuggestion(offset, code, "",
			"unknown marker byte",
			"check that the marker table matches the runtime that wrote the trace")
	}
	return k, d.names[code], nil
}

// Code returns the byte assigned to n, the inverse of Lookup.
func (d *DispatchTable) Code(n marker.Name) (byte, bool) {
	for i, name := range d.names {
		if name == n {
			return byte(i), true
		}
	}
	return 0, false
}
