package record

// Kind is the closed set of record layouts.
type Kind uint8

const (
	// KindUnknown is the zero Kind; it is never the result of a successful lookup.
	KindUnknown Kind = iota
	KindActivityCreation
	KindActivityCompletion
	KindDynamicScopeStart
	KindDynamicScopeEnd
	KindPassiveEntityCreation
	KindPassiveEntityCompletion
	KindSendOp
	KindReceiveOp
	KindImplThread
	KindImplThreadCurrentActivity

	kindCount
)

// sectionSize is the encoded size of a SourceSection.
const sectionSize = 8

// MaxRecordSize is the size of the largest record, marker included.
// Buffer low-water marks must be at least this large.
const MaxRecordSize = 11 + sectionSize

var kindSizes = [kindCount]int{
	KindActivityCreation:          11 + sectionSize,
	KindActivityCompletion:        1,
	KindDynamicScopeStart:         9 + sectionSize,
	KindDynamicScopeEnd:           1,
	KindPassiveEntityCreation:     9 + sectionSize,
	KindPassiveEntityCompletion:   0,
	KindSendOp:                    17,
	KindReceiveOp:                 9,
	KindImplThread:                9,
	KindImplThreadCurrentActivity: 13,
}

var kindNames = [kindCount]string{
	KindUnknown:                   "Unknown",
	KindActivityCreation:          "ActivityCreation",
	KindActivityCompletion:        "ActivityCompletion",
	KindDynamicScopeStart:         "DynamicScopeStart",
	KindDynamicScopeEnd:           "DynamicScopeEnd",
	KindPassiveEntityCreation:     "PassiveEntityCreation",
	KindPassiveEntityCompletion:   "PassiveEntityCompletion",
	KindSendOp:                    "SendOp",
	KindReceiveOp:                 "ReceiveOp",
	KindImplThread:                "ImplThread",
	KindImplThreadCurrentActivity: "ImplThreadCurrentActivity",
}

// Kinds lists every valid Kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindActivityCreation; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Valid reports whether k is a known record kind.
func (k Kind) Valid() bool {
	return k > KindUnknown && k < kindCount
}

// Size returns the declared record size in bytes, marker included.
func (k Kind) Size() int {
	if !k.Valid() {
		return 0
	}
	return kindSizes[k]
}

// PayloadSize returns the number of bytes that follow the marker.
func (k Kind) PayloadSize() int {
	if s := k.Size(); s > 1 {
		return s - 1
	}
	return 0
}

// String returns the kind name.
func (k Kind) String() string {
	if k >= kindCount {
		return "Unknown"
	}
	return kindNames[k]
}
