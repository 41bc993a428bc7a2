// Package record implements the record dispatch table and the per-kind
// record decoder for the actor runtime trace format.
//
// A trace is a sequence of records. Each record is one marker byte followed
// by a fixed-size, big-endian payload whose layout depends only on the
// record Kind the marker maps to:
//
//	Kind                     Size  Payload
//	ActivityCreation          19   id(8) symbol(2) section(8)
//	ActivityCompletion         1   -
//	DynamicScopeStart         17   id(8) section(8)
//	DynamicScopeEnd            1   -
//	PassiveEntityCreation     17   id(8) section(8)
//	PassiveEntityCompletion    0   -
//	SendOp                    17   entity(8) target(8)
//	ReceiveOp                  9   source(8)
//	ImplThread                 9   lane(8)
//	ImplThreadCurrentActivity 13   activity(8) buffer(4)
//
// Size counts the marker byte; the payload is Size-1 bytes (PassiveEntity-
// Completion is a bare marker). A section is four 2-byte fields: file id,
// start line, start column and length.
//
// Decoding is a pure function of (Kind, payload). Each Kind has its own
// decode function and every decode verifies that it consumed exactly
// PayloadSize bytes; a disagreement between the table and a decode function
// is reported as a FormatError and never silently absorbed.
package record
