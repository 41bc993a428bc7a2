// Package marker defines the symbolic record markers of the actor runtime
// trace format and the table that assigns them one-byte codes.
//
// Every trace record starts with a single marker byte. The byte value itself
// is opaque: the runtime that produced the trace decides which code stands
// for which marker, and the assignment is supplied to the decoder as a Table.
// Default returns the assignment used by the reference runtime; LoadTable
// reads an alternative assignment from YAML.
//
// Example table file:
//
//	format_version: v1.0.0
//	codes:
//	  PROCESS_CREATION: 1
//	  ACTOR_MSG_SEND: 6
//	  TURN_START: 13
//	  ...
//
// Only names are interpreted by the rest of the pipeline. Code values never
// leave the record dispatch table.
package marker
