// Package tracechain reconstructs the causal ancestry of messages from the
// binary execution traces written by an instrumented actor runtime.
//
// A trace is an append-only sequence of fixed-size records, each a one-byte
// marker followed by big-endian fields. tracechain decodes the stream in a
// single pass, folds every record into a causal graph and answers chain
// queries on the frozen result:
//
//	res, err := tracechain.AnalyzeFile(ctx, "actors.trace", tracechain.Options{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	chain, err := res.ChainOf(42)
//	if err != nil {
//		log.Fatal(err) // errors.Is(err, tracechain.ErrNotFound)
//	}
//	fmt.Print(chain)
//
// # Causality
//
// A message's parent is the turn open on the sending thread when it was
// sent. Turns carry the id of the message that started them, so parents
// can be followed message to message until a send made outside any turn.
//
// Promise sends learn their receiver late: the message is parked under the
// promise id and resolved when a turn with that id begins. Promises never
// resolved keep the receiver None; this is reported, not an error.
//
// # Errors
//
// Structural problems abort the run and nothing is returned:
//   - [FormatError]: unknown marker byte or a scope end with no open scope
//   - [TruncatedError]: the stream ends inside a record
//   - [DuplicateError]: a reused id, only with Options.Strict
//
// Query problems are local to the query:
//   - [LookupError]: the message id is not in the graph
//   - Chain.Partial and Chain.Cycle: the walk stopped early
//
// # Marker Tables
//
// Marker byte codes are assigned by the runtime that wrote the trace.
// [DefaultMarkerTable] matches the reference runtime; other assignments are
// loaded from YAML with [LoadMarkerTable]:
//
//	format_version: v1.0.0
//	codes:
//	  PROCESS_CREATION: 1
//	  ACTOR_MSG_SEND: 6
//	  ...
//
// # Concurrency
//
// One Analyze call decodes one stream on the calling goroutine. The
// returned Graph is immutable and safe for concurrent queries.
package tracechain
