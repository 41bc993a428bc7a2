// Package main implements the tracechain CLI tool.
//
// The tracechain tool reads binary execution traces written by an
// instrumented actor runtime and explains where a message came from:
//
//  1. Decoding the trace record by record
//  2. Tracking which turn every message was sent from
//  3. Resolving promise messages when their turn begins
//  4. Walking a message's parents back to the root send
//
// Usage:
//
//	tracechain chain actors.trace --message 42   # Causal chain of message 42
//	tracechain stats actors.trace                # Record and message counts
//	tracechain dump actors.trace                 # One line per record
//	tracechain synth sample.trace                # Write a sample trace
//	tracechain markers                           # Print the marker table
//
// Settings come from an optional YAML file (--config), TRACECHAIN_*
// environment variables and flags, in increasing order of precedence.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(nil).Execute(); err != nil {
		os.Exit(1)
	}
}
