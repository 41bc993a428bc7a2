package causality

import (
	"fmt"
	"io"
	"strings"
)

// describeActor renders an activity id for reports.
func describeActor(id int64) string {
	if id == None {
		return "?"
	}
	return fmt.Sprintf("%d", id)
}

// Format writes a human-readable rendering of the chain:
//
//	==================
//	CAUSAL CHAIN for message 3 (3 messages)
//	#0 message 3: 7 -> 9 [ACTOR_MSG_SEND] parent 2 @ 0x4f
//	#1 message 2: 9 -> 7 [ACTOR_MSG_SEND] parent 1 @ 0x2b
//	#2 message 1: 7 -> 9 [ACTOR_MSG_SEND] root @ 0x12
//	==================
//
// Promise messages show the promise id next to the marker, and an
// unresolved receiver prints as "?". A partial chain ends with the missing
// parent id; a cyclic chain ends with the id that repeated.
//
//nolint:errcheck // Error handling omitted for report formatting
func (c Chain) Format(w io.Writer) {
	fmt.Fprintf(w, "==================\n")
	if len(c.Messages) == 0 {
		fmt.Fprintf(w, "CAUSAL CHAIN (empty)\n")
		fmt.Fprintf(w, "==================\n")
		return
	}

	fmt.Fprintf(w, "CAUSAL CHAIN for message %d (%d messages)\n", c.Messages[0].ID, len(c.Messages))
	for i, m := range c.Messages {
		fmt.Fprintf(w, "#%d message %d: %s -> %s [%s",
			i, m.ID, describeActor(m.Sender), describeActor(m.Receiver), m.Marker)
		if m.IsPromise() {
			fmt.Fprintf(w, " promise %d", m.Promise)
		}
		fmt.Fprintf(w, "]")
		if m.IsRoot() {
			fmt.Fprintf(w, " root")
		} else {
			fmt.Fprintf(w, " parent %d", m.Parent)
		}
		if m.Lane != NoLane {
			fmt.Fprintf(w, " lane %d", m.Lane)
		}
		fmt.Fprintf(w, " @ 0x%x\n", m.Offset)
	}

	switch {
	case c.Partial:
		fmt.Fprintf(w, "PARTIAL: parent %d was never sent\n", c.MissingParent)
	case c.Cycle:
		fmt.Fprintf(w, "CYCLE: parent %d already visited\n", c.Messages[len(c.Messages)-1].Parent)
	}
	fmt.Fprintf(w, "==================\n")
}

// String returns the Format output.
func (c Chain) String() string {
	var buf strings.Builder
	c.Format(&buf)
	return buf.String()
}
