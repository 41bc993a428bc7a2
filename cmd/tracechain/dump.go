package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kolkov/tracechain/internal/trace/record"
	"github.com/kolkov/tracechain/tracechain"
)

func newDumpCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "dump <trace>",
		Short: "Print one line per decoded record",
		Long: `Prints every record of the trace with its offset, marker and fields.
Records decoded before a structural error are printed before the error is
reported, which helps locating corruption.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			n := 0
			opts.Observer = func(ev tracechain.Event) {
				n++
				if limit > 0 && n > limit {
					return
				}
				writeEvent(w, ev)
			}
			return a.analyze(cmd.Context(), args[0], opts, nil)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "print at most this many records (0 = all)")
	return cmd
}

// writeEvent prints ev as "offset marker fields".
//
//nolint:errcheck // Error handling omitted for console output
func writeEvent(w io.Writer, ev record.Event) {
	fmt.Fprintf(w, "%08x %-28s %s\n", ev.Offset(), ev.Marker(), describe(ev))
}

func describe(ev record.Event) string {
	switch e := ev.(type) {
	case record.ActivityCreation:
		return fmt.Sprintf("id=%d symbol=%d section=%s", e.ID, e.Symbol, e.Section)
	case record.ScopeStart:
		return fmt.Sprintf("id=%d section=%s", e.ID, e.Section)
	case record.EntityCreation:
		return fmt.Sprintf("id=%d section=%s", e.ID, e.Section)
	case record.Send:
		return fmt.Sprintf("id=%d target=%d", e.EntityID, e.TargetID)
	case record.Receive:
		return fmt.Sprintf("source=%d", e.SourceID)
	case record.ImplThread:
		return fmt.Sprintf("lane=%d", e.LaneID)
	case record.CurrentActivity:
		return fmt.Sprintf("activity=%d buffer=%d", e.ActivityID, e.BufferID)
	default:
		return ""
	}
}
