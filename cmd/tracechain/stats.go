package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kolkov/tracechain/internal/trace/record"
	"github.com/kolkov/tracechain/tracechain"
)

func newStatsCmd(a *app) *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "stats <trace>",
		Short: "Print record, message and buffer statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := language.Parse(lang)
			if err != nil {
				return fmt.Errorf("invalid --lang: %w", err)
			}
			opts, err := a.options()
			if err != nil {
				return err
			}
			return a.analyze(cmd.Context(), args[0], opts, func(res *tracechain.Result) error {
				writeStats(message.NewPrinter(tag), cmd, res)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "en", "language for number formatting (BCP 47)")
	return cmd
}

//nolint:errcheck // Error handling omitted for console output
func writeStats(p *message.Printer, cmd *cobra.Command, res *tracechain.Result) {
	w := cmd.OutOrStdout()
	d := res.Decode
	t := res.Tracker()

	p.Fprintf(w, "Records:\n")
	for _, k := range record.Kinds() {
		if n := d.Records[k]; n > 0 {
			p.Fprintf(w, "  %-28s %12d\n", k.String(), n)
		}
	}
	p.Fprintf(w, "  %-28s %12d\n", "total", d.Total)

	p.Fprintf(w, "\nStream:\n")
	p.Fprintf(w, "  %-28s %12d\n", "bytes", d.Bytes)
	p.Fprintf(w, "  %-28s %12d\n", "source reads", d.Window.Reads)
	p.Fprintf(w, "  %-28s %12d\n", "window refills", d.Window.Refills)
	p.Fprintf(w, "  %-28s %12d\n", "window compactions", d.Window.Compacts)

	p.Fprintf(w, "\nCausality:\n")
	p.Fprintf(w, "  %-28s %12d\n", "messages", res.Graph.Len())
	p.Fprintf(w, "  %-28s %12d\n", "root messages", len(res.Graph.Roots()))
	p.Fprintf(w, "  %-28s %12d\n", "promises resolved", t.PromisesResolved)
	p.Fprintf(w, "  %-28s %12d\n", "promises unresolved", len(res.Graph.Pending()))
	p.Fprintf(w, "  %-28s %12d\n", "channel sends", t.ChannelSends)
	p.Fprintf(w, "  %-28s %12d\n", "reused message ids", t.Overwrites)
	p.Fprintf(w, "  %-28s %12d\n", "self-parented sends", t.SelfParented)
	p.Fprintf(w, "  %-28s %12d\n", "max scope depth", t.MaxDepth)
	p.Fprintf(w, "  %-28s %12d\n", "entities", len(res.Graph.Entities()))
	p.Fprintf(w, "  %-28s %12d\n", "source sections", res.Graph.Sections())
}
