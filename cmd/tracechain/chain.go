package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kolkov/tracechain/tracechain"
)

func newChainCmd(a *app) *cobra.Command {
	var message int64

	cmd := &cobra.Command{
		Use:   "chain <trace>",
		Short: "Print the causal chain of a message",
		Long: `Decodes the trace, tracks message causality and prints the chain of
messages from --message back to its root.

Without --message the second actor message send of the trace is used (the
first when there is only one).

A chain that stops at a parent that was never sent, or at a cycle, is
printed with a PARTIAL or CYCLE line and is not an error.`,
		Example: `  tracechain chain actors.trace --message 42
  tracechain chain actors.trace --strict --marker-table markers.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}

			return a.analyze(cmd.Context(), args[0], opts, func(res *tracechain.Result) error {
				id := message
				if !cmd.Flags().Changed("message") {
					var ok bool
					if id, ok = res.DefaultMessage(); !ok {
						return errors.New("trace contains no actor message sends; use --message")
					}
					a.logger.Debug("no --message given, using default", zap.Int64("message", id))
				}

				c, err := res.ChainOf(id)
				if err != nil {
					return err
				}
				c.Format(cmd.OutOrStdout())

				if n := len(res.Graph.Pending()); n > 0 {
					fmt.Fprintf(cmd.ErrOrStderr(), "note: %d promise message(s) never resolved\n", n)
				}
				return nil
			})
		},
	}
	cmd.Flags().Int64VarP(&message, "message", "m", 0, "message id to explain")
	return cmd
}
