package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kolkov/tracechain/internal/trace/tracegen"
)

func newSynthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "synth <out>",
		Short: "Write a small sample trace",
		Long: `Writes a well-formed two-lane trace using the active marker table.
The sample covers direct sends, a promise resolved by a later turn, a
monitor scope and a channel send. Use "-" to write to stdout.

The causal chain of message 14 in the sample is 14 -> 12 -> 10.`,
		Example: `  tracechain synth sample.trace && tracechain chain sample.trace -m 14`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.markers()
			if err != nil {
				return err
			}
			data, err := tracegen.Sample(table)
			if err != nil {
				return err
			}

			if args[0] == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return fmt.Errorf("failed to write trace: %w", err)
			}
			a.logger.Info("sample trace written", zap.String("path", args[0]), zap.Int("bytes", len(data)))
			return nil
		},
	}
}
