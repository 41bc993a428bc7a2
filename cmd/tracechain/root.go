package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kolkov/tracechain/internal/config"
	"github.com/kolkov/tracechain/internal/logging"
	"github.com/kolkov/tracechain/tracechain"
)

// app carries the state shared by all commands of one invocation.
type app struct {
	// Persistent flags.
	configPath        string
	verbose           bool
	strict            bool
	trackChannelSends bool
	singleLane        bool
	markerTable       string
	metricsFile       string

	cfg     *config.Config
	logger  *zap.Logger
	ownsLog bool
}

// newRootCmd builds the command tree. A non-nil logger is used as is,
// otherwise one is built from the configuration.
func newRootCmd(logger *zap.Logger) *cobra.Command {
	a := &app{logger: logger}

	root := &cobra.Command{
		Use:   "tracechain",
		Short: "Causal message chains from actor runtime traces",
		Long: `tracechain decodes binary execution traces written by an instrumented
actor runtime and reconstructs the causal ancestry of messages: for a given
message, the chain of sends and promise resolutions that led to it, back to
a root send made outside any turn.`,
		Version:           tracechain.Version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.ownsLog && a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetVersionTemplate("tracechain version {{.Version}}\n")

	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "YAML configuration file")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	f.BoolVar(&a.strict, "strict", false, "reject reused message and promise ids")
	f.BoolVar(&a.trackChannelSends, "track-channel-sends", false, "add channel sends to the causal graph")
	f.BoolVar(&a.singleLane, "single-lane", false, "ignore implementation thread switches")
	f.StringVar(&a.markerTable, "marker-table", "", "YAML marker table (default: built-in)")
	f.StringVar(&a.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run")

	root.AddCommand(
		newChainCmd(a),
		newStatsCmd(a),
		newDumpCmd(a),
		newSynthCmd(a),
		newMarkersCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("strict") {
		cfg.Tracker.Strict = a.strict
	}
	if flags.Changed("track-channel-sends") {
		cfg.Tracker.TrackChannelSends = a.trackChannelSends
	}
	if flags.Changed("single-lane") {
		cfg.Tracker.SingleLane = a.singleLane
	}
	if flags.Changed("marker-table") {
		cfg.MarkerTable = a.markerTable
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.Textfile = a.metricsFile
	}
	a.cfg = cfg

	if a.logger == nil {
		a.logger, err = logging.New(cfg.Logging, a.verbose)
		if err != nil {
			return err
		}
		a.ownsLog = true
	}
	a.logger.Debug("configuration loaded",
		zap.String("config", a.configPath),
		zap.String("marker_table", cfg.MarkerTable),
		zap.Bool("strict", cfg.Tracker.Strict))
	return nil
}

// markers returns the active marker table.
func (a *app) markers() (*tracechain.MarkerTable, error) {
	if a.cfg.MarkerTable == "" {
		return tracechain.DefaultMarkerTable(), nil
	}
	return tracechain.LoadMarkerTable(a.cfg.MarkerTable)
}

// options translates the configuration into analysis options.
func (a *app) options() (tracechain.Options, error) {
	table, err := a.markers()
	if err != nil {
		return tracechain.Options{}, err
	}
	opts := tracechain.Options{
		Markers:           table,
		WindowSize:        a.cfg.Buffer.Size,
		LowWater:          a.cfg.Buffer.LowWater,
		Strict:            a.cfg.Tracker.Strict,
		TrackChannelSends: a.cfg.Tracker.TrackChannelSends,
		SingleLane:        a.cfg.Tracker.SingleLane,
		Logger:            a.logger,
	}
	if a.cfg.Metrics.Textfile != "" {
		opts.Metrics = tracechain.NewMetrics()
	}
	return opts, nil
}

// analyze runs a full pass over path. done is called with the result (or
// nil on failure) before metrics are written, so chain queries are counted.
func (a *app) analyze(ctx context.Context, path string, opts tracechain.Options, done func(*tracechain.Result) error) error {
	res, err := tracechain.AnalyzeFile(ctx, path, opts)
	if err == nil && done != nil {
		err = done(res)
	}

	if opts.Metrics != nil {
		if werr := opts.Metrics.WriteTextfile(a.cfg.Metrics.Textfile); werr != nil {
			a.logger.Warn("metrics not written", zap.Error(werr))
		}
	}
	return err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := tracechain.GetInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "tracechain version %s\n", info.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "trace format %s, %d markers\n", info.FormatMajor, info.Markers)
			return nil
		},
	}
}
